package utils

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// StringsToJSON converts []string to a JSON column value (never null)
func StringsToJSON(items []string) datatypes.JSON {
	if len(items) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(items)
	return datatypes.JSON(data)
}

// JSONToStrings converts a JSON column back to []string
func JSONToStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	return items
}
