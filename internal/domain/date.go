package domain

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// NormalizeDate reduces a date or timestamp to its UTC calendar day.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", InvalidInput("date is required")
	}
	if d, err := time.Parse(DateLayout, raw); err == nil {
		return d.Format(DateLayout), nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(DateLayout), nil
		}
	}
	return "", InvalidInput("invalid date: " + raw)
}

// NormalizeDates normalizes and de-duplicates a schedule, keeping first-seen order.
func NormalizeDates(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		d, err := NormalizeDate(r)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}
