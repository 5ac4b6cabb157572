package params

import (
	"net/http"
	"strconv"

	"tourmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// ID parses a positive integer path parameter, answering 400 when it is malformed.
func ID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}
