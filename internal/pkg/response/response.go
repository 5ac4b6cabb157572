package response

import (
	"errors"
	"net/http"

	"tourmarket/internal/domain"
	"tourmarket/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"status": "success",
		"data":   data,
	})
}

func SuccessWithMessage(c *gin.Context, statusCode int, message string, data interface{}) {
	body := gin.H{
		"status":  "success",
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(statusCode, body)
}

// List writes a collection together with its result count.
func List(c *gin.Context, items interface{}, results int) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": results,
		"data":    items,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"status":  failureStatus(statusCode),
		"code":    code,
		"message": message,
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"status":  failureStatus(statusCode),
		"code":    code,
		"message": message,
		"details": details,
	})
}

// BindError answers a failed request bind, listing offending fields when the validator produced them.
func BindError(c *gin.Context, err error) {
	if fields := validator.Fields(err); fields != nil {
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", fields)
		return
	}
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
}

// FromError maps a service failure onto the HTTP envelope.
// Internal failures are recorded on the context for the request logger and answered opaquely.
func FromError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind == domain.KindInternal {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, string(domain.KindInternal), "Something went wrong")
		return
	}

	statusCode := StatusFor(de.Kind)
	body := gin.H{
		"status":  failureStatus(statusCode),
		"code":    string(de.Kind),
		"message": de.Message,
	}
	if de.AvailableSlots != nil {
		body["availableSlots"] = *de.AvailableSlots
	}
	c.JSON(statusCode, body)
}

func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindInvalidState, domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func failureStatus(statusCode int) string {
	if statusCode >= http.StatusInternalServerError {
		return "error"
	}
	return "fail"
}
