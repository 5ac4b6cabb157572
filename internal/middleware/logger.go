package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"tourmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
)

// RequestID reuses the incoming X-Request-ID or generates one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

// RequestLogger logs one line per request and recovers from panics.
// Errors attached with c.Error are logged with the request.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				requestEntry(log, c, start).
					WithField("panic", fmt.Sprintf("%v", recovered)).
					WithField("stack", string(debug.Stack())).
					Error("request panicked")

				response.Error(c, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
				c.Abort()
				return
			}

			entry := requestEntry(log, c, start)
			if len(c.Errors) > 0 {
				entry = entry.WithField("errors", c.Errors.String())
			}

			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				entry.Error("request failed")
			case status >= http.StatusBadRequest:
				entry.Warn("request rejected")
			default:
				entry.Info("request handled")
			}
		}()

		c.Next()
	}
}

func requestEntry(log logrus.FieldLogger, c *gin.Context, start time.Time) *logrus.Entry {
	caller := CallerFrom(c)
	return log.WithFields(logrus.Fields{
		"request_id": c.GetString(ctxRequestID),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"query":      c.Request.URL.RawQuery,
		"status":     c.Writer.Status(),
		"client_ip":  c.ClientIP(),
		"user_id":    caller.ID,
		"role":       caller.Role,
		"latency":    time.Since(start).String(),
	})
}
