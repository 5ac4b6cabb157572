package middleware

import (
	"tourmarket/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// CallerFrom reads the identity placed on the context by JWTAuth or OptionalAuth.
func CallerFrom(c *gin.Context) domain.Caller {
	return domain.Caller{
		ID:   c.GetInt64(ctxUserID),
		Role: domain.UserRole(c.GetString(ctxRole)),
	}
}

func setCaller(c *gin.Context, userID int64, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxRole, role)
}
