package middleware

import (
	"errors"
	"net/http"
	"strings"

	"tourmarket/internal/pkg/jwt"
	"tourmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type TokenValidator interface {
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token and stores the caller on the context.
func JWTAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "You are not logged in. Please log in to get access")
			c.Abort()
			return
		}

		raw, ok := bearerToken(authHeader)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				response.Error(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Your token has expired. Please log in again")
			} else {
				response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token. Please log in again")
			}
			c.Abort()
			return
		}

		setCaller(c, claims.UserID, claims.Role)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is sent and otherwise continues anonymously.
func OptionalAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := tokens.ValidateToken(raw); err == nil {
				setCaller(c, claims.UserID, claims.Role)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
