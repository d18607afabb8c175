package middleware

import (
	"net/http"
	"strings"

	"carwash/internal/domain"
	"carwash/internal/pkg/jwt"
	"carwash/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRoleID = "role_id"
)

// JWTAuth resolves the caller from a bearer token, or from the "token" query
// parameter when no header is sent (browsers cannot set headers on websockets).
func JWTAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c.GetHeader("Authorization"))
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header is required")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRoleID, domain.Role(claims.RoleID))
		c.Next()
	}
}

func bearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Actor returns the caller resolved by JWTAuth; the zero Actor when absent.
func Actor(c *gin.Context) domain.Actor {
	role, _ := c.Get(ctxRoleID)
	r, _ := role.(domain.Role)
	return domain.Actor{UserID: c.GetInt64(ctxUserID), Role: r}
}
