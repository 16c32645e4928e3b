package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	jwtpkg "tunehub/backend/pkg/jwt"
	"tunehub/backend/pkg/response"
)

const (
	ContextKeyUserClaims = "user_claims"
	sessionCookieName    = "__session"
)

// AuthContext attaches the claims of a valid session token to the request.
// It never rejects: anonymous and invalid credentials simply leave no claims.
func AuthContext(jwtManager *jwtpkg.Manager) Stage {
	return Stage{
		Name: "auth_context",
		Run: func(c *gin.Context) error {
			token := extractToken(c)
			if token == "" {
				return nil
			}
			claims, err := jwtManager.Validate(token)
			if err != nil {
				return nil
			}
			c.Set(ContextKeyUserClaims, claims)
			return nil
		},
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	if token, err := c.Cookie(sessionCookieName); err == nil {
		return token
	}
	return ""
}

// ClaimsFromContext returns the claims set by AuthContext, if any.
func ClaimsFromContext(c *gin.Context) (*jwtpkg.Claims, bool) {
	val, ok := c.Get(ContextKeyUserClaims)
	if !ok {
		return nil, false
	}
	claims, ok := val.(*jwtpkg.Claims)
	return claims, ok
}

// UserIDFromContext returns the external user id of the caller.
func UserIDFromContext(c *gin.Context) (string, bool) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}

// RequireAuth rejects requests that reached it without claims.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ClaimsFromContext(c); !ok {
			response.Unauthorized(c, "Unauthorized - you must be logged in")
			return
		}
		c.Next()
	}
}
