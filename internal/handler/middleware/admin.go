package middleware

import (
	"github.com/gin-gonic/gin"

	"tunehub/backend/pkg/response"
)

// AdminAuth checks that the authenticated user is in the admin user list.
// Must be used after RequireAuth.
func AdminAuth(adminUserIDs []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(adminUserIDs))
	for _, id := range adminUserIDs {
		allowed[id] = struct{}{}
	}

	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			response.Unauthorized(c, "Unauthorized - you must be logged in")
			return
		}
		if _, isAdmin := allowed[userID]; !isAdmin {
			response.Forbidden(c, "Unauthorized - you must be an admin")
			return
		}
		c.Next()
	}
}

