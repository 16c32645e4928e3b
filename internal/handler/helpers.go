package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tunehub/backend/internal/handler/middleware"
	"tunehub/backend/pkg/response"
)

var ErrNoClaims = errors.New("claims not found in context")

// callerID returns the external id of the authenticated user.
func callerID(c *gin.Context) (string, error) {
	id, ok := middleware.UserIDFromContext(c)
	if !ok || id == "" {
		return "", ErrNoClaims
	}
	return id, nil
}

// uuidParam parses a path parameter and answers 400 when it is not a uuid.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
