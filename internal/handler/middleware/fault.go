package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tunehub/backend/pkg/response"
)

const redactedMessage = "Internal Server Error"

// FaultBoundary is the last-resort error responder. Any error recorded on the
// context by a stage or handler that has not already produced a response is
// answered with 500 and {"message": ...}: the fixed text in production, the
// error text otherwise. It must be registered before every other stage.
func FaultBoundary(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		message := redactedMessage
		if !production {
			message = c.Errors.Last().Err.Error()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorBody{Message: message})
	}
}
