package middleware

import "github.com/gin-gonic/gin"

// Stage is one named step of the request pipeline. A stage either prepares
// the request for the next one or returns an error, which stops the chain and
// is rendered by FaultBoundary. A stage may also abort the context itself to
// answer directly (CORS preflight).
type Stage struct {
	Name string
	Run  func(c *gin.Context) error
}

// Pipeline runs stages in order as a single gin middleware.
func Pipeline(stages ...Stage) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, stage := range stages {
			if err := stage.Run(c); err != nil {
				_ = c.Error(err).SetMeta(stage.Name)
				c.Abort()
				return
			}
			if c.IsAborted() {
				return
			}
		}
	}
}
