package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine builds an engine wired like the production router: boundary,
// recovery, then the given stages.
func newEngine(production bool, stages ...Stage) *gin.Engine {
	r := gin.New()
	r.Use(FaultBoundary(production))
	r.Use(Recovery(zap.NewNop()))
	r.Use(Pipeline(stages...))
	return r
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body.Message
}
