package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
)

var (
	ErrMalformedJSON = errors.New("malformed JSON body")
	ErrBodyTooLarge  = errors.New("request body too large")
)

// JSONBody checks JSON request bodies up front. The body is buffered, kept
// under gin.BodyBytesKey and restored so handlers can still bind it.
func JSONBody(limit int64) Stage {
	return Stage{
		Name: "json_body",
		Run: func(c *gin.Context) error {
			if c.Request.Body == nil || c.Request.ContentLength == 0 || c.ContentType() != gin.MIMEJSON {
				return nil
			}

			body, err := io.ReadAll(io.LimitReader(c.Request.Body, limit+1))
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}
			if int64(len(body)) > limit {
				return ErrBodyTooLarge
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			if len(bytes.TrimSpace(body)) == 0 {
				return nil
			}

			var decoded interface{}
			if err := json.Unmarshal(body, &decoded); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
			}
			c.Set(gin.BodyBytesKey, body)
			return nil
		},
	}
}
