package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestJSONBody(t *testing.T) {
	r := newEngine(false, JSONBody(64))
	r.POST("/echo", func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"name": req.Name})
	})

	cases := []struct {
		name     string
		body     string
		ctype    string
		status   int
		contains string
	}{
		{name: "valid json reaches handler", body: `{"name":"ok"}`, ctype: "application/json", status: http.StatusOK, contains: `"ok"`},
		{name: "malformed json", body: `{"name":`, ctype: "application/json; charset=utf-8", status: http.StatusInternalServerError, contains: ErrMalformedJSON.Error()},
		{name: "oversized json", body: `{"name":"` + strings.Repeat("a", 100) + `"}`, ctype: "application/json", status: http.StatusInternalServerError, contains: ErrBodyTooLarge.Error()},
		{name: "non json is untouched", body: `{"name":`, ctype: "text/plain", status: http.StatusInternalServerError, contains: "unexpected EOF"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.ctype)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.contains) {
				t.Fatalf("expected body to contain %q, got %s", tc.contains, rec.Body.String())
			}
		})
	}
}

func TestJSONBodyKeepsBytesForRebinding(t *testing.T) {
	r := newEngine(false, JSONBody(1024))
	r.POST("/", func(c *gin.Context) {
		raw, ok := c.Get(gin.BodyBytesKey)
		if !ok {
			_ = c.Error(errors.New("body bytes missing"))
			return
		}
		c.String(http.StatusOK, string(raw.([]byte)))
	})
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1,2]`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "[1,2]" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
