package realtime

import "net/http"

const DefaultPath = "/socket"

// Attach routes path on srv to hub and everything else to the handler srv
// already has. Call it before the server starts serving.
func Attach(srv *http.Server, hub *Hub, path string) {
	if path == "" {
		path = DefaultPath
	}
	next := srv.Handler
	srv.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == path {
			hub.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
