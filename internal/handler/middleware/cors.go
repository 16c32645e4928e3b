package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tunehub/backend/internal/config"
)

func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

// CORSStage applies the allow-list. Allowed origins get CORS headers and
// their preflights are answered here. Requests from other origins continue
// without CORS headers and are left to the browser to block.
func CORSStage(cfg config.CORSConfig) Stage {
	handler := CORS(cfg)
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	return Stage{
		Name: "cors",
		Run: func(c *gin.Context) error {
			origin := c.GetHeader("Origin")
			if origin != "" {
				if _, ok := allowed[origin]; !ok {
					return nil
				}
			}
			handler(c)
			return nil
		},
	}
}
