package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tunehub/backend/internal/config"
	"tunehub/backend/internal/handler/middleware"
	"tunehub/backend/internal/media"
	"tunehub/backend/internal/tempstore"
	jwtpkg "tunehub/backend/pkg/jwt"
)

// SetupRouter builds the engine. localMedia is nil unless media is served
// from disk.
func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	uploads *tempstore.Store,
	localMedia *media.LocalStore,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	adminHandler *AdminHandler,
	albumHandler *AlbumHandler,
	songHandler *SongHandler,
	statHandler *StatHandler,
) *gin.Engine {
	if cfg.Server.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware. FaultBoundary must wrap everything that can fail.
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.FaultBoundary(cfg.Server.Production()))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Pipeline(
		middleware.CORSStage(cfg.CORS),
		middleware.JSONBody(cfg.Server.MaxJSONBody),
		middleware.AuthContext(jwtManager),
		middleware.UploadStaging(uploads, cfg.Upload.MaxFileSize, cfg.Upload.MaxFiles),
	))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if localMedia != nil {
		r.Static(localMedia.URLPrefix(), localMedia.Dir())
	}

	requireAdmin := []gin.HandlerFunc{middleware.RequireAuth(), middleware.AdminAuth(cfg.Admin.UserIDs)}

	users := r.Group("/api/users")
	users.Use(middleware.RequireAuth())
	{
		users.GET("", userHandler.List)
		users.GET("/messages/:userId", userHandler.Messages)
	}

	auth := r.Group("/api/auth")
	{
		auth.POST("/callback", authHandler.Callback)
	}

	admin := r.Group("/api/admin")
	admin.Use(requireAdmin...)
	{
		admin.GET("/check", adminHandler.Check)
		admin.POST("/songs", adminHandler.CreateSong)
		admin.DELETE("/songs/:id", adminHandler.DeleteSong)
		admin.POST("/albums", adminHandler.CreateAlbum)
		admin.DELETE("/albums/:id", adminHandler.DeleteAlbum)
	}

	albums := r.Group("/api/albums")
	{
		albums.GET("", albumHandler.List)
		albums.GET("/:albumId", albumHandler.Get)
	}

	songs := r.Group("/api/songs")
	{
		songs.GET("", middleware.RequireAuth(), middleware.AdminAuth(cfg.Admin.UserIDs), songHandler.List)
		songs.GET("/featured", songHandler.Featured)
		songs.GET("/made-for-you", songHandler.MadeForYou)
		songs.GET("/trending", songHandler.Trending)
	}

	stats := r.Group("/api/stats")
	stats.Use(requireAdmin...)
	{
		stats.GET("", statHandler.Totals)
	}

	return r
}
