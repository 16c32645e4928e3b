package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tunehub/backend/internal/app"
	"tunehub/backend/internal/config"
	"tunehub/backend/internal/database"
	"tunehub/backend/internal/handler"
	"tunehub/backend/internal/media"
	"tunehub/backend/internal/realtime"
	"tunehub/backend/internal/repository"
	"tunehub/backend/internal/service"
	"tunehub/backend/internal/tempstore"
	jwtpkg "tunehub/backend/pkg/jwt"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 3. Database handle; connected by the process after the listener is up
	db := database.New(cfg.Database, logger)

	// 4. Cache (Redis or in-memory)
	var cache repository.Cache
	switch cfg.Cache.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		cache = repository.NewRedisCache(redisClient)
		logger.Info("using Redis cache")
	case "memory":
		cache = repository.NewMemoryCache()
		logger.Info("using in-memory cache")
	default:
		logger.Fatal("unknown cache backend", zap.String("backend", cfg.Cache.Backend))
	}

	// 5. Media store (MinIO or local directory)
	var mediaStore media.Store
	var localMedia *media.LocalStore
	switch cfg.Media.Backend {
	case "minio":
		minioClient, err := config.NewMinioClient(context.Background(), cfg.Media.Minio)
		if err != nil {
			logger.Fatal("failed to connect to minio", zap.Error(err))
		}
		mediaStore = media.NewMinioStore(minioClient, cfg.Media.Minio.Bucket, cfg.Media.Minio.PublicURL)
		logger.Info("using MinIO media store", zap.String("bucket", cfg.Media.Minio.Bucket))
	case "local":
		localMedia = media.NewLocalStore(cfg.Media.Local.Dir, cfg.Media.Local.URLPrefix)
		mediaStore = localMedia
		logger.Info("using local media store", zap.String("dir", cfg.Media.Local.Dir))
	default:
		logger.Fatal("unknown media backend", zap.String("backend", cfg.Media.Backend))
	}

	// 6. Temporary upload store and its retention sweeper
	uploads := tempstore.New(cfg.Upload.TempDir)
	sweeper, err := tempstore.NewSweeper(uploads, cfg.Sweep.Schedule, logger)
	if err != nil {
		logger.Fatal("invalid sweep schedule", zap.String("schedule", cfg.Sweep.Schedule), zap.Error(err))
	}

	// 7. Repositories
	userRepo := repository.NewUserRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	songRepo := repository.NewSongRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// 8. JWT manager
	jwtManager := jwtpkg.NewManager(cfg.JWT.SigningKey, cfg.JWT.Issuer)
	if cfg.JWT.JWKSFile != "" {
		keySet, err := jwtpkg.LoadKeySet(cfg.JWT.JWKSFile)
		if err != nil {
			logger.Fatal("failed to load jwks", zap.String("path", cfg.JWT.JWKSFile), zap.Error(err))
		}
		jwtManager.WithKeySet(keySet)
		logger.Info("identity provider keys loaded", zap.Int("keys", keySet.Len()))
	}

	// 9. Services
	authService := service.NewAuthService(userRepo)
	chatService := service.NewChatService(userRepo, messageRepo)
	catalogService := service.NewCatalogService(albumRepo, songRepo)
	adminService := service.NewAdminService(songRepo, albumRepo, mediaStore, cache, logger)
	statService := service.NewStatService(songRepo, albumRepo, userRepo, cache, cfg.Cache.StatsTTL, logger)

	// 10. Router
	router := handler.SetupRouter(cfg, logger, jwtManager, uploads, localMedia,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(chatService),
		handler.NewAdminHandler(adminService),
		handler.NewAlbumHandler(catalogService),
		handler.NewSongHandler(catalogService),
		handler.NewStatHandler(statService),
	)

	// 11. HTTP server with the realtime channel on the same listener
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	hub := realtime.NewHub(chatService, cache, jwtManager, cfg.CORS.AllowedOrigins, logger)
	realtime.Attach(srv, hub, cfg.Realtime.Path)

	// 12. Listen, then connect the database, then start the sweeper
	process := app.New(srv, db, sweeper, hub, logger)
	if err := process.Start(context.Background()); err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}
	logger.Info("server ready",
		zap.String("addr", process.Addr()),
		zap.String("environment", cfg.Server.Environment),
		zap.Time("next_sweep", sweeper.Next()))

	// 13. Wait for interrupt signal or a serve failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-process.Errors():
		logger.Error("server stopped unexpectedly", zap.Error(err))
	}
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := process.Stop(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
