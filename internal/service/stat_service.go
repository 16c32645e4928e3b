package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tunehub/backend/internal/repository"
)

const statsCacheKey = "stats:totals"

type Stats struct {
	TotalSongs   int64 `json:"totalSongs"`
	TotalAlbums  int64 `json:"totalAlbums"`
	TotalUsers   int64 `json:"totalUsers"`
	TotalArtists int64 `json:"totalArtists"`
}

type StatService interface {
	Totals(ctx context.Context) (*Stats, error)
}

type statService struct {
	songRepo  repository.SongRepository
	albumRepo repository.AlbumRepository
	userRepo  repository.UserRepository
	cache     repository.Cache
	ttl       time.Duration
	logger    *zap.Logger
}

func NewStatService(
	songRepo repository.SongRepository,
	albumRepo repository.AlbumRepository,
	userRepo repository.UserRepository,
	cache repository.Cache,
	ttl time.Duration,
	logger *zap.Logger,
) StatService {
	return &statService{
		songRepo:  songRepo,
		albumRepo: albumRepo,
		userRepo:  userRepo,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
	}
}

func (s *statService) Totals(ctx context.Context) (*Stats, error) {
	var cached Stats
	if ok, err := repository.GetJSON(ctx, s.cache, statsCacheKey, &cached); err != nil {
		s.logger.Warn("stats cache read failed", zap.Error(err))
	} else if ok {
		return &cached, nil
	}

	var (
		st  Stats
		err error
	)
	if st.TotalSongs, err = s.songRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count songs: %w", err)
	}
	if st.TotalAlbums, err = s.albumRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count albums: %w", err)
	}
	if st.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if st.TotalArtists, err = s.songRepo.CountArtists(ctx); err != nil {
		return nil, fmt.Errorf("count artists: %w", err)
	}

	if s.ttl > 0 {
		if err := repository.SetJSON(ctx, s.cache, statsCacheKey, st, s.ttl); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return &st, nil
}

// InvalidateStats drops cached totals after a catalog change.
func InvalidateStats(ctx context.Context, cache repository.Cache) error {
	return cache.Delete(ctx, statsCacheKey)
}

var _ StatService = (*statService)(nil)
