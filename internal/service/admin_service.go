package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tunehub/backend/internal/media"
	"tunehub/backend/internal/model"
	"tunehub/backend/internal/repository"
	"tunehub/backend/internal/tempstore"
)

type SongInput struct {
	Title    string
	Artist   string
	Duration int
	AlbumID  *uuid.UUID
	Audio    *tempstore.TempFile
	Image    *tempstore.TempFile
}

type AlbumInput struct {
	Title       string
	Artist      string
	ReleaseYear int
	Image       *tempstore.TempFile
}

// AdminService manages the catalog. Staged files passed in are copied to the
// media store; releasing them from the temp store is the caller's job.
type AdminService interface {
	CreateSong(ctx context.Context, in SongInput) (*model.Song, error)
	DeleteSong(ctx context.Context, id uuid.UUID) error
	CreateAlbum(ctx context.Context, in AlbumInput) (*model.Album, error)
	DeleteAlbum(ctx context.Context, id uuid.UUID) error
}

type adminService struct {
	songRepo  repository.SongRepository
	albumRepo repository.AlbumRepository
	media     media.Store
	cache     repository.Cache
	logger    *zap.Logger
}

func NewAdminService(
	songRepo repository.SongRepository,
	albumRepo repository.AlbumRepository,
	mediaStore media.Store,
	cache repository.Cache,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		songRepo:  songRepo,
		albumRepo: albumRepo,
		media:     mediaStore,
		cache:     cache,
		logger:    logger,
	}
}

func (s *adminService) CreateSong(ctx context.Context, in SongInput) (*model.Song, error) {
	if in.Audio == nil || in.Image == nil {
		return nil, ErrMissingFile
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Artist) == "" || in.Duration < 0 {
		return nil, ErrInvalidInput
	}
	if in.AlbumID != nil {
		if _, err := s.albumRepo.GetWithSongs(ctx, *in.AlbumID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUnknownAlbum
			}
			return nil, err
		}
	}

	audioURL, err := s.upload(ctx, "songs", in.Audio)
	if err != nil {
		return nil, err
	}
	imageURL, err := s.upload(ctx, "images", in.Image)
	if err != nil {
		s.discard(ctx, audioURL)
		return nil, err
	}

	song := &model.Song{
		Title:    strings.TrimSpace(in.Title),
		Artist:   strings.TrimSpace(in.Artist),
		Duration: in.Duration,
		AlbumID:  in.AlbumID,
		AudioURL: audioURL,
		ImageURL: imageURL,
	}
	if err := s.songRepo.Create(ctx, song); err != nil {
		s.discard(ctx, audioURL, imageURL)
		return nil, fmt.Errorf("create song: %w", err)
	}
	s.invalidate(ctx)
	return song, nil
}

func (s *adminService) DeleteSong(ctx context.Context, id uuid.UUID) error {
	song, err := s.songRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.songRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.discard(ctx, song.AudioURL, song.ImageURL)
	s.invalidate(ctx)
	return nil
}

func (s *adminService) CreateAlbum(ctx context.Context, in AlbumInput) (*model.Album, error) {
	if in.Image == nil {
		return nil, ErrMissingFile
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Artist) == "" || in.ReleaseYear <= 0 {
		return nil, ErrInvalidInput
	}

	imageURL, err := s.upload(ctx, "images", in.Image)
	if err != nil {
		return nil, err
	}
	album := &model.Album{
		Title:       strings.TrimSpace(in.Title),
		Artist:      strings.TrimSpace(in.Artist),
		ReleaseYear: in.ReleaseYear,
		ImageURL:    imageURL,
	}
	if err := s.albumRepo.Create(ctx, album); err != nil {
		s.discard(ctx, imageURL)
		return nil, fmt.Errorf("create album: %w", err)
	}
	s.invalidate(ctx)
	return album, nil
}

func (s *adminService) DeleteAlbum(ctx context.Context, id uuid.UUID) error {
	album, err := s.albumRepo.GetWithSongs(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.albumRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	urls := []string{album.ImageURL}
	for _, song := range album.Songs {
		urls = append(urls, song.AudioURL, song.ImageURL)
	}
	s.discard(ctx, urls...)
	s.invalidate(ctx)
	return nil
}

func (s *adminService) upload(ctx context.Context, folder string, f *tempstore.TempFile) (string, error) {
	url, err := s.media.Put(ctx, media.NewKey(folder, f.FileName), f.Path, f.ContentType)
	if err != nil {
		return "", fmt.Errorf("store %s: %w", f.FieldName, err)
	}
	return url, nil
}

// discard removes persisted media best-effort.
func (s *adminService) discard(ctx context.Context, urls ...string) {
	for _, u := range urls {
		key, ok := s.media.Key(u)
		if !ok {
			continue
		}
		if err := s.media.Delete(ctx, key); err != nil {
			s.logger.Warn("media delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *adminService) invalidate(ctx context.Context) {
	if err := InvalidateStats(ctx, s.cache); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

var _ AdminService = (*adminService)(nil)
