package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"tunehub/backend/internal/model"
	"tunehub/backend/internal/repository"
)

const (
	featuredCount   = 6
	madeForYouCount = 4
	trendingCount   = 4
)

// CatalogService serves the read side of albums and songs.
type CatalogService interface {
	ListAlbums(ctx context.Context) ([]model.Album, error)
	GetAlbum(ctx context.Context, id uuid.UUID) (*model.Album, error)
	ListSongs(ctx context.Context) ([]model.Song, error)
	FeaturedSongs(ctx context.Context) ([]model.Song, error)
	MadeForYouSongs(ctx context.Context) ([]model.Song, error)
	TrendingSongs(ctx context.Context) ([]model.Song, error)
}

type catalogService struct {
	albumRepo repository.AlbumRepository
	songRepo  repository.SongRepository
}

func NewCatalogService(albumRepo repository.AlbumRepository, songRepo repository.SongRepository) CatalogService {
	return &catalogService{albumRepo: albumRepo, songRepo: songRepo}
}

func (s *catalogService) ListAlbums(ctx context.Context) ([]model.Album, error) {
	return s.albumRepo.List(ctx)
}

func (s *catalogService) GetAlbum(ctx context.Context, id uuid.UUID) (*model.Album, error) {
	album, err := s.albumRepo.GetWithSongs(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return album, err
}

func (s *catalogService) ListSongs(ctx context.Context) ([]model.Song, error) {
	return s.songRepo.List(ctx)
}

func (s *catalogService) FeaturedSongs(ctx context.Context) ([]model.Song, error) {
	return s.songRepo.Sample(ctx, featuredCount)
}

func (s *catalogService) MadeForYouSongs(ctx context.Context) ([]model.Song, error) {
	return s.songRepo.Sample(ctx, madeForYouCount)
}

func (s *catalogService) TrendingSongs(ctx context.Context) ([]model.Song, error) {
	return s.songRepo.Sample(ctx, trendingCount)
}

var _ CatalogService = (*catalogService)(nil)
