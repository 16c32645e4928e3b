package repository

import (
	"context"

	"github.com/google/uuid"

	"tunehub/backend/internal/model"
)

type SongRepository interface {
	Create(ctx context.Context, song *model.Song) error
	Get(ctx context.Context, id uuid.UUID) (*model.Song, error)
	// List returns all songs, newest first.
	List(ctx context.Context) ([]model.Song, error)
	// Sample returns up to n songs in random order.
	Sample(ctx context.Context, n int) ([]model.Song, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	// CountArtists counts distinct artist names across songs and albums.
	CountArtists(ctx context.Context) (int64, error)
}
