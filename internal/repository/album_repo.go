package repository

import (
	"context"

	"github.com/google/uuid"

	"tunehub/backend/internal/model"
)

type AlbumRepository interface {
	Create(ctx context.Context, album *model.Album) error
	List(ctx context.Context) ([]model.Album, error)
	GetWithSongs(ctx context.Context, id uuid.UUID) (*model.Album, error)
	// Delete removes the album together with its songs.
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
