package repository

import (
	"context"

	"tunehub/backend/internal/model"
)

type UserRepository interface {
	// Upsert creates the user or refreshes FullName/ImageURL of an existing one.
	Upsert(ctx context.Context, user *model.User) (*model.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
	ListExcept(ctx context.Context, externalID string) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
}
