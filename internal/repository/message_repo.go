package repository

import (
	"context"

	"tunehub/backend/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	// Conversation returns messages exchanged between a and b, oldest first.
	Conversation(ctx context.Context, a, b string) ([]model.Message, error)
}
