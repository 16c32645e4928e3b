package repository

import (
	"context"

	"tunehub/backend/internal/database"
	"tunehub/backend/internal/model"
)

type gormMessageRepository struct {
	db *database.DB
}

func NewMessageRepository(db *database.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return err
	}
	return conn.Create(msg).Error
}

func (r *gormMessageRepository) Conversation(ctx context.Context, a, b string) ([]model.Message, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var msgs []model.Message
	err = conn.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
