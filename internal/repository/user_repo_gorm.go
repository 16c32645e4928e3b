package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tunehub/backend/internal/database"
	"tunehub/backend/internal/model"
)

type gormUserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	err = conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "image_url", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return nil, err
	}
	return r.GetByExternalID(ctx, user.ExternalID)
}

func (r *gormUserRepository) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := conn.Where("external_id = ?", externalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) ListExcept(ctx context.Context, externalID string) ([]model.User, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := conn.Where("external_id <> ?", externalID).Order("full_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *gormUserRepository) Count(ctx context.Context) (int64, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = conn.Model(&model.User{}).Count(&n).Error
	return n, err
}
