package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tunehub/backend/internal/database"
	"tunehub/backend/internal/model"
)

type gormAlbumRepository struct {
	db *database.DB
}

func NewAlbumRepository(db *database.DB) AlbumRepository {
	return &gormAlbumRepository{db: db}
}

func (r *gormAlbumRepository) Create(ctx context.Context, album *model.Album) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return err
	}
	return conn.Create(album).Error
}

func (r *gormAlbumRepository) List(ctx context.Context) ([]model.Album, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var albums []model.Album
	if err := conn.Order("created_at DESC").Find(&albums).Error; err != nil {
		return nil, err
	}
	return albums, nil
}

func (r *gormAlbumRepository) GetWithSongs(ctx context.Context, id uuid.UUID) (*model.Album, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var album model.Album
	err = conn.Preload("Songs", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&album, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &album, nil
}

func (r *gormAlbumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return err
	}
	return conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("album_id = ?", id).Delete(&model.Song{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Album{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *gormAlbumRepository) Count(ctx context.Context) (int64, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = conn.Model(&model.Album{}).Count(&n).Error
	return n, err
}
