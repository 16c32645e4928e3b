package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tunehub/backend/internal/database"
	"tunehub/backend/internal/model"
)

type gormSongRepository struct {
	db *database.DB
}

func NewSongRepository(db *database.DB) SongRepository {
	return &gormSongRepository{db: db}
}

func (r *gormSongRepository) Create(ctx context.Context, song *model.Song) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return err
	}
	return conn.Create(song).Error
}

func (r *gormSongRepository) Get(ctx context.Context, id uuid.UUID) (*model.Song, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var song model.Song
	if err := conn.First(&song, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &song, nil
}

func (r *gormSongRepository) List(ctx context.Context) ([]model.Song, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var songs []model.Song
	if err := conn.Order("created_at DESC").Find(&songs).Error; err != nil {
		return nil, err
	}
	return songs, nil
}

func (r *gormSongRepository) Sample(ctx context.Context, n int) ([]model.Song, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var songs []model.Song
	// RANDOM() is understood by both postgres and sqlite.
	if err := conn.Order("RANDOM()").Limit(n).Find(&songs).Error; err != nil {
		return nil, err
	}
	return songs, nil
}

func (r *gormSongRepository) Delete(ctx context.Context, id uuid.UUID) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return err
	}
	res := conn.Delete(&model.Song{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormSongRepository) Count(ctx context.Context) (int64, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = conn.Model(&model.Song{}).Count(&n).Error
	return n, err
}

func (r *gormSongRepository) CountArtists(ctx context.Context) (int64, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = conn.Raw(`SELECT COUNT(*) FROM (
		SELECT artist FROM songs
		UNION
		SELECT artist FROM albums
	) AS artists`).Scan(&n).Error
	return n, err
}
