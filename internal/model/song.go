package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Song struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string     `gorm:"type:varchar(256);not null" json:"title"`
	Artist    string     `gorm:"type:varchar(256);not null;index" json:"artist"`
	ImageURL  string     `gorm:"type:varchar(1024);not null" json:"imageUrl"`
	AudioURL  string     `gorm:"type:varchar(1024);not null" json:"audioUrl"`
	Duration  int        `gorm:"not null" json:"duration"` // seconds
	AlbumID   *uuid.UUID `gorm:"type:uuid;index" json:"albumId"`
	CreatedAt time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Song) TableName() string { return "songs" }

func (s *Song) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
