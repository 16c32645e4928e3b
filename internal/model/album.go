package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Album struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(256);not null" json:"title"`
	Artist      string    `gorm:"type:varchar(256);not null;index" json:"artist"`
	ImageURL    string    `gorm:"type:varchar(1024);not null" json:"imageUrl"`
	ReleaseYear int       `gorm:"not null" json:"releaseYear"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Songs []Song `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE" json:"songs,omitempty"`
}

func (Album) TableName() string { return "albums" }

func (a *Album) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
