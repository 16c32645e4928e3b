package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a listener profile. ExternalID is the subject issued by the
// identity provider and is what tokens, messages and presence refer to.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"externalId"`
	FullName   string    `gorm:"type:varchar(256);not null" json:"fullName"`
	ImageURL   string    `gorm:"type:varchar(1024)" json:"imageUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
