package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"_id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Username       string    `gorm:"not null" json:"username"`
	DisplayName    string    `gorm:"not null" json:"displayName"`
	Avatar         string    `json:"avatar"`
	IsActive       bool      `gorm:"not null;default:false" json:"isActive"`
	VerifyToken    *string   `json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
