package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Column is an ordered container of cards. Every ID in CardOrderIDs must
// reference a card whose ColumnID is this column.
type Column struct {
	ID           uuid.UUID                      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"_id"`
	BoardID      uuid.UUID                      `gorm:"type:uuid;not null;index" json:"boardId"`
	Title        string                         `gorm:"not null" json:"title"`
	CardOrderIDs datatypes.JSONSlice[uuid.UUID] `json:"cardOrderIds"`
	CreatedAt    time.Time                      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time                      `json:"updatedAt"`
}
