package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Board visibility types.
const (
	BoardTypePublic  = "public"
	BoardTypePrivate = "private"
)

// Label is a board-level label definition. Cards reference labels by ID.
type Label struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

// Board is the top-level container of columns. ColumnOrderIDs is the display
// order and must stay a permutation of the IDs of columns whose BoardID is
// this board. Owner and member sets are kept as ID lists on the board row so
// membership checks read a single document.
type Board struct {
	ID                 uuid.UUID                      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"_id"`
	Title              string                         `gorm:"not null" json:"title"`
	Slug               string                         `gorm:"not null;index" json:"slug"`
	Description        string                         `json:"description"`
	Type               string                         `gorm:"not null;check:type IN ('public', 'private')" json:"type"`
	ColumnOrderIDs     datatypes.JSONSlice[uuid.UUID] `json:"columnOrderIds"`
	OwnerIDs           datatypes.JSONSlice[uuid.UUID] `json:"ownerIds"`
	MemberIDs          datatypes.JSONSlice[uuid.UUID] `json:"memberIds"`
	Labels             datatypes.JSONSlice[Label]     `json:"labels"`
	BackgroundImageURL string                         `json:"backgroundImageUrl"`
	CreatedAt          time.Time                      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time                      `json:"updatedAt"`
}

// HasUser reports whether userID is an owner or a member of the board.
func (b *Board) HasUser(userID uuid.UUID) bool {
	for _, id := range b.OwnerIDs {
		if id == userID {
			return true
		}
	}
	for _, id := range b.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
