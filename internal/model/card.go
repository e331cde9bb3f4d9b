package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChecklistItem is a single entry within a checklist.
type ChecklistItem struct {
	ID        uuid.UUID `json:"_id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedBy uuid.UUID `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Checklist is an ordered item list carried on a card.
type Checklist struct {
	ID    uuid.UUID       `json:"_id"`
	Title string          `json:"title"`
	Items []ChecklistItem `json:"items"`
}

// Attachment is a named external link carried on a card.
type Attachment struct {
	ID   uuid.UUID `json:"_id"`
	Link string    `json:"link"`
	Name string    `json:"name"`
}

// Comment is a card comment. The comment list is kept newest-first.
type Comment struct {
	UserID      uuid.UUID `json:"userId"`
	UserEmail   string    `json:"userEmail"`
	Content     string    `json:"content"`
	CommentedAt time.Time `json:"commentedAt"`
}

// Card is a task unit within a column. BoardID is denormalized so ownership
// checks do not have to walk through the column. Checklists, attachments and
// comments live as JSONB on the card row, so every card mutation is a single
// atomically-written document update.
type Card struct {
	ID          uuid.UUID                       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"_id"`
	BoardID     uuid.UUID                       `gorm:"type:uuid;not null;index" json:"boardId"`
	ColumnID    uuid.UUID                       `gorm:"type:uuid;not null;index" json:"columnId"`
	Title       string                          `gorm:"not null" json:"title"`
	Description string                          `json:"description"`
	Cover       string                          `json:"cover"`
	MemberIDs   datatypes.JSONSlice[uuid.UUID]  `json:"memberIds"`
	LabelIDs    datatypes.JSONSlice[uuid.UUID]  `json:"labelIds"`
	Checklists  datatypes.JSONSlice[Checklist]  `json:"checklists"`
	Attachments datatypes.JSONSlice[Attachment] `json:"attachments"`
	Comments    datatypes.JSONSlice[Comment]    `json:"comments"`
	CreatedAt   time.Time                       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time                       `json:"updatedAt"`
}
