package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OussemaBenslimene/Tasker/internal/model"
)

type CardRepository struct {
	db *gorm.DB
}

type CardRepositoryInterface interface {
	Create(ctx context.Context, card *model.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Card, error)
	Save(ctx context.Context, card *model.Card) error
	UpdateColumnID(ctx context.Context, id, columnID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByColumnID(ctx context.Context, columnID uuid.UUID) error
}

var _ CardRepositoryInterface = (*CardRepository)(nil)

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Find(&cards).Error
	return cards, err
}

// Save writes the whole card row back. Checklists, attachments and comments
// live as JSONB on the row, so this is the single-document write the card's
// consistency model relies on.
func (r *CardRepository) Save(ctx context.Context, card *model.Card) error {
	card.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(card).Error
}

// UpdateColumnID re-parents a card without touching any other field.
func (r *CardRepository) UpdateColumnID(ctx context.Context, id, columnID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"column_id":  columnID,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Card{}, id).Error
}

func (r *CardRepository) DeleteByColumnID(ctx context.Context, columnID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("column_id = ?", columnID).Delete(&model.Card{}).Error
}
