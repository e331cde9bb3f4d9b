package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/OussemaBenslimene/Tasker/internal/model"
)

type BoardRepository struct {
	db *gorm.DB
}

type BoardRepositoryInterface interface {
	Create(ctx context.Context, board *model.Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	List(ctx context.Context, userID uuid.UUID, page, itemsPerPage int, search string) ([]model.Board, int64, error)
	Update(ctx context.Context, board *model.Board) error
	UpdateColumnOrderIDs(ctx context.Context, id uuid.UUID, columnOrderIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ BoardRepositoryInterface = (*BoardRepository)(nil)

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

// List returns the boards the user owns or belongs to, newest first, filtered
// by an optional title search, along with the total count for pagination.
func (r *BoardRepository) List(ctx context.Context, userID uuid.UUID, page, itemsPerPage int, search string) ([]model.Board, int64, error) {
	memberOf := fmt.Sprintf(`["%s"]`, userID)

	query := r.db.WithContext(ctx).Model(&model.Board{}).
		Where("owner_ids @> ?::jsonb OR member_ids @> ?::jsonb", memberOf, memberOf)

	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var boards []model.Board
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * itemsPerPage).
		Limit(itemsPerPage).
		Find(&boards).Error

	return boards, total, err
}

func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

// UpdateColumnOrderIDs replaces the board's column order list in one write.
func (r *BoardRepository) UpdateColumnOrderIDs(ctx context.Context, id uuid.UUID, columnOrderIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Board{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"column_order_ids": datatypes.NewJSONSlice(columnOrderIDs),
			"updated_at":       time.Now().UTC(),
		}).Error
}

// Delete removes the board together with its columns and cards. The cascade
// is a persistence-layer policy; it runs in one transaction because all three
// deletes concern the same board.
func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", id).Delete(&model.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&model.Column{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Board{}, id).Error
	})
}
