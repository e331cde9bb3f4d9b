package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OussemaBenslimene/Tasker/internal/apperror"
	"github.com/OussemaBenslimene/Tasker/internal/model"
	"github.com/OussemaBenslimene/Tasker/internal/repository"
)

type ColumnService struct {
	columnRepo repository.ColumnRepositoryInterface
	boardRepo  repository.BoardRepositoryInterface
	cardRepo   repository.CardRepositoryInterface
	logger     *zap.Logger
}

func NewColumnService(
	columnRepo repository.ColumnRepositoryInterface,
	boardRepo repository.BoardRepositoryInterface,
	cardRepo repository.CardRepositoryInterface,
	logger *zap.Logger,
) *ColumnService {
	return &ColumnService{
		columnRepo: columnRepo,
		boardRepo:  boardRepo,
		cardRepo:   cardRepo,
		logger:     logger,
	}
}

// Create stores a new column and appends its ID to the board's column order
// list. Like card creation, the two writes are each per-document atomic but
// not jointly transactional.
func (s *ColumnService) Create(ctx context.Context, actor Actor, boardID uuid.UUID, title string) (*model.Column, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperror.NewNotFound("Board not found")
	}

	column := &model.Column{
		ID:           uuid.New(),
		BoardID:      boardID,
		Title:        title,
		CardOrderIDs: []uuid.UUID{},
	}
	if err := s.columnRepo.Create(ctx, column); err != nil {
		return nil, err
	}

	newOrder := append([]uuid.UUID{}, board.ColumnOrderIDs...)
	newOrder = append(newOrder, column.ID)
	if err := s.boardRepo.UpdateColumnOrderIDs(ctx, boardID, newOrder); err != nil {
		return nil, err
	}

	return column, nil
}

// Update renames a column and/or replaces its card order list.
func (s *ColumnService) Update(ctx context.Context, actor Actor, columnID uuid.UUID, title *string, cardOrderIDs []uuid.UUID) (*model.Column, error) {
	column, err := s.columnRepo.GetByID(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if column == nil {
		return nil, apperror.NewNotFound("Column not found!")
	}

	if title != nil {
		column.Title = *title
	}
	if cardOrderIDs != nil {
		column.CardOrderIDs = cardOrderIDs
	}

	if err := s.columnRepo.Update(ctx, column); err != nil {
		return nil, err
	}
	return column, nil
}

// Delete removes the column, its cards, and its entry in the board's column
// order list.
func (s *ColumnService) Delete(ctx context.Context, actor Actor, columnID uuid.UUID) error {
	column, err := s.columnRepo.GetByID(ctx, columnID)
	if err != nil {
		return err
	}
	if column == nil {
		return apperror.NewNotFound("Column not found!")
	}

	if err := s.columnRepo.Delete(ctx, columnID); err != nil {
		return err
	}
	if err := s.cardRepo.DeleteByColumnID(ctx, columnID); err != nil {
		return err
	}

	board, err := s.boardRepo.GetByID(ctx, column.BoardID)
	if err != nil {
		return err
	}
	if board == nil {
		return nil
	}

	kept := make([]uuid.UUID, 0, len(board.ColumnOrderIDs))
	for _, id := range board.ColumnOrderIDs {
		if id != columnID {
			kept = append(kept, id)
		}
	}
	return s.boardRepo.UpdateColumnOrderIDs(ctx, column.BoardID, kept)
}
