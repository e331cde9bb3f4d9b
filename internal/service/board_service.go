package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OussemaBenslimene/Tasker/internal/apperror"
	"github.com/OussemaBenslimene/Tasker/internal/client"
	"github.com/OussemaBenslimene/Tasker/internal/model"
	"github.com/OussemaBenslimene/Tasker/internal/repository"
	"github.com/OussemaBenslimene/Tasker/internal/ws"
)

// Board list pagination defaults.
const (
	DefaultPage         = 1
	DefaultItemsPerPage = 12
)

// ColumnWithCards is a column with its cards attached in CardOrderIDs order
// context, as the client renders them.
type ColumnWithCards struct {
	model.Column
	Cards []model.Card `json:"cards"`
}

// BoardDetails is the assembled board view: the board document plus its
// columns (in ColumnOrderIDs order), each carrying its own cards.
type BoardDetails struct {
	model.Board
	Columns []ColumnWithCards `json:"columns"`
}

// BoardList is one page of a user's boards.
type BoardList struct {
	Boards       []model.Board `json:"boards"`
	TotalBoards  int64         `json:"totalBoards"`
	Page         int           `json:"page"`
	ItemsPerPage int           `json:"itemsPerPage"`
}

// BoardPatch carries the optional fields of a generic board update.
type BoardPatch struct {
	Title          *string
	Description    *string
	Type           *string
	ColumnOrderIDs []uuid.UUID
	Labels         []model.Label
}

// MoveCardRequest is the order-list maintenance payload for moving a card
// between columns. The caller is trusted to have computed consistent order
// lists.
type MoveCardRequest struct {
	CurrentCardID    uuid.UUID
	PrevColumnID     uuid.UUID
	PrevCardOrderIDs []uuid.UUID
	NextColumnID     uuid.UUID
	NextCardOrderIDs []uuid.UUID
}

type BoardService struct {
	boardRepo  repository.BoardRepositoryInterface
	columnRepo repository.ColumnRepositoryInterface
	cardRepo   repository.CardRepositoryInterface
	userRepo   repository.UserRepositoryInterface
	uploader   client.Uploader
	hub        *ws.Hub
	logger     *zap.Logger
}

func NewBoardService(
	boardRepo repository.BoardRepositoryInterface,
	columnRepo repository.ColumnRepositoryInterface,
	cardRepo repository.CardRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	uploader client.Uploader,
	hub *ws.Hub,
	logger *zap.Logger,
) *BoardService {
	return &BoardService{
		boardRepo:  boardRepo,
		columnRepo: columnRepo,
		cardRepo:   cardRepo,
		userRepo:   userRepo,
		uploader:   uploader,
		hub:        hub,
		logger:     logger,
	}
}

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a board title into its URL slug.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = nonSlugRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Create stores a new board with the creator as its sole owner.
func (s *BoardService) Create(ctx context.Context, actor Actor, title, description, boardType string, background *CoverUpdate) (*model.Board, error) {
	backgroundURL := ""
	if background != nil {
		url, err := s.uploader.Upload(ctx, "board-covers", background.FileName, background.Data)
		if err != nil {
			return nil, err
		}
		backgroundURL = url
	}

	if boardType == "" {
		boardType = model.BoardTypePrivate
	}

	board := &model.Board{
		ID:                 uuid.New(),
		Title:              title,
		Slug:               Slugify(title),
		Description:        description,
		Type:               boardType,
		ColumnOrderIDs:     []uuid.UUID{},
		OwnerIDs:           []uuid.UUID{actor.ID},
		MemberIDs:          []uuid.UUID{},
		Labels:             []model.Label{},
		BackgroundImageURL: backgroundURL,
	}

	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// getOwnedBoard fetches a board visible to the user. A board the user does
// not belong to is reported as not found, not forbidden, so strangers cannot
// probe for board existence.
func (s *BoardService) getOwnedBoard(ctx context.Context, userID, boardID uuid.UUID) (*model.Board, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil || !board.HasUser(userID) {
		return nil, apperror.NewNotFound("Board not found")
	}
	return board, nil
}

// GetDetails assembles the board view: all cards of the board are fetched
// once, then distributed onto the board's columns in ColumnOrderIDs order.
// The response is built from fresh copies; the stored documents are never
// mutated.
func (s *BoardService) GetDetails(ctx context.Context, userID, boardID uuid.UUID) (*BoardDetails, error) {
	board, err := s.getOwnedBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}

	columns, err := s.columnRepo.GetByBoardID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	cards, err := s.cardRepo.GetByBoardID(ctx, boardID)
	if err != nil {
		return nil, err
	}

	columnsByID := make(map[uuid.UUID]model.Column, len(columns))
	for _, column := range columns {
		columnsByID[column.ID] = column
	}

	details := &BoardDetails{
		Board:   *board,
		Columns: make([]ColumnWithCards, 0, len(columns)),
	}

	for _, columnID := range board.ColumnOrderIDs {
		column, ok := columnsByID[columnID]
		if !ok {
			// Dangling order-list entry; skip rather than fail the view.
			continue
		}

		withCards := ColumnWithCards{Column: column, Cards: []model.Card{}}
		for _, card := range cards {
			if card.ColumnID == column.ID {
				withCards.Cards = append(withCards.Cards, card)
			}
		}
		details.Columns = append(details.Columns, withCards)
	}

	return details, nil
}

// List returns one page of the boards the user owns or belongs to.
func (s *BoardService) List(ctx context.Context, userID uuid.UUID, page, itemsPerPage int, search string) (*BoardList, error) {
	if page < 1 {
		page = DefaultPage
	}
	if itemsPerPage < 1 {
		itemsPerPage = DefaultItemsPerPage
	}

	boards, total, err := s.boardRepo.List(ctx, userID, page, itemsPerPage, search)
	if err != nil {
		return nil, err
	}
	if boards == nil {
		boards = []model.Board{}
	}

	return &BoardList{
		Boards:       boards,
		TotalBoards:  total,
		Page:         page,
		ItemsPerPage: itemsPerPage,
	}, nil
}

// Update applies a board update: an uploaded background replaces the
// background image, and the patch fields are merged alongside it. New labels
// (zero ID) get server-assigned identifiers.
func (s *BoardService) Update(ctx context.Context, actor Actor, boardID uuid.UUID, patch BoardPatch, background *CoverUpdate) (*model.Board, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperror.NewNotFound("Board not found")
	}

	if background != nil {
		url, err := s.uploader.Upload(ctx, "board-covers", background.FileName, background.Data)
		if err != nil {
			return nil, err
		}
		board.BackgroundImageURL = url
	}
	if patch.Title != nil {
		board.Title = *patch.Title
		board.Slug = Slugify(*patch.Title)
	}
	if patch.Description != nil {
		board.Description = *patch.Description
	}
	if patch.Type != nil {
		board.Type = *patch.Type
	}
	if patch.ColumnOrderIDs != nil {
		board.ColumnOrderIDs = patch.ColumnOrderIDs
	}
	if patch.Labels != nil {
		labels := make([]model.Label, len(patch.Labels))
		for i, label := range patch.Labels {
			if label.ID == uuid.Nil {
				label.ID = uuid.New()
			}
			labels[i] = label
		}
		board.Labels = labels
	}

	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// MoveCard performs the cross-column move as three ordered writes: source
// order list, destination order list, then the card's columnId. There is no
// transaction and no rollback; if a later write fails the earlier ones
// persist. The supplied order lists are trusted as-is.
func (s *BoardService) MoveCard(ctx context.Context, actor Actor, req MoveCardRequest) error {
	if err := s.columnRepo.UpdateCardOrderIDs(ctx, req.PrevColumnID, req.PrevCardOrderIDs); err != nil {
		return err
	}
	if err := s.columnRepo.UpdateCardOrderIDs(ctx, req.NextColumnID, req.NextCardOrderIDs); err != nil {
		return err
	}
	return s.cardRepo.UpdateColumnID(ctx, req.CurrentCardID, req.NextColumnID)
}

// Delete removes the board and everything under it.
func (s *BoardService) Delete(ctx context.Context, actor Actor, boardID uuid.UUID) error {
	if _, err := s.getOwnedBoard(ctx, actor.ID, boardID); err != nil {
		return err
	}
	return s.boardRepo.Delete(ctx, boardID)
}

// Invite adds the user with the given email to the board's members and
// pushes a fire-and-forget notification to their open sessions.
func (s *BoardService) Invite(ctx context.Context, actor Actor, boardID uuid.UUID, inviteeEmail string) (*model.Board, error) {
	board, err := s.getOwnedBoard(ctx, actor.ID, boardID)
	if err != nil {
		return nil, err
	}

	invitee, err := s.userRepo.FindByEmail(ctx, inviteeEmail)
	if err != nil {
		return nil, err
	}
	if invitee == nil {
		return nil, apperror.NewNotFound("Account not found!")
	}
	if board.HasUser(invitee.ID) {
		return nil, apperror.NewConflict("User is already a member of this board!")
	}

	board.MemberIDs = append(board.MemberIDs, invitee.ID)
	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.NotifyInvite(invitee.ID, ws.InviteEvent{
			Type:       "BOARD_INVITATION",
			BoardID:    board.ID,
			BoardTitle: board.Title,
			InviterID:  actor.ID,
		})
	}

	return board, nil
}
