package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/OussemaBenslimene/Tasker/internal/apperror"
	"github.com/OussemaBenslimene/Tasker/internal/model"
	"github.com/OussemaBenslimene/Tasker/internal/service"
)

func newCardService() (*service.CardService, *MockCardRepository, *MockColumnRepository, *MockBoardRepository, *MockUploader, *MockLinkProber) {
	cardRepo := new(MockCardRepository)
	columnRepo := new(MockColumnRepository)
	boardRepo := new(MockBoardRepository)
	uploader := new(MockUploader)
	prober := new(MockLinkProber)
	svc := service.NewCardService(cardRepo, columnRepo, boardRepo, uploader, prober, zap.NewNop())
	return svc, cardRepo, columnRepo, boardRepo, uploader, prober
}

func memberBoard(boardID, userID uuid.UUID) *model.Board {
	return &model.Board{
		ID:        boardID,
		Title:     "Project",
		Type:      model.BoardTypePrivate,
		OwnerIDs:  []uuid.UUID{userID},
		MemberIDs: []uuid.UUID{},
	}
}

func TestValidateOwnership_Valid(t *testing.T) {
	// Arrange
	svc, cardRepo, _, boardRepo, _, _ := newCardService()
	actor := service.Actor{ID: uuid.New(), Email: "owner@example.com"}
	boardID, columnID, cardID := uuid.New(), uuid.New(), uuid.New()

	cardRepo.On("GetByID", mock.Anything, cardID).
		Return(&model.Card{ID: cardID, BoardID: boardID, ColumnID: columnID}, nil)
	boardRepo.On("GetByID", mock.Anything, boardID).
		Return(memberBoard(boardID, actor.ID), nil)

	// Act
	ok, err := svc.ValidateOwnership(context.Background(), cardID, columnID, boardID, actor)

	// Assert
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestValidateOwnership_MismatchedColumn(t *testing.T) {
	// Arrange
	svc, cardRepo, _, boardRepo, _, _ := newCardService()
	actor := service.Actor{ID: uuid.New()}
	boardID, cardID := uuid.New(), uuid.New()

	cardRepo.On("GetByID", mock.Anything, cardID).
		Return(&model.Card{ID: cardID, BoardID: boardID, ColumnID: uuid.New()}, nil)

	// Act
	ok, err := svc.ValidateOwnership(context.Background(), cardID, uuid.New(), boardID, actor)

	// Assert: mismatch yields false without an error
	assert.NoError(t, err)
	assert.False(t, ok)
	boardRepo.AssertNotCalled(t, "GetByID")
}

func TestValidateOwnership_MissingCard(t *testing.T) {
	// Arrange
	svc, cardRepo, _, _, _, _ := newCardService()
	cardID := uuid.New()

	cardRepo.On("GetByID", mock.Anything, cardID).Return(nil, nil)

	// Act
	ok, err := svc.ValidateOwnership(context.Background(), cardID, uuid.New(), uuid.New(), service.Actor{ID: uuid.New()})

	// Assert
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateOwnership_NonMember(t *testing.T) {
	// Arrange
	svc, cardRepo, _, boardRepo, _, _ := newCardService()
	actor := service.Actor{ID: uuid.New()}
	boardID, columnID, cardID := uuid.New(), uuid.New(), uuid.New()

	cardRepo.On("GetByID", mock.Anything, cardID).
		Return(&model.Card{ID: cardID, BoardID: boardID, ColumnID: columnID}, nil)
	boardRepo.On("GetByID", mock.Anything, boardID).
		Return(memberBoard(boardID, uuid.New()), nil)

	// Act
	ok, err := svc.ValidateOwnership(context.Background(), cardID, columnID, boardID, actor)

	// Assert
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateChecklist_NonMemberForbidden(t *testing.T) {
	// Arrange
	svc, cardRepo, _, boardRepo, _, _ := newCardService()
	actor := service.Actor{ID: uuid.New()}
	boardID, columnID, cardID := uuid.New(), uuid.New(), uuid.New()

	cardRepo.On("GetByID", mock.Anything, cardID).
		Return(&model.Card{ID: cardID, BoardID: boardID, ColumnID: columnID}, nil)
	boardRepo.On("GetByID", mock.Anything, boardID).
		Return(memberBoard(boardID, uuid.New()), nil)

	// Act
	card, err := svc.CreateChecklist(context.Background(), actor, cardID, "Launch tasks")

	// Assert
	assert.Nil(t, card)
	var apiErr *apperror.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.StatusCode)
	assert.Equal(t, "You do not have permission to create checklist!", apiErr.Message)
	cardRepo.AssertNotCalled(t, "Save")
}

func TestAddChecklistItem_DistinctIDs(t *testing.T) {
	// Arrange
	svc, cardRepo, _, boardRepo, _, _ := newCardService()
	actor := service.Actor{ID: uuid.New(), Email: "owner@example.com"}
	boardID, columnID, cardID, checklistID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	stored := &model.Card{
		ID:       cardID,
		BoardID:  boardID,
		ColumnID: columnID,
		Checklists: []model.Checklist{
			{ID: checklistID, Title: "Launch", Items: []model.ChecklistItem{}},
		},
	}
	cardRepo.On("GetByID", mock.Anything, cardID).Return(stored, nil)
	boardRepo.On("GetByID", mock.Anything, boardID).Return(memberBoard(boardID, actor.ID), nil)
	cardRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Card")).Return(nil)

	// Act: two identical calls
	_, err := svc.AddChecklistItem(context.Background(), actor, cardID, checklistID, "buy domain")
	assert.NoError(t, err)
	card, err := svc.AddChecklistItem(context.Background(), actor, cardID, checklistID, "buy domain")
	assert.NoError(t, err)

	// Assert: two items, distinct identifiers, both attributed to the actor
	items := card.Checklists[0].Items
	assert.Len(t, items, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.Equal(t, items[0].Text, items[1].Text)
	assert.Equal(t, actor.ID, items[0].CreatedBy)
	assert.False(t, items[0].Completed)
}

func TestAddAttachment_ProbeFailureBlocksWrite(t *testing.T) {
	// Arrange
	svc, cardRepo, _, boardRepo, _, prober := newCardService()
	actor := service.Actor{ID: uuid.New()}
	boardID, columnID, cardID := uuid.New(), uuid.New(), uuid.New()

	cardRepo.On("GetByID", mock.Anything, cardID).
		Return(&model.Card{ID: cardID, BoardID: boardID, ColumnID: columnID}, nil)
	boardRepo.On("GetByID", mock.Anything, boardID).Return(memberBoard(boardID, actor.ID), nil)
	prober.On("Probe", mock.Anything, "https://dead.example.com").Return(errors.New("timeout"))

	// Act
	card, err := svc.AddAttachment(context.Background(), actor, cardID, "https://dead.example.com", "doc")

	// Assert
	assert.Nil(t, card)
	var apiErr *apperror.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "Provided link is not accessible!", apiErr.Message)
	cardRepo.AssertNotCalled(t, "Save")
}

func TestAddAttachment_NormalizesSchemelessLink(t *testing.T) {
	// Arrange
	svc, cardRepo, _, boardRepo, _, prober := newCardService()
	actor := service.Actor{ID: uuid.New()}
	boardID, columnID, cardID := uuid.New(), uuid.New(), uuid.New()

	cardRepo.On("GetByID", mock.Anything, cardID).
		Return(&model.Card{ID: cardID, BoardID: boardID, ColumnID: columnID}, nil)
	boardRepo.On("GetByID", mock.Anything, boardID).Return(memberBoard(boardID, actor.ID), nil)
	prober.On("Probe", mock.Anything, "http://example.com/file.pdf").Return(nil)
	cardRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Card")).Return(nil)

	// Act
	card, err := svc.AddAttachment(context.Background(), actor, cardID, "example.com/file.pdf", "spec")

	// Assert: the stored link carries the default scheme
	assert.NoError(t, err)
	assert.Len(t, card.Attachments, 1)
	assert.Equal(t, "http://example.com/file.pdf", card.Attachments[0].Link)
	prober.AssertExpectations(t)
}

func TestUpdate_CommentPrependedNewestFirst(t *testing.T) {
	// Arrange
	svc, cardRepo, _, _, _, _ := newCardService()
	actor := service.Actor{ID: uuid.New(), Email: "commenter@example.com"}
	cardID := uuid.New()

	stored := &model.Card{
		ID: cardID,
		Comments: []model.Comment{
			{UserID: uuid.New(), Content: "older comment"},
		},
	}
	cardRepo.On("GetByID", mock.Anything, cardID).Return(stored, nil)
	cardRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Card")).Return(nil)

	// Act
	card, err := svc.Update(context.Background(), actor, cardID, service.CommentAdd{Content: "new comment"})

	// Assert
	assert.NoError(t, err)
	assert.Len(t, card.Comments, 2)
	assert.Equal(t, "new comment", card.Comments[0].Content)
	assert.Equal(t, actor.Email, card.Comments[0].UserEmail)
	assert.Equal(t, "older comment", card.Comments[1].Content)
}

func TestUpdate_MemberAddIsIdempotent(t *testing.T) {
	// Arrange
	svc, cardRepo, _, _, _, _ := newCardService()
	memberID := uuid.New()
	cardID := uuid.New()

	stored := &model.Card{ID: cardID, MemberIDs: []uuid.UUID{memberID}}
	cardRepo.On("GetByID", mock.Anything, cardID).Return(stored, nil)
	cardRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Card")).Return(nil)

	// Act: adding an existing member again
	card, err := svc.Update(context.Background(), service.Actor{ID: uuid.New()}, cardID,
		service.MemberChange{UserID: memberID, Action: service.MemberActionAdd})

	// Assert
	assert.NoError(t, err)
	assert.Len(t, card.MemberIDs, 1)
}

func TestUpdate_MemberRemove(t *testing.T) {
	// Arrange
	svc, cardRepo, _, _, _, _ := newCardService()
	memberID, otherID := uuid.New(), uuid.New()
	cardID := uuid.New()

	stored := &model.Card{ID: cardID, MemberIDs: []uuid.UUID{memberID, otherID}}
	cardRepo.On("GetByID", mock.Anything, cardID).Return(stored, nil)
	cardRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Card")).Return(nil)

	// Act
	card, err := svc.Update(context.Background(), service.Actor{ID: uuid.New()}, cardID,
		service.MemberChange{UserID: memberID, Action: service.MemberActionRemove})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{otherID}, []uuid.UUID(card.MemberIDs))
}

func TestUpdate_CardNotFound(t *testing.T) {
	// Arrange
	svc, cardRepo, _, _, _, _ := newCardService()
	cardID := uuid.New()
	cardRepo.On("GetByID", mock.Anything, cardID).Return(nil, nil)

	// Act
	card, err := svc.Update(context.Background(), service.Actor{ID: uuid.New()}, cardID,
		service.CommentAdd{Content: "hello"})

	// Assert
	assert.Nil(t, card)
	var apiErr *apperror.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Equal(t, "Card not found!", apiErr.Message)
}

func TestCreate_AppendsToColumnOrder(t *testing.T) {
	// Arrange
	svc, cardRepo, columnRepo, _, _, _ := newCardService()
	actor := service.Actor{ID: uuid.New()}
	boardID, columnID := uuid.New(), uuid.New()
	existingCardID := uuid.New()

	columnRepo.On("GetByID", mock.Anything, columnID).
		Return(&model.Column{ID: columnID, BoardID: boardID, CardOrderIDs: []uuid.UUID{existingCardID}}, nil)
	cardRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Card")).Return(nil)
	columnRepo.On("UpdateCardOrderIDs", mock.Anything, columnID, mock.AnythingOfType("[]uuid.UUID")).Return(nil)

	// Act
	card, err := svc.Create(context.Background(), actor, boardID, columnID, "New task")

	// Assert: new card ID lands at the end of the order list
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, card.ID)
	columnRepo.AssertCalled(t, "UpdateCardOrderIDs", mock.Anything, columnID,
		[]uuid.UUID{existingCardID, card.ID})
}

func TestCreate_ColumnBoardMismatch(t *testing.T) {
	// Arrange
	svc, cardRepo, columnRepo, _, _, _ := newCardService()
	columnID := uuid.New()

	columnRepo.On("GetByID", mock.Anything, columnID).
		Return(&model.Column{ID: columnID, BoardID: uuid.New()}, nil)

	// Act
	card, err := svc.Create(context.Background(), service.Actor{ID: uuid.New()}, uuid.New(), columnID, "New task")

	// Assert
	assert.Nil(t, card)
	var apiErr *apperror.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.StatusCode)
	cardRepo.AssertNotCalled(t, "Create")
}
