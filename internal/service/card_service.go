package service

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OussemaBenslimene/Tasker/internal/apperror"
	"github.com/OussemaBenslimene/Tasker/internal/client"
	"github.com/OussemaBenslimene/Tasker/internal/model"
	"github.com/OussemaBenslimene/Tasker/internal/repository"
)

// Actor is the authenticated user performing an operation. It is passed
// explicitly into every service call rather than recovered from request
// state.
type Actor struct {
	ID    uuid.UUID
	Email string
}

// Member change actions accepted by MemberChange updates.
const (
	MemberActionAdd    = "ADD"
	MemberActionRemove = "REMOVE"
)

// CardUpdate is the tagged update intent for a card. The handler constructs
// exactly one variant per request, in the precedence order cover > comment >
// member > field patch, so conflicting combinations cannot reach the service.
type CardUpdate interface {
	isCardUpdate()
}

// CoverUpdate replaces the card's cover image with an uploaded file.
type CoverUpdate struct {
	FileName string
	Data     []byte
}

// CommentAdd prepends a comment; timestamp and commenter are server-assigned.
type CommentAdd struct {
	Content string
}

// MemberChange adds or removes a user from the card's member list.
type MemberChange struct {
	UserID uuid.UUID
	Action string
}

// FieldPatch shallow-merges the present fields into the card.
type FieldPatch struct {
	Title       *string
	Description *string
	Cover       *string
	LabelIDs    []uuid.UUID
}

func (CoverUpdate) isCardUpdate()  {}
func (CommentAdd) isCardUpdate()   {}
func (MemberChange) isCardUpdate() {}
func (FieldPatch) isCardUpdate()   {}

type CardService struct {
	cardRepo   repository.CardRepositoryInterface
	columnRepo repository.ColumnRepositoryInterface
	boardRepo  repository.BoardRepositoryInterface
	uploader   client.Uploader
	prober     client.LinkProber
	logger     *zap.Logger
}

func NewCardService(
	cardRepo repository.CardRepositoryInterface,
	columnRepo repository.ColumnRepositoryInterface,
	boardRepo repository.BoardRepositoryInterface,
	uploader client.Uploader,
	prober client.LinkProber,
	logger *zap.Logger,
) *CardService {
	return &CardService{
		cardRepo:   cardRepo,
		columnRepo: columnRepo,
		boardRepo:  boardRepo,
		uploader:   uploader,
		prober:     prober,
		logger:     logger,
	}
}

// Create stores a new card and appends its ID to the column's order list.
// The two writes are not transactional; each one is per-document atomic.
func (s *CardService) Create(ctx context.Context, actor Actor, boardID, columnID uuid.UUID, title string) (*model.Card, error) {
	column, err := s.columnRepo.GetByID(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if column == nil {
		return nil, apperror.NewNotFound("Column not found!")
	}
	if column.BoardID != boardID {
		return nil, apperror.NewBadRequest("Column does not belong to the given board!")
	}

	card := &model.Card{
		ID:       uuid.New(),
		BoardID:  boardID,
		ColumnID: columnID,
		Title:    title,
	}
	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	newOrder := append([]uuid.UUID{}, column.CardOrderIDs...)
	newOrder = append(newOrder, card.ID)
	if err := s.columnRepo.UpdateCardOrderIDs(ctx, columnID, newOrder); err != nil {
		return nil, err
	}

	return card, nil
}

// Update applies exactly one update intent to the card. The whole mutation is
// a single card-row write.
func (s *CardService) Update(ctx context.Context, actor Actor, cardID uuid.UUID, update CardUpdate) (*model.Card, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, apperror.NewNotFound("Card not found!")
	}

	switch u := update.(type) {
	case CoverUpdate:
		url, err := s.uploader.Upload(ctx, "card-covers", u.FileName, u.Data)
		if err != nil {
			return nil, err
		}
		card.Cover = url

	case CommentAdd:
		comment := model.Comment{
			UserID:      actor.ID,
			UserEmail:   actor.Email,
			Content:     u.Content,
			CommentedAt: time.Now().UTC(),
		}
		// Newest first.
		card.Comments = append([]model.Comment{comment}, card.Comments...)

	case MemberChange:
		if u.Action == MemberActionAdd {
			found := false
			for _, id := range card.MemberIDs {
				if id == u.UserID {
					found = true
					break
				}
			}
			if !found {
				card.MemberIDs = append(card.MemberIDs, u.UserID)
			}
		} else {
			kept := card.MemberIDs[:0]
			for _, id := range card.MemberIDs {
				if id != u.UserID {
					kept = append(kept, id)
				}
			}
			card.MemberIDs = kept
		}

	case FieldPatch:
		if u.Title != nil {
			card.Title = *u.Title
		}
		if u.Description != nil {
			card.Description = *u.Description
		}
		if u.Cover != nil {
			card.Cover = *u.Cover
		}
		if u.LabelIDs != nil {
			card.LabelIDs = u.LabelIDs
		}
	}

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Delete removes the card and pulls its ID from the column's order list.
func (s *CardService) Delete(ctx context.Context, actor Actor, cardID uuid.UUID) error {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return err
	}
	if card == nil {
		return apperror.NewNotFound("Card not found!")
	}

	if err := s.cardRepo.Delete(ctx, cardID); err != nil {
		return err
	}

	column, err := s.columnRepo.GetByID(ctx, card.ColumnID)
	if err != nil {
		return err
	}
	if column == nil {
		return nil
	}

	kept := make([]uuid.UUID, 0, len(column.CardOrderIDs))
	for _, id := range column.CardOrderIDs {
		if id != cardID {
			kept = append(kept, id)
		}
	}
	return s.columnRepo.UpdateCardOrderIDs(ctx, card.ColumnID, kept)
}

// ValidateOwnership confirms the card's stated parent chain matches its
// actual one and the actor belongs to the owning board. It is a pure
// read-then-compare check: any mismatch yields false, never an error, and it
// is re-run on every mutating call because board membership can change
// between calls.
func (s *CardService) ValidateOwnership(ctx context.Context, cardID, columnID, boardID uuid.UUID, actor Actor) (bool, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return false, err
	}
	if card == nil || card.ColumnID != columnID || card.BoardID != boardID {
		return false, nil
	}

	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return false, err
	}
	if board == nil {
		return false, nil
	}

	return board.HasUser(actor.ID), nil
}

// resolveAndAuthorize re-reads the card and re-runs ownership validation
// against the column and board IDs derived from that fresh read. Every
// checklist and attachment mutation goes through here before writing.
func (s *CardService) resolveAndAuthorize(ctx context.Context, actor Actor, cardID uuid.UUID, forbiddenMsg string) (*model.Card, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, apperror.NewNotFound("Card not found!")
	}

	ok, err := s.ValidateOwnership(ctx, card.ID, card.ColumnID, card.BoardID, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewForbidden(forbiddenMsg)
	}
	return card, nil
}

// CreateChecklist adds an empty checklist to the card.
func (s *CardService) CreateChecklist(ctx context.Context, actor Actor, cardID uuid.UUID, title string) (*model.Card, error) {
	card, err := s.resolveAndAuthorize(ctx, actor, cardID, "You do not have permission to create checklist!")
	if err != nil {
		return nil, err
	}

	card.Checklists = append(card.Checklists, model.Checklist{
		ID:    uuid.New(),
		Title: title,
		Items: []model.ChecklistItem{},
	})

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// UpdateChecklist renames a checklist.
func (s *CardService) UpdateChecklist(ctx context.Context, actor Actor, cardID, checklistID uuid.UUID, title string) (*model.Card, error) {
	card, err := s.resolveAndAuthorize(ctx, actor, cardID, "You do not have permission to update checklist item!")
	if err != nil {
		return nil, err
	}

	idx := findChecklist(card, checklistID)
	if idx < 0 {
		return nil, apperror.NewNotFound("Checklist not found!")
	}
	card.Checklists[idx].Title = title

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// DeleteChecklist removes a whole checklist.
func (s *CardService) DeleteChecklist(ctx context.Context, actor Actor, cardID, checklistID uuid.UUID) (*model.Card, error) {
	card, err := s.resolveAndAuthorize(ctx, actor, cardID, "You do not have permission to delete checklist item!")
	if err != nil {
		return nil, err
	}

	idx := findChecklist(card, checklistID)
	if idx < 0 {
		return nil, apperror.NewNotFound("Checklist not found!")
	}
	card.Checklists = append(card.Checklists[:idx], card.Checklists[idx+1:]...)

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// AddChecklistItem appends an item with a freshly generated identifier. Two
// identical calls deliberately produce two distinct items.
func (s *CardService) AddChecklistItem(ctx context.Context, actor Actor, cardID, checklistID uuid.UUID, text string) (*model.Card, error) {
	card, err := s.resolveAndAuthorize(ctx, actor, cardID, "You do not have permission to add checklist item!")
	if err != nil {
		return nil, err
	}

	idx := findChecklist(card, checklistID)
	if idx < 0 {
		return nil, apperror.NewNotFound("Checklist not found!")
	}

	card.Checklists[idx].Items = append(card.Checklists[idx].Items, model.ChecklistItem{
		ID:        uuid.New(),
		Text:      text,
		Completed: false,
		CreatedBy: actor.ID,
		CreatedAt: time.Now().UTC(),
	})

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// SetChecklistItemCompleted flips an item's completed flag.
func (s *CardService) SetChecklistItemCompleted(ctx context.Context, actor Actor, cardID, checklistID, itemID uuid.UUID, completed bool) (*model.Card, error) {
	return s.mutateChecklistItem(ctx, actor, cardID, checklistID, itemID, func(item *model.ChecklistItem) {
		item.Completed = completed
	})
}

// SetChecklistItemText rewrites an item's text.
func (s *CardService) SetChecklistItemText(ctx context.Context, actor Actor, cardID, checklistID, itemID uuid.UUID, text string) (*model.Card, error) {
	return s.mutateChecklistItem(ctx, actor, cardID, checklistID, itemID, func(item *model.ChecklistItem) {
		item.Text = text
	})
}

func (s *CardService) mutateChecklistItem(ctx context.Context, actor Actor, cardID, checklistID, itemID uuid.UUID, mutate func(*model.ChecklistItem)) (*model.Card, error) {
	card, err := s.resolveAndAuthorize(ctx, actor, cardID, "You do not have permission to modify this checklist item!")
	if err != nil {
		return nil, err
	}

	idx := findChecklist(card, checklistID)
	if idx < 0 {
		return nil, apperror.NewNotFound("Checklist not found!")
	}

	itemIdx := -1
	for i, item := range card.Checklists[idx].Items {
		if item.ID == itemID {
			itemIdx = i
			break
		}
	}
	if itemIdx < 0 {
		return nil, apperror.NewNotFound("Checklist item not found!")
	}

	mutate(&card.Checklists[idx].Items[itemIdx])

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// DeleteChecklistItem removes a single item.
func (s *CardService) DeleteChecklistItem(ctx context.Context, actor Actor, cardID, checklistID, itemID uuid.UUID) (*model.Card, error) {
	card, err := s.resolveAndAuthorize(ctx, actor, cardID, "You do not have permission to modify this checklist item!")
	if err != nil {
		return nil, err
	}

	idx := findChecklist(card, checklistID)
	if idx < 0 {
		return nil, apperror.NewNotFound("Checklist not found!")
	}

	items := card.Checklists[idx].Items
	kept := make([]model.ChecklistItem, 0, len(items))
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	card.Checklists[idx].Items = kept

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

var schemeRe = regexp.MustCompile(`^https?://`)

// normalizeLink prefixes http:// when the link carries no scheme.
func normalizeLink(link string) string {
	if schemeRe.MatchString(link) {
		return link
	}
	return "http://" + link
}

// AddAttachment appends an external link after probing that it is reachable.
// The probe is the one place where an external I/O failure vetoes a write.
func (s *CardService) AddAttachment(ctx context.Context, actor Actor, cardID uuid.UUID, link, name string) (*model.Card, error) {
	card, err := s.resolveAndAuthorize(ctx, actor, cardID, "You do not have permission to add attachment!")
	if err != nil {
		return nil, err
	}

	validLink := normalizeLink(link)
	if err := s.prober.Probe(ctx, validLink); err != nil {
		return nil, apperror.NewBadRequest("Provided link is not accessible!")
	}

	card.Attachments = append(card.Attachments, model.Attachment{
		ID:   uuid.New(),
		Link: validLink,
		Name: name,
	})

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// UpdateAttachmentName renames an attachment.
func (s *CardService) UpdateAttachmentName(ctx context.Context, actor Actor, cardID, attachmentID uuid.UUID, name string) (*model.Card, error) {
	card, err := s.resolveAndAuthorize(ctx, actor, cardID, "You do not have permission to update attachment!")
	if err != nil {
		return nil, err
	}

	idx := findAttachment(card, attachmentID)
	if idx < 0 {
		return nil, apperror.NewNotFound("Attachment not found!")
	}
	card.Attachments[idx].Name = name

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// UpdateAttachmentLink replaces an attachment's link, re-running the same
// normalization and liveness probe as AddAttachment.
func (s *CardService) UpdateAttachmentLink(ctx context.Context, actor Actor, cardID, attachmentID uuid.UUID, link string) (*model.Card, error) {
	card, err := s.resolveAndAuthorize(ctx, actor, cardID, "You do not have permission to update attachment!")
	if err != nil {
		return nil, err
	}

	idx := findAttachment(card, attachmentID)
	if idx < 0 {
		return nil, apperror.NewNotFound("Attachment not found!")
	}

	validLink := normalizeLink(link)
	if err := s.prober.Probe(ctx, validLink); err != nil {
		return nil, apperror.NewBadRequest("Provided link is not accessible!")
	}
	card.Attachments[idx].Link = validLink

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// RemoveAttachment deletes an attachment.
func (s *CardService) RemoveAttachment(ctx context.Context, actor Actor, cardID, attachmentID uuid.UUID) (*model.Card, error) {
	card, err := s.resolveAndAuthorize(ctx, actor, cardID, "You do not have permission to remove attachment!")
	if err != nil {
		return nil, err
	}

	idx := findAttachment(card, attachmentID)
	if idx < 0 {
		return nil, apperror.NewNotFound("Attachment not found!")
	}
	card.Attachments = append(card.Attachments[:idx], card.Attachments[idx+1:]...)

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func findChecklist(card *model.Card, checklistID uuid.UUID) int {
	for i, checklist := range card.Checklists {
		if checklist.ID == checklistID {
			return i
		}
	}
	return -1
}

func findAttachment(card *model.Card, attachmentID uuid.UUID) int {
	for i, attachment := range card.Attachments {
		if attachment.ID == attachmentID {
			return i
		}
	}
	return -1
}
