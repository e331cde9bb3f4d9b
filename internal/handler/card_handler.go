package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OussemaBenslimene/Tasker/internal/apperror"
	"github.com/OussemaBenslimene/Tasker/internal/model"
	"github.com/OussemaBenslimene/Tasker/internal/service"
)

type CardHandler struct {
	svc *service.CardService
}

func NewCardHandler(svc *service.CardService) *CardHandler {
	return &CardHandler{svc: svc}
}

type createCardRequest struct {
	BoardID  string `json:"boardId" binding:"required,uuid"`
	ColumnID string `json:"columnId" binding:"required,uuid"`
	Title    string `json:"title" binding:"required,min=3,max=50"`
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

type memberInfoRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
	Action string `json:"action" binding:"required,oneof=ADD REMOVE"`
}

type updateCardRequest struct {
	Title        *string            `json:"title" binding:"omitempty,min=3,max=50"`
	Description  *string            `json:"description"`
	Cover        *string            `json:"cover"`
	LabelIDs     []string           `json:"labelIds" binding:"omitempty,dive,uuid"`
	CommentToAdd *commentRequest    `json:"commentToAdd"`
	MemberInfo   *memberInfoRequest `json:"incomingMemberInfo"`
}

type checklistRequest struct {
	Title string `json:"title" binding:"required,min=1,max=50"`
}

type checklistItemRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}

type updateChecklistItemRequest struct {
	Text      *string `json:"text" binding:"omitempty,min=1"`
	Completed *bool   `json:"completed"`
}

type addAttachmentRequest struct {
	Link string `json:"link" binding:"required"`
	Name string `json:"name" binding:"omitempty,max=100"`
}

type updateAttachmentRequest struct {
	Link *string `json:"link"`
	Name *string `json:"name" binding:"omitempty,max=100"`
}

// Create stores a new card in the given column.
func (h *CardHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req createCardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.svc.Create(c.Request.Context(), actor,
		uuid.MustParse(req.BoardID), uuid.MustParse(req.ColumnID), req.Title)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, card)
}

// Update dispatches the card update by intent: a multipart body replaces the
// cover, a JSON body carries exactly one of comment, member change or field
// patch. When more than one is present, precedence is cover, comment, member,
// fields.
func (h *CardHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var update service.CardUpdate

	if isMultipart(c) {
		fileHeader, err := c.FormFile("cardCover")
		if err != nil {
			c.Error(apperror.NewBadRequest("Card cover file is required!"))
			return
		}
		cover, err := readFormFile(fileHeader)
		if err != nil {
			c.Error(err)
			return
		}
		update = *cover
	} else {
		var req updateCardRequest
		if !bindJSON(c, &req) {
			return
		}

		switch {
		case req.CommentToAdd != nil:
			update = service.CommentAdd{Content: req.CommentToAdd.Content}
		case req.MemberInfo != nil:
			update = service.MemberChange{
				UserID: uuid.MustParse(req.MemberInfo.UserID),
				Action: req.MemberInfo.Action,
			}
		default:
			patch := service.FieldPatch{
				Title:       req.Title,
				Description: req.Description,
				Cover:       req.Cover,
			}
			if req.LabelIDs != nil {
				ids, ok := parseUUIDs(c, req.LabelIDs)
				if !ok {
					return
				}
				patch.LabelIDs = ids
			}
			update = patch
		}
	}

	card, err := h.svc.Update(c.Request.Context(), actor, cardID, update)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// Delete removes the card and its column order entry.
func (h *CardHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actor, cardID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully!"})
}

// CreateChecklist adds an empty checklist to the card.
func (h *CardHandler) CreateChecklist(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req checklistRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.svc.CreateChecklist(c.Request.Context(), actor, cardID, req.Title)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, card)
}

// UpdateChecklist renames a checklist.
func (h *CardHandler) UpdateChecklist(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	checklistID, ok := parseIDParam(c, "checklistId")
	if !ok {
		return
	}

	var req checklistRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.svc.UpdateChecklist(c.Request.Context(), actor, cardID, checklistID, req.Title)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// DeleteChecklist removes a checklist with all its items.
func (h *CardHandler) DeleteChecklist(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	checklistID, ok := parseIDParam(c, "checklistId")
	if !ok {
		return
	}

	card, err := h.svc.DeleteChecklist(c.Request.Context(), actor, cardID, checklistID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// AddChecklistItem appends a new item to a checklist.
func (h *CardHandler) AddChecklistItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	checklistID, ok := parseIDParam(c, "checklistId")
	if !ok {
		return
	}

	var req checklistItemRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.svc.AddChecklistItem(c.Request.Context(), actor, cardID, checklistID, req.Text)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, card)
}

// UpdateChecklistItem patches an item's text and/or completed state.
func (h *CardHandler) UpdateChecklistItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	checklistID, ok := parseIDParam(c, "checklistId")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	var req updateChecklistItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Text == nil && req.Completed == nil {
		c.Error(apperror.NewBadRequest("Nothing to update!"))
		return
	}

	var card *model.Card
	var err error
	if req.Completed != nil {
		card, err = h.svc.SetChecklistItemCompleted(c.Request.Context(), actor, cardID, checklistID, itemID, *req.Completed)
	} else {
		card, err = h.svc.SetChecklistItemText(c.Request.Context(), actor, cardID, checklistID, itemID, *req.Text)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// DeleteChecklistItem removes a single checklist item.
func (h *CardHandler) DeleteChecklistItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	checklistID, ok := parseIDParam(c, "checklistId")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	card, err := h.svc.DeleteChecklistItem(c.Request.Context(), actor, cardID, checklistID, itemID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// AddAttachment appends an external link after the liveness probe passes.
func (h *CardHandler) AddAttachment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req addAttachmentRequest
	if !bindJSON(c, &req) {
		return
	}

	name := req.Name
	if name == "" {
		name = req.Link
	}

	card, err := h.svc.AddAttachment(c.Request.Context(), actor, cardID, req.Link, name)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, card)
}

// UpdateAttachment patches an attachment's link (re-probed) and/or name.
func (h *CardHandler) UpdateAttachment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "attachmentId")
	if !ok {
		return
	}

	var req updateAttachmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Link == nil && req.Name == nil {
		c.Error(apperror.NewBadRequest("Nothing to update!"))
		return
	}

	var card *model.Card
	var err error
	if req.Link != nil {
		card, err = h.svc.UpdateAttachmentLink(c.Request.Context(), actor, cardID, attachmentID, *req.Link)
		if err != nil {
			c.Error(err)
			return
		}
	}
	if req.Name != nil {
		card, err = h.svc.UpdateAttachmentName(c.Request.Context(), actor, cardID, attachmentID, *req.Name)
		if err != nil {
			c.Error(err)
			return
		}
	}

	c.JSON(http.StatusOK, card)
}

// RemoveAttachment deletes an attachment from the card.
func (h *CardHandler) RemoveAttachment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "attachmentId")
	if !ok {
		return
	}

	card, err := h.svc.RemoveAttachment(c.Request.Context(), actor, cardID, attachmentID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, card)
}
