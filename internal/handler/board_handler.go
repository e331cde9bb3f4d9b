package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OussemaBenslimene/Tasker/internal/apperror"
	"github.com/OussemaBenslimene/Tasker/internal/model"
	"github.com/OussemaBenslimene/Tasker/internal/service"
)

type BoardHandler struct {
	svc *service.BoardService
}

func NewBoardHandler(svc *service.BoardService) *BoardHandler {
	return &BoardHandler{svc: svc}
}

type createBoardRequest struct {
	Title       string `json:"title" form:"title" binding:"required,min=3,max=50"`
	Description string `json:"description" form:"description" binding:"omitempty,max=255"`
	Type        string `json:"type" form:"type" binding:"omitempty,oneof=public private"`
}

type labelRequest struct {
	ID    string `json:"_id" binding:"omitempty,uuid"`
	Name  string `json:"name" binding:"required,max=50"`
	Color string `json:"color" binding:"required,max=20"`
}

type updateBoardRequest struct {
	Title          *string        `json:"title" form:"title" binding:"omitempty,min=3,max=50"`
	Description    *string        `json:"description" form:"description" binding:"omitempty,max=255"`
	Type           *string        `json:"type" form:"type" binding:"omitempty,oneof=public private"`
	ColumnOrderIDs []string       `json:"columnOrderIds" binding:"omitempty,dive,uuid"`
	Labels         []labelRequest `json:"labels" binding:"omitempty,dive"`
}

type moveCardRequest struct {
	CurrentCardID    string   `json:"currentCardId" binding:"required,uuid"`
	PrevColumnID     string   `json:"prevColumnId" binding:"required,uuid"`
	PrevCardOrderIDs []string `json:"prevCardOrderIds" binding:"required,dive,uuid"`
	NextColumnID     string   `json:"nextColumnId" binding:"required,uuid"`
	NextCardOrderIDs []string `json:"nextCardOrderIds" binding:"required,dive,uuid"`
}

type inviteRequest struct {
	InviteeEmail string `json:"inviteeEmail" binding:"required,email"`
}

// Create stores a new board for the current user. A multipart body may carry
// an optional backgroundImage file next to the form fields.
func (h *BoardHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req createBoardRequest
	var background *service.CoverUpdate

	if isMultipart(c) {
		if !bindForm(c, &req) {
			return
		}
		if fileHeader, err := c.FormFile("backgroundImage"); err == nil {
			cover, err := readFormFile(fileHeader)
			if err != nil {
				c.Error(err)
				return
			}
			background = cover
		}
	} else if !bindJSON(c, &req) {
		return
	}

	board, err := h.svc.Create(c.Request.Context(), actor, req.Title, req.Description, req.Type, background)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, board)
}

// List returns one page of the user's boards, optionally filtered by title.
func (h *BoardHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	itemsPerPage, _ := strconv.Atoi(c.Query("itemsPerPage"))
	search := c.Query("q")

	result, err := h.svc.List(c.Request.Context(), actor.ID, page, itemsPerPage, search)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDetails returns the board with its columns and cards assembled in
// display order.
func (h *BoardHandler) GetDetails(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	details, err := h.svc.GetDetails(c.Request.Context(), actor.ID, boardID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// Update patches the board. A multipart body replaces the background image
// and its form fields are merged like a JSON patch; a JSON body patches
// fields, column order or labels.
func (h *BoardHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateBoardRequest
	var background *service.CoverUpdate

	if isMultipart(c) {
		fileHeader, err := c.FormFile("backgroundImage")
		if err != nil {
			c.Error(apperror.NewBadRequest("Background image file is required!"))
			return
		}
		background, err = readFormFile(fileHeader)
		if err != nil {
			c.Error(err)
			return
		}
		if !bindForm(c, &req) {
			return
		}
	} else if !bindJSON(c, &req) {
		return
	}

	patch := service.BoardPatch{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
	}
	if req.ColumnOrderIDs != nil {
		ids, ok := parseUUIDs(c, req.ColumnOrderIDs)
		if !ok {
			return
		}
		patch.ColumnOrderIDs = ids
	}
	if req.Labels != nil {
		labels := make([]model.Label, 0, len(req.Labels))
		for _, l := range req.Labels {
			label := model.Label{Name: l.Name, Color: l.Color}
			if l.ID != "" {
				id, err := uuid.Parse(l.ID)
				if err != nil {
					c.Error(apperror.NewBadRequest("Invalid label ID format!"))
					return
				}
				label.ID = id
			}
			labels = append(labels, label)
		}
		patch.Labels = labels
	}

	board, err := h.svc.Update(c.Request.Context(), actor, boardID, patch, background)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// MoveCard applies the three order-list writes of a cross-column card move.
func (h *BoardHandler) MoveCard(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req moveCardRequest
	if !bindJSON(c, &req) {
		return
	}

	prevOrder, ok := parseUUIDs(c, req.PrevCardOrderIDs)
	if !ok {
		return
	}
	nextOrder, ok := parseUUIDs(c, req.NextCardOrderIDs)
	if !ok {
		return
	}

	move := service.MoveCardRequest{
		CurrentCardID:    uuid.MustParse(req.CurrentCardID),
		PrevColumnID:     uuid.MustParse(req.PrevColumnID),
		PrevCardOrderIDs: prevOrder,
		NextColumnID:     uuid.MustParse(req.NextColumnID),
		NextCardOrderIDs: nextOrder,
	}

	if err := h.svc.MoveCard(c.Request.Context(), actor, move); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updateResult": "Successfully!"})
}

// Delete removes the board with its columns and cards.
func (h *BoardHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actor, boardID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board and its Columns and Cards deleted successfully!"})
}

// Invite adds a registered user to the board's member list and notifies them
// over the websocket channel.
func (h *BoardHandler) Invite(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inviteRequest
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.svc.Invite(c.Request.Context(), actor, boardID, req.InviteeEmail)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// parseUUIDs converts a slice of uuid strings, reporting a 400 on the first
// malformed entry.
func parseUUIDs(c *gin.Context, values []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			c.Error(apperror.NewBadRequest("Invalid ID format!"))
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
