package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OussemaBenslimene/Tasker/internal/service"
)

type ColumnHandler struct {
	svc *service.ColumnService
}

func NewColumnHandler(svc *service.ColumnService) *ColumnHandler {
	return &ColumnHandler{svc: svc}
}

type createColumnRequest struct {
	BoardID string `json:"boardId" binding:"required,uuid"`
	Title   string `json:"title" binding:"required,min=3,max=50"`
}

type updateColumnRequest struct {
	Title        *string  `json:"title" binding:"omitempty,min=3,max=50"`
	CardOrderIDs []string `json:"cardOrderIds" binding:"omitempty,dive,uuid"`
}

// Create stores a new column and appends it to the board's column order.
func (h *ColumnHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req createColumnRequest
	if !bindJSON(c, &req) {
		return
	}

	column, err := h.svc.Create(c.Request.Context(), actor, uuid.MustParse(req.BoardID), req.Title)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, column)
}

// Update patches the column title and/or its card order list.
func (h *ColumnHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	columnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateColumnRequest
	if !bindJSON(c, &req) {
		return
	}

	var cardOrderIDs []uuid.UUID
	if req.CardOrderIDs != nil {
		ids, ok := parseUUIDs(c, req.CardOrderIDs)
		if !ok {
			return
		}
		cardOrderIDs = ids
	}

	column, err := h.svc.Update(c.Request.Context(), actor, columnID, req.Title, cardOrderIDs)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, column)
}

// Delete removes the column, its cards and its board order entry.
func (h *ColumnHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	columnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actor, columnID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Column and its Cards deleted successfully!"})
}
