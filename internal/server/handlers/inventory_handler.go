package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrovista/agrovista/internal/service/inventory"
)

// InventoryHandler adapts the inventory collection screen to HTTP.
type InventoryHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc *inventory.Service, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// List returns the inventory, filtered by the optional q search term.
func (h *InventoryHandler) List(c *gin.Context) {
	term := c.Query("q")
	items := h.svc.Search(term)
	c.JSON(http.StatusOK, gin.H{"items": items, "q": term})
}

// Form returns the current edit session state.
func (h *InventoryHandler) Form(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Form())
}

// OpenCreate opens the form with a default draft.
func (h *InventoryHandler) OpenCreate(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.OpenCreate())
}

// OpenEdit opens the form for an existing item. Unknown ids fail closed.
func (h *InventoryHandler) OpenEdit(c *gin.Context) {
	view, err := h.svc.OpenEdit(c.Param("id"))
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory item not found"})
			return
		}
		h.logger.Error("failed opening inventory form", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to open form"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// SetFields merges raw field edits into the open draft. The batch applies
// all-or-nothing: one bad entry rejects the whole patch.
func (h *InventoryHandler) SetFields(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.SetFields(fields); err != nil {
		if errors.Is(err, inventory.ErrFormClosed) {
			c.JSON(http.StatusConflict, gin.H{"error": "form is not open"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.svc.Form())
}

// Save validates and commits the draft.
func (h *InventoryHandler) Save(c *gin.Context) {
	item, err := h.svc.Save(c.Request.Context())
	if err != nil {
		var verr *inventory.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "required fields missing or invalid", "fields": verr.Fields})
		case errors.Is(err, inventory.ErrFormClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "form is not open"})
		default:
			h.logger.Error("failed saving inventory item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to save item"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// Cancel discards the draft and closes the form.
func (h *InventoryHandler) Cancel(c *gin.Context) {
	h.svc.Cancel()
	c.Status(http.StatusNoContent)
}
