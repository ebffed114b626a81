package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrovista/agrovista/internal/service/crops"
)

// CropsHandler adapts the crop collection screen to HTTP.
type CropsHandler struct {
	svc    *crops.Service
	logger *zap.Logger
}

// NewCropsHandler constructs the HTTP handler adapter.
func NewCropsHandler(svc *crops.Service, logger *zap.Logger) *CropsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CropsHandler{svc: svc, logger: logger}
}

// List returns the full crop collection in load order.
func (h *CropsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"crops": h.svc.List()})
}

// Form returns the current edit session state.
func (h *CropsHandler) Form(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Form())
}

// OpenCreate opens the form with a default draft.
func (h *CropsHandler) OpenCreate(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.OpenCreate())
}

// OpenEdit opens the form for an existing crop. Unknown ids fail closed.
func (h *CropsHandler) OpenEdit(c *gin.Context) {
	view, err := h.svc.OpenEdit(c.Param("id"))
	if err != nil {
		if errors.Is(err, crops.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "crop not found"})
			return
		}
		h.logger.Error("failed opening crop form", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to open form"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// SetFields merges raw field edits into the open draft. The batch applies
// all-or-nothing: one bad entry rejects the whole patch.
func (h *CropsHandler) SetFields(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.SetFields(fields); err != nil {
		if errors.Is(err, crops.ErrFormClosed) {
			c.JSON(http.StatusConflict, gin.H{"error": "form is not open"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.svc.Form())
}

// Save validates and commits the draft.
func (h *CropsHandler) Save(c *gin.Context) {
	crop, err := h.svc.Save(c.Request.Context())
	if err != nil {
		var verr *crops.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "required fields missing or invalid", "fields": verr.Fields})
		case errors.Is(err, crops.ErrFormClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "form is not open"})
		default:
			h.logger.Error("failed saving crop", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to save crop"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"crop": crop})
}

// Cancel discards the draft and closes the form.
func (h *CropsHandler) Cancel(c *gin.Context) {
	h.svc.Cancel()
	c.Status(http.StatusNoContent)
}
