package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/officialid/officialid-api/internal/errors"
	"github.com/officialid/officialid-api/internal/services"
)

// TemplateHandler serves PIN verification for protected card templates.
type TemplateHandler struct {
	templateService *services.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// VerifyPin checks a PIN against a protected template.
func (h *TemplateHandler) VerifyPin(c *gin.Context) {
	type VerifyPinRequest struct {
		TemplateID uint64 `json:"templateId" binding:"required"`
		Pin        string `json:"pin" binding:"required"`
	}

	var req VerifyPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	valid, err := h.templateService.VerifyPin(c.Request.Context(), req.TemplateID, req.Pin, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTooManyPinAttempts):
			apierrors.TooManyRequests(c, err.Error())
		case errors.Is(err, services.ErrCardNotFound),
			errors.Is(err, services.ErrTemplateNotProtected):
			apierrors.NotFound(c, err.Error())
		default:
			apierrors.InternalError(c, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": valid,
	})
}
