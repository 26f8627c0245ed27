package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/officialid/officialid-api/internal/errors"
	"github.com/officialid/officialid-api/internal/mailer"
	"github.com/officialid/officialid-api/internal/middleware"
	"github.com/officialid/officialid-api/internal/models"
	"github.com/officialid/officialid-api/internal/services"
	"github.com/officialid/officialid-api/internal/utils"
)

// EmailHandler serves the circle batch email endpoint.
type EmailHandler struct {
	dispatcher *mailer.Dispatcher
	orgService *services.OrganizationService
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(dispatcher *mailer.Dispatcher, orgService *services.OrganizationService) *EmailHandler {
	return &EmailHandler{
		dispatcher: dispatcher,
		orgService: orgService,
	}
}

// SendCircleEmail sends a broadcast or member message to a list of circle
// recipients sequentially, returning a per-recipient result array. Broadcast
// requires circle admin; message requires approved membership.
func (h *EmailHandler) SendCircleEmail(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CircleEmailRequest struct {
		Type       string   `json:"type" binding:"required,oneof=broadcast message"`
		Recipients []string `json:"recipients" binding:"required,min=1"`
		CircleName string   `json:"circleName" binding:"required"`
		SenderName string   `json:"senderName" binding:"required"`
		Message    string   `json:"message" binding:"required"`
		RelatedID  uint64   `json:"relatedId" binding:"required"`
	}

	var req CircleEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	for _, recipient := range req.Recipients {
		if !utils.IsValidEmail(recipient) {
			apierrors.BadRequest(c, fmt.Sprintf("Invalid recipient address: %s", recipient))
			return
		}
	}

	membership := h.orgService.CheckMembership(req.RelatedID, userID)
	switch req.Type {
	case "broadcast":
		if !membership.IsAdmin {
			apierrors.Forbidden(c, "Only circle admins can broadcast")
			return
		}
	default:
		if !membership.IsMember {
			apierrors.Forbidden(c, "Only circle members can send messages")
			return
		}
	}

	kind := models.EmailKindMessage
	subject := fmt.Sprintf("New message from %s in %s", req.SenderName, req.CircleName)
	if req.Type == "broadcast" {
		kind = models.EmailKindBroadcast
		subject = fmt.Sprintf("Announcement from %s", req.CircleName)
	}

	html := fmt.Sprintf("<p><strong>%s</strong> (%s):</p><p>%s</p>",
		req.SenderName, req.CircleName, req.Message)

	results := h.dispatcher.DeliverBatch(c.Request.Context(), kind, &req.RelatedID, req.Recipients, subject, html)

	c.JSON(http.StatusOK, gin.H{
		"results": results,
	})
}
