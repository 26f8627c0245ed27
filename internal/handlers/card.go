package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/officialid/officialid-api/internal/dto"
	apierrors "github.com/officialid/officialid-api/internal/errors"
	"github.com/officialid/officialid-api/internal/middleware"
	"github.com/officialid/officialid-api/internal/services"
	"github.com/officialid/officialid-api/internal/utils"
)

// CardHandler coordinates business card HTTP handlers.
type CardHandler struct {
	cardService *services.CardService
	aiService   *services.AIService
}

// NewCardHandler creates a new CardHandler. aiService may be nil when no API
// key is configured.
func NewCardHandler(cardService *services.CardService, aiService *services.AIService) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		aiService:   aiService,
	}
}

type cardRequest struct {
	Title      string `json:"title" binding:"required"`
	FullName   string `json:"full_name" binding:"required"`
	JobTitle   string `json:"job_title"`
	Company    string `json:"company"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Website    string `json:"website"`
	Bio        string `json:"bio"`
	TemplateID string `json:"template_id"`
	Pin        string `json:"pin"`
}

func (r cardRequest) toInput() services.CardInput {
	return services.CardInput{
		Title:      r.Title,
		FullName:   r.FullName,
		JobTitle:   r.JobTitle,
		Company:    r.Company,
		Phone:      r.Phone,
		Email:      r.Email,
		Website:    r.Website,
		Bio:        r.Bio,
		TemplateID: r.TemplateID,
		Pin:        r.Pin,
	}
}

// CreateCard creates a business card for the caller.
func (h *CardHandler) CreateCard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.cardService.CreateCard(userID, req.toInput())
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCardDTO(*card))
}

// ListCards returns the caller's cards.
func (h *CardHandler) ListCards(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	cards, total, err := h.cardService.ListCards(userID, params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch cards")
		return
	}

	cardDTOs := make([]dto.CardDTO, len(cards))
	for i, card := range cards {
		cardDTOs[i] = dto.ToCardDTO(card)
	}

	c.JSON(http.StatusOK, gin.H{
		"cards": cardDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetCard returns one of the caller's cards.
func (h *CardHandler) GetCard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	cardID, ok := parseCardID(c)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(cardID, userID)
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCardDTO(*card))
}

// UpdateCard updates one of the caller's cards.
func (h *CardHandler) UpdateCard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	cardID, ok := parseCardID(c)
	if !ok {
		return
	}

	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.cardService.UpdateCard(cardID, userID, req.toInput())
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCardDTO(*card))
}

// DeleteCard deletes one of the caller's cards.
func (h *CardHandler) DeleteCard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	cardID, ok := parseCardID(c)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(cardID, userID); err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Card deleted successfully",
	})
}

// ShareCard emails a view link for the card.
func (h *CardHandler) ShareCard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	cardID, ok := parseCardID(c)
	if !ok {
		return
	}

	type ShareRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	link, err := h.cardService.ShareCard(c.Request.Context(), cardID, userID, req.Email)
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Card shared",
		"link":    link,
	})
}

// GetSharedCard resolves a public share token. No authentication.
func (h *CardHandler) GetSharedCard(c *gin.Context) {
	card, err := h.cardService.GetSharedCard(c.Param("token"))
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCardDTO(*card))
}

// SuggestBio drafts card copy with AI. Available only when configured.
func (h *CardHandler) SuggestBio(c *gin.Context) {
	if h.aiService == nil {
		apierrors.RespondWithError(c, http.StatusServiceUnavailable,
			apierrors.NewAPIError(apierrors.ErrCodeInternalError, "AI suggestions are not enabled"))
		return
	}

	type SuggestRequest struct {
		JobTitle string `json:"job_title"`
		Company  string `json:"company"`
		About    string `json:"about" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestion, err := h.aiService.SuggestBio(c.Request.Context(), req.JobTitle, req.Company, req.About)
	if err != nil {
		apierrors.InternalError(c, "Failed to generate suggestion")
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

func parseCardID(c *gin.Context) (uint64, bool) {
	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid card ID")
		return 0, false
	}
	return cardID, true
}

func respondCardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCardNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotCardOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidCardName),
		errors.Is(err, services.ErrInvalidPin),
		errors.Is(err, services.ErrInvalidEmail):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
