package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/officialid/officialid-api/internal/dto"
	apierrors "github.com/officialid/officialid-api/internal/errors"
	"github.com/officialid/officialid-api/internal/middleware"
	"github.com/officialid/officialid-api/internal/models"
	"github.com/officialid/officialid-api/internal/repository"
	"github.com/officialid/officialid-api/internal/services"
	"github.com/officialid/officialid-api/internal/utils"
)

// PaymentHandler coordinates upgrade payment HTTP handlers.
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// SubmitPayment records the caller's upgrade payment with proof.
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SubmitRequest struct {
		Amount   int64  `json:"amount" binding:"required"`
		ProofURL string `json:"proof_url" binding:"required"`
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.SubmitPayment(userID, req.Amount, req.ProofURL)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPaymentDTO(*payment))
}

// ListMyPayments returns the caller's payments.
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	payments, err := h.paymentService.ListPaymentsForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch payments")
		return
	}

	paymentDTOs := make([]dto.PaymentDTO, len(payments))
	for i, payment := range payments {
		paymentDTOs[i] = dto.ToPaymentDTO(payment)
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": paymentDTOs,
	})
}

// ListPayments returns all payments for the admin panel.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.PaymentFilter{
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.PaymentStatus(statusStr)
		filter.Status = &status
	}

	payments, total, err := h.paymentService.ListPayments(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch payments")
		return
	}

	paymentDTOs := make([]dto.PaymentDTO, len(payments))
	for i, payment := range payments {
		paymentDTOs[i] = dto.ToPaymentDTO(payment)
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": paymentDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ReviewPayment approves or rejects a pending payment.
func (h *PaymentHandler) ReviewPayment(c *gin.Context) {
	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid payment ID")
		return
	}

	type ReviewRequest struct {
		Status models.PaymentStatus `json:"status" binding:"required"`
		Note   string               `json:"note"`
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	reviewerID, _ := middleware.GetUserID(c)

	payment, err := h.paymentService.ReviewPayment(c.Request.Context(), paymentID, reviewerID, req.Status, req.Note)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentDTO(*payment))
}

func respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPaymentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidPaymentAmount):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPaymentAlreadyFinal):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
