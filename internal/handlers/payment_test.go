package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/officialid/officialid-api/internal/constants"
	"github.com/officialid/officialid-api/internal/database"
	"github.com/officialid/officialid-api/internal/dto"
	"github.com/officialid/officialid-api/internal/models"
	"github.com/officialid/officialid-api/internal/repository"
	"github.com/officialid/officialid-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type paymentTestEnv struct {
	db             *gorm.DB
	handler        *PaymentHandler
	paymentService *services.PaymentService
}

func setupPaymentTestEnv(t *testing.T) paymentTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.PaymentTransaction{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)
	paymentService := services.NewPaymentService(paymentRepo, userRepo, nil)
	handler := NewPaymentHandler(paymentService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return paymentTestEnv{
		db:             db,
		handler:        handler,
		paymentService: paymentService,
	}
}

func createPaymentTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	user := &models.User{
		Email:        email,
		Role:         role,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestPaymentHandler_SubmitPayment(t *testing.T) {
	env := setupPaymentTestEnv(t)

	user := createPaymentTestUser(t, env.db, "payer@example.com", models.RoleFreeUser)

	payload := map[string]any{
		"amount":    99000,
		"proof_url": "https://cdn.example.com/proof.png",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/payments", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.SubmitPayment(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.PaymentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.PaymentStatusPending, response.Status)
	require.NotEmpty(t, response.Reference)
}

func TestPaymentHandler_ReviewPayment_ApprovalUpgradesRole(t *testing.T) {
	env := setupPaymentTestEnv(t)

	payer := createPaymentTestUser(t, env.db, "payer@example.com", models.RoleFreeUser)
	admin := createPaymentTestUser(t, env.db, "admin@example.com", models.RoleAppAdmin)

	payment, err := env.paymentService.SubmitPayment(payer.ID, 99000, "https://cdn.example.com/proof.png")
	require.NoError(t, err)

	payload := map[string]string{"status": string(models.PaymentStatusApproved)}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/api/admin/payments/1", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(payment.ID, 10)}}

	env.handler.ReviewPayment(c)

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, env.db.First(&updated, payer.ID).Error)
	require.Equal(t, models.RolePaidUser, updated.Role)

	var reviewed models.PaymentTransaction
	require.NoError(t, env.db.First(&reviewed, payment.ID).Error)
	require.Equal(t, models.PaymentStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	require.Equal(t, admin.ID, *reviewed.ReviewedBy)
}

func TestPaymentHandler_ReviewPayment_RejectionKeepsRole(t *testing.T) {
	env := setupPaymentTestEnv(t)

	payer := createPaymentTestUser(t, env.db, "payer@example.com", models.RoleFreeUser)
	admin := createPaymentTestUser(t, env.db, "admin@example.com", models.RoleAppAdmin)

	payment, err := env.paymentService.SubmitPayment(payer.ID, 99000, "https://cdn.example.com/proof.png")
	require.NoError(t, err)

	_, err = env.paymentService.ReviewPayment(context.Background(), payment.ID, admin.ID, models.PaymentStatusRejected, "proof unreadable")
	require.NoError(t, err)

	var updated models.User
	require.NoError(t, env.db.First(&updated, payer.ID).Error)
	require.Equal(t, models.RoleFreeUser, updated.Role)
}

func TestPaymentHandler_ReviewPayment_AlreadyFinal(t *testing.T) {
	env := setupPaymentTestEnv(t)

	payer := createPaymentTestUser(t, env.db, "payer@example.com", models.RoleFreeUser)
	admin := createPaymentTestUser(t, env.db, "admin@example.com", models.RoleAppAdmin)

	payment, err := env.paymentService.SubmitPayment(payer.ID, 99000, "https://cdn.example.com/proof.png")
	require.NoError(t, err)

	_, err = env.paymentService.ReviewPayment(context.Background(), payment.ID, admin.ID, models.PaymentStatusApproved, "")
	require.NoError(t, err)

	// A reviewed payment cannot be re-reviewed.
	payload := map[string]string{"status": string(models.PaymentStatusRejected)}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/api/admin/payments/1", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(payment.ID, 10)}}

	env.handler.ReviewPayment(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestPaymentHandler_SubmitPayment_InvalidAmount(t *testing.T) {
	env := setupPaymentTestEnv(t)

	user := createPaymentTestUser(t, env.db, "payer@example.com", models.RoleFreeUser)

	_, err := env.paymentService.SubmitPayment(user.ID, -50, "https://cdn.example.com/proof.png")
	require.ErrorIs(t, err, services.ErrInvalidPaymentAmount)
}
