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

const cardTestShareSecret = "test-share-secret"

type cardTestEnv struct {
	db              *gorm.DB
	handler         *CardHandler
	templateHandler *TemplateHandler
	cardService     *services.CardService
}

func setupCardTestEnv(t *testing.T) cardTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.BusinessCard{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	cardRepo := repository.NewCardRepository(db)
	cardService := services.NewCardService(cardRepo, nil, cardTestShareSecret, "http://localhost:3000")
	templateService := services.NewTemplateService(cardRepo, nil)
	handler := NewCardHandler(cardService, nil)
	templateHandler := NewTemplateHandler(templateService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return cardTestEnv{
		db:              db,
		handler:         handler,
		templateHandler: templateHandler,
		cardService:     cardService,
	}
}

func createCardTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := &models.User{
		Email:        email,
		Role:         models.RoleFreeUser,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func cardTestContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func TestCardHandler_CreateCard(t *testing.T) {
	env := setupCardTestEnv(t)

	user := createCardTestUser(t, env.db, "owner@example.com")

	payload := map[string]string{
		"title":     "Work",
		"full_name": "Jane Smith",
		"job_title": "Engineer",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := cardTestContext(http.MethodPost, "/api/cards", body, user.ID)

	env.handler.CreateCard(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.CardDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Jane Smith", response.FullName)
	require.False(t, response.HasPin)
}

func TestCardHandler_CreateCard_WithPin(t *testing.T) {
	env := setupCardTestEnv(t)

	user := createCardTestUser(t, env.db, "owner@example.com")

	payload := map[string]string{
		"title":     "Protected",
		"full_name": "Jane Smith",
		"pin":       "1234",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := cardTestContext(http.MethodPost, "/api/cards", body, user.ID)

	env.handler.CreateCard(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.CardDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.HasPin)

	// The raw PIN never leaves the server.
	var card models.BusinessCard
	require.NoError(t, env.db.First(&card, response.ID).Error)
	require.NotEqual(t, "1234", card.PinHash)
	require.NotEmpty(t, card.PinHash)
}

func TestCardHandler_CreateCard_InvalidPin(t *testing.T) {
	env := setupCardTestEnv(t)

	user := createCardTestUser(t, env.db, "owner@example.com")

	payload := map[string]string{
		"title":     "Protected",
		"full_name": "Jane Smith",
		"pin":       "12ab",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := cardTestContext(http.MethodPost, "/api/cards", body, user.ID)

	env.handler.CreateCard(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCardHandler_GetCard_NotOwner(t *testing.T) {
	env := setupCardTestEnv(t)

	owner := createCardTestUser(t, env.db, "owner@example.com")
	other := createCardTestUser(t, env.db, "other@example.com")

	card, err := env.cardService.CreateCard(owner.ID, services.CardInput{
		Title:    "Work",
		FullName: "Jane Smith",
	})
	require.NoError(t, err)

	c, w := cardTestContext(http.MethodGet, "/api/cards/1", nil, other.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(card.ID, 10)}}

	env.handler.GetCard(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCardHandler_ShareCardAndResolve(t *testing.T) {
	env := setupCardTestEnv(t)

	owner := createCardTestUser(t, env.db, "owner@example.com")

	card, err := env.cardService.CreateCard(owner.ID, services.CardInput{
		Title:    "Work",
		FullName: "Jane Smith",
	})
	require.NoError(t, err)

	link, err := env.cardService.ShareCard(context.Background(), card.ID, owner.ID, "friend@example.com")
	require.NoError(t, err)
	require.Contains(t, link, "/cards/shared/")

	token := link[len("http://localhost:3000/cards/shared/"):]

	// The link works without authentication.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/cards/shared/"+token, nil)
	c.Params = gin.Params{{Key: "token", Value: token}}

	env.handler.GetSharedCard(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.CardDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, card.ID, response.ID)
	require.Equal(t, "Jane Smith", response.FullName)
}

func TestCardHandler_GetSharedCard_BadToken(t *testing.T) {
	env := setupCardTestEnv(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/cards/shared/garbage", nil)
	c.Params = gin.Params{{Key: "token", Value: "garbage"}}

	env.handler.GetSharedCard(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTemplateHandler_VerifyPin(t *testing.T) {
	env := setupCardTestEnv(t)

	owner := createCardTestUser(t, env.db, "owner@example.com")

	card, err := env.cardService.CreateCard(owner.ID, services.CardInput{
		Title:    "Protected",
		FullName: "Jane Smith",
		Pin:      "4321",
	})
	require.NoError(t, err)

	verify := func(pin string) (*httptest.ResponseRecorder, map[string]bool) {
		payload := map[string]any{"templateId": card.ID, "pin": pin}
		body, err := json.Marshal(payload)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/templates/verify-pin", bytes.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		env.templateHandler.VerifyPin(c)

		var response map[string]bool
		json.Unmarshal(w.Body.Bytes(), &response)
		return w, response
	}

	w, response := verify("4321")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, response["valid"])

	// A wrong PIN is a valid request with a negative result.
	w, response = verify("0000")
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, response["valid"])
}

func TestTemplateHandler_VerifyPin_UnprotectedTemplate(t *testing.T) {
	env := setupCardTestEnv(t)

	owner := createCardTestUser(t, env.db, "owner@example.com")

	card, err := env.cardService.CreateCard(owner.ID, services.CardInput{
		Title:    "Open",
		FullName: "Jane Smith",
	})
	require.NoError(t, err)

	payload := map[string]any{"templateId": card.ID, "pin": "1234"}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/templates/verify-pin", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	env.templateHandler.VerifyPin(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
