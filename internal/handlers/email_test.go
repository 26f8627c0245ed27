package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/officialid/officialid-api/internal/constants"
	"github.com/officialid/officialid-api/internal/database"
	"github.com/officialid/officialid-api/internal/mailer"
	"github.com/officialid/officialid-api/internal/models"
	"github.com/officialid/officialid-api/internal/repository"
	"github.com/officialid/officialid-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeSender records sent messages and can fail specific recipients.
type fakeSender struct {
	sent    []mailer.Message
	failFor map[string]bool
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) (string, error) {
	if f.failFor[msg.To] {
		return "", errors.New("provider rejected recipient")
	}
	f.sent = append(f.sent, msg)
	return fmt.Sprintf("msg-%d", len(f.sent)), nil
}

type emailTestEnv struct {
	db      *gorm.DB
	handler *EmailHandler
	sender  *fakeSender
	org     *models.Organization
	owner   *models.User
}

func setupEmailTestEnv(t *testing.T) emailTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.OrganizationInvitation{},
		&models.EmailLog{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sender := &fakeSender{failFor: map[string]bool{}}
	emailLogRepo := repository.NewEmailLogRepository(db)
	dispatcher := mailer.NewDispatcher(sender, "noreply@officialid.example", emailLogRepo)

	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	orgService := services.NewOrganizationService(orgRepo, userRepo, dispatcher, "http://localhost:3000")
	handler := NewEmailHandler(dispatcher, orgService)

	owner := &models.User{
		Email:        "owner@example.com",
		Role:         models.RolePaidUser,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(owner).Error)

	org, err := orgService.CreateOrganization(owner, services.CreateOrganizationInput{
		Name:     "Mail Circle",
		IsPublic: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return emailTestEnv{
		db:      db,
		handler: handler,
		sender:  sender,
		org:     org,
		owner:   owner,
	}
}

func circleEmailRequest(t *testing.T, env emailTestEnv, userID uint64, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/email/circle", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, userID)

	env.handler.SendCircleEmail(c)
	return w
}

func TestEmailHandler_Broadcast(t *testing.T) {
	env := setupEmailTestEnv(t)

	w := circleEmailRequest(t, env, env.owner.ID, map[string]any{
		"type":       "broadcast",
		"recipients": []string{"a@example.com", "b@example.com"},
		"circleName": "Mail Circle",
		"senderName": "Owner",
		"message":    "Meeting moved to Friday.",
		"relatedId":  env.org.ID,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Results []mailer.RecipientResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Results, 2)
	for _, result := range response.Results {
		require.True(t, result.Success)
	}

	require.Len(t, env.sender.sent, 2)

	// Every attempt lands in the audit log.
	var count int64
	env.db.Model(&models.EmailLog{}).
		Where("kind = ? AND status = ?", models.EmailKindBroadcast, models.EmailStatusSent).Count(&count)
	require.Equal(t, int64(2), count)
}

func TestEmailHandler_Broadcast_PartialFailure(t *testing.T) {
	env := setupEmailTestEnv(t)
	env.sender.failFor["bounce@example.com"] = true

	w := circleEmailRequest(t, env, env.owner.ID, map[string]any{
		"type":       "broadcast",
		"recipients": []string{"ok@example.com", "bounce@example.com"},
		"circleName": "Mail Circle",
		"senderName": "Owner",
		"message":    "Hello",
		"relatedId":  env.org.ID,
	})

	// A failed recipient does not fail the request; it is reported per row.
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Results []mailer.RecipientResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Results, 2)
	require.True(t, response.Results[0].Success)
	require.False(t, response.Results[1].Success)
	require.NotEmpty(t, response.Results[1].Error)

	var count int64
	env.db.Model(&models.EmailLog{}).
		Where("recipient = ? AND status = ?", "bounce@example.com", models.EmailStatusFailed).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestEmailHandler_Broadcast_RequiresAdmin(t *testing.T) {
	env := setupEmailTestEnv(t)

	stranger := &models.User{
		Email:        "stranger@example.com",
		Role:         models.RoleFreeUser,
		PasswordHash: "hashed",
	}
	require.NoError(t, env.db.Create(stranger).Error)

	w := circleEmailRequest(t, env, stranger.ID, map[string]any{
		"type":       "broadcast",
		"recipients": []string{"a@example.com"},
		"circleName": "Mail Circle",
		"senderName": "Stranger",
		"message":    "Hello",
		"relatedId":  env.org.ID,
	})

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Empty(t, env.sender.sent)
}

func TestEmailHandler_InvalidRecipient(t *testing.T) {
	env := setupEmailTestEnv(t)

	w := circleEmailRequest(t, env, env.owner.ID, map[string]any{
		"type":       "broadcast",
		"recipients": []string{"not-an-email"},
		"circleName": "Mail Circle",
		"senderName": "Owner",
		"message":    "Hello",
		"relatedId":  env.org.ID,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, env.sender.sent)
}

func TestEmailHandler_UnknownType(t *testing.T) {
	env := setupEmailTestEnv(t)

	w := circleEmailRequest(t, env, env.owner.ID, map[string]any{
		"type":       "newsletter",
		"recipients": []string{"a@example.com"},
		"circleName": "Mail Circle",
		"senderName": "Owner",
		"message":    "Hello",
		"relatedId":  env.org.ID,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}
