package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/officialid/officialid-api/internal/constants"
	"github.com/officialid/officialid-api/internal/database"
	"github.com/officialid/officialid-api/internal/models"
	"github.com/officialid/officialid-api/internal/repository"
	"github.com/officialid/officialid-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type eventTestEnv struct {
	db           *gorm.DB
	handler      *EventHandler
	eventService *services.EventService
	org          *models.Organization
	owner        *models.User
}

func setupEventTestEnv(t *testing.T) eventTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Event{},
		&models.EventAttendance{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	eventRepo := repository.NewEventRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	eventService := services.NewEventService(eventRepo)
	orgService := services.NewOrganizationService(orgRepo, userRepo, nil, "http://localhost:3000")
	handler := NewEventHandler(eventService, orgService)

	owner := &models.User{
		Email:        "owner@example.com",
		Role:         models.RolePaidUser,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(owner).Error)

	org, err := orgService.CreateOrganization(owner, services.CreateOrganizationInput{
		Name:     "Event Circle",
		IsPublic: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return eventTestEnv{
		db:           db,
		handler:      handler,
		eventService: eventService,
		org:          org,
		owner:        owner,
	}
}

func TestEventHandler_CreateEvent(t *testing.T) {
	env := setupEventTestEnv(t)

	payload := map[string]string{
		"name": "Monthly Meetup",
		"slug": "monthly-meetup",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/organizations/1/events", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, env.owner.ID)
	c.Set("organization", *env.org)

	env.handler.CreateEvent(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var event models.Event
	err = env.db.Where("slug = ?", "monthly-meetup").First(&event).Error
	require.NoError(t, err)
	require.Equal(t, env.org.ID, event.OrganizationID)
}

func TestEventHandler_CreateEvent_BadSlug(t *testing.T) {
	env := setupEventTestEnv(t)

	_, err := env.eventService.CreateEvent(services.CreateEventInput{
		OrganizationID: env.org.ID,
		Name:           "Bad Slug",
		Slug:           "Bad Slug!",
		CreatedBy:      env.owner.ID,
	})
	require.ErrorIs(t, err, services.ErrInvalidEventSlug)
}

func TestEventHandler_CreateEvent_SlugTaken(t *testing.T) {
	env := setupEventTestEnv(t)

	_, err := env.eventService.CreateEvent(services.CreateEventInput{
		OrganizationID: env.org.ID,
		Name:           "First",
		Slug:           "meetup",
		CreatedBy:      env.owner.ID,
	})
	require.NoError(t, err)

	_, err = env.eventService.CreateEvent(services.CreateEventInput{
		OrganizationID: env.org.ID,
		Name:           "Second",
		Slug:           "meetup",
		CreatedBy:      env.owner.ID,
	})
	require.ErrorIs(t, err, services.ErrSlugTaken)
}

func TestEventHandler_CheckIn(t *testing.T) {
	env := setupEventTestEnv(t)

	_, err := env.eventService.CreateEvent(services.CreateEventInput{
		OrganizationID: env.org.ID,
		Name:           "Open Event",
		Slug:           "open-event",
		CreatedBy:      env.owner.ID,
	})
	require.NoError(t, err)

	checkIn := func(name, email string) *httptest.ResponseRecorder {
		payload := map[string]string{"name": name, "email": email}
		body, err := json.Marshal(payload)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/events/open-event/checkin", bytes.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "slug", Value: "open-event"}}

		env.handler.CheckIn(c)
		return w
	}

	w := checkIn("Guest One", "guest@example.com")
	require.Equal(t, http.StatusCreated, w.Code)

	// The same email cannot check in twice, regardless of casing.
	w = checkIn("Guest One", "Guest@Example.com")
	require.Equal(t, http.StatusConflict, w.Code)

	var count int64
	env.db.Model(&models.EventAttendance{}).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestEventHandler_CheckIn_OutsideWindow(t *testing.T) {
	env := setupEventTestEnv(t)

	past := time.Now().Add(-2 * time.Hour)
	ended := time.Now().Add(-time.Hour)
	_, err := env.eventService.CreateEvent(services.CreateEventInput{
		OrganizationID: env.org.ID,
		Name:           "Closed Event",
		Slug:           "closed-event",
		StartsAt:       &past,
		EndsAt:         &ended,
		CreatedBy:      env.owner.ID,
	})
	require.NoError(t, err)

	_, err = env.eventService.CheckIn("closed-event", "Late Guest", "late@example.com")
	require.ErrorIs(t, err, services.ErrEventClosed)
}

func TestEventHandler_GetPublicEvent(t *testing.T) {
	env := setupEventTestEnv(t)

	_, err := env.eventService.CreateEvent(services.CreateEventInput{
		OrganizationID: env.org.ID,
		Name:           "Public Event",
		Slug:           "public-event",
		CreatedBy:      env.owner.ID,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/events/public-event", nil)
	c.Params = gin.Params{{Key: "slug", Value: "public-event"}}

	env.handler.GetPublicEvent(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Public Event", response["name"])
}

func TestEventHandler_ListAttendances_WrongOrganization(t *testing.T) {
	env := setupEventTestEnv(t)

	event, err := env.eventService.CreateEvent(services.CreateEventInput{
		OrganizationID: env.org.ID,
		Name:           "Guarded Event",
		Slug:           "guarded-event",
		CreatedBy:      env.owner.ID,
	})
	require.NoError(t, err)

	otherOrg := models.Organization{Name: "Other Circle", OwnerID: env.owner.ID}
	require.NoError(t, env.db.Create(&otherOrg).Error)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/organizations/2/events/1/attendances", nil)
	c.Set(constants.ContextKeyUserID, env.owner.ID)
	c.Set("organization", otherOrg)
	c.Params = gin.Params{{Key: "event_id", Value: strconv.FormatUint(event.ID, 10)}}

	env.handler.ListAttendances(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

// staleAttendanceLookup simulates a check-in racing a concurrent request for
// the same email: the existence check sees no row even though the competing
// insert has already committed.
type staleAttendanceLookup struct {
	repository.EventRepository
}

func (staleAttendanceLookup) FindAttendance(eventID uint64, email string) (*models.EventAttendance, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestEventService_CheckIn_ConcurrentCheckInConflict(t *testing.T) {
	env := setupEventTestEnv(t)

	_, err := env.eventService.CreateEvent(services.CreateEventInput{
		OrganizationID: env.org.ID,
		Name:           "Raced Meetup",
		Slug:           "raced-meetup",
		CreatedBy:      env.owner.ID,
	})
	require.NoError(t, err)

	racedService := services.NewEventService(staleAttendanceLookup{repository.NewEventRepository(env.db)})

	_, err = racedService.CheckIn("raced-meetup", "Guest", "guest@example.com")
	require.NoError(t, err)

	// The second insert loses on the unique (event, email) index and must
	// surface as the already-checked-in conflict.
	_, err = racedService.CheckIn("raced-meetup", "Guest", "guest@example.com")
	require.ErrorIs(t, err, services.ErrAlreadyCheckedIn)

	var count int64
	require.NoError(t, env.db.Model(&models.EventAttendance{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
