package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/officialid/officialid-api/internal/errors"
	"github.com/officialid/officialid-api/internal/middleware"
	"github.com/officialid/officialid-api/internal/services"
)

// EventHandler coordinates attendance event HTTP handlers.
type EventHandler struct {
	eventService *services.EventService
	orgService   *services.OrganizationService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *services.EventService, orgService *services.OrganizationService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		orgService:   orgService,
	}
}

// CreateEvent creates an attendance event for the organization in :id.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	type CreateEventRequest struct {
		Name     string     `json:"name" binding:"required"`
		Slug     string     `json:"slug" binding:"required"`
		StartsAt *time.Time `json:"starts_at"`
		EndsAt   *time.Time `json:"ends_at"`
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)

	event, err := h.eventService.CreateEvent(services.CreateEventInput{
		OrganizationID: org.ID,
		Name:           req.Name,
		Slug:           req.Slug,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		CreatedBy:      userID,
	})
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// ListEvents lists the organization's events.
func (h *EventHandler) ListEvents(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	events, err := h.eventService.ListEvents(org.ID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
	})
}

// GetPublicEvent returns the public check-in form data. No authentication.
func (h *EventHandler) GetPublicEvent(c *gin.Context) {
	event, err := h.eventService.GetEventBySlug(c.Param("slug"))
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        event.ID,
		"name":      event.Name,
		"slug":      event.Slug,
		"starts_at": event.StartsAt,
		"ends_at":   event.EndsAt,
	})
}

// CheckIn records a public attendance. No authentication.
func (h *EventHandler) CheckIn(c *gin.Context) {
	type CheckInRequest struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required"`
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	attendance, err := h.eventService.CheckIn(c.Param("slug"), req.Name, req.Email)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Checked in",
		"checked_in_at": attendance.CheckedInAt,
	})
}

// ListAttendances lists an event's check-ins for organization admins.
func (h *EventHandler) ListAttendances(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	eventID, err := strconv.ParseUint(c.Param("event_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid event ID")
		return
	}

	event, err := h.eventService.GetEvent(eventID)
	if err != nil {
		respondEventError(c, err)
		return
	}
	if event.OrganizationID != org.ID {
		apierrors.NotFound(c, "event not found")
		return
	}

	attendances, err := h.eventService.ListAttendances(eventID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attendances": attendances,
	})
}

func respondEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidEventSlug),
		errors.Is(err, services.ErrInvalidEmail):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrSlugTaken),
		errors.Is(err, services.ErrAlreadyCheckedIn):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrEventClosed):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
