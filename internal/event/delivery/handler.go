package delivery

import (
	"errors"
	"net/http"

	"jobmail-backend/internal/event/domain"
	"jobmail-backend/internal/event/usecase"

	"github.com/gin-gonic/gin"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	syncUsecase  usecase.SyncUsecase
	eventUsecase usecase.EventUsecase
}

func NewEventHandler(syncUc usecase.SyncUsecase, eventUc usecase.EventUsecase) *EventHandler {
	return &EventHandler{
		syncUsecase:  syncUc,
		eventUsecase: eventUc,
	}
}

// ExtractCompanyRequest feeds the company heuristics directly, for the
// manual-entry form.
type ExtractCompanyRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	From    string `json:"from"`
}

// Sync pulls recent mail and runs the extraction pipeline.
// POST /api/events/sync
func (h *EventHandler) Sync(c *gin.Context) {
	userID := c.GetString("userID")

	events, err := h.syncUsecase.Sync(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":      "mail authorization required",
				"needs_auth": true,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if events == nil {
		events = []*domain.Event{}
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// PreviewMail returns the user's recent mail as fetched, without writing
// anything. Useful for checking the provider connection.
// GET /api/gmail
func (h *EventHandler) PreviewMail(c *gin.Context) {
	userID := c.GetString("userID")

	messages, err := h.syncUsecase.Preview(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":      "mail authorization required",
				"needs_auth": true,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if messages == nil {
		messages = []*domain.FetchedMessage{}
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}

// GetEvents returns all events for the authenticated user, ordered by
// start time. An optional ?q= filters with fuzzy matching, most relevant
// first.
// GET /api/events
func (h *EventHandler) GetEvents(c *gin.Context) {
	userID := c.GetString("userID")

	var events []*domain.Event
	var err error
	if query := c.Query("q"); query != "" {
		events, err = h.eventUsecase.SearchEvents(userID, query)
	} else {
		events, err = h.eventUsecase.ListEvents(userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if events == nil {
		events = []*domain.Event{}
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  len(events),
	})
}

// GetEventByID returns a specific event
// GET /api/events/:id
func (h *EventHandler) GetEventByID(c *gin.Context) {
	userID := c.GetString("userID")
	eventID := c.Param("id")

	event, err := h.eventUsecase.GetEventByID(userID, eventID)
	if err != nil {
		h.writeEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateEvent applies a partial edit to an event
// PATCH /api/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID := c.GetString("userID")
	eventID := c.Param("id")

	var updates usecase.EventUpdateRequest
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventUsecase.UpdateEvent(userID, eventID, updates)
	if err != nil {
		h.writeEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent deletes an event
// DELETE /api/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID := c.GetString("userID")
	eventID := c.Param("id")

	if err := h.eventUsecase.DeleteEvent(userID, eventID); err != nil {
		h.writeEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// ExtractCompany runs the company-name heuristics over caller-supplied text
// POST /api/events/extract-company
func (h *EventHandler) ExtractCompany(c *gin.Context) {
	var req ExtractCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company := h.eventUsecase.ExtractCompany(req.Subject, req.Body, req.From)
	c.JSON(http.StatusOK, gin.H{"company_name": company})
}

func (h *EventHandler) writeEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, domain.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
