package event

import (
	"errors"
	"net/http"
	"strconv"

	"eventhub/internal/middleware"
	"eventhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	events := protected.Group("/events")
	{
		events.POST("", middleware.AdminOnly(), h.CreateEvent)
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)
		events.POST("/:id/register", h.RegisterForEvent)
		events.POST("/:id/cancel", h.CancelRegistration)
	}
	protected.GET("/users/me/events", h.MyEvents)
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	e, err := h.service.CreateEvent(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid event data")
			return
		}
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create event")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"event": e})
}

func (h *Handler) ListEvents(c *gin.Context) {
	var q ListEventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	events, err := h.service.ListEvents(c.Request.Context(), q.Offset, q.Limit, c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list events")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"events": events})
}

func (h *Handler) GetEvent(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	e, err := h.service.GetEvent(c.Request.Context(), eventID, c.GetInt64("user_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Event not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "GET_FAILED", "Failed to load event")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"event": e})
}

func (h *Handler) RegisterForEvent(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	registered, err := h.service.Register(c.Request.Context(), c.GetInt64("user_id"), eventID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register for event")
		return
	}
	if !registered {
		response.Error(c, http.StatusBadRequest, "REGISTRATION_FAILED", "Event is unavailable, full, or you are already registered")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Registered for event"})
}

func (h *Handler) CancelRegistration(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), c.GetInt64("user_id"), eventID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "CANCEL_FAILED", "Failed to cancel registration")
		return
	}
	if !cancelled {
		response.Error(c, http.StatusBadRequest, "CANCEL_FAILED", "No registration found for this event")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Registration cancelled"})
}

func (h *Handler) MyEvents(c *gin.Context) {
	events, err := h.service.UserEvents(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list your events")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"events": events})
}

func parseEventID(c *gin.Context) (int64, bool) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid event ID")
		return 0, false
	}
	return eventID, true
}
