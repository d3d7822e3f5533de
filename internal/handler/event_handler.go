package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/znlumins/webkalenderaihmpsti/internal/dto"
	"github.com/znlumins/webkalenderaihmpsti/internal/middleware"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	"github.com/znlumins/webkalenderaihmpsti/pkg/response"
)

type eventService interface {
	List(ctx context.Context, filter models.EventFilter) ([]dto.EventResponse, bool, error)
	Get(ctx context.Context, id string) (*dto.EventResponse, error)
	Upcoming(ctx context.Context) (*dto.UpcomingResponse, error)
	Current(ctx context.Context) (*dto.CurrentEventResponse, error)
	CheckConflict(ctx context.Context, actor *models.Actor, req dto.ConflictCheckRequest) (*dto.EventResponse, error)
	Create(ctx context.Context, actor *models.Actor, req dto.EventRequest) (*dto.EventResponse, error)
	Update(ctx context.Context, actor *models.Actor, id string, req dto.EventRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, actor *models.Actor, id string) error
}

// EventHandler exposes the event schedule.
type EventHandler struct {
	service eventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(service eventService) *EventHandler {
	return &EventHandler{service: service}
}

// List godoc
// @Summary List events
// @Description Events earliest first, optionally narrowed to a department or a time window
// @Tags Events
// @Produce json
// @Param department_id query int false "Department (1-8)"
// @Param from query string false "Window start (RFC 3339 or WIB YYYY-MM-DDTHH:mm)"
// @Param to query string false "Window end (RFC 3339 or WIB YYYY-MM-DDTHH:mm)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	filter, err := eventFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	events, cacheHit, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["count"] = len(events)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, events, meta)
}

// Get godoc
// @Summary Event detail
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "event")
	if !ok {
		return
	}
	event, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event)
}

// Upcoming godoc
// @Summary Events of today and tomorrow
// @Description Buckets are Jakarta calendar days
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/upcoming [get]
func (h *EventHandler) Upcoming(c *gin.Context) {
	res, err := h.service.Upcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Current godoc
// @Summary Event running now
// @Description Focus mode: the running event with elapsed percentage and remaining time
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/current [get]
func (h *EventHandler) Current(c *gin.Context) {
	res, err := h.service.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// CheckConflict godoc
// @Summary Preview a schedule conflict
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ConflictCheckRequest true "Interval"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events/conflicts [post]
func (h *EventHandler) CheckConflict(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if !bindJSON(c, &req, "invalid conflict check payload") {
		return
	}
	conflict, err := h.service.CheckConflict(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ConflictCheckResponse{Conflict: conflict})
}

// Create godoc
// @Summary Schedule an event
// @Description Overlapping an existing event answers 409 with meta.conflict unless confirm_conflict is set
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.EventRequest true "Event"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.EventRequest
	if !bindJSON(c, &req, "invalid event payload") {
		return
	}
	event, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update an event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param payload body dto.EventRequest true "Event"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req dto.EventRequest
	id, ok := pathID(c, "event")
	if !ok {
		return
	}
	if !bindJSON(c, &req, "invalid event payload") {
		return
	}
	event, err := h.service.Update(c.Request.Context(), actorFromContext(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Tags Events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "event")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
