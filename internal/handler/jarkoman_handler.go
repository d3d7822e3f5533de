package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/znlumins/webkalenderaihmpsti/internal/dto"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	"github.com/znlumins/webkalenderaihmpsti/pkg/response"
)

type jarkomanService interface {
	Generate(ctx context.Context, req dto.JarkomanRequest) (*dto.JarkomanResponse, error)
	ForEvent(ctx context.Context, actor *models.Actor, eventID string) (*dto.JarkomanResponse, error)
}

// JarkomanHandler produces WhatsApp broadcast texts.
type JarkomanHandler struct {
	service jarkomanService
}

// NewJarkomanHandler constructs a JarkomanHandler.
func NewJarkomanHandler(service jarkomanService) *JarkomanHandler {
	return &JarkomanHandler{service: service}
}

// Generate godoc
// @Summary Generate a broadcast text
// @Tags Jarkoman
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.JarkomanRequest true "Event fields"
// @Success 200 {object} dto.JarkomanResponse
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /generate-jarkoman [post]
func (h *JarkomanHandler) Generate(c *gin.Context) {
	var req dto.JarkomanRequest
	if !bindJSON(c, &req, "invalid jarkoman payload") {
		return
	}
	res, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ForEvent godoc
// @Summary Generate the broadcast text of a stored event
// @Tags Jarkoman
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.JarkomanResponse
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /events/{id}/jarkoman [post]
func (h *JarkomanHandler) ForEvent(c *gin.Context) {
	id, ok := pathID(c, "event")
	if !ok {
		return
	}
	res, err := h.service.ForEvent(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
