package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/znlumins/webkalenderaihmpsti/internal/dto"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	"github.com/znlumins/webkalenderaihmpsti/pkg/response"
)

type prokerService interface {
	List(ctx context.Context) ([]models.Proker, error)
	Create(ctx context.Context, actor *models.Actor, req dto.ProkerRequest) (*models.Proker, error)
	Update(ctx context.Context, actor *models.Actor, id string, req dto.ProkerRequest) (*models.Proker, error)
	Delete(ctx context.Context, actor *models.Actor, id string) error
}

// ProkerHandler exposes work programmes.
type ProkerHandler struct {
	service prokerService
}

// NewProkerHandler constructs a ProkerHandler.
func NewProkerHandler(service prokerService) *ProkerHandler {
	return &ProkerHandler{service: service}
}

// List godoc
// @Summary List work programmes
// @Tags Prokers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /prokers [get]
func (h *ProkerHandler) List(c *gin.Context) {
	prokers, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prokers, map[string]interface{}{"count": len(prokers)})
}

// Create godoc
// @Summary Create a work programme
// @Description Department admins always create in their own department
// @Tags Prokers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ProkerRequest true "Proker"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /prokers [post]
func (h *ProkerHandler) Create(c *gin.Context) {
	var req dto.ProkerRequest
	if !bindJSON(c, &req, "invalid proker payload") {
		return
	}
	proker, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, proker)
}

// Update godoc
// @Summary Update a work programme
// @Tags Prokers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Proker ID"
// @Param payload body dto.ProkerRequest true "Proker"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /prokers/{id} [put]
func (h *ProkerHandler) Update(c *gin.Context) {
	var req dto.ProkerRequest
	id, ok := pathID(c, "proker")
	if !ok {
		return
	}
	if !bindJSON(c, &req, "invalid proker payload") {
		return
	}
	proker, err := h.service.Update(c.Request.Context(), actorFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proker)
}

// Delete godoc
// @Summary Delete a work programme
// @Description Removes every event of the programme along with it
// @Tags Prokers
// @Security BearerAuth
// @Param id path string true "Proker ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /prokers/{id} [delete]
func (h *ProkerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "proker")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
