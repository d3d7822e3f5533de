package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/znlumins/webkalenderaihmpsti/internal/dto"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	"github.com/znlumins/webkalenderaihmpsti/pkg/response"
	"github.com/znlumins/webkalenderaihmpsti/pkg/timezone"
)

// ReferenceHandler serves the fixed lookup tables the forms are built from.
type ReferenceHandler struct{}

// NewReferenceHandler constructs a ReferenceHandler.
func NewReferenceHandler() *ReferenceHandler {
	return &ReferenceHandler{}
}

// Departments godoc
// @Summary List departments
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *ReferenceHandler) Departments(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, response.Envelope{Data: models.Departments})
}

// Reference godoc
// @Summary Form reference data
// @Description Departments, activity types, divisions and statuses
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference [get]
func (h *ReferenceHandler) Reference(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, response.Envelope{Data: dto.ReferenceData{
		Departments:   models.Departments,
		ActivityTypes: models.ActivityTypes,
		Divisions:     models.Divisions,
		Statuses:      []string{string(models.EventStatusFix), string(models.EventStatusTentative)},
		TimeZone:      timezone.Name,
	}})
}
