package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	"github.com/znlumins/webkalenderaihmpsti/internal/service"
	"github.com/znlumins/webkalenderaihmpsti/pkg/response"
)

const calendarContentType = "text/calendar; charset=utf-8"

type exportService interface {
	Agenda(ctx context.Context, filter models.EventFilter, format service.ExportFormat) (*service.ExportFile, error)
	Calendar(ctx context.Context, filter models.EventFilter) ([]byte, error)
}

// ExportHandler serves agenda downloads and the iCalendar feed.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Agenda godoc
// @Summary Download the agenda
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Param department_id query int false "Department (1-8)"
// @Param from query string false "Window start"
// @Param to query string false "Window end"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /events/export [get]
func (h *ExportHandler) Agenda(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filter, err := eventFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Agenda(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// Calendar godoc
// @Summary iCalendar feed
// @Description Subscribable feed of the schedule, optionally for one department
// @Tags Export
// @Produce text/calendar
// @Param department_id query int false "Department (1-8)"
// @Success 200 {file} file
// @Router /calendar.ics [get]
func (h *ExportHandler) Calendar(c *gin.Context) {
	filter, err := eventFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	body, err := h.service.Calendar(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, calendarContentType, body)
}
