package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	"github.com/znlumins/webkalenderaihmpsti/internal/service"
)

type fakeExportSrv struct {
	format     service.ExportFormat
	filter     models.EventFilter
	agendaN    int
	calendarN  int
	calendarIC []byte
}

func (f *fakeExportSrv) Agenda(_ context.Context, filter models.EventFilter, format service.ExportFormat) (*service.ExportFile, error) {
	f.agendaN++
	f.filter = filter
	f.format = format
	return &service.ExportFile{
		Filename:    "agenda_20240812_1300." + string(format),
		ContentType: "text/csv; charset=utf-8",
		Body:        []byte("Tanggal,Jam (WIB)\n"),
	}, nil
}

func (f *fakeExportSrv) Calendar(_ context.Context, filter models.EventFilter) ([]byte, error) {
	f.calendarN++
	f.filter = filter
	return f.calendarIC, nil
}

func TestExportHandlerAgendaRejectsUnknownFormat(t *testing.T) {
	srv := &fakeExportSrv{}
	handler := NewExportHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/api/events/export?format=xlsx", nil)
	handler.Agenda(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, srv.agendaN)
}

func TestExportHandlerAgendaDefaultsToCSV(t *testing.T) {
	srv := &fakeExportSrv{}
	handler := NewExportHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/api/events/export?department_id=5", nil)
	handler.Agenda(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportFormatCSV, srv.format)
	require.NotNil(t, srv.filter.DepartmentID)
	assert.Equal(t, 5, *srv.filter.DepartmentID)
	assert.Equal(t, `attachment; filename="agenda_20240812_1300.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Tanggal,Jam (WIB)\n", rec.Body.String())
}

func TestExportHandlerCalendarServesFeed(t *testing.T) {
	srv := &fakeExportSrv{calendarIC: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")}
	handler := NewExportHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/api/calendar.ics", nil)
	handler.Calendar(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, calendarContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
	assert.Equal(t, 1, srv.calendarN)
}
