package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
)

func newExportFixture() (*ExportService, *mockEventRepo) {
	events := newMockEventRepo(
		models.Event{
			ID:           eventPleno,
			Title:        "Rapat Pleno",
			ActivityType: "Rapat Rutin",
			Start:        time.Date(2024, 8, 12, 6, 0, 0, 0, time.UTC),
			End:          time.Date(2024, 8, 12, 8, 0, 0, 0, time.UTC),
			Location:     "Sekre Utama",
			Participants: "BPH, Staff Ahli",
			PIC:          "Dina",
			Status:       models.EventStatusTentative,
			Proker:       models.EventProker{Name: "Upgrading", DepartmentID: 3},
		},
		models.Event{
			ID:           "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb",
			Title:        "Press Release",
			ActivityType: "Publikasi",
			Start:        time.Date(2024, 8, 13, 2, 0, 0, 0, time.UTC),
			End:          time.Date(2024, 8, 13, 3, 0, 0, 0, time.UTC),
			Participants: models.ParticipantsEveryone,
			Status:       models.EventStatusFix,
			Proker:       models.EventProker{Name: "Media Partner", DepartmentID: 5},
		},
	)
	svc := NewExportService(events, ExportConfig{}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 8, 11, 3, 0, 0, 0, time.UTC) }
	return svc, events
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, f)
	f, err = ParseExportFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatPDF, f)
	_, err = ParseExportFormat("xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAgendaDatasetRendersJakartaTimes(t *testing.T) {
	svc, events := newExportFixture()
	list, err := events.List(context.Background(), models.EventFilter{})
	require.NoError(t, err)

	ds := AgendaDataset("Agenda", list)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, []string{"Sen, 12 Agu 2024", "13.00 - 15.00", "Rapat Pleno", "Rapat Rutin", "Upgrading", "MEDIA", "Sekre Utama", "BPH, Staff Ahli", "Dina", "Tentative"}, ds.Rows[0])
	assert.Len(t, ds.Columns, len(ds.Rows[0]))
	assert.NotNil(t, svc)
}

func TestExportServiceAgendaCSV(t *testing.T) {
	svc, _ := newExportFixture()

	file, err := svc.Agenda(context.Background(), models.EventFilter{DepartmentID: intPtr(5)}, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "agenda_20240811_1000.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	body := string(file.Body)
	assert.Contains(t, body, "Press Release")
	assert.NotContains(t, body, "Rapat Pleno")
}

func TestExportServiceAgendaPDF(t *testing.T) {
	svc, _ := newExportFixture()

	file, err := svc.Agenda(context.Background(), models.EventFilter{}, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF-")))
}

func TestExportServiceAgendaStoreFailure(t *testing.T) {
	svc, events := newExportFixture()
	events.listErr = errStoreDown

	_, err := svc.Agenda(context.Background(), models.EventFilter{}, ExportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrStoreUnavailable)
}

func TestExportServiceCalendarFeed(t *testing.T) {
	svc, _ := newExportFixture()

	raw, err := svc.Calendar(context.Background(), models.EventFilter{})
	require.NoError(t, err)

	cal, err := ical.ParseCalendar(strings.NewReader(string(raw)))
	require.NoError(t, err)
	vevents := cal.Events()
	require.Len(t, vevents, 2)

	start, err := vevents[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2024, 8, 12, 6, 0, 0, 0, time.UTC)))
	assert.Equal(t, eventPleno+"@webkalenderaihmpsti", vevents[0].Id())
	assert.Contains(t, string(raw), "STATUS:TENTATIVE")
	assert.Contains(t, string(raw), "X-WR-TIMEZONE:Asia/Jakarta")
}
