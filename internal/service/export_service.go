package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
	"github.com/znlumins/webkalenderaihmpsti/pkg/export"
	"github.com/znlumins/webkalenderaihmpsti/pkg/timezone"
)

// ExportFormat selects the agenda rendering.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

const (
	defaultCalendarName = "Kalender Kegiatan"
	calendarProdID      = "-//webkalenderaihmpsti//kalender//ID"
	agendaDateLayout    = "Mon, 02 Jan 2006"
	agendaTimeLayout    = "15.04"
)

var agendaColumns = []export.Column{
	{Title: "Tanggal", Weight: 1.4},
	{Title: "Jam (WIB)", Weight: 1.1},
	{Title: "Kegiatan", Weight: 2.2},
	{Title: "Jenis", Weight: 1.2},
	{Title: "Proker", Weight: 1.6},
	{Title: "Departemen", Weight: 1.1},
	{Title: "Tempat", Weight: 1.5},
	{Title: "Peserta", Weight: 1.6},
	{Title: "PIC", Weight: 1},
	{Title: "Status", Weight: 0.8},
}

type eventLister interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
}

// ExportConfig tunes the published feed.
type ExportConfig struct {
	CalendarName string
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the agenda for download and as a subscribable iCalendar feed.
type ExportService struct {
	events eventLister
	logger *zap.Logger
	cfg    ExportConfig
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(events eventLister, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CalendarName == "" {
		cfg.CalendarName = defaultCalendarName
	}
	return &ExportService{events: events, logger: logger, cfg: cfg, now: time.Now}
}

// ParseExportFormat accepts csv or pdf, defaulting to csv.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
}

// Agenda renders the filtered events as a table.
func (s *ExportService) Agenda(ctx context.Context, filter models.EventFilter, format ExportFormat) (*ExportFile, error) {
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err, "list events for export")
	}
	dataset := AgendaDataset(s.agendaTitle(filter), events)

	stamp := s.now().In(timezone.Location()).Format("20060102_1504")
	file := &ExportFile{Filename: fmt.Sprintf("agenda_%s.%s", stamp, format)}
	switch format {
	case ExportFormatCSV:
		file.ContentType = "text/csv; charset=utf-8"
		file.Body, err = export.RenderCSV(dataset)
	case ExportFormatPDF:
		file.ContentType = "application/pdf"
		now := s.now()
		file.Body, err = export.RenderPDF(dataset, "Dicetak "+timezone.ToDisplay(&now, "02 January 2006 15:04")+" WIB")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		s.logger.Error("render agenda failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Because(appErrors.ErrInternal, err, "failed to render agenda")
	}
	return file, nil
}

// Calendar renders the filtered events as an iCalendar feed.
func (s *ExportService) Calendar(ctx context.Context, filter models.EventFilter) ([]byte, error) {
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err, "list events for calendar")
	}
	feed := export.CalendarFeed{
		Name:     s.cfg.CalendarName,
		ProdID:   calendarProdID,
		TimeZone: timezone.Name,
		Entries:  make([]export.CalendarEntry, 0, len(events)),
	}
	if filter.DepartmentID != nil {
		feed.Name = fmt.Sprintf("%s %s", s.cfg.CalendarName, models.DepartmentName(*filter.DepartmentID))
	}
	for _, ev := range events {
		feed.Entries = append(feed.Entries, s.calendarEntry(ev))
	}
	return export.RenderICS(feed, s.now()), nil
}

// AgendaDataset lays events out one row each, times shown in WIB.
func AgendaDataset(title string, events []models.Event) export.Dataset {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		start, end := ev.Start, ev.End
		rows = append(rows, []string{
			timezone.ToDisplay(&start, agendaDateLayout),
			timezone.ToDisplay(&start, agendaTimeLayout) + " - " + timezone.ToDisplay(&end, agendaTimeLayout),
			ev.Title,
			ev.ActivityType,
			ev.Proker.Name,
			models.DepartmentName(ev.Proker.DepartmentID),
			ev.Location,
			ev.Participants,
			ev.PIC,
			string(ev.Status),
		})
	}
	return export.Dataset{Title: title, Columns: agendaColumns, Rows: rows}
}

func (s *ExportService) agendaTitle(filter models.EventFilter) string {
	title := "Agenda Kegiatan"
	if filter.DepartmentID != nil {
		title += " " + models.DepartmentName(*filter.DepartmentID)
	}
	if filter.From != nil && filter.To != nil {
		title += fmt.Sprintf(" (%s - %s)", timezone.ToDisplay(filter.From, "02 Jan 2006"), timezone.ToDisplay(filter.To, "02 Jan 2006"))
	}
	return title
}

func (s *ExportService) calendarEntry(ev models.Event) export.CalendarEntry {
	var desc []string
	if ev.Description != "" {
		desc = append(desc, ev.Description)
	}
	if ev.Proker.Name != "" {
		desc = append(desc, "Proker: "+ev.Proker.Name)
	}
	desc = append(desc, "Peserta: "+ev.Participants)
	if ev.PIC != "" {
		desc = append(desc, "PIC: "+ev.PIC)
	}
	if ev.Logistics != "" {
		desc = append(desc, "Barang bawaan: "+ev.Logistics)
	}

	entry := export.CalendarEntry{
		UID:         ev.ID + "@webkalenderaihmpsti",
		Summary:     ev.Title,
		Description: strings.Join(desc, "\n"),
		Location:    ev.Location,
		URL:         ev.LinkMeeting,
		Category:    ev.ActivityType,
		Tentative:   ev.Status == models.EventStatusTentative,
		Start:       ev.Start,
		End:         ev.End,
		Modified:    ev.UpdatedAt,
	}
	if dept, ok := models.FindDepartment(ev.Proker.DepartmentID); ok {
		entry.Color = dept.Color
	}
	return entry
}
