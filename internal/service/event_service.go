package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/znlumins/webkalenderaihmpsti/internal/dto"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
	"github.com/znlumins/webkalenderaihmpsti/pkg/realtime"
	"github.com/znlumins/webkalenderaihmpsti/pkg/timezone"
)

const (
	tableEvents  = "events"
	tableProkers = "prokers"
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

type prokerFinder interface {
	FindByID(ctx context.Context, id string) (*models.Proker, error)
}

// ChangePublisher announces row changes to every connected client.
type ChangePublisher interface {
	Publish(ctx context.Context, change realtime.Change) error
}

// BlobReleaser is told about blob URLs a row stopped pointing at.
type BlobReleaser interface {
	Release(ctx context.Context, url string)
}

// ScheduleConflictError is returned when a write overlaps an existing event
// and the caller has not confirmed the double booking.
type ScheduleConflictError struct {
	Err      *appErrors.Error
	Conflict dto.EventResponse
}

func (e *ScheduleConflictError) Error() string { return e.Err.Error() }

// Unwrap exposes the HTTP-mapped error.
func (e *ScheduleConflictError) Unwrap() error { return e.Err }

// EventServiceOptions collects the collaborators of EventService. Only Events and Prokers are required.
type EventServiceOptions struct {
	Events    eventRepository
	Prokers   prokerFinder
	Cache     *EventCache
	Publisher ChangePublisher
	Blobs     BlobReleaser
	Audit     auditRepository
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Now       func() time.Time
}

// EventService schedules events under prokers. Conflict check and write run
// under one lock so two admins on this instance cannot both pass the check.
type EventService struct {
	events    eventRepository
	prokers   prokerFinder
	cache     *EventCache
	publisher ChangePublisher
	blobs     BlobReleaser
	audit     auditTrail
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	writeMu sync.Mutex
}

// NewEventService constructs an EventService.
func NewEventService(opts EventServiceOptions) *EventService {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Validator == nil {
		opts.Validator = validator.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &EventService{
		events:    opts.Events,
		prokers:   opts.Prokers,
		cache:     opts.Cache,
		publisher: opts.Publisher,
		blobs:     opts.Blobs,
		audit:     auditTrail{repo: opts.Audit, logger: opts.Logger},
		metrics:   opts.Metrics,
		validator: opts.Validator,
		logger:    opts.Logger,
		now:       opts.Now,
	}
}

// List returns events earliest first. The bool reports whether the cache answered.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]dto.EventResponse, bool, error) {
	load := func(ctx context.Context) ([]models.Event, error) {
		return s.events.List(ctx, filter)
	}
	var (
		events []models.Event
		hit    bool
		err    error
	)
	if s.cache != nil {
		events, hit, err = s.cache.Load(ctx, filter, load)
	} else {
		events, err = load(ctx)
	}
	if err != nil {
		return nil, false, appErrors.Store(err, "list events")
	}
	return toEventResponses(events), hit, nil
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.findEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toEventResponse(*event)
	return &res, nil
}

// Upcoming buckets events starting today and tomorrow, by WIB calendar day.
func (s *EventService) Upcoming(ctx context.Context) (*dto.UpcomingResponse, error) {
	now := s.now().In(timezone.Location())
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, timezone.Location())
	from, to := midnight, midnight.AddDate(0, 0, 2)

	events, err := s.events.List(ctx, models.EventFilter{From: &from, To: &to})
	if err != nil {
		return nil, appErrors.Store(err, "list upcoming events")
	}

	todayKey := timezone.DayKey(midnight)
	tomorrowKey := timezone.DayKey(midnight.AddDate(0, 0, 1))
	res := &dto.UpcomingResponse{Today: []dto.EventResponse{}, Tomorrow: []dto.EventResponse{}}
	for _, ev := range events {
		switch timezone.DayKey(ev.Start) {
		case todayKey:
			res.Today = append(res.Today, toEventResponse(ev))
		case tomorrowKey:
			res.Tomorrow = append(res.Tomorrow, toEventResponse(ev))
		}
	}
	return res, nil
}

// Current returns the event running now, with its elapsed share for focus mode.
func (s *EventService) Current(ctx context.Context) (*dto.CurrentEventResponse, error) {
	now := s.now().UTC()
	to := now.Add(time.Second)
	events, err := s.events.List(ctx, models.EventFilter{From: &now, To: &to})
	if err != nil {
		return nil, appErrors.Store(err, "list current events")
	}

	res := &dto.CurrentEventResponse{Now: now}
	for _, ev := range events {
		if now.Before(ev.Start) || now.After(ev.End) {
			continue
		}
		out := toEventResponse(ev)
		res.Event = &out
		res.Progress = progress(ev.Start, ev.End, now)
		res.RemainingMinutes = int(ev.End.Sub(now).Minutes())
		res.Remaining = remainingLabel(res.RemainingMinutes)
		break
	}
	return res, nil
}

// CheckConflict previews whether the interval overlaps a stored event.
func (s *EventService) CheckConflict(ctx context.Context, actor *models.Actor, req dto.ConflictCheckRequest) (*dto.EventResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Because(appErrors.ErrValidation, err, "invalid conflict check payload")
	}
	slot, err := parseSlot(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	conflict, err := s.findConflict(ctx, slot, req.ExcludeID)
	if err != nil {
		return nil, err
	}
	if conflict == nil {
		return nil, nil
	}
	res := toEventResponse(*conflict)
	return &res, nil
}

// Create schedules a new event.
func (s *EventService) Create(ctx context.Context, actor *models.Actor, req dto.EventRequest) (*dto.EventResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	event, proker, err := s.buildEvent(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := authorizeDepartment(actor, proker.DepartmentID); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	err = s.guardConflict(ctx, event, req.ConfirmConflict)
	if err == nil {
		if cerr := s.events.Create(ctx, event); cerr != nil {
			err = appErrors.Store(cerr, "create event")
		}
	}
	s.writeMu.Unlock()
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, realtime.ActionInsert, event.ID)
	s.audit.record(ctx, actor, models.AuditActionEventCreate, tableEvents, event.ID, nil, event)
	res := toEventResponse(*event)
	return &res, nil
}

// Update rewrites an event. Both its current and its new proker must be in the caller's scope.
func (s *EventService) Update(ctx context.Context, actor *models.Actor, id string, req dto.EventRequest) (*dto.EventResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	existing, err := s.findEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeDepartment(actor, existing.Proker.DepartmentID); err != nil {
		return nil, err
	}
	event, proker, err := s.buildEvent(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := authorizeDepartment(actor, proker.DepartmentID); err != nil {
		return nil, err
	}
	event.ID = existing.ID
	event.CreatedAt = existing.CreatedAt

	s.writeMu.Lock()
	err = s.guardConflict(ctx, event, req.ConfirmConflict)
	if err == nil {
		if uerr := s.events.Update(ctx, event); uerr != nil {
			if errors.Is(uerr, sql.ErrNoRows) {
				err = appErrors.Clone(appErrors.ErrNotFound, "event not found")
			} else {
				err = appErrors.Store(uerr, "update event")
			}
		}
	}
	s.writeMu.Unlock()
	if err != nil {
		return nil, err
	}

	if existing.FileURL != "" && existing.FileURL != event.FileURL {
		s.release(ctx, existing.FileURL)
	}
	s.afterWrite(ctx, realtime.ActionUpdate, event.ID)
	s.audit.record(ctx, actor, models.AuditActionEventUpdate, tableEvents, event.ID, existing, event)
	res := toEventResponse(*event)
	return &res, nil
}

// Delete removes an event and releases its attachment.
func (s *EventService) Delete(ctx context.Context, actor *models.Actor, id string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	existing, err := s.findEvent(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeDepartment(actor, existing.Proker.DepartmentID); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Store(err, "delete event")
	}
	s.release(ctx, existing.FileURL)
	s.afterWrite(ctx, realtime.ActionDelete, id)
	s.audit.record(ctx, actor, models.AuditActionEventDelete, tableEvents, id, existing, nil)
	return nil
}

func (s *EventService) findEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, mapFindError(err, "event")
	}
	return event, nil
}

// mapFindError turns a missing row into 404 and anything else into a store failure.
func mapFindError(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, resource+" not found")
	}
	return appErrors.Store(err, "find "+resource)
}

// buildEvent validates the payload and resolves the owning proker.
func (s *EventService) buildEvent(ctx context.Context, req dto.EventRequest) (*models.Event, *models.Proker, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Because(appErrors.ErrValidation, err, "invalid event payload")
	}
	slot, err := parseSlot(req.StartTime, req.EndTime)
	if err != nil {
		return nil, nil, err
	}

	proker, err := s.prokers.FindByID(ctx, req.ProkerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "proker_id does not reference an existing proker")
		}
		return nil, nil, appErrors.Store(err, "find proker")
	}

	activity := strings.TrimSpace(req.ActivityType)
	if activity == "" {
		activity = models.DefaultActivityType
	}
	status := models.EventStatus(req.Status)
	if status == "" {
		status = models.EventStatusFix
	}

	event := &models.Event{
		Title:        strings.TrimSpace(req.Title),
		ActivityType: activity,
		Start:        slot.Start,
		End:          slot.End,
		Location:     strings.TrimSpace(req.Location),
		Description:  req.Description,
		ProkerID:     proker.ID,
		Participants: models.JoinParticipants(req.Participants),
		Logistics:    strings.TrimSpace(req.Logistics),
		FileURL:      req.FileURL,
		PIC:          strings.TrimSpace(req.PIC),
		LinkMeeting:  req.LinkMeeting,
		Status:       status,
		Proker: models.EventProker{
			ID:           proker.ID,
			Name:         proker.Name,
			DepartmentID: proker.DepartmentID,
			LogoURL:      proker.LogoURL,
		},
	}
	return event, proker, nil
}

// guardConflict must be called with writeMu held.
func (s *EventService) guardConflict(ctx context.Context, event *models.Event, confirmed bool) error {
	conflict, err := s.findConflict(ctx, Interval{Start: event.Start, End: event.End}, event.ID)
	if err != nil {
		return err
	}
	if conflict == nil {
		return nil
	}
	if confirmed {
		s.metrics.RecordConflict("confirmed")
		s.logger.Info("double booking confirmed", zap.String("event", event.Title), zap.String("conflict_id", conflict.ID))
		return nil
	}
	s.metrics.RecordConflict("warned")
	return &ScheduleConflictError{
		Err:      appErrors.Clone(appErrors.ErrScheduleConflict, fmt.Sprintf("Jadwal bentrok dengan %q. Kirim ulang dengan confirm_conflict untuk tetap menyimpan.", conflict.Title)),
		Conflict: toEventResponse(*conflict),
	}
}

func (s *EventService) findConflict(ctx context.Context, slot Interval, excludeID string) (*models.Event, error) {
	// The window filter returns exactly the overlapping rows, in start order.
	from, to := slot.Start, slot.End
	events, err := s.events.List(ctx, models.EventFilter{From: &from, To: &to})
	if err != nil {
		return nil, appErrors.Store(err, "list events")
	}
	return FindConflict(slot, events, excludeID), nil
}

func (s *EventService) afterWrite(ctx context.Context, action realtime.Action, id string) {
	s.metrics.RecordWrite(tableEvents, string(action))
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	if s.publisher != nil {
		change := realtime.Change{Table: tableEvents, Action: action, ID: id, At: s.now().UTC()}
		if err := s.publisher.Publish(ctx, change); err != nil {
			s.logger.Warn("failed to publish change", zap.String("id", id), zap.Error(err))
		}
	}
}

func (s *EventService) release(ctx context.Context, url string) {
	if url != "" && s.blobs != nil {
		s.blobs.Release(ctx, url)
	}
}

// parseSlot reads both WIB wall-clock strings and requires start < end.
func parseSlot(startRaw, endRaw string) (Interval, error) {
	if strings.TrimSpace(startRaw) == "" || strings.TrimSpace(endRaw) == "" {
		return Interval{}, appErrors.Clone(appErrors.ErrValidation, "start_time and end_time are required")
	}
	start, err := timezone.FromFormInput(startRaw)
	if err != nil {
		return Interval{}, appErrors.Because(appErrors.ErrValidation, err, "invalid start_time")
	}
	end, err := timezone.FromFormInput(endRaw)
	if err != nil {
		return Interval{}, appErrors.Because(appErrors.ErrValidation, err, "invalid end_time")
	}
	slot := Interval{Start: start, End: end}
	if slot.Empty() {
		return Interval{}, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	return slot, nil
}

func progress(start, end, now time.Time) float64 {
	total := end.Sub(start)
	if total <= 0 {
		return 100
	}
	pct := float64(now.Sub(start)) / float64(total) * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

func remainingLabel(minutes int) string {
	if minutes > 60 {
		return fmt.Sprintf("%d Jam %d Menit lagi", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%d Menit lagi", minutes)
}

func toEventResponse(e models.Event) dto.EventResponse {
	return dto.EventResponse{
		Event:           e,
		StartLocal:      timezone.ToFormInput(e.Start),
		EndLocal:        timezone.ToFormInput(e.End),
		ParticipantList: models.SplitParticipants(e.Participants),
		DepartmentName:  models.DepartmentName(e.Proker.DepartmentID),
	}
}

func toEventResponses(events []models.Event) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}
