package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/znlumins/webkalenderaihmpsti/internal/dto"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	"github.com/znlumins/webkalenderaihmpsti/internal/service"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
)

const (
	eventIDOne     = "0c7b1e9d-4a3f-4b2e-8d5c-6e1f2a3b4c5d"
	eventIDThree   = "3a0f6c1e-8d2b-4c55-9e61-0b7d2f4a9c13"
	eventIDMissing = "5d9e2b7a-1c4f-4e8a-b3d6-7f0a9c2e4b18"
)

type fakeEventSrv struct {
	events     []dto.EventResponse
	cacheHit   bool
	err        error
	lastFilter models.EventFilter
	lastActor  *models.Actor
	lastReq    dto.EventRequest
	lastID     string
	listCalls  int
	conflict   *dto.EventResponse
}

func (f *fakeEventSrv) List(_ context.Context, filter models.EventFilter) ([]dto.EventResponse, bool, error) {
	f.listCalls++
	f.lastFilter = filter
	return f.events, f.cacheHit, f.err
}

func (f *fakeEventSrv) Get(_ context.Context, id string) (*dto.EventResponse, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &dto.EventResponse{Event: models.Event{ID: id}}, nil
}

func (f *fakeEventSrv) Upcoming(context.Context) (*dto.UpcomingResponse, error) {
	return &dto.UpcomingResponse{Today: f.events, Tomorrow: []dto.EventResponse{}}, f.err
}

func (f *fakeEventSrv) Current(context.Context) (*dto.CurrentEventResponse, error) {
	return &dto.CurrentEventResponse{}, f.err
}

func (f *fakeEventSrv) CheckConflict(_ context.Context, actor *models.Actor, _ dto.ConflictCheckRequest) (*dto.EventResponse, error) {
	f.lastActor = actor
	return f.conflict, f.err
}

func (f *fakeEventSrv) Create(_ context.Context, actor *models.Actor, req dto.EventRequest) (*dto.EventResponse, error) {
	f.lastActor = actor
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.EventResponse{Event: models.Event{ID: "ev-1", Title: req.Title}}, nil
}

func (f *fakeEventSrv) Update(_ context.Context, actor *models.Actor, id string, req dto.EventRequest) (*dto.EventResponse, error) {
	f.lastActor = actor
	f.lastID = id
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.EventResponse{Event: models.Event{ID: id, Title: req.Title}}, nil
}

func (f *fakeEventSrv) Delete(_ context.Context, actor *models.Actor, id string) error {
	f.lastActor = actor
	f.lastID = id
	return f.err
}

const eventBody = `{"title":"Rapat Pleno","start_time":"2024-08-12T13:00","end_time":"2024-08-12T15:00","location":"Sekre","proker_id":"11111111-1111-4111-8111-111111111111"}`

func TestEventHandlerListRejectsUnknownDepartment(t *testing.T) {
	srv := &fakeEventSrv{}
	handler := NewEventHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/api/events?department_id=9", nil)
	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, srv.listCalls)
}

func TestEventHandlerListRejectsInvertedWindow(t *testing.T) {
	srv := &fakeEventSrv{}
	handler := NewEventHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/api/events?from=2024-08-13&to=2024-08-12", nil)
	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, srv.listCalls)
}

func TestEventHandlerListPassesFilterAndCacheMeta(t *testing.T) {
	srv := &fakeEventSrv{
		events:   []dto.EventResponse{{Event: models.Event{ID: "ev-1"}}, {Event: models.Event{ID: "ev-2"}}},
		cacheHit: true,
	}
	handler := NewEventHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/api/events?department_id=3&from=2024-08-12&to=2024-08-12T18:00", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.lastFilter.DepartmentID)
	assert.Equal(t, 3, *srv.lastFilter.DepartmentID)
	require.NotNil(t, srv.lastFilter.From)
	require.NotNil(t, srv.lastFilter.To)
	// Bare dates and wall clocks are read in WIB.
	assert.Equal(t, time.Date(2024, 8, 11, 17, 0, 0, 0, time.UTC), *srv.lastFilter.From)
	assert.Equal(t, time.Date(2024, 8, 12, 11, 0, 0, 0, time.UTC), *srv.lastFilter.To)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, float64(2), envelope.Meta["count"])
	var events []dto.EventResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &events))
	assert.Len(t, events, 2)
}

func TestEventHandlerListStoreFailure(t *testing.T) {
	handler := NewEventHandler(&fakeEventSrv{err: appErrors.Store(assert.AnError, "list events")})

	c, rec := newTestContext(http.MethodGet, "/api/events", nil)
	handler.List(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, appErrors.ErrStoreUnavailable.Code, decodeEnvelope(t, rec).Error.Code)
}

func TestEventHandlerCreateRejectsMalformedBody(t *testing.T) {
	srv := &fakeEventSrv{}
	handler := NewEventHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/api/events", strings.NewReader(`{"title":`))
	withClaims(c, models.RoleSuperAdmin, nil)
	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, rec).Error.Code)
}

func TestEventHandlerCreatePassesActor(t *testing.T) {
	srv := &fakeEventSrv{}
	handler := NewEventHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/api/events", strings.NewReader(eventBody))
	c.Request.Header.Set("User-Agent", "kalender-test")
	withClaims(c, models.RoleDeptAdmin, intPtr(3))
	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, srv.lastActor)
	assert.Equal(t, models.RoleDeptAdmin, srv.lastActor.Role)
	assert.Equal(t, "kalender-test", srv.lastActor.UserAgent)
	assert.Equal(t, "Rapat Pleno", srv.lastReq.Title)
}

func TestEventHandlerCreateConflictCarriesConflictMeta(t *testing.T) {
	srv := &fakeEventSrv{err: &service.ScheduleConflictError{
		Err:      appErrors.Clone(appErrors.ErrScheduleConflict, "Jadwal bentrok"),
		Conflict: dto.EventResponse{Event: models.Event{ID: "ev-9", Title: "Gladi Bersih"}},
	}}
	handler := NewEventHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/api/events", strings.NewReader(eventBody))
	withClaims(c, models.RoleSuperAdmin, nil)
	handler.Create(c)

	require.Equal(t, http.StatusConflict, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, envelope.Error.Code)
	conflict, ok := envelope.Meta["conflict"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Gladi Bersih", conflict["title"])
}

func TestEventHandlerUpdateUsesPathID(t *testing.T) {
	srv := &fakeEventSrv{}
	handler := NewEventHandler(srv)

	c, rec := newTestContext(http.MethodPut, "/api/events/"+eventIDThree, strings.NewReader(eventBody))
	c.AddParam("id", eventIDThree)
	withClaims(c, models.RoleSuperAdmin, nil)
	handler.Update(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, eventIDThree, srv.lastID)
}

func TestEventHandlerDeleteNotFound(t *testing.T) {
	srv := &fakeEventSrv{err: appErrors.Clone(appErrors.ErrNotFound, "event not found")}
	handler := NewEventHandler(srv)

	c, rec := newTestContext(http.MethodDelete, "/api/events/"+eventIDMissing, nil)
	c.AddParam("id", eventIDMissing)
	withClaims(c, models.RoleSuperAdmin, nil)
	handler.Delete(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, eventIDMissing, srv.lastID)
}

func TestEventHandlerMalformedIDIsNotFound(t *testing.T) {
	srv := &fakeEventSrv{}
	handler := NewEventHandler(srv)

	for _, tc := range []struct {
		method string
		call   func(*gin.Context)
	}{
		{http.MethodGet, handler.Get},
		{http.MethodPut, handler.Update},
		{http.MethodDelete, handler.Delete},
	} {
		c, rec := newTestContext(tc.method, "/api/events/rapat-pleno", strings.NewReader(eventBody))
		c.AddParam("id", "rapat-pleno")
		withClaims(c, models.RoleSuperAdmin, nil)
		tc.call(c)

		assert.Equal(t, http.StatusNotFound, rec.Code, tc.method)
		assert.Equal(t, "event not found", decodeEnvelope(t, rec).Error.Message, tc.method)
	}
	assert.Empty(t, srv.lastID)
}

func TestEventHandlerDeleteNoContent(t *testing.T) {
	handler := NewEventHandler(&fakeEventSrv{})

	c, rec := newTestContext(http.MethodDelete, "/api/events/"+eventIDOne, nil)
	c.AddParam("id", eventIDOne)
	withClaims(c, models.RoleSuperAdmin, nil)
	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEventHandlerCheckConflictWithoutOverlap(t *testing.T) {
	srv := &fakeEventSrv{}
	handler := NewEventHandler(srv)

	body := `{"start_time":"2024-08-12T13:00","end_time":"2024-08-12T15:00"}`
	c, rec := newTestContext(http.MethodPost, "/api/events/conflicts", strings.NewReader(body))
	withClaims(c, models.RoleSuperAdmin, nil)
	handler.CheckConflict(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"conflict":null}`, string(decodeEnvelope(t, rec).Data))
}

func TestEventHandlerUpcoming(t *testing.T) {
	handler := NewEventHandler(&fakeEventSrv{events: []dto.EventResponse{{Event: models.Event{ID: "ev-1"}}}})

	c, rec := newTestContext(http.MethodGet, "/api/events/upcoming", nil)
	handler.Upcoming(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var res dto.UpcomingResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &res))
	assert.Len(t, res.Today, 1)
	assert.Empty(t, res.Tomorrow)
}
