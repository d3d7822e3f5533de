package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
)

const eventSelect = `SELECT e.id, e.title, e.activity_type, e.start_time, e.end_time, e.location, e.description, e.proker_id, e.participants, e.logistics, e.file_url, e.pic, e.link_meeting, e.status, e.created_at, e.updated_at, p.id AS "proker.id", p.name AS "proker.name", p.department_id AS "proker.department_id", p.logo_url AS "proker.logo_url" FROM events e JOIN prokers p ON p.id = e.proker_id`

// EventRepository provides database access for scheduled events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns events joined with their proker, earliest first.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	var conditions []string
	var args []interface{}

	if filter.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("p.department_id = $%d", len(args)+1))
		args = append(args, *filter.DepartmentID)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("e.end_time > $%d", len(args)+1))
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("e.start_time < $%d", len(args)+1))
		args = append(args, filter.To.UTC())
	}

	query := eventSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.start_time ASC"

	events := make([]models.Event, 0)
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// FindByID returns a single event with its proker.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	query := eventSelect + ` WHERE e.id = $1 LIMIT 1`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	return &event, nil
}

// FileURLsByProker returns the attachments of every event under a proker.
func (r *EventRepository) FileURLsByProker(ctx context.Context, prokerID string) ([]string, error) {
	const query = `SELECT file_url FROM events WHERE proker_id = $1 AND file_url <> ''`
	var urls []string
	if err := r.db.SelectContext(ctx, &urls, query, prokerID); err != nil {
		return nil, fmt.Errorf("list event files: %w", err)
	}
	return urls, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	const query = `INSERT INTO events (id, title, activity_type, start_time, end_time, location, description, proker_id, participants, logistics, file_url, pic, link_meeting, status, created_at, updated_at) VALUES (:id, :title, :activity_type, :start_time, :end_time, :location, :description, :proker_id, :participants, :logistics, :file_url, :pic, :link_meeting, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of an event. Last writer wins.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE events SET title = :title, activity_type = :activity_type, start_time = :start_time, end_time = :end_time, location = :location, description = :description, proker_id = :proker_id, participants = :participants, logistics = :logistics, file_url = :file_url, pic = :pic, link_meeting = :link_meeting, status = :status, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return requireAffected(res, "update event")
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM events WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return requireAffected(res, "delete event")
}

// requireAffected maps a write that touched no row to sql.ErrNoRows.
func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
