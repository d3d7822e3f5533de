package dto

import (
	"time"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
)

// EventRequest is the create/update payload. Times are WIB wall-clock strings
// in the form-input shape (2006-01-02T15:04).
type EventRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	ActivityType    string   `json:"activity_type" validate:"omitempty,max=100"`
	StartTime       string   `json:"start_time" validate:"required"`
	EndTime         string   `json:"end_time" validate:"required"`
	Location        string   `json:"location" validate:"required,max=200"`
	Description     string   `json:"description"`
	ProkerID        string   `json:"proker_id" validate:"required,uuid"`
	Participants    []string `json:"participants"`
	Logistics       string   `json:"logistics"`
	FileURL         string   `json:"file_url" validate:"omitempty,url"`
	PIC             string   `json:"pic" validate:"omitempty,max=100"`
	LinkMeeting     string   `json:"link_meeting" validate:"omitempty,url"`
	Status          string   `json:"status" validate:"omitempty,oneof=Fix Tentative"`
	ConfirmConflict bool     `json:"confirm_conflict"`
}

// EventResponse adds WIB renderings of the stored instants.
type EventResponse struct {
	models.Event
	StartLocal      string   `json:"start_local"`
	EndLocal        string   `json:"end_local"`
	ParticipantList []string `json:"participant_list"`
	DepartmentName  string   `json:"department_name"`
}

// ConflictCheckRequest previews an interval against the stored schedule.
type ConflictCheckRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	ExcludeID string `json:"exclude_id" validate:"omitempty,uuid"`
}

// ConflictCheckResponse carries the first overlapping event, if any.
type ConflictCheckResponse struct {
	Conflict *EventResponse `json:"conflict"`
}

// UpcomingResponse buckets events by WIB calendar day.
type UpcomingResponse struct {
	Today    []EventResponse `json:"today"`
	Tomorrow []EventResponse `json:"tomorrow"`
}

// CurrentEventResponse describes the event running right now for focus mode.
type CurrentEventResponse struct {
	Event            *EventResponse `json:"event"`
	Progress         float64        `json:"progress"`
	RemainingMinutes int            `json:"remaining_minutes"`
	Remaining        string         `json:"remaining"`
	Now              time.Time      `json:"now"`
}
