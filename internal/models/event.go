package models

import (
	"strings"
	"time"
)

// EventStatus marks whether an event is confirmed.
type EventStatus string

const (
	EventStatusFix       EventStatus = "Fix"
	EventStatusTentative EventStatus = "Tentative"
)

// ParticipantsEveryone is stored when an event is not scoped to particular divisions.
const ParticipantsEveryone = "Semua Panitia"

const participantSeparator = ", "

// EventProker is the slice of the owning proker joined into event rows.
type EventProker struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	DepartmentID int    `db:"department_id" json:"department_id"`
	LogoURL      string `db:"logo_url" json:"logo_url"`
}

// Event is a scheduled activity under a proker. Start and End are UTC instants.
type Event struct {
	ID           string      `db:"id" json:"id"`
	Title        string      `db:"title" json:"title"`
	ActivityType string      `db:"activity_type" json:"activity_type"`
	Start        time.Time   `db:"start_time" json:"start_time"`
	End          time.Time   `db:"end_time" json:"end_time"`
	Location     string      `db:"location" json:"location"`
	Description  string      `db:"description" json:"description"`
	ProkerID     string      `db:"proker_id" json:"proker_id"`
	Participants string      `db:"participants" json:"participants"`
	Logistics    string      `db:"logistics" json:"logistics"`
	FileURL      string      `db:"file_url" json:"file_url"`
	PIC          string      `db:"pic" json:"pic"`
	LinkMeeting  string      `db:"link_meeting" json:"link_meeting"`
	Status       EventStatus `db:"status" json:"status"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`

	Proker EventProker `db:"proker" json:"proker"`
}

// EventFilter narrows event listings. Nil fields are ignored.
type EventFilter struct {
	DepartmentID *int
	From         *time.Time
	To           *time.Time
}

// JoinParticipants serialises division names, falling back to ParticipantsEveryone.
func JoinParticipants(divisions []string) string {
	cleaned := make([]string, 0, len(divisions))
	for _, d := range divisions {
		if d = strings.TrimSpace(d); d != "" {
			cleaned = append(cleaned, d)
		}
	}
	if len(cleaned) == 0 {
		return ParticipantsEveryone
	}
	return strings.Join(cleaned, participantSeparator)
}

// SplitParticipants is the inverse of JoinParticipants.
func SplitParticipants(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{ParticipantsEveryone}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
