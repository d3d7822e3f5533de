package service

import (
	"time"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Empty reports whether the interval contains no instant.
func (i Interval) Empty() bool {
	return !i.Start.Before(i.End)
}

// Overlaps reports whether two non-empty intervals share an instant.
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(a, b Interval) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// FindConflict returns the first event in list order that overlaps candidate,
// skipping the event with excludeID. It returns nil when the slot is free.
func FindConflict(candidate Interval, events []models.Event, excludeID string) *models.Event {
	for i := range events {
		if excludeID != "" && events[i].ID == excludeID {
			continue
		}
		if Overlaps(candidate, Interval{Start: events[i].Start, End: events[i].End}) {
			return &events[i]
		}
	}
	return nil
}
