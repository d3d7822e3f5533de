package export

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// CalendarEntry is one VEVENT of the published feed.
type CalendarEntry struct {
	UID         string
	Summary     string
	Description string
	Location    string
	URL         string
	Category    string
	Color       string
	Tentative   bool
	Start       time.Time
	End         time.Time
	Modified    time.Time
}

// CalendarFeed describes the VCALENDAR wrapper.
type CalendarFeed struct {
	Name     string
	ProdID   string
	TimeZone string
	Entries  []CalendarEntry
}

// RenderICS serialises the feed. Instants are written in UTC.
func RenderICS(feed CalendarFeed, now time.Time) []byte {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	if feed.ProdID != "" {
		cal.SetProductId(feed.ProdID)
	}
	if feed.Name != "" {
		cal.SetName(feed.Name)
		cal.SetXWRCalName(feed.Name)
	}
	if feed.TimeZone != "" {
		cal.SetXWRTimezone(feed.TimeZone)
	}
	cal.SetRefreshInterval("PT15M")

	for _, entry := range feed.Entries {
		ev := cal.AddEvent(entry.UID)
		ev.SetDtStampTime(now.UTC())
		if !entry.Modified.IsZero() {
			ev.SetModifiedAt(entry.Modified.UTC())
		}
		ev.SetStartAt(entry.Start.UTC())
		ev.SetEndAt(entry.End.UTC())
		ev.SetSummary(entry.Summary)
		if entry.Location != "" {
			ev.SetLocation(entry.Location)
		}
		if desc := strings.TrimSpace(entry.Description); desc != "" {
			ev.SetDescription(desc)
		}
		if entry.URL != "" {
			ev.SetURL(entry.URL)
		}
		if entry.Category != "" {
			ev.AddCategory(entry.Category)
		}
		if entry.Color != "" {
			ev.SetColor(entry.Color)
		}
		if entry.Tentative {
			ev.SetStatus(ical.ObjectStatusTentative)
		} else {
			ev.SetStatus(ical.ObjectStatusConfirmed)
		}
	}
	return []byte(cal.Serialize())
}
