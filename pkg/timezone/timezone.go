// Package timezone converts between stored UTC instants and the Jakarta
// wall clock that every user of the calendar reads and types.
//
// WIB has no daylight saving, so a fixed +07:00 offset is exact and avoids a
// dependency on the host's tzdata.
package timezone

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Name is the IANA zone the calendar is kept in.
	Name = "Asia/Jakarta"
	// FormInputLayout is the shape produced by datetime-local controls.
	FormInputLayout = "2006-01-02T15:04"
	// Placeholder is rendered for absent instants.
	Placeholder = "-"

	formInputWithSeconds = "2006-01-02T15:04:05"
	dayKeyLayout         = "2006-01-02"
)

var wib = time.FixedZone("WIB", 7*60*60)

// Location returns the fixed WIB location.
func Location() *time.Location {
	return wib
}

// ToDisplay renders t in WIB using a Go layout, with Indonesian month and
// weekday names. Nil or zero instants render as Placeholder.
func ToDisplay(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return localize(t.In(wib).Format(layout))
}

// ToFormInput renders t as a WIB wall clock in FormInputLayout.
func ToFormInput(t time.Time) string {
	return t.In(wib).Format(FormInputLayout)
}

// FromFormInput reads a wall clock without zone suffix as WIB and returns the
// UTC instant. An empty string yields the current instant.
func FromFormInput(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range []string{FormInputLayout, formInputWithSeconds} {
		if t, err := time.ParseInLocation(layout, s, wib); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid local datetime %q, expected YYYY-MM-DDTHH:mm", s)
}

// DayKey returns the WIB calendar date of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.In(wib).Format(dayKeyLayout)
}

// Go renders names in English; full names are listed before their
// abbreviations so "January" is not half-replaced by the "Jan" rule.
var names = strings.NewReplacer(
	"Monday", "Senin",
	"Tuesday", "Selasa",
	"Wednesday", "Rabu",
	"Thursday", "Kamis",
	"Friday", "Jumat",
	"Saturday", "Sabtu",
	"Sunday", "Minggu",
	"January", "Januari",
	"February", "Februari",
	"March", "Maret",
	"April", "April",
	"June", "Juni",
	"July", "Juli",
	"August", "Agustus",
	"September", "September",
	"October", "Oktober",
	"November", "November",
	"December", "Desember",
	"Mon", "Sen",
	"Tue", "Sel",
	"Wed", "Rab",
	"Thu", "Kam",
	"Fri", "Jum",
	"Sat", "Sab",
	"Sun", "Min",
	"Jan", "Jan",
	"Feb", "Feb",
	"Mar", "Mar",
	"Apr", "Apr",
	"May", "Mei",
	"Jun", "Jun",
	"Jul", "Jul",
	"Aug", "Agu",
	"Sep", "Sep",
	"Oct", "Okt",
	"Nov", "Nov",
	"Dec", "Des",
)

func localize(s string) string {
	return names.Replace(s)
}
