package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFormInputInterpretsWallClockAsJakarta(t *testing.T) {
	got, err := FromFormInput("2024-08-12T09:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 8, 12, 2, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestFromFormInputAcceptsSeconds(t *testing.T) {
	got, err := FromFormInput("2024-08-12T00:30:15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 8, 11, 17, 30, 15, 0, time.UTC), got)
}

func TestFromFormInputRejectsGarbage(t *testing.T) {
	_, err := FromFormInput("12/08/2024 09:00")
	require.Error(t, err)
}

func TestFromFormInputEmptyFallsBackToNow(t *testing.T) {
	before := time.Now().UTC()
	got, err := FromFormInput("  ")
	require.NoError(t, err)
	assert.WithinDuration(t, before, got, 2*time.Second)
}

func TestToFormInputRendersJakartaWallClock(t *testing.T) {
	instant := time.Date(2024, 8, 11, 20, 15, 0, 0, time.UTC)
	assert.Equal(t, "2024-08-12T03:15", ToFormInput(instant))
}

func TestFormInputRoundTripFromString(t *testing.T) {
	for _, s := range []string{
		"2024-08-12T09:00",
		"2024-01-01T00:00",
		"2023-12-31T23:59",
		"2024-02-29T06:45",
		"2024-08-12T16:59",
	} {
		instant, err := FromFormInput(s)
		require.NoError(t, err)
		assert.Equal(t, s, ToFormInput(instant), s)
	}
}

func TestFormInputRoundTripFromInstantKeepsMinute(t *testing.T) {
	for _, instant := range []time.Time{
		time.Date(2024, 8, 12, 2, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 17, 0, 59, 999, time.UTC),
		time.Date(2025, 3, 9, 11, 27, 31, 0, time.FixedZone("CET", 3600)),
	} {
		back, err := FromFormInput(ToFormInput(instant))
		require.NoError(t, err)
		assert.Equal(t, instant.UTC().Truncate(time.Minute), back)
	}
}

func TestToDisplayUsesIndonesianNames(t *testing.T) {
	instant := time.Date(2024, 8, 12, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, "Senin, 12 Agustus 2024", ToDisplay(&instant, "Monday, 02 January 2006"))
	assert.Equal(t, "13.00", ToDisplay(&instant, "15.04"))
	assert.Equal(t, "Sen 12 Agu", ToDisplay(&instant, "Mon 02 Jan"))
}

func TestToDisplayCrossesMidnightIntoJakarta(t *testing.T) {
	instant := time.Date(2024, 5, 18, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "Minggu, 19 Mei 2024 01:30", ToDisplay(&instant, "Monday, 02 January 2006 15:04"))
}

func TestToDisplayPlaceholder(t *testing.T) {
	assert.Equal(t, Placeholder, ToDisplay(nil, "02 January 2006"))
	zero := time.Time{}
	assert.Equal(t, Placeholder, ToDisplay(&zero, "02 January 2006"))
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2024-08-13", DayKey(time.Date(2024, 8, 12, 17, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-08-12", DayKey(time.Date(2024, 8, 12, 16, 59, 0, 0, time.UTC)))
}
