package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 8, 12, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	base := Interval{Start: at(6, 0), End: at(8, 0)}
	tests := []struct {
		name string
		b    Interval
		want bool
	}{
		{"same", base, true},
		{"inside", Interval{Start: at(6, 30), End: at(7, 0)}, true},
		{"straddles start", Interval{Start: at(5, 0), End: at(6, 1)}, true},
		{"straddles end", Interval{Start: at(7, 59), End: at(9, 0)}, true},
		{"covers", Interval{Start: at(5, 0), End: at(9, 0)}, true},
		{"touches end", Interval{Start: at(8, 0), End: at(9, 0)}, false},
		{"touches start", Interval{Start: at(5, 0), End: at(6, 0)}, false},
		{"before", Interval{Start: at(3, 0), End: at(4, 0)}, false},
		{"empty", Interval{Start: at(7, 0), End: at(7, 0)}, false},
		{"inverted", Interval{Start: at(7, 30), End: at(6, 30)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(base, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, base))
		})
	}
}

func TestFindConflictReturnsFirstInListOrder(t *testing.T) {
	events := []models.Event{
		{ID: "a", Title: "Pagi", Start: at(1, 0), End: at(2, 0)},
		{ID: "b", Title: "Rapat Pleno", Start: at(6, 0), End: at(8, 0)},
		{ID: "c", Title: "Evaluasi", Start: at(7, 0), End: at(9, 0)},
	}

	got := FindConflict(Interval{Start: at(7, 30), End: at(8, 30)}, events, "")
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID)

	got = FindConflict(Interval{Start: at(7, 30), End: at(8, 30)}, events, "b")
	require.NotNil(t, got)
	assert.Equal(t, "c", got.ID)

	assert.Nil(t, FindConflict(Interval{Start: at(2, 0), End: at(6, 0)}, events, ""))
	assert.Nil(t, FindConflict(Interval{Start: at(3, 0), End: at(3, 0)}, events, ""))
}
