package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		amount int
		valid  bool
	}{
		{-1, false},
		{0, false},
		{1, true},
		{250, true},
		{5000, true},
		{5001, false},
	}

	for _, tt := range tests {
		err := ValidateAmount(tt.amount)
		if tt.valid {
			assert.NoError(t, err, tt.amount)
		} else {
			assert.ErrorIs(t, err, ErrInvalidAmount, tt.amount)
		}
	}
}

func TestDayKeyUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	at := time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-10", DayKey(at, nil))
	assert.Equal(t, "2025-06-11", DayKey(at, tokyo))
}

func TestParseDayKey(t *testing.T) {
	_, err := ParseDayKey("2025-06-10")
	assert.NoError(t, err)

	for _, bad := range []string{"", "2025-6-10", "10-06-2025", "2025-02-30"} {
		_, err := ParseDayKey(bad)
		assert.ErrorIs(t, err, ErrInvalidDayKey, bad)
	}
}

func TestNewEvent(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	at := time.Date(2025, 6, 10, 2, 0, 0, 0, time.UTC)
	e, err := NewEvent("u1", 500, at, ny)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-09", e.DayKey)
	assert.Equal(t, time.UTC, e.OccurredAt.Location())
	assert.NotEmpty(t, e.ID)

	_, err = NewEvent("u1", 0, at, ny)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestTotals(t *testing.T) {
	events := []*Event{
		{AmountMl: 500, DayKey: "2025-06-10"},
		{AmountMl: 750, DayKey: "2025-06-10"},
		{AmountMl: 1000, DayKey: "2025-06-09"},
		{AmountMl: 9000, DayKey: "2025-06-09"},
		{AmountMl: 300, DayKey: "garbage"},
		nil,
	}

	assert.Equal(t, 2550, SumMl(events))
	assert.Equal(t, 1250, TotalForDay("u1", "2025-06-10", events).TotalMl)
	assert.Equal(t, 0, TotalForDay("u1", "2025-06-11", events).TotalMl)

	totals := DailyTotals("u1", events)
	require.Len(t, totals, 2)
	assert.Equal(t, DailyTotal{UserID: "u1", DayKey: "2025-06-09", TotalMl: 1000}, totals[0])
	assert.Equal(t, DailyTotal{UserID: "u1", DayKey: "2025-06-10", TotalMl: 1250}, totals[1])
}

func TestNewestFirstDoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	events := []*Event{
		{ID: "a", OccurredAt: base},
		{ID: "b", OccurredAt: base.Add(time.Hour)},
		{ID: "c", OccurredAt: base.Add(30 * time.Minute)},
	}

	sorted := NewestFirst(events)
	assert.Equal(t, []string{"b", "c", "a"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, "a", events[0].ID)
}
