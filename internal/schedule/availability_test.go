package schedule

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	booked map[string][]string
	err    error
	calls  []string
}

func (f *fakeStore) BookedTimes(_ context.Context, date string) ([]string, error) {
	f.calls = append(f.calls, date)
	if f.err != nil {
		return nil, f.err
	}
	return f.booked[date], nil
}

func newTestResolver(store BookingStore) *Resolver {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewResolver(log, store)
}

func TestCheckFreeSlot(t *testing.T) {
	r := newTestResolver(&fakeStore{booked: map[string][]string{
		"2026-09-07": {"09:00", "09:30"},
	}})

	got := r.Check(context.Background(), "2026-09-07", "10:00")
	assert.True(t, got.Available)
	assert.Empty(t, got.SuggestedTimes)
}

func TestCheckBookedSlotSuggestsAlternatives(t *testing.T) {
	r := newTestResolver(&fakeStore{booked: map[string][]string{
		"2026-09-07": {"09:00", "09:30", "10:00"},
	}})

	got := r.Check(context.Background(), "2026-09-07", "09:30")
	assert.False(t, got.Available)
	require.Len(t, got.SuggestedTimes, 5)
	assert.Equal(t, []string{"10:30", "11:00", "11:30", "14:00", "14:30"}, got.SuggestedTimes)
	assert.NotContains(t, got.SuggestedTimes, "09:00")
	assert.NotContains(t, got.SuggestedTimes, "10:00")
}

func TestCheckFailsClosedOnStoreError(t *testing.T) {
	r := newTestResolver(&fakeStore{err: errors.New("connection reset")})

	got := r.Check(context.Background(), "2026-09-07", "10:00")
	assert.False(t, got.Available)
	assert.Empty(t, got.SuggestedTimes)
}

func TestDaySlots(t *testing.T) {
	r := newTestResolver(&fakeStore{booked: map[string][]string{
		"2026-09-07": {"09:00", "14:00", "17:30"},
	}})

	day := r.DaySlots(context.Background(), "2026-09-07")
	assert.True(t, day.Available)
	assert.Equal(t, 14, day.TotalSlots)
	assert.Equal(t, 11, day.AvailableSlots)
	assert.Equal(t, 3, day.BookedSlots)
	assert.NotContains(t, day.Slots, "09:00")
	assert.Contains(t, day.Slots, "09:30")
}

func TestDaySlotsFullyBooked(t *testing.T) {
	r := newTestResolver(&fakeStore{booked: map[string][]string{
		"2026-09-07": Slots(),
	}})

	day := r.DaySlots(context.Background(), "2026-09-07")
	assert.False(t, day.Available)
	assert.Equal(t, 0, day.AvailableSlots)
	assert.Equal(t, 14, day.BookedSlots)
}

func TestRangeMarksSundaysClosed(t *testing.T) {
	store := &fakeStore{booked: map[string][]string{}}
	r := newTestResolver(store)

	// 2026-09-07 is a Monday, so the 7-day window contains the Sunday the 13th.
	days, err := r.Range(context.Background(), "2026-09-07", "2026-09-13")
	require.NoError(t, err)
	require.Len(t, days, 7)

	sunday := days["2026-09-13"]
	assert.False(t, sunday.Available)
	assert.Equal(t, "Closed on Sundays", sunday.Reason)
	assert.NotContains(t, store.calls, "2026-09-13")

	monday := days["2026-09-07"]
	assert.True(t, monday.Available)
	assert.Equal(t, 14, monday.AvailableSlots)
}

func TestRangeCrossesMonthBoundary(t *testing.T) {
	r := newTestResolver(&fakeStore{booked: map[string][]string{}})

	days, err := r.Range(context.Background(), "2026-08-31", "2026-09-02")
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Contains(t, days, "2026-08-31")
	assert.Contains(t, days, "2026-09-01")
	assert.Contains(t, days, "2026-09-02")
}

func TestRangeRejectsMalformedDates(t *testing.T) {
	r := newTestResolver(&fakeStore{})

	_, err := r.Range(context.Background(), "07-09-2026", "2026-09-13")
	assert.Error(t, err)
}
