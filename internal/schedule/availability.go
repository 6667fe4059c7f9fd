package schedule

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"

	maxSuggestions = 5
)

// BookingStore provides the slot labels already taken on a date. Only
// appointments still occupying their slot (scheduled or confirmed) count.
type BookingStore interface {
	BookedTimes(ctx context.Context, date string) ([]string, error)
}

// Availability is the answer to a single (date, time) check.
type Availability struct {
	Available      bool     `json:"available"`
	SuggestedTimes []string `json:"suggestedTimes,omitempty"`
}

// Day describes a whole day's slot situation.
type Day struct {
	Available      bool     `json:"available"`
	Reason         string   `json:"reason,omitempty"`
	TotalSlots     int      `json:"totalSlots,omitempty"`
	AvailableSlots int      `json:"availableSlots,omitempty"`
	BookedSlots    int      `json:"bookedSlots,omitempty"`
	Slots          []string `json:"slots,omitempty"`
}

// Resolver computes free/busy slots over a BookingStore.
//
// Store read failures never propagate: the resolver fails closed (slot
// reported unavailable, no suggestions) so a flaky store cannot cause a
// double booking.
type Resolver struct {
	log   *logrus.Entry
	store BookingStore
}

// NewResolver creates a Resolver.
func NewResolver(log *logrus.Logger, store BookingStore) *Resolver {
	return &Resolver{
		log:   log.WithField("component", "schedule"),
		store: store,
	}
}

// Check reports whether (date, timeLabel) is free. When it is not, up to 5
// alternative slots are suggested in chronological order.
func (r *Resolver) Check(ctx context.Context, date, timeLabel string) Availability {
	booked, err := r.store.BookedTimes(ctx, date)
	if err != nil {
		r.log.Warnf("availability check failed for %s: %v", date, err)
		return Availability{Available: false, SuggestedTimes: []string{}}
	}

	if !contains(booked, timeLabel) {
		return Availability{Available: true}
	}

	free := freeSlots(booked)
	if len(free) > maxSuggestions {
		free = free[:maxSuggestions]
	}
	return Availability{Available: false, SuggestedTimes: free}
}

// DaySlots computes the full slot breakdown for a date.
func (r *Resolver) DaySlots(ctx context.Context, date string) Day {
	booked, err := r.store.BookedTimes(ctx, date)
	if err != nil {
		r.log.Warnf("slot lookup failed for %s: %v", date, err)
		return Day{Available: false, TotalSlots: len(Slots()), Slots: []string{}}
	}

	free := freeSlots(booked)
	return Day{
		Available:      len(free) > 0,
		TotalSlots:     len(Slots()),
		AvailableSlots: len(free),
		BookedSlots:    len(booked),
		Slots:          free,
	}
}

// Range computes per-day availability for every calendar day from start to
// end inclusive. Sundays are closed and never hit the store.
func (r *Resolver) Range(ctx context.Context, start, end string) (map[string]Day, error) {
	startDay, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, err
	}
	endDay, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, err
	}

	days := make(map[string]Day)
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(DateLayout)
		if d.Weekday() == time.Sunday {
			days[dateStr] = Day{Available: false, Reason: "Closed on Sundays"}
			continue
		}
		days[dateStr] = r.DaySlots(ctx, dateStr)
	}
	return days, nil
}

func freeSlots(booked []string) []string {
	free := make([]string, 0, len(Slots()))
	for _, slot := range Slots() {
		if !contains(booked, slot) {
			free = append(free, slot)
		}
	}
	return free
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
