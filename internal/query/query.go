// Package query selects events by calendar date. All functions are pure;
// callers run the filter first.
package query

import (
	"slices"
	"time"

	"facultycal/internal/model"
)

// DefaultUpcomingLimit is used when Upcoming is called with a non-positive limit.
const DefaultUpcomingLimit = 5

// OnDate returns the events whose calendar day equals date's, in input order.
func OnDate(events []model.Event, date time.Time) []model.Event {
	out := make([]model.Event, 0)
	for _, e := range events {
		if model.SameDay(e.Date, date) {
			out = append(out, e)
		}
	}
	return out
}

// InMonth returns the events sharing date's year and month, in input order.
func InMonth(events []model.Event, date time.Time) []model.Event {
	out := make([]model.Event, 0)
	for _, e := range events {
		if model.SameMonth(e.Date, date) {
			out = append(out, e)
		}
	}
	return out
}

// Upcoming returns events dated strictly after now, ascending by date and
// truncated to limit. Ties keep input order.
func Upcoming(events []model.Event, now time.Time, limit int) []model.Event {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	out := make([]model.Event, 0)
	for _, e := range events {
		if e.Date.After(now) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Event) int {
		return a.Date.Compare(b.Date)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
