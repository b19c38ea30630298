package editor

import (
	"strings"

	"facultycal/internal/model"
)

// Validate checks e field by field and returns the first failure.
// The id is not checked; the store assigns it.
func Validate(e model.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if e.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if !e.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "must be one of class, exam, assignment, meeting, reminder"}
	}
	if !e.EndDate.IsZero() && model.DayKey(e.EndDate) < model.DayKey(e.Date) {
		return &ValidationError{Field: "end_date", Reason: "before date"}
	}

	var start, end int
	var err error
	if e.StartTime != "" {
		if start, err = model.ParseClock(e.StartTime); err != nil {
			return &ValidationError{Field: "start_time", Reason: err.Error()}
		}
	}
	if e.EndTime != "" {
		if end, err = model.ParseClock(e.EndTime); err != nil {
			return &ValidationError{Field: "end_time", Reason: err.Error()}
		}
	}

	singleDay := e.EndDate.IsZero() || model.SameDay(e.EndDate, e.Date)
	if e.StartTime != "" && e.EndTime != "" && singleDay && end < start {
		return &ValidationError{Field: "end_time", Reason: "before start_time"}
	}
	return nil
}
