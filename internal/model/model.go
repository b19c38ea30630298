package model

import (
	"slices"
	"time"
)

// EventType classifies an event. Every stored event carries exactly one.
type EventType string

const (
	TypeClass      EventType = "class"
	TypeExam       EventType = "exam"
	TypeAssignment EventType = "assignment"
	TypeMeeting    EventType = "meeting"
	TypeReminder   EventType = "reminder"
)

var allTypes = []EventType{TypeClass, TypeExam, TypeAssignment, TypeMeeting, TypeReminder}

// defaultColors is the display palette used when an event is created without a color.
var defaultColors = map[EventType]string{
	TypeClass:      "#3b82f6",
	TypeExam:       "#ef4444",
	TypeAssignment: "#f59e0b",
	TypeMeeting:    "#10b981",
	TypeReminder:   "#8b5cf6",
}

// AllTypes returns every known event type in a stable order.
func AllTypes() []EventType {
	return slices.Clone(allTypes)
}

func (t EventType) Valid() bool {
	return slices.Contains(allTypes, t)
}

// DefaultColor returns the palette color for t, or "" for unknown types.
func (t EventType) DefaultColor() string {
	return defaultColors[t]
}

// ParseEventType validates s as an event type.
func ParseEventType(s string) (EventType, bool) {
	t := EventType(s)
	return t, t.Valid()
}

// Event is a single scheduled calendar entry.
//
// Date is a calendar date: only its year, month and day (read in its own
// location) are meaningful. EndDate is optional and zero when unset.
// StartTime/EndTime are optional "HH:MM" 24h clock strings.
//
// Recurring is stored as-is; no instance expansion is performed anywhere.
type Event struct {
	ID          string
	Title       string
	Date        time.Time
	EndDate     time.Time
	StartTime   string
	EndTime     string
	Type        EventType
	Description string
	Location    string
	Recurring   bool
	Color       string
	Attendees   []string
}

// Clone returns a copy that shares no mutable state with e.
func (e Event) Clone() Event {
	e.Attendees = slices.Clone(e.Attendees)
	return e
}

// HasStartTime reports whether the event is timed.
func (e Event) HasStartTime() bool {
	return e.StartTime != ""
}

// Draft carries the fields of a new event. The id is assigned by the store.
type Draft struct {
	Title       string
	Date        time.Time
	EndDate     time.Time
	StartTime   string
	EndTime     string
	Type        EventType
	Description string
	Location    string
	Recurring   bool
	Color       string
	Attendees   []string
}

// Event materializes the draft under the given id.
func (d Draft) Event(id string) Event {
	return Event{
		ID:          id,
		Title:       d.Title,
		Date:        d.Date,
		EndDate:     d.EndDate,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		Type:        d.Type,
		Description: d.Description,
		Location:    d.Location,
		Recurring:   d.Recurring,
		Color:       d.Color,
		Attendees:   slices.Clone(d.Attendees),
	}
}

// Patch is a partial update. A nil field leaves the stored value untouched;
// a pointer to the zero value clears an optional field.
type Patch struct {
	Title       *string
	Date        *time.Time
	EndDate     *time.Time
	StartTime   *string
	EndTime     *string
	Type        *EventType
	Description *string
	Location    *string
	Recurring   *bool
	Color       *string
	Attendees   *[]string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Apply returns e with the patch merged in. e itself is not modified.
func (p Patch) Apply(e Event) Event {
	out := e.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Date != nil {
		out.Date = *p.Date
	}
	if p.EndDate != nil {
		out.EndDate = *p.EndDate
	}
	if p.StartTime != nil {
		out.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		out.EndTime = *p.EndTime
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.Recurring != nil {
		out.Recurring = *p.Recurring
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.Attendees != nil {
		out.Attendees = slices.Clone(*p.Attendees)
	}
	return out
}
