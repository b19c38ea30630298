package filter

import (
	"slices"

	"facultycal/internal/model"
)

// Criteria selects which events are visible.
type Criteria struct {
	Types            map[model.EventType]bool
	IncludeRecurring bool
}

// AllowAll is the default: every type, recurring events included.
func AllowAll() Criteria {
	return NewCriteria(model.AllTypes(), true)
}

// NewCriteria builds criteria from a type list.
func NewCriteria(types []model.EventType, includeRecurring bool) Criteria {
	set := make(map[model.EventType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return Criteria{Types: set, IncludeRecurring: includeRecurring}
}

// Allows reports whether e passes the criteria.
func (c Criteria) Allows(e model.Event) bool {
	if !c.Types[e.Type] {
		return false
	}
	return c.IncludeRecurring || !e.Recurring
}

// TypeList returns the allowed types in model.AllTypes order.
func (c Criteria) TypeList() []model.EventType {
	out := make([]model.EventType, 0, len(c.Types))
	for _, t := range model.AllTypes() {
		if c.Types[t] {
			out = append(out, t)
		}
	}
	return out
}

// Clone copies the type set so the caller can keep c immutable.
func (c Criteria) Clone() Criteria {
	return NewCriteria(c.TypeList(), c.IncludeRecurring)
}

// Apply keeps the events c allows, preserving input order.
func Apply(events []model.Event, c Criteria) []model.Event {
	out := slices.Clone(events)
	return slices.DeleteFunc(out, func(e model.Event) bool { return !c.Allows(e) })
}
