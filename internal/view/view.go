// Package view projects a filtered event set onto the four calendar layouts.
//
// Every projection is a pure function of (events, anchor). Event order in
// the input is the Store-list order and is used as the tie-break wherever a
// layout does not define its own ordering.
package view

import (
	"fmt"
	"strings"
	"time"

	"facultycal/internal/model"
)

// Mode is one of the display granularities.
type Mode string

const (
	ModeMonth Mode = "month"
	ModeWeek  Mode = "week"
	ModeDay   Mode = "day"
	ModeList  Mode = "list"
)

// Valid reports whether m is one of the four views.
func (m Mode) Valid() bool {
	switch m {
	case ModeMonth, ModeWeek, ModeDay, ModeList:
		return true
	}
	return false
}

// ParseMode validates s as a view mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown view %q", s)
	}
	return m, nil
}

// Model is the render model for whichever view is active. Exactly one of
// the layout pointers is set, matching Mode.
type Model struct {
	Mode   Mode
	Anchor time.Time
	Month  *MonthView
	Week   *WeekView
	Day    *DayView
	List   *ListView
}

// Project builds the layout for mode.
func Project(mode Mode, events []model.Event, anchor time.Time) Model {
	m := Model{Mode: mode, Anchor: anchor}
	switch mode {
	case ModeWeek:
		w := Week(events, anchor)
		m.Week = &w
	case ModeDay:
		d := Day(events, anchor)
		m.Day = &d
	case ModeList:
		l := List(events, anchor)
		m.List = &l
	default:
		m.Mode = ModeMonth
		mv := Month(events, anchor)
		m.Month = &mv
	}
	return m
}

// MarkToday flags the cells that fall on now's calendar day.
func (m *Model) MarkToday(now time.Time) {
	if m.Month != nil {
		for i := range m.Month.Cells {
			m.Month.Cells[i].Today = model.SameDay(m.Month.Cells[i].Date, now)
		}
	}
	if m.Week != nil {
		for i := range m.Week.Days {
			m.Week.Days[i].Today = model.SameDay(m.Week.Days[i].Date, now)
		}
	}
}
