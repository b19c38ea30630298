package view

import (
	"slices"
	"time"

	"facultycal/internal/model"
	"facultycal/internal/query"
)

// MonthCellCap is how many indicator markers a month cell shows before
// collapsing the rest into OverflowCount.
const MonthCellCap = 3

// Marker is the compact indicator shown inside a month cell.
type Marker struct {
	ID        string
	Title     string
	Type      model.EventType
	Color     string
	StartTime string
}

// MonthCell is one day of the month grid.
type MonthCell struct {
	Date          time.Time
	Day           int
	Markers       []Marker
	OverflowCount int
	Today         bool
}

// MonthView is the full month grid. LeadingBlanks is the number of empty
// slots before day 1 in a Sunday-first week row.
type MonthView struct {
	Year          int
	Month         time.Month
	LeadingBlanks int
	Cells         []MonthCell
}

// DayCell is one column of the week grid.
type DayCell struct {
	Date   time.Time
	Events []model.Event
	Today  bool
}

// WeekView covers the 7 days starting at the Sunday on/before the anchor.
type WeekView struct {
	Start time.Time
	End   time.Time
	Days  []DayCell
}

// DayView is the agenda for a single date.
type DayView struct {
	Date   time.Time
	Events []model.Event
}

// ListGroup holds all events of one calendar date.
type ListGroup struct {
	Date   time.Time
	Events []model.Event
}

// ListView is the month's events grouped by date.
type ListView struct {
	Year   int
	Month  time.Month
	Groups []ListGroup
}

// Month builds the month grid around anchor. Markers are the first
// MonthCellCap events of the day in input order.
func Month(events []model.Event, anchor time.Time) MonthView {
	year, month, _ := anchor.Date()
	loc := anchor.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	n := model.DaysIn(year, month)

	mv := MonthView{
		Year:          year,
		Month:         month,
		LeadingBlanks: int(first.Weekday()),
		Cells:         make([]MonthCell, 0, n),
	}

	// Narrow once to the month so each day scans a smaller slice.
	inMonth := query.InMonth(events, anchor)

	for d := 1; d <= n; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, loc)
		dayEvents := query.OnDate(inMonth, date)

		cell := MonthCell{Date: date, Day: d, Markers: make([]Marker, 0, MonthCellCap)}
		for i, e := range dayEvents {
			if i == MonthCellCap {
				cell.OverflowCount = len(dayEvents) - MonthCellCap
				break
			}
			cell.Markers = append(cell.Markers, markerOf(e))
		}
		mv.Cells = append(mv.Cells, cell)
	}
	return mv
}

// Week builds the Sunday-first week containing anchor. Events within a day
// keep input order; they are not time-sorted.
func Week(events []model.Event, anchor time.Time) WeekView {
	start := WeekStart(anchor)
	wv := WeekView{
		Start: start,
		End:   start.AddDate(0, 0, 6),
		Days:  make([]DayCell, 0, 7),
	}
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		wv.Days = append(wv.Days, DayCell{Date: date, Events: query.OnDate(events, date)})
	}
	return wv
}

// WeekStart returns midnight of the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	return model.StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

// Day builds the agenda for anchor's date: timed events ascending by start
// time, then untimed events, each group in input order.
func Day(events []model.Event, anchor time.Time) DayView {
	dayEvents := query.OnDate(events, anchor)
	slices.SortStableFunc(dayEvents, func(a, b model.Event) int {
		return startMinutes(a) - startMinutes(b)
	})
	return DayView{Date: model.StartOfDay(anchor), Events: dayEvents}
}

// untimed sorts after every valid HH:MM value.
const untimed = 24 * 60

func startMinutes(e model.Event) int {
	if !e.HasStartTime() {
		return untimed
	}
	m, err := model.ParseClock(e.StartTime)
	if err != nil {
		return untimed
	}
	return m
}

// List groups the anchor month's events by calendar date, ascending.
func List(events []model.Event, anchor time.Time) ListView {
	monthEvents := query.InMonth(events, anchor)
	slices.SortStableFunc(monthEvents, func(a, b model.Event) int {
		return model.DayKey(a.Date) - model.DayKey(b.Date)
	})

	lv := ListView{Year: anchor.Year(), Month: anchor.Month(), Groups: make([]ListGroup, 0)}
	for _, e := range monthEvents {
		last := len(lv.Groups) - 1
		if last >= 0 && model.SameDay(lv.Groups[last].Date, e.Date) {
			lv.Groups[last].Events = append(lv.Groups[last].Events, e)
			continue
		}
		lv.Groups = append(lv.Groups, ListGroup{
			Date:   model.StartOfDay(e.Date),
			Events: []model.Event{e},
		})
	}
	return lv
}

func markerOf(e model.Event) Marker {
	return Marker{
		ID:        e.ID,
		Title:     e.Title,
		Type:      e.Type,
		Color:     e.Color,
		StartTime: e.StartTime,
	}
}
