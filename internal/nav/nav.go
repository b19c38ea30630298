// Package nav tracks the anchor date and active view, and shifts the
// anchor by one period of that view.
package nav

import (
	"fmt"
	"strings"
	"time"

	"facultycal/internal/model"
	"facultycal/internal/view"
)

// Direction of a period shift.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// ParseDirection accepts "prev"/"previous" and "next".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prev", "previous":
		return Prev, nil
	case "next":
		return Next, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// Controller holds the navigation state. The anchor is always midnight of
// its calendar date in the controller's location.
type Controller struct {
	anchor time.Time
	mode   view.Mode
	now    func() time.Time
	loc    *time.Location
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the display location used for "today".
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// New starts on today in month view.
func New(opts ...Option) *Controller {
	c := &Controller{mode: view.ModeMonth, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(c)
	}
	c.GoToToday()
	return c
}

func (c *Controller) Anchor() time.Time { return c.anchor }

func (c *Controller) View() view.Mode { return c.mode }

// Today returns the current instant in the controller's location.
func (c *Controller) Today() time.Time { return c.now().In(c.loc) }

// GoToToday moves the anchor to the current date.
func (c *Controller) GoToToday() {
	c.anchor = model.StartOfDay(c.Today())
}

// SetView switches the active view; the anchor is kept. An unknown mode
// leaves the state untouched.
func (c *Controller) SetView(m view.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("unknown view %q", m)
	}
	c.mode = m
	return nil
}

// SelectDate moves the anchor to date's calendar day.
func (c *Controller) SelectDate(date time.Time) {
	y, m, d := date.Date()
	c.anchor = time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// SelectMonth is the list-view month selector: it sets the anchor to the
// given month directly, keeping the day where the month allows it.
func (c *Controller) SelectMonth(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("month %d out of range", month)
	}
	day := min(c.anchor.Day(), model.DaysIn(year, month))
	c.anchor = time.Date(year, month, day, 0, 0, 0, 0, c.loc)
	return nil
}

// Shift moves the anchor by one unit of the active view: a month for month
// and list views, 7 days for week view, 1 day for day view.
func (c *Controller) Shift(dir Direction) {
	switch c.mode {
	case view.ModeWeek:
		c.anchor = c.anchor.AddDate(0, 0, 7*int(dir))
	case view.ModeDay:
		c.anchor = c.anchor.AddDate(0, 0, int(dir))
	default:
		c.anchor = AddMonthsClamped(c.anchor, int(dir))
	}
}

// AddMonthsClamped adds n months to t, clamping the day to the length of the
// target month instead of overflowing into the next one (Jan 31 + 1 month is
// Feb 28/29, never Mar 3).
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	// Normalize via day 1 so AddDate cannot roll over.
	first := time.Date(y, m, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()).AddDate(0, n, 0)
	d = min(d, model.DaysIn(first.Year(), first.Month()))
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
