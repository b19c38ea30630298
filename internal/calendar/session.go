// Package calendar is the handle a UI collaborator drives: it owns the
// event store, the active filter and the navigation state, and turns them
// into a render model on demand.
package calendar

import (
	"sync"
	"time"

	"facultycal/internal/editor"
	"facultycal/internal/filter"
	appLog "facultycal/internal/log"
	"facultycal/internal/model"
	"facultycal/internal/nav"
	"facultycal/internal/query"
	"facultycal/internal/store"
	"facultycal/internal/view"
)

// Session serializes all access with one mutex so the HTTP server and the
// digest job can share it. The engines it calls stay single-threaded.
type Session struct {
	mu       sync.Mutex
	store    *store.Store
	editor   *editor.Editor
	nav      *nav.Controller
	criteria filter.Criteria
	now      func() time.Time
	loc      *time.Location
}

type options struct {
	now  func() time.Time
	loc  *time.Location
	mode view.Mode
}

// Option configures a Session.
type Option func(*options)

// WithClock replaces time.Now for "today" and upcoming queries.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLocation sets the display location.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithView sets the initial view.
func WithView(m view.Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// New builds a session over st, anchored on today with every event type
// visible. The initial view is month unless WithView says otherwise.
func New(st *store.Store, opts ...Option) *Session {
	o := options{now: time.Now, loc: time.Local, mode: view.ModeMonth}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		store:    st,
		editor:   editor.New(st),
		nav:      nav.New(nav.WithClock(o.now), nav.WithLocation(o.loc)),
		criteria: filter.AllowAll(),
		now:      o.now,
		loc:      o.loc,
	}
	if err := s.nav.SetView(o.mode); err != nil {
		appLog.Warn("initial view ignored; using month", "err", err)
	}
	return s
}

// Editor exposes the editor, e.g. for seeding before the session is shared.
func (s *Session) Editor() *editor.Editor {
	return s.editor
}

func (s *Session) Location() *time.Location {
	return s.loc
}

// CreateEvent validates and stores a new event.
func (s *Session) CreateEvent(d model.Draft) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, err := s.editor.Create(d)
	if err != nil {
		appLog.Warn("create event rejected", "err", err)
	}
	return ev, err
}

// UpdateEvent merges p into the event with the given id.
func (s *Session) UpdateEvent(id string, p model.Patch) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, err := s.editor.Update(id, p)
	if err != nil {
		appLog.Warn("update event rejected", "id", id, "err", err)
	}
	return ev, err
}

// DeleteEvent removes the event with the given id.
func (s *Session) DeleteEvent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.editor.Delete(id)
	if err != nil {
		appLog.Warn("delete event rejected", "id", id, "err", err)
	}
	return err
}

// Events returns the unfiltered store snapshot.
func (s *Session) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List()
}

// SetFilter replaces the active filter criteria.
func (s *Session) SetFilter(c filter.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c.Clone()
}

// Filter returns a copy of the active criteria.
func (s *Session) Filter() filter.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.Clone()
}

// SetView switches the active view; an unknown mode is rejected.
func (s *Session) SetView(m view.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.SetView(m)
}

func (s *Session) ShiftPeriod(dir nav.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Shift(dir)
}

func (s *Session) SelectDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.SelectDate(date)
}

func (s *Session) SelectMonth(year int, month time.Month) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.SelectMonth(year, month)
}

func (s *Session) GoToToday() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.GoToToday()
}

// State returns the current view and anchor.
func (s *Session) State() (view.Mode, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.View(), s.nav.Anchor()
}

// Render projects the filtered events for the active view and anchor.
func (s *Session) Render() view.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(s.nav.View(), s.nav.Anchor())
}

// RenderAt projects an arbitrary view/anchor without moving the navigation state.
func (s *Session) RenderAt(m view.Mode, anchor time.Time) view.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(m, anchor)
}

func (s *Session) render(m view.Mode, anchor time.Time) view.Model {
	visible := filter.Apply(s.store.List(), s.criteria)
	rm := view.Project(m, visible, anchor)
	rm.MarkToday(s.now().In(s.loc))
	return rm
}

// UpcomingEvents returns the next limit events dated after now. The active
// filter is not applied.
func (s *Session) UpcomingEvents(limit int) []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query.Upcoming(s.store.List(), s.now(), limit)
}
