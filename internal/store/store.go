package store

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	appLog "facultycal/internal/log"
	"facultycal/internal/model"
)

// ErrNotFound is returned by Update and Remove for unknown ids.
var ErrNotFound = errors.New("event not found")

// maxIDAttempts bounds retries of an injected IDFunc before uuid takes over.
const maxIDAttempts = 8

// IDFunc produces candidate event ids.
type IDFunc func() string

// Store is the canonical, in-memory owner of all events. Callers only ever
// receive copies; the slice order is insertion order, which downstream
// projections use as their tie-break.
type Store struct {
	mu     sync.RWMutex
	events []model.Event
	newID  IDFunc
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc overrides the uuid-based id generator.
func WithIDFunc(f IDFunc) Option {
	return func(s *Store) {
		if f != nil {
			s.newID = f
		}
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add assigns a fresh id to the draft and appends it.
func (s *Store) Add(d model.Draft) model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for i := 0; s.taken(id); i++ {
		if i >= maxIDAttempts {
			// The injected generator is stuck; uuid cannot repeat in practice.
			appLog.Warn("id generator exhausted; falling back to uuid", "attempts", maxIDAttempts)
			for s.taken(id) {
				id = uuid.NewString()
			}
			break
		}
		id = s.newID()
	}

	ev := d.Event(id)
	s.events = append(s.events, ev)
	return ev.Clone()
}

// Update merges p into the event with the given id.
func (s *Store) Update(id string, p model.Patch) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Event{}, ErrNotFound
	}
	s.events[i] = p.Apply(s.events[i])
	return s.events[i].Clone(), nil
}

// Remove deletes the event with the given id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.events = slices.Delete(s.events, i, i+1)
	return nil
}

// Get returns a copy of the event with the given id.
func (s *Store) Get(id string) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Event{}, false
	}
	return s.events[i].Clone(), true
}

// List returns a snapshot of all events. Consumers must not rely on its
// order for presentation and should sort explicitly.
func (s *Store) List() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Event, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Clone()
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func (s *Store) taken(id string) bool {
	return id == "" || s.indexOf(id) >= 0
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.events, func(e model.Event) bool { return e.ID == id })
}
