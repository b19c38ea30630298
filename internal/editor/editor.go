package editor

import (
	"errors"
	"strings"

	appLog "facultycal/internal/log"
	"facultycal/internal/model"
	"facultycal/internal/store"
)

// EventStore is the subset of *store.Store the editor commits through.
type EventStore interface {
	Add(d model.Draft) model.Event
	Update(id string, p model.Patch) (model.Event, error)
	Remove(id string) error
	Get(id string) (model.Event, bool)
}

// Editor validates mutation requests and commits them to the store. A
// failed request never reaches the store.
type Editor struct {
	store EventStore
}

func New(s EventStore) *Editor {
	return &Editor{store: s}
}

// Create validates d and adds it with a freshly assigned id.
func (ed *Editor) Create(d model.Draft) (model.Event, error) {
	d.Title = strings.TrimSpace(d.Title)
	if d.Color == "" {
		d.Color = d.Type.DefaultColor()
	}
	if err := Validate(d.Event("")); err != nil {
		return model.Event{}, err
	}

	ev := ed.store.Add(d)
	appLog.Debug("event created", "id", ev.ID, "type", ev.Type, "date", model.FormatDate(ev.Date))
	return ev, nil
}

// Update validates the merged result of p over the stored event, then commits p.
// An empty patch returns the stored event without writing.
func (ed *Editor) Update(id string, p model.Patch) (model.Event, error) {
	current, ok := ed.store.Get(id)
	if !ok {
		return model.Event{}, &NotFoundError{ID: id}
	}
	if p.Empty() {
		appLog.Debug("empty patch; event unchanged", "id", id)
		return current, nil
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
	}
	merged := p.Apply(current)
	if merged.Color == "" {
		color := merged.Type.DefaultColor()
		p.Color = &color
		merged.Color = color
	}
	if err := Validate(merged); err != nil {
		return model.Event{}, err
	}

	ev, err := ed.store.Update(id, p)
	if errors.Is(err, store.ErrNotFound) {
		return model.Event{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return model.Event{}, err
	}
	appLog.Debug("event updated", "id", ev.ID)
	return ev, nil
}

// Delete removes the event with the given id.
func (ed *Editor) Delete(id string) error {
	if err := ed.store.Remove(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &NotFoundError{ID: id}
		}
		return err
	}
	appLog.Debug("event deleted", "id", id)
	return nil
}
