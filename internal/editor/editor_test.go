package editor

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facultycal/internal/model"
	"facultycal/internal/store"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func validDraft() model.Draft {
	return model.Draft{
		Title:     "Data Structures lecture",
		Date:      day(2025, 5, 20),
		StartTime: "09:00",
		EndTime:   "10:30",
		Type:      model.TypeClass,
		Location:  "Room 204",
	}
}

func TestCreate(t *testing.T) {
	s := store.New()
	ed := New(s)

	ev, err := ed.Create(validDraft())
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, model.TypeClass.DefaultColor(), ev.Color)
	assert.Equal(t, 1, s.Len())

	d := validDraft()
	d.Title = "  Office hours  "
	d.Color = "#000000"
	ev, err = ed.Create(d)
	require.NoError(t, err)
	assert.Equal(t, "Office hours", ev.Title)
	assert.Equal(t, "#000000", ev.Color)
}

func TestCreate_ValidationFailuresLeaveStoreUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(d *model.Draft)
		field string
	}{
		{"missing title", func(d *model.Draft) { d.Title = "" }, "title"},
		{"blank title", func(d *model.Draft) { d.Title = "   " }, "title"},
		{"missing date", func(d *model.Draft) { d.Date = time.Time{} }, "date"},
		{"unknown type", func(d *model.Draft) { d.Type = "seminar" }, "type"},
		{"empty type", func(d *model.Draft) { d.Type = "" }, "type"},
		{"bad start", func(d *model.Draft) { d.StartTime = "9am" }, "start_time"},
		{"bad end", func(d *model.Draft) { d.EndTime = "25:00" }, "end_time"},
		{"end before start", func(d *model.Draft) { d.StartTime, d.EndTime = "11:00", "10:00" }, "end_time"},
		{"end date before date", func(d *model.Draft) { d.EndDate = day(2025, 5, 19) }, "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.New()
			ed := New(s)
			d := validDraft()
			tt.mut(&d)

			_, err := ed.Create(d)
			require.Error(t, err)
			assert.True(t, IsValidation(err))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, s.Len())
		})
	}
}

func TestCreate_NoTitleScenario(t *testing.T) {
	s := store.New()
	ed := New(s)
	_, err := ed.Create(validDraft())
	require.NoError(t, err)

	_, err = ed.Create(model.Draft{Date: day(2025, 6, 1), Type: model.TypeExam})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1, s.Len())
}

func TestCreate_MultiDayEndBeforeStartTimeIsAllowed(t *testing.T) {
	ed := New(store.New())
	d := validDraft()
	d.EndDate = day(2025, 5, 21)
	d.StartTime, d.EndTime = "22:00", "02:00"
	_, err := ed.Create(d)
	assert.NoError(t, err)
}

func TestUpdate(t *testing.T) {
	s := store.New()
	ed := New(s)
	ev, err := ed.Create(validDraft())
	require.NoError(t, err)

	typ := model.TypeExam
	updated, err := ed.Update(ev.ID, model.Patch{Title: strPtr(" Midterm "), Type: &typ, Color: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Midterm", updated.Title)
	assert.Equal(t, model.TypeExam, updated.Type)
	assert.Equal(t, model.TypeExam.DefaultColor(), updated.Color)
	assert.Equal(t, ev.Location, updated.Location)

	got, _ := s.Get(ev.ID)
	assert.Equal(t, updated, got)
}

func TestUpdate_InvalidMergeIsRejectedAtomically(t *testing.T) {
	s := store.New()
	ed := New(s)
	ev, err := ed.Create(validDraft())
	require.NoError(t, err)

	zero := time.Time{}
	_, err = ed.Update(ev.ID, model.Patch{Title: strPtr("New title"), Date: &zero})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	got, _ := s.Get(ev.ID)
	assert.Equal(t, ev, got)

	_, err = ed.Update(ev.ID, model.Patch{StartTime: strPtr("11:00")})
	assert.True(t, IsValidation(err), "11:00 start is after the stored 10:30 end")
}

// updateCounter records store writes made through Update.
type updateCounter struct {
	*store.Store
	updates int
}

func (u *updateCounter) Update(id string, p model.Patch) (model.Event, error) {
	u.updates++
	return u.Store.Update(id, p)
}

func TestUpdate_EmptyPatchIsNoOp(t *testing.T) {
	s := &updateCounter{Store: store.New()}
	ed := New(s)
	ev, err := ed.Create(validDraft())
	require.NoError(t, err)

	got, err := ed.Update(ev.ID, model.Patch{})
	require.NoError(t, err)
	assert.Equal(t, ev, got)
	assert.Zero(t, s.updates)

	_, err = ed.Update("nonexistent-id", model.Patch{})
	assert.True(t, IsNotFound(err))

	_, err = ed.Update(ev.ID, model.Patch{Location: strPtr("Room 310")})
	require.NoError(t, err)
	assert.Equal(t, 1, s.updates)
}

func TestUpdateDelete_NotFound(t *testing.T) {
	s := store.New()
	ed := New(s)
	for i := 0; i < 3; i++ {
		d := validDraft()
		d.Title = fmt.Sprintf("event %d", i)
		_, err := ed.Create(d)
		require.NoError(t, err)
	}
	before := s.List()

	_, err := ed.Update("nonexistent-id", model.Patch{Title: strPtr("x")})
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = ed.Delete("nonexistent-id")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nonexistent-id", nf.ID)

	assert.Equal(t, before, s.List())
}

func TestDelete(t *testing.T) {
	s := store.New()
	ed := New(s)
	ev, err := ed.Create(validDraft())
	require.NoError(t, err)

	require.NoError(t, ed.Delete(ev.ID))
	assert.Zero(t, s.Len())
	assert.True(t, IsNotFound(ed.Delete(ev.ID)))
}
