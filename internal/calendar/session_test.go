package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facultycal/internal/editor"
	"facultycal/internal/filter"
	"facultycal/internal/model"
	"facultycal/internal/nav"
	"facultycal/internal/store"
	"facultycal/internal/view"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newSession(t *testing.T, now time.Time, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return now }), WithLocation(time.UTC)}, opts...)
	return New(store.New(), opts...)
}

func mustCreate(t *testing.T, s *Session, title string, date time.Time, typ model.EventType) model.Event {
	t.Helper()
	ev, err := s.CreateEvent(model.Draft{Title: title, Date: date, Type: typ})
	require.NoError(t, err)
	return ev
}

func TestSession_Defaults(t *testing.T) {
	s := newSession(t, time.Date(2025, 5, 20, 13, 0, 0, 0, time.UTC))

	mode, anchor := s.State()
	assert.Equal(t, view.ModeMonth, mode)
	assert.Equal(t, day(2025, 5, 20), anchor)
	assert.Len(t, s.Filter().TypeList(), len(model.AllTypes()))
	assert.True(t, s.Filter().IncludeRecurring)

	s2 := newSession(t, time.Date(2025, 5, 20, 13, 0, 0, 0, time.UTC), WithView(view.ModeList))
	mode, _ = s2.State()
	assert.Equal(t, view.ModeList, mode)
}

func TestSession_ScenarioFilterToExams(t *testing.T) {
	s := newSession(t, day(2025, 5, 1))
	mustCreate(t, s, "A", day(2025, 5, 20), model.TypeClass)
	b := mustCreate(t, s, "B", day(2025, 5, 20), model.TypeExam)
	c := mustCreate(t, s, "C", day(2025, 5, 25), model.TypeExam)

	s.SetFilter(filter.NewCriteria([]model.EventType{model.TypeExam}, true))
	require.NoError(t, s.SetView(view.ModeList))
	s.SelectDate(day(2025, 5, 20))

	rm := s.Render()
	require.NotNil(t, rm.List)
	require.Len(t, rm.List.Groups, 2)
	assert.Equal(t, b.ID, rm.List.Groups[0].Events[0].ID)
	assert.Equal(t, c.ID, rm.List.Groups[1].Events[0].ID)

	require.NoError(t, s.SetView(view.ModeDay))
	rm = s.Render()
	require.NotNil(t, rm.Day)
	require.Len(t, rm.Day.Events, 1)
	assert.Equal(t, "B", rm.Day.Events[0].Title)
}

func TestSession_FilterIsCopied(t *testing.T) {
	s := newSession(t, day(2025, 5, 1))
	c := filter.NewCriteria([]model.EventType{model.TypeExam}, false)
	s.SetFilter(c)
	c.Types[model.TypeClass] = true

	assert.False(t, s.Filter().Types[model.TypeClass])
}

func TestSession_MonthRenderMarksToday(t *testing.T) {
	s := newSession(t, time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC))
	for i := 0; i < 5; i++ {
		mustCreate(t, s, "busy", day(2025, 5, 20), model.TypeMeeting)
	}

	rm := s.Render()
	require.NotNil(t, rm.Month)
	cell := rm.Month.Cells[19]
	assert.True(t, cell.Today)
	assert.Len(t, cell.Markers, 3)
	assert.Equal(t, 2, cell.OverflowCount)
	assert.False(t, rm.Month.Cells[18].Today)
}

func TestSession_NavigationFlow(t *testing.T) {
	s := newSession(t, day(2025, 1, 31))

	s.ShiftPeriod(nav.Next)
	_, anchor := s.State()
	assert.Equal(t, day(2025, 2, 28), anchor)

	require.NoError(t, s.SetView(view.ModeWeek))
	s.ShiftPeriod(nav.Prev)
	_, anchor = s.State()
	assert.Equal(t, day(2025, 2, 21), anchor)

	require.NoError(t, s.SelectMonth(2025, time.October))
	_, anchor = s.State()
	assert.Equal(t, day(2025, 10, 21), anchor)

	s.GoToToday()
	_, anchor = s.State()
	assert.Equal(t, day(2025, 1, 31), anchor)
}

func TestSession_RenderAtKeepsState(t *testing.T) {
	s := newSession(t, day(2025, 5, 20))
	mustCreate(t, s, "June exam", day(2025, 6, 3), model.TypeExam)

	rm := s.RenderAt(view.ModeWeek, day(2025, 6, 3))
	require.NotNil(t, rm.Week)
	assert.Len(t, rm.Week.Days[2].Events, 1)

	mode, anchor := s.State()
	assert.Equal(t, view.ModeMonth, mode)
	assert.Equal(t, day(2025, 5, 20), anchor)
}

func TestSession_MutationsAndErrors(t *testing.T) {
	s := newSession(t, day(2025, 5, 1))
	ev := mustCreate(t, s, "Lecture", day(2025, 5, 20), model.TypeClass)

	title := "Lecture (moved)"
	updated, err := s.UpdateEvent(ev.ID, model.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	_, err = s.CreateEvent(model.Draft{Date: day(2025, 6, 1), Type: model.TypeExam})
	assert.True(t, editor.IsValidation(err))

	assert.True(t, editor.IsNotFound(s.DeleteEvent("nonexistent-id")))
	assert.Len(t, s.Events(), 1)

	require.NoError(t, s.DeleteEvent(ev.ID))
	assert.Empty(t, s.Events())
}

func TestSession_UpcomingEvents(t *testing.T) {
	s := newSession(t, time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC))
	mustCreate(t, s, "past", day(2025, 5, 10), model.TypeClass)
	for i := 1; i <= 7; i++ {
		mustCreate(t, s, "future", day(2025, 5, 20+i), model.TypeReminder)
	}

	up := s.UpcomingEvents(0)
	require.Len(t, up, 5)
	assert.Equal(t, day(2025, 5, 21), up[0].Date)
	assert.Equal(t, day(2025, 5, 25), up[4].Date)

	assert.Len(t, s.UpcomingEvents(10), 7)
}

func TestSession_SetViewRejectsUnknownMode(t *testing.T) {
	s := newSession(t, day(2025, 5, 20))
	require.NoError(t, s.SetView(view.ModeWeek))

	assert.Error(t, s.SetView(view.Mode("agenda")))
	mode, _ := s.State()
	assert.Equal(t, view.ModeWeek, mode)

	s2 := newSession(t, day(2025, 5, 20), WithView(view.Mode("agenda")))
	mode, _ = s2.State()
	assert.Equal(t, view.ModeMonth, mode)
}
