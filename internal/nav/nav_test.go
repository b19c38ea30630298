package nav

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facultycal/internal/view"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newController(now time.Time) *Controller {
	return New(WithClock(fixedClock(now)), WithLocation(time.UTC))
}

func TestNew_StartsTodayInMonthView(t *testing.T) {
	c := newController(time.Date(2025, 5, 20, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, day(2025, 5, 20), c.Anchor())
	assert.Equal(t, view.ModeMonth, c.View())
}

func TestGoToToday_UsesLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	c := New(WithClock(fixedClock(time.Date(2025, 5, 20, 20, 0, 0, 0, time.UTC))), WithLocation(seoul))
	assert.Equal(t, time.Date(2025, 5, 21, 0, 0, 0, 0, seoul), c.Anchor())
}

func TestShift_PerView(t *testing.T) {
	tests := []struct {
		mode view.Mode
		dir  Direction
		want time.Time
	}{
		{view.ModeMonth, Next, day(2025, 6, 20)},
		{view.ModeMonth, Prev, day(2025, 4, 20)},
		{view.ModeList, Next, day(2025, 6, 20)},
		{view.ModeWeek, Next, day(2025, 5, 27)},
		{view.ModeWeek, Prev, day(2025, 5, 13)},
		{view.ModeDay, Next, day(2025, 5, 21)},
		{view.ModeDay, Prev, day(2025, 5, 19)},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			c := newController(day(2025, 5, 20))
			require.NoError(t, c.SetView(tt.mode))
			c.Shift(tt.dir)
			assert.Equal(t, tt.want, c.Anchor())
		})
	}
}

func TestShift_MonthClampsShortMonths(t *testing.T) {
	c := newController(day(2025, 1, 31))
	c.Shift(Next)
	assert.Equal(t, day(2025, 2, 28), c.Anchor())

	// Clamping is not undone on the way back.
	c.Shift(Prev)
	assert.Equal(t, day(2025, 1, 28), c.Anchor())
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"leap year", day(2024, 1, 31), 1, day(2024, 2, 29)},
		{"into 30-day month", day(2025, 3, 31), 1, day(2025, 4, 30)},
		{"backwards", day(2025, 3, 31), -1, day(2025, 2, 28)},
		{"across year", day(2025, 12, 31), 2, day(2026, 2, 28)},
		{"back across year", day(2025, 1, 15), -1, day(2024, 12, 15)},
		{"no clamp", day(2025, 5, 15), 1, day(2025, 6, 15)},
		{"twelve months", day(2024, 2, 29), 12, day(2025, 2, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonthsClamped(tt.in, tt.n))
		})
	}
}

func TestSelectDateAndMonth(t *testing.T) {
	c := newController(day(2025, 5, 31))

	c.SelectDate(time.Date(2025, 9, 3, 17, 45, 0, 0, time.UTC))
	assert.Equal(t, day(2025, 9, 3), c.Anchor())

	c.SelectDate(day(2025, 1, 31))
	require.NoError(t, c.SelectMonth(2025, time.April))
	assert.Equal(t, day(2025, 4, 30), c.Anchor())

	assert.Error(t, c.SelectMonth(2025, 13))
	assert.Equal(t, day(2025, 4, 30), c.Anchor())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("Next")
	require.NoError(t, err)
	assert.Equal(t, Next, d)

	d, err = ParseDirection("previous")
	require.NoError(t, err)
	assert.Equal(t, Prev, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestSetView_RejectsUnknownMode(t *testing.T) {
	c := newController(day(2025, 5, 20))
	require.NoError(t, c.SetView(view.ModeDay))

	assert.Error(t, c.SetView(view.Mode("bogus")))
	assert.Equal(t, view.ModeDay, c.View())

	c.Shift(Next)
	assert.Equal(t, day(2025, 5, 21), c.Anchor())
}
