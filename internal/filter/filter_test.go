package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"facultycal/internal/model"
)

func ev(id string, typ model.EventType, recurring bool) model.Event {
	return model.Event{
		ID:        id,
		Title:     id,
		Date:      time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		Type:      typ,
		Recurring: recurring,
	}
}

func ids(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	events := []model.Event{
		ev("class", model.TypeClass, false),
		ev("exam-weekly", model.TypeExam, true),
		ev("exam", model.TypeExam, false),
		ev("meeting", model.TypeMeeting, true),
		ev("exam-2", model.TypeExam, false),
	}

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "allow all keeps input order",
			criteria: AllowAll(),
			want:     []string{"class", "exam-weekly", "exam", "meeting", "exam-2"},
		},
		{
			name:     "exams without recurring",
			criteria: NewCriteria([]model.EventType{model.TypeExam}, false),
			want:     []string{"exam", "exam-2"},
		},
		{
			name:     "exams with recurring",
			criteria: NewCriteria([]model.EventType{model.TypeExam}, true),
			want:     []string{"exam-weekly", "exam", "exam-2"},
		},
		{
			name:     "no types",
			criteria: NewCriteria(nil, true),
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(events, tt.criteria)))
		})
	}
}

func TestApplyExamOnlyNeverLeaks(t *testing.T) {
	var events []model.Event
	for i, typ := range model.AllTypes() {
		events = append(events, ev(string(typ)+"-a", typ, i%2 == 0), ev(string(typ)+"-b", typ, i%2 == 1))
	}

	got := Apply(events, NewCriteria([]model.EventType{model.TypeExam}, false))
	for _, e := range got {
		assert.Equal(t, model.TypeExam, e.Type)
		assert.False(t, e.Recurring)
	}
	assert.NotEmpty(t, got)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	events := []model.Event{ev("a", model.TypeClass, false), ev("b", model.TypeExam, false)}
	_ = Apply(events, NewCriteria([]model.EventType{model.TypeExam}, true))
	assert.Equal(t, []string{"a", "b"}, ids(events))
}

func TestCriteriaTypeList(t *testing.T) {
	c := NewCriteria([]model.EventType{model.TypeReminder, model.TypeClass}, true)
	assert.Equal(t, []model.EventType{model.TypeClass, model.TypeReminder}, c.TypeList())

	clone := c.Clone()
	clone.Types[model.TypeExam] = true
	assert.False(t, c.Types[model.TypeExam])
}
