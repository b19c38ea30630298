package seed

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "facultycal/internal/log"
	"facultycal/internal/model"
)

// defaultICSType is used when no CATEGORIES value names a known event type.
const defaultICSType = model.TypeMeeting

// ParseICS converts the VEVENTs of an iCalendar document into drafts.
//
//   - DTSTART gives the date and, unless all-day, the start time in loc.
//   - DTEND gives the end time; an end on a later day sets EndDate. All-day
//     DTEND is exclusive.
//   - The first CATEGORIES value naming a known type selects the type.
//   - A parseable RRULE only sets Recurring; occurrences are not expanded,
//     so EXDATE is ignored and RECURRENCE-ID override instances are skipped.
//
// VEVENTs without DTSTART are logged and skipped.
func ParseICS(r io.Reader, loc *time.Location) ([]model.Draft, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	drafts := make([]model.Draft, 0)
	for _, ve := range cal.Events() {
		if ve.GetProperty(ical.ComponentPropertyRecurrenceId) != nil {
			appLog.Debug("ics override instance skipped", "uid", propValue(ve, ical.ComponentPropertyUniqueId))
			continue
		}
		d, err := draftFromVEvent(ve, loc)
		if err != nil {
			appLog.Error("ics vevent skipped", err, "uid", propValue(ve, ical.ComponentPropertyUniqueId))
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func draftFromVEvent(ve *ical.VEvent, loc *time.Location) (model.Draft, error) {
	d := model.Draft{
		Title:       propValue(ve, ical.ComponentPropertySummary),
		Description: propValue(ve, ical.ComponentPropertyDescription),
		Location:    propValue(ve, ical.ComponentPropertyLocation),
		Color:       propValue(ve, ical.ComponentProperty("COLOR")),
		Type:        typeFromCategories(ve),
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return d, errors.New("missing DTSTART")
	}

	if isAllDay(dtStart) {
		date, err := time.ParseInLocation("20060102", strings.TrimSpace(dtStart.Value), loc)
		if err != nil {
			return d, fmt.Errorf("DTSTART: %w", err)
		}
		d.Date = date
		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			if end, err := time.ParseInLocation("20060102", strings.TrimSpace(dtEnd.Value), loc); err == nil {
				last := end.AddDate(0, 0, -1)
				if model.DayKey(last) > model.DayKey(date) {
					d.EndDate = last
				}
			}
		}
	} else {
		start, err := eventTime(dtStart, loc, ve.GetStartAt)
		if err != nil {
			return d, fmt.Errorf("DTSTART: %w", err)
		}
		d.Date = model.StartOfDay(start)
		d.StartTime = start.Format("15:04")

		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil && dtEnd.Value != "" {
			if end, err := eventTime(dtEnd, loc, ve.GetEndAt); err == nil {
				d.EndTime = end.Format("15:04")
				if !model.SameDay(end, start) {
					d.EndDate = model.StartOfDay(end)
				}
			}
		}
	}

	if rule := propValue(ve, ical.ComponentPropertyRrule); rule != "" {
		if _, err := rrule.StrToRRule(rule); err != nil {
			appLog.Warn("ignoring unparseable RRULE", "title", d.Title, "rrule", rule, "err", err)
		} else {
			d.Recurring = true
		}
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyAttendee) {
		if a := stripMailto(p.Value); a != "" {
			d.Attendees = append(d.Attendees, a)
		}
	}

	return d, nil
}

// eventTime reads a DATE-TIME property in loc. Floating times (no TZID, no
// trailing Z) are wall-clock times in loc; zoned ones go through the
// library and are converted.
func eventTime(p *ical.IANAProperty, loc *time.Location, zoned func() (time.Time, error)) (time.Time, error) {
	v := strings.TrimSpace(p.Value)
	if _, ok := p.ICalParameters["TZID"]; !ok && !strings.HasSuffix(v, "Z") {
		return time.ParseInLocation("20060102T150405", v, loc)
	}
	t, err := zoned()
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

func isAllDay(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func typeFromCategories(ve *ical.VEvent) model.EventType {
	for _, p := range ve.GetProperties(ical.ComponentPropertyCategories) {
		for _, c := range strings.Split(p.Value, ",") {
			if t, ok := model.ParseEventType(strings.ToLower(strings.TrimSpace(c))); ok {
				return t
			}
		}
	}
	return defaultICSType
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return strings.TrimSpace(p.Value)
	}
	return ""
}

func stripMailto(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 7 && strings.EqualFold(v[:7], "mailto:") {
		v = v[7:]
	}
	return v
}
