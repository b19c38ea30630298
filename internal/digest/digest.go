// Package digest periodically logs the upcoming events on a cron schedule.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "facultycal/internal/log"
	"facultycal/internal/model"
	"facultycal/internal/query"
)

// Source supplies the upcoming events; *calendar.Session satisfies it.
type Source interface {
	UpcomingEvents(limit int) []model.Event
}

// Digest runs a cron job that writes the next few events to the log.
type Digest struct {
	src   Source
	spec  string
	limit int
	cron  *cron.Cron
}

// New validates spec (standard 5-field cron) and prepares a scheduler in loc.
// A non-positive limit uses the default upcoming limit.
func New(src Source, spec string, loc *time.Location, limit int) (*Digest, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("digest schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.Local
	}
	if limit <= 0 {
		limit = query.DefaultUpcomingLimit
	}

	d := &Digest{
		src:   src,
		spec:  spec,
		limit: limit,
		cron:  cron.New(cron.WithLocation(loc)),
	}
	if _, err := d.cron.AddFunc(spec, func() { d.RunOnce() }); err != nil {
		return nil, err
	}
	return d, nil
}

// Start begins the schedule in the background.
func (d *Digest) Start() {
	appLog.Info("digest scheduled", "spec", d.spec, "limit", d.limit)
	d.cron.Start()
}

// Stop halts the schedule and waits for a running job, or ctx, to finish.
func (d *Digest) Stop(ctx context.Context) {
	done := d.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		appLog.Warn("digest stop timed out", "err", ctx.Err())
	}
}

// RunOnce logs the current digest and returns the lines it wrote.
func (d *Digest) RunOnce() []string {
	events := d.src.UpcomingEvents(d.limit)
	lines := Lines(events)
	if len(lines) == 0 {
		appLog.Info("digest: no upcoming events")
		return lines
	}
	for _, l := range lines {
		appLog.Info("digest", "event", l)
	}
	return lines
}

// Lines formats events as "YYYY-MM-DD [HH:MM ]title (type)".
func Lines(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		when := model.FormatDate(e.Date)
		if e.HasStartTime() {
			when += " " + e.StartTime
		}
		out = append(out, fmt.Sprintf("%s %s (%s)", when, e.Title, e.Type))
	}
	return out
}
