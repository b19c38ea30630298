// Package seed loads the initial event list from YAML or iCalendar files
// and from remote iCalendar feeds.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	appLog "facultycal/internal/log"
	"facultycal/internal/model"
)

// Creator commits one draft; *calendar.Session satisfies it.
type Creator interface {
	CreateEvent(d model.Draft) (model.Event, error)
}

// LoadFile parses path according to its extension (.yaml, .yml or .ics).
func LoadFile(path string, loc *time.Location) ([]model.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f, loc)
	case ".ics", ".ical":
		return ParseICS(f, loc)
	default:
		return nil, fmt.Errorf("seed %s: unsupported file type", path)
	}
}

// Load reads every source in order and concatenates the drafts. Sources
// are local paths or http(s) iCalendar URLs. A failing local file aborts
// the load; an unreachable feed with no cached copy is logged and skipped.
func Load(ctx context.Context, sources []string, loc *time.Location, fetcher *Fetcher) ([]model.Draft, error) {
	all := make([]model.Draft, 0)
	for _, src := range sources {
		if IsRemote(src) {
			if fetcher == nil {
				fetcher = NewFetcher("")
			}
			drafts, err := loadRemote(ctx, fetcher, src, loc)
			if err != nil {
				appLog.Error("remote seed skipped", err, "url", redactURL(src))
				continue
			}
			appLog.Info("seed feed loaded", "url", redactURL(src), "event_count", len(drafts))
			all = append(all, drafts...)
			continue
		}

		drafts, err := LoadFile(src, loc)
		if err != nil {
			return nil, fmt.Errorf("load seed %s: %w", src, err)
		}
		appLog.Info("seed file loaded", "path", src, "event_count", len(drafts))
		all = append(all, drafts...)
	}
	return all, nil
}

func loadRemote(ctx context.Context, f *Fetcher, src string, loc *time.Location) ([]model.Draft, error) {
	body, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return ParseICS(bytes.NewReader(body), loc)
}

// Apply commits each draft through c. Drafts the editor rejects are logged
// and skipped; the count of committed events is returned.
func Apply(c Creator, drafts []model.Draft) (created, skipped int) {
	for _, d := range drafts {
		if _, err := c.CreateEvent(d); err != nil {
			appLog.Warn("seed event skipped", "title", d.Title, "err", err)
			skipped++
			continue
		}
		created++
	}
	return created, skipped
}
