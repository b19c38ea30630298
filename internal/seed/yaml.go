package seed

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"facultycal/internal/model"
)

// yamlFile is the on-disk shape of a YAML seed file:
//
//	events:
//	  - title: Data Structures
//	    date: 2025-05-20
//	    start_time: "09:00"
//	    type: class
type yamlFile struct {
	Events []yamlEvent `yaml:"events"`
}

type yamlEvent struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	EndDate     string   `yaml:"end_date"`
	StartTime   string   `yaml:"start_time"`
	EndTime     string   `yaml:"end_time"`
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Location    string   `yaml:"location"`
	Recurring   bool     `yaml:"recurring"`
	Color       string   `yaml:"color"`
	Attendees   []string `yaml:"attendees"`
}

// ParseYAML decodes a YAML seed document into drafts. Dates are read as
// calendar dates in loc. Field validation is left to the editor; only
// unparseable dates fail here.
func ParseYAML(r io.Reader, loc *time.Location) ([]model.Draft, error) {
	var f yamlFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return []model.Draft{}, nil
		}
		return nil, fmt.Errorf("decode yaml seed: %w", err)
	}

	drafts := make([]model.Draft, 0, len(f.Events))
	for i, ye := range f.Events {
		d, err := ye.draft(loc)
		if err != nil {
			return nil, fmt.Errorf("event %d (%q): %w", i, ye.Title, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func (ye yamlEvent) draft(loc *time.Location) (model.Draft, error) {
	d := model.Draft{
		Title:       ye.Title,
		StartTime:   strings.TrimSpace(ye.StartTime),
		EndTime:     strings.TrimSpace(ye.EndTime),
		Type:        model.EventType(strings.ToLower(strings.TrimSpace(ye.Type))),
		Description: ye.Description,
		Location:    ye.Location,
		Recurring:   ye.Recurring,
		Color:       ye.Color,
		Attendees:   ye.Attendees,
	}

	// A missing date is reported by the editor as a validation error.
	if ye.Date != "" {
		date, err := model.ParseDate(ye.Date, loc)
		if err != nil {
			return d, err
		}
		d.Date = date
	}
	if ye.EndDate != "" {
		end, err := model.ParseDate(ye.EndDate, loc)
		if err != nil {
			return d, err
		}
		d.EndDate = end
	}
	return d, nil
}
