package web

import (
	"time"

	"facultycal/internal/filter"
	"facultycal/internal/model"
	"facultycal/internal/view"
)

// eventDTO is the JSON shape of a stored event. Dates are YYYY-MM-DD.
type eventDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	EndDate     string   `json:"end_date,omitempty"`
	StartTime   string   `json:"start_time,omitempty"`
	EndTime     string   `json:"end_time,omitempty"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Recurring   bool     `json:"recurring"`
	Color       string   `json:"color,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
}

// eventRequest is the body of POST /api/events.
type eventRequest struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	EndDate     string   `json:"end_date"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Recurring   bool     `json:"recurring"`
	Color       string   `json:"color"`
	Attendees   []string `json:"attendees"`
}

// patchRequest is the body of PATCH /api/events/:id. Absent fields are
// left untouched; an empty end_date clears it.
type patchRequest struct {
	Title       *string   `json:"title"`
	Date        *string   `json:"date"`
	EndDate     *string   `json:"end_date"`
	StartTime   *string   `json:"start_time"`
	EndTime     *string   `json:"end_time"`
	Type        *string   `json:"type"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Recurring   *bool     `json:"recurring"`
	Color       *string   `json:"color"`
	Attendees   *[]string `json:"attendees"`
}

type filterDTO struct {
	Types            []string `json:"types"`
	IncludeRecurring bool     `json:"include_recurring"`
}

type markerDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Color     string `json:"color,omitempty"`
	StartTime string `json:"start_time,omitempty"`
}

type monthCellDTO struct {
	Date          string      `json:"date"`
	Day           int         `json:"day"`
	Markers       []markerDTO `json:"markers"`
	OverflowCount int         `json:"overflow_count"`
	Today         bool        `json:"today"`
}

type monthDTO struct {
	Year          int            `json:"year"`
	Month         int            `json:"month"`
	LeadingBlanks int            `json:"leading_blanks"`
	Cells         []monthCellDTO `json:"cells"`
}

type dayCellDTO struct {
	Date   string     `json:"date"`
	Events []eventDTO `json:"events"`
	Today  bool       `json:"today"`
}

type weekDTO struct {
	Start string       `json:"start"`
	End   string       `json:"end"`
	Days  []dayCellDTO `json:"days"`
}

type dayDTO struct {
	Date   string     `json:"date"`
	Events []eventDTO `json:"events"`
}

type listGroupDTO struct {
	Date   string     `json:"date"`
	Events []eventDTO `json:"events"`
}

type listDTO struct {
	Year   int            `json:"year"`
	Month  int            `json:"month"`
	Groups []listGroupDTO `json:"groups"`
}

// viewResponse is the render model for the active view. Exactly one of
// the layout fields is present.
type viewResponse struct {
	View   string    `json:"view"`
	Anchor string    `json:"anchor"`
	Month  *monthDTO `json:"month,omitempty"`
	Week   *weekDTO  `json:"week,omitempty"`
	Day    *dayDTO   `json:"day,omitempty"`
	List   *listDTO  `json:"list,omitempty"`
}

func toEventDTO(e model.Event) eventDTO {
	return eventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Date:        model.FormatDate(e.Date),
		EndDate:     model.FormatDate(e.EndDate),
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Type:        string(e.Type),
		Description: e.Description,
		Location:    e.Location,
		Recurring:   e.Recurring,
		Color:       e.Color,
		Attendees:   e.Attendees,
	}
}

func toEventDTOs(events []model.Event) []eventDTO {
	out := make([]eventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, toEventDTO(e))
	}
	return out
}

func (r eventRequest) draft(loc *time.Location) (model.Draft, error) {
	d := model.Draft{
		Title:       r.Title,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Type:        model.EventType(r.Type),
		Description: r.Description,
		Location:    r.Location,
		Recurring:   r.Recurring,
		Color:       r.Color,
		Attendees:   r.Attendees,
	}
	var err error
	if r.Date != "" {
		if d.Date, err = model.ParseDate(r.Date, loc); err != nil {
			return d, err
		}
	}
	if r.EndDate != "" {
		if d.EndDate, err = model.ParseDate(r.EndDate, loc); err != nil {
			return d, err
		}
	}
	return d, nil
}

func (r patchRequest) patch(loc *time.Location) (model.Patch, error) {
	p := model.Patch{
		Title:       r.Title,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Description: r.Description,
		Location:    r.Location,
		Recurring:   r.Recurring,
		Color:       r.Color,
		Attendees:   r.Attendees,
	}
	if r.Type != nil {
		t := model.EventType(*r.Type)
		p.Type = &t
	}
	var err error
	if p.Date, err = optionalDate(r.Date, loc); err != nil {
		return p, err
	}
	if p.EndDate, err = optionalDate(r.EndDate, loc); err != nil {
		return p, err
	}
	return p, nil
}

// optionalDate maps nil to nil and "" to the zero time.
func optionalDate(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	var t time.Time
	if *s != "" {
		var err error
		if t, err = model.ParseDate(*s, loc); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func toFilterDTO(c filter.Criteria) filterDTO {
	types := c.TypeList()
	out := filterDTO{Types: make([]string, 0, len(types)), IncludeRecurring: c.IncludeRecurring}
	for _, t := range types {
		out.Types = append(out.Types, string(t))
	}
	return out
}

func toViewResponse(m view.Model) viewResponse {
	resp := viewResponse{View: string(m.Mode), Anchor: model.FormatDate(m.Anchor)}

	if mv := m.Month; mv != nil {
		cells := make([]monthCellDTO, 0, len(mv.Cells))
		for _, c := range mv.Cells {
			markers := make([]markerDTO, 0, len(c.Markers))
			for _, mk := range c.Markers {
				markers = append(markers, markerDTO{
					ID:        mk.ID,
					Title:     mk.Title,
					Type:      string(mk.Type),
					Color:     mk.Color,
					StartTime: mk.StartTime,
				})
			}
			cells = append(cells, monthCellDTO{
				Date:          model.FormatDate(c.Date),
				Day:           c.Day,
				Markers:       markers,
				OverflowCount: c.OverflowCount,
				Today:         c.Today,
			})
		}
		resp.Month = &monthDTO{Year: mv.Year, Month: int(mv.Month), LeadingBlanks: mv.LeadingBlanks, Cells: cells}
	}

	if wv := m.Week; wv != nil {
		days := make([]dayCellDTO, 0, len(wv.Days))
		for _, d := range wv.Days {
			days = append(days, dayCellDTO{Date: model.FormatDate(d.Date), Events: toEventDTOs(d.Events), Today: d.Today})
		}
		resp.Week = &weekDTO{Start: model.FormatDate(wv.Start), End: model.FormatDate(wv.End), Days: days}
	}

	if dv := m.Day; dv != nil {
		resp.Day = &dayDTO{Date: model.FormatDate(dv.Date), Events: toEventDTOs(dv.Events)}
	}

	if lv := m.List; lv != nil {
		groups := make([]listGroupDTO, 0, len(lv.Groups))
		for _, g := range lv.Groups {
			groups = append(groups, listGroupDTO{Date: model.FormatDate(g.Date), Events: toEventDTOs(g.Events)})
		}
		resp.List = &listDTO{Year: lv.Year, Month: int(lv.Month), Groups: groups}
	}

	return resp
}
