package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"facultycal/internal/editor"
	"facultycal/internal/filter"
	appLog "facultycal/internal/log"
	"facultycal/internal/model"
	"facultycal/internal/nav"
	"facultycal/internal/view"
)

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// respondError maps editor errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var ve *editor.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case editor.IsNotFound(err):
		writeError(c, http.StatusNotFound, err.Error())
	case editor.IsValidation(err):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		appLog.Error("api request failed", err, "path", c.Request.URL.Path)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": toEventDTOs(s.session.Events())})
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var body eventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	d, err := body.draft(s.session.Location())
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	ev, err := s.session.CreateEvent(d)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEventDTO(ev))
}

func (s *Server) handleUpdateEvent(c *gin.Context) {
	var body patchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	p, err := body.patch(s.session.Location())
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	ev, err := s.session.UpdateEvent(c.Param("id"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventDTO(ev))
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	if err := s.session.DeleteEvent(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleView renders the active view. Optional ?view= and ?date= render a
// different view/anchor without moving the navigation state.
func (s *Server) handleView(c *gin.Context) {
	qView, qDate := c.Query("view"), c.Query("date")
	if qView == "" && qDate == "" {
		c.JSON(http.StatusOK, toViewResponse(s.session.Render()))
		return
	}

	mode, anchor := s.session.State()
	if qView != "" {
		m, err := view.ParseMode(qView)
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}
	if qDate != "" {
		d, err := model.ParseDate(qDate, s.session.Location())
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		anchor = d
	}
	c.JSON(http.StatusOK, toViewResponse(s.session.RenderAt(mode, anchor)))
}

func (s *Server) handleGetFilter(c *gin.Context) {
	c.JSON(http.StatusOK, toFilterDTO(s.session.Filter()))
}

func (s *Server) handleSetFilter(c *gin.Context) {
	var body filterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	types := make([]model.EventType, 0, len(body.Types))
	for _, raw := range body.Types {
		t, ok := model.ParseEventType(raw)
		if !ok {
			writeError(c, http.StatusBadRequest, "unknown event type: "+raw)
			return
		}
		types = append(types, t)
	}

	s.session.SetFilter(filter.NewCriteria(types, body.IncludeRecurring))
	c.JSON(http.StatusOK, toFilterDTO(s.session.Filter()))
}

func (s *Server) handleUpcoming(c *gin.Context) {
	limit := s.cfg.UpcomingLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, gin.H{"events": toEventDTOs(s.session.UpcomingEvents(limit))})
}

func (s *Server) handleNavView(c *gin.Context) {
	var body struct {
		View string `json:"view"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	m, err := view.ParseMode(body.View)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.session.SetView(m); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	s.respondView(c)
}

func (s *Server) handleNavShift(c *gin.Context) {
	var body struct {
		Direction string `json:"direction"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	dir, err := nav.ParseDirection(body.Direction)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	s.session.ShiftPeriod(dir)
	s.respondView(c)
}

func (s *Server) handleNavToday(c *gin.Context) {
	s.session.GoToToday()
	s.respondView(c)
}

func (s *Server) handleNavDate(c *gin.Context) {
	var body struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	d, err := model.ParseDate(body.Date, s.session.Location())
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	s.session.SelectDate(d)
	s.respondView(c)
}

func (s *Server) handleNavMonth(c *gin.Context) {
	var body struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if err := s.session.SelectMonth(body.Year, time.Month(body.Month)); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	s.respondView(c)
}

func (s *Server) respondView(c *gin.Context) {
	c.JSON(http.StatusOK, toViewResponse(s.session.Render()))
}
