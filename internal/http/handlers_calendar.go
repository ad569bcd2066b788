package http

import (
	"net/http"
	"strings"
	"time"

	"contabilita/internal/auth"
	"contabilita/internal/core"
)

type eventDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	AllDay      bool    `json:"allDay"`
	Color       string  `json:"color"`
}

func toEventDTO(e core.CalendarEvent) eventDTO {
	return eventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   fmtDate(e.StartDate),
		EndDate:     fmtDatePtr(e.EndDate),
		AllDay:      e.AllDay,
		Color:       e.Color,
	}
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var from, to *time.Time
	if v := strings.TrimSpace(r.URL.Query().Get("startDate")); v != "" {
		d, err := parseDateParam(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		from = &d
	}
	if v := strings.TrimSpace(r.URL.Query().Get("endDate")); v != "" {
		d, err := parseDateParam(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		to = &d
	}

	events, err := s.store.ListEvents(r.Context(), userID, from, to)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out := make([]eventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, toEventDTO(e))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		StartDate   string  `json:"startDate"`
		EndDate     *string `json:"endDate"`
		AllDay      bool    `json:"allDay"`
		Color       string  `json:"color"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	start, err := parseDateParam(req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	event := core.CalendarEvent{
		Title:       sanitizeInput(req.Title),
		Description: sanitizeInput(req.Description),
		StartDate:   start,
		AllDay:      req.AllDay,
		Color:       sanitizeInput(req.Color),
		UserID:      userID,
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, err := parseDateParam(*req.EndDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		event.EndDate = &end
	}
	if err := event.Validate(); err != nil {
		respondDomainError(w, err)
		return
	}

	created, err := s.store.CreateEvent(r.Context(), event)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toEventDTO(created))
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	event, err := s.store.GetEvent(r.Context(), userID, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toEventDTO(event))
}

// handleUpdateEvent applies a partial update: only the fields present
// in the body change, everything else keeps its stored value.
func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := s.store.GetEvent(r.Context(), userID, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		StartDate   *string `json:"startDate"`
		EndDate     *string `json:"endDate"`
		AllDay      *bool   `json:"allDay"`
		Color       *string `json:"color"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Title != nil {
		event.Title = sanitizeInput(*req.Title)
	}
	if req.Description != nil {
		event.Description = sanitizeInput(*req.Description)
	}
	if req.StartDate != nil {
		start, err := parseDateParam(*req.StartDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		event.StartDate = start
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			event.EndDate = nil
		} else {
			end, err := parseDateParam(*req.EndDate)
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			event.EndDate = &end
		}
	}
	if req.AllDay != nil {
		event.AllDay = *req.AllDay
	}
	if req.Color != nil {
		event.Color = sanitizeInput(*req.Color)
	}

	if err := event.Validate(); err != nil {
		respondDomainError(w, err)
		return
	}
	if err := s.store.UpdateEvent(r.Context(), event); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toEventDTO(event))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteEvent(r.Context(), userID, id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
