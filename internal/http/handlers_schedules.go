package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"contabilita/internal/auth"
	"contabilita/internal/core"
)

type scheduleDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Recurrence  string          `json:"recurrence"`
	StartDate   string          `json:"startDate"`
	EndDate     *string         `json:"endDate"`
	NextDueDate string          `json:"nextDueDate"`
	IsActive    bool            `json:"isActive"`
	CategoryID  int64           `json:"categoryId"`
	IsDueToday  bool            `json:"isDueToday"`
}

type scheduleRequest struct {
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Recurrence  string          `json:"recurrence"`
	StartDate   string          `json:"startDate"`
	EndDate     *string         `json:"endDate"`
	CategoryID  int64           `json:"categoryId"`
	IsActive    *bool           `json:"isActive"`
}

func toScheduleDTO(se core.ScheduledExpense, now time.Time) scheduleDTO {
	return scheduleDTO{
		ID:          se.ID,
		Name:        se.Name,
		Amount:      se.Amount,
		Description: se.Description,
		Recurrence:  string(se.Recurrence),
		StartDate:   fmtDate(se.StartDate),
		EndDate:     fmtDatePtr(se.EndDate),
		NextDueDate: fmtDate(se.NextDueDate),
		IsActive:    se.IsActive,
		CategoryID:  se.CategoryID,
		IsDueToday:  se.IsDueOn(now),
	}
}

func (req scheduleRequest) toCore(userID int64) (core.ScheduledExpense, error) {
	start, err := parseDateParam(req.StartDate)
	if err != nil {
		return core.ScheduledExpense{}, err
	}
	se := core.ScheduledExpense{
		Name:        sanitizeInput(req.Name),
		Amount:      req.Amount.Round(2),
		Description: sanitizeInput(req.Description),
		Recurrence:  core.Recurrence(req.Recurrence),
		StartDate:   start,
		NextDueDate: start,
		IsActive:    true,
		CategoryID:  req.CategoryID,
		UserID:      userID,
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, err := parseDateParam(*req.EndDate)
		if err != nil {
			return core.ScheduledExpense{}, err
		}
		se.EndDate = &end
	}
	if req.IsActive != nil {
		se.IsActive = *req.IsActive
	}
	return se, nil
}

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	schedules, err := s.store.ListSchedules(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	now := time.Now()
	out := make([]scheduleDTO, 0, len(schedules))
	for _, se := range schedules {
		out = append(out, toScheduleDTO(se, now))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleDueSchedules lists the caller's schedules waiting to be
// confirmed or skipped today.
func (s *Server) handleDueSchedules(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	schedules, err := s.store.ListSchedules(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	now := time.Now()
	out := make([]scheduleDTO, 0)
	for _, se := range schedules {
		if se.IsDueOn(now) {
			out = append(out, toScheduleDTO(se, now))
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	se, err := req.toCore(userID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := se.Validate(); err != nil {
		respondDomainError(w, err)
		return
	}
	if _, err := s.store.GetCategory(r.Context(), userID, se.CategoryID); err != nil {
		respondDomainError(w, err)
		return
	}

	created, err := s.store.CreateSchedule(r.Context(), se)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toScheduleDTO(created, time.Now()))
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	se, err := s.store.GetSchedule(r.Context(), userID, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toScheduleDTO(se, time.Now()))
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	current, err := s.store.GetSchedule(r.Context(), userID, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	se, err := req.toCore(userID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	se.ID = id
	// Editing a schedule must not rewind its progress.
	se.NextDueDate = current.NextDueDate
	if req.IsActive == nil {
		se.IsActive = current.IsActive
	}
	if err := se.Validate(); err != nil {
		respondDomainError(w, err)
		return
	}

	if err := s.store.UpdateSchedule(r.Context(), se); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toScheduleDTO(se, time.Now()))
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteSchedule(r.Context(), userID, id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleConfirmSchedule(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		ActualAmount *decimal.Decimal `json:"actualAmount"`
		Notes        string           `json:"notes"`
	}
	// An empty body means confirm with the scheduled amount.
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	tx, se, err := s.schedules.Confirm(r.Context(), userID, id, req.ActualAmount, sanitizeInput(req.Notes), time.Now())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"transaction": toTransactionDTO(tx),
		"schedule":    toScheduleDTO(se, time.Now()),
	})
}

func (s *Server) handleSkipSchedule(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	se, err := s.schedules.Skip(r.Context(), userID, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toScheduleDTO(se, time.Now()))
}
