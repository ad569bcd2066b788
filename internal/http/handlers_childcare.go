package http

import (
	"net/http"
	"strings"
	"time"

	"contabilita/internal/auth"
	"contabilita/internal/core"
)

type caregiverDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Color        string `json:"color"`
	Phone        string `json:"phone"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     bool   `json:"isActive"`
}

type caregiverRequest struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Color        string `json:"color"`
	Phone        string `json:"phone"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     *bool  `json:"isActive"`
}

func toCaregiverDTO(c core.Caregiver) caregiverDTO {
	return caregiverDTO{
		ID:           c.ID,
		Name:         c.Name,
		Relationship: c.Relationship,
		Color:        c.Color,
		Phone:        c.Phone,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
	}
}

func (req caregiverRequest) toCore(userID int64) core.Caregiver {
	c := core.Caregiver{
		Name:         sanitizeInput(req.Name),
		Relationship: sanitizeInput(req.Relationship),
		Color:        sanitizeInput(req.Color),
		Phone:        sanitizeInput(req.Phone),
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
		UserID:       userID,
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	return c
}

func (s *Server) handleListCaregivers(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	activeOnly := strings.EqualFold(r.URL.Query().Get("activeOnly"), "true")

	caregivers, err := s.store.ListCaregivers(r.Context(), userID, activeOnly)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out := make([]caregiverDTO, 0, len(caregivers))
	for _, c := range caregivers {
		out = append(out, toCaregiverDTO(c))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCaregiver(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req caregiverRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	caregiver := req.toCore(userID)
	if err := caregiver.Validate(); err != nil {
		respondDomainError(w, err)
		return
	}

	created, err := s.store.CreateCaregiver(r.Context(), caregiver)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCaregiverDTO(created))
}

func (s *Server) handleGetCaregiver(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	caregiver, err := s.store.GetCaregiver(r.Context(), userID, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCaregiverDTO(caregiver))
}

// handleUpdateCaregiver applies a partial update like the calendar
// events endpoint does.
func (s *Server) handleUpdateCaregiver(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	caregiver, err := s.store.GetCaregiver(r.Context(), userID, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req struct {
		Name         *string `json:"name"`
		Relationship *string `json:"relationship"`
		Color        *string `json:"color"`
		Phone        *string `json:"phone"`
		DisplayOrder *int    `json:"displayOrder"`
		IsActive     *bool   `json:"isActive"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Name != nil {
		caregiver.Name = sanitizeInput(*req.Name)
	}
	if req.Relationship != nil {
		caregiver.Relationship = sanitizeInput(*req.Relationship)
	}
	if req.Color != nil {
		caregiver.Color = sanitizeInput(*req.Color)
	}
	if req.Phone != nil {
		caregiver.Phone = sanitizeInput(*req.Phone)
	}
	if req.DisplayOrder != nil {
		caregiver.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		caregiver.IsActive = *req.IsActive
	}

	if err := caregiver.Validate(); err != nil {
		respondDomainError(w, err)
		return
	}
	if err := s.store.UpdateCaregiver(r.Context(), caregiver); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCaregiverDTO(caregiver))
}

func (s *Server) handleDeleteCaregiver(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteCaregiver(r.Context(), userID, id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type weekSlotDTO struct {
	Day            int    `json:"day"`
	TimeSlot       string `json:"timeSlot"`
	CaregiverID    int64  `json:"caregiverId"`
	CaregiverName  string `json:"caregiverName"`
	CaregiverColor string `json:"caregiverColor"`
}

type weekDTO struct {
	WeekStart string        `json:"weekStart"`
	Slots     []weekSlotDTO `json:"slots"`
}

// handleChildcareWeek returns the grid for the week containing the
// weekStart query date (defaulting to the current week). Any date
// normalizes to its Monday.
func (s *Server) handleChildcareWeek(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	weekStart, err := parseWeekStart(r.URL.Query().Get("weekStart"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	slots, err := s.store.ListWeekSlots(r.Context(), userID, weekStart)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out := weekDTO{WeekStart: fmtDate(weekStart), Slots: make([]weekSlotDTO, 0, len(slots))}
	for _, slot := range slots {
		out.Slots = append(out.Slots, weekSlotDTO{
			Day:            int(slot.Day),
			TimeSlot:       string(slot.Slot),
			CaregiverID:    slot.CaregiverID,
			CaregiverName:  slot.CaregiverName,
			CaregiverColor: slot.CaregiverColor,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// handleChildcareSlot sets or clears one grid cell. A null caregiverId
// clears the cell.
func (s *Server) handleChildcareSlot(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req struct {
		WeekStart   string `json:"weekStart"`
		Day         int    `json:"day"`
		TimeSlot    string `json:"timeSlot"`
		CaregiverID *int64 `json:"caregiverId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	weekStart, err := parseWeekStart(req.WeekStart)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	day := core.Weekday(req.Day)
	slot := core.TimeSlot(req.TimeSlot)
	if !day.Valid() || !slot.Valid() {
		respondError(w, http.StatusBadRequest, "invalid day or time slot")
		return
	}

	if req.CaregiverID == nil {
		if err := s.store.DeleteSlot(r.Context(), userID, weekStart, day, slot); err != nil {
			respondDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if _, err := s.store.GetCaregiver(r.Context(), userID, *req.CaregiverID); err != nil {
		respondDomainError(w, err)
		return
	}
	cell := core.ChildcareSlot{
		WeekStart:   weekStart,
		Day:         day,
		Slot:        slot,
		CaregiverID: *req.CaregiverID,
		UserID:      userID,
	}
	if _, err := s.store.UpsertSlot(r.Context(), cell); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"weekStart":   fmtDate(weekStart),
		"day":         req.Day,
		"timeSlot":    req.TimeSlot,
		"caregiverId": *req.CaregiverID,
	})
}

// handleChildcareReplaceWeek swaps the whole week for the given
// assignments.
func (s *Server) handleChildcareReplaceWeek(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req struct {
		WeekStart string `json:"weekStart"`
		Slots     []struct {
			Day         int    `json:"day"`
			TimeSlot    string `json:"timeSlot"`
			CaregiverID int64  `json:"caregiverId"`
		} `json:"slots"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	weekStart, err := parseWeekStart(req.WeekStart)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	slots := make([]core.ChildcareSlot, 0, len(req.Slots))
	for _, in := range req.Slots {
		cell := core.ChildcareSlot{
			WeekStart:   weekStart,
			Day:         core.Weekday(in.Day),
			Slot:        core.TimeSlot(in.TimeSlot),
			CaregiverID: in.CaregiverID,
			UserID:      userID,
		}
		if err := cell.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		slots = append(slots, cell)
	}

	if err := s.store.ReplaceWeek(r.Context(), userID, weekStart, slots); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChildcareCopyWeek(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req struct {
		FromWeekStart string `json:"fromWeekStart"`
		ToWeekStart   string `json:"toWeekStart"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	from, err := parseWeekStart(req.FromWeekStart)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseWeekStart(req.ToWeekStart)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if from.Equal(to) {
		respondError(w, http.StatusBadRequest, "source and target week are the same")
		return
	}

	copied, err := s.store.CopyWeek(r.Context(), userID, from, to)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"copied": copied})
}

// parseWeekStart parses a date and snaps it to its Monday. Empty input
// means the current week.
func parseWeekStart(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return core.WeekStart(time.Now()), nil
	}
	d, err := parseDateParam(value)
	if err != nil {
		return time.Time{}, err
	}
	return core.WeekStart(d), nil
}
