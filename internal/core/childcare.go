package core

import (
	"errors"
	"time"
)

// Weekdays are Monday-first, matching how the weekly grid is displayed.
const (
	Monday    Weekday = 1
	Tuesday   Weekday = 2
	Wednesday Weekday = 3
	Thursday  Weekday = 4
	Friday    Weekday = 5
	Saturday  Weekday = 6
	Sunday    Weekday = 7
)

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

type (
	Weekday int

	TimeSlot string

	// ChildcareSlot assigns a caregiver to one cell of the weekly
	// childcare grid. Slots are anchored to a concrete week start date
	// so past weeks stay consultable.
	ChildcareSlot struct {
		ID          int64
		WeekStart   time.Time
		Day         Weekday
		Slot        TimeSlot
		CaregiverID int64
		UserID      int64
	}
)

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (t TimeSlot) Valid() bool {
	switch t {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return true
	}
	return false
}

func (s ChildcareSlot) Validate() error {
	if !s.Day.Valid() {
		return errors.New("invalid weekday")
	}
	if !s.Slot.Valid() {
		return errors.New("invalid time slot")
	}
	if s.WeekStart.IsZero() {
		return errors.New("week start cannot be zero")
	}
	if s.CaregiverID <= 0 {
		return errors.New("caregiver is required")
	}
	return nil
}

// WeekStart normalizes t to the Monday of its week, date-only.
func WeekStart(t time.Time) time.Time {
	d := DateOnly(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}
