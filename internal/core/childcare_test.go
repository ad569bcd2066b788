package core

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	monday := date(2025, 3, 10)

	tests := []struct {
		name string
		t    time.Time
		want time.Time
	}{
		{"monday maps to itself", monday, monday},
		{"wednesday", date(2025, 3, 12), monday},
		{"sunday belongs to the same week", date(2025, 3, 16), monday},
		{"next monday starts a new week", date(2025, 3, 17), date(2025, 3, 17)},
		{"time of day dropped", time.Date(2025, 3, 12, 18, 30, 0, 0, time.UTC), monday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.t); !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestChildcareSlotValidate(t *testing.T) {
	valid := ChildcareSlot{
		WeekStart:   date(2025, 3, 10),
		Day:         Wednesday,
		Slot:        SlotAfternoon,
		CaregiverID: 4,
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*ChildcareSlot)
	}{
		{"weekday zero", func(s *ChildcareSlot) { s.Day = 0 }},
		{"weekday eight", func(s *ChildcareSlot) { s.Day = 8 }},
		{"bad slot", func(s *ChildcareSlot) { s.Slot = "night" }},
		{"zero week start", func(s *ChildcareSlot) { s.WeekStart = time.Time{} }},
		{"missing caregiver", func(s *ChildcareSlot) { s.CaregiverID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("Validate() accepted invalid slot")
			}
		})
	}
}
