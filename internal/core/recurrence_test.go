package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceDueDate(t *testing.T) {
	tests := []struct {
		name       string
		current    time.Time
		recurrence Recurrence
		want       time.Time
	}{
		{"daily", date(2025, 3, 10), Daily, date(2025, 3, 11)},
		{"daily end of month", date(2025, 1, 31), Daily, date(2025, 2, 1)},
		{"weekly", date(2025, 3, 10), Weekly, date(2025, 3, 17)},
		{"weekly across month", date(2025, 3, 28), Weekly, date(2025, 4, 4)},
		{"monthly", date(2025, 3, 15), Monthly, date(2025, 4, 15)},
		{"monthly clamps to february", date(2025, 1, 31), Monthly, date(2025, 2, 28)},
		{"monthly clamps to leap february", date(2024, 1, 31), Monthly, date(2024, 2, 29)},
		{"monthly clamps to short month", date(2025, 3, 31), Monthly, date(2025, 4, 30)},
		{"monthly december wraps year", date(2025, 12, 31), Monthly, date(2026, 1, 31)},
		{"yearly", date(2025, 6, 1), Yearly, date(2026, 6, 1)},
		{"yearly clamps leap day", date(2024, 2, 29), Yearly, date(2025, 2, 28)},
		{"unknown recurrence advances monthly", date(2025, 5, 10), Recurrence("fortnightly"), date(2025, 6, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdvanceDueDate(tt.current, tt.recurrence)
			if !got.Equal(tt.want) {
				t.Errorf("AdvanceDueDate(%v, %s) = %v, want %v", tt.current, tt.recurrence, got, tt.want)
			}
		})
	}
}

func TestAdvanceDueDateNeverClampsPermanently(t *testing.T) {
	// A schedule anchored on the 31st lands on Feb 28 but the chain keeps
	// moving forward month by month rather than getting stuck.
	d := date(2025, 1, 31)
	d = AdvanceDueDate(d, Monthly) // Feb 28
	d = AdvanceDueDate(d, Monthly) // Mar 28
	if !d.Equal(date(2025, 3, 28)) {
		t.Errorf("second advance = %v, want 2025-03-28", d)
	}
}

func TestIsDueOn(t *testing.T) {
	today := date(2025, 3, 15)

	tests := []struct {
		name     string
		nextDue  time.Time
		isActive bool
		want     bool
	}{
		{"due today", today, true, true},
		{"overdue", date(2025, 3, 1), true, true},
		{"due tomorrow", date(2025, 3, 16), true, false},
		{"inactive never due", today, false, false},
		{"time of day ignored", today.Add(23 * time.Hour), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := ScheduledExpense{NextDueDate: tt.nextDue, IsActive: tt.isActive}
			if got := se.IsDueOn(today); got != tt.want {
				t.Errorf("IsDueOn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthlyEquivalent(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		recurrence Recurrence
		want       string
	}{
		{"daily times thirty", "3", Daily, "90"},
		{"weekly times four", "25", Weekly, "100"},
		{"monthly as is", "500", Monthly, "500"},
		{"yearly divided by twelve", "120", Yearly, "10"},
		{"yearly rounds once", "100", Yearly, "8.33"},
		{"yearly rounds half away from zero", "250", Yearly, "20.83"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := ScheduledExpense{Amount: dec(tt.amount), Recurrence: tt.recurrence}
			if got := se.MonthlyEquivalent(); !got.Equal(dec(tt.want)) {
				t.Errorf("MonthlyEquivalent() = %s, want %s", got, tt.want)
			}
		})
	}
}

func activeSchedule() ScheduledExpense {
	end := date(2025, 12, 31)
	return ScheduledExpense{
		ID:          7,
		Name:        "Affitto",
		Amount:      dec("850"),
		Recurrence:  Monthly,
		StartDate:   date(2025, 1, 1),
		EndDate:     &end,
		NextDueDate: date(2025, 3, 1),
		IsActive:    true,
		CategoryID:  2,
		UserID:      1,
	}
}

func TestConfirm(t *testing.T) {
	today := date(2025, 3, 1)

	t.Run("creates linked transaction and advances", func(t *testing.T) {
		se := activeSchedule()
		conf, err := se.Confirm(today, nil, "")
		if err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}

		tx := conf.Transaction
		if !tx.Amount.Equal(se.Amount) {
			t.Errorf("transaction amount = %s, want %s", tx.Amount, se.Amount)
		}
		if tx.Description != se.Name {
			t.Errorf("transaction description = %q, want %q", tx.Description, se.Name)
		}
		if tx.Type != Expense {
			t.Errorf("transaction type = %s, want expense", tx.Type)
		}
		if !tx.Date.Equal(today) {
			t.Errorf("transaction date = %v, want %v", tx.Date, today)
		}
		if tx.Notes != "Spesa programmata confermata: Affitto" {
			t.Errorf("default notes = %q", tx.Notes)
		}
		if tx.ScheduledExpenseID == nil || *tx.ScheduledExpenseID != se.ID {
			t.Errorf("transaction not linked to schedule: %v", tx.ScheduledExpenseID)
		}
		if tx.CategoryID != se.CategoryID || tx.UserID != se.UserID {
			t.Errorf("category/user not carried over: %d/%d", tx.CategoryID, tx.UserID)
		}

		if !conf.Schedule.NextDueDate.Equal(date(2025, 4, 1)) {
			t.Errorf("next due date = %v, want 2025-04-01", conf.Schedule.NextDueDate)
		}
		if !conf.Schedule.IsActive {
			t.Error("schedule deactivated before its end date")
		}
	})

	t.Run("actual amount overrides estimate", func(t *testing.T) {
		se := activeSchedule()
		actual := dec("867.42")
		conf, err := se.Confirm(today, &actual, "bolletta piu alta")
		if err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if !conf.Transaction.Amount.Equal(actual) {
			t.Errorf("transaction amount = %s, want %s", conf.Transaction.Amount, actual)
		}
		if conf.Transaction.Notes != "bolletta piu alta" {
			t.Errorf("notes = %q, custom notes not kept", conf.Transaction.Notes)
		}
	})

	t.Run("deactivates past end date", func(t *testing.T) {
		se := activeSchedule()
		se.NextDueDate = date(2025, 12, 15)
		conf, err := se.Confirm(date(2025, 12, 15), nil, "")
		if err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if conf.Schedule.IsActive {
			t.Error("schedule still active after advancing past end date")
		}
		if !conf.Schedule.NextDueDate.Equal(date(2026, 1, 15)) {
			t.Errorf("next due date = %v, want 2026-01-15", conf.Schedule.NextDueDate)
		}
	})

	t.Run("rejects inactive schedule", func(t *testing.T) {
		se := activeSchedule()
		se.IsActive = false
		if _, err := se.Confirm(today, nil, ""); !errors.Is(err, ErrInactiveSchedule) {
			t.Errorf("Confirm() error = %v, want ErrInactiveSchedule", err)
		}
	})
}

func TestSkip(t *testing.T) {
	t.Run("advances without transaction", func(t *testing.T) {
		se := activeSchedule()
		got := se.Skip()
		if !got.NextDueDate.Equal(date(2025, 4, 1)) {
			t.Errorf("next due date = %v, want 2025-04-01", got.NextDueDate)
		}
		if !got.IsActive {
			t.Error("schedule deactivated before its end date")
		}
	})

	t.Run("works on inactive schedule", func(t *testing.T) {
		// Skipping is allowed even when the schedule is no longer
		// active, so a lapsed schedule can be stepped forward.
		se := activeSchedule()
		se.IsActive = false
		got := se.Skip()
		if !got.NextDueDate.Equal(date(2025, 4, 1)) {
			t.Errorf("next due date = %v, want 2025-04-01", got.NextDueDate)
		}
	})

	t.Run("deactivates past end date", func(t *testing.T) {
		se := activeSchedule()
		se.NextDueDate = date(2025, 12, 20)
		got := se.Skip()
		if got.IsActive {
			t.Error("schedule still active after advancing past end date")
		}
	})
}
