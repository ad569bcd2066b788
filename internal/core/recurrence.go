package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceDueDate returns the next occurrence after d for the given
// recurrence. Monthly and yearly steps clamp to the last day of the
// target month, so a schedule anchored on the 31st lands on Feb 28/29
// instead of spilling into March. An unknown recurrence advances
// monthly.
func AdvanceDueDate(d time.Time, r Recurrence) time.Time {
	switch r {
	case Daily:
		return d.AddDate(0, 0, 1)
	case Weekly:
		return d.AddDate(0, 0, 7)
	case Yearly:
		return addMonthsClamped(d, 12)
	default:
		return addMonthsClamped(d, 1)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateOnly truncates t to midnight UTC, keeping only the calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsDueOn reports whether the schedule should be settled on the given
// day: the next due date has been reached (or passed) and the schedule
// is still active. Comparison is date-only.
func (se ScheduledExpense) IsDueOn(today time.Time) bool {
	if !se.IsActive {
		return false
	}
	return !DateOnly(se.NextDueDate).After(DateOnly(today))
}

// MonthlyEquivalent normalizes the schedule's amount to a monthly cost:
// daily x30, weekly x4, monthly as-is, yearly /12 (rounded to 2dp).
func (se ScheduledExpense) MonthlyEquivalent() decimal.Decimal {
	switch se.Recurrence {
	case Daily:
		return se.Amount.Mul(thirty)
	case Weekly:
		return se.Amount.Mul(four)
	case Yearly:
		return se.Amount.Div(twelve).Round(2)
	default:
		return se.Amount
	}
}

// Confirmation pairs the transaction produced by confirming a schedule
// with the advanced schedule. The two must be persisted atomically.
type Confirmation struct {
	Transaction Transaction
	Schedule    ScheduledExpense
}

// Confirm settles the current occurrence of the schedule. It fails with
// ErrInactiveSchedule on an inactive schedule. The resulting transaction
// uses actualAmount when provided (a bill rarely matches its estimate to
// the cent), today's date, and a default note when none is given; it
// carries a link back to the schedule so budget planning can tell
// confirmations apart from manual spending.
func (se ScheduledExpense) Confirm(today time.Time, actualAmount *decimal.Decimal, notes string) (Confirmation, error) {
	if !se.IsActive {
		return Confirmation{}, ErrInactiveSchedule
	}
	amount := se.Amount
	if actualAmount != nil {
		amount = *actualAmount
	}
	if notes == "" {
		notes = "Spesa programmata confermata: " + se.Name
	}
	scheduleID := se.ID
	tx := Transaction{
		Amount:             amount,
		Description:        se.Name,
		Date:               DateOnly(today),
		Type:               Expense,
		Notes:              notes,
		CategoryID:         se.CategoryID,
		UserID:             se.UserID,
		ScheduledExpenseID: &scheduleID,
	}
	return Confirmation{Transaction: tx, Schedule: se.advanced()}, nil
}

// Skip moves the schedule past the current occurrence without recording
// a transaction. Unlike Confirm it also works on an inactive schedule,
// so a lapsed one can still be stepped forward and closed out.
func (se ScheduledExpense) Skip() ScheduledExpense {
	return se.advanced()
}

func (se ScheduledExpense) advanced() ScheduledExpense {
	se.NextDueDate = AdvanceDueDate(se.NextDueDate, se.Recurrence)
	if se.EndDate != nil && se.NextDueDate.After(*se.EndDate) {
		se.IsActive = false
	}
	return se
}
