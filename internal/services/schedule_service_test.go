package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"contabilita/internal/core"
)

func seedSchedule(store *fakeStore) core.ScheduledExpense {
	store.categories[1] = core.Category{ID: 1, UserID: 7, Name: "Casa", Type: core.Expense}
	se := core.ScheduledExpense{
		ID:          10,
		UserID:      7,
		CategoryID:  1,
		Name:        "Affitto",
		Amount:      dec("850"),
		Recurrence:  core.Monthly,
		StartDate:   date(2025, time.January, 1),
		NextDueDate: date(2025, time.March, 1),
		IsActive:    true,
	}
	store.schedules[se.ID] = se
	return se
}

func TestScheduleService_Confirm(t *testing.T) {
	ctx := context.Background()
	today := date(2025, time.March, 1)

	t.Run("records transaction and advances schedule", func(t *testing.T) {
		store := newFakeStore()
		pub := &fakePublisher{}
		seedSchedule(store)
		svc := NewScheduleService(store, pub)

		tx, se, err := svc.Confirm(ctx, 7, 10, nil, "", today)
		if err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if !tx.Amount.Equal(dec("850")) {
			t.Errorf("transaction amount = %s, want 850", tx.Amount)
		}
		if tx.ScheduledExpenseID == nil || *tx.ScheduledExpenseID != 10 {
			t.Error("transaction should link back to the schedule")
		}
		if got, want := se.NextDueDate, date(2025, time.April, 1); !got.Equal(want) {
			t.Errorf("next due date = %v, want %v", got, want)
		}
		if stored := store.schedules[10]; !stored.NextDueDate.Equal(se.NextDueDate) {
			t.Error("advanced schedule was not persisted")
		}
		if len(pub.created) != 1 {
			t.Fatalf("published %d messages, want 1", len(pub.created))
		}
		if pub.created[0].Category != "Casa" {
			t.Errorf("published category = %q, want Casa", pub.created[0].Category)
		}
	})

	t.Run("actual amount overrides the estimate", func(t *testing.T) {
		store := newFakeStore()
		seedSchedule(store)
		svc := NewScheduleService(store, nil)

		tx, _, err := svc.Confirm(ctx, 7, 10, ptr(dec("862.40")), "", today)
		if err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if !tx.Amount.Equal(dec("862.40")) {
			t.Errorf("transaction amount = %s, want 862.40", tx.Amount)
		}
	})

	t.Run("rejects non-positive actual amount", func(t *testing.T) {
		store := newFakeStore()
		seedSchedule(store)
		svc := NewScheduleService(store, nil)

		_, _, err := svc.Confirm(ctx, 7, 10, ptr(dec("0")), "", today)
		if !errors.Is(err, core.ErrInvalidAmount) {
			t.Errorf("error = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("rejects inactive schedule", func(t *testing.T) {
		store := newFakeStore()
		se := seedSchedule(store)
		se.IsActive = false
		store.schedules[se.ID] = se
		svc := NewScheduleService(store, nil)

		_, _, err := svc.Confirm(ctx, 7, 10, nil, "", today)
		if !errors.Is(err, core.ErrInactiveSchedule) {
			t.Errorf("error = %v, want ErrInactiveSchedule", err)
		}
	})

	t.Run("unknown schedule", func(t *testing.T) {
		store := newFakeStore()
		svc := NewScheduleService(store, nil)

		_, _, err := svc.Confirm(ctx, 7, 99, nil, "", today)
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("broker failure does not fail the confirm", func(t *testing.T) {
		store := newFakeStore()
		seedSchedule(store)
		svc := NewScheduleService(store, &fakePublisher{err: errBroker})

		if _, _, err := svc.Confirm(ctx, 7, 10, nil, "", today); err != nil {
			t.Fatalf("Confirm() error = %v, want nil despite broker failure", err)
		}
		if len(store.transactions) != 1 {
			t.Error("transaction should still be stored")
		}
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		store := newFakeStore()
		seedSchedule(store)
		store.failConfirm = errors.New("disk full")
		svc := NewScheduleService(store, nil)

		if _, _, err := svc.Confirm(ctx, 7, 10, nil, "", today); err == nil {
			t.Error("Confirm() should fail when persistence fails")
		}
	})
}

func TestScheduleService_Skip(t *testing.T) {
	ctx := context.Background()

	t.Run("advances without recording a transaction", func(t *testing.T) {
		store := newFakeStore()
		seedSchedule(store)
		svc := NewScheduleService(store, nil)

		se, err := svc.Skip(ctx, 7, 10)
		if err != nil {
			t.Fatalf("Skip() error = %v", err)
		}
		if got, want := se.NextDueDate, date(2025, time.April, 1); !got.Equal(want) {
			t.Errorf("next due date = %v, want %v", got, want)
		}
		if len(store.transactions) != 0 {
			t.Error("skip must not record a transaction")
		}
	})

	t.Run("works on inactive schedules", func(t *testing.T) {
		store := newFakeStore()
		se := seedSchedule(store)
		se.IsActive = false
		store.schedules[se.ID] = se
		svc := NewScheduleService(store, nil)

		if _, err := svc.Skip(ctx, 7, 10); err != nil {
			t.Errorf("Skip() error = %v, want nil for inactive schedule", err)
		}
	})

	t.Run("deactivates past the end date", func(t *testing.T) {
		store := newFakeStore()
		se := seedSchedule(store)
		se.EndDate = ptr(date(2025, time.March, 15))
		store.schedules[se.ID] = se
		svc := NewScheduleService(store, nil)

		skipped, err := svc.Skip(ctx, 7, 10)
		if err != nil {
			t.Fatalf("Skip() error = %v", err)
		}
		if skipped.IsActive {
			t.Error("schedule advanced past its end date should deactivate")
		}
	})
}
