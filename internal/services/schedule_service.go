package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"contabilita/internal/amqp"
	"contabilita/internal/core"
)

// ScheduleService settles scheduled expense occurrences. Confirming
// records a linked transaction and advances the schedule in one storage
// transaction; skipping only advances.
type ScheduleService struct {
	store     ScheduleStore
	publisher TransactionPublisher
}

func NewScheduleService(store ScheduleStore, publisher TransactionPublisher) *ScheduleService {
	return &ScheduleService{store: store, publisher: publisher}
}

// Confirm settles the current occurrence of the schedule as an expense,
// using actualAmount when the real bill differs from the estimate.
// Returns the recorded transaction and the advanced schedule.
func (s *ScheduleService) Confirm(ctx context.Context, userID, scheduleID int64, actualAmount *decimal.Decimal, notes string, today time.Time) (core.Transaction, core.ScheduledExpense, error) {
	se, err := s.store.GetSchedule(ctx, userID, scheduleID)
	if err != nil {
		return core.Transaction{}, core.ScheduledExpense{}, err
	}
	if actualAmount != nil && actualAmount.Sign() <= 0 {
		return core.Transaction{}, core.ScheduledExpense{}, core.ErrInvalidAmount
	}

	conf, err := se.Confirm(today, actualAmount, notes)
	if err != nil {
		return core.Transaction{}, core.ScheduledExpense{}, err
	}

	stored, err := s.store.ApplyConfirmation(ctx, conf)
	if err != nil {
		return core.Transaction{}, core.ScheduledExpense{}, fmt.Errorf("apply confirmation: %w", err)
	}

	slog.InfoContext(ctx, "Confirmed scheduled expense",
		"schedule_id", scheduleID,
		"user_id", userID,
		"transaction_id", stored.ID,
		"next_due_date", conf.Schedule.NextDueDate.Format("2006-01-02"),
		"still_active", conf.Schedule.IsActive)

	s.publishConfirmed(ctx, stored, se.CategoryID)
	return stored, conf.Schedule, nil
}

// Skip advances the schedule past the current occurrence without
// recording any spending.
func (s *ScheduleService) Skip(ctx context.Context, userID, scheduleID int64) (core.ScheduledExpense, error) {
	se, err := s.store.GetSchedule(ctx, userID, scheduleID)
	if err != nil {
		return core.ScheduledExpense{}, err
	}

	skipped := se.Skip()
	if err := s.store.UpdateSchedule(ctx, skipped); err != nil {
		return core.ScheduledExpense{}, fmt.Errorf("save skipped schedule: %w", err)
	}

	slog.InfoContext(ctx, "Skipped scheduled expense",
		"schedule_id", scheduleID,
		"user_id", userID,
		"next_due_date", skipped.NextDueDate.Format("2006-01-02"),
		"still_active", skipped.IsActive)

	return skipped, nil
}

func (s *ScheduleService) publishConfirmed(ctx context.Context, t core.Transaction, categoryID int64) {
	if s.publisher == nil {
		return
	}
	categoryName := ""
	if cat, err := s.store.GetCategory(ctx, t.UserID, categoryID); err == nil {
		categoryName = cat.Name
	}
	msg := amqp.NewTransactionCreatedMessage(t, categoryName)
	if err := s.publisher.PublishTransactionCreated(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish confirmation message",
			"transaction_id", t.ID,
			"user_id", t.UserID,
			"error", err)
	}
}
