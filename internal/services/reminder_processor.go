package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"contabilita/internal/amqp"
)

// ReminderProcessor finds schedules whose due date has arrived and
// publishes a reminder for each. It never advances a schedule; only an
// explicit confirm or skip does that.
type ReminderProcessor struct {
	store     DueScheduleStore
	publisher ReminderPublisher
}

func NewReminderProcessor(store DueScheduleStore, publisher ReminderPublisher) *ReminderProcessor {
	return &ReminderProcessor{store: store, publisher: publisher}
}

// ProcessDue publishes one reminder per due schedule across all users
// and returns how many went out. A failed publish is logged and the
// remaining schedules still get their turn; the next tick retries
// naturally since nothing was advanced.
func (p *ReminderProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.publisher == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	due, err := p.store.ListDueSchedules(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due schedules: %w", err)
	}

	slog.InfoContext(ctx, "Processing due schedules",
		"total_due", len(due),
		"processing_date", now.Format("2006-01-02"))

	published := 0
	for _, se := range due {
		msg := amqp.NewScheduleDueMessage(se)
		if err := p.publisher.PublishScheduleDue(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish due reminder",
				"schedule_id", se.ID,
				"user_id", se.UserID,
				"error", err)
			continue
		}
		published++
	}

	slog.InfoContext(ctx, "Due schedule processing complete",
		"published", published,
		"total_due", len(due))

	return published, nil
}
