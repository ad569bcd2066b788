// Package services orchestrates domain operations across storage and
// the message broker. Each service depends on narrow interfaces so
// tests can swap in fakes without a database or a broker.
package services

import (
	"context"
	"time"

	"contabilita/internal/amqp"
	"contabilita/internal/core"
	"contabilita/internal/storage"
)

// TransactionPublisher emits export events. A nil publisher disables
// publishing; events are best effort and never fail the request.
type TransactionPublisher interface {
	PublishTransactionCreated(ctx context.Context, msg *amqp.TransactionCreatedMessage) error
}

// ReminderPublisher emits due-schedule notifications.
type ReminderPublisher interface {
	PublishScheduleDue(ctx context.Context, msg *amqp.ScheduleDueMessage) error
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	GetCategory(ctx context.Context, userID, id int64) (core.Category, error)
}

type ScheduleStore interface {
	GetSchedule(ctx context.Context, userID, id int64) (core.ScheduledExpense, error)
	UpdateSchedule(ctx context.Context, se core.ScheduledExpense) error
	ApplyConfirmation(ctx context.Context, conf core.Confirmation) (core.Transaction, error)
	GetCategory(ctx context.Context, userID, id int64) (core.Category, error)
}

type PlanningStore interface {
	GetUserByID(ctx context.Context, id int64) (core.User, error)
	ListSchedules(ctx context.Context, userID int64) ([]core.ScheduledExpense, error)
	ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
	ListMonthTransactions(ctx context.Context, userID int64, year int, month time.Month) ([]core.Transaction, error)
}

type DueScheduleStore interface {
	ListDueSchedules(ctx context.Context, day time.Time) ([]core.ScheduledExpense, error)
}

// The repository satisfies every store port.
var (
	_ TransactionStore = (*storage.Repository)(nil)
	_ ScheduleStore    = (*storage.Repository)(nil)
	_ PlanningStore    = (*storage.Repository)(nil)
	_ DueScheduleStore = (*storage.Repository)(nil)
)
