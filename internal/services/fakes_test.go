package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"contabilita/internal/amqp"
	"contabilita/internal/core"
)

// fakeStore is an in-memory stand-in for the repository, covering
// every store port the services need.
type fakeStore struct {
	users        map[int64]core.User
	categories   map[int64]core.Category
	schedules    map[int64]core.ScheduledExpense
	transactions []core.Transaction

	nextTransactionID int64

	failCreate  error
	failConfirm error
	failUpdate  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:             map[int64]core.User{},
		categories:        map[int64]core.Category{},
		schedules:         map[int64]core.ScheduledExpense{},
		nextTransactionID: 1,
	}
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (core.User, error) {
	u, ok := f.users[id]
	if !ok {
		return core.User{}, fmt.Errorf("get user by id: %w", core.ErrNotFound)
	}
	return u, nil
}

func (f *fakeStore) GetCategory(_ context.Context, userID, id int64) (core.Category, error) {
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return core.Category{}, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	return c, nil
}

func (f *fakeStore) ListCategories(_ context.Context, userID int64) ([]core.Category, error) {
	var out []core.Category
	for _, c := range f.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if f.failCreate != nil {
		return core.Transaction{}, f.failCreate
	}
	t.ID = f.nextTransactionID
	f.nextTransactionID++
	f.transactions = append(f.transactions, t)
	return t, nil
}

func (f *fakeStore) ListMonthTransactions(_ context.Context, userID int64, year int, month time.Month) ([]core.Transaction, error) {
	ref := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.UserID == userID && core.SameMonth(t.Date, ref) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) GetSchedule(_ context.Context, userID, id int64) (core.ScheduledExpense, error) {
	se, ok := f.schedules[id]
	if !ok || se.UserID != userID {
		return core.ScheduledExpense{}, fmt.Errorf("get schedule: %w", core.ErrNotFound)
	}
	return se, nil
}

func (f *fakeStore) ListSchedules(_ context.Context, userID int64) ([]core.ScheduledExpense, error) {
	var out []core.ScheduledExpense
	for _, se := range f.schedules {
		if se.UserID == userID {
			out = append(out, se)
		}
	}
	return out, nil
}

func (f *fakeStore) ListDueSchedules(_ context.Context, day time.Time) ([]core.ScheduledExpense, error) {
	var out []core.ScheduledExpense
	for _, se := range f.schedules {
		if se.IsDueOn(day) {
			out = append(out, se)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateSchedule(_ context.Context, se core.ScheduledExpense) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	if _, ok := f.schedules[se.ID]; !ok {
		return fmt.Errorf("update schedule: %w", core.ErrNotFound)
	}
	f.schedules[se.ID] = se
	return nil
}

func (f *fakeStore) ApplyConfirmation(_ context.Context, conf core.Confirmation) (core.Transaction, error) {
	if f.failConfirm != nil {
		return core.Transaction{}, f.failConfirm
	}
	t := conf.Transaction
	t.ID = f.nextTransactionID
	f.nextTransactionID++
	f.transactions = append(f.transactions, t)
	f.schedules[conf.Schedule.ID] = conf.Schedule
	return t, nil
}

// fakePublisher records published messages and can be told to fail.
type fakePublisher struct {
	created []*amqp.TransactionCreatedMessage
	due     []*amqp.ScheduleDueMessage
	err     error
}

func (f *fakePublisher) PublishTransactionCreated(_ context.Context, msg *amqp.TransactionCreatedMessage) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, msg)
	return nil
}

func (f *fakePublisher) PublishScheduleDue(_ context.Context, msg *amqp.ScheduleDueMessage) error {
	if f.err != nil {
		return f.err
	}
	f.due = append(f.due, msg)
	return nil
}

var errBroker = errors.New("broker unavailable")

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }
