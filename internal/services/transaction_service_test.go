package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"contabilita/internal/core"
)

func TestTransactionService_Create(t *testing.T) {
	ctx := context.Background()

	valid := core.Transaction{
		UserID:      7,
		CategoryID:  1,
		Amount:      dec("42.50"),
		Description: "Spesa settimanale",
		Date:        date(2025, time.March, 5),
		Type:        core.Expense,
	}

	t.Run("stores and publishes", func(t *testing.T) {
		store := newFakeStore()
		store.categories[1] = core.Category{ID: 1, UserID: 7, Name: "Alimentari", Type: core.Expense}
		pub := &fakePublisher{}
		svc := NewTransactionService(store, pub)

		stored, err := svc.Create(ctx, valid)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if stored.ID == 0 {
			t.Error("stored transaction should have an ID")
		}
		if len(pub.created) != 1 {
			t.Fatalf("published %d messages, want 1", len(pub.created))
		}
		if pub.created[0].Category != "Alimentari" {
			t.Errorf("published category = %q, want Alimentari", pub.created[0].Category)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		store := newFakeStore()
		svc := NewTransactionService(store, nil)

		bad := valid
		bad.Amount = dec("0")
		if _, err := svc.Create(ctx, bad); !errors.Is(err, core.ErrInvalidAmount) {
			t.Errorf("error = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		store := newFakeStore()
		svc := NewTransactionService(store, nil)

		if _, err := svc.Create(ctx, valid); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("broker failure does not fail the create", func(t *testing.T) {
		store := newFakeStore()
		store.categories[1] = core.Category{ID: 1, UserID: 7, Name: "Alimentari", Type: core.Expense}
		svc := NewTransactionService(store, &fakePublisher{err: errBroker})

		if _, err := svc.Create(ctx, valid); err != nil {
			t.Fatalf("Create() error = %v, want nil despite broker failure", err)
		}
		if len(store.transactions) != 1 {
			t.Error("transaction should still be stored")
		}
	})

	t.Run("nil publisher is fine", func(t *testing.T) {
		store := newFakeStore()
		store.categories[1] = core.Category{ID: 1, UserID: 7, Name: "Alimentari", Type: core.Expense}
		svc := NewTransactionService(store, nil)

		if _, err := svc.Create(ctx, valid); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	})
}
