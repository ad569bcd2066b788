package services

import (
	"context"
	"fmt"
	"log/slog"

	"contabilita/internal/amqp"
	"contabilita/internal/core"
)

// TransactionService stores transactions and announces them on the
// broker for the export worker.
type TransactionService struct {
	store     TransactionStore
	publisher TransactionPublisher
}

func NewTransactionService(store TransactionStore, publisher TransactionPublisher) *TransactionService {
	return &TransactionService{store: store, publisher: publisher}
}

// Create validates and stores a transaction, then publishes a created
// event. Publishing is best effort: the transaction is already durable
// in SQLite, so a broker outage must not fail the request.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	cat, err := s.store.GetCategory(ctx, t.UserID, t.CategoryID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("resolve category: %w", err)
	}

	stored, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishCreated(ctx, stored, cat.Name)
	return stored, nil
}

func (s *TransactionService) publishCreated(ctx context.Context, t core.Transaction, categoryName string) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewTransactionCreatedMessage(t, categoryName)
	if err := s.publisher.PublishTransactionCreated(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction created message",
			"transaction_id", t.ID,
			"user_id", t.UserID,
			"error", err)
	}
}
