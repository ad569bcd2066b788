// Package memory is an in-process RowWriter for tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"contabilita/internal/amqp"
	"contabilita/internal/export"
)

type Store struct {
	mu   sync.Mutex
	rows []*amqp.TransactionCreatedMessage
}

var _ export.RowWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the row and returns a synthetic reference.
func (s *Store) Append(_ context.Context, msg *amqp.TransactionCreatedMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, msg)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []*amqp.TransactionCreatedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*amqp.TransactionCreatedMessage(nil), s.rows...)
}
