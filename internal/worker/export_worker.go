// Package worker contains the consumer-side handlers that run in the
// background binaries.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"contabilita/internal/amqp"
	"contabilita/internal/export"
)

// ExportWorker mirrors transaction-created messages into the external
// ledger. A failed append propagates so the delivery is requeued and
// retried once the sheet is reachable again.
type ExportWorker struct {
	writer export.RowWriter
}

func NewExportWorker(writer export.RowWriter) *ExportWorker {
	return &ExportWorker{writer: writer}
}

// HandleTransactionCreated appends one message to the ledger.
func (w *ExportWorker) HandleTransactionCreated(ctx context.Context, msg *amqp.TransactionCreatedMessage) error {
	if w.writer == nil {
		return fmt.Errorf("export writer not configured")
	}

	ref, err := w.writer.Append(ctx, msg)
	if err != nil {
		return fmt.Errorf("append transaction %d: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"transaction_id", msg.ID,
		"user_id", msg.UserID,
		"ref", ref)
	return nil
}
