// Package export defines the outbound port for mirroring transactions
// to an external ledger, currently a Google Sheets spreadsheet.
package export

import (
	"context"

	"contabilita/internal/amqp"
)

// RowWriter appends one exported transaction row and returns a
// reference to where it landed.
type RowWriter interface {
	Append(ctx context.Context, msg *amqp.TransactionCreatedMessage) (rowRef string, err error)
}
