package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"contabilita/internal/core"
)

// TransactionFilter narrows ListTransactions. Nil fields match all.
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	CategoryID *int64
	Type       *core.TransactionType
}

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, category_id, scheduled_expense_id, amount, description, date, type, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.CategoryID, nullID(t.ScheduledExpenseID),
		fmtDecimal(t.Amount), t.Description, fmtDate(t.Date), string(t.Type), t.Notes)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction id: %w", err)
	}
	return t, nil
}

func (r *Repository) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, transactionSelect+` WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
		}
		return core.Transaction{}, fmt.Errorf("get transaction: %w", core.ErrNotFound)
	}
	t, err := scanTransaction(rows)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns the user's transactions matching the filter,
// newest first.
func (r *Repository) ListTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]core.Transaction, error) {
	query := transactionSelect + ` WHERE user_id = ?`
	args := []any{userID}

	if f.From != nil {
		query += ` AND date >= ?`
		args = append(args, fmtDate(*f.From))
	}
	if f.To != nil {
		query += ` AND date <= ?`
		args = append(args, fmtDate(*f.To))
	}
	if f.CategoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *f.CategoryID)
	}
	if f.Type != nil {
		query += ` AND type = ?`
		args = append(args, string(*f.Type))
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListMonthTransactions returns all of the user's transactions dated in
// the given UTC month. Used by budget planning and the summaries.
func (r *Repository) ListMonthTransactions(ctx context.Context, userID int64, year int, month time.Month) ([]core.Transaction, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return r.ListTransactions(ctx, userID, TransactionFilter{From: &from, To: &to})
}

func (r *Repository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET
			category_id = ?, amount = ?, description = ?, date = ?, type = ?, notes = ?
		WHERE user_id = ? AND id = ?`,
		t.CategoryID, fmtDecimal(t.Amount), t.Description, fmtDate(t.Date), string(t.Type), t.Notes,
		t.UserID, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return ensureRow(res, "update transaction")
}

func (r *Repository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return ensureRow(res, "delete transaction")
}

const transactionSelect = `
	SELECT id, user_id, category_id, scheduled_expense_id, amount, description, date, type, notes
	FROM transactions`

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		t          core.Transaction
		scheduleID sql.NullInt64
		amount     string
		date       string
		txType     string
	)
	err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &scheduleID,
		&amount, &t.Description, &date, &txType, &t.Notes)
	if err != nil {
		return core.Transaction{}, err
	}
	t.ScheduledExpenseID = fromNullID(scheduleID)
	if t.Amount, err = parseDecimal(amount); err != nil {
		return core.Transaction{}, err
	}
	if t.Date, err = parseDate(date); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(txType)
	return t, nil
}
