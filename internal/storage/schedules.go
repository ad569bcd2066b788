package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"contabilita/internal/core"
)

func (r *Repository) CreateSchedule(ctx context.Context, se core.ScheduledExpense) (core.ScheduledExpense, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO scheduled_expenses (user_id, category_id, name, amount, description, recurrence, start_date, end_date, next_due_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		se.UserID, se.CategoryID, se.Name, fmtDecimal(se.Amount), se.Description,
		string(se.Recurrence), fmtDate(se.StartDate), fmtNullDate(se.EndDate),
		fmtDate(se.NextDueDate), se.IsActive)
	if err != nil {
		return core.ScheduledExpense{}, fmt.Errorf("create schedule: %w", err)
	}
	se.ID, err = res.LastInsertId()
	if err != nil {
		return core.ScheduledExpense{}, fmt.Errorf("create schedule id: %w", err)
	}
	return se, nil
}

func (r *Repository) GetSchedule(ctx context.Context, userID, id int64) (core.ScheduledExpense, error) {
	rows, err := r.db.QueryContext(ctx, scheduleSelect+` WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return core.ScheduledExpense{}, fmt.Errorf("get schedule: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.ScheduledExpense{}, fmt.Errorf("get schedule: %w", err)
		}
		return core.ScheduledExpense{}, fmt.Errorf("get schedule: %w", core.ErrNotFound)
	}
	se, err := scanSchedule(rows)
	if err != nil {
		return core.ScheduledExpense{}, fmt.Errorf("get schedule: %w", err)
	}
	return se, nil
}

func (r *Repository) ListSchedules(ctx context.Context, userID int64) ([]core.ScheduledExpense, error) {
	rows, err := r.db.QueryContext(ctx, scheduleSelect+` WHERE user_id = ? ORDER BY next_due_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()
	return collectSchedules(rows)
}

// ListDueSchedules returns every active schedule, across all users,
// whose next due date is on or before the given day. The reminder
// worker feeds on this.
func (r *Repository) ListDueSchedules(ctx context.Context, day time.Time) ([]core.ScheduledExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		scheduleSelect+` WHERE is_active = 1 AND next_due_date <= ? ORDER BY user_id, next_due_date`,
		fmtDate(day))
	if err != nil {
		return nil, fmt.Errorf("list due schedules: %w", err)
	}
	defer rows.Close()
	return collectSchedules(rows)
}

func (r *Repository) UpdateSchedule(ctx context.Context, se core.ScheduledExpense) error {
	res, err := r.db.ExecContext(ctx, scheduleUpdate,
		se.CategoryID, se.Name, fmtDecimal(se.Amount), se.Description,
		string(se.Recurrence), fmtDate(se.StartDate), fmtNullDate(se.EndDate),
		fmtDate(se.NextDueDate), se.IsActive,
		se.UserID, se.ID)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return ensureRow(res, "update schedule")
}

func (r *Repository) DeleteSchedule(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_expenses WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return ensureRow(res, "delete schedule")
}

// ApplyConfirmation persists a schedule confirmation atomically: the
// transaction insert and the schedule advancement commit together or
// not at all. Returns the stored transaction with its assigned ID.
func (r *Repository) ApplyConfirmation(ctx context.Context, conf core.Confirmation) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin confirmation: %w", err)
	}
	defer tx.Rollback()

	t := conf.Transaction
	res, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (user_id, category_id, scheduled_expense_id, amount, description, date, type, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.CategoryID, nullID(t.ScheduledExpenseID),
		fmtDecimal(t.Amount), t.Description, fmtDate(t.Date), string(t.Type), t.Notes)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("confirmation insert transaction: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return core.Transaction{}, fmt.Errorf("confirmation transaction id: %w", err)
	}

	se := conf.Schedule
	upd, err := tx.ExecContext(ctx, scheduleUpdate,
		se.CategoryID, se.Name, fmtDecimal(se.Amount), se.Description,
		string(se.Recurrence), fmtDate(se.StartDate), fmtNullDate(se.EndDate),
		fmtDate(se.NextDueDate), se.IsActive,
		se.UserID, se.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("confirmation update schedule: %w", err)
	}
	if err := ensureRow(upd, "confirmation update schedule"); err != nil {
		return core.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit confirmation: %w", err)
	}
	return t, nil
}

const scheduleSelect = `
	SELECT id, user_id, category_id, name, amount, description, recurrence, start_date, end_date, next_due_date, is_active
	FROM scheduled_expenses`

const scheduleUpdate = `
	UPDATE scheduled_expenses SET
		category_id = ?, name = ?, amount = ?, description = ?, recurrence = ?,
		start_date = ?, end_date = ?, next_due_date = ?, is_active = ?
	WHERE user_id = ? AND id = ?`

func collectSchedules(rows *sql.Rows) ([]core.ScheduledExpense, error) {
	var out []core.ScheduledExpense
	for rows.Next() {
		se, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		out = append(out, se)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return out, nil
}

func scanSchedule(rows *sql.Rows) (core.ScheduledExpense, error) {
	var (
		se         core.ScheduledExpense
		amount     string
		recurrence string
		startDate  string
		endDate    sql.NullString
		nextDue    string
	)
	err := rows.Scan(&se.ID, &se.UserID, &se.CategoryID, &se.Name, &amount, &se.Description,
		&recurrence, &startDate, &endDate, &nextDue, &se.IsActive)
	if err != nil {
		return core.ScheduledExpense{}, err
	}
	if se.Amount, err = parseDecimal(amount); err != nil {
		return core.ScheduledExpense{}, err
	}
	se.Recurrence = core.Recurrence(recurrence)
	if se.StartDate, err = parseDate(startDate); err != nil {
		return core.ScheduledExpense{}, err
	}
	if se.EndDate, err = parseNullDate(endDate); err != nil {
		return core.ScheduledExpense{}, err
	}
	if se.NextDueDate, err = parseDate(nextDue); err != nil {
		return core.ScheduledExpense{}, err
	}
	return se, nil
}
