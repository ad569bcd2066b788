package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"contabilita/internal/core"
)

func (r *Repository) CreateCaregiver(ctx context.Context, c core.Caregiver) (core.Caregiver, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO caregivers (user_id, name, relationship, color, phone, display_order, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Name, c.Relationship, c.Color, c.Phone, c.DisplayOrder, c.IsActive)
	if err != nil {
		return core.Caregiver{}, fmt.Errorf("create caregiver: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Caregiver{}, fmt.Errorf("create caregiver id: %w", err)
	}
	return c, nil
}

func (r *Repository) GetCaregiver(ctx context.Context, userID, id int64) (core.Caregiver, error) {
	rows, err := r.db.QueryContext(ctx, caregiverSelect+` WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return core.Caregiver{}, fmt.Errorf("get caregiver: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.Caregiver{}, fmt.Errorf("get caregiver: %w", err)
		}
		return core.Caregiver{}, fmt.Errorf("get caregiver: %w", core.ErrNotFound)
	}
	c, err := scanCaregiver(rows)
	if err != nil {
		return core.Caregiver{}, fmt.Errorf("get caregiver: %w", err)
	}
	return c, nil
}

func (r *Repository) ListCaregivers(ctx context.Context, userID int64, activeOnly bool) ([]core.Caregiver, error) {
	query := caregiverSelect + ` WHERE user_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY display_order, name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list caregivers: %w", err)
	}
	defer rows.Close()

	var out []core.Caregiver
	for rows.Next() {
		c, err := scanCaregiver(rows)
		if err != nil {
			return nil, fmt.Errorf("list caregivers: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list caregivers: %w", err)
	}
	return out, nil
}

func (r *Repository) UpdateCaregiver(ctx context.Context, c core.Caregiver) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE caregivers SET
			name = ?, relationship = ?, color = ?, phone = ?, display_order = ?, is_active = ?
		WHERE user_id = ? AND id = ?`,
		c.Name, c.Relationship, c.Color, c.Phone, c.DisplayOrder, c.IsActive,
		c.UserID, c.ID)
	if err != nil {
		return fmt.Errorf("update caregiver: %w", err)
	}
	return ensureRow(res, "update caregiver")
}

func (r *Repository) DeleteCaregiver(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM caregivers WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete caregiver: %w", err)
	}
	return ensureRow(res, "delete caregiver")
}

// WeekSlot is a childcare slot joined with its caregiver's display data.
type WeekSlot struct {
	core.ChildcareSlot
	CaregiverName  string
	CaregiverColor string
}

// ListWeekSlots returns the user's slots for the week starting at
// weekStart (already normalized to Monday).
func (r *Repository) ListWeekSlots(ctx context.Context, userID int64, weekStart time.Time) ([]WeekSlot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.user_id, s.caregiver_id, s.week_start, s.day, s.time_slot, c.name, c.color
		FROM childcare_slots s
		JOIN caregivers c ON c.id = s.caregiver_id
		WHERE s.user_id = ? AND s.week_start = ?
		ORDER BY s.day, s.time_slot`,
		userID, fmtDate(weekStart))
	if err != nil {
		return nil, fmt.Errorf("list week slots: %w", err)
	}
	defer rows.Close()

	var out []WeekSlot
	for rows.Next() {
		var (
			ws        WeekSlot
			weekStart string
			slot      string
		)
		err := rows.Scan(&ws.ID, &ws.UserID, &ws.CaregiverID, &weekStart, &ws.Day, &slot,
			&ws.CaregiverName, &ws.CaregiverColor)
		if err != nil {
			return nil, fmt.Errorf("scan week slot: %w", err)
		}
		if ws.WeekStart, err = parseDate(weekStart); err != nil {
			return nil, fmt.Errorf("scan week slot: %w", err)
		}
		ws.Slot = core.TimeSlot(slot)
		out = append(out, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list week slots: %w", err)
	}
	return out, nil
}

// UpsertSlot assigns a caregiver to one grid cell, replacing any
// previous assignment for the same cell.
func (r *Repository) UpsertSlot(ctx context.Context, s core.ChildcareSlot) (core.ChildcareSlot, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO childcare_slots (user_id, caregiver_id, week_start, day, time_slot)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, week_start, day, time_slot)
		DO UPDATE SET caregiver_id = excluded.caregiver_id`,
		s.UserID, s.CaregiverID, fmtDate(s.WeekStart), int(s.Day), string(s.Slot))
	if err != nil {
		return core.ChildcareSlot{}, fmt.Errorf("upsert slot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		s.ID = id
	}
	return s, nil
}

// DeleteSlot clears one grid cell.
func (r *Repository) DeleteSlot(ctx context.Context, userID int64, weekStart time.Time, day core.Weekday, slot core.TimeSlot) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM childcare_slots
		WHERE user_id = ? AND week_start = ? AND day = ? AND time_slot = ?`,
		userID, fmtDate(weekStart), int(day), string(slot))
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

// ReplaceWeek swaps the whole week for the given assignments in one
// transaction.
func (r *Repository) ReplaceWeek(ctx context.Context, userID int64, weekStart time.Time, slots []core.ChildcareSlot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace week: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM childcare_slots WHERE user_id = ? AND week_start = ?`,
		userID, fmtDate(weekStart)); err != nil {
		return fmt.Errorf("replace week clear: %w", err)
	}
	for _, s := range slots {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO childcare_slots (user_id, caregiver_id, week_start, day, time_slot)
			VALUES (?, ?, ?, ?, ?)`,
			userID, s.CaregiverID, fmtDate(weekStart), int(s.Day), string(s.Slot)); err != nil {
			return fmt.Errorf("replace week insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace week: %w", err)
	}
	return nil
}

// CopyWeek duplicates one week's assignments onto another, replacing
// whatever the target week had. Returns the number of copied slots.
func (r *Repository) CopyWeek(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin copy week: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM childcare_slots WHERE user_id = ? AND week_start = ?`,
		userID, fmtDate(to)); err != nil {
		return 0, fmt.Errorf("copy week clear: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO childcare_slots (user_id, caregiver_id, week_start, day, time_slot)
		SELECT user_id, caregiver_id, ?, day, time_slot
		FROM childcare_slots
		WHERE user_id = ? AND week_start = ?`,
		fmtDate(to), userID, fmtDate(from))
	if err != nil {
		return 0, fmt.Errorf("copy week insert: %w", err)
	}
	copied, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("copy week count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit copy week: %w", err)
	}
	return int(copied), nil
}

const caregiverSelect = `
	SELECT id, user_id, name, relationship, color, phone, display_order, is_active
	FROM caregivers`

func scanCaregiver(rows *sql.Rows) (core.Caregiver, error) {
	var c core.Caregiver
	err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Relationship, &c.Color, &c.Phone,
		&c.DisplayOrder, &c.IsActive)
	if err != nil {
		return core.Caregiver{}, err
	}
	return c, nil
}
