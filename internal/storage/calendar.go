package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"contabilita/internal/core"
)

func (r *Repository) CreateEvent(ctx context.Context, e core.CalendarEvent) (core.CalendarEvent, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO calendar_events (user_id, title, description, start_date, end_date, all_day, color)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Title, e.Description, fmtDate(e.StartDate), fmtNullDate(e.EndDate), e.AllDay, e.Color)
	if err != nil {
		return core.CalendarEvent{}, fmt.Errorf("create event: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return core.CalendarEvent{}, fmt.Errorf("create event id: %w", err)
	}
	return e, nil
}

func (r *Repository) GetEvent(ctx context.Context, userID, id int64) (core.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx, eventSelect+` WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return core.CalendarEvent{}, fmt.Errorf("get event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.CalendarEvent{}, fmt.Errorf("get event: %w", err)
		}
		return core.CalendarEvent{}, fmt.Errorf("get event: %w", core.ErrNotFound)
	}
	e, err := scanEvent(rows)
	if err != nil {
		return core.CalendarEvent{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListEvents returns the user's events, optionally limited to those
// starting inside [from, to].
func (r *Repository) ListEvents(ctx context.Context, userID int64, from, to *time.Time) ([]core.CalendarEvent, error) {
	query := eventSelect + ` WHERE user_id = ?`
	args := []any{userID}
	if from != nil {
		query += ` AND start_date >= ?`
		args = append(args, fmtDate(*from))
	}
	if to != nil {
		query += ` AND start_date <= ?`
		args = append(args, fmtDate(*to))
	}
	query += ` ORDER BY start_date, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []core.CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

func (r *Repository) UpdateEvent(ctx context.Context, e core.CalendarEvent) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE calendar_events SET
			title = ?, description = ?, start_date = ?, end_date = ?, all_day = ?, color = ?
		WHERE user_id = ? AND id = ?`,
		e.Title, e.Description, fmtDate(e.StartDate), fmtNullDate(e.EndDate), e.AllDay, e.Color,
		e.UserID, e.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return ensureRow(res, "update event")
}

func (r *Repository) DeleteEvent(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return ensureRow(res, "delete event")
}

const eventSelect = `
	SELECT id, user_id, title, description, start_date, end_date, all_day, color
	FROM calendar_events`

func scanEvent(rows *sql.Rows) (core.CalendarEvent, error) {
	var (
		e         core.CalendarEvent
		startDate string
		endDate   sql.NullString
	)
	err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &startDate, &endDate, &e.AllDay, &e.Color)
	if err != nil {
		return core.CalendarEvent{}, err
	}
	if e.StartDate, err = parseDate(startDate); err != nil {
		return core.CalendarEvent{}, err
	}
	if e.EndDate, err = parseNullDate(endDate); err != nil {
		return core.CalendarEvent{}, err
	}
	return e, nil
}
