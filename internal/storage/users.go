package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"contabilita/internal/core"
)

// CreateUser inserts a new account with a default budget profile
// (amount-mode savings goal of zero, 80% alert threshold).
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash, firstName, lastName string) (core.User, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES (?, ?, ?, ?)`,
		strings.ToLower(strings.TrimSpace(email)), passwordHash, firstName, lastName)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.User{}, fmt.Errorf("create user: %w", core.ErrEmailTaken)
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("create user id: %w", err)
	}
	return r.GetUserByID(ctx, id)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx, userSelect+` WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	u, err := scanUser(row)
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", notFound(err))
	}
	return u, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	row := r.db.QueryRowContext(ctx, userSelect+` WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return core.User{}, fmt.Errorf("get user by id: %w", notFound(err))
	}
	return u, nil
}

// UpdateBudgetProfile replaces the user's planning settings.
func (r *Repository) UpdateBudgetProfile(ctx context.Context, userID int64, p core.BudgetProfile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			monthly_income = ?,
			initial_budget = ?,
			savings_goal_mode = ?,
			savings_goal_value = ?,
			extra_fixed_expenses = ?,
			alert_threshold = ?
		WHERE id = ?`,
		fmtDecimal(p.MonthlyIncome),
		fmtDecimal(p.InitialBudget),
		string(p.SavingsGoal.Mode),
		fmtDecimal(p.SavingsGoal.Value),
		fmtNullDecimal(p.ExtraFixedExpenses),
		fmtDecimal(p.AlertThreshold),
		userID)
	if err != nil {
		return fmt.Errorf("update budget profile: %w", err)
	}
	return ensureRow(res, "update budget profile")
}

func ensureRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}

const userSelect = `
	SELECT id, email, password_hash, first_name, last_name,
	       monthly_income, initial_budget, savings_goal_mode, savings_goal_value,
	       extra_fixed_expenses, alert_threshold, created_at
	FROM users`

func scanUser(row *sql.Row) (core.User, error) {
	var (
		u          core.User
		income     string
		initial    string
		goalMode   string
		goalValue  string
		extraFixed sql.NullString
		threshold  string
		createdAt  string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&income, &initial, &goalMode, &goalValue, &extraFixed, &threshold, &createdAt)
	if err != nil {
		return core.User{}, err
	}

	if u.Profile.MonthlyIncome, err = parseDecimal(income); err != nil {
		return core.User{}, err
	}
	if u.Profile.InitialBudget, err = parseDecimal(initial); err != nil {
		return core.User{}, err
	}
	u.Profile.SavingsGoal.Mode = core.SavingsGoalMode(goalMode)
	if u.Profile.SavingsGoal.Value, err = parseDecimal(goalValue); err != nil {
		return core.User{}, err
	}
	if u.Profile.ExtraFixedExpenses, err = parseNullDecimal(extraFixed); err != nil {
		return core.User{}, err
	}
	if u.Profile.AlertThreshold, err = parseDecimal(threshold); err != nil {
		return core.User{}, err
	}
	if u.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return core.User{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return u, nil
}
