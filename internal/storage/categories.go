package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"contabilita/internal/core"
)

// ErrCategoryInUse is returned when deleting a category that still has
// transactions or scheduled expenses attached.
var ErrCategoryInUse = fmt.Errorf("category has transactions or scheduled expenses")

func (r *Repository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (user_id, name, description, color, icon, type, monthly_budget, require_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Name, c.Description, c.Color, c.Icon, string(c.Type),
		fmtNullDecimal(c.MonthlyBudget), c.RequireDescription)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category id: %w", err)
	}
	return c, nil
}

func (r *Repository) GetCategory(ctx context.Context, userID, id int64) (core.Category, error) {
	key := categoryKey(userID, id)
	if c, ok := r.categories.Get(key); ok {
		return c, nil
	}

	rows, err := r.db.QueryContext(ctx, categorySelect+` WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.Category{}, fmt.Errorf("get category: %w", err)
		}
		return core.Category{}, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	c, err := scanCategory(rows)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	r.categories.Set(key, c)
	return c, nil
}

func (r *Repository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, categorySelect+` WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET
			name = ?, description = ?, color = ?, icon = ?, type = ?,
			monthly_budget = ?, require_description = ?
		WHERE user_id = ? AND id = ?`,
		c.Name, c.Description, c.Color, c.Icon, string(c.Type),
		fmtNullDecimal(c.MonthlyBudget), c.RequireDescription,
		c.UserID, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	r.categories.Delete(categoryKey(c.UserID, c.ID))
	return ensureRow(res, "update category")
}

func (r *Repository) DeleteCategory(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return fmt.Errorf("delete category: %w", ErrCategoryInUse)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	r.categories.Delete(categoryKey(userID, id))
	return ensureRow(res, "delete category")
}

func categoryKey(userID, id int64) string {
	return fmt.Sprintf("%d:%d", userID, id)
}

const categorySelect = `
	SELECT id, user_id, name, description, color, icon, type, monthly_budget, require_description
	FROM categories`

func scanCategory(rows *sql.Rows) (core.Category, error) {
	var (
		c       core.Category
		budget  sql.NullString
		catType string
	)
	err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.Icon,
		&catType, &budget, &c.RequireDescription)
	if err != nil {
		return core.Category{}, err
	}
	c.Type = core.TransactionType(catType)
	if c.MonthlyBudget, err = parseNullDecimal(budget); err != nil {
		return core.Category{}, err
	}
	return c, nil
}
