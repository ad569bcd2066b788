package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"contabilita/internal/core"
)

// PlanningService computes the read models that summarize a user's
// month: the budget plan, the per-category budget summaries, and the
// income/expense totals.
type PlanningService struct {
	store PlanningStore
}

func NewPlanningService(store PlanningStore) *PlanningService {
	return &PlanningService{store: store}
}

// BudgetPlanning computes the plan for the month of now.
func (s *PlanningService) BudgetPlanning(ctx context.Context, userID int64, now time.Time) (core.BudgetPlanning, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return core.BudgetPlanning{}, err
	}
	schedules, err := s.store.ListSchedules(ctx, userID)
	if err != nil {
		return core.BudgetPlanning{}, fmt.Errorf("load schedules: %w", err)
	}
	transactions, err := s.store.ListMonthTransactions(ctx, userID, now.UTC().Year(), now.UTC().Month())
	if err != nil {
		return core.BudgetPlanning{}, fmt.Errorf("load month transactions: %w", err)
	}
	return core.ComputeBudgetPlanning(user.Profile, schedules, transactions, now), nil
}

// CategorySummaries returns the budgeted categories' month-to-date
// standing, worst offenders first. Categories without a budget are
// left out.
func (s *PlanningService) CategorySummaries(ctx context.Context, userID int64, year int, month time.Month) ([]core.CategoryBudgetSummary, error) {
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	transactions, err := s.store.ListMonthTransactions(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("load month transactions: %w", err)
	}

	ref := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	summaries := make([]core.CategoryBudgetSummary, 0, len(categories))
	for _, cat := range categories {
		if cat.MonthlyBudget == nil {
			continue
		}
		summaries = append(summaries, core.ComputeCategorySummary(cat, transactions, ref))
	}
	core.SortByPercentageUsed(summaries)
	return summaries, nil
}

// CategoryExpense is one category's share of a month's spending.
type CategoryExpense struct {
	CategoryID    int64
	CategoryName  string
	CategoryColor string
	Total         decimal.Decimal
	Percentage    decimal.Decimal
}

// MonthSummary is a month's income and spending at a glance.
type MonthSummary struct {
	TotalIncome        decimal.Decimal
	TotalExpenses      decimal.Decimal
	Balance            decimal.Decimal
	ExpensesByCategory []CategoryExpense
}

// Summarize totals the month's transactions. Category shares are
// percentages of the total expenses, rounded to two decimals.
func (s *PlanningService) Summarize(ctx context.Context, userID int64, year int, month time.Month) (MonthSummary, error) {
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return MonthSummary{}, fmt.Errorf("load categories: %w", err)
	}
	transactions, err := s.store.ListMonthTransactions(ctx, userID, year, month)
	if err != nil {
		return MonthSummary{}, fmt.Errorf("load month transactions: %w", err)
	}

	byID := make(map[int64]core.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	summary := MonthSummary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	perCategory := map[int64]decimal.Decimal{}
	var order []int64
	for _, t := range transactions {
		if t.Type == core.Income {
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
			continue
		}
		summary.TotalExpenses = summary.TotalExpenses.Add(t.Amount)
		if _, seen := perCategory[t.CategoryID]; !seen {
			order = append(order, t.CategoryID)
		}
		perCategory[t.CategoryID] = perCategory[t.CategoryID].Add(t.Amount)
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpenses)

	for _, id := range order {
		total := perCategory[id]
		pct := decimal.Zero
		if summary.TotalExpenses.Sign() > 0 {
			pct = total.Mul(decimal.NewFromInt(100)).Div(summary.TotalExpenses).Round(2)
		}
		ce := CategoryExpense{
			CategoryID: id,
			Total:      total,
			Percentage: pct,
		}
		if cat, ok := byID[id]; ok {
			ce.CategoryName = cat.Name
			ce.CategoryColor = cat.Color
		}
		summary.ExpensesByCategory = append(summary.ExpensesByCategory, ce)
	}
	// Biggest spenders first.
	sort.SliceStable(summary.ExpensesByCategory, func(i, j int) bool {
		return summary.ExpensesByCategory[i].Total.Cmp(summary.ExpensesByCategory[j].Total) > 0
	})
	return summary, nil
}
