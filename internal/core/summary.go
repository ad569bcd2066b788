package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryBudgetSummary is a category's month-to-date spend measured
// against its monthly budget. The budget-derived fields are nil when
// the category has no budget set: a category without a budget has no
// remaining amount, not a remaining amount of zero.
type CategoryBudgetSummary struct {
	CategoryID           int64
	CategoryName         string
	CategoryColor        string
	MonthlyBudget        *decimal.Decimal
	SpentThisMonth       decimal.Decimal
	RemainingBudget      *decimal.Decimal
	BudgetPercentageUsed *decimal.Decimal
	IsOverBudget         bool
}

// ComputeCategorySummary aggregates the category's expense transactions
// for the month of now. Unlike budget planning, schedule confirmations
// count here: the question is how much the category cost, not where the
// discretionary budget went. Percentage used is zero when the budget is
// zero.
func ComputeCategorySummary(cat Category, transactions []Transaction, now time.Time) CategoryBudgetSummary {
	spent := decimal.Zero
	for _, t := range transactions {
		if t.CategoryID != cat.ID || t.Type != Expense {
			continue
		}
		if !SameMonth(t.Date, now) {
			continue
		}
		spent = spent.Add(t.Amount)
	}

	s := CategoryBudgetSummary{
		CategoryID:     cat.ID,
		CategoryName:   cat.Name,
		CategoryColor:  cat.Color,
		SpentThisMonth: spent,
	}
	if cat.MonthlyBudget == nil {
		return s
	}

	budget := *cat.MonthlyBudget
	remaining := budget.Sub(spent)
	pct := decimal.Zero
	if budget.Sign() > 0 {
		pct = percentOf(spent, budget)
	}
	s.MonthlyBudget = &budget
	s.RemainingBudget = &remaining
	s.BudgetPercentageUsed = &pct
	s.IsOverBudget = spent.Cmp(budget) > 0
	return s
}

// SortByPercentageUsed orders summaries by budget usage, highest first,
// so the categories closest to blowing their budget surface on top.
// Summaries without a percentage sort last.
func SortByPercentageUsed(items []CategoryBudgetSummary) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].BudgetPercentageUsed, items[j].BudgetPercentageUsed
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Cmp(*b) > 0
		}
	})
}
