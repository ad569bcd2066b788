package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SavingsAmount     SavingsGoalMode = "amount"
	SavingsPercentage SavingsGoalMode = "percentage"
)

// DefaultAlertThreshold is the percentage of the available budget at
// which the plan starts flagging itself.
var DefaultAlertThreshold = decimal.NewFromInt(80)

type (
	SavingsGoalMode string

	// SavingsGoal is either a fixed monthly amount or a percentage of
	// the monthly income. Amount mode with value zero means no goal.
	SavingsGoal struct {
		Mode  SavingsGoalMode
		Value decimal.Decimal
	}

	// BudgetProfile holds the per-user knobs that drive budget planning.
	BudgetProfile struct {
		MonthlyIncome decimal.Decimal
		InitialBudget decimal.Decimal
		SavingsGoal   SavingsGoal
		// ExtraFixedExpenses covers fixed costs not tracked as
		// scheduled expenses. Nil counts as zero.
		ExtraFixedExpenses *decimal.Decimal
		AlertThreshold     decimal.Decimal
	}

	// BudgetPlanning is the computed monthly plan.
	BudgetPlanning struct {
		MonthlyIncome          decimal.Decimal
		ScheduledExpensesTotal decimal.Decimal
		ExtraFixedExpenses     decimal.Decimal
		TotalFixedExpenses     decimal.Decimal
		SavingsGoal            decimal.Decimal
		AvailableBudget        decimal.Decimal
		SpentThisMonth         decimal.Decimal
		RemainingBudget        decimal.Decimal
		BudgetPercentageUsed   decimal.Decimal
		AlertThreshold         decimal.Decimal
		IsOverThreshold        bool
		IsOverBudget           bool
	}
)

func (g SavingsGoal) Valid() bool {
	switch g.Mode {
	case SavingsAmount, SavingsPercentage:
		return !g.Value.IsNegative()
	}
	return false
}

// MonthlyAmount resolves the goal against the given monthly income.
func (g SavingsGoal) MonthlyAmount(income decimal.Decimal) decimal.Decimal {
	if g.Mode == SavingsPercentage {
		return income.Mul(g.Value).Div(hundred)
	}
	return g.Value
}

// SameMonth reports whether t falls in the same calendar month as ref.
// Both are evaluated in UTC; a transaction stamped late on the last day
// of the month in a western timezone still belongs to that month here.
func SameMonth(t, ref time.Time) bool {
	t, ref = t.UTC(), ref.UTC()
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}

// ComputeBudgetPlanning builds the monthly plan:
//
//	available = income - (scheduled monthly equivalents + extra fixed) - savings goal
//	spent     = this month's expense transactions, excluding schedule confirmations
//
// Confirmations are excluded because their schedules are already counted
// in the fixed total; counting both would double the cost. The available
// budget may go negative and is reported as-is. Percentage used is
// rounded to two decimals, once, and forced to zero when the available
// budget is not positive.
//
// Transactions outside the month of now, and income transactions, are
// ignored, so callers may pass a superset. Input order does not matter.
func ComputeBudgetPlanning(profile BudgetProfile, schedules []ScheduledExpense, transactions []Transaction, now time.Time) BudgetPlanning {
	scheduled := decimal.Zero
	for _, se := range schedules {
		if se.IsActive {
			scheduled = scheduled.Add(se.MonthlyEquivalent())
		}
	}

	extra := decimal.Zero
	if profile.ExtraFixedExpenses != nil {
		extra = *profile.ExtraFixedExpenses
	}
	totalFixed := scheduled.Add(extra)
	savings := profile.SavingsGoal.MonthlyAmount(profile.MonthlyIncome)
	available := profile.MonthlyIncome.Sub(totalFixed).Sub(savings)

	spent := decimal.Zero
	for _, t := range transactions {
		if t.Type != Expense || t.ScheduledExpenseID != nil {
			continue
		}
		if !SameMonth(t.Date, now) {
			continue
		}
		spent = spent.Add(t.Amount)
	}

	pct := decimal.Zero
	if available.Sign() > 0 {
		pct = percentOf(spent, available)
	}

	threshold := profile.AlertThreshold
	if threshold.IsZero() {
		threshold = DefaultAlertThreshold
	}

	return BudgetPlanning{
		MonthlyIncome:          profile.MonthlyIncome,
		ScheduledExpensesTotal: scheduled,
		ExtraFixedExpenses:     extra,
		TotalFixedExpenses:     totalFixed,
		SavingsGoal:            savings,
		AvailableBudget:        available,
		SpentThisMonth:         spent,
		RemainingBudget:        available.Sub(spent),
		BudgetPercentageUsed:   pct,
		AlertThreshold:         threshold,
		IsOverThreshold:        pct.Cmp(threshold) >= 0,
		IsOverBudget:           spent.Cmp(available) > 0,
	}
}
