package core

import (
	"testing"
)

func TestComputeCategorySummary(t *testing.T) {
	now := date(2025, 3, 15)
	cat := Category{ID: 3, Name: "Spesa", Color: "#22c55e", Type: Expense, MonthlyBudget: ptr(dec("100"))}

	t.Run("over budget", func(t *testing.T) {
		txs := []Transaction{
			{CategoryID: 3, Amount: dec("40"), Type: Expense, Date: date(2025, 3, 2)},
			{CategoryID: 3, Amount: dec("70"), Type: Expense, Date: date(2025, 3, 10)},
		}
		got := ComputeCategorySummary(cat, txs, now)

		if !got.SpentThisMonth.Equal(dec("110")) {
			t.Errorf("spent = %s, want 110", got.SpentThisMonth)
		}
		if got.RemainingBudget == nil || !got.RemainingBudget.Equal(dec("-10")) {
			t.Errorf("remaining = %v, want -10", got.RemainingBudget)
		}
		if got.BudgetPercentageUsed == nil || !got.BudgetPercentageUsed.Equal(dec("110")) {
			t.Errorf("percentage = %v, want 110", got.BudgetPercentageUsed)
		}
		if !got.IsOverBudget {
			t.Error("IsOverBudget = false, want true")
		}
	})

	t.Run("confirmations count toward category spend", func(t *testing.T) {
		txs := []Transaction{
			{CategoryID: 3, Amount: dec("60"), Type: Expense, Date: date(2025, 3, 2), ScheduledExpenseID: ptr(int64(9))},
		}
		got := ComputeCategorySummary(cat, txs, now)
		if !got.SpentThisMonth.Equal(dec("60")) {
			t.Errorf("spent = %s, want 60", got.SpentThisMonth)
		}
	})

	t.Run("other categories months and incomes ignored", func(t *testing.T) {
		txs := []Transaction{
			{CategoryID: 8, Amount: dec("500"), Type: Expense, Date: date(2025, 3, 2)},
			{CategoryID: 3, Amount: dec("25"), Type: Expense, Date: date(2025, 2, 27)},
			{CategoryID: 3, Amount: dec("99"), Type: Income, Date: date(2025, 3, 5)},
			{CategoryID: 3, Amount: dec("12.50"), Type: Expense, Date: date(2025, 3, 5)},
		}
		got := ComputeCategorySummary(cat, txs, now)
		if !got.SpentThisMonth.Equal(dec("12.50")) {
			t.Errorf("spent = %s, want 12.50", got.SpentThisMonth)
		}
		if got.IsOverBudget {
			t.Error("IsOverBudget = true, want false")
		}
	})

	t.Run("no budget leaves derived fields absent", func(t *testing.T) {
		unbudgeted := Category{ID: 4, Name: "Varie", Type: Expense}
		txs := []Transaction{
			{CategoryID: 4, Amount: dec("30"), Type: Expense, Date: date(2025, 3, 3)},
		}
		got := ComputeCategorySummary(unbudgeted, txs, now)
		if !got.SpentThisMonth.Equal(dec("30")) {
			t.Errorf("spent = %s, want 30", got.SpentThisMonth)
		}
		if got.MonthlyBudget != nil || got.RemainingBudget != nil || got.BudgetPercentageUsed != nil {
			t.Errorf("budget fields should be absent without a budget: %+v", got)
		}
		if got.IsOverBudget {
			t.Error("IsOverBudget = true, want false without a budget")
		}
	})

	t.Run("zero budget avoids division", func(t *testing.T) {
		strict := Category{ID: 5, Name: "Vizi", Type: Expense, MonthlyBudget: ptr(dec("0"))}
		txs := []Transaction{
			{CategoryID: 5, Amount: dec("10"), Type: Expense, Date: date(2025, 3, 3)},
		}
		got := ComputeCategorySummary(strict, txs, now)
		if got.BudgetPercentageUsed == nil || !got.BudgetPercentageUsed.IsZero() {
			t.Errorf("percentage = %v, want 0 for a zero budget", got.BudgetPercentageUsed)
		}
		if !got.IsOverBudget {
			t.Error("spending against a zero budget should flag over budget")
		}
	})

	t.Run("percentage rounds half away from zero", func(t *testing.T) {
		c := Category{ID: 6, Name: "Fuori", Type: Expense, MonthlyBudget: ptr(dec("300"))}
		txs := []Transaction{
			{CategoryID: 6, Amount: dec("100"), Type: Expense, Date: date(2025, 3, 3)},
		}
		got := ComputeCategorySummary(c, txs, now)
		if got.BudgetPercentageUsed == nil || !got.BudgetPercentageUsed.Equal(dec("33.33")) {
			t.Errorf("percentage = %v, want 33.33", got.BudgetPercentageUsed)
		}
	})
}

func TestSortByPercentageUsed(t *testing.T) {
	items := []CategoryBudgetSummary{
		{CategoryName: "a", BudgetPercentageUsed: ptr(dec("40"))},
		{CategoryName: "no-budget"},
		{CategoryName: "b", BudgetPercentageUsed: ptr(dec("110"))},
		{CategoryName: "c", BudgetPercentageUsed: ptr(dec("75.5"))},
	}
	SortByPercentageUsed(items)

	want := []string{"b", "c", "a", "no-budget"}
	for i, name := range want {
		if items[i].CategoryName != name {
			t.Fatalf("position %d = %s, want %s", i, items[i].CategoryName, name)
		}
	}
}
