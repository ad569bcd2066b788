package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"contabilita/internal/auth"
	"contabilita/internal/core"
	"contabilita/internal/storage"
)

type transactionDTO struct {
	ID                 int64           `json:"id"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	Date               string          `json:"date"`
	Type               string          `json:"type"`
	Notes              string          `json:"notes"`
	CategoryID         int64           `json:"categoryId"`
	ScheduledExpenseID *int64          `json:"scheduledExpenseId"`
}

type transactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Notes       string          `json:"notes"`
	CategoryID  int64           `json:"categoryId"`
}

func toTransactionDTO(t core.Transaction) transactionDTO {
	return transactionDTO{
		ID:                 t.ID,
		Amount:             t.Amount,
		Description:        t.Description,
		Date:               fmtDate(t.Date),
		Type:               string(t.Type),
		Notes:              t.Notes,
		CategoryID:         t.CategoryID,
		ScheduledExpenseID: t.ScheduledExpenseID,
	}
}

func (req transactionRequest) toCore(userID int64) (core.Transaction, error) {
	date, err := parseDateParam(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Amount:      req.Amount.Round(2),
		Description: sanitizeInput(req.Description),
		Date:        date,
		Type:        core.TransactionType(req.Type),
		Notes:       sanitizeInput(req.Notes),
		CategoryID:  req.CategoryID,
		UserID:      userID,
	}, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var filter storage.TransactionFilter
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("startDate")); v != "" {
		d, err := parseDateParam(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.From = &d
	}
	if v := strings.TrimSpace(q.Get("endDate")); v != "" {
		d, err := parseDateParam(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.To = &d
	}
	if v := strings.TrimSpace(q.Get("categoryId")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusBadRequest, "invalid categoryId")
			return
		}
		filter.CategoryID = &id
	}
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t := core.TransactionType(v)
		if !t.Valid() {
			respondError(w, http.StatusBadRequest, "invalid type")
			return
		}
		filter.Type = &t
	}

	transactions, err := s.store.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out := make([]transactionDTO, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionDTO(t))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := req.toCore(userID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.transactions.Create(r.Context(), tx)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransactionDTO(created))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := s.store.GetTransaction(r.Context(), userID, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionDTO(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	current, err := s.store.GetTransaction(r.Context(), userID, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := req.toCore(userID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx.ID = id
	// The schedule link survives edits.
	tx.ScheduledExpenseID = current.ScheduledExpenseID
	if err := tx.Validate(); err != nil {
		respondDomainError(w, err)
		return
	}

	if err := s.store.UpdateTransaction(r.Context(), tx); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionDTO(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteTransaction(r.Context(), userID, id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type monthSummaryDTO struct {
	TotalIncome        decimal.Decimal      `json:"totalIncome"`
	TotalExpenses      decimal.Decimal      `json:"totalExpenses"`
	Balance            decimal.Decimal      `json:"balance"`
	ExpensesByCategory []categoryExpenseDTO `json:"expensesByCategory"`
}

type categoryExpenseDTO struct {
	CategoryID    int64           `json:"categoryId"`
	CategoryName  string          `json:"categoryName"`
	CategoryColor string          `json:"categoryColor"`
	Total         decimal.Decimal `json:"total"`
	Percentage    decimal.Decimal `json:"percentage"`
}

func (s *Server) handleTransactionSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	year, month, err := parseYearMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.planning.Summarize(r.Context(), userID, year, month)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out := monthSummaryDTO{
		TotalIncome:        summary.TotalIncome,
		TotalExpenses:      summary.TotalExpenses,
		Balance:            summary.Balance,
		ExpensesByCategory: make([]categoryExpenseDTO, 0, len(summary.ExpensesByCategory)),
	}
	for _, ce := range summary.ExpensesByCategory {
		out.ExpensesByCategory = append(out.ExpensesByCategory, categoryExpenseDTO{
			CategoryID:    ce.CategoryID,
			CategoryName:  ce.CategoryName,
			CategoryColor: ce.CategoryColor,
			Total:         ce.Total,
			Percentage:    ce.Percentage,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

type budgetPlanningDTO struct {
	MonthlyIncome          decimal.Decimal `json:"monthlyIncome"`
	ScheduledExpensesTotal decimal.Decimal `json:"scheduledExpensesTotal"`
	ExtraFixedExpenses     decimal.Decimal `json:"extraFixedExpenses"`
	TotalFixedExpenses     decimal.Decimal `json:"totalFixedExpenses"`
	SavingsGoal            decimal.Decimal `json:"savingsGoal"`
	AvailableBudget        decimal.Decimal `json:"availableBudget"`
	SpentThisMonth         decimal.Decimal `json:"spentThisMonth"`
	RemainingBudget        decimal.Decimal `json:"remainingBudget"`
	BudgetPercentageUsed   decimal.Decimal `json:"budgetPercentageUsed"`
	AlertThreshold         decimal.Decimal `json:"alertThreshold"`
	IsOverThreshold        bool            `json:"isOverThreshold"`
	IsOverBudget           bool            `json:"isOverBudget"`
}

func (s *Server) handleBudgetPlanning(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	plan, err := s.planning.BudgetPlanning(r.Context(), userID, time.Now())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, budgetPlanningDTO{
		MonthlyIncome:          plan.MonthlyIncome,
		ScheduledExpensesTotal: plan.ScheduledExpensesTotal,
		ExtraFixedExpenses:     plan.ExtraFixedExpenses,
		TotalFixedExpenses:     plan.TotalFixedExpenses,
		SavingsGoal:            plan.SavingsGoal,
		AvailableBudget:        plan.AvailableBudget,
		SpentThisMonth:         plan.SpentThisMonth,
		RemainingBudget:        plan.RemainingBudget,
		BudgetPercentageUsed:   plan.BudgetPercentageUsed,
		AlertThreshold:         plan.AlertThreshold,
		IsOverThreshold:        plan.IsOverThreshold,
		IsOverBudget:           plan.IsOverBudget,
	})
}
