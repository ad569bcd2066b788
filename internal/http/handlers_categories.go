package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"contabilita/internal/auth"
	"contabilita/internal/core"
)

type categoryDTO struct {
	ID                 int64            `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	Color              string           `json:"color"`
	Icon               string           `json:"icon"`
	Type               string           `json:"type"`
	MonthlyBudget      *decimal.Decimal `json:"monthlyBudget"`
	RequireDescription bool             `json:"requireDescription"`
}

type categoryRequest struct {
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	Color              string           `json:"color"`
	Icon               string           `json:"icon"`
	Type               string           `json:"type"`
	MonthlyBudget      *decimal.Decimal `json:"monthlyBudget"`
	RequireDescription bool             `json:"requireDescription"`
}

func toCategoryDTO(c core.Category) categoryDTO {
	return categoryDTO{
		ID:                 c.ID,
		Name:               c.Name,
		Description:        c.Description,
		Color:              c.Color,
		Icon:               c.Icon,
		Type:               string(c.Type),
		MonthlyBudget:      c.MonthlyBudget,
		RequireDescription: c.RequireDescription,
	}
}

func (req categoryRequest) toCore(userID int64) core.Category {
	return core.Category{
		Name:               sanitizeInput(req.Name),
		Description:        sanitizeInput(req.Description),
		Color:              sanitizeInput(req.Color),
		Icon:               sanitizeInput(req.Icon),
		Type:               core.TransactionType(req.Type),
		MonthlyBudget:      req.MonthlyBudget,
		RequireDescription: req.RequireDescription,
		UserID:             userID,
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	categories, err := s.store.ListCategories(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out := make([]categoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryDTO(c))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	cat := req.toCore(userID)
	if err := cat.Validate(); err != nil {
		respondDomainError(w, err)
		return
	}

	created, err := s.store.CreateCategory(r.Context(), cat)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCategoryDTO(created))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	cat, err := s.store.GetCategory(r.Context(), userID, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryDTO(cat))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	cat := req.toCore(userID)
	cat.ID = id
	if err := cat.Validate(); err != nil {
		respondDomainError(w, err)
		return
	}

	if err := s.store.UpdateCategory(r.Context(), cat); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryDTO(cat))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteCategory(r.Context(), userID, id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categorySummaryDTO struct {
	CategoryID           int64            `json:"categoryId"`
	CategoryName         string           `json:"categoryName"`
	CategoryColor        string           `json:"categoryColor"`
	MonthlyBudget        *decimal.Decimal `json:"monthlyBudget"`
	SpentThisMonth       decimal.Decimal  `json:"spentThisMonth"`
	RemainingBudget      *decimal.Decimal `json:"remainingBudget"`
	BudgetPercentageUsed *decimal.Decimal `json:"budgetPercentageUsed"`
	IsOverBudget         bool             `json:"isOverBudget"`
}

func (s *Server) handleCategoryBudgetSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	year, month, err := parseYearMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summaries, err := s.planning.CategorySummaries(r.Context(), userID, year, month)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out := make([]categorySummaryDTO, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, categorySummaryDTO{
			CategoryID:           sum.CategoryID,
			CategoryName:         sum.CategoryName,
			CategoryColor:        sum.CategoryColor,
			MonthlyBudget:        sum.MonthlyBudget,
			SpentThisMonth:       sum.SpentThisMonth,
			RemainingBudget:      sum.RemainingBudget,
			BudgetPercentageUsed: sum.BudgetPercentageUsed,
			IsOverBudget:         sum.IsOverBudget,
		})
	}
	respondJSON(w, http.StatusOK, out)
}
