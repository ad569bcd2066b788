package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"contabilita/internal/auth"
	"contabilita/internal/core"
)

type userDTO struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Profile   profileDTO `json:"profile"`
}

type profileDTO struct {
	MonthlyIncome      decimal.Decimal  `json:"monthlyIncome"`
	InitialBudget      decimal.Decimal  `json:"initialBudget"`
	SavingsGoalMode    string           `json:"savingsGoalMode"`
	SavingsGoalValue   decimal.Decimal  `json:"savingsGoalValue"`
	ExtraFixedExpenses *decimal.Decimal `json:"extraFixedExpenses"`
	AlertThreshold     decimal.Decimal  `json:"alertThreshold"`
}

func toUserDTO(u core.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Profile: profileDTO{
			MonthlyIncome:      u.Profile.MonthlyIncome,
			InitialBudget:      u.Profile.InitialBudget,
			SavingsGoalMode:    string(u.Profile.SavingsGoal.Mode),
			SavingsGoalValue:   u.Profile.SavingsGoal.Value,
			ExtraFixedExpenses: u.Profile.ExtraFixedExpenses,
			AlertThreshold:     u.Profile.AlertThreshold,
		},
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		respondError(w, http.StatusBadRequest, "invalid email")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.CreateUser(r.Context(), email, hash,
		sanitizeInput(req.FirstName), sanitizeInput(req.LastName))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	token := s.tokens.Issue(user.ID, time.Now())
	respondJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  toUserDTO(user),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		// Same answer for unknown email and wrong password.
		respondError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token := s.tokens.Issue(user.ID, time.Now())
	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserDTO(user),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req struct {
		MonthlyIncome      decimal.Decimal  `json:"monthlyIncome"`
		InitialBudget      decimal.Decimal  `json:"initialBudget"`
		SavingsGoalMode    string           `json:"savingsGoalMode"`
		SavingsGoalValue   decimal.Decimal  `json:"savingsGoalValue"`
		ExtraFixedExpenses *decimal.Decimal `json:"extraFixedExpenses"`
		AlertThreshold     *decimal.Decimal `json:"alertThreshold"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile := core.BudgetProfile{
		MonthlyIncome: req.MonthlyIncome,
		InitialBudget: req.InitialBudget,
		SavingsGoal: core.SavingsGoal{
			Mode:  core.SavingsGoalMode(req.SavingsGoalMode),
			Value: req.SavingsGoalValue,
		},
		ExtraFixedExpenses: req.ExtraFixedExpenses,
		AlertThreshold:     core.DefaultAlertThreshold,
	}
	if req.AlertThreshold != nil {
		profile.AlertThreshold = *req.AlertThreshold
	}

	if !profile.SavingsGoal.Valid() {
		respondError(w, http.StatusBadRequest, "invalid savings goal")
		return
	}
	if profile.MonthlyIncome.IsNegative() || profile.InitialBudget.IsNegative() {
		respondError(w, http.StatusBadRequest, "negative amounts not allowed")
		return
	}
	if req.ExtraFixedExpenses != nil && req.ExtraFixedExpenses.IsNegative() {
		respondError(w, http.StatusBadRequest, "negative amounts not allowed")
		return
	}
	if profile.AlertThreshold.Sign() <= 0 || profile.AlertThreshold.Cmp(decimal.NewFromInt(100)) > 0 {
		respondError(w, http.StatusBadRequest, "alert threshold must be between 1 and 100")
		return
	}

	if err := s.store.UpdateBudgetProfile(r.Context(), userID, profile); err != nil {
		respondDomainError(w, err)
		return
	}
	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserDTO(user))
}
