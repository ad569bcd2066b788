package core

import (
	"errors"
	"strings"
	"time"
)

// User is a family member's account. The budget profile drives the
// monthly planning computation.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Profile      BudgetProfile
	CreatedAt    time.Time
}

func (u User) Validate() error {
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email")
	}
	if u.PasswordHash == "" {
		return errors.New("missing password hash")
	}
	if !u.Profile.SavingsGoal.Valid() {
		return errors.New("invalid savings goal")
	}
	if u.Profile.MonthlyIncome.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
