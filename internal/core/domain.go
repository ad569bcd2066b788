package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Daily   Recurrence = "daily"
	Weekly  Recurrence = "weekly"
	Monthly Recurrence = "monthly"
	Yearly  Recurrence = "yearly"
)

type (
	TransactionType string

	Recurrence string

	Category struct {
		ID          int64
		Name        string
		Description string
		Color       string
		Icon        string
		Type        TransactionType
		// MonthlyBudget is nil when the category has no budget.
		// Zero is a valid budget and means something different from unset.
		MonthlyBudget      *decimal.Decimal
		RequireDescription bool
		UserID             int64
	}

	Transaction struct {
		ID          int64
		Amount      decimal.Decimal
		Description string
		Date        time.Time
		Type        TransactionType
		Notes       string
		CategoryID  int64
		UserID      int64
		// ScheduledExpenseID links a transaction produced by confirming a
		// scheduled expense back to its schedule. Nil for manual entries.
		ScheduledExpenseID *int64
	}

	ScheduledExpense struct {
		ID          int64
		Name        string
		Amount      decimal.Decimal
		Description string
		Recurrence  Recurrence
		StartDate   time.Time
		EndDate     *time.Time
		NextDueDate time.Time
		IsActive    bool
		CategoryID  int64
		UserID      int64
	}

	CalendarEvent struct {
		ID          int64
		Title       string
		Description string
		StartDate   time.Time
		EndDate     *time.Time
		AllDay      bool
		Color       string
		UserID      int64
	}

	Caregiver struct {
		ID           int64
		Name         string
		Relationship string
		Color        string
		Phone        string
		DisplayOrder int
		IsActive     bool
		UserID       int64
	}
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInactiveSchedule = errors.New("scheduled expense is not active")
	ErrEndBeforeStart   = errors.New("end date before start date")
	ErrEmailTaken       = errors.New("email already registered")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (r Recurrence) Valid() bool {
	switch r {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	if c.MonthlyBudget != nil && c.MonthlyBudget.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.Amount.Cmp(decimal.Zero) <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 500 {
		return errors.New("description too long (max 500 characters)")
	}
	if t.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	return nil
}

func (se ScheduledExpense) Validate() error {
	if strings.TrimSpace(se.Name) == "" {
		return ErrEmptyName
	}
	if len(se.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if se.Amount.Cmp(decimal.Zero) <= 0 {
		return ErrInvalidAmount
	}
	if !se.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}
	if se.StartDate.IsZero() {
		return errors.New("start date cannot be zero")
	}
	if se.EndDate != nil && se.EndDate.Before(se.StartDate) {
		return ErrEndBeforeStart
	}
	if se.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	return nil
}

func (e CalendarEvent) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("empty title")
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if e.StartDate.IsZero() {
		return errors.New("start date cannot be zero")
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

func (c Caregiver) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	return nil
}
