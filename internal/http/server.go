// Package http serves the JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"contabilita/internal/auth"
	"contabilita/internal/core"
	"contabilita/internal/services"
	"contabilita/internal/storage"
)

// Store is everything the handlers need from persistence. The SQLite
// repository satisfies it; tests plug in a fake.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, email, passwordHash, firstName, lastName string) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	GetUserByID(ctx context.Context, id int64) (core.User, error)
	UpdateBudgetProfile(ctx context.Context, userID int64, p core.BudgetProfile) error

	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	GetCategory(ctx context.Context, userID, id int64) (core.Category, error)
	ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, userID, id int64) error

	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, f storage.TransactionFilter) ([]core.Transaction, error)
	ListMonthTransactions(ctx context.Context, userID int64, year int, month time.Month) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error

	CreateSchedule(ctx context.Context, se core.ScheduledExpense) (core.ScheduledExpense, error)
	GetSchedule(ctx context.Context, userID, id int64) (core.ScheduledExpense, error)
	ListSchedules(ctx context.Context, userID int64) ([]core.ScheduledExpense, error)
	UpdateSchedule(ctx context.Context, se core.ScheduledExpense) error
	DeleteSchedule(ctx context.Context, userID, id int64) error
	ApplyConfirmation(ctx context.Context, conf core.Confirmation) (core.Transaction, error)

	CreateEvent(ctx context.Context, e core.CalendarEvent) (core.CalendarEvent, error)
	GetEvent(ctx context.Context, userID, id int64) (core.CalendarEvent, error)
	ListEvents(ctx context.Context, userID int64, from, to *time.Time) ([]core.CalendarEvent, error)
	UpdateEvent(ctx context.Context, e core.CalendarEvent) error
	DeleteEvent(ctx context.Context, userID, id int64) error

	CreateCaregiver(ctx context.Context, c core.Caregiver) (core.Caregiver, error)
	GetCaregiver(ctx context.Context, userID, id int64) (core.Caregiver, error)
	ListCaregivers(ctx context.Context, userID int64, activeOnly bool) ([]core.Caregiver, error)
	UpdateCaregiver(ctx context.Context, c core.Caregiver) error
	DeleteCaregiver(ctx context.Context, userID, id int64) error

	ListWeekSlots(ctx context.Context, userID int64, weekStart time.Time) ([]storage.WeekSlot, error)
	UpsertSlot(ctx context.Context, s core.ChildcareSlot) (core.ChildcareSlot, error)
	DeleteSlot(ctx context.Context, userID int64, weekStart time.Time, day core.Weekday, slot core.TimeSlot) error
	ReplaceWeek(ctx context.Context, userID int64, weekStart time.Time, slots []core.ChildcareSlot) error
	CopyWeek(ctx context.Context, userID int64, from, to time.Time) (int, error)
}

type Server struct {
	http.Server

	store        Store
	tokens       *auth.TokenIssuer
	transactions *services.TransactionService
	schedules    *services.ScheduleService
	planning     *services.PlanningService

	rateLimiter  *rateLimiter
	metrics      *securityMetrics
	shutdownOnce sync.Once
}

// NewServer wires the API routes. publisher may be nil when the broker
// is not configured; export events are then skipped.
func NewServer(addr string, store Store, tokens *auth.TokenIssuer, publisher services.TransactionPublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		store:        store,
		tokens:       tokens,
		transactions: services.NewTransactionService(store, publisher),
		schedules:    services.NewScheduleService(store, publisher),
		planning:     services.NewPlanningService(store),
		rateLimiter:  newRateLimiter(),
		metrics:      &securityMetrics{},
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/register", s.wrap(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.wrap(s.handleLogin))
	mux.HandleFunc("GET /api/auth/me", s.protected(s.handleMe))
	mux.HandleFunc("PUT /api/auth/profile", s.protected(s.handleUpdateProfile))

	mux.HandleFunc("GET /api/categories", s.protected(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.protected(s.handleCreateCategory))
	mux.HandleFunc("GET /api/categories/budget-summary", s.protected(s.handleCategoryBudgetSummary))
	mux.HandleFunc("GET /api/categories/{id}", s.protected(s.handleGetCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.protected(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.protected(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/transactions", s.protected(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.protected(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/summary", s.protected(s.handleTransactionSummary))
	mux.HandleFunc("GET /api/transactions/budget-planning", s.protected(s.handleBudgetPlanning))
	mux.HandleFunc("GET /api/transactions/{id}", s.protected(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.protected(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.protected(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/scheduled-expenses", s.protected(s.handleListSchedules))
	mux.HandleFunc("POST /api/scheduled-expenses", s.protected(s.handleCreateSchedule))
	mux.HandleFunc("GET /api/scheduled-expenses/due", s.protected(s.handleDueSchedules))
	mux.HandleFunc("GET /api/scheduled-expenses/{id}", s.protected(s.handleGetSchedule))
	mux.HandleFunc("PUT /api/scheduled-expenses/{id}", s.protected(s.handleUpdateSchedule))
	mux.HandleFunc("DELETE /api/scheduled-expenses/{id}", s.protected(s.handleDeleteSchedule))
	mux.HandleFunc("POST /api/scheduled-expenses/{id}/confirm", s.protected(s.handleConfirmSchedule))
	mux.HandleFunc("POST /api/scheduled-expenses/{id}/skip", s.protected(s.handleSkipSchedule))

	mux.HandleFunc("GET /api/calendar-events", s.protected(s.handleListEvents))
	mux.HandleFunc("POST /api/calendar-events", s.protected(s.handleCreateEvent))
	mux.HandleFunc("GET /api/calendar-events/{id}", s.protected(s.handleGetEvent))
	mux.HandleFunc("PUT /api/calendar-events/{id}", s.protected(s.handleUpdateEvent))
	mux.HandleFunc("DELETE /api/calendar-events/{id}", s.protected(s.handleDeleteEvent))

	mux.HandleFunc("GET /api/caregivers", s.protected(s.handleListCaregivers))
	mux.HandleFunc("POST /api/caregivers", s.protected(s.handleCreateCaregiver))
	mux.HandleFunc("GET /api/caregivers/{id}", s.protected(s.handleGetCaregiver))
	mux.HandleFunc("PUT /api/caregivers/{id}", s.protected(s.handleUpdateCaregiver))
	mux.HandleFunc("DELETE /api/caregivers/{id}", s.protected(s.handleDeleteCaregiver))

	mux.HandleFunc("GET /api/childcare/week", s.protected(s.handleChildcareWeek))
	mux.HandleFunc("PUT /api/childcare/slot", s.protected(s.handleChildcareSlot))
	mux.HandleFunc("PUT /api/childcare/week", s.protected(s.handleChildcareReplaceWeek))
	mux.HandleFunc("POST /api/childcare/week/copy", s.protected(s.handleChildcareCopyWeek))

	return s
}

// protected chains the common middleware with bearer authentication.
func (s *Server) protected(next http.HandlerFunc) http.HandlerFunc {
	return s.wrap(s.tokens.RequireAuth(next))
}

// Shutdown stops the server and its background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
