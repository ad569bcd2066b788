package http

import (
	"context"
	"fmt"
	"sort"
	"time"

	"contabilita/internal/core"
	"contabilita/internal/storage"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	users        map[int64]core.User
	categories   map[int64]core.Category
	transactions map[int64]core.Transaction
	schedules    map[int64]core.ScheduledExpense
	events       map[int64]core.CalendarEvent
	caregivers   map[int64]core.Caregiver
	slots        map[string]core.ChildcareSlot
	nextID       int64

	pingErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[int64]core.User),
		categories:   make(map[int64]core.Category),
		transactions: make(map[int64]core.Transaction),
		schedules:    make(map[int64]core.ScheduledExpense),
		events:       make(map[int64]core.CalendarEvent),
		caregivers:   make(map[int64]core.Caregiver),
		slots:        make(map[string]core.ChildcareSlot),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func slotKey(userID int64, weekStart time.Time, day core.Weekday, slot core.TimeSlot) string {
	return fmt.Sprintf("%d|%s|%d|%s", userID, weekStart.Format("2006-01-02"), day, slot)
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) CreateUser(_ context.Context, email, passwordHash, firstName, lastName string) (core.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return core.User{}, core.ErrEmailTaken
		}
	}
	u := core.User{
		ID:           f.id(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Profile: core.BudgetProfile{
			SavingsGoal:    core.SavingsGoal{Mode: core.SavingsAmount},
			AlertThreshold: core.DefaultAlertThreshold,
		},
		CreatedAt: time.Now(),
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, core.ErrNotFound
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (core.User, error) {
	u, ok := f.users[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) UpdateBudgetProfile(_ context.Context, userID int64, p core.BudgetProfile) error {
	u, ok := f.users[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.Profile = p
	f.users[userID] = u
	return nil
}

func (f *fakeStore) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	c.ID = f.id()
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetCategory(_ context.Context, userID, id int64) (core.Category, error) {
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) ListCategories(_ context.Context, userID int64) ([]core.Category, error) {
	var out []core.Category
	for _, c := range f.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateCategory(_ context.Context, c core.Category) error {
	cur, ok := f.categories[c.ID]
	if !ok || cur.UserID != c.UserID {
		return core.ErrNotFound
	}
	f.categories[c.ID] = c
	return nil
}

func (f *fakeStore) DeleteCategory(_ context.Context, userID, id int64) error {
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return core.ErrNotFound
	}
	for _, t := range f.transactions {
		if t.CategoryID == id {
			return storage.ErrCategoryInUse
		}
	}
	for _, se := range f.schedules {
		if se.CategoryID == id {
			return storage.ErrCategoryInUse
		}
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeStore) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if _, ok := f.categories[t.CategoryID]; !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	t.ID = f.id()
	f.transactions[t.ID] = t
	return t, nil
}

func (f *fakeStore) GetTransaction(_ context.Context, userID, id int64) (core.Transaction, error) {
	t, ok := f.transactions[id]
	if !ok || t.UserID != userID {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) ListTransactions(_ context.Context, userID int64, filter storage.TransactionFilter) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.UserID != userID {
			continue
		}
		if filter.From != nil && t.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && t.Date.After(*filter.To) {
			continue
		}
		if filter.CategoryID != nil && t.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListMonthTransactions(_ context.Context, userID int64, year int, month time.Month) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.UserID == userID && t.Date.Year() == year && t.Date.Month() == month {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateTransaction(_ context.Context, t core.Transaction) error {
	cur, ok := f.transactions[t.ID]
	if !ok || cur.UserID != t.UserID {
		return core.ErrNotFound
	}
	f.transactions[t.ID] = t
	return nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, userID, id int64) error {
	t, ok := f.transactions[id]
	if !ok || t.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.transactions, id)
	return nil
}

func (f *fakeStore) CreateSchedule(_ context.Context, se core.ScheduledExpense) (core.ScheduledExpense, error) {
	se.ID = f.id()
	f.schedules[se.ID] = se
	return se, nil
}

func (f *fakeStore) GetSchedule(_ context.Context, userID, id int64) (core.ScheduledExpense, error) {
	se, ok := f.schedules[id]
	if !ok || se.UserID != userID {
		return core.ScheduledExpense{}, core.ErrNotFound
	}
	return se, nil
}

func (f *fakeStore) ListSchedules(_ context.Context, userID int64) ([]core.ScheduledExpense, error) {
	var out []core.ScheduledExpense
	for _, se := range f.schedules {
		if se.UserID == userID {
			out = append(out, se)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateSchedule(_ context.Context, se core.ScheduledExpense) error {
	cur, ok := f.schedules[se.ID]
	if !ok || cur.UserID != se.UserID {
		return core.ErrNotFound
	}
	f.schedules[se.ID] = se
	return nil
}

func (f *fakeStore) DeleteSchedule(_ context.Context, userID, id int64) error {
	se, ok := f.schedules[id]
	if !ok || se.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.schedules, id)
	return nil
}

func (f *fakeStore) ApplyConfirmation(_ context.Context, conf core.Confirmation) (core.Transaction, error) {
	cur, ok := f.schedules[conf.Schedule.ID]
	if !ok || cur.UserID != conf.Schedule.UserID {
		return core.Transaction{}, core.ErrNotFound
	}
	f.schedules[conf.Schedule.ID] = conf.Schedule
	t := conf.Transaction
	t.ID = f.id()
	f.transactions[t.ID] = t
	return t, nil
}

func (f *fakeStore) CreateEvent(_ context.Context, e core.CalendarEvent) (core.CalendarEvent, error) {
	e.ID = f.id()
	f.events[e.ID] = e
	return e, nil
}

func (f *fakeStore) GetEvent(_ context.Context, userID, id int64) (core.CalendarEvent, error) {
	e, ok := f.events[id]
	if !ok || e.UserID != userID {
		return core.CalendarEvent{}, core.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) ListEvents(_ context.Context, userID int64, from, to *time.Time) ([]core.CalendarEvent, error) {
	var out []core.CalendarEvent
	for _, e := range f.events {
		if e.UserID != userID {
			continue
		}
		if from != nil && e.StartDate.Before(*from) {
			continue
		}
		if to != nil && e.StartDate.After(*to) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateEvent(_ context.Context, e core.CalendarEvent) error {
	cur, ok := f.events[e.ID]
	if !ok || cur.UserID != e.UserID {
		return core.ErrNotFound
	}
	f.events[e.ID] = e
	return nil
}

func (f *fakeStore) DeleteEvent(_ context.Context, userID, id int64) error {
	e, ok := f.events[id]
	if !ok || e.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeStore) CreateCaregiver(_ context.Context, c core.Caregiver) (core.Caregiver, error) {
	c.ID = f.id()
	f.caregivers[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetCaregiver(_ context.Context, userID, id int64) (core.Caregiver, error) {
	c, ok := f.caregivers[id]
	if !ok || c.UserID != userID {
		return core.Caregiver{}, core.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) ListCaregivers(_ context.Context, userID int64, activeOnly bool) ([]core.Caregiver, error) {
	var out []core.Caregiver
	for _, c := range f.caregivers {
		if c.UserID != userID {
			continue
		}
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateCaregiver(_ context.Context, c core.Caregiver) error {
	cur, ok := f.caregivers[c.ID]
	if !ok || cur.UserID != c.UserID {
		return core.ErrNotFound
	}
	f.caregivers[c.ID] = c
	return nil
}

func (f *fakeStore) DeleteCaregiver(_ context.Context, userID, id int64) error {
	c, ok := f.caregivers[id]
	if !ok || c.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.caregivers, id)
	return nil
}

func (f *fakeStore) ListWeekSlots(_ context.Context, userID int64, weekStart time.Time) ([]storage.WeekSlot, error) {
	var out []storage.WeekSlot
	for _, s := range f.slots {
		if s.UserID != userID || !s.WeekStart.Equal(weekStart) {
			continue
		}
		cg := f.caregivers[s.CaregiverID]
		out = append(out, storage.WeekSlot{
			ChildcareSlot:  s,
			CaregiverName:  cg.Name,
			CaregiverColor: cg.Color,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Slot < out[j].Slot
	})
	return out, nil
}

func (f *fakeStore) UpsertSlot(_ context.Context, s core.ChildcareSlot) (core.ChildcareSlot, error) {
	key := slotKey(s.UserID, s.WeekStart, s.Day, s.Slot)
	if cur, ok := f.slots[key]; ok {
		s.ID = cur.ID
	} else {
		s.ID = f.id()
	}
	f.slots[key] = s
	return s, nil
}

func (f *fakeStore) DeleteSlot(_ context.Context, userID int64, weekStart time.Time, day core.Weekday, slot core.TimeSlot) error {
	delete(f.slots, slotKey(userID, weekStart, day, slot))
	return nil
}

func (f *fakeStore) ReplaceWeek(_ context.Context, userID int64, weekStart time.Time, slots []core.ChildcareSlot) error {
	for key, s := range f.slots {
		if s.UserID == userID && s.WeekStart.Equal(weekStart) {
			delete(f.slots, key)
		}
	}
	for _, s := range slots {
		s.ID = f.id()
		f.slots[slotKey(userID, weekStart, s.Day, s.Slot)] = s
	}
	return nil
}

func (f *fakeStore) CopyWeek(_ context.Context, userID int64, from, to time.Time) (int, error) {
	for key, s := range f.slots {
		if s.UserID == userID && s.WeekStart.Equal(to) {
			delete(f.slots, key)
		}
	}
	copied := 0
	for _, s := range f.slots {
		if s.UserID != userID || !s.WeekStart.Equal(from) {
			continue
		}
		dup := s
		dup.ID = f.id()
		dup.WeekStart = to
		f.slots[slotKey(userID, to, dup.Day, dup.Slot)] = dup
		copied++
	}
	return copied, nil
}

var _ Store = (*fakeStore)(nil)
