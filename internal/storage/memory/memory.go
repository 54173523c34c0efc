// Package memory provides an in-memory storage.Store used as the local
// development backend and as a test double. Its semantics mirror the
// Postgres implementation, including the cross-year month grouping.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spendlog/spendlog-be/internal/models"
	"github.com/spendlog/spendlog-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps users and expenses in maps guarded by a mutex.
type Store struct {
	mu            sync.RWMutex
	users         map[string]models.User
	expenses      map[int64]models.Expense
	nextUserID    int64
	nextExpenseID int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:         make(map[string]models.User),
		expenses:      make(map[int64]models.Expense),
		nextUserID:    1,
		nextExpenseID: 1,
	}
}

// Close is a no-op; there are no resources to release.
func (s *Store) Close() {}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Email]; exists {
		return models.User{}, storage.ErrAlreadyExists
	}
	user.ID = s.nextUserID
	s.nextUserID++
	user.CreatedAt = time.Now()
	s.users[user.Email] = user
	return user, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) CreateExpense(_ context.Context, e models.Expense) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextExpenseID
	s.nextExpenseID++
	e.CreatedAt = time.Now()
	s.expenses[e.ID] = e
	return e, nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[id]
	if !ok {
		return models.Expense{}, storage.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListExpenses(_ context.Context) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(models.Expense) bool { return true }), nil
}

func (s *Store) UpdateExpense(_ context.Context, id int64, e models.Expense) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.expenses[id]
	if !ok {
		return models.Expense{}, storage.ErrNotFound
	}
	e.ID = stored.ID
	e.CreatedAt = stored.CreatedAt
	s.expenses[id] = e
	return e, nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.expenses[id]
	delete(s.expenses, id)
	return existed, nil
}

func (s *Store) FilterByCategory(_ context.Context, category string) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(e models.Expense) bool { return e.Category == category }), nil
}

func (s *Store) FilterByDateRange(_ context.Context, start, end models.Date) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(e models.Expense) bool {
		return !e.Date.Before(start.Time) && !e.Date.After(end.Time)
	}), nil
}

func (s *Store) TotalSpent(_ context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, e := range s.expenses {
		total += e.Amount
	}
	return total, nil
}

func (s *Store) TotalByCategory(_ context.Context) ([]models.CategoryTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCategory := make(map[string]float64)
	for _, e := range s.expenses {
		byCategory[e.Category] += e.Amount
	}

	totals := make([]models.CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		totals = append(totals, models.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Category < totals[j].Category })
	return totals, nil
}

func (s *Store) TotalByMonth(_ context.Context) ([]models.MonthTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byMonth := make(map[int]float64)
	for _, e := range s.expenses {
		byMonth[e.Date.Month()] += e.Amount
	}

	totals := make([]models.MonthTotal, 0, len(byMonth))
	for month, total := range byMonth {
		totals = append(totals, models.MonthTotal{Month: month, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Month < totals[j].Month })
	return totals, nil
}

// collect returns matching expenses ordered by id, the storage order the
// Postgres backend also uses.
func (s *Store) collect(match func(models.Expense) bool) []models.Expense {
	out := []models.Expense{}
	for _, e := range s.expenses {
		if match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
