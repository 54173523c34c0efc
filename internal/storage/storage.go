package storage

import (
	"context"
	"errors"

	"github.com/spendlog/spendlog-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures the persistence operations behind register/login.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// ExpenseStore captures CRUD, filtering, and aggregation over expenses.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, e models.Expense) (models.Expense, error)
	GetExpense(ctx context.Context, id int64) (models.Expense, error)
	ListExpenses(ctx context.Context) ([]models.Expense, error)
	// UpdateExpense overwrites every field of the stored record.
	UpdateExpense(ctx context.Context, id int64, e models.Expense) (models.Expense, error)
	// DeleteExpense reports whether a row was removed; deleting an absent
	// id is a no-op, not an error.
	DeleteExpense(ctx context.Context, id int64) (bool, error)
	FilterByCategory(ctx context.Context, category string) ([]models.Expense, error)
	// FilterByDateRange uses inclusive bounds; an inverted range yields an
	// empty result rather than an error.
	FilterByDateRange(ctx context.Context, start, end models.Date) ([]models.Expense, error)
	TotalSpent(ctx context.Context) (float64, error)
	TotalByCategory(ctx context.Context) ([]models.CategoryTotal, error)
	TotalByMonth(ctx context.Context) ([]models.MonthTotal, error)
}

// Store is the full persistence surface a backend must provide.
type Store interface {
	UserStore
	ExpenseStore
	Close()
}
