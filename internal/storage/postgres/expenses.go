package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spendlog/spendlog-be/internal/models"
	"github.com/spendlog/spendlog-be/internal/storage"
)

const expenseColumns = "id, amount, date, note, category, created_at"

// CreateExpense inserts a record and returns it with the assigned id.
func (s *Store) CreateExpense(ctx context.Context, e models.Expense) (models.Expense, error) {
	query := `
	INSERT INTO expenses (amount, date, note, category)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + expenseColumns + `;`
	row := s.pool.QueryRow(ctx, query, e.Amount, e.Date.Time, e.Note, e.Category)
	created, err := scanExpense(row)
	if err != nil {
		return models.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	s.logger.InfoContext(ctx, "expense created", "id", created.ID, "amount", created.Amount, "category", created.Category)
	return created, nil
}

// GetExpense fetches a single record by id.
func (s *Store) GetExpense(ctx context.Context, id int64) (models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1;`
	return scanExpense(s.pool.QueryRow(ctx, query, id))
}

// ListExpenses returns every record in storage order.
func (s *Store) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses ORDER BY id;`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return collectExpenses(rows)
}

// UpdateExpense overwrites every field of the stored record.
func (s *Store) UpdateExpense(ctx context.Context, id int64, e models.Expense) (models.Expense, error) {
	query := `
	UPDATE expenses
	SET amount = $1, date = $2, note = $3, category = $4
	WHERE id = $5
	RETURNING ` + expenseColumns + `;`
	row := s.pool.QueryRow(ctx, query, e.Amount, e.Date.Time, e.Note, e.Category, id)
	return scanExpense(row)
}

// DeleteExpense removes a record by id, reporting whether a row was
// deleted. Deleting an absent id is a no-op.
func (s *Store) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1;`, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FilterByCategory returns records whose category matches exactly.
func (s *Store) FilterByCategory(ctx context.Context, category string) ([]models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE category = $1 ORDER BY id;`
	rows, err := s.pool.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("filter by category: %w", err)
	}
	return collectExpenses(rows)
}

// FilterByDateRange returns records with start <= date <= end. An inverted
// range matches nothing.
func (s *Store) FilterByDateRange(ctx context.Context, start, end models.Date) ([]models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE date BETWEEN $1 AND $2 ORDER BY id;`
	rows, err := s.pool.Query(ctx, query, start.Time, end.Time)
	if err != nil {
		return nil, fmt.Errorf("filter by date range: %w", err)
	}
	return collectExpenses(rows)
}

// TotalSpent sums all amounts, coercing the empty-table NULL to zero.
func (s *Store) TotalSpent(ctx context.Context) (float64, error) {
	var total float64
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM expenses;`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total spent: %w", err)
	}
	return total, nil
}

// TotalByCategory groups totals by exact category string; the empty
// category forms its own group.
func (s *Store) TotalByCategory(ctx context.Context) ([]models.CategoryTotal, error) {
	rows, err := s.pool.Query(ctx, `SELECT category, SUM(amount) FROM expenses GROUP BY category ORDER BY category;`)
	if err != nil {
		return nil, fmt.Errorf("total by category: %w", err)
	}
	defer rows.Close()

	totals := []models.CategoryTotal{}
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

// TotalByMonth groups totals by calendar month, ignoring the year. Two
// expenses in January of different years land in the same row.
func (s *Store) TotalByMonth(ctx context.Context) ([]models.MonthTotal, error) {
	rows, err := s.pool.Query(ctx, `SELECT EXTRACT(MONTH FROM date)::int AS month, SUM(amount) FROM expenses GROUP BY month ORDER BY month;`)
	if err != nil {
		return nil, fmt.Errorf("total by month: %w", err)
	}
	defer rows.Close()

	totals := []models.MonthTotal{}
	for rows.Next() {
		var mt models.MonthTotal
		if err := rows.Scan(&mt.Month, &mt.Total); err != nil {
			return nil, fmt.Errorf("scan month total: %w", err)
		}
		totals = append(totals, mt)
	}
	return totals, rows.Err()
}

func scanExpense(row pgx.Row) (models.Expense, error) {
	var e models.Expense
	if err := row.Scan(&e.ID, &e.Amount, &e.Date.Time, &e.Note, &e.Category, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Expense{}, storage.ErrNotFound
		}
		return models.Expense{}, err
	}
	return e, nil
}

func collectExpenses(rows pgx.Rows) ([]models.Expense, error) {
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Amount, &e.Date.Time, &e.Note, &e.Category, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
