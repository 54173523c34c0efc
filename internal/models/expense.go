package models

import (
	"errors"
	"strings"
	"time"
)

// MinAmount is the smallest amount an expense may carry.
const MinAmount = 1.0

var (
	ErrInvalidAmount = errors.New("amount must be at least 1")
	ErrMissingDate   = errors.New("date is required")
	ErrEmptyNote     = errors.New("note cannot be empty")
)

const dateLayout = "2006-01-02"

// Date is a calendar date marshalled as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

// Month returns the calendar month number 1..12, ignoring the year.
func (d Date) Month() int { return int(d.Time.Month()) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Expense is a single spending record. Expenses are global, not scoped to
// the user who created them.
type Expense struct {
	ID        int64     `json:"id"`
	Amount    float64   `json:"amount"`
	Date      Date      `json:"date"`
	Note      string    `json:"note"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate runs before every mutating store call.
func (e Expense) Validate() error {
	if e.Amount < MinAmount {
		return ErrInvalidAmount
	}
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	if strings.TrimSpace(e.Note) == "" {
		return ErrEmptyNote
	}
	return nil
}

// CategoryTotal is one row of the per-category summary. An empty Category
// groups the uncategorized expenses.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MonthTotal is one row of the per-month summary. Month is 1..12; expenses
// from the same month of different years land in the same row.
type MonthTotal struct {
	Month int     `json:"month"`
	Total float64 `json:"total"`
}
