package dto

import "github.com/spendlog/spendlog-be/internal/models"

// ExpenseRequest carries the client-supplied fields of an expense. The id
// is always store-assigned; on update every field replaces the stored one.
type ExpenseRequest struct {
	Amount   float64     `json:"amount"`
	Date     models.Date `json:"date"`
	Note     string      `json:"note"`
	Category string      `json:"category"`
}

// ToExpense maps the request onto a domain record.
func (r ExpenseRequest) ToExpense() models.Expense {
	return models.Expense{
		Amount:   r.Amount,
		Date:     r.Date,
		Note:     r.Note,
		Category: r.Category,
	}
}
