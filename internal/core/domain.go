package core

import (
	"fmt"
	"strings"
)

// DateLayout is the calendar layout dates are exchanged and stored in.
// Dates are kept as text and compared lexically, never parsed.
const DateLayout = "2006-01-02"

type (
	// Fields are the mutable parts of an expense, replaced together on update.
	Fields struct {
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Date        string  `json:"date"`
	}

	// Expense is a single persisted spending event.
	Expense struct {
		ID          int64   `json:"id"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Date        string  `json:"date"`
	}
)

// Validate reports every required field that is empty. A zero amount counts
// as missing.
func (f Fields) Validate() error {
	var missing []string
	if f.Description == "" {
		missing = append(missing, "description")
	}
	if f.Amount == 0 {
		missing = append(missing, "amount")
	}
	if f.Category == "" {
		missing = append(missing, "category")
	}
	if f.Date == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}

// WithID builds the stored record for the given id.
func (f Fields) WithID(id int64) Expense {
	return Expense{
		ID:          id,
		Description: f.Description,
		Amount:      f.Amount,
		Category:    f.Category,
		Date:        f.Date,
	}
}

// Fields returns the mutable part of the record.
func (e Expense) Fields() Fields {
	return Fields{
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date,
	}
}
