// Package export renders the full expense collection as a CSV download.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"tracker/internal/core"
	"tracker/internal/storage"
)

const (
	Header      = "id,description,amount,category,date"
	ContentType = "text/csv; charset=utf-8"
	Filename    = "expenses.csv"
)

// Lister is the read side of the store the formatter needs.
type Lister interface {
	List(ctx context.Context, order storage.Order) ([]core.Expense, error)
}

// Formatter serializes every stored expense in ascending (date, id) order.
type Formatter struct {
	store Lister
}

func NewFormatter(store Lister) *Formatter {
	return &Formatter{store: store}
}

// Export fetches all records and returns the CSV document. Nothing is
// returned when the fetch fails.
func (f *Formatter) Export(ctx context.Context) ([]byte, error) {
	expenses, err := f.store.List(ctx, storage.OrderExport)
	if err != nil {
		return nil, fmt.Errorf("fetch expenses for export: %w", err)
	}
	return Format(expenses), nil
}

// Format writes the header and one line per expense. Lines are separated by
// "\n" with no terminator after the last one. Description and category are
// always quoted; id, amount and date are written raw.
func Format(expenses []core.Expense) []byte {
	var buf bytes.Buffer
	buf.WriteString(Header)
	for _, e := range expenses {
		buf.WriteByte('\n')
		buf.WriteString(strconv.FormatInt(e.ID, 10))
		buf.WriteByte(',')
		buf.WriteString(Quote(e.Description))
		buf.WriteByte(',')
		buf.WriteString(core.FormatAmount(e.Amount))
		buf.WriteByte(',')
		buf.WriteString(Quote(e.Category))
		buf.WriteByte(',')
		buf.WriteString(e.Date)
	}
	return buf.Bytes()
}

// Quote wraps s in double quotes, doubling any embedded quote.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
