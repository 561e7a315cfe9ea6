package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Breakdown is the spending split by category over a set of expenses.
type Breakdown struct {
	Total      float64          `json:"total"`
	Categories []CategoryAmount `json:"categories"`
}

// Summarize sums amounts per category. Categories keep the order in which
// they first appear in expenses.
func Summarize(expenses []Expense) Breakdown {
	b := Breakdown{Categories: []CategoryAmount{}}
	index := make(map[string]int)
	for _, e := range expenses {
		b.Total += e.Amount
		i, ok := index[e.Category]
		if !ok {
			i = len(b.Categories)
			index[e.Category] = i
			b.Categories = append(b.Categories, CategoryAmount{Category: e.Category})
		}
		b.Categories[i].Amount += e.Amount
	}
	return b
}
