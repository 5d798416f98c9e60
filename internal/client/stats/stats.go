// Package stats computes the dashboard and statistics views over a list of
// transactions. All functions are pure; amounts are summed as decimals.
package stats

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wealflow/wealflow/internal/client/models"
)

var hundred = decimal.NewFromInt(100)

type Summary struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	// Balance is the net flow: income minus expenses.
	Balance decimal.Decimal
	// SavingsRate is a percentage, zero when there is no income.
	SavingsRate decimal.Decimal
	Count       int
}

func Summarize(txs []models.Transaction) Summary {
	s := Summary{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, t := range txs {
		amt := decimal.NewFromFloat(t.Amount)
		if t.IsIncome() {
			s.Income = s.Income.Add(amt)
		} else {
			s.Expenses = s.Expenses.Add(amt)
		}
	}
	s.Count = len(txs)
	s.Balance = s.Income.Sub(s.Expenses)
	s.SavingsRate = decimal.Zero
	if !s.Income.IsZero() {
		s.SavingsRate = s.Balance.Div(s.Income).Mul(hundred)
	}
	return s
}

type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

type Categories []CategoryTotal

// ByCategory sums the income (income=true) or expense transactions per
// category, largest first. Equal totals are ordered by name.
func ByCategory(txs []models.Transaction, income bool) Categories {
	idx := map[string]int{}
	var out Categories
	for _, t := range txs {
		if t.IsIncome() != income {
			continue
		}
		i, ok := idx[t.Category]
		if !ok {
			i = len(out)
			idx[t.Category] = i
			out = append(out, CategoryTotal{Category: t.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(decimal.NewFromFloat(t.Amount))
		out[i].Count++
	}

	sort.SliceStable(out, func(a, b int) bool {
		if c := out[a].Total.Cmp(out[b].Total); c != 0 {
			return c > 0
		}
		return out[a].Category < out[b].Category
	})
	return out
}

// Top returns at most n leading categories.
func (c Categories) Top(n int) Categories {
	if n < 0 {
		n = 0
	}
	if n >= len(c) {
		return c
	}
	return c[:n]
}

// Sum is the total over all categories.
func (c Categories) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, ct := range c {
		sum = sum.Add(ct.Total)
	}
	return sum
}

// Share returns ct's percentage of total, zero for an empty total.
func (ct CategoryTotal) Share(total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return ct.Total.Div(total).Mul(hundred)
}

// Recent returns the first n transactions; the cache is newest first.
func Recent(txs []models.Transaction, n int) []models.Transaction {
	if n < 0 {
		n = 0
	}
	if n > len(txs) {
		n = len(txs)
	}
	return txs[:n:n]
}
