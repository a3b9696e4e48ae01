// Package closeout computes the summary of a month and the ledger that
// remains once that month is closed.
package closeout

import (
	"time"

	"github.com/shopspring/decimal"

	"bolsillo/internal/core"
	"bolsillo/internal/currency"
)

// Totals aggregates the expenses of one month.
type Totals struct {
	Total       decimal.Decimal
	Necessary   decimal.Decimal
	Unnecessary decimal.Decimal
	// Foreign is the sum of every expense converted with its own rate.
	Foreign decimal.Decimal
	Count   int
}

// Partition splits expenses between those that belong to month and the
// others. Both slices keep the input order.
func Partition(expenses []core.Expense, month core.Month) (matching, others []core.Expense) {
	for _, e := range expenses {
		if month.Contains(e.Date) {
			matching = append(matching, e)
		} else {
			others = append(others, e)
		}
	}
	return matching, others
}

// Sum computes the totals of expenses. Archived entries are skipped.
func Sum(expenses []core.Expense) Totals {
	t := Totals{
		Total:       decimal.Zero,
		Necessary:   decimal.Zero,
		Unnecessary: decimal.Zero,
		Foreign:     decimal.Zero,
	}
	for _, e := range expenses {
		if e.Archived {
			continue
		}
		t.Total = t.Total.Add(e.Amount)
		if e.IsNecessary {
			t.Necessary = t.Necessary.Add(e.Amount)
		} else {
			t.Unnecessary = t.Unnecessary.Add(e.Amount)
		}
		t.Foreign = t.Foreign.Add(currency.Convert(e.Amount, e.DollarRate))
		t.Count++
	}
	return t
}

// CloseMonth builds the summary of month and returns the expenses that stay
// in the active ledger.
//
// income is used as is: callers pass the salary in effect when closing, not
// one associated with month. Expenses of month are dropped from the result,
// they are not flagged as archived.
func CloseMonth(expenses []core.Expense, income decimal.Decimal, month core.Month, id string, closedAt time.Time) (core.MonthSummary, []core.Expense) {
	matching, remaining := Partition(expenses, month)
	totals := Sum(matching)

	summary := core.MonthSummary{
		ID:                  id,
		Month:               month,
		TotalIncome:         income,
		TotalExpenses:       totals.Total,
		NetSavings:          income.Sub(totals.Total),
		NecessaryExpenses:   totals.Necessary,
		UnnecessaryExpenses: totals.Unnecessary,
		TotalInUSD:          totals.Foreign,
		ClosedAt:            closedAt.UTC(),
	}
	if remaining == nil {
		remaining = []core.Expense{}
	}
	return summary, remaining
}
