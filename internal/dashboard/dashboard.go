// Package dashboard derives the figures shown on the overview screens from
// the live ledger.
package dashboard

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"bolsillo/internal/closeout"
	"bolsillo/internal/core"
)

// Level grades how much of the salary has been spent.
type Level string

const (
	LevelOK       Level = "ok"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

var (
	hundred         = decimal.NewFromInt(100)
	warningPercent  = decimal.NewFromInt(50)
	criticalPercent = decimal.NewFromInt(80)
)

// Overview summarizes the active expenses against the salary. Percentages
// are of the salary and are zero when no salary is set.
type Overview struct {
	Salary      decimal.Decimal
	Total       decimal.Decimal
	Necessary   decimal.Decimal
	Unnecessary decimal.Decimal
	// Foreign is the total converted with the rate of each expense.
	Foreign   decimal.Decimal
	Remaining decimal.Decimal
	Count     int

	SpentPercent       decimal.Decimal
	NecessaryPercent   decimal.Decimal
	UnnecessaryPercent decimal.Decimal
	// RemainingPercent is |100 - SpentPercent|, the share left or overspent.
	RemainingPercent decimal.Decimal
	Overspent        bool
	Level            Level
}

func NewOverview(expenses []core.Expense, salary decimal.Decimal) Overview {
	t := closeout.Sum(expenses)
	o := Overview{
		Salary:             salary,
		Total:              t.Total,
		Necessary:          t.Necessary,
		Unnecessary:        t.Unnecessary,
		Foreign:            t.Foreign,
		Remaining:          salary.Sub(t.Total),
		Count:              t.Count,
		SpentPercent:       percent(t.Total, salary),
		NecessaryPercent:   percent(t.Necessary, salary),
		UnnecessaryPercent: percent(t.Unnecessary, salary),
	}
	if salary.IsPositive() {
		o.RemainingPercent = hundred.Sub(o.SpentPercent).Abs()
	} else {
		o.RemainingPercent = decimal.Zero
	}
	o.Overspent = o.Remaining.IsNegative()
	o.Level = LevelFor(o.SpentPercent)
	return o
}

// LevelFor grades a spent percentage: up to 50 is ok, up to 80 a warning,
// above that critical.
func LevelFor(spent decimal.Decimal) Level {
	switch {
	case spent.GreaterThan(criticalPercent):
		return LevelCritical
	case spent.GreaterThan(warningPercent):
		return LevelWarning
	default:
		return LevelOK
	}
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, 4)
}

// PriorityTasks returns up to n pending tasks, most urgent first. Tasks of
// the same priority keep their order.
func PriorityTasks(tasks []core.Task, n int) []core.Task {
	pending := make([]core.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	slices.SortStableFunc(pending, func(a, b core.Task) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
	if n >= 0 && len(pending) > n {
		pending = pending[:n]
	}
	return pending
}

// Filter selects tasks in a list view.
type Filter string

const (
	FilterActive    Filter = "active"
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
)

var Filters = []Filter{FilterActive, FilterAll, FilterCompleted}

var ErrInvalidFilter = errors.New("invalid filter")

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case "":
		return FilterActive, nil
	case FilterActive, FilterAll, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q: must be one of active, all, completed", ErrInvalidFilter, s)
	}
}

// FilterTasks applies f and lists pending tasks before completed ones,
// otherwise keeping the insertion order.
func FilterTasks(tasks []core.Task, f Filter) []core.Task {
	out := make([]core.Task, 0, len(tasks))
	for _, t := range tasks {
		switch {
		case f == FilterActive && t.Completed:
		case f == FilterCompleted && !t.Completed:
		default:
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b core.Task) int {
		return boolRank(a.Completed) - boolRank(b.Completed)
	})
	return out
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
