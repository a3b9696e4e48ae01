package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

const (
	Mati Theme = "mati"
	Sofi Theme = "sofi"
)

type (
	Priority string

	Theme string

	// Expense is an amount spent in the local currency. DollarRate is the
	// number of local units per one foreign unit captured when the expense
	// was entered.
	Expense struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Amount      decimal.Decimal `json:"amount"`
		IsNecessary bool            `json:"isNecessary"`
		DollarRate  decimal.Decimal `json:"dollarRate"`
		Date        time.Time       `json:"date"`
		Archived    bool            `json:"archived,omitempty"`
		MonthClosed string          `json:"monthClosed,omitempty"`
	}

	Task struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Completed bool      `json:"completed"`
		Priority  Priority  `json:"priority"`
		Date      time.Time `json:"date"`
	}

	// MonthSummary is the immutable snapshot produced when a month is closed.
	MonthSummary struct {
		ID                  string          `json:"id"`
		Month               Month           `json:"month"`
		TotalIncome         decimal.Decimal `json:"totalIncome"`
		TotalExpenses       decimal.Decimal `json:"totalExpenses"`
		NetSavings          decimal.Decimal `json:"netSavings"`
		NecessaryExpenses   decimal.Decimal `json:"necessaryExpenses"`
		UnnecessaryExpenses decimal.Decimal `json:"unnecessaryExpenses"`
		TotalInUSD          decimal.Decimal `json:"totalInUSD"`
		ClosedAt            time.Time       `json:"closedAt"`
	}
)

var (
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrInvalidRate     = errors.New("dollar rate must be a positive number")
	ErrInvalidSalary   = errors.New("salary cannot be negative")
	ErrEmptyName       = errors.New("empty expense name")
	ErrEmptyTitle      = errors.New("empty task title")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidTheme    = errors.New("invalid theme")
)

// ParsePriority accepts low, medium or high in any case. An empty string is
// the default priority.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return Medium, nil
	case Low, Medium, High:
		return p, nil
	default:
		return "", fmt.Errorf("%w %q: must be one of low, medium, high", ErrInvalidPriority, s)
	}
}

// Rank orders priorities from the most urgent (0) to the least.
func (p Priority) Rank() int {
	switch p {
	case High:
		return 0
	case Medium:
		return 1
	default:
		return 2
	}
}

func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case Mati, Sofi:
		return t, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidTheme, s)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Mati {
		return Sofi
	}
	return Mati
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !e.DollarRate.IsPositive() {
		return ErrInvalidRate
	}
	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	switch t.Priority {
	case Low, Medium, High:
	default:
		return fmt.Errorf("%w %q", ErrInvalidPriority, t.Priority)
	}
	return nil
}
