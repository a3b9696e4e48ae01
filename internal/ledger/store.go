// Package ledger holds the live expenses, tasks, month summaries and salary,
// and keeps them in sync with a storage.KV.
//
// Every mutation is computed on a copy of the state, saved, and only then
// committed to memory. A failed save leaves the store as it was.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bolsillo/internal/closeout"
	"bolsillo/internal/core"
	"bolsillo/internal/log"
	"bolsillo/internal/storage"
)

// NewExpense is the user input for an expense. ID and date are assigned by
// the store.
type NewExpense struct {
	Name        string
	Amount      decimal.Decimal
	IsNecessary bool
	DollarRate  decimal.Decimal
}

type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	logger *log.Logger
	now    func() time.Time
	newID  func() string

	salary    decimal.Decimal
	expenses  []core.Expense
	todos     []core.Task
	summaries []core.MonthSummary
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentLedger) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs replaces the random UUID generator.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Open loads the state persisted in kv. Missing keys start empty. A value
// that cannot be decoded is logged and replaced by the empty value; only
// read failures of the store itself are returned.
func Open(ctx context.Context, kv storage.KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:     kv,
		logger: log.Discard(),
		now:    time.Now,
		newID:  uuid.NewString,
		salary: decimal.Zero,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(ctx, storage.KeySalary, &s.salary); err != nil {
		return nil, err
	}
	if s.salary.IsNegative() {
		s.logger.WarnContext(ctx, "Negative salary in store, resetting", log.FieldKey, storage.KeySalary)
		s.salary = decimal.Zero
	}
	if err := s.load(ctx, storage.KeyExpenses, &s.expenses); err != nil {
		return nil, err
	}
	if err := s.load(ctx, storage.KeyTodos, &s.todos); err != nil {
		return nil, err
	}
	if err := s.load(ctx, storage.KeySummaries, &s.summaries); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad,
		"expenses", len(s.expenses),
		"todos", len(s.todos),
		"summaries", len(s.summaries))
	return s, nil
}

func (s *Store) load(ctx context.Context, key string, v any) error {
	found, err := storage.GetJSON(ctx, s.kv, key, v)
	if err == nil {
		return nil
	}
	if !found {
		return fmt.Errorf("load %s: %w", key, err)
	}
	s.logger.WarnContext(ctx, "Discarding malformed value",
		log.FieldKey, key,
		log.FieldError, err)
	resetZero(v)
	return nil
}

func resetZero(v any) {
	switch p := v.(type) {
	case *decimal.Decimal:
		*p = decimal.Zero
	case *[]core.Expense:
		*p = nil
	case *[]core.Task:
		*p = nil
	case *[]core.MonthSummary:
		*p = nil
	}
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	if err := storage.SetJSON(ctx, s.kv, key, v); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Salary returns the monthly salary.
func (s *Store) Salary() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.salary
}

// Expenses returns a copy of the active expenses in insertion order.
func (s *Store) Expenses() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.expenses)
}

// Todos returns a copy of the tasks in insertion order.
func (s *Store) Todos() []core.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.todos)
}

// Summaries returns a copy of the month summaries, oldest first.
func (s *Store) Summaries() []core.MonthSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.summaries)
}

// Summary returns the summary with the given id.
func (s *Store) Summary(id string) (core.MonthSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.summaries {
		if m.ID == id {
			return m, true
		}
	}
	return core.MonthSummary{}, false
}

// SetSalary replaces the monthly salary. Negative amounts are rejected.
func (s *Store) SetSalary(ctx context.Context, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return core.ErrInvalidSalary
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, storage.KeySalary, amount); err != nil {
		s.logger.Fail(ctx, "Failed to save salary", err, log.FieldOperation, log.OpSetSalary)
		return err
	}
	s.salary = amount
	s.logger.InfoContext(ctx, "Salary updated", log.FieldOperation, log.OpSetSalary, log.FieldAmount, amount.String())
	return nil
}

// AddExpense validates in, stores it with a fresh id and the current time,
// and returns the created expense.
func (s *Store) AddExpense(ctx context.Context, in NewExpense) (core.Expense, error) {
	e := core.Expense{
		Name:        strings.TrimSpace(in.Name),
		Amount:      in.Amount,
		IsNecessary: in.IsNecessary,
		DollarRate:  in.DollarRate,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.newID()
	e.Date = s.now().UTC()

	next := append(slices.Clone(s.expenses), e)
	if err := s.save(ctx, storage.KeyExpenses, next); err != nil {
		s.logger.Fail(ctx, "Failed to save expense", err, log.FieldOperation, log.OpAddExpense)
		return core.Expense{}, err
	}
	s.expenses = next

	fields := log.NewFields().
		WithOperation(log.OpAddExpense).
		WithExpense(e.ID, e.Name, e.Amount.String(), e.DollarRate.String())
	s.logger.InfoContext(ctx, "Expense added", fields.ToSlice()...)
	return e, nil
}

// DeleteExpense removes the expense with the given id and returns the
// remaining expenses. An unknown id changes nothing.
func (s *Store) DeleteExpense(ctx context.Context, id string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.expenses, func(e core.Expense) bool { return e.ID == id })
	if idx < 0 {
		return slices.Clone(s.expenses), nil
	}

	next := slices.Delete(slices.Clone(s.expenses), idx, idx+1)
	if err := s.save(ctx, storage.KeyExpenses, next); err != nil {
		s.logger.Fail(ctx, "Failed to delete expense", err, log.FieldOperation, log.OpDelExpense, log.FieldExpenseID, id)
		return nil, err
	}
	s.expenses = next
	s.logger.InfoContext(ctx, "Expense deleted", log.FieldOperation, log.OpDelExpense, log.FieldExpenseID, id)
	return slices.Clone(next), nil
}

// AddTodo stores a pending task. The title is trimmed and must not be blank.
func (s *Store) AddTodo(ctx context.Context, title string, priority core.Priority) (core.Task, error) {
	t := core.Task{
		Title:    strings.TrimSpace(title),
		Priority: priority,
	}
	if err := t.Validate(); err != nil {
		return core.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.newID()
	t.Date = s.now().UTC()

	next := append(slices.Clone(s.todos), t)
	if err := s.save(ctx, storage.KeyTodos, next); err != nil {
		s.logger.Fail(ctx, "Failed to save task", err, log.FieldOperation, log.OpAddTodo)
		return core.Task{}, err
	}
	s.todos = next

	fields := log.NewFields().WithOperation(log.OpAddTodo).WithTask(t.ID, string(t.Priority))
	s.logger.InfoContext(ctx, "Task added", fields.ToSlice()...)
	return t, nil
}

// ToggleTodo flips the completion of a task and returns the tasks. An
// unknown id changes nothing.
func (s *Store) ToggleTodo(ctx context.Context, id string) ([]core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.todos, func(t core.Task) bool { return t.ID == id })
	if idx < 0 {
		return slices.Clone(s.todos), nil
	}

	next := slices.Clone(s.todos)
	next[idx].Completed = !next[idx].Completed
	if err := s.save(ctx, storage.KeyTodos, next); err != nil {
		s.logger.Fail(ctx, "Failed to toggle task", err, log.FieldOperation, log.OpToggleTodo, log.FieldTaskID, id)
		return nil, err
	}
	s.todos = next
	s.logger.InfoContext(ctx, "Task toggled",
		log.FieldOperation, log.OpToggleTodo,
		log.FieldTaskID, id,
		"completed", next[idx].Completed)
	return slices.Clone(next), nil
}

// DeleteTodo removes a task and returns the remaining ones. An unknown id
// changes nothing.
func (s *Store) DeleteTodo(ctx context.Context, id string) ([]core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.todos, func(t core.Task) bool { return t.ID == id })
	if idx < 0 {
		return slices.Clone(s.todos), nil
	}

	next := slices.Delete(slices.Clone(s.todos), idx, idx+1)
	if err := s.save(ctx, storage.KeyTodos, next); err != nil {
		s.logger.Fail(ctx, "Failed to delete task", err, log.FieldOperation, log.OpDelTodo, log.FieldTaskID, id)
		return nil, err
	}
	s.todos = next
	s.logger.InfoContext(ctx, "Task deleted", log.FieldOperation, log.OpDelTodo, log.FieldTaskID, id)
	return slices.Clone(next), nil
}

// CloseMonth summarizes month with the current salary as income, removes
// its expenses from the active ledger and appends the summary to the
// history.
func (s *Store) CloseMonth(ctx context.Context, month core.Month) (core.MonthSummary, error) {
	if _, err := core.ParseMonth(string(month)); err != nil {
		return core.MonthSummary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	summary, remaining := closeout.CloseMonth(s.expenses, s.salary, month, s.newID(), s.now())
	removed := len(s.expenses) - len(remaining)
	history := append(slices.Clone(s.summaries), summary)

	if err := s.save(ctx, storage.KeySummaries, history); err != nil {
		s.logger.Fail(ctx, "Failed to save month summary", err, log.FieldOperation, log.OpCloseMonth, log.FieldMonth, month)
		return core.MonthSummary{}, err
	}
	if err := s.save(ctx, storage.KeyExpenses, remaining); err != nil {
		s.logger.Fail(ctx, "Failed to save remaining expenses", err, log.FieldOperation, log.OpCloseMonth, log.FieldMonth, month)
		if rerr := s.save(ctx, storage.KeySummaries, s.summaries); rerr != nil {
			return core.MonthSummary{}, errors.Join(err, fmt.Errorf("restore history: %w", rerr))
		}
		return core.MonthSummary{}, err
	}
	s.summaries = history
	s.expenses = remaining

	s.logger.InfoContext(ctx, "Month closed",
		log.FieldOperation, log.OpCloseMonth,
		log.FieldMonth, month,
		log.FieldSummaryID, summary.ID,
		log.FieldCount, removed)
	return summary, nil
}
