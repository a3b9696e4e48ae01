package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bolsillo/internal/core"
	"bolsillo/internal/storage"
	"bolsillo/internal/storage/memory"
)

var errDisk = errors.New("disk full")

// flakyKV fails every Set on the keys listed in failOn.
type flakyKV struct {
	*memory.Store
	failOn map[string]bool
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if f.failOn[key] {
		return errDisk
	}
	return f.Store.Set(ctx, key, value)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func openStore(t *testing.T, kv storage.KV, now time.Time) *Store {
	t.Helper()
	s, err := Open(context.Background(), kv, WithIDs(sequentialIDs()), WithClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOpenEmpty(t *testing.T) {
	s := openStore(t, memory.New(nil), time.Now())
	if !s.Salary().IsZero() {
		t.Errorf("Salary() = %s, want 0", s.Salary())
	}
	if len(s.Expenses()) != 0 || len(s.Todos()) != 0 || len(s.Summaries()) != 0 {
		t.Errorf("expected empty state")
	}
}

func TestOpenMalformedValues(t *testing.T) {
	kv := memory.New(map[string]string{
		storage.KeySalary:    "lots",
		storage.KeyExpenses:  "{not json",
		storage.KeyTodos:     `[{"id":"t1","title":"keep","completed":false,"priority":"high"}]`,
		storage.KeySummaries: `"oops"`,
	})
	s := openStore(t, kv, time.Now())

	if !s.Salary().IsZero() {
		t.Errorf("Salary() = %s, want 0", s.Salary())
	}
	if len(s.Expenses()) != 0 {
		t.Errorf("Expenses() = %v, want empty", s.Expenses())
	}
	if len(s.Summaries()) != 0 {
		t.Errorf("Summaries() = %v, want empty", s.Summaries())
	}
	if todos := s.Todos(); len(todos) != 1 || todos[0].Title != "keep" {
		t.Errorf("Todos() = %v, want the stored task", todos)
	}
}

func TestOpenReadsLegacyNumbers(t *testing.T) {
	kv := memory.New(map[string]string{
		storage.KeySalary: `150000`,
		storage.KeyExpenses: `[{"id":"e1","name":"Rent","amount":30000,"isNecessary":true,` +
			`"dollarRate":1000,"date":"2026-10-01T12:00:00.000Z"}]`,
	})
	s := openStore(t, kv, time.Now())

	if !s.Salary().Equal(dec("150000")) {
		t.Errorf("Salary() = %s, want 150000", s.Salary())
	}
	exp := s.Expenses()
	if len(exp) != 1 || !exp[0].Amount.Equal(dec("30000")) || !exp[0].DollarRate.Equal(dec("1000")) {
		t.Fatalf("Expenses() = %+v", exp)
	}
	if core.MonthOf(exp[0].Date) != "2026-10" {
		t.Errorf("date = %v, want October 2026", exp[0].Date)
	}
}

func TestOpenStoreFailure(t *testing.T) {
	kv := memory.New(nil)
	kv.Close()
	if _, err := Open(context.Background(), kv); !errors.Is(err, storage.ErrClosed) {
		t.Fatalf("Open() error = %v, want ErrClosed", err)
	}
}

func TestAddExpense(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 5, 9, 30, 0, 0, time.FixedZone("ART", -3*3600))
	kv := memory.New(nil)
	s := openStore(t, kv, now)

	e, err := s.AddExpense(ctx, NewExpense{Name: "  Groceries ", Amount: dec("1500.50"), DollarRate: dec("1000")})
	if err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	if e.ID != "id-1" || e.Name != "Groceries" || e.IsNecessary {
		t.Errorf("AddExpense() = %+v", e)
	}
	if e.Date.Location() != time.UTC || !e.Date.Equal(now) {
		t.Errorf("Date = %v, want %v in UTC", e.Date, now)
	}

	reopened := openStore(t, kv, now)
	got := reopened.Expenses()
	if len(got) != 1 || got[0].ID != e.ID || !got[0].Amount.Equal(e.Amount) {
		t.Fatalf("persisted expenses = %+v", got)
	}
}

func TestAddExpenseValidation(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, memory.New(nil), time.Now())

	tests := []struct {
		name string
		in   NewExpense
		want error
	}{
		{"blank name", NewExpense{Name: "  ", Amount: dec("1"), DollarRate: dec("1")}, core.ErrEmptyName},
		{"zero amount", NewExpense{Name: "a", Amount: decimal.Zero, DollarRate: dec("1")}, core.ErrInvalidAmount},
		{"negative amount", NewExpense{Name: "a", Amount: dec("-3"), DollarRate: dec("1")}, core.ErrInvalidAmount},
		{"zero rate", NewExpense{Name: "a", Amount: dec("1"), DollarRate: decimal.Zero}, core.ErrInvalidRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.AddExpense(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("AddExpense() error = %v, want %v", err, tt.want)
			}
		})
	}
	if len(s.Expenses()) != 0 {
		t.Errorf("rejected expenses were stored")
	}
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, memory.New(nil), time.Now())
	for _, name := range []string{"a", "b", "c"} {
		if _, err := s.AddExpense(ctx, NewExpense{Name: name, Amount: dec("1"), DollarRate: dec("1")}); err != nil {
			t.Fatal(err)
		}
	}

	left, err := s.DeleteExpense(ctx, "id-2")
	if err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}
	if len(left) != 2 || left[0].Name != "a" || left[1].Name != "c" {
		t.Errorf("DeleteExpense() = %+v", left)
	}

	left, err = s.DeleteExpense(ctx, "missing")
	if err != nil || len(left) != 2 {
		t.Errorf("deleting an unknown id: %v, %d left", err, len(left))
	}
}

func TestTodos(t *testing.T) {
	ctx := context.Background()
	kv := memory.New(nil)
	s := openStore(t, kv, time.Now())

	task, err := s.AddTodo(ctx, "  water plants  ", core.High)
	if err != nil {
		t.Fatalf("AddTodo() error = %v", err)
	}
	if task.Title != "water plants" || task.Completed || task.Priority != core.High {
		t.Errorf("AddTodo() = %+v", task)
	}

	if _, err := s.AddTodo(ctx, "   ", core.Low); !errors.Is(err, core.ErrEmptyTitle) {
		t.Errorf("blank title error = %v, want ErrEmptyTitle", err)
	}
	if _, err := s.AddTodo(ctx, "x", core.Priority("urgent")); !errors.Is(err, core.ErrInvalidPriority) {
		t.Errorf("bad priority error = %v, want ErrInvalidPriority", err)
	}
	if n := len(s.Todos()); n != 1 {
		t.Fatalf("len(Todos()) = %d, want 1", n)
	}

	todos, err := s.ToggleTodo(ctx, task.ID)
	if err != nil || !todos[0].Completed {
		t.Fatalf("ToggleTodo() = %+v, %v", todos, err)
	}
	todos, err = s.ToggleTodo(ctx, task.ID)
	if err != nil || todos[0].Completed {
		t.Fatalf("second ToggleTodo() = %+v, %v", todos, err)
	}

	before, _, _ := kv.Get(ctx, storage.KeyTodos)
	todos, err = s.ToggleTodo(ctx, "nope")
	if err != nil || len(todos) != 1 || todos[0].Completed {
		t.Errorf("toggling an unknown id changed the list: %+v, %v", todos, err)
	}
	after, _, _ := kv.Get(ctx, storage.KeyTodos)
	if before != after {
		t.Errorf("toggling an unknown id changed the store")
	}

	todos, err = s.DeleteTodo(ctx, task.ID)
	if err != nil || len(todos) != 0 {
		t.Errorf("DeleteTodo() = %+v, %v", todos, err)
	}
}

func TestSetSalary(t *testing.T) {
	ctx := context.Background()
	kv := memory.New(nil)
	s := openStore(t, kv, time.Now())

	if err := s.SetSalary(ctx, dec("-1")); !errors.Is(err, core.ErrInvalidSalary) {
		t.Errorf("SetSalary(-1) error = %v", err)
	}
	if err := s.SetSalary(ctx, decimal.Zero); err != nil {
		t.Errorf("SetSalary(0) error = %v", err)
	}
	if err := s.SetSalary(ctx, dec("250000.75")); err != nil {
		t.Fatalf("SetSalary() error = %v", err)
	}
	if got := openStore(t, kv, time.Now()).Salary(); !got.Equal(dec("250000.75")) {
		t.Errorf("persisted salary = %s", got)
	}
}

func TestCloseMonth(t *testing.T) {
	ctx := context.Background()
	kv := memory.New(nil)
	s := openStore(t, kv, time.Date(2026, 10, 10, 12, 0, 0, 0, time.UTC))

	if err := s.SetSalary(ctx, dec("100000")); err != nil {
		t.Fatal(err)
	}
	add := func(name string, amount string, necessary bool) {
		t.Helper()
		if _, err := s.AddExpense(ctx, NewExpense{Name: name, Amount: dec(amount), IsNecessary: necessary, DollarRate: dec("1000")}); err != nil {
			t.Fatal(err)
		}
	}
	add("rent", "30000", true)
	add("cinema", "20000", false)

	// an expense of the previous month
	s.now = fixedClock(time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC))
	add("gift", "5000", false)
	s.now = fixedClock(time.Date(2026, 10, 31, 23, 0, 0, 0, time.UTC))

	summary, err := s.CloseMonth(ctx, "2026-10")
	if err != nil {
		t.Fatalf("CloseMonth() error = %v", err)
	}
	if !summary.TotalExpenses.Equal(dec("50000")) || !summary.NetSavings.Equal(dec("50000")) ||
		!summary.TotalInUSD.Equal(dec("50")) {
		t.Errorf("CloseMonth() = %+v", summary)
	}
	if exp := s.Expenses(); len(exp) != 1 || exp[0].Name != "gift" {
		t.Errorf("Expenses() after close = %+v", exp)
	}
	if got, ok := s.Summary(summary.ID); !ok || got.Month != "2026-10" {
		t.Errorf("Summary(%s) = %+v, %v", summary.ID, got, ok)
	}

	reopened := openStore(t, kv, time.Now())
	if n := len(reopened.Summaries()); n != 1 {
		t.Errorf("persisted summaries = %d, want 1", n)
	}
	if n := len(reopened.Expenses()); n != 1 {
		t.Errorf("persisted expenses = %d, want 1", n)
	}

	// closing twice keeps both summaries, the second is empty
	again, err := s.CloseMonth(ctx, "2026-10")
	if err != nil {
		t.Fatal(err)
	}
	if !again.TotalExpenses.IsZero() || len(s.Summaries()) != 2 {
		t.Errorf("second close = %+v, %d summaries", again, len(s.Summaries()))
	}

	if _, err := s.CloseMonth(ctx, "October"); !errors.Is(err, core.ErrInvalidMonth) {
		t.Errorf("CloseMonth(bad month) error = %v", err)
	}
}

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{Store: memory.New(nil), failOn: map[string]bool{}}
	s := openStore(t, kv, time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC))

	if _, err := s.AddExpense(ctx, NewExpense{Name: "a", Amount: dec("10"), DollarRate: dec("1")}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddTodo(ctx, "t", core.Medium); err != nil {
		t.Fatal(err)
	}

	kv.failOn[storage.KeyExpenses] = true
	kv.failOn[storage.KeyTodos] = true
	kv.failOn[storage.KeySalary] = true

	if _, err := s.AddExpense(ctx, NewExpense{Name: "b", Amount: dec("1"), DollarRate: dec("1")}); !errors.Is(err, errDisk) {
		t.Errorf("AddExpense() error = %v", err)
	}
	if _, err := s.DeleteExpense(ctx, "id-1"); !errors.Is(err, errDisk) {
		t.Errorf("DeleteExpense() error = %v", err)
	}
	if _, err := s.ToggleTodo(ctx, "id-2"); !errors.Is(err, errDisk) {
		t.Errorf("ToggleTodo() error = %v", err)
	}
	if err := s.SetSalary(ctx, dec("5")); !errors.Is(err, errDisk) {
		t.Errorf("SetSalary() error = %v", err)
	}
	if len(s.Expenses()) != 1 || s.Todos()[0].Completed || !s.Salary().IsZero() {
		t.Errorf("state changed after failed saves")
	}

	// the summary is written but the expenses are not: the history is restored
	if _, err := s.CloseMonth(ctx, "2026-10"); !errors.Is(err, errDisk) {
		t.Errorf("CloseMonth() error = %v", err)
	}
	if len(s.Summaries()) != 0 || len(s.Expenses()) != 1 {
		t.Errorf("CloseMonth() partially applied")
	}
	var stored []core.MonthSummary
	if _, err := storage.GetJSON(ctx, kv, storage.KeySummaries, &stored); err != nil || len(stored) != 0 {
		t.Errorf("stored summaries = %v, %v", stored, err)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, memory.New(nil), time.Now())
	if _, err := s.AddTodo(ctx, "t", core.Low); err != nil {
		t.Fatal(err)
	}
	todos := s.Todos()
	todos[0].Title = "changed"
	if s.Todos()[0].Title != "t" {
		t.Error("Todos() exposes internal state")
	}
}
