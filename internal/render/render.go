// Package render turns the application state into Markdown views and prints
// them on a terminal, styled after the active theme.
package render

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"bolsillo/internal/calculator"
	"bolsillo/internal/core"
	"bolsillo/internal/currency"
	"bolsillo/internal/dashboard"
	"bolsillo/internal/rates"
	"bolsillo/internal/theme"
)

//go:embed templates/*.md
var templates embed.FS

// ShortID is the length of the abbreviated ids shown in views.
const ShortID = 8

// WordWrap is the width used when styling.
const WordWrap = 100

// Renderer builds the views. Amounts are shown in Local, conversions in
// Foreign.
type Renderer struct {
	Local    string
	Foreign  string
	Location *time.Location
	tmpl     *template.Template
}

func New(local, foreign string) *Renderer {
	r := &Renderer{Local: local, Foreign: foreign, Location: time.Local}
	r.tmpl = template.Must(template.New("views").Funcs(r.funcs()).ParseFS(templates, "templates/*.md"))
	return r
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"local":       func(d decimal.Decimal) string { return currency.Format(d, r.Local, 2) },
		"foreign":     func(d decimal.Decimal) string { return currency.Format(d, r.Foreign, 2) },
		"foreignCode": func() string { return r.Foreign },
		"convert":     currency.Convert,
		"pct":         func(d decimal.Decimal) string { return d.StringFixed(1) + "%" },
		"grams":       func(d decimal.Decimal) string { return d.StringFixed(1) + "g" },
		"date":        func(t time.Time) string { return t.In(r.Location).Format("02/01/2006") },
		"datetime":    func(t time.Time) string { return t.In(r.Location).Format("02/01/2006 15:04") },
		"short":       Short,
		"cell":        func(s string) string { return strings.ReplaceAll(s, "|", `\|`) },
		"level":       levelNote,
		"muffinWeight": func() decimal.Decimal {
			return calculator.MuffinWeight
		},
		"fruitPercent": func() decimal.Decimal {
			return calculator.FruitShare.Mul(decimal.NewFromInt(100))
		},
	}
}

// Short abbreviates an id for display.
func Short(id string) string {
	if len(id) > ShortID {
		return id[:ShortID]
	}
	return id
}

func levelNote(l dashboard.Level) string {
	switch l {
	case dashboard.LevelCritical:
		return "**Careful:** more than 80% of the salary is spent."
	case dashboard.LevelWarning:
		return "**Heads up:** more than half of the salary is spent."
	default:
		return ""
	}
}

func (r *Renderer) execute(name string, data any) string {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}

// RateView is a lookup outcome. Result is nil when no rate is available.
type RateView struct {
	Result *rates.Result
	Err    error
}

// NewRateView wraps the values returned by rates.Service.Current.
func NewRateView(res rates.Result, err error) RateView {
	if err != nil {
		return RateView{Err: err}
	}
	return RateView{Result: &res}
}

type HomeView struct {
	Month    core.Month
	Rate     RateView
	Overview dashboard.Overview
	Tasks    []core.Task
}

func (r *Renderer) Home(v HomeView) string {
	return r.execute("home.md", v)
}

func (r *Renderer) Rate(v RateView) string {
	return r.execute("rate.md", v)
}

func (r *Renderer) Overview(o dashboard.Overview) string {
	return r.execute("overview.md", o)
}

func (r *Renderer) Expenses(expenses []core.Expense) string {
	return r.execute("expenses.md", expenses)
}

func (r *Renderer) Summary(s core.MonthSummary) string {
	return r.execute("summary.md", s)
}

func (r *Renderer) History(summaries []core.MonthSummary) string {
	return r.execute("history.md", summaries)
}

type todosView struct {
	Filter dashboard.Filter
	Tasks  []core.Task
	Total  int
}

// Todos lists tasks after applying f.
func (r *Renderer) Todos(tasks []core.Task, f dashboard.Filter) string {
	return r.execute("todos.md", todosView{
		Filter: f,
		Tasks:  dashboard.FilterTasks(tasks, f),
		Total:  len(tasks),
	})
}

func (r *Renderer) Muffins(b calculator.Batch) string {
	return r.execute("muffins.md", b)
}

// Print writes md to w. Unless plain is set it is styled with the glamour
// style of t.
func Print(w io.Writer, md string, t core.Theme, plain bool) error {
	if plain {
		_, err := io.WriteString(w, md)
		return err
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme.GlamourStyle(t)),
		glamour.WithWordWrap(WordWrap),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := tr.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
