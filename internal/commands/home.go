package commands

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"bolsillo/internal/core"
	"bolsillo/internal/dashboard"
	"bolsillo/internal/render"
)

// HomeTasks is the number of priority tasks shown on the home view.
const HomeTasks = 3

type homeCmd struct {
	app *App
}

func (*homeCmd) Name() string     { return "home" }
func (*homeCmd) Synopsis() string { return "show the exchange rate, the overview and the urgent tasks" }
func (*homeCmd) Usage() string {
	return `bolsillo home

  Shows the current exchange rate, the spending of the active expenses
  against the monthly salary and the most urgent pending tasks.
`
}

func (c *homeCmd) SetFlags(f *flag.FlagSet) {}

func (c *homeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	res, err := a.Rates.Current(ctx)
	md := a.Renderer.Home(render.HomeView{
		Month:    core.MonthOf(a.now()),
		Rate:     render.NewRateView(res, err),
		Overview: dashboard.NewOverview(a.Ledger.Expenses(), a.Ledger.Salary()),
		Tasks:    dashboard.PriorityTasks(a.Ledger.Todos(), HomeTasks),
	})
	// a missing rate is shown in the view, the rest is still useful
	return a.print(ctx, md)
}
