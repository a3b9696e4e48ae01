package commands

import (
	"context"
	"errors"
	"flag"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"bolsillo/internal/core"
	"bolsillo/internal/currency"
	"bolsillo/internal/dashboard"
	"bolsillo/internal/ledger"
	"bolsillo/internal/rates"
	"bolsillo/internal/render"
)

const (
	staleRateNotice  = "Using cached exchange rate. The rate might not be current."
	customRateNotice = "Using custom rate instead of current market rate."
)

// expenseCmd is a container for the expense subcommands.
type expenseCmd struct {
	app *App
}

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record, list and delete expenses" }
func (*expenseCmd) Usage() string {
	return `bolsillo expense <subcommand> [args]

Commands:
  add     - Record an expense.
  rm      - Delete an expense.
  ls      - List the active expenses.
  summary - Show the totals of the active expenses.
`
}

func (c *expenseCmd) SetFlags(f *flag.FlagSet) {}
func (c *expenseCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "expense")
	commander.Register(&expenseAddCmd{app: c.app}, "")
	commander.Register(&expenseRmCmd{app: c.app}, "")
	commander.Register(&expenseLsCmd{app: c.app}, "")
	commander.Register(&expenseSummaryCmd{app: c.app}, "")
	return commander.Execute(ctx, args...)
}

type expenseAddCmd struct {
	app *App

	name          string
	amount        string
	rate          string
	discretionary bool
}

func (*expenseAddCmd) Name() string     { return "add" }
func (*expenseAddCmd) Synopsis() string { return "record an expense" }
func (*expenseAddCmd) Usage() string {
	return `bolsillo expense add -amount <amount> [-rate <rate>] [-discretionary] [-name] <name...>

  Records an expense in the local currency. The dollar rate defaults to the
  current market sell rate, or the last known one when the lookup fails.
  Without any rate, -rate is required.
`
}

func (c *expenseAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the expense. Remaining arguments are used when empty.")
	f.StringVar(&c.amount, "amount", "", "Amount spent, in the local currency. Both 12.34 and 12,34 are accepted.")
	f.StringVar(&c.rate, "rate", "", "Dollar rate to record instead of the market rate.")
	f.BoolVar(&c.discretionary, "discretionary", false, "Mark the expense as not necessary.")
}

func (c *expenseAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	name := c.name
	if name == "" {
		name = strings.Join(f.Args(), " ")
	}
	if strings.TrimSpace(name) == "" {
		return a.report(core.ErrEmptyName)
	}
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		return a.report(err)
	}

	rate, status := c.dollarRate(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}

	e, err := a.Ledger.AddExpense(ctx, ledger.NewExpense{
		Name:        name,
		Amount:      amount,
		IsNecessary: !c.discretionary,
		DollarRate:  rate,
	})
	if err != nil {
		return a.report(err)
	}
	a.printf("Added expense %s: %s %s (%s)\n",
		render.Short(e.ID), e.Name,
		currency.Format(e.Amount, a.Config.LocalCurrency, 2),
		currency.Format(currency.Convert(e.Amount, e.DollarRate), a.Config.ForeignCurrency, 2))
	return subcommands.ExitSuccess
}

// dollarRate picks the rate of the new expense and prints the notices that
// go with it.
func (c *expenseAddCmd) dollarRate(ctx context.Context) (decimal.Decimal, subcommands.ExitStatus) {
	a := c.app
	var custom decimal.Decimal
	if c.rate != "" {
		r, err := core.ParseAmount(c.rate)
		if err != nil {
			return decimal.Zero, a.report(core.ErrInvalidRate)
		}
		custom = r
	}

	res, err := a.Rates.Current(ctx)
	if err != nil {
		if c.rate != "" {
			return custom, subcommands.ExitSuccess
		}
		if errors.Is(err, rates.ErrNoRate) {
			return decimal.Zero, a.usage("%v: pass the rate with -rate", err)
		}
		return decimal.Zero, a.failure(err)
	}
	if c.rate != "" {
		if !custom.Equal(res.Quote.Sell) {
			a.warn(customRateNotice)
		}
		return custom, subcommands.ExitSuccess
	}
	if res.Stale {
		a.warn(staleRateNotice)
	}
	return res.Quote.Sell, subcommands.ExitSuccess
}

type expenseRmCmd struct {
	app *App
}

func (*expenseRmCmd) Name() string     { return "rm" }
func (*expenseRmCmd) Synopsis() string { return "delete an expense" }
func (*expenseRmCmd) Usage() string {
	return `bolsillo expense rm <id>

  Deletes an active expense. The id may be abbreviated to any unique prefix.
`
}

func (c *expenseRmCmd) SetFlags(f *flag.FlagSet) {}

func (c *expenseRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	prefix, err := oneArg(f.Args(), "expense id")
	if err != nil {
		return a.report(err)
	}
	expenses := a.Ledger.Expenses()
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
	}
	id, err := resolveID("expense", ids, prefix)
	if err != nil {
		return a.report(err)
	}
	if _, err := a.Ledger.DeleteExpense(ctx, id); err != nil {
		return a.report(err)
	}
	a.printf("Deleted expense %s\n", render.Short(id))
	return subcommands.ExitSuccess
}

type expenseLsCmd struct {
	app *App
}

func (*expenseLsCmd) Name() string     { return "ls" }
func (*expenseLsCmd) Synopsis() string { return "list the active expenses" }
func (*expenseLsCmd) Usage() string {
	return `bolsillo expense ls

  Lists the expenses not archived by a month close.
`
}

func (c *expenseLsCmd) SetFlags(f *flag.FlagSet) {}

func (c *expenseLsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.print(ctx, c.app.Renderer.Expenses(c.app.Ledger.Expenses()))
}

type expenseSummaryCmd struct {
	app *App
}

func (*expenseSummaryCmd) Name() string     { return "summary" }
func (*expenseSummaryCmd) Synopsis() string { return "show the totals of the active expenses" }
func (*expenseSummaryCmd) Usage() string {
	return `bolsillo expense summary

  Shows the total, necessary and discretionary spending of the active
  expenses against the monthly salary.
`
}

func (c *expenseSummaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *expenseSummaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	return a.print(ctx, a.Renderer.Overview(dashboard.NewOverview(a.Ledger.Expenses(), a.Ledger.Salary())))
}
