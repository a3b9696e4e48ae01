package commands

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"bolsillo/internal/core"
	"bolsillo/internal/currency"
)

type salaryCmd struct {
	app *App
}

func (*salaryCmd) Name() string     { return "salary" }
func (*salaryCmd) Synopsis() string { return "show or set the monthly salary" }
func (*salaryCmd) Usage() string {
	return `bolsillo salary [<amount>]

  Without argument, prints the monthly salary. With an amount, sets it.
  Zero is allowed and hides the percentages of the overview.
`
}

func (c *salaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *salaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	local := a.Config.LocalCurrency
	if f.NArg() == 0 {
		a.printf("Monthly salary: %s\n", currency.Format(a.Ledger.Salary(), local, 2))
		return subcommands.ExitSuccess
	}

	arg, err := oneArg(f.Args(), "amount")
	if err != nil {
		return a.report(err)
	}
	amount, err := core.ParseSalary(arg)
	if err != nil {
		return a.report(err)
	}
	if err := a.Ledger.SetSalary(ctx, amount); err != nil {
		return a.report(err)
	}
	a.printf("Monthly salary set to %s\n", currency.Format(amount, local, 2))
	return subcommands.ExitSuccess
}
