package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"

	"bolsillo/internal/closeout"
	"bolsillo/internal/core"
	"bolsillo/internal/currency"
)

// monthCmd is a container for the month close-out subcommands.
type monthCmd struct {
	app *App
}

func (*monthCmd) Name() string     { return "month" }
func (*monthCmd) Synopsis() string { return "close a month and browse past months" }
func (*monthCmd) Usage() string {
	return `bolsillo month <subcommand> [args]

Commands:
  close   - Archive the expenses of a month into a summary.
  history - List the closed months, or show one.
`
}

func (c *monthCmd) SetFlags(f *flag.FlagSet) {}
func (c *monthCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "month")
	commander.Register(&monthCloseCmd{app: c.app}, "")
	commander.Register(&monthHistoryCmd{app: c.app}, "")
	return commander.Execute(ctx, args...)
}

type monthCloseCmd struct {
	app *App

	month string
	yes   bool
}

func (*monthCloseCmd) Name() string     { return "close" }
func (*monthCloseCmd) Synopsis() string { return "archive the expenses of a month into a summary" }
func (*monthCloseCmd) Usage() string {
	return `bolsillo month close [-m YYYY-MM] [-yes]

  Sums the active expenses dated in the month against the monthly salary,
  appends the summary to the history and archives those expenses.
  Expenses of other months stay active.
`
}

func (c *monthCloseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Month to close, as YYYY-MM. Defaults to the current month (UTC).")
	f.BoolVar(&c.yes, "yes", false, "Do not ask for confirmation.")
}

func (c *monthCloseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	month := core.MonthOf(a.now())
	if c.month != "" {
		m, err := core.ParseMonth(c.month)
		if err != nil {
			return a.report(err)
		}
		month = m
	}

	if !c.yes {
		closing, _ := closeout.Partition(a.Ledger.Expenses(), month)
		totals := closeout.Sum(closing)
		question := fmt.Sprintf("Close %s? %d expenses totalling %s will be archived.",
			month.Label(), totals.Count, currency.Format(totals.Total, a.Config.LocalCurrency, 2))
		ok, err := c.confirm(question)
		if err != nil {
			return a.failure(err)
		}
		if !ok {
			a.printf("Month not closed.\n")
			return subcommands.ExitSuccess
		}
	}

	summary, err := a.Ledger.CloseMonth(ctx, month)
	if err != nil {
		return a.report(err)
	}
	return a.print(ctx, a.Renderer.Summary(summary))
}

// confirm asks question on Out and reads the answer from In. Only y or yes
// confirm; end of input declines.
func (c *monthCloseCmd) confirm(question string) (bool, error) {
	a := c.app
	a.printf("%s [y/N]: ", question)
	answer, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && answer == "" {
		if errors.Is(err, io.EOF) {
			a.printf("\n")
			return false, nil
		}
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

type monthHistoryCmd struct {
	app *App
}

func (*monthHistoryCmd) Name() string     { return "history" }
func (*monthHistoryCmd) Synopsis() string { return "list the closed months, or show one" }
func (*monthHistoryCmd) Usage() string {
	return `bolsillo month history [<id>]

  Without argument, lists every month summary. With a summary id, which may
  be abbreviated to a unique prefix, shows that summary.
`
}

func (c *monthHistoryCmd) SetFlags(f *flag.FlagSet) {}

func (c *monthHistoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	summaries := a.Ledger.Summaries()
	if f.NArg() == 0 {
		return a.print(ctx, a.Renderer.History(summaries))
	}

	prefix, err := oneArg(f.Args(), "summary id")
	if err != nil {
		return a.report(err)
	}
	ids := make([]string, len(summaries))
	for i, s := range summaries {
		ids[i] = s.ID
	}
	id, err := resolveID("summary", ids, prefix)
	if err != nil {
		return a.report(err)
	}
	s, _ := a.Ledger.Summary(id)
	return a.print(ctx, a.Renderer.Summary(s))
}
