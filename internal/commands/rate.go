package commands

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"bolsillo/internal/cli"
	"bolsillo/internal/log"
	"bolsillo/internal/rates"
	"bolsillo/internal/render"
)

// rateCmd is a container for the exchange rate subcommands.
type rateCmd struct {
	app *App
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "look up the exchange rate" }
func (*rateCmd) Usage() string {
	return `bolsillo rate <subcommand> [args]

Commands:
  show  - Look the rate up once.
  watch - Refresh the rate periodically until interrupted.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {}
func (c *rateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "rate")
	commander.Register(&rateShowCmd{app: c.app}, "")
	commander.Register(&rateWatchCmd{app: c.app}, "")
	return commander.Execute(ctx, args...)
}

type rateShowCmd struct {
	app *App
}

func (*rateShowCmd) Name() string     { return "show" }
func (*rateShowCmd) Synopsis() string { return "look the rate up once" }
func (*rateShowCmd) Usage() string {
	return `bolsillo rate show

  Prints the buy and sell rates. When the provider cannot be reached the
  last known rate is shown instead.
`
}

func (c *rateShowCmd) SetFlags(f *flag.FlagSet) {}

func (c *rateShowCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	res, err := a.Rates.Current(ctx)
	if status := a.print(ctx, a.Renderer.Rate(render.NewRateView(res, err))); status != subcommands.ExitSuccess {
		return status
	}
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type rateWatchCmd struct {
	app *App

	interval time.Duration
	count    int
}

func (*rateWatchCmd) Name() string     { return "watch" }
func (*rateWatchCmd) Synopsis() string { return "refresh the rate periodically" }
func (*rateWatchCmd) Usage() string {
	return `bolsillo rate watch [-interval <duration>] [-n <count>]

  Looks the rate up now and then at every interval, until interrupted or
  until count lookups were made.
`
}

func (c *rateWatchCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.interval, "interval", c.app.Config.RateRefreshInterval, "Time between two lookups.")
	f.IntVar(&c.count, "n", 0, "Stop after this many lookups. Zero watches until interrupted.")
}

func (c *rateWatchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if c.interval <= 0 {
		return a.usage("interval must be positive, got %s", c.interval)
	}

	ctx, stop := cli.GracefulShutdown(ctx, a.Logger)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	refreshes := make(chan rates.Result)
	g.Go(func() error {
		defer close(refreshes)
		return a.Rates.Watch(ctx, c.interval, func(res rates.Result, err error) {
			// a failed lookup is reported and the next tick retries
			if err != nil {
				a.warn("%v", err)
				return
			}
			select {
			case refreshes <- res:
			case <-ctx.Done():
			}
		})
	})
	g.Go(func() error {
		seen := 0
		for res := range refreshes {
			if ctx.Err() != nil {
				continue
			}
			if status := a.print(ctx, a.Renderer.Rate(render.NewRateView(res, nil))); status != subcommands.ExitSuccess {
				stop()
				continue
			}
			seen++
			if c.count > 0 && seen >= c.count {
				stop()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return a.failure(err)
	}
	a.Logger.DebugContext(ctx, "Rate watch stopped", log.FieldOperation, log.OpFetchRate)
	return subcommands.ExitSuccess
}
