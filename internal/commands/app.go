// Package commands implements the bolsillo command line: one subcommand per
// view of the application, all sharing an App.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"bolsillo/internal/calculator"
	"bolsillo/internal/config"
	"bolsillo/internal/core"
	"bolsillo/internal/dashboard"
	"bolsillo/internal/ledger"
	"bolsillo/internal/log"
	"bolsillo/internal/rates"
	"bolsillo/internal/render"
	"bolsillo/internal/storage"
	"bolsillo/internal/theme"
	"bolsillo/internal/trace"
)

// App is the state shared by the commands of one invocation.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	KV       storage.KV
	Ledger   *ledger.Store
	Rates    *rates.Service
	Renderer *render.Renderer

	// Plain disables terminal styling.
	Plain bool
	In    io.Reader
	Out   io.Writer
	Err   io.Writer
	Now   func() time.Time
}

// NewApp opens the ledger kept in kv and wires the rate service described by
// cfg.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger, kv storage.KV) (*App, error) {
	store, err := ledger.Open(ctx, kv, ledger.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	client := rates.NewClient(cfg.RateURL, cfg.RateTimeout, rates.Paths{
		Buy:     cfg.RateBuyPath,
		Sell:    cfg.RateSellPath,
		Updated: cfg.RateUpdatedPath,
	})
	return &App{
		Config:   cfg,
		Logger:   logger.WithComponent(log.ComponentCommands),
		KV:       kv,
		Ledger:   store,
		Rates:    rates.NewService(client, kv, rates.WithLogger(logger), rates.WithMinAge(cfg.RateMinAge)),
		Renderer: render.New(cfg.LocalCurrency, cfg.ForeignCurrency),
		Plain:    cfg.PlainOutput,
		In:       os.Stdin,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Now:      time.Now,
	}, nil
}

// Commands lists the top level commands in the order they are registered.
func (a *App) Commands() []subcommands.Command {
	return []subcommands.Command{
		&homeCmd{app: a},
		&salaryCmd{app: a},
		&expenseCmd{app: a},
		&monthCmd{app: a},
		&todoCmd{app: a},
		&rateCmd{app: a},
		&muffinsCmd{app: a},
		&themeCmd{app: a},
	}
}

// Register adds the commands of a to c, traced.
func (a *App) Register(c *subcommands.Commander) {
	for _, cmd := range a.Commands() {
		c.Register(trace.Command(cmd, a.Logger), "")
	}
}

// print styles md with the saved theme and writes it to Out.
func (a *App) print(ctx context.Context, md string) subcommands.ExitStatus {
	th, err := theme.Load(ctx, a.KV)
	if err != nil {
		a.Logger.WarnContext(ctx, "Using default theme", log.FieldError, err)
	}
	if err := render.Print(a.Out, md, th, a.Plain); err != nil {
		return a.failure(err)
	}
	return subcommands.ExitSuccess
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

// warn writes a notice on Err. Notices never change the exit status.
func (a *App) warn(format string, args ...any) {
	fmt.Fprintf(a.Err, "Warning: "+format+"\n", args...)
}

func (a *App) failure(err error) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// report prints err and maps it to an exit status: bad input is a usage
// error, anything else a failure.
func (a *App) report(err error) subcommands.ExitStatus {
	if isUsage(err) {
		fmt.Fprintf(a.Err, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return a.failure(err)
}

func (a *App) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

var usageErrors = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidRate,
	core.ErrInvalidSalary,
	core.ErrEmptyName,
	core.ErrEmptyTitle,
	core.ErrInvalidPriority,
	core.ErrInvalidMonth,
	core.ErrInvalidTheme,
	calculator.ErrInvalidCount,
	dashboard.ErrInvalidFilter,
	errUnknownID,
	errAmbiguousID,
	errArgs,
}

func isUsage(err error) bool {
	for _, target := range usageErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var (
	errUnknownID   = errors.New("no match")
	errAmbiguousID = errors.New("ambiguous id")
	errArgs        = errors.New("wrong number of arguments")
)

// resolveID expands prefix to one of ids. An exact match wins over longer
// ids sharing the prefix.
func resolveID(kind string, ids []string, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty %s id", errUnknownID, kind)
	}
	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no %s with id %q", errUnknownID, kind, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d %ss", errAmbiguousID, prefix, len(matches), kind)
	}
}

// oneArg returns the single positional argument of a command.
func oneArg(args []string, what string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: expected one %s, got %d", errArgs, what, len(args))
	}
	return args[0], nil
}
