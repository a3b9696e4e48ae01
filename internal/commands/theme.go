package commands

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"bolsillo/internal/core"
	"bolsillo/internal/log"
	"bolsillo/internal/theme"
)

type themeCmd struct {
	app *App
}

func (*themeCmd) Name() string     { return "theme" }
func (*themeCmd) Synopsis() string { return "show, toggle or set the theme" }
func (*themeCmd) Usage() string {
	return `bolsillo theme [toggle|mati|sofi]

  Without argument, prints the theme. mati renders with a dark style and
  sofi with a light one.
`
}

func (c *themeCmd) SetFlags(f *flag.FlagSet) {}

func (c *themeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if f.NArg() == 0 {
		t, err := theme.Load(ctx, a.KV)
		if err != nil {
			return a.failure(err)
		}
		a.printf("Theme: %s\n", t)
		return subcommands.ExitSuccess
	}

	arg, err := oneArg(f.Args(), "theme")
	if err != nil {
		return a.report(err)
	}
	var next core.Theme
	if arg == "toggle" {
		next, err = theme.Toggle(ctx, a.KV)
	} else if next, err = core.ParseTheme(arg); err == nil {
		err = theme.Save(ctx, a.KV, next)
	}
	if err != nil {
		return a.report(err)
	}
	a.Logger.InfoContext(ctx, "Theme changed", log.FieldOperation, log.OpToggleTheme, log.FieldTheme, next)
	a.printf("Theme set to %s\n", next)
	return subcommands.ExitSuccess
}
