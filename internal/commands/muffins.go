package commands

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"bolsillo/internal/calculator"
)

type muffinsCmd struct {
	app *App

	count int
}

func (*muffinsCmd) Name() string     { return "muffins" }
func (*muffinsCmd) Synopsis() string { return "compute the ingredients of a muffin batch" }
func (*muffinsCmd) Usage() string {
	return `bolsillo muffins [-n <count>]

  Prints the total weight of a batch and how much of it is fruit and dough.
`
}

func (c *muffinsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.count, "n", calculator.DefaultMuffins, "Number of muffins, from 1 to 100.")
}

func (c *muffinsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := calculator.Muffins(c.count)
	if err != nil {
		return c.app.report(err)
	}
	return c.app.print(ctx, c.app.Renderer.Muffins(b))
}
