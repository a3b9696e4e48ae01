package commands

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"bolsillo/internal/core"
	"bolsillo/internal/dashboard"
	"bolsillo/internal/render"
)

// todoCmd is a container for the task subcommands.
type todoCmd struct {
	app *App
}

func (*todoCmd) Name() string     { return "todo" }
func (*todoCmd) Synopsis() string { return "manage the task list" }
func (*todoCmd) Usage() string {
	return `bolsillo todo <subcommand> [args]

Commands:
  add    - Add a task.
  toggle - Mark a task done, or pending again.
  rm     - Delete a task.
  ls     - List the tasks.
`
}

func (c *todoCmd) SetFlags(f *flag.FlagSet) {}
func (c *todoCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "todo")
	commander.Register(&todoAddCmd{app: c.app}, "")
	commander.Register(&todoToggleCmd{app: c.app}, "")
	commander.Register(&todoRmCmd{app: c.app}, "")
	commander.Register(&todoLsCmd{app: c.app}, "")
	return commander.Execute(ctx, args...)
}

func (a *App) taskID(args []string) (string, error) {
	prefix, err := oneArg(args, "task id")
	if err != nil {
		return "", err
	}
	tasks := a.Ledger.Todos()
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolveID("task", ids, prefix)
}

type todoAddCmd struct {
	app *App

	priority string
}

func (*todoAddCmd) Name() string     { return "add" }
func (*todoAddCmd) Synopsis() string { return "add a task" }
func (*todoAddCmd) Usage() string {
	return `bolsillo todo add [-p low|medium|high] <title...>
`
}

func (c *todoAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.priority, "p", string(core.Medium), "Priority of the task: low, medium or high.")
}

func (c *todoAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	priority, err := core.ParsePriority(c.priority)
	if err != nil {
		return a.report(err)
	}
	t, err := a.Ledger.AddTodo(ctx, strings.Join(f.Args(), " "), priority)
	if err != nil {
		return a.report(err)
	}
	a.printf("Added task %s: %s (%s)\n", render.Short(t.ID), t.Title, t.Priority)
	return subcommands.ExitSuccess
}

type todoToggleCmd struct {
	app *App
}

func (*todoToggleCmd) Name() string     { return "toggle" }
func (*todoToggleCmd) Synopsis() string { return "mark a task done, or pending again" }
func (*todoToggleCmd) Usage() string {
	return `bolsillo todo toggle <id>
`
}

func (c *todoToggleCmd) SetFlags(f *flag.FlagSet) {}

func (c *todoToggleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	id, err := a.taskID(f.Args())
	if err != nil {
		return a.report(err)
	}
	tasks, err := a.Ledger.ToggleTodo(ctx, id)
	if err != nil {
		return a.report(err)
	}
	for _, t := range tasks {
		if t.ID != id {
			continue
		}
		state := "pending"
		if t.Completed {
			state = "done"
		}
		a.printf("Task %s is %s\n", render.Short(id), state)
	}
	return subcommands.ExitSuccess
}

type todoRmCmd struct {
	app *App
}

func (*todoRmCmd) Name() string     { return "rm" }
func (*todoRmCmd) Synopsis() string { return "delete a task" }
func (*todoRmCmd) Usage() string {
	return `bolsillo todo rm <id>
`
}

func (c *todoRmCmd) SetFlags(f *flag.FlagSet) {}

func (c *todoRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	id, err := a.taskID(f.Args())
	if err != nil {
		return a.report(err)
	}
	if _, err := a.Ledger.DeleteTodo(ctx, id); err != nil {
		return a.report(err)
	}
	a.printf("Deleted task %s\n", render.Short(id))
	return subcommands.ExitSuccess
}

type todoLsCmd struct {
	app *App

	filter string
}

func (*todoLsCmd) Name() string     { return "ls" }
func (*todoLsCmd) Synopsis() string { return "list the tasks" }
func (*todoLsCmd) Usage() string {
	return `bolsillo todo ls [-filter active|all|completed]

  Lists the tasks, pending ones first.
`
}

func (c *todoLsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filter, "filter", string(dashboard.FilterActive), "Tasks to show: active, all or completed.")
}

func (c *todoLsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	filter, err := dashboard.ParseFilter(c.filter)
	if err != nil {
		return a.report(err)
	}
	return a.print(ctx, a.Renderer.Todos(a.Ledger.Todos(), filter))
}
