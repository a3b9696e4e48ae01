package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"bolsillo/internal/cli"
	"bolsillo/internal/commands"
	"bolsillo/internal/log"
)

func main() {
	// Answers shell completion requests and exits when one is pending
	commands.Completion().Complete("bolsillo")

	// Load .env file for local development, the file is optional
	cli.LoadEnvFile()

	plain := flag.Bool("plain", false, "Print Markdown without terminal styling.")
	commander := subcommands.NewCommander(flag.CommandLine, "bolsillo")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(log.ComponentApp)

	ctx := context.Background()
	kv, cleanup, err := cli.InitStore(ctx, logger, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}

	app, err := commands.NewApp(ctx, cfg, logger, kv)
	if err != nil {
		cleanup()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	app.Register(commander)

	flag.Parse()
	app.Plain = app.Plain || *plain

	status := commander.Execute(ctx)
	if err := cleanup(); err != nil {
		logger.Warn("Failed to close store", log.FieldError, err)
	}
	os.Exit(int(status))
}
