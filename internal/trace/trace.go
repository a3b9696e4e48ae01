// Package trace tags each command invocation with an id and logs its start,
// outcome and duration.
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/subcommands"

	"bolsillo/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// InvocationIDKey is the context key for the invocation id
	InvocationIDKey ContextKey = "invocation_id"
)

// command wraps a subcommands.Command with tracing.
type command struct {
	subcommands.Command
	logger *log.Logger
}

// Command returns cmd with tracing around Execute.
func Command(cmd subcommands.Command, logger *log.Logger) subcommands.Command {
	return &command{Command: cmd, logger: logger}
}

func (c *command) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	start := time.Now()
	id := GenerateInvocationID()
	ctx = context.WithValue(ctx, InvocationIDKey, id)

	c.logger.DebugContext(ctx, "Command started",
		log.FieldInvocation, id,
		log.FieldCommand, c.Name(),
		"args", f.Args())

	status := c.Command.Execute(ctx, f, args...)

	duration := time.Since(start)
	level := slog.LevelDebug
	switch status {
	case subcommands.ExitUsageError:
		level = slog.LevelWarn
	case subcommands.ExitFailure:
		level = slog.LevelError
	}
	c.logger.Log(ctx, level, "Command completed",
		log.FieldInvocation, id,
		log.FieldCommand, c.Name(),
		"exit_status", int(status),
		log.FieldDuration, duration.Milliseconds(),
		"success", status == subcommands.ExitSuccess)
	return status
}

// GenerateInvocationID creates a unique id for an invocation.
func GenerateInvocationID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("inv_%d", time.Now().UnixNano())
	}
	return "inv_" + hex.EncodeToString(bytes)
}

// GetInvocationID extracts the invocation id from context.
func GetInvocationID(ctx context.Context) string {
	if id, ok := ctx.Value(InvocationIDKey).(string); ok {
		return id
	}
	return ""
}
