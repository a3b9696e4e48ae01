// Package cli provides the start-up steps shared by every command: logging,
// environment, configuration and the store.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bolsillo/internal/backend"
	"bolsillo/internal/config"
	"bolsillo/internal/log"
	"bolsillo/internal/storage"
)

// SetupLogger initializes structured logging on stderr at the given level.
// An unknown level falls back to info. The logger becomes the default one.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	if l, err := log.ParseLevel(level); err == nil {
		cfg.Level = l
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file of the working directory.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitStore opens the store selected by cfg. The returned cleanup closes it.
func InitStore(ctx context.Context, logger *log.Logger, cfg *config.Config) (storage.KV, backend.CleanupFunc, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Fail(ctx, "Failed to initialize store", err, log.FieldBackend, bcfg.Type)
		return nil, nil, fmt.Errorf("open %s store: %w", bcfg.Type, err)
	}
	cleanup := res.Cleanup
	if cleanup == nil {
		cleanup = func() error { return nil }
	}
	return res.Store, cleanup, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
// The stop function releases the signal handler.
func GracefulShutdown(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
