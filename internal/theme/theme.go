// Package theme persists the visual theme of the shell.
package theme

import (
	"context"
	"fmt"
	"strings"

	"bolsillo/internal/core"
	"bolsillo/internal/storage"
)

// Default is the theme used until the user picks one.
const Default = core.Sofi

// Load returns the saved theme. A missing or unknown value yields Default.
func Load(ctx context.Context, kv storage.KV) (core.Theme, error) {
	raw, found, err := kv.Get(ctx, storage.KeyTheme)
	if err != nil {
		return Default, fmt.Errorf("load theme: %w", err)
	}
	if !found {
		return Default, nil
	}
	// written bare, but accept a JSON string too
	t, err := core.ParseTheme(strings.Trim(strings.TrimSpace(raw), `"`))
	if err != nil {
		return Default, nil
	}
	return t, nil
}

func Save(ctx context.Context, kv storage.KV, t core.Theme) error {
	if _, err := core.ParseTheme(string(t)); err != nil {
		return err
	}
	if err := kv.Set(ctx, storage.KeyTheme, string(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// Toggle switches to the other theme, saves it and returns it.
func Toggle(ctx context.Context, kv storage.KV) (core.Theme, error) {
	current, err := Load(ctx, kv)
	if err != nil {
		return current, err
	}
	next := current.Toggle()
	if err := Save(ctx, kv, next); err != nil {
		return current, err
	}
	return next, nil
}

// GlamourStyle names the glamour standard style matching t: mati is dark,
// sofi is light.
func GlamourStyle(t core.Theme) string {
	if t == core.Mati {
		return "dark"
	}
	return "light"
}
