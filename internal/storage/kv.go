// Package storage persists the application state as text values under a
// handful of well known keys.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the persisted records.
const (
	KeySalary        = "monthlySalary"
	KeyExpenses      = "expenses"
	KeyTodos         = "todos"
	KeySummaries     = "monthSummaries"
	KeyLastKnownRate = "lastKnownRate"
	KeyTheme         = "theme"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("storage: store is closed")

// KV is a string key-value store.
type KV interface {
	// Get returns the value stored under key. found is false when the key
	// was never set.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON decodes the value under key into v. found is false, and v is left
// untouched, when the key does not exist.
func GetJSON(ctx context.Context, kv KV, key string, v any) (found bool, err error) {
	raw, found, err := kv.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(raw))
}
