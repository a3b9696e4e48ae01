package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "bolsillo.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, found, err := repo.Get(ctx, KeyExpenses); err != nil || found {
		t.Fatalf("expected empty store, found=%v err=%v", found, err)
	}
	if err := repo.Set(ctx, KeyExpenses, `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, KeyExpenses, `[{"id":"1"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, found, err := repo.Get(ctx, KeyExpenses); err != nil || !found || v != `[{"id":"1"}]` {
		t.Fatalf("unexpected get: %q found=%v err=%v", v, found, err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, _, err := repo.Get(ctx, KeyExpenses); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}

	// Reopening runs the migrations again and keeps the data.
	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	if v, _, _ := repo.Get(ctx, KeyExpenses); v != `[{"id":"1"}]` {
		t.Fatalf("value lost across reopen: %q", v)
	}
	if err := repo.Delete(ctx, KeyExpenses); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := repo.Get(ctx, KeyExpenses); found {
		t.Fatalf("expected deleted key not to be found")
	}
}

type payload struct {
	Name string `json:"name"`
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	var p payload
	if found, err := GetJSON(ctx, repo, "p", &p); found || err != nil {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}
	if err := SetJSON(ctx, repo, "p", payload{Name: "x"}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if found, err := GetJSON(ctx, repo, "p", &p); !found || err != nil || p.Name != "x" {
		t.Fatalf("GetJSON: %+v found=%v err=%v", p, found, err)
	}
	if err := repo.Set(ctx, "p", "{not json"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if found, err := GetJSON(ctx, repo, "p", &p); !found || err == nil {
		t.Fatalf("expected a decode error, found=%v err=%v", found, err)
	}
}
