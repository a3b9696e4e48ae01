package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bolsillo/internal/storage"
)

func TestMemoryStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := New(map[string]string{"a": "1"})

	if v, ok, err := s.Get(ctx, "a"); err != nil || !ok || v != "1" {
		t.Fatalf("unexpected get: v=%q ok=%v err=%v", v, ok, err)
	}
	if _, ok, _ := s.Get(ctx, "missing"); ok {
		t.Fatalf("expected missing key not to be found")
	}
	if err := s.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _, _ := s.Get(ctx, "a"); v != "2" {
		t.Fatalf("expected overwritten value, got %q", v)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatalf("expected deleted key not to be found")
	}

	s.Close()
	if err := s.Set(ctx, "a", "3"); !errors.Is(err, storage.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	// No files -> empty store
	s := NewFromFiles(dir)
	if _, ok, _ := s.Get(context.Background(), storage.KeyExpenses); ok {
		t.Fatalf("expected no expenses when files are missing")
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("monthlySalary.json", "100000\n")
	mustWrite("todos.json", "   \n")
	mustWrite("unrelated.json", "{}")

	s = NewFromFiles(dir)
	ctx := context.Background()
	if v, ok, _ := s.Get(ctx, storage.KeySalary); !ok || v != "100000" {
		t.Fatalf("unexpected salary seed: %q %v", v, ok)
	}
	if _, ok, _ := s.Get(ctx, storage.KeyTodos); ok {
		t.Fatalf("blank seed files should be skipped")
	}
	if _, ok, _ := s.Get(ctx, "unrelated"); ok {
		t.Fatalf("only known keys are seeded")
	}
}
