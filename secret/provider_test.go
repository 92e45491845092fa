package secret

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvProvider(t *testing.T) {
	t.Setenv("S1_SECRET_TOKEN", "abc")

	p := NewEnvProvider("S1_SECRET_")
	got, err := p.Resolve(context.Background(), "TOKEN")
	if err != nil || got != "abc" {
		t.Fatalf("Resolve() = %q, %v", got, err)
	}

	_, err = p.Resolve(context.Background(), "NOPE")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "s1"), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "s1", "key"), []byte("secret\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	p := NewFileProvider(dir)
	got, err := p.Resolve(context.Background(), "s1/key")
	if err != nil || got != "secret" {
		t.Fatalf("Resolve() = %q, %v", got, err)
	}

	if _, err := p.Resolve(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	for _, ref := range []string{"../etc/passwd", "/etc/passwd", ".."} {
		if _, err := p.Resolve(context.Background(), ref); !errors.Is(err, ErrInvalidRef) {
			t.Fatalf("Resolve(%q) expected ErrInvalidRef, got %v", ref, err)
		}
	}
}
