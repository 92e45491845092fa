package secret

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistry_RegisterAndCreate(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("stub", func(map[string]any) (Provider, error) {
		return &stubProvider{name: "stub"}, nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	p, err := reg.Create("stub", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Name() != "stub" {
		t.Fatalf("Name() = %q", p.Name())
	}

	err = reg.Register("stub", func(map[string]any) (Provider, error) { return nil, nil })
	if !errors.Is(err, ErrProviderRegistered) {
		t.Fatalf("expected ErrProviderRegistered, got %v", err)
	}

	if _, err := reg.Create("missing", nil); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestDefaultRegistry(t *testing.T) {
	if got := DefaultRegistry.List(); !reflect.DeepEqual(got, []string{"env", "file"}) {
		t.Fatalf("List() = %v", got)
	}

	p, err := DefaultRegistry.Create("file", map[string]any{"dir": t.TempDir()})
	if err != nil {
		t.Fatalf("Create(file) error = %v", err)
	}
	if p.Name() != "file" {
		t.Fatalf("Name() = %q", p.Name())
	}

	p, err = DefaultRegistry.Create("env", map[string]any{"prefix": "S1_"})
	if err != nil {
		t.Fatalf("Create(env) error = %v", err)
	}
	if p.Name() != "env" {
		t.Fatalf("Name() = %q", p.Name())
	}
}
