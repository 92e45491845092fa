package transport

import "testing"

func TestParams_SetKeepsFirstPosition(t *testing.T) {
	p := NewParams("api", "3", "format", "json")
	p.Set("api", "4")
	p.Set("account", "a1")

	if got := p.Encode(); got != "api=4&format=json&account=a1" {
		t.Errorf("Encode() = %q", got)
	}
}

func TestParams_Del(t *testing.T) {
	p := NewParams("a", "1", "b", "2", "c", "3")
	p.Del("b")
	p.Del("missing")

	if got := p.Encode(); got != "a=1&c=3" {
		t.Errorf("Encode() = %q", got)
	}
	if _, ok := p.Get("b"); ok {
		t.Error("deleted key should be absent")
	}
}

func TestParams_Encode(t *testing.T) {
	p := NewParams("q", "a b", "tilde", "x~y", "sym", "&=/")
	want := "q=a+b&tilde=x%7Ey&sym=%26%3D%2F"
	if got := p.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestParams_CloneIsIndependent(t *testing.T) {
	p := NewParams("a", "1")
	c := p.Clone()
	c.Set("a", "2")
	c.Set("b", "3")

	if v, _ := p.Get("a"); v != "1" {
		t.Errorf("original mutated: a=%q", v)
	}
	if p.Len() != 1 {
		t.Errorf("original Len() = %d, want 1", p.Len())
	}
}

func TestParams_Sorted(t *testing.T) {
	p := NewParams("b", "2", "a", "1")
	if got := p.Sorted().Encode(); got != "a=1&b=2" {
		t.Errorf("Sorted().Encode() = %q", got)
	}
	if got := p.Encode(); got != "b=2&a=1" {
		t.Errorf("Sorted() must not reorder the receiver, got %q", got)
	}
}

func TestParams_Empty(t *testing.T) {
	var p Params
	if p.Encode() != "" {
		t.Error("empty params should encode to empty string")
	}
	if len(p.Map()) != 0 {
		t.Error("empty params should map to empty map")
	}
}
