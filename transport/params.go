package transport

import (
	"net/url"
	"sort"
	"strings"
)

// Param is a single key/value pair.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered set of form values. Setting an existing key replaces
// its value in place, so the encoding order is the order of first insertion.
type Params struct {
	items []Param
}

// NewParams creates a set from alternating keys and values.
func NewParams(kv ...string) Params {
	var p Params
	for i := 0; i+1 < len(kv); i += 2 {
		p.Set(kv[i], kv[i+1])
	}
	return p
}

// Set stores value under key.
func (p *Params) Set(key, value string) {
	for i := range p.items {
		if p.items[i].Key == key {
			p.items[i].Value = value
			return
		}
	}
	p.items = append(p.items, Param{Key: key, Value: value})
}

// Get returns the value stored under key.
func (p Params) Get(key string) (string, bool) {
	for _, it := range p.items {
		if it.Key == key {
			return it.Value, true
		}
	}
	return "", false
}

// Del removes key.
func (p *Params) Del(key string) {
	for i := range p.items {
		if p.items[i].Key == key {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return
		}
	}
}

// Len returns the number of pairs.
func (p Params) Len() int { return len(p.items) }

// Clone returns an independent copy.
func (p Params) Clone() Params {
	return Params{items: append([]Param(nil), p.items...)}
}

// All returns the pairs in order.
func (p Params) All() []Param {
	return append([]Param(nil), p.items...)
}

// Map returns the pairs as a map.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p.items))
	for _, it := range p.items {
		m[it.Key] = it.Value
	}
	return m
}

// Sorted returns a copy ordered by key.
func (p Params) Sorted() Params {
	out := p.Clone()
	sort.SliceStable(out.items, func(i, j int) bool { return out.items[i].Key < out.items[j].Key })
	return out
}

// Encode form-encodes the pairs in order. Spaces become '+' and every byte
// outside [A-Za-z0-9_.-] is percent-encoded, matching the encoding the
// platform uses when it verifies signatures.
func (p Params) Encode() string {
	var b strings.Builder
	for i, it := range p.items {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(it.Key))
		b.WriteByte('=')
		b.WriteString(escape(it.Value))
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "~", "%7E")
}
