package cache

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkMemoryCache_Get_Hit(b *testing.B) {
	c := NewMemoryCache()
	ctx := context.Background()
	c.Set(ctx, "key", []byte("value"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get(ctx, "key")
	}
}

func BenchmarkRequestKey(b *testing.B) {
	params := map[string]string{"api": "3", "format": "json", "account": "a1", "application": "app"}
	args := make(map[string]string, 8)
	for i := 0; i < 8; i++ {
		args[fmt.Sprintf("arg%d", i)] = "value"
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = RequestKey("/api/item/view", params, args)
	}
}
