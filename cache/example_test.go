package cache_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/s1sdk/cache"
)

func ExampleNewMemoryCache() {
	c := cache.NewMemoryCache()
	ctx := context.Background()

	_, ok := c.Get(ctx, "greeting")
	fmt.Println("before set:", ok)

	c.Set(ctx, "greeting", []byte("hello"))
	value, ok := c.Get(ctx, "greeting")
	fmt.Println("after set:", ok, string(value))
	// Output:
	// before set: false
	// after set: true hello
}

func ExampleRequestKey() {
	key := cache.RequestKey("/api/item/view",
		map[string]string{"format": "json", "api": "3"},
		map[string]string{"id": "42"})
	fmt.Println(key)
	// Output:
	// s1:request:/api/item/view?api=3&format=json#id=42
}
