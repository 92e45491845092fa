// Package health reports whether the SDK's dependencies are usable.
//
// Checkers cover the pieces an API client depends on: the API endpoint
// itself, the Redis server behind shared caches and session stores, cache
// directories, the active session and the circuit breaker guarding the
// transport. An Aggregator runs them together and derives one overall
// status.
//
// # Usage
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewDirChecker("request-cache", dir))
//	agg.Register(health.NewRedisChecker("redis", client))
//
//	results := agg.CheckAll(ctx)
//	if health.OverallStatus(results) == health.StatusUnhealthy {
//		...
//	}
//
// Services embedding the SDK can expose the same information over HTTP with
// RegisterHandlers.
package health
