// Package transport delivers signed API calls.
//
// Params is the ordered form encoding used both for signing and for the
// wire. HTTP is the default Sender. Guard adds opt-in client-side
// protections (rate limiting, an in-flight limit, a circuit breaker, retries
// and per-attempt timeouts) around any Sender.
package transport
