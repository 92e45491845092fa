package cache

import (
	"net/url"
	"sort"
	"strings"
)

// Key prefixes for SDK-owned entries.
const (
	RequestKeyPrefix = ReservedPrefix + "request:"
	RolesKeyPrefix   = ReservedPrefix + "roles:"
	TokensKeyPrefix  = ReservedPrefix + "tokens:"
)

// RequestKey builds the cache key for an API call.
// Format: s1:request:<path>?<sorted params>#<sorted args>
//
// The key is independent of the order in which parameters and arguments were
// set, so equivalent calls share one entry.
func RequestKey(path string, params, args map[string]string) string {
	var b strings.Builder
	b.WriteString(RequestKeyPrefix)
	b.WriteString(path)
	b.WriteByte('?')
	b.WriteString(canonicalize(params))
	b.WriteByte('#')
	b.WriteString(canonicalize(args))
	return b.String()
}

// RolesKey builds the cache key for the role list of an actor.
func RolesKey(actorType, actorID string) string {
	return RolesKeyPrefix + actorType + ":" + actorID
}

// TokensKey builds the cache key for the effective token list of an actor in
// a scope. Account order does not affect the key.
func TokensKey(authType, actorID, customer string, accounts []string) string {
	sorted := append([]string(nil), accounts...)
	sort.Strings(sorted)
	return TokensKeyPrefix + authType + ":" + actorID + ":" + customer + ":" + strings.Join(sorted, "|")
}

// canonicalize form-encodes m with keys in sorted order.
func canonicalize(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(m[k]))
	}
	return b.String()
}
