// Package actor answers permission questions for the party making API calls.
//
// An Actor is a user or application, optionally acting through a session,
// working in a scope of one customer or a set of accounts. HasToken reports
// whether the actor holds a permission token in that scope, using the roles
// returned by the platform and, when roles alone cannot decide, the actor's
// effective token list.
//
// Roles and tokens are cached in a cache.Cache. By default an actor with a
// session keeps them in the session store, so they are dropped on logout.
// Concurrent lookups for the same key are collapsed with singleflight.
package actor
