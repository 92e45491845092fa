// Package session stores the credentials of a platform session.
//
// A Store holds at most one session (id, key, owning user and absolute
// expiry) plus a small cache that lives and dies with it. MemoryStore keeps
// everything in process memory. HostStore persists the same state through a
// Backend (memory, file or Redis) with an explicit Start/Flush lifecycle, so
// it can be tied to a web session or a CLI profile. TokenCodec signs the host
// id for use in cookies.
package session
