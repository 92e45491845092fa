// Package password implements the password primitives of the login
// handshake: bcrypt hashing with a server supplied salt, the challenge
// response and the legacy v2 hash.
package password
