// Package secret resolves credential values from configuration.
//
// A value may be a literal, contain ${VAR} references, or be a secret
// reference of the form
//
//	secretref:<provider>:<ref>
//
// Two providers are built in: "env" reads an environment variable and
// "file" reads a file below a base directory, which suits mounted secrets.
// References may also appear inline, as in "prefix-secretref:env:KEY".
package secret
