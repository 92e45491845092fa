// Package login establishes and ends platform sessions.
//
// A session is started with a two-step challenge/response exchange. The
// password never leaves the process; only a response derived from the
// server's salt and challenge is sent. The resulting session id and key are
// written to a session.Store, and requests built through the Session are
// signed with them.
package login
