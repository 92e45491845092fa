package request

import (
	"context"

	"github.com/jonwraymond/s1sdk/session"
)

// SessionRefresh moves the session expiry to the timeout announced by the
// server after each live reply.
type SessionRefresh struct {
	Request

	store session.Store
}

// NewSessionRefresh wraps inner.
func NewSessionRefresh(inner Request, store session.Store) *SessionRefresh {
	return &SessionRefresh{Request: inner, store: store}
}

// Execute runs the wrapped request and applies any sessiontimeout header.
// Replies replayed from a cache leave the expiry alone.
func (s *SessionRefresh) Execute(ctx context.Context) *Response {
	resp := s.Request.Execute(ctx)
	if fromCache, _ := CacheStatus(s.Request); fromCache {
		return resp
	}
	if timeout, ok := resp.SessionTimeout(); ok {
		s.store.SetTimeout(timeout)
	}
	return resp
}

// Store returns the session store.
func (s *SessionRefresh) Store() session.Store { return s.store }

// Unwrap returns the wrapped request.
func (s *SessionRefresh) Unwrap() Request { return s.Request }

var _ Request = (*SessionRefresh)(nil)
