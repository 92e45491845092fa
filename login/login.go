package login

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/s1sdk/observe"
	"github.com/jonwraymond/s1sdk/password"
	"github.com/jonwraymond/s1sdk/request"
	"github.com/jonwraymond/s1sdk/session"
)

// Sentinel errors for session lifecycle misuse.
var (
	ErrNoActiveSession = errors.New("login: no active session")
	ErrNotStarted      = errors.New("login: start has not been called")
)

// Session drives the session protocol against one store.
//
// Contract:
//   - Start never returns an error for server-side failures; those are
//     reported as false and are inspectable through StartStatus.
//   - Operations that need a session return ErrNoActiveSession when the
//     store holds none.
type Session struct {
	factory request.Factory
	store   session.Store
	logger  observe.Logger

	started   bool
	startResp *request.Response
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for protocol events.
func WithLogger(l observe.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a session bound to store. Requests are built with factory.
func New(factory request.Factory, store session.Store, opts ...Option) *Session {
	s := &Session{
		factory: factory,
		store:   store,
		logger:  observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the session store.
func (s *Session) Store() session.Store { return s.store }

// IsActive reports whether the store holds an unexpired session.
func (s *Session) IsActive() bool { return s.store.HasSession() }

type initializeBody struct {
	NeedsV2Hash bool   `json:"needsv2hash"`
	Salt        string `json:"salt"`
	Challenge   string `json:"challenge"`
}

type createBody struct {
	ID      request.ID `json:"id"`
	Key     string     `json:"key"`
	User    request.ID `json:"user"`
	Timeout int64      `json:"timeout"`
}

// Start logs in as username from ip. It returns false when the server
// rejects either step; the rejected step is kept for StartStatus. Errors are
// returned only for local failures such as an unusable salt.
func (s *Session) Start(ctx context.Context, username, pass, ip string) (bool, error) {
	s.started = true

	initReq := s.factory.NewRequest("session", "initialize")
	initReq.SetArgument("user", username)
	initReq.SetArgument("userip", ip)
	resp := initReq.Execute(ctx)
	s.startResp = resp
	if !resp.Success() {
		s.logger.Info(ctx, "session initialize rejected",
			observe.F("user", username),
			observe.F("statusmessage", resp.StatusMessage()),
		)
		return false, nil
	}

	var challenge initializeBody
	if err := resp.DecodeBody(&challenge); err != nil {
		return false, fmt.Errorf("login: decode challenge: %w", err)
	}

	answer, err := password.Response(pass, challenge.Salt, challenge.Challenge)
	if err != nil {
		return false, fmt.Errorf("login: compute response: %w", err)
	}

	create := s.factory.NewRequest("session", "create")
	create.SetArgument("challenge", challenge.Challenge)
	create.SetArgument("response", answer)
	if challenge.NeedsV2Hash {
		create.SetArgument("v2hash", password.V2Hash(pass))
	}
	resp = create.Execute(ctx)
	s.startResp = resp
	if !resp.Success() {
		s.logger.Info(ctx, "session create rejected",
			observe.F("user", username),
			observe.F("statusmessage", resp.StatusMessage()),
		)
		return false, nil
	}

	var created createBody
	if err := resp.DecodeBody(&created); err != nil {
		return false, fmt.Errorf("login: decode session: %w", err)
	}
	s.store.SetSession(created.ID.String(), created.Key, created.User.String(),
		time.Duration(created.Timeout)*time.Second)
	s.logger.Debug(ctx, "session started", observe.F("user_id", created.User.String()))
	return true, nil
}

// StartStatus returns the status of the last Start step. ok is false when
// that step produced no valid response.
func (s *Session) StartStatus() (status int, ok bool, err error) {
	if !s.started {
		return 0, false, ErrNotStarted
	}
	status, ok = s.startResp.Status()
	return status, ok, nil
}

// StartStatusMessage returns the status message of the last Start step. ok
// is false when that step produced no valid response.
func (s *Session) StartStatusMessage() (msg string, ok bool, err error) {
	if !s.started {
		return "", false, ErrNotStarted
	}
	if !s.startResp.Valid() {
		return "", false, nil
	}
	return s.startResp.StatusMessage(), true, nil
}

// End deletes the session on the server and clears the store. The store is
// cleared even when the server call fails; the result reports whether the
// server accepted the delete.
func (s *Session) End(ctx context.Context) (bool, error) {
	req, err := s.NewRequest("session", "delete")
	if err != nil {
		return false, err
	}
	resp := req.Execute(ctx)
	s.store.ClearSession()
	return resp.Success(), nil
}

// NewRequest creates a request signed with the active session.
func (s *Session) NewRequest(command, action string) (request.Request, error) {
	if !s.IsActive() {
		return nil, ErrNoActiveSession
	}
	return s.factory.NewSessionRequest(command, action, s.store)
}

// UserID returns the id of the logged in user.
func (s *Session) UserID() (string, error) {
	if !s.IsActive() {
		return "", ErrNoActiveSession
	}
	return s.store.UserID(), nil
}
