package request

import (
	"fmt"

	"github.com/jonwraymond/s1sdk/session"
	"github.com/jonwraymond/s1sdk/transport"
)

// Authenticator supplies the actor part of a signed call.
//
// Contract:
//   - Parameters returns the actor parameters added after the timestamp.
//   - SigningKey returns the HMAC key for the call.
//   - Both are read once per Execute, after Validate succeeds. A failing
//     Validate stops the call before anything is signed or sent.
type Authenticator interface {
	Validate() error
	Type() AuthType
	Parameters() transport.Params
	SigningKey() string
}

// ActorAuth signs calls as the configured user or application.
type ActorAuth struct {
	Credentials Credentials
}

// NewActorAuth wraps creds.
func NewActorAuth(creds Credentials) *ActorAuth {
	return &ActorAuth{Credentials: creds}
}

// Validate checks the credentials.
func (a *ActorAuth) Validate() error { return a.Credentials.Validate() }

// Type returns the credential type.
func (a *ActorAuth) Type() AuthType { return a.Credentials.Type }

// Parameters returns user=<id> or application=<id>.
func (a *ActorAuth) Parameters() transport.Params {
	var p transport.Params
	switch a.Credentials.Type {
	case AuthUser:
		p.Set("user", a.Credentials.ActorID)
	case AuthApplication:
		p.Set("application", a.Credentials.ActorID)
	}
	return p
}

// SigningKey returns the actor key.
func (a *ActorAuth) SigningKey() string { return a.Credentials.ActorKey }

// SessionAuth signs calls on behalf of the session held in a store. The
// application signs, and the session key is appended to its key.
type SessionAuth struct {
	actor *ActorAuth
	store session.Store
}

// NewSessionAuth creates a session authenticator. Only application
// credentials may carry sessions.
func NewSessionAuth(creds Credentials, store session.Store) (*SessionAuth, error) {
	if creds.Type != AuthApplication {
		return nil, fmt.Errorf("%w: got %q", ErrSessionRequiresApplication, string(creds.Type))
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: session store is required", ErrInvalidConfig)
	}
	return &SessionAuth{actor: NewActorAuth(creds), store: store}, nil
}

// Validate checks the application credentials.
func (a *SessionAuth) Validate() error { return a.actor.Validate() }

// Type returns AuthApplication.
func (a *SessionAuth) Type() AuthType { return a.actor.Type() }

// Parameters returns the application parameters followed by session=<id>.
func (a *SessionAuth) Parameters() transport.Params {
	p := a.actor.Parameters()
	p.Set("session", a.store.ID())
	return p
}

// SigningKey returns the application key followed by the session key.
func (a *SessionAuth) SigningKey() string {
	return a.actor.SigningKey() + a.store.Key()
}

// Store returns the session store.
func (a *SessionAuth) Store() session.Store { return a.store }

var (
	_ Authenticator = (*ActorAuth)(nil)
	_ Authenticator = (*SessionAuth)(nil)
)
