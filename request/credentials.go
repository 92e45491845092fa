package request

import "fmt"

// AuthType identifies the kind of actor a request is signed as.
type AuthType string

// Authentication types.
const (
	AuthUnknown     AuthType = ""
	AuthUser        AuthType = "user"
	AuthApplication AuthType = "application"
)

// ParseAuthType maps a configuration value to an AuthType.
func ParseAuthType(s string) AuthType {
	switch AuthType(s) {
	case AuthUser:
		return AuthUser
	case AuthApplication:
		return AuthApplication
	default:
		return AuthUnknown
	}
}

// Credentials identify the actor that signs requests.
type Credentials struct {
	Type     AuthType
	ActorID  string
	ActorKey string
}

// UserCredentials returns credentials for a user actor.
func UserCredentials(id, key string) Credentials {
	return Credentials{Type: AuthUser, ActorID: id, ActorKey: key}
}

// ApplicationCredentials returns credentials for an application actor.
func ApplicationCredentials(id, key string) Credentials {
	return Credentials{Type: AuthApplication, ActorID: id, ActorKey: key}
}

// Validate reports whether the credentials can sign a request.
func (c Credentials) Validate() error {
	if c.Type != AuthUser && c.Type != AuthApplication {
		return fmt.Errorf("%w: unknown authentication type %q", ErrInvalidConfig, string(c.Type))
	}
	if c.ActorID == "" {
		return fmt.Errorf("%w: actor id is required", ErrInvalidConfig)
	}
	if c.ActorKey == "" {
		return fmt.Errorf("%w: actor key is required", ErrInvalidConfig)
	}
	return nil
}

// String omits the key.
func (c Credentials) String() string {
	return fmt.Sprintf("%s:%s", c.Type, c.ActorID)
}
