package request

import (
	"errors"
	"fmt"
)

// Sentinel errors for request construction and API failures.
var (
	// ErrInvalidConfig reports unusable configuration such as missing
	// credentials or an unknown authentication type.
	ErrInvalidConfig = errors.New("request: invalid configuration")

	// ErrSessionRequiresApplication is returned when a session request is
	// built with anything other than application credentials.
	ErrSessionRequiresApplication = errors.New("request: sessions require application authentication")

	// ErrAPI is matched by every *APIError.
	ErrAPI = errors.New("request: api error")
)

// Status codes returned in the response header.
const (
	StatusOK      = 0
	StatusInvalid = -1
)

// APIError carries the status of a failed API call.
type APIError struct {
	Status  int
	Message string

	// Err is the cause when no reply was received, such as a transport
	// failure or invalid credentials.
	Err error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request: api error %d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("request: api error %d: %s", e.Status, e.Message)
}

// Is reports whether target is ErrAPI or an APIError with the same status.
func (e *APIError) Is(target error) bool {
	if target == ErrAPI {
		return true
	}
	other, ok := target.(*APIError)
	return ok && other.Status == e.Status
}

// Unwrap returns ErrAPI and the cause, if any.
func (e *APIError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrAPI, e.Err}
	}
	return []error{ErrAPI}
}

// ErrorFromResponse converts a failed response into an *APIError.
// It returns nil for successful responses.
func ErrorFromResponse(resp *Response) error {
	if resp.Success() {
		return nil
	}
	status, ok := resp.Status()
	if !ok {
		status = StatusInvalid
	}
	return &APIError{Status: status, Message: resp.StatusMessage(), Err: resp.Err()}
}
