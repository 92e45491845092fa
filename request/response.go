package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// InvalidResponseMessage is the status message reported for responses that
// could not be parsed.
const InvalidResponseMessage = "invalid response"

// ErrInvalidResponse is returned by DecodeBody on an invalid response.
var ErrInvalidResponse = errors.New("request: invalid response")

// Header is the decoded response header. Numbers are kept as json.Number.
type Header map[string]any

// Response is the parsed reply to an API call.
//
// A response is valid when the reply is a JSON object with a "header" object
// holding an integer "status" and a string "statusmessage", and a "body" key
// of any type. Accessors on an invalid response return zero values.
type Response struct {
	plain  []byte
	valid  bool
	header Header
	body   json.RawMessage
	status int
	msg    string
	err    error
}

// ParseResponse parses a raw reply. A nil reply yields an invalid response.
func ParseResponse(plain []byte) *Response {
	r := &Response{plain: plain}
	if plain == nil {
		return r
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(plain, &envelope); err != nil || envelope == nil {
		return r
	}
	rawHeader, ok := envelope["header"]
	if !ok {
		return r
	}
	body, ok := envelope["body"]
	if !ok {
		return r
	}

	var header Header
	dec := json.NewDecoder(bytes.NewReader(rawHeader))
	dec.UseNumber()
	if err := dec.Decode(&header); err != nil || header == nil {
		return r
	}
	status, ok := intValue(header["status"])
	if !ok {
		return r
	}
	msg, ok := header["statusmessage"].(string)
	if !ok {
		return r
	}

	r.valid = true
	r.header = header
	r.body = body
	r.status = status
	r.msg = msg
	return r
}

func failedResponse(err error) *Response {
	return &Response{err: err}
}

// Err returns the transport error that prevented a reply, if any.
func (r *Response) Err() error {
	if r == nil {
		return nil
	}
	return r.err
}

// Valid reports whether the reply had the expected shape.
func (r *Response) Valid() bool { return r != nil && r.valid }

// Success reports whether the reply is valid and has status 0.
func (r *Response) Success() bool { return r.Valid() && r.status == StatusOK }

// Header returns the response header, or nil when invalid.
func (r *Response) Header() Header {
	if !r.Valid() {
		return nil
	}
	return r.header
}

// Body returns the raw JSON body, or nil when invalid.
func (r *Response) Body() json.RawMessage {
	if !r.Valid() {
		return nil
	}
	return r.body
}

// DecodeBody unmarshals the body into v.
func (r *Response) DecodeBody(v any) error {
	if !r.Valid() {
		return ErrInvalidResponse
	}
	return json.Unmarshal(r.body, v)
}

// Status returns the header status.
func (r *Response) Status() (int, bool) {
	if !r.Valid() {
		return 0, false
	}
	return r.status, true
}

// StatusMessage returns the header status message, or
// InvalidResponseMessage when the reply was invalid.
func (r *Response) StatusMessage() string {
	if !r.Valid() {
		return InvalidResponseMessage
	}
	return r.msg
}

// PlainResponse returns the reply exactly as received.
func (r *Response) PlainResponse() []byte {
	if r == nil {
		return nil
	}
	return r.plain
}

// Cacheable reports whether the reply succeeded and the server marked it
// cacheable.
func (r *Response) Cacheable() bool {
	if !r.Success() {
		return false
	}
	v, _ := r.header["cacheable"].(bool)
	return v
}

// SessionTimeout returns the session timeout announced in the header.
func (r *Response) SessionTimeout() (time.Duration, bool) {
	if !r.Valid() {
		return 0, false
	}
	secs, ok := intValue(r.header["sessiontimeout"])
	if !ok {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// intValue accepts JSON integer literals only; 0.0 and 1e0 are rejected.
func intValue(v any) (int, bool) {
	n, ok := v.(json.Number)
	if !ok || strings.ContainsAny(string(n), ".eE") {
		return 0, false
	}
	i, err := strconv.Atoi(string(n))
	if err != nil {
		return 0, false
	}
	return i, true
}
