package request

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an identifier in a response body. The platform sends ids as strings
// or as numbers; both decode to the same text.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("request: id must be a string or number: %w", err)
		}
		*id = ID(n.String())
		return nil
	}
}

// String returns the id text.
func (id ID) String() string { return string(id) }
