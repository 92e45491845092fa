package cache

import (
	"encoding/json"
	"time"
)

// envelope wraps a value with its storage time for backends that cannot
// report an age on their own.
type envelope struct {
	Time  int64  `json:"time"`
	Value []byte `json:"value"`
}

func wrap(value []byte, storedAt time.Time) ([]byte, error) {
	return json.Marshal(envelope{Time: storedAt.UnixNano(), Value: value})
}

func unwrap(data []byte) (envelope, bool) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, false
	}
	if env.Value == nil {
		env.Value = []byte{}
	}
	return env, true
}

func (e envelope) storedAt() time.Time {
	return time.Unix(0, e.Time)
}
