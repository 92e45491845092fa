package request

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jonwraymond/s1sdk/transport"
)

var fixedTime = time.Unix(1_700_000_000, 0)

func fixedClock() time.Time { return fixedTime }

type sentCall struct {
	Server string
	Path   string
	Params transport.Params
	Args   transport.Params
}

// recordingSender replies with a canned body and records every call.
type recordingSender struct {
	mu    sync.Mutex
	calls []sentCall
	reply []byte
	err   error
}

func newRecordingSender(reply []byte) *recordingSender {
	return &recordingSender{reply: reply}
}

func (s *recordingSender) Send(_ context.Context, server, path string, params, args transport.Params) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sentCall{Server: server, Path: path, Params: params.Clone(), Args: args.Clone()})
	return s.reply, s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *recordingSender) last() sentCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func reply(status int, msg string, extra map[string]any, body any) []byte {
	header := map[string]any{"status": status, "statusmessage": msg}
	for k, v := range extra {
		header[k] = v
	}
	data, err := json.Marshal(map[string]any{"header": header, "body": body})
	if err != nil {
		panic(err)
	}
	return data
}

func testConfig(sender transport.Sender) Config {
	return Config{
		APIURL:      "https://api.example.net",
		Credentials: UserCredentials("u1", "ukey"),
		Sender:      sender,
	}
}
