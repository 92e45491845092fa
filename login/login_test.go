package login

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/s1sdk/password"
	"github.com/jonwraymond/s1sdk/request"
	"github.com/jonwraymond/s1sdk/session"
	"github.com/jonwraymond/s1sdk/transport"
)

const testSalt = "$2y$04$abcdefghijklmnopqrstuu"

func envelope(status int, msg string, body any) []byte {
	data, err := json.Marshal(map[string]any{
		"header": map[string]any{"status": status, "statusmessage": msg},
		"body":   body,
	})
	if err != nil {
		panic(err)
	}
	return data
}

// fakeAPI answers the session commands and records the calls.
type fakeAPI struct {
	mu       sync.Mutex
	calls    []string
	args     map[string]transport.Params
	params   map[string]transport.Params
	replies  map[string][]byte
	needsV2  bool
	password string
}

func newFakeAPI(pass string) *fakeAPI {
	return &fakeAPI{
		args:     make(map[string]transport.Params),
		params:   make(map[string]transport.Params),
		replies:  make(map[string][]byte),
		password: pass,
	}
}

func (f *fakeAPI) Send(_ context.Context, _, path string, params, args transport.Params) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	f.args[path] = args.Clone()
	f.params[path] = params.Clone()

	if reply, ok := f.replies[path]; ok {
		return reply, nil
	}
	switch path {
	case "/api/session/initialize":
		return envelope(0, "OK", map[string]any{
			"needsv2hash": f.needsV2,
			"salt":        testSalt,
			"challenge":   "ch4llenge",
		}), nil
	case "/api/session/create":
		want, err := password.Response(f.password, testSalt, "ch4llenge")
		if err != nil {
			return nil, err
		}
		if got, _ := args.Get("response"); got != want {
			return envelope(4, "Invalid password", nil), nil
		}
		return envelope(0, "OK", map[string]any{
			"id": "sid", "key": "skey", "user": 77, "timeout": 1200,
		}), nil
	default:
		return envelope(0, "OK", nil), nil
	}
}

func newSession(t *testing.T, api *fakeAPI) (*Session, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	factory := request.NewFactory(request.Config{
		APIURL:      "api.example.net",
		Credentials: request.ApplicationCredentials("app", "akey"),
		Sender:      api,
	}, nil)
	return New(factory, store), store
}

func TestStart_Success(t *testing.T) {
	t.Parallel()

	api := newFakeAPI("hunter2")
	sess, store := newSession(t, api)

	ok, err := sess.Start(context.Background(), "alice", "hunter2", "10.0.0.1")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, sess.IsActive())

	require.Equal(t, "sid", store.ID())
	require.Equal(t, "skey", store.Key())
	require.Equal(t, "77", store.UserID())
	require.InDelta(t, float64(1200*time.Second), float64(store.Timeout()), float64(time.Second))

	initArgs := api.args["/api/session/initialize"]
	user, _ := initArgs.Get("user")
	ip, _ := initArgs.Get("userip")
	require.Equal(t, "alice", user)
	require.Equal(t, "10.0.0.1", ip)

	createArgs := api.args["/api/session/create"]
	_, hasV2 := createArgs.Get("v2hash")
	require.False(t, hasV2)

	status, valid, err := sess.StartStatus()
	require.NoError(t, err)
	require.True(t, valid)
	require.Equal(t, 0, status)

	userID, err := sess.UserID()
	require.NoError(t, err)
	require.Equal(t, "77", userID)
}

func TestStart_SendsV2HashWhenAsked(t *testing.T) {
	t.Parallel()

	api := newFakeAPI("hunter2")
	api.needsV2 = true
	sess, _ := newSession(t, api)

	ok, err := sess.Start(context.Background(), "alice", "hunter2", "10.0.0.1")
	require.NoError(t, err)
	require.True(t, ok)

	v2, found := api.args["/api/session/create"].Get("v2hash")
	require.True(t, found)
	require.Equal(t, password.V2Hash("hunter2"), v2)
}

func TestStart_WrongPassword(t *testing.T) {
	t.Parallel()

	api := newFakeAPI("hunter2")
	sess, _ := newSession(t, api)

	ok, err := sess.Start(context.Background(), "alice", "wrong", "10.0.0.1")
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, sess.IsActive())

	status, valid, err := sess.StartStatus()
	require.NoError(t, err)
	require.True(t, valid)
	require.Equal(t, 4, status)

	msg, valid, err := sess.StartStatusMessage()
	require.NoError(t, err)
	require.True(t, valid)
	require.Equal(t, "Invalid password", msg)
}

func TestStart_InitializeRejected(t *testing.T) {
	t.Parallel()

	api := newFakeAPI("hunter2")
	api.replies["/api/session/initialize"] = envelope(3, "Unknown user", nil)
	sess, _ := newSession(t, api)

	ok, err := sess.Start(context.Background(), "nobody", "x", "10.0.0.1")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, []string{"/api/session/initialize"}, api.calls)

	msg, _, err := sess.StartStatusMessage()
	require.NoError(t, err)
	require.Equal(t, "Unknown user", msg)
}

func TestStart_InvalidReply(t *testing.T) {
	t.Parallel()

	api := newFakeAPI("hunter2")
	api.replies["/api/session/initialize"] = []byte("<html>")
	sess, _ := newSession(t, api)

	ok, err := sess.Start(context.Background(), "alice", "hunter2", "10.0.0.1")
	require.NoError(t, err)
	require.False(t, ok)

	_, valid, err := sess.StartStatus()
	require.NoError(t, err)
	require.False(t, valid)
	_, valid, err = sess.StartStatusMessage()
	require.NoError(t, err)
	require.False(t, valid)
}

func TestStart_BadSaltIsLocalError(t *testing.T) {
	t.Parallel()

	api := newFakeAPI("hunter2")
	api.replies["/api/session/initialize"] = envelope(0, "OK", map[string]any{
		"needsv2hash": false, "salt": "nonsense", "challenge": "c",
	})
	sess, _ := newSession(t, api)

	ok, err := sess.Start(context.Background(), "alice", "hunter2", "10.0.0.1")
	require.ErrorIs(t, err, password.ErrUnsupportedSalt)
	require.False(t, ok)
}

func TestStartStatus_BeforeStart(t *testing.T) {
	t.Parallel()

	sess, _ := newSession(t, newFakeAPI(""))
	_, _, err := sess.StartStatus()
	require.ErrorIs(t, err, ErrNotStarted)
	_, _, err = sess.StartStatusMessage()
	require.ErrorIs(t, err, ErrNotStarted)
}

func TestNoActiveSession(t *testing.T) {
	t.Parallel()

	sess, _ := newSession(t, newFakeAPI(""))

	_, err := sess.End(context.Background())
	require.ErrorIs(t, err, ErrNoActiveSession)
	_, err = sess.NewRequest("item", "view")
	require.ErrorIs(t, err, ErrNoActiveSession)
	_, err = sess.UserID()
	require.ErrorIs(t, err, ErrNoActiveSession)
}

func TestNewRequest_UsesSession(t *testing.T) {
	t.Parallel()

	api := newFakeAPI("")
	sess, store := newSession(t, api)
	store.SetSession("sid", "skey", "u1", time.Hour)

	req, err := sess.NewRequest("item", "view")
	require.NoError(t, err)
	req.Execute(context.Background())

	sid, ok := api.params["/api/item/view"].Get("session")
	require.True(t, ok)
	require.Equal(t, "sid", sid)
}

func TestEnd_ClearsStoreEvenOnFailure(t *testing.T) {
	t.Parallel()

	api := newFakeAPI("")
	api.replies["/api/session/delete"] = envelope(9, "Gone", nil)
	sess, store := newSession(t, api)
	store.SetSession("sid", "skey", "u1", time.Hour)

	ok, err := sess.End(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, store.HasSession())
}

func TestEnd_Success(t *testing.T) {
	t.Parallel()

	api := newFakeAPI("")
	sess, store := newSession(t, api)
	store.SetSession("sid", "skey", "u1", time.Hour)

	ok, err := sess.End(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, sess.IsActive())
	require.Contains(t, api.calls, "/api/session/delete")
}
