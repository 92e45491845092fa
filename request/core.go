package request

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jonwraymond/s1sdk/cache"
	"github.com/jonwraymond/s1sdk/observe"
	"github.com/jonwraymond/s1sdk/transport"
)

// APIVersion is the protocol version sent with every call.
const APIVersion = "3"

// DefaultVisibleErrors lists the statuses logged at error level when no
// other set is configured.
var DefaultVisibleErrors = []int{2, 3, 4, 5, 7}

// State is the lifecycle position of a request.
type State int

const (
	StateBuilding State = iota
	StateExecuted
	StateSuccess
	StateError
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateExecuted:
		return "executed"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

func stateOf(resp *Response) State {
	switch {
	case resp == nil:
		return StateBuilding
	case resp.Success():
		return StateSuccess
	case resp.Valid():
		return StateError
	default:
		return StateInvalid
	}
}

// Request is a single API call being built or executed.
//
// Contract:
//   - Concurrency: a request is owned by one caller and is not safe for
//     concurrent use.
//   - Execute never returns nil. Transport failures produce an invalid
//     response whose Err reports the cause.
//   - Re-executing keeps scope and arguments and replaces the response.
type Request interface {
	Command() string
	Action() string
	Path() string

	SetAccount(id string)
	SetAccounts(ids []string)
	SetCustomer(id string)
	SetScope(s Scope)
	Scope() Scope

	SetArgument(name, value string)
	Arguments() transport.Params

	SetTimeZone(loc *time.Location)
	SetProtocol(protocol string)

	// CacheKey identifies the call without its timestamp and signature.
	CacheKey() string

	Execute(ctx context.Context) *Response
	Response() *Response
	State() State
}

// Config holds what a Core needs to sign and send calls.
type Config struct {
	APIURL         string
	Credentials    Credentials
	DefaultAccount string
	Sender         transport.Sender

	// VisibleErrors lists statuses that are logged at error level.
	VisibleErrors []int

	Logger observe.Logger
}

// CoreOption configures a Core.
type CoreOption func(*Core)

// WithAuthenticator replaces the credential-based authenticator.
func WithAuthenticator(a Authenticator) CoreOption {
	return func(c *Core) {
		if a != nil {
			c.auth = a
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) CoreOption {
	return func(c *Core) {
		if now != nil {
			c.now = now
		}
	}
}

// Core signs calls and sends them through a transport.Sender.
type Core struct {
	command string
	action  string

	apiURL   string
	protocol string
	scope    Scope
	timezone string
	args     transport.Params

	auth    Authenticator
	sender  transport.Sender
	visible []int
	logger  observe.Logger
	now     func() time.Time

	state State
	resp  *Response
}

// NewCore creates a request for command/action. The scope starts at the
// configured default account, if any.
func NewCore(command, action string, cfg Config, opts ...CoreOption) *Core {
	c := &Core{
		command: command,
		action:  action,
		apiURL:  cfg.APIURL,
		scope:   AccountScope(cfg.DefaultAccount),
		auth:    NewActorAuth(cfg.Credentials),
		sender:  cfg.Sender,
		visible: append([]int(nil), cfg.VisibleErrors...),
		logger:  cfg.Logger,
		now:     time.Now,
	}
	if c.sender == nil {
		c.sender = transport.NewHTTP()
	}
	if c.logger == nil {
		c.logger = observe.NopLogger()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Command returns the API command.
func (c *Core) Command() string { return c.command }

// Action returns the API action.
func (c *Core) Action() string { return c.action }

// Path returns /api/<command>/<action>.
func (c *Core) Path() string { return "/api/" + c.command + "/" + c.action }

// SetAccount scopes the call to one account. An empty id clears the scope.
func (c *Core) SetAccount(id string) { c.scope = AccountScope(id) }

// SetAccounts scopes the call to several accounts. An empty list clears
// the scope.
func (c *Core) SetAccounts(ids []string) { c.scope = AccountScope(ids...) }

// SetCustomer scopes the call to a customer. An empty id clears the scope.
func (c *Core) SetCustomer(id string) { c.scope = CustomerScope(id) }

// SetScope replaces the scope.
func (c *Core) SetScope(s Scope) { c.scope = s }

// Scope returns the current scope.
func (c *Core) Scope() Scope { return c.scope }

// SetArgument sets an argument. Setting an existing name replaces it.
func (c *Core) SetArgument(name, value string) { c.args.Set(name, value) }

// Arguments returns a copy of the arguments in insertion order.
func (c *Core) Arguments() transport.Params { return c.args.Clone() }

// SetTimeZone sends loc's name with the call. nil removes it.
func (c *Core) SetTimeZone(loc *time.Location) {
	if loc == nil {
		c.timezone = ""
		return
	}
	c.timezone = loc.String()
}

// SetProtocol overrides the protocol taken from the API URL.
func (c *Core) SetProtocol(protocol string) { c.protocol = protocol }

// Protocol returns the scheme used for calls: the override, else the one in
// the API URL, else http.
func (c *Core) Protocol() string {
	if c.protocol != "" {
		return c.protocol
	}
	if proto, _, _ := splitAPIURL(c.apiURL); proto != "" {
		return proto
	}
	return "http"
}

// Server returns <protocol>://<host><prefix>.
func (c *Core) Server() string {
	_, host, prefix := splitAPIURL(c.apiURL)
	return c.Protocol() + "://" + host + prefix
}

// CacheKey identifies the call by path, parameters and arguments, leaving out
// the timestamp and signature.
func (c *Core) CacheKey() string {
	return cache.RequestKey(c.Path(), c.unsignedParameters().Map(), c.args.Map())
}

// Parameters returns the parameters that would be signed right now,
// including the timestamp.
func (c *Core) Parameters() transport.Params {
	return c.signingParameters(c.now())
}

// Execute signs and sends the call and parses the reply. Invalid
// credentials produce an invalid response whose Err wraps ErrInvalidConfig;
// nothing is sent.
func (c *Core) Execute(ctx context.Context) *Response {
	c.state = StateExecuted
	c.resp = nil

	if err := c.auth.Validate(); err != nil {
		c.resp = failedResponse(err)
		c.state = StateInvalid
		c.logger.Warn(ctx, "request not sent",
			observe.F("command", c.command),
			observe.F("action", c.action),
			observe.F("error", err.Error()),
		)
		return c.resp
	}

	path := c.Path()
	params := c.signingParameters(c.now())
	params.Set("signature", Signature(path, params, c.args, c.auth.SigningKey()))

	plain, err := c.sender.Send(ctx, c.Server(), path, params, c.args.Clone())
	if err != nil {
		c.resp = failedResponse(err)
		c.logger.Debug(ctx, "request failed",
			observe.F("command", c.command),
			observe.F("action", c.action),
			observe.F("error", err.Error()),
		)
	} else {
		c.resp = ParseResponse(plain)
	}
	c.state = stateOf(c.resp)

	if status, ok := c.resp.Status(); ok && slices.Contains(c.visible, status) {
		c.logger.Error(ctx, "api error",
			observe.F("command", c.command),
			observe.F("action", c.action),
			observe.F("status", status),
			observe.F("statusmessage", c.resp.StatusMessage()),
		)
	}
	return c.resp
}

// Response returns the last response, or nil before Execute.
func (c *Core) Response() *Response { return c.resp }

// State returns the lifecycle state.
func (c *Core) State() State { return c.state }

// unsignedParameters holds base, scope, time zone and actor parameters.
func (c *Core) unsignedParameters() transport.Params {
	p := c.baseParameters()
	for _, kv := range c.auth.Parameters().All() {
		p.Set(kv.Key, kv.Value)
	}
	return p
}

func (c *Core) baseParameters() transport.Params {
	p := transport.NewParams(
		"api", APIVersion,
		"format", "json",
		"authentication_type", string(c.auth.Type()),
	)
	switch c.scope.Kind() {
	case ScopeAccounts:
		p.Set("account", strings.Join(c.scope.accounts, ","))
	case ScopeCustomer:
		p.Set("customer", c.scope.customer)
	}
	if c.timezone != "" {
		p.Set("timezone", c.timezone)
	}
	return p
}

func (c *Core) signingParameters(now time.Time) transport.Params {
	p := c.baseParameters()
	p.Set("timestamp", strconv.FormatInt(now.Unix(), 10))
	for _, kv := range c.auth.Parameters().All() {
		p.Set(kv.Key, kv.Value)
	}
	return p
}

// Signature returns the hex HMAC-SHA1 of path?params&args under key.
func Signature(path string, params, args transport.Params, key string) string {
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(path + "?" + params.Encode() + "&" + args.Encode()))
	return hex.EncodeToString(mac.Sum(nil))
}

var apiURLPattern = regexp.MustCompile(`^(?:([a-zA-Z0-9+.\-]+):/?/?)?([^/]*)(.*)$`)

// splitAPIURL splits protocol://host/prefix. Protocol and prefix may be
// absent.
func splitAPIURL(apiURL string) (protocol, host, prefix string) {
	m := apiURLPattern.FindStringSubmatch(apiURL)
	if m == nil {
		return "", apiURL, ""
	}
	return m[1], m[2], m[3]
}

var _ Request = (*Core)(nil)
