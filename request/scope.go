package request

import "strings"

// ScopeKind tags the variant held by a Scope.
type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeCustomer
	ScopeAccounts
)

// Scope selects the customer or accounts a call applies to. A scope is
// either empty, a single customer or a non-empty list of accounts; the
// variants are exclusive by construction.
type Scope struct {
	kind     ScopeKind
	customer string
	accounts []string
}

// NoScope returns the empty scope.
func NoScope() Scope { return Scope{} }

// CustomerScope scopes calls to a customer. An empty id yields NoScope.
func CustomerScope(id string) Scope {
	if id == "" {
		return Scope{}
	}
	return Scope{kind: ScopeCustomer, customer: id}
}

// AccountScope scopes calls to one or more accounts. Empty ids are dropped
// and an empty list yields NoScope.
func AccountScope(ids ...string) Scope {
	accounts := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			accounts = append(accounts, id)
		}
	}
	if len(accounts) == 0 {
		return Scope{}
	}
	return Scope{kind: ScopeAccounts, accounts: accounts}
}

// Kind returns the active variant.
func (s Scope) Kind() ScopeKind { return s.kind }

// IsNone reports whether the scope is empty.
func (s Scope) IsNone() bool { return s.kind == ScopeNone }

// Customer returns the customer id, or "" unless the scope is a customer.
func (s Scope) Customer() string { return s.customer }

// Accounts returns a copy of the account ids.
func (s Scope) Accounts() []string {
	if len(s.accounts) == 0 {
		return nil
	}
	return append([]string(nil), s.accounts...)
}

// Account returns the first account id, or "" when there is none.
func (s Scope) Account() string {
	if len(s.accounts) == 0 {
		return ""
	}
	return s.accounts[0]
}

// Key returns a stable textual form, used in cache keys and logs.
func (s Scope) Key() string {
	switch s.kind {
	case ScopeCustomer:
		return "customer:" + s.customer
	case ScopeAccounts:
		return "accounts:" + strings.Join(s.accounts, ",")
	default:
		return "none"
	}
}

// Equal reports whether both scopes select the same target.
func (s Scope) Equal(o Scope) bool {
	if s.kind != o.kind || s.customer != o.customer || len(s.accounts) != len(o.accounts) {
		return false
	}
	for i := range s.accounts {
		if s.accounts[i] != o.accounts[i] {
			return false
		}
	}
	return true
}
