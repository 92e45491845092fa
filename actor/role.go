package actor

import (
	"slices"

	"github.com/jonwraymond/s1sdk/request"
)

// Role is one role assignment of an actor. A role without customer and
// account applies everywhere.
type Role struct {
	Role     RoleDef `json:"role"`
	Customer *Ref    `json:"customer,omitempty"`
	Account  *Ref    `json:"account,omitempty"`
}

// RoleDef describes the permissions a role grants.
type RoleDef struct {
	ID     request.ID `json:"id,omitempty"`
	Name   string     `json:"name,omitempty"`
	Tokens []string   `json:"tokens"`
}

// Ref points at a customer or account.
type Ref struct {
	ID request.ID `json:"id"`
}

// Global reports whether the role is bound to neither customer nor account.
func (r Role) Global() bool { return r.Customer == nil && r.Account == nil }

// Covers reports whether the role applies to the given customer or account.
// Pass an empty customer when checking an account and vice versa.
//
// A global role covers everything. A customer role covers only that
// customer. An account role covers only that account.
func (r Role) Covers(customer, account string) bool {
	switch {
	case r.Global():
		return true
	case r.Account == nil:
		return customer != "" && r.Customer.ID.String() == customer
	default:
		return account != "" && r.Account.ID.String() == account
	}
}

// Grants reports whether the role covers the target and holds token.
func (r Role) Grants(token, customer, account string) bool {
	return r.Covers(customer, account) && slices.Contains(r.Role.Tokens, token)
}
