package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/s1sdk/actor"
	"github.com/jonwraymond/s1sdk/request"
)

// scopeFlags selects the account or customer a command acts in.
type scopeFlags struct {
	accounts []string
	customer string
}

func (f *scopeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.accounts, "account", nil, "Account to act in (repeatable)")
	cmd.Flags().StringVar(&f.customer, "customer", "", "Customer to act in")
	cmd.MarkFlagsMutuallyExclusive("account", "customer")
}

// apply sets the scope on req. Without flags the request keeps its default
// account.
func (f *scopeFlags) apply(req request.Request) {
	switch {
	case len(f.accounts) > 0:
		req.SetAccounts(f.accounts)
	case f.customer != "":
		req.SetCustomer(f.customer)
	}
}

func (f *scopeFlags) applyActor(a *actor.Actor) {
	switch {
	case len(f.accounts) > 0:
		a.SetAccounts(f.accounts)
	case f.customer != "":
		a.SetCustomer(f.customer)
	}
}

var errNoSession = errors.New("no active session: run s1ctl login first")

// newActor acts through the profile session when one is active.
func (a *app) newActor(useSession bool) (*actor.Actor, error) {
	if useSession && a.session.IsActive() {
		return a.platform.NewActor(a.session)
	}
	return a.platform.NewActor(nil)
}

func (a *app) newRequest(command, action string, useSession, requireSession bool) (request.Request, error) {
	if useSession && a.session.IsActive() {
		return a.session.NewRequest(command, action)
	}
	if requireSession {
		return nil, errNoSession
	}
	return a.platform.NewRequest(command, action), nil
}
