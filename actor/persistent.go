package actor

import (
	"encoding/json"

	"github.com/jonwraymond/s1sdk/session"
)

// Keys under which a Persistent actor keeps its scope in the session store.
const (
	AccountsStoreKey = "s1:persistentactor:accounts"
	CustomerStoreKey = "s1:persistentactor:customer"
)

// Persistent is an actor whose scope is saved in the session store, so it
// survives across processes sharing the session.
type Persistent struct {
	*Actor
}

// NewPersistent creates an actor that restores its scope from the session
// store and writes every scope change back. opts.Session is required.
func NewPersistent(opts Options) (*Persistent, error) {
	if opts.Session == nil {
		return nil, ErrSessionRequired
	}
	a, err := New(opts)
	if err != nil {
		return nil, err
	}
	p := &Persistent{Actor: a}
	p.restore()
	return p, nil
}

// SetAccount scopes the actor to one account and saves the scope.
func (p *Persistent) SetAccount(id string) {
	p.Actor.SetAccount(id)
	p.persist()
}

// SetAccounts scopes the actor to several accounts and saves the scope.
func (p *Persistent) SetAccounts(ids []string) {
	p.Actor.SetAccounts(ids)
	p.persist()
}

// SetCustomer scopes the actor to a customer and saves the scope.
func (p *Persistent) SetCustomer(id string) {
	p.Actor.SetCustomer(id)
	p.persist()
}

func (p *Persistent) store() session.Store { return p.session.Store() }

func (p *Persistent) restore() {
	store := p.store()
	if data, ok := store.CacheKey(AccountsStoreKey); ok {
		var accounts []string
		if json.Unmarshal(data, &accounts) == nil {
			p.SetAccounts(accounts)
			return
		}
	}
	if data, ok := store.CacheKey(CustomerStoreKey); ok {
		var customer string
		if json.Unmarshal(data, &customer) == nil {
			p.SetCustomer(customer)
		}
	}
}

func (p *Persistent) persist() {
	store := p.store()

	if accounts := p.Accounts(); len(accounts) > 0 {
		data, _ := json.Marshal(accounts)
		store.SetCacheKey(AccountsStoreKey, data)
	} else {
		store.UnsetCacheKey(AccountsStoreKey)
	}

	if customer := p.Customer(); customer != "" {
		data, _ := json.Marshal(customer)
		store.SetCacheKey(CustomerStoreKey, data)
	} else {
		store.UnsetCacheKey(CustomerStoreKey)
	}
}
