// Package synccache keeps the reactive store populated from the remote
// ledger. One entry per resource type, fetches gated on authentication,
// concurrent fetches collapsed, values replaced wholesale per successful
// fetch.
//
// Concurrent edits from other devices are not reconciled: the last
// completed fetch wins and overwrites the in-memory snapshot for its
// resource type.
package synccache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/store"
)

type Resource string

const (
	Users        Resource = "users"
	Categories   Resource = "categories"
	Accounts     Resource = "accounts"
	Transactions Resource = "transactions"
	Investments  Resource = "investments"
	Goals        Resource = "goals"
)

// AllResources in hydration order: referenced entities first so that
// foreign keys resolve on a cold start. Parallel reloads may still fetch
// out of order; unresolved references heal on the next revalidation.
var AllResources = []Resource{Users, Categories, Accounts, Transactions, Investments, Goals}

type Status int

const (
	StatusUnfetched Status = iota
	StatusFetching
	StatusFresh
	StatusError
)

// State is the combined view over all resources.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

// Source lists each resource from the remote ledger, already mapped to
// domain types.
type Source interface {
	ListUsers(ctx context.Context) ([]core.User, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListInvestments(ctx context.Context) ([]core.Investment, error)
	ListGoals(ctx context.Context) ([]core.Goal, error)
}

type Config struct {
	// DedupeWindow is how long a settled fetch satisfies further
	// non-forced fetch calls without touching the network.
	DedupeWindow time.Duration

	// RevalidateOnFocus is deliberately off: for a mostly-offline-tolerant
	// personal finance view, refetching every time the window regains
	// focus is wasted traffic. Reconnect still triggers a full reload.
	RevalidateOnFocus bool
}

func DefaultConfig() Config {
	return Config{
		DedupeWindow:      5 * time.Second,
		RevalidateOnFocus: false,
	}
}

type entry struct {
	status    Status
	fetchedAt time.Time
	err       error
}

type Cache struct {
	source  Source
	store   *store.Store
	session *auth.Session
	config  Config

	mu      sync.Mutex
	entries map[Resource]*entry
	flight  singleflight.Group
}

func New(source Source, st *store.Store, session *auth.Session, config Config) *Cache {
	if config.DedupeWindow <= 0 {
		config.DedupeWindow = DefaultConfig().DedupeWindow
	}
	entries := make(map[Resource]*entry, len(AllResources))
	for _, r := range AllResources {
		entries[r] = &entry{status: StatusUnfetched}
	}
	return &Cache{
		source:  source,
		store:   st,
		session: session,
		config:  config,
		entries: entries,
	}
}

// Fetch loads a resource unless a settled fetch inside the dedupe window
// already covers it. Concurrent calls for the same resource collapse into
// one network request; every caller observes the same settled result.
func (c *Cache) Fetch(ctx context.Context, r Resource) error {
	return c.fetch(ctx, r, false)
}

// Revalidate always refetches, replacing the cached value wholesale with
// the authoritative one. Used after successful writes and on reload.
func (c *Cache) Revalidate(ctx context.Context, r Resource) error {
	return c.fetch(ctx, r, true)
}

func (c *Cache) fetch(ctx context.Context, r Resource, force bool) error {
	switch c.session.State() {
	case auth.StateUndetermined:
		// Still resolving the session: report loading, issue nothing.
		return nil
	case auth.StateUnauthenticated:
		c.applyEmpty(r)
		return nil
	}

	c.mu.Lock()
	e := c.entries[r]
	if !force && e.status == StatusFresh && time.Since(e.fetchedAt) < c.config.DedupeWindow {
		c.mu.Unlock()
		return nil
	}
	if e.status != StatusFetching {
		e.status = StatusFetching
	}
	c.mu.Unlock()

	_, err, _ := c.flight.Do(string(r), func() (any, error) {
		return nil, c.load(ctx, r)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		// Keep whatever fresh data the store already holds for this
		// resource; only the entry is marked errored.
		e.status = StatusError
		e.err = err
		return err
	}
	e.status = StatusFresh
	e.fetchedAt = time.Now()
	e.err = nil
	return nil
}

func (c *Cache) load(ctx context.Context, r Resource) error {
	switch r {
	case Users:
		users, err := c.source.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("fetch users: %w", err)
		}
		c.applyUsers(users)
	case Categories:
		categories, err := c.source.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		c.store.SetCategories(categories)
	case Accounts:
		accounts, err := c.source.ListAccounts(ctx)
		if err != nil {
			return fmt.Errorf("fetch accounts: %w", err)
		}
		c.store.SetAccounts(accounts)
	case Transactions:
		transactions, err := c.source.ListTransactions(ctx)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		c.store.SetTransactions(transactions)
	case Investments:
		investments, err := c.source.ListInvestments(ctx)
		if err != nil {
			return fmt.Errorf("fetch investments: %w", err)
		}
		c.store.SetInvestments(investments)
	case Goals:
		goals, err := c.source.ListGoals(ctx)
		if err != nil {
			return fmt.Errorf("fetch goals: %w", err)
		}
		c.store.SetGoals(goals)
	default:
		return fmt.Errorf("unknown resource %q", r)
	}
	return nil
}

func (c *Cache) applyUsers(users []core.User) {
	userID := c.session.UserID()
	for i := range users {
		if users[i].ID == userID {
			c.store.SetUser(&users[i])
			return
		}
	}
	c.store.SetUser(nil)
}

// applyEmpty satisfies the unauthenticated contract: loaded, empty, no
// network.
func (c *Cache) applyEmpty(r Resource) {
	switch r {
	case Users:
		c.store.SetUser(nil)
	case Categories:
		c.store.SetCategories(nil)
	case Accounts:
		c.store.SetAccounts(nil)
	case Transactions:
		c.store.SetTransactions(nil)
	case Investments:
		c.store.SetInvestments(nil)
	case Goals:
		c.store.SetGoals(nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[r]
	e.status = StatusFresh
	e.fetchedAt = time.Now()
	e.err = nil
}

// Reload forces revalidation of every resource type in parallel and blocks
// until all settle. A failure on one resource marks the combined state
// errored; resources that fetched fine keep their fresh data.
func (c *Cache) Reload(ctx context.Context) error {
	var g errgroup.Group
	for _, r := range AllResources {
		g.Go(func() error {
			return c.Revalidate(ctx, r)
		})
	}
	return g.Wait()
}

// Invalidate drops every entry back to unfetched without touching the
// store. Used on logout before the session flips.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		e.status = StatusUnfetched
		e.fetchedAt = time.Time{}
		e.err = nil
	}
}

func (c *Cache) Status(r Resource) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[r].status
}

// Err returns the last fetch error for a resource, nil when healthy.
func (c *Cache) Err(r Resource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[r].err
}

// State reports the combined view: loading while the session is
// undetermined or any resource has never settled, errored if any resource
// failed its last fetch, ready otherwise.
func (c *Cache) State() State {
	if c.session.State() == auth.StateUndetermined {
		return StateLoading
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	state := StateReady
	for _, e := range c.entries {
		switch e.status {
		case StatusError:
			return StateError
		case StatusUnfetched, StatusFetching:
			state = StateLoading
		}
	}
	return state
}

// WatchReconnect reloads everything whenever the connectivity signal
// fires. Focus changes are not a signal source here (see Config). Blocks
// until ctx is done; run it in its own goroutine.
func (c *Cache) WatchReconnect(ctx context.Context, reconnected <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-reconnected:
			if !ok {
				return
			}
			if err := c.Reload(ctx); err != nil {
				slog.WarnContext(ctx, "Reload after reconnect failed", "error", err)
			}
		}
	}
}
