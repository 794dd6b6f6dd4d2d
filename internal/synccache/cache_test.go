package synccache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/store"
)

type fakeSource struct {
	mu    sync.Mutex
	calls map[Resource]int
	delay time.Duration

	users        []core.User
	categories   []core.Category
	accounts     []core.Account
	transactions []core.Transaction
	investments  []core.Investment
	goals        []core.Goal

	fail map[Resource]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{calls: map[Resource]int{}, fail: map[Resource]error{}}
}

func (f *fakeSource) record(r Resource) error {
	f.mu.Lock()
	f.calls[r]++
	err := f.fail[r]
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return err
}

func (f *fakeSource) callCount(r Resource) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[r]
}

func (f *fakeSource) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeSource) ListUsers(ctx context.Context) ([]core.User, error) {
	if err := f.record(Users); err != nil {
		return nil, err
	}
	return f.users, nil
}

func (f *fakeSource) ListCategories(ctx context.Context) ([]core.Category, error) {
	if err := f.record(Categories); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func (f *fakeSource) ListAccounts(ctx context.Context) ([]core.Account, error) {
	if err := f.record(Accounts); err != nil {
		return nil, err
	}
	return f.accounts, nil
}

func (f *fakeSource) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	if err := f.record(Transactions); err != nil {
		return nil, err
	}
	return f.transactions, nil
}

func (f *fakeSource) ListInvestments(ctx context.Context) ([]core.Investment, error) {
	if err := f.record(Investments); err != nil {
		return nil, err
	}
	return f.investments, nil
}

func (f *fakeSource) ListGoals(ctx context.Context) ([]core.Goal, error) {
	if err := f.record(Goals); err != nil {
		return nil, err
	}
	return f.goals, nil
}

func authenticatedSession(t *testing.T, userID string) *auth.Session {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	s := auth.NewSession()
	if err := s.SetToken(token); err != nil {
		t.Fatalf("set token: %v", err)
	}
	return s
}

func newTestCache(t *testing.T, source Source, session *auth.Session) (*Cache, *store.Store) {
	t.Helper()
	st := store.New(nil)
	return New(source, st, session, DefaultConfig()), st
}

func TestUndeterminedSessionIssuesNoRequests(t *testing.T) {
	source := newFakeSource()
	c, _ := newTestCache(t, source, auth.NewSession())

	if err := c.Fetch(context.Background(), Transactions); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if n := source.totalCalls(); n != 0 {
		t.Errorf("source calls = %d, want 0", n)
	}
	if got := c.State(); got != StateLoading {
		t.Errorf("State() = %v, want loading", got)
	}
}

func TestUnauthenticatedLoadsEmptyWithoutRequests(t *testing.T) {
	source := newFakeSource()
	session := auth.NewSession()
	session.SetUnauthenticated()
	c, st := newTestCache(t, source, session)
	st.SetTransactions([]core.Transaction{{ID: "stale"}})

	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if n := source.totalCalls(); n != 0 {
		t.Errorf("source calls = %d, want 0", n)
	}
	if got := c.State(); got != StateReady {
		t.Errorf("State() = %v, want ready", got)
	}
	if txs := st.Transactions(); len(txs) != 0 {
		t.Errorf("store still holds %d transactions", len(txs))
	}
}

func TestFetchDedupeWindow(t *testing.T) {
	source := newFakeSource()
	c, _ := newTestCache(t, source, authenticatedSession(t, "u1"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := c.Fetch(ctx, Accounts); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
	}
	if n := source.callCount(Accounts); n != 1 {
		t.Errorf("calls after repeated Fetch = %d, want 1", n)
	}

	// Revalidate bypasses the window.
	if err := c.Revalidate(ctx, Accounts); err != nil {
		t.Fatalf("Revalidate() error = %v", err)
	}
	if n := source.callCount(Accounts); n != 2 {
		t.Errorf("calls after Revalidate = %d, want 2", n)
	}
}

func TestConcurrentFetchesCollapse(t *testing.T) {
	source := newFakeSource()
	source.delay = 20 * time.Millisecond
	c, _ := newTestCache(t, source, authenticatedSession(t, "u1"))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Fetch(context.Background(), Goals); err != nil {
				t.Errorf("Fetch() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if n := source.callCount(Goals); n != 1 {
		t.Errorf("concurrent fetches produced %d network calls, want 1", n)
	}
}

func TestFetchPopulatesStore(t *testing.T) {
	source := newFakeSource()
	source.users = []core.User{{ID: "u2", Name: "Ana"}, {ID: "u1", Name: "Rui"}}
	source.transactions = []core.Transaction{{ID: "t1"}, {ID: "t2"}}
	c, st := newTestCache(t, source, authenticatedSession(t, "u1"))
	ctx := context.Background()

	if err := c.Fetch(ctx, Users); err != nil {
		t.Fatalf("Fetch(users) error = %v", err)
	}
	if err := c.Fetch(ctx, Transactions); err != nil {
		t.Fatalf("Fetch(transactions) error = %v", err)
	}

	if u := st.User(); u == nil || u.ID != "u1" {
		t.Errorf("User() = %+v, want the session's user", u)
	}
	if txs := st.Transactions(); len(txs) != 2 {
		t.Errorf("Transactions() len = %d, want 2", len(txs))
	}
	if got := c.Status(Transactions); got != StatusFresh {
		t.Errorf("Status(transactions) = %v, want fresh", got)
	}
}

// A failed fetch marks only its own resource; siblings that fetched fine
// keep their fresh data.
func TestFailedFetchRetainsFreshSiblings(t *testing.T) {
	source := newFakeSource()
	source.accounts = []core.Account{{ID: "a1", Name: "Corrente"}}
	source.fail[Transactions] = errors.New("boom")
	c, st := newTestCache(t, source, authenticatedSession(t, "u1"))
	ctx := context.Background()

	if err := c.Reload(ctx); err == nil {
		t.Fatal("Reload() error = nil, want transactions failure")
	}

	if got := c.Status(Transactions); got != StatusError {
		t.Errorf("Status(transactions) = %v, want error", got)
	}
	if got := c.Status(Accounts); got != StatusFresh {
		t.Errorf("Status(accounts) = %v, want fresh", got)
	}
	if accounts := st.Accounts(); len(accounts) != 1 {
		t.Errorf("Accounts() len = %d, want 1", len(accounts))
	}
	if got := c.State(); got != StateError {
		t.Errorf("State() = %v, want error", got)
	}
	if c.Err(Transactions) == nil {
		t.Error("Err(transactions) = nil")
	}

	// Recovery: the next revalidation clears the error.
	source.mu.Lock()
	delete(source.fail, Transactions)
	source.mu.Unlock()
	if err := c.Revalidate(ctx, Transactions); err != nil {
		t.Fatalf("Revalidate() error = %v", err)
	}
	if got := c.State(); got != StateReady {
		t.Errorf("State() after recovery = %v, want ready", got)
	}
}

func TestInvalidateDropsEntriesOnly(t *testing.T) {
	source := newFakeSource()
	source.goals = []core.Goal{{ID: "g1"}}
	c, st := newTestCache(t, source, authenticatedSession(t, "u1"))

	if err := c.Fetch(context.Background(), Goals); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	c.Invalidate()

	if got := c.Status(Goals); got != StatusUnfetched {
		t.Errorf("Status(goals) = %v, want unfetched", got)
	}
	if goals := st.Goals(); len(goals) != 1 {
		t.Error("Invalidate touched store data")
	}
}

func TestWatchReconnectTriggersReload(t *testing.T) {
	source := newFakeSource()
	c, _ := newTestCache(t, source, authenticatedSession(t, "u1"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reconnected := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.WatchReconnect(ctx, reconnected)
	}()

	reconnected <- struct{}{}

	deadline := time.After(time.Second)
	for source.totalCalls() < len(AllResources) {
		select {
		case <-deadline:
			t.Fatalf("reload after reconnect fetched %d of %d resources", source.totalCalls(), len(AllResources))
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done
}
