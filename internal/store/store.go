// Package store owns the canonical in-memory snapshot of the user's domain
// model. All writes go through the closed set of mutators below; there is
// no ambient mutable access from other packages.
//
// Mutators are synchronous and total: they never fail, they only replace or
// filter the relevant list. Only UI/view preferences are persisted across
// sessions; financial entities live in memory and are re-hydrated from the
// remote ledger every session.
package store

import (
	"context"
	"log/slog"
	"sync"

	"financas/internal/core"
)

// PreferencesWriter persists view preferences. Financial entities never
// pass through it.
type PreferencesWriter interface {
	Save(ctx context.Context, p core.Preferences) error
}

// DefaultAllocation is the starting essentials/lifestyle/investments split.
var DefaultAllocation = core.BudgetAllocation{Essentials: 50, Lifestyle: 30, Investments: 20}

type Store struct {
	mu sync.RWMutex

	user         *core.User
	transactions []core.Transaction
	accounts     []core.Account
	categories   []core.Category
	goals        []core.Goal
	investments  []core.Investment
	allocation   core.BudgetAllocation
	prefs        core.Preferences

	prefsWriter PreferencesWriter
}

// New creates an empty store. prefsWriter may be nil; preference changes
// are then kept in memory only.
func New(prefsWriter PreferencesWriter) *Store {
	return &Store{
		allocation: DefaultAllocation,
		prefs: core.Preferences{
			OpenPanels: make(map[string]bool),
		},
		prefsWriter: prefsWriter,
	}
}

// HydratePreferences seeds the view preferences from a previous session.
func (s *Store) HydratePreferences(p core.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.OpenPanels == nil {
		p.OpenPanels = make(map[string]bool)
	}
	s.prefs = p
}

// Reset drops every financial entity and the current user, preserving view
// preferences. Called on logout and on any fresh unauthenticated session.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.transactions = nil
	s.accounts = nil
	s.categories = nil
	s.goals = nil
	s.investments = nil
	s.allocation = DefaultAllocation
}

func (s *Store) SetUser(u *core.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *Store) User() *core.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// --- transactions ---

func (s *Store) SetTransactions(txs []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = txs
}

func (s *Store) AddTransaction(tx core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, tx)
}

// UpdateTransaction merges the patch into the entry matching id. A missing
// id is a no-op, not an error.
func (s *Store) UpdateTransaction(id string, patch TransactionPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			patch.apply(&s.transactions[i])
			return
		}
	}
}

// DeleteTransaction removes at most one entry. Deleting one installment
// never cascades to its group siblings.
func (s *Store) DeleteTransaction(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return
		}
	}
}

func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// --- accounts ---

func (s *Store) SetAccounts(accounts []core.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
}

func (s *Store) AddAccount(a core.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, a)
}

func (s *Store) UpdateAccount(id string, patch AccountPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			patch.apply(&s.accounts[i])
			return
		}
	}
}

func (s *Store) DeleteAccount(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return
		}
	}
}

func (s *Store) Accounts() []core.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

func (s *Store) AccountByID(id string) *core.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			a := s.accounts[i]
			return &a
		}
	}
	return nil
}

// AccountBalance derives the current balance: opening balance plus income
// minus expenses over every ledger entry referencing the account. Balances
// are never stored.
func (s *Store) AccountBalance(id string) core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var balance core.Money
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			balance = s.accounts[i].OpeningBalance
			break
		}
	}
	for _, tx := range s.transactions {
		if tx.AccountID != id {
			continue
		}
		switch tx.Kind {
		case core.Income:
			balance = balance.Add(tx.Amount)
		case core.Expense:
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance
}

// --- categories ---

func (s *Store) SetCategories(categories []core.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
}

func (s *Store) AddCategory(c core.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
}

func (s *Store) UpdateCategory(id string, patch CategoryPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			patch.apply(&s.categories[i])
			return
		}
	}
}

func (s *Store) DeleteCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return
		}
	}
}

func (s *Store) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Store) CategoryByID(id string) *core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			c := s.categories[i]
			return &c
		}
	}
	return nil
}

// --- goals ---

func (s *Store) SetGoals(goals []core.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = goals
}

func (s *Store) AddGoal(g core.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, g)
}

func (s *Store) UpdateGoal(id string, patch GoalPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			patch.apply(&s.goals[i])
			return
		}
	}
}

func (s *Store) DeleteGoal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return
		}
	}
}

func (s *Store) Goals() []core.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

// --- investments ---

func (s *Store) SetInvestments(investments []core.Investment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.investments = investments
}

func (s *Store) AddInvestment(inv core.Investment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.investments = append(s.investments, inv)
}

func (s *Store) UpdateInvestment(id string, patch InvestmentPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.investments {
		if s.investments[i].ID == id {
			patch.apply(&s.investments[i])
			return
		}
	}
}

func (s *Store) DeleteInvestment(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.investments {
		if s.investments[i].ID == id {
			s.investments = append(s.investments[:i], s.investments[i+1:]...)
			return
		}
	}
}

func (s *Store) Investments() []core.Investment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Investment, len(s.investments))
	copy(out, s.investments)
	return out
}

// --- budget allocation ---

// SetAllocation replaces the budget split. An allocation violating the
// sum-to-100 invariant is ignored so that every observable state stays
// valid; callers adjust through analytics.Rebalance, which cannot produce
// an invalid split.
func (s *Store) SetAllocation(a core.BudgetAllocation) {
	if err := a.Validate(); err != nil {
		slog.Warn("Ignoring invalid budget allocation", "allocation", a, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocation = a
}

func (s *Store) Allocation() core.BudgetAllocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allocation
}

// --- preferences ---

func (s *Store) Preferences() core.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.prefs
	p.OpenPanels = make(map[string]bool, len(s.prefs.OpenPanels))
	for k, v := range s.prefs.OpenPanels {
		p.OpenPanels[k] = v
	}
	return p
}

func (s *Store) SetSelectedPeriod(ctx context.Context, period string) {
	s.mu.Lock()
	s.prefs.SelectedPeriod = period
	p := s.prefs
	s.mu.Unlock()
	s.persistPrefs(ctx, p)
}

func (s *Store) SetViewMode(ctx context.Context, mode string) {
	s.mu.Lock()
	s.prefs.ViewMode = mode
	p := s.prefs
	s.mu.Unlock()
	s.persistPrefs(ctx, p)
}

func (s *Store) SetPanelOpen(ctx context.Context, panel string, open bool) {
	s.mu.Lock()
	s.prefs.OpenPanels[panel] = open
	p := s.prefs
	s.mu.Unlock()
	s.persistPrefs(ctx, p)
}

// persistPrefs writes through to durable storage. Failures are logged and
// swallowed: preference mutators stay total, and the in-memory value is
// already applied.
func (s *Store) persistPrefs(ctx context.Context, p core.Preferences) {
	if s.prefsWriter == nil {
		return
	}
	if err := s.prefsWriter.Save(ctx, p); err != nil {
		slog.WarnContext(ctx, "Failed to persist preferences", "error", err)
	}
}
