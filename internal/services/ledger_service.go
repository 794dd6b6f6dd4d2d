// Package services orchestrates optimistic mutations: apply the change to
// the local snapshot, issue the remote call, and on success revalidate the
// affected resource and announce the change on the event bus. On failure
// the typed error is returned and local state is left as-is; the caller
// decides whether to reload.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"financas/internal/amqp"
	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/installment"
	"financas/internal/remote"
	"financas/internal/store"
	"financas/internal/synccache"
)

// Remote is the slice of the ledger client the service mutates through.
type Remote interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	CreateInstallments(ctx context.Context, tx core.Transaction, count int) (string, []core.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, u remote.TransactionUpdate) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
	UpdateAccount(ctx context.Context, id string, u remote.AccountUpdate) (core.Account, error)
	DeleteAccount(ctx context.Context, id string, force bool) error
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	UpdateGoal(ctx context.Context, id string, u remote.GoalUpdate) (core.Goal, error)
	SetGoalProgress(ctx context.Context, id string, current core.Money) (core.Goal, error)
	IncrementGoalProgress(ctx context.Context, id string, delta core.Money) (core.Goal, error)
	DeleteGoal(ctx context.Context, id string) error
}

// Revalidator refreshes cached resources after successful writes.
type Revalidator interface {
	Revalidate(ctx context.Context, r synccache.Resource) error
	Invalidate()
}

// EventPublisher broadcasts change events to other devices.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error
}

type LedgerService struct {
	store    *store.Store
	remote   Remote
	cache    Revalidator
	session  *auth.Session
	events   EventPublisher
	rounding installment.RoundingPolicy
}

// New builds the service. events may be nil; change events are then
// skipped and only the local cache is revalidated.
func New(st *store.Store, rem Remote, cache Revalidator, session *auth.Session, events EventPublisher, rounding installment.RoundingPolicy) *LedgerService {
	return &LedgerService{
		store:    st,
		remote:   rem,
		cache:    cache,
		session:  session,
		events:   events,
		rounding: rounding,
	}
}

// TransactionInput is one user-entered ledger entry. Installments <= 1
// creates a single entry; 2..48 expands into a monthly group.
type TransactionInput struct {
	Description  string
	Amount       core.Money
	Kind         core.TransactionKind
	Date         time.Time
	CategoryID   string
	AccountID    string
	Ownership    core.OwnershipScope
	Tags         []string
	Notes        string
	Installments int
}

// CreateTransaction validates and persists one entry, or an installment
// group when Installments >= 2. The returned rows carry remote-assigned
// ids.
func (s *LedgerService) CreateTransaction(ctx context.Context, in TransactionInput) ([]core.Transaction, error) {
	tx := core.Transaction{
		Description: in.Description,
		Amount:      in.Amount,
		Kind:        in.Kind,
		Date:        in.Date,
		CategoryID:  in.CategoryID,
		AccountID:   in.AccountID,
		Ownership:   in.Ownership,
		Tags:        in.Tags,
		Notes:       in.Notes,
	}
	if tx.Ownership == "" {
		tx.Ownership = core.Personal
	}
	if err := tx.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrValidation, err)
	}

	if in.Installments >= installment.MinCount {
		return s.createInstallmentGroup(ctx, tx, in.Installments)
	}

	tempID := s.applyOptimistic(tx)
	created, err := s.remote.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	s.store.DeleteTransaction(tempID)
	s.store.AddTransaction(created)

	s.revalidate(ctx, synccache.Transactions)
	s.publish(ctx, amqp.NewLedgerEventMessage("transactions", "created", created.ID))
	return []core.Transaction{created}, nil
}

func (s *LedgerService) createInstallmentGroup(ctx context.Context, tx core.Transaction, count int) ([]core.Transaction, error) {
	// Plan locally first so the user sees the whole group immediately;
	// the remote batch is still the durable, atomic expansion.
	parts, err := installment.Plan(tx.Amount, tx.Date, count, s.rounding)
	if err != nil {
		return nil, err
	}

	tempIDs := make([]string, 0, len(parts))
	for _, part := range parts {
		row := tx
		row.Amount = part.Amount
		row.Date = part.Date
		meta := part.Meta
		row.Installment = &meta
		tempIDs = append(tempIDs, s.applyOptimistic(row))
	}

	groupID, created, err := s.remote.CreateInstallments(ctx, tx, count)
	if err != nil {
		return nil, err
	}
	for _, id := range tempIDs {
		s.store.DeleteTransaction(id)
	}
	for _, row := range created {
		s.store.AddTransaction(row)
	}

	s.revalidate(ctx, synccache.Transactions)
	event := amqp.NewLedgerEventMessage("transactions", "created", groupID)
	event.GroupID = groupID
	s.publish(ctx, event)
	return created, nil
}

// applyOptimistic inserts the row under a temporary id, with references
// resolved from the snapshot so the entry renders complete right away.
func (s *LedgerService) applyOptimistic(tx core.Transaction) string {
	tx.ID = uuid.NewString()
	tx.Category = s.store.CategoryByID(tx.CategoryID)
	tx.Account = s.store.AccountByID(tx.AccountID)
	s.store.AddTransaction(tx)
	return tx.ID
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, u remote.TransactionUpdate) (core.Transaction, error) {
	if u.Amount != nil {
		if err := u.Amount.Validate(); err != nil {
			return core.Transaction{}, fmt.Errorf("%w: %v", core.ErrValidation, err)
		}
	}
	if u.Kind != nil && !u.Kind.IsValid() {
		return core.Transaction{}, fmt.Errorf("%w: %v", core.ErrValidation, core.ErrInvalidKind)
	}

	s.store.UpdateTransaction(id, store.TransactionPatch{
		Description: u.Description,
		Amount:      u.Amount,
		Kind:        u.Kind,
		Date:        u.Date,
		CategoryID:  u.CategoryID,
		AccountID:   u.AccountID,
		Ownership:   u.Ownership,
		Tags:        u.Tags,
		Notes:       u.Notes,
	})

	updated, err := s.remote.UpdateTransaction(ctx, id, u)
	if err != nil {
		return core.Transaction{}, err
	}
	s.revalidate(ctx, synccache.Transactions)
	s.publish(ctx, amqp.NewLedgerEventMessage("transactions", "updated", id))
	return updated, nil
}

// DeleteTransaction removes a single entry. Deleting one installment never
// touches its group siblings.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	s.store.DeleteTransaction(id)
	if err := s.remote.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.revalidate(ctx, synccache.Transactions)
	s.publish(ctx, amqp.NewLedgerEventMessage("transactions", "deleted", id))
	return nil
}

// --- accounts ---

func (s *LedgerService) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, fmt.Errorf("%w: %v", core.ErrValidation, err)
	}
	a.Active = true

	temp := a
	temp.ID = uuid.NewString()
	s.store.AddAccount(temp)

	created, err := s.remote.CreateAccount(ctx, a)
	if err != nil {
		return core.Account{}, err
	}
	s.store.DeleteAccount(temp.ID)
	s.store.AddAccount(created)

	s.revalidate(ctx, synccache.Accounts)
	s.publish(ctx, amqp.NewLedgerEventMessage("accounts", "created", created.ID))
	return created, nil
}

func (s *LedgerService) UpdateAccount(ctx context.Context, id string, u remote.AccountUpdate) (core.Account, error) {
	if u.Type != nil && !u.Type.IsValid() {
		return core.Account{}, fmt.Errorf("%w: invalid account type", core.ErrValidation)
	}

	s.store.UpdateAccount(id, store.AccountPatch{
		Name:           u.Name,
		Type:           u.Type,
		OpeningBalance: u.OpeningBalance,
		Bank:           u.Bank,
		Color:          u.Color,
		Icon:           u.Icon,
		Active:         u.Active,
	})

	updated, err := s.remote.UpdateAccount(ctx, id, u)
	if err != nil {
		return core.Account{}, err
	}
	s.revalidate(ctx, synccache.Accounts)
	s.publish(ctx, amqp.NewLedgerEventMessage("accounts", "updated", id))
	return updated, nil
}

// DeleteAccount soft-deactivates an account that still has ledger entries
// unless force is set, mirroring the remote's own rule.
func (s *LedgerService) DeleteAccount(ctx context.Context, id string, force bool) error {
	if force || !s.accountHasTransactions(id) {
		s.store.DeleteAccount(id)
	} else {
		inactive := false
		s.store.UpdateAccount(id, store.AccountPatch{Active: &inactive})
	}

	if err := s.remote.DeleteAccount(ctx, id, force); err != nil {
		return err
	}
	s.revalidate(ctx, synccache.Accounts)
	s.publish(ctx, amqp.NewLedgerEventMessage("accounts", "deleted", id))
	return nil
}

func (s *LedgerService) accountHasTransactions(id string) bool {
	for _, tx := range s.store.Transactions() {
		if tx.AccountID == id {
			return true
		}
	}
	return false
}

// --- goals ---

func (s *LedgerService) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, fmt.Errorf("%w: %v", core.ErrValidation, err)
	}
	if g.Status == "" {
		g.Status = core.GoalActive
	}

	temp := g
	temp.ID = uuid.NewString()
	s.store.AddGoal(temp)

	created, err := s.remote.CreateGoal(ctx, g)
	if err != nil {
		return core.Goal{}, err
	}
	s.store.DeleteGoal(temp.ID)
	s.store.AddGoal(created)

	s.revalidate(ctx, synccache.Goals)
	s.publish(ctx, amqp.NewLedgerEventMessage("goals", "created", created.ID))
	return created, nil
}

func (s *LedgerService) UpdateGoal(ctx context.Context, id string, u remote.GoalUpdate) (core.Goal, error) {
	if u.Target != nil {
		if err := u.Target.Validate(); err != nil {
			return core.Goal{}, fmt.Errorf("%w: %v", core.ErrValidation, err)
		}
	}

	s.store.UpdateGoal(id, store.GoalPatch{
		Name:     u.Name,
		Type:     u.Type,
		Target:   u.Target,
		Deadline: u.Deadline,
		Status:   u.Status,
	})

	updated, err := s.remote.UpdateGoal(ctx, id, u)
	if err != nil {
		return core.Goal{}, err
	}
	s.revalidate(ctx, synccache.Goals)
	s.publish(ctx, amqp.NewLedgerEventMessage("goals", "updated", id))
	return updated, nil
}

// SetGoalProgress replaces the goal's accumulated amount; the remote
// recomputes progress and completion.
func (s *LedgerService) SetGoalProgress(ctx context.Context, id string, current core.Money) (core.Goal, error) {
	s.store.UpdateGoal(id, store.GoalPatch{Current: &current})

	updated, err := s.remote.SetGoalProgress(ctx, id, current)
	if err != nil {
		return core.Goal{}, err
	}
	s.revalidate(ctx, synccache.Goals)
	s.publish(ctx, amqp.NewLedgerEventMessage("goals", "updated", id))
	return updated, nil
}

// IncrementGoalProgress adds delta to the goal's accumulated amount.
func (s *LedgerService) IncrementGoalProgress(ctx context.Context, id string, delta core.Money) (core.Goal, error) {
	for _, g := range s.store.Goals() {
		if g.ID == id {
			next := g.Current.Add(delta)
			s.store.UpdateGoal(id, store.GoalPatch{Current: &next})
			break
		}
	}

	updated, err := s.remote.IncrementGoalProgress(ctx, id, delta)
	if err != nil {
		return core.Goal{}, err
	}
	s.revalidate(ctx, synccache.Goals)
	s.publish(ctx, amqp.NewLedgerEventMessage("goals", "updated", id))
	return updated, nil
}

func (s *LedgerService) DeleteGoal(ctx context.Context, id string) error {
	s.store.DeleteGoal(id)
	if err := s.remote.DeleteGoal(ctx, id); err != nil {
		return err
	}
	s.revalidate(ctx, synccache.Goals)
	s.publish(ctx, amqp.NewLedgerEventMessage("goals", "deleted", id))
	return nil
}

// --- session ---

// Logout drops the session, every cached entry, and all financial state.
// View preferences survive.
func (s *LedgerService) Logout(ctx context.Context) {
	s.session.SetUnauthenticated()
	s.cache.Invalidate()
	s.store.Reset()
	slog.InfoContext(ctx, "Logged out, local state cleared")
}

// HandleLedgerEvent revalidates the resource named by a change event from
// another device.
func (s *LedgerService) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	return s.cache.Revalidate(ctx, synccache.Resource(msg.Resource))
}

func (s *LedgerService) revalidate(ctx context.Context, r synccache.Resource) {
	if err := s.cache.Revalidate(ctx, r); err != nil {
		// The write is already durable; a failed refresh only delays
		// convergence until the next revalidation.
		slog.WarnContext(ctx, "Revalidation after write failed", "resource", r, "error", err)
	}
}

func (s *LedgerService) publish(ctx context.Context, msg *amqp.LedgerEventMessage) {
	if s.events == nil {
		slog.WarnContext(ctx, "Event bus not available, skipping ledger event",
			"resource", msg.Resource, "action", msg.Action)
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"resource", msg.Resource, "action", msg.Action, "id", msg.ID, "error", err)
	}
}
