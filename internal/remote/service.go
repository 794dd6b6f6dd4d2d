package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"financas/internal/core"
)

// Service is the domain-typed surface over the raw client: wire rows go
// through the mapping layer on the way in, domain values are encoded on the
// way out. The synchronization cache and the ledger service depend on this
// type, not on the wire shapes.
type Service struct {
	client *Client
	lookup Lookup
}

func NewService(client *Client, lookup Lookup) *Service {
	return &Service{client: client, lookup: lookup}
}

func (s *Service) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := s.client.listUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapUser(row))
	}
	return out, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.client.listCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapCategory(row))
	}
	return out, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := s.client.listAccounts(ctx, AccountFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]core.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapAccount(row))
	}
	return out, nil
}

func (s *Service) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	resp, err := s.client.listTransactions(ctx, TransactionFilter{})
	if err != nil {
		return nil, err
	}
	return mapTransactions(resp.Transactions, s.lookup), nil
}

func (s *Service) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := s.client.listGoals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Goal, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapGoal(row))
	}
	return out, nil
}

func (s *Service) ListInvestments(ctx context.Context) ([]core.Investment, error) {
	rows, err := s.client.listInvestments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Investment, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapInvestment(row, s.lookup))
	}
	return out, nil
}

// --- transactions ---

func (s *Service) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	row, err := s.client.createTransaction(ctx, encodeCreateTransaction(tx, 0))
	if err != nil {
		return core.Transaction{}, err
	}
	return mapTransaction(row, s.lookup), nil
}

// CreateInstallments asks the remote to expand and atomically insert the
// whole group. Any non-validation failure means the batch as a whole did
// not happen; no rows were retained.
func (s *Service) CreateInstallments(ctx context.Context, tx core.Transaction, count int) (string, []core.Transaction, error) {
	resp, err := s.client.createInstallments(ctx, encodeCreateTransaction(tx, count))
	if err != nil {
		if errors.Is(err, core.ErrValidation) || errors.Is(err, core.ErrNotFound) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("%w: %v", core.ErrBatchFailed, err)
	}
	return resp.GrupoParcela, mapTransactions(resp.Transactions, s.lookup), nil
}

// TransactionUpdate carries the fields of a partial transaction update;
// nil fields are left unchanged by the remote.
type TransactionUpdate struct {
	Description *string
	Amount      *core.Money
	Kind        *core.TransactionKind
	Date        *time.Time
	CategoryID  *string
	AccountID   *string
	Ownership   *core.OwnershipScope
	Tags        *[]string
	Notes       *string
}

func (s *Service) UpdateTransaction(ctx context.Context, id string, u TransactionUpdate) (core.Transaction, error) {
	req := updateTransactionRequest{
		ID:         id,
		Descricao:  u.Description,
		CategoryID: u.CategoryID,
		AccountID:  u.AccountID,
		Tags:       u.Tags,
		Notas:      u.Notes,
	}
	if u.Amount != nil {
		v := u.Amount.Float()
		req.Valor = &v
	}
	if u.Kind != nil {
		code := txKindCodes[*u.Kind]
		req.Tipo = &code
	}
	if u.Date != nil {
		d := formatWireDate(*u.Date)
		req.Data = &d
	}
	if u.Ownership != nil {
		code := ownershipCodes[*u.Ownership]
		req.Ownership = &code
	}

	row, err := s.client.updateTransaction(ctx, req)
	if err != nil {
		return core.Transaction{}, err
	}
	return mapTransaction(row, s.lookup), nil
}

func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	return s.client.deleteTransaction(ctx, id)
}

func encodeCreateTransaction(tx core.Transaction, installments int) createTransactionRequest {
	return createTransactionRequest{
		Descricao:  tx.Description,
		Valor:      tx.Amount.Float(),
		Tipo:       txKindCodes[tx.Kind],
		Data:       formatWireDate(tx.Date),
		CategoryID: tx.CategoryID,
		AccountID:  tx.AccountID,
		Tags:       tx.Tags,
		Notas:      tx.Notes,
		Ownership:  ownershipCodes[tx.Ownership],
		Parcelas:   installments,
	}
}

// --- accounts ---

func (s *Service) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	row, err := s.client.createAccount(ctx, createAccountRequest{
		Nome:         a.Name,
		Tipo:         accountTypeCodes[a.Type],
		Banco:        a.Bank,
		SaldoInicial: a.OpeningBalance.Float(),
		Cor:          a.Color,
		Icone:        a.Icon,
	})
	if err != nil {
		return core.Account{}, err
	}
	return mapAccount(row), nil
}

type AccountUpdate struct {
	Name           *string
	Type           *core.AccountType
	Bank           *string
	OpeningBalance *core.Money
	Color          *string
	Icon           *string
	Active         *bool
}

func (s *Service) UpdateAccount(ctx context.Context, id string, u AccountUpdate) (core.Account, error) {
	req := updateAccountRequest{
		ID:    id,
		Nome:  u.Name,
		Banco: u.Bank,
		Cor:   u.Color,
		Icone: u.Icon,
		Ativo: u.Active,
	}
	if u.Type != nil {
		code := accountTypeCodes[*u.Type]
		req.Tipo = &code
	}
	if u.OpeningBalance != nil {
		v := u.OpeningBalance.Float()
		req.SaldoInicial = &v
	}

	row, err := s.client.updateAccount(ctx, req)
	if err != nil {
		return core.Account{}, err
	}
	return mapAccount(row), nil
}

func (s *Service) DeleteAccount(ctx context.Context, id string, force bool) error {
	return s.client.deleteAccount(ctx, id, force)
}

// --- goals ---

func (s *Service) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	row, err := s.client.createGoal(ctx, createGoalRequest{
		Nome:       g.Name,
		Tipo:       goalTypeCodes[g.Type],
		ValorAlvo:  g.Target.Float(),
		ValorAtual: g.Current.Float(),
		DataLimite: formatWireDate(g.Deadline),
	})
	if err != nil {
		return core.Goal{}, err
	}
	return mapGoal(row), nil
}

type GoalUpdate struct {
	Name     *string
	Type     *core.GoalType
	Target   *core.Money
	Deadline *time.Time
	Status   *core.GoalStatus
}

func (s *Service) UpdateGoal(ctx context.Context, id string, u GoalUpdate) (core.Goal, error) {
	req := updateGoalRequest{ID: id, Nome: u.Name}
	if u.Type != nil {
		code := goalTypeCodes[*u.Type]
		req.Tipo = &code
	}
	if u.Target != nil {
		v := u.Target.Float()
		req.ValorAlvo = &v
	}
	if u.Deadline != nil {
		d := formatWireDate(*u.Deadline)
		req.DataLimite = &d
	}
	if u.Status != nil {
		code := goalStatusCodes[*u.Status]
		req.Status = &code
	}

	row, err := s.client.updateGoal(ctx, req)
	if err != nil {
		return core.Goal{}, err
	}
	return mapGoal(row), nil
}

// SetGoalProgress replaces the goal's accumulated amount.
func (s *Service) SetGoalProgress(ctx context.Context, id string, current core.Money) (core.Goal, error) {
	v := current.Float()
	row, err := s.client.progressGoal(ctx, progressGoalRequest{ID: id, ValorAtual: &v})
	if err != nil {
		return core.Goal{}, err
	}
	return mapGoal(row), nil
}

// IncrementGoalProgress adds to the goal's accumulated amount.
func (s *Service) IncrementGoalProgress(ctx context.Context, id string, delta core.Money) (core.Goal, error) {
	v := delta.Float()
	row, err := s.client.progressGoal(ctx, progressGoalRequest{ID: id, Incremento: &v})
	if err != nil {
		return core.Goal{}, err
	}
	return mapGoal(row), nil
}

func (s *Service) DeleteGoal(ctx context.Context, id string) error {
	return s.client.deleteGoal(ctx, id)
}
