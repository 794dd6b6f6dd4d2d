package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	TransactionKind string
	OwnershipScope  string
	AccountType     string
	CategoryKind    string
	BudgetGroup     string
	GoalType        string
	GoalStatus      string
)

const (
	Income   TransactionKind = "income"
	Expense  TransactionKind = "expense"
	Transfer TransactionKind = "transfer"
)

const (
	Household OwnershipScope = "household"
	Personal  OwnershipScope = "personal"
)

const (
	Checking       AccountType = "checking"
	Savings        AccountType = "savings"
	Credit         AccountType = "credit"
	InvestmentAcct AccountType = "investment"
)

const (
	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
)

const (
	Essentials  BudgetGroup = "essentials"
	Lifestyle   BudgetGroup = "lifestyle"
	Investments BudgetGroup = "investments"
)

const (
	SavingsGoal    GoalType = "savings"
	InvestmentGoal GoalType = "investment"
	PatrimonyGoal  GoalType = "patrimony"
	BudgetGoal     GoalType = "budget"
)

const (
	GoalActive    GoalStatus = "active"
	GoalPaused    GoalStatus = "paused"
	GoalCompleted GoalStatus = "completed"
)

type (
	// Installment carries the group metadata of one row created as part of
	// an atomic installment batch. Number is 1-based within Count.
	Installment struct {
		GroupID string
		Number  int
		Count   int
	}

	// Transaction is one ledger entry. Amount is always positive; the sign
	// lives in Kind. Category and Account are resolved references filled in
	// by the row-mapping layer; nil means the referenced entity is absent.
	Transaction struct {
		ID          string
		Description string
		Amount      Money
		Kind        TransactionKind
		Date        time.Time
		CategoryID  string
		AccountID   string
		UserID      string
		Ownership   OwnershipScope
		Tags        []string
		Notes       string
		Installment *Installment
		Category    *Category
		Account     *Account
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// Account holds no stored balance: the current balance is derived from
	// the opening balance and the ledger entries referencing it.
	Account struct {
		ID             string
		Name           string
		Type           AccountType
		OpeningBalance Money
		Bank           string
		Color          string
		Icon           string
		Active         bool
		UserID         string
	}

	Category struct {
		ID    string
		Name  string
		Kind  CategoryKind
		Color string
		// Group is set for expense categories only; empty means unassigned.
		Group BudgetGroup
	}

	Goal struct {
		ID        string
		Name      string
		Type      GoalType
		Target    Money
		Current   Money
		Deadline  time.Time // zero value means no deadline
		Status    GoalStatus
		Streak    int
		CreatedAt time.Time
	}

	Investment struct {
		ID        string
		Name      string
		Kind      string
		Quantity  decimal.Decimal
		UnitPrice Money
		AccountID string
		Account   *Account
	}

	User struct {
		ID    string
		Name  string
		Email string
	}

	// Preferences is the only durably persisted state. Financial entities
	// are always re-hydrated from the remote ledger on a new session.
	Preferences struct {
		SelectedPeriod string
		ViewMode       string
		OpenPanels     map[string]bool
	}

	// BudgetAllocation is the essentials/lifestyle/investments percentage
	// split. Every observable value sums to exactly 100.
	BudgetAllocation struct {
		Essentials  int
		Lifestyle   int
		Investments int
	}
)

func (k TransactionKind) IsValid() bool {
	switch k {
	case Income, Expense, Transfer:
		return true
	default:
		return false
	}
}

func (s OwnershipScope) IsValid() bool {
	switch s {
	case Household, Personal:
		return true
	default:
		return false
	}
}

func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Savings, Credit, InvestmentAcct:
		return true
	default:
		return false
	}
}

func (g BudgetGroup) IsValid() bool {
	switch g {
	case Essentials, Lifestyle, Investments:
		return true
	default:
		return false
	}
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if t.Ownership != "" && !t.Ownership.IsValid() {
		return ErrInvalidOwnership
	}
	return nil
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return errors.New("empty account name")
	}
	if !a.Type.IsValid() {
		return errors.New("invalid account type")
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return errors.New("empty goal name")
	}
	return g.Target.Validate()
}

// HasDeadline reports whether the goal carries a deadline.
func (g Goal) HasDeadline() bool { return !g.Deadline.IsZero() }

// Sum returns the allocation total; a valid allocation sums to 100.
func (b BudgetAllocation) Sum() int {
	return b.Essentials + b.Lifestyle + b.Investments
}

func (b BudgetAllocation) Validate() error {
	if b.Essentials < 0 || b.Lifestyle < 0 || b.Investments < 0 {
		return errors.New("allocation percentages must be non-negative")
	}
	if b.Sum() != 100 {
		return errors.New("allocation percentages must sum to 100")
	}
	return nil
}
