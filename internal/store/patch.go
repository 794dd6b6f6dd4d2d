package store

import (
	"time"

	"github.com/shopspring/decimal"

	"financas/internal/core"
)

// Patches merge set fields into an existing record; nil fields are left
// untouched. Resolved references are re-derived by the next revalidation,
// so patches only carry the raw foreign keys.

type TransactionPatch struct {
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

func (p TransactionPatch) apply(tx *core.Transaction) {
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Kind != nil {
		tx.Kind = *p.Kind
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.CategoryID != nil {
		tx.CategoryID = *p.CategoryID
		tx.Category = nil
	}
	if p.AccountID != nil {
		tx.AccountID = *p.AccountID
		tx.Account = nil
	}
	if p.Ownership != nil {
		tx.Ownership = *p.Ownership
	}
	if p.Tags != nil {
		tx.Tags = *p.Tags
	}
	if p.Notes != nil {
		tx.Notes = *p.Notes
	}
}

type AccountPatch struct {
	Name           *string
	Type           *core.AccountType
	OpeningBalance *core.Money
	Bank           *string
	Color          *string
	Icon           *string
	Active         *bool
}

func (p AccountPatch) apply(a *core.Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.OpeningBalance != nil {
		a.OpeningBalance = *p.OpeningBalance
	}
	if p.Bank != nil {
		a.Bank = *p.Bank
	}
	if p.Color != nil {
		a.Color = *p.Color
	}
	if p.Icon != nil {
		a.Icon = *p.Icon
	}
	if p.Active != nil {
		a.Active = *p.Active
	}
}

type CategoryPatch struct {
	Name  *string
	Kind  *core.CategoryKind
	Color *string
	Group *core.BudgetGroup
}

func (p CategoryPatch) apply(c *core.Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Kind != nil {
		c.Kind = *p.Kind
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Group != nil {
		c.Group = *p.Group
	}
}

type GoalPatch struct {
	Name     *string
	Type     *core.GoalType
	Target   *core.Money
	Current  *core.Money
	Deadline *time.Time
	Status   *core.GoalStatus
	Streak   *int
}

func (p GoalPatch) apply(g *core.Goal) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Type != nil {
		g.Type = *p.Type
	}
	if p.Target != nil {
		g.Target = *p.Target
	}
	if p.Current != nil {
		g.Current = *p.Current
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.Streak != nil {
		g.Streak = *p.Streak
	}
}

type InvestmentPatch struct {
	Name      *string
	Kind      *string
	Quantity  *decimal.Decimal
	UnitPrice *core.Money
	AccountID *string
}

func (p InvestmentPatch) apply(inv *core.Investment) {
	if p.Name != nil {
		inv.Name = *p.Name
	}
	if p.Kind != nil {
		inv.Kind = *p.Kind
	}
	if p.Quantity != nil {
		inv.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		inv.UnitPrice = *p.UnitPrice
	}
	if p.AccountID != nil {
		inv.AccountID = *p.AccountID
		inv.Account = nil
	}
}
