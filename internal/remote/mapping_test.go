package remote

import (
	"testing"
	"time"

	"financas/internal/core"
)

type fakeLookup struct {
	categories map[string]*core.Category
	accounts   map[string]*core.Account
}

func (l *fakeLookup) CategoryByID(id string) *core.Category { return l.categories[id] }
func (l *fakeLookup) AccountByID(id string) *core.Account   { return l.accounts[id] }

func TestMapTransaction(t *testing.T) {
	lookup := &fakeLookup{
		categories: map[string]*core.Category{
			"c1": {ID: "c1", Name: "Mercado", Kind: core.CategoryExpense, Group: core.Essentials},
		},
		accounts: map[string]*core.Account{
			"a1": {ID: "a1", Name: "Conta Corrente", Type: core.Checking},
		},
	}

	row := transactionRow{
		ID:            "t1",
		Descricao:     "Supermercado",
		Valor:         150.75,
		Tipo:          "despesa",
		Data:          "2024-03-10",
		CategoryID:    "c1",
		AccountID:     "a1",
		UserID:        "u1",
		Ownership:     "casa",
		Tags:          []string{"comida"},
		GrupoParcela:  "grp-1",
		NumeroParcela: 2,
		TotalParcelas: 3,
	}

	tx := mapTransaction(row, lookup)

	if tx.Amount.Cents != 15075 {
		t.Errorf("Amount = %d, want 15075", tx.Amount.Cents)
	}
	if tx.Kind != core.Expense {
		t.Errorf("Kind = %q, want expense", tx.Kind)
	}
	if tx.Ownership != core.Household {
		t.Errorf("Ownership = %q, want household", tx.Ownership)
	}
	if !tx.Date.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", tx.Date)
	}
	if tx.Category == nil || tx.Category.Name != "Mercado" {
		t.Errorf("Category not resolved: %+v", tx.Category)
	}
	if tx.Account == nil || tx.Account.Name != "Conta Corrente" {
		t.Errorf("Account not resolved: %+v", tx.Account)
	}
	if tx.Installment == nil || tx.Installment.GroupID != "grp-1" ||
		tx.Installment.Number != 2 || tx.Installment.Count != 3 {
		t.Errorf("Installment = %+v", tx.Installment)
	}
}

// Foreign keys that cannot be resolved become nil references, never errors.
func TestMapTransactionUnresolvedReferences(t *testing.T) {
	lookup := &fakeLookup{categories: map[string]*core.Category{}, accounts: map[string]*core.Account{}}

	tx := mapTransaction(transactionRow{
		ID:         "t1",
		Descricao:  "x",
		Valor:      1,
		Tipo:       "receita",
		Data:       "2024-01-01",
		CategoryID: "ghost",
		AccountID:  "ghost",
	}, lookup)

	if tx.Category != nil || tx.Account != nil {
		t.Errorf("unresolved references not nil: %+v %+v", tx.Category, tx.Account)
	}
	if tx.CategoryID != "ghost" {
		t.Errorf("raw key lost: %q", tx.CategoryID)
	}
	if tx.Installment != nil {
		t.Error("installment metadata invented for plain row")
	}
}

func TestMapAccountEnumCodes(t *testing.T) {
	tests := []struct {
		code string
		want core.AccountType
	}{
		{"corrente", core.Checking},
		{"poupanca", core.Savings},
		{"credito", core.Credit},
		{"investimento", core.InvestmentAcct},
		{"desconhecido", ""},
	}
	for _, tt := range tests {
		a := mapAccount(accountRow{Tipo: tt.code})
		if a.Type != tt.want {
			t.Errorf("mapAccount(tipo=%q).Type = %q, want %q", tt.code, a.Type, tt.want)
		}
	}
}

func TestMapCategoryBudgetGroup(t *testing.T) {
	c := mapCategory(categoryRow{ID: "c1", Nome: "Lazer", Tipo: "despesa", Grupo: "estilo"})
	if c.Kind != core.CategoryExpense || c.Group != core.Lifestyle {
		t.Errorf("mapCategory() = %+v", c)
	}
	if got := mapCategory(categoryRow{Tipo: "receita"}).Group; got != "" {
		t.Errorf("income category got budget group %q", got)
	}
}

func TestMapGoal(t *testing.T) {
	g := mapGoal(goalRow{
		ID:         "g1",
		Nome:       "Reserva",
		Tipo:       "economia",
		ValorAlvo:  10000,
		ValorAtual: 2500.50,
		DataLimite: "2025-01-01",
		Status:     "ativa",
		Sequencia:  4,
	})
	if g.Type != core.SavingsGoal || g.Status != core.GoalActive {
		t.Errorf("mapGoal() enums = %q %q", g.Type, g.Status)
	}
	if g.Target.Cents != 1000000 || g.Current.Cents != 250050 {
		t.Errorf("mapGoal() amounts = %d %d", g.Target.Cents, g.Current.Cents)
	}
	if !g.HasDeadline() || g.Streak != 4 {
		t.Errorf("mapGoal() = %+v", g)
	}

	noDeadline := mapGoal(goalRow{Nome: "Livre"})
	if noDeadline.HasDeadline() {
		t.Error("empty dataLimite mapped to a deadline")
	}
}

func TestParseWireDateMalformed(t *testing.T) {
	if got := parseWireDate("15/01/2024"); !got.IsZero() {
		t.Errorf("malformed date parsed to %v", got)
	}
	if got := parseWireDate(""); !got.IsZero() {
		t.Errorf("empty date parsed to %v", got)
	}
}
