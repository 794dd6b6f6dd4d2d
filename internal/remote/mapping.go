package remote

import (
	"time"

	"github.com/shopspring/decimal"

	"financas/internal/core"
)

// Lookup resolves foreign keys against entities the store has already
// fetched. Both methods return nil when the id is unknown.
type Lookup interface {
	CategoryByID(id string) *core.Category
	AccountByID(id string) *core.Account
}

// The mapping layer is total: unknown coded enums map to the zero value and
// unresolved foreign keys become nil references, never an error. A later
// revalidation of the related resource repairs the reference.

var (
	txKinds = map[string]core.TransactionKind{
		"receita":       core.Income,
		"despesa":       core.Expense,
		"transferencia": core.Transfer,
	}
	txKindCodes = map[core.TransactionKind]string{
		core.Income:   "receita",
		core.Expense:  "despesa",
		core.Transfer: "transferencia",
	}

	ownerships = map[string]core.OwnershipScope{
		"casa":    core.Household,
		"pessoal": core.Personal,
	}
	ownershipCodes = map[core.OwnershipScope]string{
		core.Household: "casa",
		core.Personal:  "pessoal",
	}

	accountTypes = map[string]core.AccountType{
		"corrente":     core.Checking,
		"poupanca":     core.Savings,
		"credito":      core.Credit,
		"investimento": core.InvestmentAcct,
	}
	accountTypeCodes = map[core.AccountType]string{
		core.Checking:       "corrente",
		core.Savings:        "poupanca",
		core.Credit:         "credito",
		core.InvestmentAcct: "investimento",
	}

	categoryKinds = map[string]core.CategoryKind{
		"receita": core.CategoryIncome,
		"despesa": core.CategoryExpense,
	}

	budgetGroups = map[string]core.BudgetGroup{
		"essenciais":    core.Essentials,
		"estilo":        core.Lifestyle,
		"investimentos": core.Investments,
	}

	goalTypes = map[string]core.GoalType{
		"economia":     core.SavingsGoal,
		"investimento": core.InvestmentGoal,
		"patrimonio":   core.PatrimonyGoal,
		"orcamento":    core.BudgetGoal,
	}
	goalTypeCodes = map[core.GoalType]string{
		core.SavingsGoal:    "economia",
		core.InvestmentGoal: "investimento",
		core.PatrimonyGoal:  "patrimonio",
		core.BudgetGoal:     "orcamento",
	}

	goalStatuses = map[string]core.GoalStatus{
		"ativa":     core.GoalActive,
		"pausada":   core.GoalPaused,
		"concluida": core.GoalCompleted,
	}
	goalStatusCodes = map[core.GoalStatus]string{
		core.GoalActive:    "ativa",
		core.GoalPaused:    "pausada",
		core.GoalCompleted: "concluida",
	}
)

func mapTransaction(row transactionRow, lookup Lookup) core.Transaction {
	tx := core.Transaction{
		ID:          row.ID,
		Description: row.Descricao,
		Amount:      core.MoneyFromFloat(row.Valor),
		Kind:        txKinds[row.Tipo],
		Date:        parseWireDate(row.Data),
		CategoryID:  row.CategoryID,
		AccountID:   row.AccountID,
		UserID:      row.UserID,
		Ownership:   ownerships[row.Ownership],
		Tags:        row.Tags,
		Notes:       row.Notas,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}

	if row.GrupoParcela != "" {
		tx.Installment = &core.Installment{
			GroupID: row.GrupoParcela,
			Number:  row.NumeroParcela,
			Count:   row.TotalParcelas,
		}
	}

	if lookup != nil {
		if row.CategoryID != "" {
			tx.Category = lookup.CategoryByID(row.CategoryID)
		}
		if row.AccountID != "" {
			tx.Account = lookup.AccountByID(row.AccountID)
		}
	}

	return tx
}

func mapTransactions(rows []transactionRow, lookup Lookup) []core.Transaction {
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTransaction(row, lookup))
	}
	return out
}

func mapAccount(row accountRow) core.Account {
	return core.Account{
		ID:             row.ID,
		Name:           row.Nome,
		Type:           accountTypes[row.Tipo],
		OpeningBalance: core.MoneyFromFloat(row.SaldoInicial),
		Bank:           row.Banco,
		Color:          row.Cor,
		Icon:           row.Icone,
		Active:         row.Ativo,
		UserID:         row.UserID,
	}
}

func mapCategory(row categoryRow) core.Category {
	return core.Category{
		ID:    row.ID,
		Name:  row.Nome,
		Kind:  categoryKinds[row.Tipo],
		Color: row.Cor,
		Group: budgetGroups[row.Grupo],
	}
}

func mapGoal(row goalRow) core.Goal {
	return core.Goal{
		ID:        row.ID,
		Name:      row.Nome,
		Type:      goalTypes[row.Tipo],
		Target:    core.MoneyFromFloat(row.ValorAlvo),
		Current:   core.MoneyFromFloat(row.ValorAtual),
		Deadline:  parseWireDate(row.DataLimite),
		Status:    goalStatuses[row.Status],
		Streak:    row.Sequencia,
		CreatedAt: row.CreatedAt,
	}
}

func mapInvestment(row investmentRow, lookup Lookup) core.Investment {
	qty, err := decimal.NewFromString(row.Quantidade)
	if err != nil {
		qty = decimal.Zero
	}
	inv := core.Investment{
		ID:        row.ID,
		Name:      row.Nome,
		Kind:      row.Tipo,
		Quantity:  qty,
		UnitPrice: core.MoneyFromFloat(row.PrecoUnitario),
		AccountID: row.AccountID,
	}
	if lookup != nil && row.AccountID != "" {
		inv.Account = lookup.AccountByID(row.AccountID)
	}
	return inv
}

func mapUser(row userRow) core.User {
	return core.User{ID: row.ID, Name: row.Nome, Email: row.Email}
}

// parseWireDate returns the zero time for empty or malformed dates; absent
// deadlines arrive as empty strings.
func parseWireDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(wireDateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatWireDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(wireDateLayout)
}
