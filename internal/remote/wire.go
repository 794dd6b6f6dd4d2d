package remote

import "time"

// Wire shapes of the remote ledger service. Field names follow the remote
// API (Portuguese), coded enums included; translation to domain types is
// the mapping layer's job.

const wireDateLayout = "2006-01-02"

type userRow struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

type accountRow struct {
	ID           string  `json:"id"`
	Nome         string  `json:"nome"`
	Tipo         string  `json:"tipo"` // corrente | poupanca | credito | investimento
	Banco        string  `json:"banco,omitempty"`
	SaldoInicial float64 `json:"saldoInicial"`
	Cor          string  `json:"cor,omitempty"`
	Icone        string  `json:"icone,omitempty"`
	Ativo        bool    `json:"ativo"`
	UserID       string  `json:"userId"`
}

type accountTotals struct {
	TotalDisponivel float64 `json:"totalDisponivel"`
	TotalCredito    float64 `json:"totalCredito"`
	SaldoLiquido    float64 `json:"saldoLiquido"`
}

type accountsResponse struct {
	Accounts []accountRow  `json:"accounts"`
	Totals   accountTotals `json:"totals"`
}

type createAccountRequest struct {
	Nome         string  `json:"nome"`
	Tipo         string  `json:"tipo"`
	Banco        string  `json:"banco,omitempty"`
	SaldoInicial float64 `json:"saldoInicial,omitempty"`
	Cor          string  `json:"cor,omitempty"`
	Icone        string  `json:"icone,omitempty"`
}

type updateAccountRequest struct {
	ID           string   `json:"id"`
	Nome         *string  `json:"nome,omitempty"`
	Tipo         *string  `json:"tipo,omitempty"`
	Banco        *string  `json:"banco,omitempty"`
	SaldoInicial *float64 `json:"saldoInicial,omitempty"`
	Cor          *string  `json:"cor,omitempty"`
	Icone        *string  `json:"icone,omitempty"`
	Ativo        *bool    `json:"ativo,omitempty"`
}

type categoryRow struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Tipo  string `json:"tipo"` // receita | despesa
	Cor   string `json:"cor,omitempty"`
	Grupo string `json:"grupo,omitempty"` // essenciais | estilo | investimentos
}

type categoriesResponse struct {
	Categories []categoryRow `json:"categories"`
}

type transactionRow struct {
	ID            string    `json:"id"`
	Descricao     string    `json:"descricao"`
	Valor         float64   `json:"valor"`
	Tipo          string    `json:"tipo"` // receita | despesa | transferencia
	Data          string    `json:"data"`
	CategoryID    string    `json:"categoryId,omitempty"`
	AccountID     string    `json:"accountId,omitempty"`
	UserID        string    `json:"userId"`
	Ownership     string    `json:"ownership,omitempty"` // casa | pessoal
	Tags          []string  `json:"tags,omitempty"`
	Notas         string    `json:"notas,omitempty"`
	GrupoParcela  string    `json:"grupoParcela,omitempty"`
	NumeroParcela int       `json:"numeroParcela,omitempty"`
	TotalParcelas int       `json:"totalParcelas,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type pagination struct {
	Limit       int  `json:"limit"`
	Offset      int  `json:"offset"`
	HasMore     bool `json:"hasMore"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
}

type transactionsResponse struct {
	Transactions []transactionRow `json:"transactions"`
	Total        int              `json:"total"`
	Pagination   pagination       `json:"pagination"`
}

type createTransactionRequest struct {
	Descricao  string   `json:"descricao"`
	Valor      float64  `json:"valor"`
	Tipo       string   `json:"tipo"`
	Data       string   `json:"data"`
	CategoryID string   `json:"categoryId,omitempty"`
	AccountID  string   `json:"accountId,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Notas      string   `json:"notas,omitempty"`
	Ownership  string   `json:"ownership,omitempty"`
	Parcelas   int      `json:"parcelas,omitempty"`
}

type batchCreateResponse struct {
	Count        int              `json:"count"`
	GrupoParcela string           `json:"grupoParcela"`
	Transactions []transactionRow `json:"transactions"`
}

type updateTransactionRequest struct {
	ID         string    `json:"id"`
	Descricao  *string   `json:"descricao,omitempty"`
	Valor      *float64  `json:"valor,omitempty"`
	Tipo       *string   `json:"tipo,omitempty"`
	Data       *string   `json:"data,omitempty"`
	CategoryID *string   `json:"categoryId,omitempty"`
	AccountID  *string   `json:"accountId,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Notas      *string   `json:"notas,omitempty"`
	Ownership  *string   `json:"ownership,omitempty"`
}

type goalRow struct {
	ID         string    `json:"id"`
	Nome       string    `json:"nome"`
	Tipo       string    `json:"tipo"` // economia | investimento | patrimonio | orcamento
	ValorAlvo  float64   `json:"valorAlvo"`
	ValorAtual float64   `json:"valorAtual"`
	DataLimite string    `json:"dataLimite,omitempty"`
	Status     string    `json:"status"` // ativa | pausada | concluida
	Sequencia  int       `json:"sequencia"`
	Progresso  float64   `json:"progresso"`
	Atingida   bool      `json:"atingida"`
	CreatedAt  time.Time `json:"createdAt"`
}

type goalsResponse struct {
	Goals []goalRow `json:"goals"`
}

type createGoalRequest struct {
	Nome       string  `json:"nome"`
	Tipo       string  `json:"tipo"`
	ValorAlvo  float64 `json:"valorAlvo"`
	ValorAtual float64 `json:"valorAtual,omitempty"`
	DataLimite string  `json:"dataLimite,omitempty"`
}

type updateGoalRequest struct {
	ID         string   `json:"id"`
	Nome       *string  `json:"nome,omitempty"`
	Tipo       *string  `json:"tipo,omitempty"`
	ValorAlvo  *float64 `json:"valorAlvo,omitempty"`
	DataLimite *string  `json:"dataLimite,omitempty"`
	Status     *string  `json:"status,omitempty"`
}

// progressGoalRequest increments or sets a goal's progress; exactly one of
// ValorAtual and Incremento is set.
type progressGoalRequest struct {
	ID         string   `json:"id"`
	ValorAtual *float64 `json:"valorAtual,omitempty"`
	Incremento *float64 `json:"incremento,omitempty"`
}

type investmentRow struct {
	ID            string  `json:"id"`
	Nome          string  `json:"nome"`
	Tipo          string  `json:"tipo"`
	Quantidade    string  `json:"quantidade"` // decimal string, fractional quantities allowed
	PrecoUnitario float64 `json:"precoUnitario"`
	AccountID     string  `json:"accountId,omitempty"`
}

type investmentsResponse struct {
	Investments []investmentRow `json:"investments"`
}

type usersResponse struct {
	Users []userRow `json:"users"`
}

type errorResponse struct {
	Error string `json:"error"`
}
