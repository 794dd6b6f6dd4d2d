package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Description: "Mercado",
		Amount:      Money{Cents: 15000},
		Kind:        Expense,
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Ownership:   Household,
	}

	tests := []struct {
		name    string
		mutate  func(tx *Transaction)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "empty description", mutate: func(tx *Transaction) { tx.Description = "   " }, wantErr: true},
		{name: "zero amount", mutate: func(tx *Transaction) { tx.Amount = Money{} }, wantErr: true},
		{name: "unknown kind", mutate: func(tx *Transaction) { tx.Kind = "loan" }, wantErr: true},
		{name: "zero date", mutate: func(tx *Transaction) { tx.Date = time.Time{} }, wantErr: true},
		{name: "bad ownership", mutate: func(tx *Transaction) { tx.Ownership = "shared" }, wantErr: true},
		{name: "ownership optional", mutate: func(tx *Transaction) { tx.Ownership = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			if err := tx.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudgetAllocationValidate(t *testing.T) {
	if err := (BudgetAllocation{Essentials: 50, Lifestyle: 30, Investments: 20}).Validate(); err != nil {
		t.Errorf("valid allocation rejected: %v", err)
	}
	if err := (BudgetAllocation{Essentials: 50, Lifestyle: 30, Investments: 21}).Validate(); err == nil {
		t.Error("allocation summing to 101 accepted")
	}
	if err := (BudgetAllocation{Essentials: 110, Lifestyle: -10, Investments: 0}).Validate(); err == nil {
		t.Error("negative percentage accepted")
	}
}

func TestGoalHasDeadline(t *testing.T) {
	g := Goal{Name: "Reserva", Target: Money{Cents: 1000000}}
	if g.HasDeadline() {
		t.Error("zero deadline reported as set")
	}
	g.Deadline = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !g.HasDeadline() {
		t.Error("deadline not detected")
	}
}
