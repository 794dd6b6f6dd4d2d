package analytics

import (
	"time"

	"financas/internal/core"
)

// MonthSummary aggregates ledger movements for one year+month.
type MonthSummary struct {
	Year     int
	Month    time.Month
	Income   core.Money
	Expenses core.Money
	ByGroup  map[core.BudgetGroup]core.Money
}

// Net returns income minus expenses for the month.
func (s MonthSummary) Net() core.Money {
	return s.Income.Sub(s.Expenses)
}

// Summarize aggregates the given entries for a month. Transfers are
// excluded; expenses are bucketed by the budget group of their resolved
// category, and entries without a grouped category are left out of ByGroup.
func Summarize(entries []core.Transaction, year int, month time.Month) MonthSummary {
	s := MonthSummary{
		Year:    year,
		Month:   month,
		ByGroup: make(map[core.BudgetGroup]core.Money),
	}

	for _, tx := range entries {
		if tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}
		switch tx.Kind {
		case core.Income:
			s.Income = s.Income.Add(tx.Amount)
		case core.Expense:
			s.Expenses = s.Expenses.Add(tx.Amount)
			if tx.Category != nil && tx.Category.Group.IsValid() {
				s.ByGroup[tx.Category.Group] = s.ByGroup[tx.Category.Group].Add(tx.Amount)
			}
		}
	}

	return s
}

// GroupShares returns each budget group's share of the month's expenses as
// whole percentages, for comparison against the target allocation. All
// zeros when there are no expenses.
func GroupShares(s MonthSummary) map[core.BudgetGroup]int {
	shares := make(map[core.BudgetGroup]int, 3)
	total := s.Expenses.Cents
	for _, g := range groupOrder {
		if total > 0 {
			shares[g] = int(float64(s.ByGroup[g].Cents) / float64(total) * 100)
		} else {
			shares[g] = 0
		}
	}
	return shares
}
