package analytics

import (
	"testing"

	"financas/internal/core"
)

func TestRebalance(t *testing.T) {
	tests := []struct {
		name  string
		cur   core.BudgetAllocation
		group core.BudgetGroup
		value int
		want  core.BudgetAllocation
	}{
		{
			name:  "raise essentials shrinks others proportionally",
			cur:   core.BudgetAllocation{Essentials: 50, Lifestyle: 30, Investments: 20},
			group: core.Essentials,
			value: 70,
			want:  core.BudgetAllocation{Essentials: 70, Lifestyle: 18, Investments: 12},
		},
		{
			name:  "lower essentials grows others proportionally",
			cur:   core.BudgetAllocation{Essentials: 70, Lifestyle: 18, Investments: 12},
			group: core.Essentials,
			value: 50,
			want:  core.BudgetAllocation{Essentials: 50, Lifestyle: 30, Investments: 20},
		},
		{
			name:  "no movement",
			cur:   core.BudgetAllocation{Essentials: 50, Lifestyle: 30, Investments: 20},
			group: core.Lifestyle,
			value: 30,
			want:  core.BudgetAllocation{Essentials: 50, Lifestyle: 30, Investments: 20},
		},
		{
			name:  "both others zero splits remainder evenly",
			cur:   core.BudgetAllocation{Essentials: 100, Lifestyle: 0, Investments: 0},
			group: core.Essentials,
			value: 75,
			want:  core.BudgetAllocation{Essentials: 75, Lifestyle: 13, Investments: 12},
		},
		{
			name:  "slider to 100 empties others",
			cur:   core.BudgetAllocation{Essentials: 50, Lifestyle: 30, Investments: 20},
			group: core.Essentials,
			value: 100,
			want:  core.BudgetAllocation{Essentials: 100, Lifestyle: 0, Investments: 0},
		},
		{
			name:  "slider to 0 fills others",
			cur:   core.BudgetAllocation{Essentials: 50, Lifestyle: 30, Investments: 20},
			group: core.Essentials,
			value: 0,
			want:  core.BudgetAllocation{Essentials: 0, Lifestyle: 60, Investments: 40},
		},
		{
			name:  "value clamped above 100",
			cur:   core.BudgetAllocation{Essentials: 50, Lifestyle: 30, Investments: 20},
			group: core.Investments,
			value: 120,
			want:  core.BudgetAllocation{Essentials: 0, Lifestyle: 0, Investments: 100},
		},
		{
			name:  "value clamped below 0",
			cur:   core.BudgetAllocation{Essentials: 50, Lifestyle: 30, Investments: 20},
			group: core.Lifestyle,
			value: -10,
			want:  core.BudgetAllocation{Essentials: 71, Lifestyle: 0, Investments: 29},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rebalance(tt.cur, tt.group, tt.value)
			if got != tt.want {
				t.Errorf("Rebalance() = %+v, want %+v", got, tt.want)
			}
			if got.Sum() != 100 {
				t.Errorf("Rebalance() sum = %d, must be exactly 100", got.Sum())
			}
		})
	}
}

// Any single adjustment must land on exactly 100, whatever the rounding.
func TestRebalanceAlwaysSums100(t *testing.T) {
	cur := core.BudgetAllocation{Essentials: 33, Lifestyle: 33, Investments: 34}
	for v := 0; v <= 100; v++ {
		for _, g := range groupOrder {
			next := Rebalance(cur, g, v)
			if next.Sum() != 100 {
				t.Fatalf("Rebalance(%+v, %s, %d) sum = %d", cur, g, v, next.Sum())
			}
		}
	}
}
