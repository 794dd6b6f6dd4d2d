// Package analytics computes derived financial views over ledger data.
// Every function here is pure and total: no stored state, no staleness,
// no failure modes beyond the documented clamping.
package analytics

import (
	"math"

	"financas/internal/core"
)

// rebalance order is fixed: essentials, lifestyle, investments. The first
// "other" group in this order absorbs any rounding residual.
var groupOrder = []core.BudgetGroup{core.Essentials, core.Lifestyle, core.Investments}

// Rebalance moves the slider of one budget group to value and redistributes
// the difference across the other two groups in proportion to their current
// share. The result always sums to exactly 100.
func Rebalance(cur core.BudgetAllocation, group core.BudgetGroup, value int) core.BudgetAllocation {
	value = clamp(value, 0, 100)

	old := allocValue(cur, group)
	diff := value - old

	var others [2]core.BudgetGroup
	i := 0
	for _, g := range groupOrder {
		if g != group {
			others[i] = g
			i++
		}
	}

	o1, o2 := allocValue(cur, others[0]), allocValue(cur, others[1])
	sumOthers := o1 + o2

	var n1, n2 int
	if sumOthers == 0 {
		// Both sliders at zero: nothing to scale proportionally, so split
		// the remaining budget evenly (ceil/floor).
		remaining := 100 - value
		n1 = (remaining + 1) / 2
		n2 = remaining / 2
	} else {
		n1 = clamp(o1-roundShare(diff, o1, sumOthers), 0, 100)
		n2 = clamp(o2-roundShare(diff, o2, sumOthers), 0, 100)
	}

	// Rounding can leave the three values off 100; the residual goes
	// entirely to the first other group, spilling to the second only when
	// clamping forces it.
	if residual := 100 - (value + n1 + n2); residual != 0 {
		adjusted := clamp(n1+residual, 0, 100)
		spill := residual - (adjusted - n1)
		n1 = adjusted
		n2 = clamp(n2+spill, 0, 100)
	}

	next := cur
	setAllocValue(&next, group, value)
	setAllocValue(&next, others[0], n1)
	setAllocValue(&next, others[1], n2)
	return next
}

func roundShare(diff, part, total int) int {
	return int(math.Round(float64(diff) * float64(part) / float64(total)))
}

func allocValue(a core.BudgetAllocation, g core.BudgetGroup) int {
	switch g {
	case core.Essentials:
		return a.Essentials
	case core.Lifestyle:
		return a.Lifestyle
	default:
		return a.Investments
	}
}

func setAllocValue(a *core.BudgetAllocation, g core.BudgetGroup, v int) {
	switch g {
	case core.Essentials:
		a.Essentials = v
	case core.Lifestyle:
		a.Lifestyle = v
	default:
		a.Investments = v
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
