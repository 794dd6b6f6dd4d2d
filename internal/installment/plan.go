// Package installment expands a single logical transaction into a group of
// monthly-dated parts. The expansion itself is pure; durable creation of
// the group is an atomic batch at the remote ledger.
package installment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"financas/internal/core"
)

const (
	MinCount = 2
	MaxCount = 48
)

// RoundingPolicy decides what happens to the residual cent when the total
// does not divide evenly.
type RoundingPolicy int

const (
	// RoundHalfUp gives every part round(total/n). The parts can drift from
	// the requested total by up to one cent.
	RoundHalfUp RoundingPolicy = iota

	// LastAbsorbsRemainder gives the final part whatever is left so the
	// parts always sum exactly to the requested total.
	LastAbsorbsRemainder
)

// Part is one planned installment row.
type Part struct {
	Amount core.Money
	Date   time.Time
	Meta   core.Installment
}

// Plan splits total into n monthly parts starting at baseDate. n outside
// [MinCount, MaxCount] is rejected before anything is generated; n==1 is
// the caller's plain single-entry path, not this engine's.
func Plan(total core.Money, baseDate time.Time, n int, policy RoundingPolicy) ([]Part, error) {
	if n < MinCount || n > MaxCount {
		return nil, fmt.Errorf("%w: installment count %d outside [%d, %d]",
			core.ErrValidation, n, MinCount, MaxCount)
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrValidation, err)
	}
	if baseDate.IsZero() {
		return nil, fmt.Errorf("%w: zero base date", core.ErrValidation)
	}

	share := total.DivRound(n)
	groupID := uuid.NewString()

	parts := make([]Part, 0, n)
	for i := 0; i < n; i++ {
		amount := share
		if policy == LastAbsorbsRemainder && i == n-1 {
			amount = core.Money{Cents: total.Cents - share.Cents*int64(n-1)}
		}
		parts = append(parts, Part{
			Amount: amount,
			Date:   baseDate.AddDate(0, i, 0),
			Meta: core.Installment{
				GroupID: groupID,
				Number:  i + 1,
				Count:   n,
			},
		})
	}

	return parts, nil
}
