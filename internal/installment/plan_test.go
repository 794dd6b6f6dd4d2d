package installment

import (
	"errors"
	"testing"
	"time"

	"financas/internal/core"
)

func TestPlanRejectsOutOfRangeCount(t *testing.T) {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, n := range []int{-1, 0, 1, 49, 100} {
		parts, err := Plan(core.Money{Cents: 30000}, base, n, RoundHalfUp)
		if !errors.Is(err, core.ErrValidation) {
			t.Errorf("Plan(n=%d) error = %v, want ErrValidation", n, err)
		}
		if parts != nil {
			t.Errorf("Plan(n=%d) produced %d parts, want none", n, len(parts))
		}
	}
}

func TestPlanThreeEvenParts(t *testing.T) {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	parts, err := Plan(core.Money{Cents: 30000}, base, 3, RoundHalfUp)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("Plan() produced %d parts, want 3", len(parts))
	}

	wantDates := []time.Time{
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	group := parts[0].Meta.GroupID
	if group == "" {
		t.Fatal("empty group id")
	}

	for i, p := range parts {
		if p.Amount.Cents != 10000 {
			t.Errorf("part %d amount = %d, want 10000", i, p.Amount.Cents)
		}
		if !p.Date.Equal(wantDates[i]) {
			t.Errorf("part %d date = %v, want %v", i, p.Date, wantDates[i])
		}
		if p.Meta.GroupID != group {
			t.Errorf("part %d group = %q, want %q", i, p.Meta.GroupID, group)
		}
		if p.Meta.Number != i+1 || p.Meta.Count != 3 {
			t.Errorf("part %d sequence = %d/%d, want %d/3", i, p.Meta.Number, p.Meta.Count, i+1)
		}
	}
}

func TestPlanRoundingPolicies(t *testing.T) {
	base := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	// 100.00 / 3: each share rounds to 33.33, losing one cent overall.
	halfUp, err := Plan(core.Money{Cents: 10000}, base, 3, RoundHalfUp)
	if err != nil {
		t.Fatalf("Plan(RoundHalfUp) error = %v", err)
	}
	var sum int64
	for _, p := range halfUp {
		if p.Amount.Cents != 3333 {
			t.Errorf("RoundHalfUp part = %d, want 3333", p.Amount.Cents)
		}
		sum += p.Amount.Cents
	}
	if sum != 9999 {
		t.Errorf("RoundHalfUp sum = %d, want 9999 (one-cent drift)", sum)
	}

	absorb, err := Plan(core.Money{Cents: 10000}, base, 3, LastAbsorbsRemainder)
	if err != nil {
		t.Fatalf("Plan(LastAbsorbsRemainder) error = %v", err)
	}
	if absorb[0].Amount.Cents != 3333 || absorb[1].Amount.Cents != 3333 {
		t.Errorf("LastAbsorbsRemainder leading parts = %d, %d, want 3333 each",
			absorb[0].Amount.Cents, absorb[1].Amount.Cents)
	}
	if absorb[2].Amount.Cents != 3334 {
		t.Errorf("LastAbsorbsRemainder final part = %d, want 3334", absorb[2].Amount.Cents)
	}
}

// Parts must always sum to the total within one cent across the whole
// allowed range, and exactly under LastAbsorbsRemainder.
func TestPlanSumInvariant(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	totals := []int64{10000, 9999, 123457, 100, 4800001}

	for _, total := range totals {
		for n := MinCount; n <= MaxCount; n++ {
			halfUp, err := Plan(core.Money{Cents: total}, base, n, RoundHalfUp)
			if err != nil {
				t.Fatalf("Plan(%d, n=%d) error = %v", total, n, err)
			}
			var sum int64
			for _, p := range halfUp {
				sum += p.Amount.Cents
			}
			if drift := sum - total; drift < -int64(n)/2-1 || drift > int64(n)/2+1 {
				t.Errorf("RoundHalfUp total %d n %d: sum %d drifted %d", total, n, sum, drift)
			}

			absorb, err := Plan(core.Money{Cents: total}, base, n, LastAbsorbsRemainder)
			if err != nil {
				t.Fatalf("Plan(%d, n=%d) error = %v", total, n, err)
			}
			sum = 0
			for _, p := range absorb {
				sum += p.Amount.Cents
			}
			if sum != total {
				t.Errorf("LastAbsorbsRemainder total %d n %d: sum %d", total, n, sum)
			}
		}
	}
}

func TestPlanMonthEndDates(t *testing.T) {
	// AddDate normalizes Jan 31 + 1 month to Mar 2/3; the engine keeps Go's
	// calendar arithmetic rather than pinning to month ends.
	base := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	parts, err := Plan(core.Money{Cents: 20000}, base, 2, RoundHalfUp)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	want := base.AddDate(0, 1, 0)
	if !parts[1].Date.Equal(want) {
		t.Errorf("second part date = %v, want %v", parts[1].Date, want)
	}
}
