package engine

import (
	"math"
	"testing"

	"PoolTracker/internal/model"
)

// threeWeekLedger builds the ledger used across the harvest tests:
// a first deposit, a second contribution, and a third contribution, none
// of them harvested yet.
func threeWeekLedger() []model.WeeklyEntry {
	return []model.WeeklyEntry{
		{
			ID: "w1", Date: "2025-01-06", WeekNumber: 2,
			InitialLiquidity: 0, Contribution: 1000, CurrentLiquidity: 1000,
		},
		{
			ID: "w2", Date: "2025-01-13", WeekNumber: 3,
			InitialLiquidity: 1000, Contribution: 500, CurrentLiquidity: 1500,
		},
		{
			ID: "w3", Date: "2025-01-20", WeekNumber: 4,
			InitialLiquidity: 1500, Contribution: 200, CurrentLiquidity: 1700,
		},
	}
}

func TestApplyHarvest_Target(t *testing.T) {
	ledger, err := ApplyHarvest(threeWeekLedger(), "w2", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target := ledger[1]
	if target.WeeklyFees != 50 {
		t.Errorf("weeklyFees: expected 50, got %.2f", target.WeeklyFees)
	}
	if target.CumulativeFees != 50 {
		t.Errorf("cumulativeFees: expected 50, got %.2f", target.CumulativeFees)
	}
	if target.CurrentLiquidity != 1550 {
		t.Errorf("currentLiquidity: expected 1550, got %.2f", target.CurrentLiquidity)
	}
	if target.WeeklyNetResult != 50 {
		t.Errorf("weeklyNetResult: expected 50, got %.2f", target.WeeklyNetResult)
	}
	wantPct := 50.0 / 1500.0 * 100
	if math.Abs(target.WeeklyFeeReturnPercentage-wantPct) > 1e-9 {
		t.Errorf("feeReturnPct: expected %.6f, got %.6f", wantPct, target.WeeklyFeeReturnPercentage)
	}
	if target.WeeklyTotalReturnPercentage != target.WeeklyFeeReturnPercentage {
		t.Error("total return pct should equal fee return pct on harvest")
	}
}

func TestApplyHarvest_CascadesLiquidity(t *testing.T) {
	ledger, err := ApplyHarvest(threeWeekLedger(), "w2", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	third := ledger[2]
	if third.InitialLiquidity != 1550 {
		t.Errorf("third initialLiquidity: expected 1550, got %.2f", third.InitialLiquidity)
	}
	if third.CurrentLiquidity != 1750 {
		t.Errorf("third currentLiquidity: expected 1750, got %.2f", third.CurrentLiquidity)
	}
	// Cascade re-derives the cumulative chain but not fees or returns.
	if third.CumulativeFees != 50 {
		t.Errorf("third cumulativeFees: expected 50, got %.2f", third.CumulativeFees)
	}
	if third.WeeklyFees != 0 || third.WeeklyFeeReturnPercentage != 0 {
		t.Error("cascade must not touch fees or return percentages of later entries")
	}
}

func TestApplyHarvest_LeavesEarlierEntriesAlone(t *testing.T) {
	before := threeWeekLedger()
	ledger, err := ApplyHarvest(before, "w2", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger[0] != before[0] {
		t.Errorf("first entry changed: %+v", ledger[0])
	}
}

func TestApplyHarvest_DoesNotMutateInput(t *testing.T) {
	before := threeWeekLedger()
	if _, err := ApplyHarvest(before, "w2", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before[1].WeeklyFees != 0 || before[2].InitialLiquidity != 1500 {
		t.Error("input slice was mutated")
	}
}

func TestApplyHarvest_UnknownID(t *testing.T) {
	before := threeWeekLedger()
	ledger, err := ApplyHarvest(before, "nope", 50)
	if err != ErrEntryNotFound {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	for i := range before {
		if ledger[i] != before[i] {
			t.Fatalf("ledger changed on failed harvest at index %d", i)
		}
	}
}

func TestApplyHarvest_SecondHarvestRejected(t *testing.T) {
	ledger, err := ApplyHarvest(threeWeekLedger(), "w2", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ApplyHarvest(ledger, "w2", 25); err != ErrAlreadyHarvested {
		t.Fatalf("expected ErrAlreadyHarvested, got %v", err)
	}
}

func TestApplyHarvest_ZeroBaseGuard(t *testing.T) {
	ledger := []model.WeeklyEntry{
		{ID: "w1", Date: "2025-01-06", WeekNumber: 2, InitialLiquidity: 0, Contribution: 0, CurrentLiquidity: 0},
	}
	out, err := ApplyHarvest(ledger, "w1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].WeeklyFeeReturnPercentage != 0 {
		t.Errorf("expected zero return pct for zero base, got %.4f", out[0].WeeklyFeeReturnPercentage)
	}
	if out[0].CurrentLiquidity != 10 {
		t.Errorf("liquidity should still absorb the fees, got %.2f", out[0].CurrentLiquidity)
	}
}

func TestApplyHarvest_LiquidityInvariantAfterCascade(t *testing.T) {
	ledger, err := ApplyHarvest(threeWeekLedger(), "w1", 33.33)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, e := range ledger {
		want := e.InitialLiquidity + e.Contribution + e.WeeklyFees
		if math.Abs(e.CurrentLiquidity-want) > 1e-9 {
			t.Errorf("entry %d: currentLiquidity %.6f != %.6f", i, e.CurrentLiquidity, want)
		}
	}
}

func TestApplyHarvest_CumulativeFeesNonDecreasing(t *testing.T) {
	ledger, err := ApplyHarvest(threeWeekLedger(), "w1", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ledger, err = ApplyHarvest(ledger, "w3", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prev := 0.0
	for i, e := range ledger {
		if e.CumulativeFees < prev {
			t.Errorf("cumulativeFees decreased at entry %d: %.2f < %.2f", i, e.CumulativeFees, prev)
		}
		prev = e.CumulativeFees
	}
	if ledger[2].CumulativeFees != 25 {
		t.Errorf("final cumulative: expected 25, got %.2f", ledger[2].CumulativeFees)
	}
}

func TestRebuildChain(t *testing.T) {
	// A merge left an out-of-order chain behind: rebuild must restore the
	// liquidity and cumulative links while keeping fees as recorded.
	ledger := []model.WeeklyEntry{
		{ID: "w1", Date: "2025-01-06", WeekNumber: 2, Contribution: 1000, CurrentLiquidity: 1000},
		{ID: "x", Date: "2025-01-10", WeekNumber: 2, Contribution: 100, WeeklyFees: 10, InitialLiquidity: 9999, CurrentLiquidity: 9999},
		{ID: "w2", Date: "2025-01-13", WeekNumber: 3, Contribution: 500, InitialLiquidity: 1000, CurrentLiquidity: 1500},
	}
	out := RebuildChain(ledger)

	if out[1].InitialLiquidity != 1000 || out[1].CurrentLiquidity != 1110 {
		t.Errorf("merged entry chain: got initial %.2f current %.2f", out[1].InitialLiquidity, out[1].CurrentLiquidity)
	}
	if out[2].InitialLiquidity != 1110 || out[2].CurrentLiquidity != 1610 {
		t.Errorf("trailing entry chain: got initial %.2f current %.2f", out[2].InitialLiquidity, out[2].CurrentLiquidity)
	}
	if out[1].WeeklyFees != 10 {
		t.Error("rebuild must not touch recorded fees")
	}
	if out[1].CumulativeFees != 10 || out[2].CumulativeFees != 10 {
		t.Errorf("cumulative chain: got %.2f / %.2f", out[1].CumulativeFees, out[2].CumulativeFees)
	}
}

func TestRebuildChain_Empty(t *testing.T) {
	if out := RebuildChain(nil); len(out) != 0 {
		t.Errorf("expected empty result, got %d entries", len(out))
	}
}
