package engine

import (
	"errors"

	"PoolTracker/internal/model"
)

var (
	// ErrEntryNotFound is returned when the target id is not in the ledger.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrAlreadyHarvested is returned when a harvest was already recorded
	// for the target entry. One harvest per entry.
	ErrAlreadyHarvested = errors.New("entry already harvested")
)

// ApplyHarvest records harvested fees on the target entry and cascades the
// liquidity recomputation forward through every later entry. The input
// slice is not modified; a corrected copy is returned.
//
// The target gets the full correction: fees, cumulative total, liquidity,
// net result and return percentages. Later entries only have their
// liquidity and cumulative-fee chains re-derived; their own fees and
// return percentages are left as recorded.
func ApplyHarvest(entries []model.WeeklyEntry, id string, harvestedFees float64) ([]model.WeeklyEntry, error) {
	idx := indexOf(entries, id)
	if idx < 0 {
		return entries, ErrEntryNotFound
	}
	if entries[idx].Harvested() {
		return entries, ErrAlreadyHarvested
	}

	out := make([]model.WeeklyEntry, len(entries))
	copy(out, entries)

	target := &out[idx]
	base := target.Base()
	feeReturnPct := 0.0
	if base > 0 {
		feeReturnPct = harvestedFees / base * 100
	}

	target.WeeklyFees = harvestedFees
	target.CumulativeFees += harvestedFees
	target.CurrentLiquidity += harvestedFees
	target.WeeklyNetResult = harvestedFees
	target.WeeklyFeeReturnPercentage = feeReturnPct
	target.WeeklyTotalReturnPercentage = feeReturnPct

	cascadeFrom(out, idx+1)
	return out, nil
}

// RebuildChain re-derives the liquidity and cumulative-fee chains across
// the whole ledger, keeping the first entry's state as the anchor. Used
// after an import merge interleaves entries.
func RebuildChain(entries []model.WeeklyEntry) []model.WeeklyEntry {
	if len(entries) == 0 {
		return entries
	}
	out := make([]model.WeeklyEntry, len(entries))
	copy(out, entries)
	cascadeFrom(out, 1)
	return out
}

// cascadeFrom recomputes the chained fields of out[start:] from each
// entry's predecessor. Contributions, fees and recorded return
// percentages are never touched here.
func cascadeFrom(out []model.WeeklyEntry, start int) {
	if start < 1 {
		start = 1
	}
	for i := start; i < len(out); i++ {
		prior := out[i-1]
		out[i].InitialLiquidity = prior.CurrentLiquidity
		out[i].CurrentLiquidity = out[i].InitialLiquidity + out[i].Contribution + out[i].WeeklyFees
		out[i].CumulativeFees = prior.CumulativeFees + out[i].WeeklyFees
	}
}

func indexOf(entries []model.WeeklyEntry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}
