package calculator

import (
	"github.com/google/uuid"

	"PoolTracker/internal/model"
)

// Calculate derives a fully-populated WeeklyEntry from user input and the
// chronologically previous entry (nil for the first entry ever).
//
// Fees are always zero at creation time; they are added later through a
// harvest. PriceVariation is a constant 0: no AMM divergence math is
// modeled here.
func Calculate(input model.EntryInput, previous *model.WeeklyEntry) model.WeeklyEntry {
	var initialLiquidity, cumulativeFees float64
	if previous == nil {
		initialLiquidity = 0
		// Historical seed: only the first entry may carry user-entered
		// accumulated fees.
		cumulativeFees = input.CumulativeFees
	} else {
		initialLiquidity = previous.CurrentLiquidity
		cumulativeFees = previous.CumulativeFees
	}

	weeklyFees := 0.0
	currentLiquidity := initialLiquidity + input.Contribution

	priceVariation := 0.0
	weeklyNetResult := weeklyFees + priceVariation

	base := initialLiquidity + input.Contribution
	feeReturnPct := 0.0
	totalReturnPct := 0.0
	if base > 0 {
		feeReturnPct = weeklyFees / base * 100
		totalReturnPct = weeklyNetResult / base * 100
	}

	return model.WeeklyEntry{
		ID:         uuid.NewString(),
		Date:       input.Date,
		WeekNumber: input.WeekNumber,

		CurrentLiquidity: currentLiquidity,
		CumulativeFees:   cumulativeFees,
		Contribution:     input.Contribution,

		InitialLiquidity:            initialLiquidity,
		WeeklyFees:                  weeklyFees,
		PriceVariation:              priceVariation,
		WeeklyNetResult:             weeklyNetResult,
		WeeklyFeeReturnPercentage:   feeReturnPct,
		WeeklyTotalReturnPercentage: totalReturnPct,
	}
}
