package engine

import "PoolTracker/internal/model"

// Aggregate reduces the full ledger into the portfolio-level KPIs.
// Pure and stateless: called on every change, an empty ledger yields the
// zero value. Current totals come from the last entry in chronological
// order.
func Aggregate(entries []model.WeeklyEntry) model.PoolKPIs {
	if len(entries) == 0 {
		return model.PoolKPIs{}
	}

	latest := entries[len(entries)-1]
	totalInvested := 0.0
	for _, e := range entries {
		totalInvested += e.Contribution
	}

	netResult := latest.CurrentLiquidity - totalInvested
	roi := 0.0
	if totalInvested > 0 {
		roi = netResult / totalInvested * 100
	}

	return model.PoolKPIs{
		TotalLiquidity:     latest.CurrentLiquidity,
		TotalInvested:      totalInvested,
		TotalFeesGenerated: latest.CumulativeFees,
		NetResult:          netResult,
		OverallROI:         roi,
	}
}
