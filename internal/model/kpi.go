package model

// PoolKPIs holds the portfolio-level summary derived from the full ledger.
// Stateless: recomputed in full after every change.
type PoolKPIs struct {
	TotalLiquidity     float64 `json:"totalLiquidity"`
	TotalInvested      float64 `json:"totalInvested"`
	TotalFeesGenerated float64 `json:"totalFeesGenerated"`
	NetResult          float64 `json:"netResult"`
	OverallROI         float64 `json:"overallROI"`
}
