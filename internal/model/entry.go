package model

// EntryInput is the raw user input for a new weekly record.
// CumulativeFees acts as a historical seed: it is honored only when the
// ledger is empty, otherwise the running total is derived from the chain.
type EntryInput struct {
	Date           string  `json:"date"` // "2006-01-02"
	WeekNumber     int     `json:"weekNumber"`
	CumulativeFees float64 `json:"cumulativeFees"`
	Contribution   float64 `json:"contribution"`
}

// WeeklyEntry is one observation period in the ledger. JSON field names
// match the v1.0 export format and must not change.
type WeeklyEntry struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	WeekNumber int    `json:"weekNumber"`

	CurrentLiquidity float64 `json:"currentLiquidity"`
	CumulativeFees   float64 `json:"cumulativeFees"`
	Contribution     float64 `json:"contribution"`

	InitialLiquidity           float64 `json:"initialLiquidity"`
	WeeklyFees                 float64 `json:"weeklyFees"`
	PriceVariation             float64 `json:"priceVariation"`
	WeeklyNetResult            float64 `json:"weeklyNetResult"`
	WeeklyFeeReturnPercentage  float64 `json:"weeklyFeeReturnPercentage"`
	WeeklyTotalReturnPercentage float64 `json:"weeklyTotalReturnPercentage"`
}

// Base returns the capital exposed during the period, the denominator for
// return-percentage calculations.
func (e *WeeklyEntry) Base() float64 {
	return e.InitialLiquidity + e.Contribution
}

// Harvested reports whether a fee harvest has already been recorded for
// this entry. One harvest per entry is enforced by the engine.
func (e *WeeklyEntry) Harvested() bool {
	return e.WeeklyFees != 0
}
