package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"PoolTracker/internal/model"
)

// usd renders a dollar amount with thousands separators, e.g. $12,345.67.
func usd(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 2)
	}
	return "$" + humanize.CommafWithDigits(v, 2)
}

// FormatKPIReport formats the portfolio summary into a Telegram message.
func FormatKPIReport(kpis model.PoolKPIs, entryCount int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("💧 <b>Pool Tracker Summary</b> | %s\n\n", time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Total Liquidity: %s\n", usd(kpis.TotalLiquidity)))
	b.WriteString(fmt.Sprintf("Total Invested: %s\n", usd(kpis.TotalInvested)))
	b.WriteString(fmt.Sprintf("Fees Generated: %s\n", usd(kpis.TotalFeesGenerated)))
	b.WriteString(fmt.Sprintf("Net Result: %s (ROI %+.2f%%)\n", usd(kpis.NetResult), kpis.OverallROI))
	b.WriteString(fmt.Sprintf("\nRecorded weeks: %d\n", entryCount))
	// Net result here is a linear delta of contributions and fees, not an
	// AMM divergence-loss figure.
	b.WriteString("<i>Net result excludes price divergence (not tracked).</i>\n")

	return b.String()
}

// FormatRecentEntries formats the most recent ledger rows, newest last.
func FormatRecentEntries(entries []model.WeeklyEntry, limit int) string {
	if len(entries) == 0 {
		return "No weekly records yet. Use the web UI or API to add one."
	}
	start := len(entries) - limit
	if start < 0 {
		start = 0
	}

	var b strings.Builder
	b.WriteString("📒 <b>Recent Weeks</b>\n\n")
	for _, e := range entries[start:] {
		marker := "·"
		if e.Harvested() {
			marker = "✓"
		}
		b.WriteString(fmt.Sprintf("%s W%d %s | liq %s | fees %s | %+.2f%%\n",
			marker, e.WeekNumber, e.Date, usd(e.CurrentLiquidity), usd(e.WeeklyFees), e.WeeklyTotalReturnPercentage))
	}
	return b.String()
}

// FormatHarvest formats a harvest confirmation.
func FormatHarvest(e model.WeeklyEntry) string {
	return fmt.Sprintf("🌾 <b>Harvest recorded</b>\n\nWeek %d (%s)\nFees: %s\nLiquidity: %s\nReturn: %+.2f%%",
		e.WeekNumber, e.Date, usd(e.WeeklyFees), usd(e.CurrentLiquidity), e.WeeklyFeeReturnPercentage)
}

// FormatReminder formats the weekly record reminder.
func FormatReminder(week int) string {
	return fmt.Sprintf("⏰ <b>Weekly reminder</b>\n\nWeek %d has started. Record last week's pool liquidity and any contribution.", week)
}

// FormatBackupResult formats the outcome of a scheduled snapshot backup.
func FormatBackupResult(path string, err error) string {
	if err != nil {
		return fmt.Sprintf("❌ Scheduled backup failed: %v", err)
	}
	return fmt.Sprintf("💾 Ledger snapshot saved to <code>%s</code>", path)
}
