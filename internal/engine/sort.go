package engine

import (
	"sort"

	"PoolTracker/internal/model"
)

// SortChronological orders entries by date, then week number. The sort is
// stable, so entries sharing a date keep their insertion order, and a
// ledger appended in date order comes back unchanged. Every mutation path
// runs through this so that chronological order is an explicit property
// of the ledger rather than an accident of array position.
func SortChronological(entries []model.WeeklyEntry) []model.WeeklyEntry {
	out := make([]model.WeeklyEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].WeekNumber < out[j].WeekNumber
	})
	return out
}
