// Package impexp packages the ledger into the versioned snapshot file
// format and validates snapshots supplied by the user.
package impexp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"PoolTracker/internal/engine"
	"PoolTracker/internal/model"
)

// ErrInvalidFormat flags a snapshot payload that is structurally unusable:
// not a JSON object, or missing version/exportDate/entries. Individual bad
// entries never trigger it; they are dropped instead.
var ErrInvalidFormat = errors.New("invalid snapshot format")

// numericFields are the per-entry fields that must be present, numeric and
// finite for an imported entry to be accepted.
var numericFields = []string{
	"currentLiquidity",
	"cumulativeFees",
	"contribution",
	"initialLiquidity",
	"weeklyFees",
	"priceVariation",
	"weeklyNetResult",
	"weeklyFeeReturnPercentage",
	"weeklyTotalReturnPercentage",
}

// Export serializes the ledger into the v1.0 snapshot format, pretty
// printed for hand inspection.
func Export(entries []model.WeeklyEntry) ([]byte, error) {
	snap := model.Snapshot{
		Version:    model.SnapshotVersion,
		ExportDate: time.Now().Format(time.RFC3339),
		Entries:    entries,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Parse decodes and validates a snapshot payload and returns the accepted
// entries in their given order. Malformed individual entries are dropped
// with a warning; a malformed payload fails the whole import.
func Parse(data []byte) ([]model.WeeklyEntry, error) {
	var raw struct {
		Version    string            `json:"version"`
		ExportDate string            `json:"exportDate"`
		Entries    []json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if raw.Version == "" || raw.ExportDate == "" || raw.Entries == nil {
		return nil, fmt.Errorf("%w: version, exportDate and entries are required", ErrInvalidFormat)
	}

	entries := make([]model.WeeklyEntry, 0, len(raw.Entries))
	for i, rawEntry := range raw.Entries {
		entry, ok := parseEntry(rawEntry)
		if !ok {
			log.Printf("[WARN] import: dropping malformed entry at index %d", i)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseEntry validates one candidate entry. Acceptance requires a
// non-empty id and date, a numeric weekNumber, and every numeric field
// present and finite.
func parseEntry(raw json.RawMessage) (model.WeeklyEntry, bool) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.WeeklyEntry{}, false
	}

	if s, ok := fields["id"].(string); !ok || s == "" {
		return model.WeeklyEntry{}, false
	}
	if s, ok := fields["date"].(string); !ok || s == "" {
		return model.WeeklyEntry{}, false
	}
	if !isFiniteNumber(fields["weekNumber"]) {
		return model.WeeklyEntry{}, false
	}
	for _, name := range numericFields {
		if !isFiniteNumber(fields[name]) {
			return model.WeeklyEntry{}, false
		}
	}

	// weekNumber is decoded separately: validation only requires a finite
	// number, so a fractional value is truncated rather than rejected.
	var decoded struct {
		model.WeeklyEntry
		WeekNumber float64 `json:"weekNumber"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return model.WeeklyEntry{}, false
	}
	entry := decoded.WeeklyEntry
	entry.WeekNumber = int(decoded.WeekNumber)
	return entry, true
}

func isFiniteNumber(v any) bool {
	f, ok := v.(float64)
	return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Merge combines validated incoming entries with the existing ledger.
//
// Replace mode adopts the incoming entries verbatim, in their given order.
// Merge mode keeps the existing ledger, adds incoming entries whose id is
// not already present, restores chronological order, and re-derives the
// liquidity and cumulative-fee chains across the merged sequence.
func Merge(existing, incoming []model.WeeklyEntry, replace bool) []model.WeeklyEntry {
	if replace {
		return incoming
	}

	seen := make(map[string]bool, len(existing))
	merged := make([]model.WeeklyEntry, 0, len(existing)+len(incoming))
	for _, e := range existing {
		seen[e.ID] = true
		merged = append(merged, e)
	}
	for _, e := range incoming {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		merged = append(merged, e)
	}

	return engine.RebuildChain(engine.SortChronological(merged))
}
