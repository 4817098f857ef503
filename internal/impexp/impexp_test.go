package impexp

import (
	"errors"
	"reflect"
	"testing"

	"PoolTracker/internal/model"
)

func wellFormedEntry(id, date string, week int) model.WeeklyEntry {
	return model.WeeklyEntry{
		ID: id, Date: date, WeekNumber: week,
		CurrentLiquidity: 1000, Contribution: 1000,
	}
}

func TestExportParse_RoundTrip(t *testing.T) {
	ledger := []model.WeeklyEntry{
		wellFormedEntry("w1", "2025-01-06", 2),
		{
			ID: "w2", Date: "2025-01-13", WeekNumber: 3,
			InitialLiquidity: 1000, Contribution: 500, CurrentLiquidity: 1550,
			WeeklyFees: 50, CumulativeFees: 50, WeeklyNetResult: 50,
			WeeklyFeeReturnPercentage: 3.3333333333, WeeklyTotalReturnPercentage: 3.3333333333,
		},
	}
	data, err := Export(ledger)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(parsed, ledger) {
		t.Errorf("round trip diverged:\n got %+v\nwant %+v", parsed, ledger)
	}
}

func TestParse_RejectsMalformedPayloads(t *testing.T) {
	payloads := []struct {
		name string
		data string
	}{
		{"not json", "not json at all"},
		{"not an object", `[1,2,3]`},
		{"missing version", `{"exportDate":"2025-08-31T00:00:00Z","entries":[]}`},
		{"missing exportDate", `{"version":"1.0","entries":[]}`},
		{"missing entries", `{"version":"1.0","exportDate":"2025-08-31T00:00:00Z"}`},
		{"entries not an array", `{"version":"1.0","exportDate":"2025-08-31T00:00:00Z","entries":{}}`},
	}
	for _, tt := range payloads {
		if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("%s: expected ErrInvalidFormat, got %v", tt.name, err)
		}
	}
}

func TestParse_EmptyEntriesOK(t *testing.T) {
	parsed, err := Parse([]byte(`{"version":"1.0","exportDate":"2025-08-31T00:00:00Z","entries":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed) != 0 {
		t.Errorf("expected no entries, got %d", len(parsed))
	}
}

func TestParse_DropsMalformedEntries(t *testing.T) {
	data := `{
		"version": "1.0",
		"exportDate": "2025-08-31T00:00:00Z",
		"entries": [
			{
				"id": "good", "date": "2025-01-06", "weekNumber": 2,
				"currentLiquidity": 1000, "cumulativeFees": 0, "contribution": 1000,
				"initialLiquidity": 0, "weeklyFees": 0, "priceVariation": 0,
				"weeklyNetResult": 0, "weeklyFeeReturnPercentage": 0, "weeklyTotalReturnPercentage": 0
			},
			{
				"id": "missing-weekly-fees", "date": "2025-01-13", "weekNumber": 3,
				"currentLiquidity": 1500, "cumulativeFees": 0, "contribution": 500,
				"initialLiquidity": 1000, "priceVariation": 0,
				"weeklyNetResult": 0, "weeklyFeeReturnPercentage": 0, "weeklyTotalReturnPercentage": 0
			},
			{
				"id": "", "date": "2025-01-20", "weekNumber": 4,
				"currentLiquidity": 0, "cumulativeFees": 0, "contribution": 0,
				"initialLiquidity": 0, "weeklyFees": 0, "priceVariation": 0,
				"weeklyNetResult": 0, "weeklyFeeReturnPercentage": 0, "weeklyTotalReturnPercentage": 0
			},
			{
				"id": "string-number", "date": "2025-01-27", "weekNumber": 5,
				"currentLiquidity": "1000", "cumulativeFees": 0, "contribution": 0,
				"initialLiquidity": 0, "weeklyFees": 0, "priceVariation": 0,
				"weeklyNetResult": 0, "weeklyFeeReturnPercentage": 0, "weeklyTotalReturnPercentage": 0
			},
			"not even an object"
		]
	}`
	parsed, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed) != 1 || parsed[0].ID != "good" {
		t.Fatalf("expected only the well-formed entry, got %+v", parsed)
	}
}

func TestParse_TruncatesFractionalWeekNumber(t *testing.T) {
	data := `{
		"version": "1.0",
		"exportDate": "2025-08-31T00:00:00Z",
		"entries": [
			{
				"id": "w1", "date": "2025-01-06", "weekNumber": 2.5,
				"currentLiquidity": 1000, "cumulativeFees": 0, "contribution": 1000,
				"initialLiquidity": 0, "weeklyFees": 0, "priceVariation": 0,
				"weeklyNetResult": 0, "weeklyFeeReturnPercentage": 0, "weeklyTotalReturnPercentage": 0
			}
		]
	}`
	parsed, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("fractional week number must not drop the entry, got %d entries", len(parsed))
	}
	if parsed[0].WeekNumber != 2 {
		t.Errorf("expected truncated week number 2, got %d", parsed[0].WeekNumber)
	}
}

func TestParse_IgnoresUnknownTopLevelFields(t *testing.T) {
	data := `{"version":"1.0","exportDate":"2025-08-31T00:00:00Z","entries":[],"appVersion":"9.9","extra":{"a":1}}`
	if _, err := Parse([]byte(data)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMerge_Replace(t *testing.T) {
	existing := []model.WeeklyEntry{wellFormedEntry("old", "2025-01-06", 2)}
	incoming := []model.WeeklyEntry{
		wellFormedEntry("b", "2025-02-10", 7),
		wellFormedEntry("a", "2025-01-13", 3),
	}
	out := Merge(existing, incoming, true)
	// Verbatim: incoming order preserved, existing discarded.
	if len(out) != 2 || out[0].ID != "b" || out[1].ID != "a" {
		t.Errorf("replace mode: got %+v", out)
	}
}

func TestMerge_DedupesAndSorts(t *testing.T) {
	existing := []model.WeeklyEntry{
		wellFormedEntry("w1", "2025-01-06", 2),
		wellFormedEntry("w3", "2025-01-20", 4),
	}
	incoming := []model.WeeklyEntry{
		wellFormedEntry("w1", "2025-01-06", 2), // duplicate id, skipped
		wellFormedEntry("w2", "2025-01-13", 3), // interleaves
	}
	out := Merge(existing, incoming, false)
	if len(out) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out))
	}
	for i, id := range []string{"w1", "w2", "w3"} {
		if out[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, out[i].ID)
		}
	}
	// Chain was re-derived across the merged sequence.
	if out[1].InitialLiquidity != out[0].CurrentLiquidity {
		t.Errorf("merged entry not rechained: initial %.2f, prior current %.2f",
			out[1].InitialLiquidity, out[0].CurrentLiquidity)
	}
	if out[2].InitialLiquidity != out[1].CurrentLiquidity {
		t.Errorf("trailing entry not rechained: initial %.2f, prior current %.2f",
			out[2].InitialLiquidity, out[1].CurrentLiquidity)
	}
}

func TestMerge_EmptyIncoming(t *testing.T) {
	existing := []model.WeeklyEntry{
		wellFormedEntry("w1", "2025-01-06", 2),
	}
	out := Merge(existing, nil, false)
	if len(out) != 1 || out[0].ID != "w1" {
		t.Errorf("expected existing ledger unchanged, got %+v", out)
	}
}
