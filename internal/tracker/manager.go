package tracker

import (
	"fmt"
	"sync"

	"PoolTracker/internal/calculator"
	"PoolTracker/internal/engine"
	"PoolTracker/internal/impexp"
	"PoolTracker/internal/model"
	"PoolTracker/internal/store"
)

// Data is the refreshed {entries, kpis} pair every mutation returns and
// the presentation layer renders from.
type Data struct {
	Entries []model.WeeklyEntry `json:"entries"`
	KPIs    model.PoolKPIs      `json:"kpis"`
}

// Manager ties the store, calculator and engine together. All operations
// are read-modify-write over the full ledger, serialized by a mutex.
type Manager struct {
	mu    sync.Mutex
	store *store.LedgerStore
}

// NewManager creates a Manager over the given ledger store.
func NewManager(s *store.LedgerStore) *Manager {
	return &Manager{store: s}
}

// Refresh reloads the ledger and recomputes the KPIs.
func (m *Manager) Refresh() Data {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data(m.store.Load())
}

// AddEntry derives a new weekly entry from the raw input, appends it and
// persists the ledger. A zero week number is computed from the date; the
// date itself must be a valid calendar date.
func (m *Manager) AddEntry(input model.EntryInput) (Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	week, err := calculator.WeekNumberOf(input.Date)
	if err != nil {
		return m.data(m.store.Load()), err
	}
	if input.WeekNumber == 0 {
		input.WeekNumber = week
	}

	entries := engine.SortChronological(m.store.Load())
	entry := calculator.Calculate(input, predecessorOf(entries, input))

	entries = engine.SortChronological(append(entries, entry))
	if entries[len(entries)-1].ID != entry.ID {
		// Backdated entry landed before existing ones: re-derive the chains.
		entries = engine.RebuildChain(entries)
	}
	m.store.Save(entries)
	return m.data(entries), nil
}

// Harvest records harvested fees against an existing entry and cascades
// the correction forward. Unknown ids and repeated harvests are returned
// as engine errors with the ledger unchanged.
func (m *Manager) Harvest(id string, harvestedFees float64) (Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.store.Load()
	corrected, err := engine.ApplyHarvest(entries, id, harvestedFees)
	if err != nil {
		return m.data(entries), err
	}
	m.store.Save(corrected)
	return m.data(corrected), nil
}

// DeleteEntry removes an entry. Unknown ids are a silent no-op.
func (m *Manager) DeleteEntry(id string) Data {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data(m.store.Remove(id))
}

// Harvestable lists the entries still eligible for a fee harvest.
func (m *Manager) Harvestable() []model.WeeklyEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	var eligible []model.WeeklyEntry
	for _, e := range m.store.Load() {
		if !e.Harvested() {
			eligible = append(eligible, e)
		}
	}
	return eligible
}

// Export serializes the current ledger into the snapshot format. Unlike
// store persistence, export failures are surfaced: the user asked for a
// file and must learn when there is none.
func (m *Manager) Export() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return impexp.Export(m.store.Load())
}

// Import validates a snapshot payload and merges (or replaces) the ledger.
// Validation happens on the whole payload before any mutation; persistence
// happens once at the end, so a failed import leaves the ledger untouched.
func (m *Manager) Import(payload []byte, replace bool) (Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	incoming, err := impexp.Parse(payload)
	if err != nil {
		return m.data(m.store.Load()), fmt.Errorf("import: %w", err)
	}
	merged := impexp.Merge(m.store.Load(), incoming, replace)
	m.store.Save(merged)
	return m.data(merged), nil
}

func (m *Manager) data(entries []model.WeeklyEntry) Data {
	return Data{Entries: entries, KPIs: engine.Aggregate(entries)}
}

// predecessorOf finds the entry the new input chains from: the latest
// existing entry sorting at or before the input's (date, weekNumber)
// position. Nil when the input predates the whole ledger, so an entry
// backfilled in front gets first-entry semantics instead of chaining
// from the old tail.
func predecessorOf(entries []model.WeeklyEntry, input model.EntryInput) *model.WeeklyEntry {
	var prev *model.WeeklyEntry
	for i := range entries {
		if entries[i].Date < input.Date ||
			(entries[i].Date == input.Date && entries[i].WeekNumber <= input.WeekNumber) {
			prev = &entries[i]
		}
	}
	return prev
}
