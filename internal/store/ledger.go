package store

import (
	"encoding/json"
	"log"

	"PoolTracker/internal/model"
)

// DefaultKey is the storage key the original data lived under; kept as the
// default so existing databases keep working.
const DefaultKey = "liquidity-pool-data"

// LedgerStore persists the whole ledger as one JSON array value under a
// fixed key. Every operation is a read-modify-write over the entire
// collection. Persistence failures are logged and degrade: loads return an
// empty ledger, saves become no-ops. Callers needing a hard failure signal
// (exports) go through the service layer instead.
type LedgerStore struct {
	kv  KV
	key string
}

// NewLedgerStore wraps a KV backend with a storage key. An empty key falls
// back to DefaultKey.
func NewLedgerStore(kv KV, key string) *LedgerStore {
	if key == "" {
		key = DefaultKey
	}
	return &LedgerStore{kv: kv, key: key}
}

// Load returns the persisted ledger, or an empty ledger when the key is
// absent or the stored value is unreadable.
func (s *LedgerStore) Load() []model.WeeklyEntry {
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		log.Printf("[WARN] load ledger: %v", err)
		return []model.WeeklyEntry{}
	}
	if !ok {
		return []model.WeeklyEntry{}
	}
	var entries []model.WeeklyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("[WARN] load ledger: corrupt value under %q: %v", s.key, err)
		return []model.WeeklyEntry{}
	}
	if entries == nil {
		entries = []model.WeeklyEntry{}
	}
	return entries
}

// Save overwrites the persisted ledger. Failures are logged, not returned.
func (s *LedgerStore) Save(entries []model.WeeklyEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		log.Printf("[ERROR] save ledger: marshal: %v", err)
		return
	}
	if err := s.kv.Put(s.key, data); err != nil {
		log.Printf("[ERROR] save ledger: %v", err)
	}
}

// Append adds an entry at the end and persists the result.
func (s *LedgerStore) Append(entry model.WeeklyEntry) []model.WeeklyEntry {
	entries := append(s.Load(), entry)
	s.Save(entries)
	return entries
}

// Update replaces the entry with the given id. Unknown ids are a silent
// no-op; the unchanged ledger is the caller's signal.
func (s *LedgerStore) Update(id string, entry model.WeeklyEntry) []model.WeeklyEntry {
	entries := s.Load()
	for i := range entries {
		if entries[i].ID == id {
			entries[i] = entry
			s.Save(entries)
			break
		}
	}
	return entries
}

// Remove deletes the entry with the given id. Unknown ids are a silent
// no-op.
func (s *LedgerStore) Remove(id string) []model.WeeklyEntry {
	entries := s.Load()
	for i := range entries {
		if entries[i].ID == id {
			entries = append(entries[:i], entries[i+1:]...)
			s.Save(entries)
			break
		}
	}
	return entries
}
