package store

// KV is the durable key-value persistence collaborator. The whole ledger
// is stored as one serialized JSON value under a single configured key.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	// Put overwrites the value for key.
	Put(key string, value []byte) error
	Close() error
}
