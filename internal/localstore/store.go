// Package localstore persists small named state snapshots (the bearer
// credential, the serialized cart) across process restarts. Snapshots are
// whole-value writes: last writer wins, no merging.
package localstore

// Store reads and writes named byte snapshots.
type Store interface {
	// Get returns the snapshot for key. The second return is false when no
	// snapshot exists, which is not an error.
	Get(key string) ([]byte, bool, error)

	// Set replaces the snapshot for key with value.
	Set(key string, value []byte) error

	// Delete removes the snapshot for key. Deleting an absent key is a no-op.
	Delete(key string) error
}

// Well-known snapshot keys.
const (
	KeyToken = "token"
	KeyCart  = "cart"
)
