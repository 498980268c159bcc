// Package kv defines the key-value storage the host hands to the contract:
// plain get/set/remove semantics plus a staging overlay so a call's writes
// commit together or not at all.
package kv

// Op is a single buffered write. Remove true means the key is deleted.
type Op struct {
	Key    string
	Value  []byte
	Remove bool
}

// Store is the persistence surface the contract runs against.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Batcher is implemented by stores that can apply a group of writes as one
// unit. Staged.Commit prefers this path when the base store offers it.
type Batcher interface {
	ApplyBatch(ops []Op) error
}
