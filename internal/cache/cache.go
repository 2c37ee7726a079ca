package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Store defines the interface for the batch-scoped content store. Values
// live for the lifetime of one batch and are never persisted; every new
// analysis must re-fetch fresh content.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Clear()
}

// Key generates a store key from a URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "veracity:v1:" + hex.EncodeToString(hash[:])
}
