// Package cache provides a content-addressed cache for rendered artifacts.
//
// Rendered diagrams are pure functions of their inputs, so cache keys are
// derived by hashing the tree bytes together with the render options. Three
// backends are provided:
//
//   - FileCache: filesystem-backed, for CLI usage
//   - MemoryCache: in-process, for tests and the preview server
//   - RedisCache: shared cache for multi-instance server deployments
//
// NullCache disables caching without changing call sites.
package cache

import (
	"context"
	"time"
)

// Cache is the interface all backends implement.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKey derives the cache key for a rendered artifact from the tree
// content hash and the options that influence the output bytes.
func ArtifactKey(treeHash, engine, format string, showDigests bool) string {
	return hashKey("artifact", treeHash, engine, format, showDigests)
}

// TreeKey derives the cache key for an uploaded tree stored by ID.
func TreeKey(id string) string {
	return "tree:" + id
}
