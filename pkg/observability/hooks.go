// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about layout computation, rendering,
// and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDiagramHooks(&myDiagramHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Diagram().OnLayoutStart(ctx, engine, nodeCount)
//	// ... compute layout ...
//	observability.Diagram().OnLayoutComplete(ctx, engine, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// DiagramHooks receives events from the layout and render pipeline.
type DiagramHooks interface {
	// Layout events
	OnLayoutStart(ctx context.Context, engine string, nodeCount int)
	OnLayoutComplete(ctx context.Context, engine string, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, backend string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, backend string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, backend string, size int)
}

// noopDiagramHooks is the default no-op implementation.
type noopDiagramHooks struct{}

func (noopDiagramHooks) OnLayoutStart(context.Context, string, int)                          {}
func (noopDiagramHooks) OnLayoutComplete(context.Context, string, time.Duration, error)      {}
func (noopDiagramHooks) OnRenderStart(context.Context, string)                               {}
func (noopDiagramHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// noopCacheHooks is the default no-op implementation.
type noopCacheHooks struct{}

func (noopCacheHooks) OnCacheHit(context.Context, string)      {}
func (noopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (noopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	mu           sync.RWMutex
	diagramHooks DiagramHooks = noopDiagramHooks{}
	cacheHooks   CacheHooks   = noopCacheHooks{}
)

// SetDiagramHooks registers hooks for layout and render events.
// Pass nil to restore the no-op default.
func SetDiagramHooks(h DiagramHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		diagramHooks = noopDiagramHooks{}
		return
	}
	diagramHooks = h
}

// SetCacheHooks registers hooks for cache events.
// Pass nil to restore the no-op default.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		cacheHooks = noopCacheHooks{}
		return
	}
	cacheHooks = h
}

// Diagram returns the registered diagram hooks.
func Diagram() DiagramHooks {
	mu.RLock()
	defer mu.RUnlock()
	return diagramHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}
