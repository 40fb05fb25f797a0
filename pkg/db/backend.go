package db

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/hurley/pkg/engine"
)

// BackendFactory opens an engine handle for a data-source locator
// (conventionally ":memory:" or a file path).
type BackendFactory func(path string, logger *slog.Logger) (engine.Engine, error)

var (
	backendMu sync.RWMutex
	backends  = make(map[string]BackendFactory)
)

// RegisterBackend adds an engine backend to the registry. Called by
// engine implementations in their init() functions; callers select one
// with a blank import, the same way database/sql drivers are wired.
func RegisterBackend(name string, factory BackendFactory) {
	backendMu.Lock()
	defer backendMu.Unlock()
	backends[name] = factory
}

// Backends returns all registered backend names (sorted).
func Backends() []string {
	backendMu.RLock()
	defer backendMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupBackend(name string) (BackendFactory, bool) {
	backendMu.RLock()
	defer backendMu.RUnlock()
	f, ok := backends[name]
	return f, ok
}
