package adapter

import (
	"errors"
	"fmt"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   []Registration
)

// Register adds an adapter to the registry. Called by adapter
// implementations in their init() functions. Duplicate names are
// accepted here and rejected at resolution time, so a late registration
// cannot silently shadow an earlier one.
func Register(reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, reg)
}

// Registrations returns a snapshot of every registered adapter in
// registration order.
func Registrations() []Registration {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Registration, len(registry))
	copy(out, registry)
	return out
}

// DuplicateAdapterError is returned when two loaded registrations share
// a name.
type DuplicateAdapterError struct {
	Name string
}

func (e *DuplicateAdapterError) Error() string {
	return fmt.Sprintf("repeated adapter names found: %s", e.Name)
}

// Resolve builds the adapter set for a connection from the global
// registry. See ResolveRegistrations for the algorithm.
func Resolve(requested []string, safe bool) ([]Resolved, error) {
	return ResolveRegistrations(Registrations(), requested, safe)
}

// ResolveRegistrations builds an adapter set from an explicit
// registration list.
//
// Every registration is loaded; entries whose Load reports
// ErrUnavailable are skipped silently. A name occurring twice among the
// loaded entries fails resolution even when requested would not select
// it. When requested is nil the candidate set is every loaded entry;
// otherwise it is the ordered subset matching the requested names
// (unknown names are simply absent). In safe mode only entries declared
// safe survive, and a nil requested list yields an empty set: safety
// requires explicit opt-in per adapter.
func ResolveRegistrations(regs []Registration, requested []string, safe bool) ([]Resolved, error) {
	loaded, err := loadAll(regs)
	if err != nil {
		return nil, err
	}

	var candidates []Resolved
	if requested == nil {
		if !safe {
			candidates = loaded
		}
	} else {
		byName := make(map[string]Resolved, len(loaded))
		for _, r := range loaded {
			byName[r.Name] = r
		}
		for _, name := range requested {
			if r, ok := byName[name]; ok {
				candidates = append(candidates, r)
			}
		}
	}

	if !safe {
		return candidates, nil
	}
	out := make([]Resolved, 0, len(candidates))
	for _, r := range candidates {
		if r.Safe {
			out = append(out, r)
		}
	}
	return out, nil
}

func loadAll(regs []Registration) ([]Resolved, error) {
	seen := make(map[string]bool, len(regs))
	loaded := make([]Resolved, 0, len(regs))
	for _, reg := range regs {
		factory, err := reg.Load()
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				continue
			}
			return nil, fmt.Errorf("loading adapter %s: %w", reg.Name, err)
		}
		if seen[reg.Name] {
			return nil, &DuplicateAdapterError{Name: reg.Name}
		}
		seen[reg.Name] = true
		loaded = append(loaded, Resolved{
			Name:     reg.Name,
			Safe:     reg.Safe,
			Supports: reg.Supports,
			New:      factory,
		})
	}
	return loaded, nil
}
