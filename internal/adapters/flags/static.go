// Package flags provides feature flag adapters.
package flags

import (
	"context"
	"maps"
	"sync"
)

// Static serves flags from configuration. Set overrides a value at runtime.
type Static struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewStatic copies values so later changes to the map have no effect.
func NewStatic(values map[string]bool) *Static {
	return &Static{flags: maps.Clone(values)}
}

// IsEnabled implements ports.FeatureFlags. Unknown flags return defaultValue.
func (s *Static) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if enabled, ok := s.flags[flag]; ok {
		return enabled
	}

	return defaultValue
}

// Set overrides a single flag.
func (s *Static) Set(flag string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flags == nil {
		s.flags = make(map[string]bool)
	}

	s.flags[flag] = enabled
}
