package converter

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
)

// pairKey identifies one registered conversion capability.
type pairKey struct {
	source kind.FileKind
	target kind.FileKind
}

// Registry maps (source kind, target kind) pairs to converters. It is
// populated once during startup, then frozen; after Freeze, Register fails
// with ErrRegistryFrozen and the table is read-only for the remainder of the
// process lifetime, so concurrent lookups during batch execution contend only
// on a read lock. Registering a duplicate pair before the freeze overwrites
// the earlier entry (last registration wins; logged, never silently
// ambiguous).
type Registry struct {
	mu      sync.RWMutex
	frozen  bool
	entries map[pairKey]Converter
	logger  *slog.Logger
}

// NewRegistry creates an empty, unfrozen registry. loggerHandler may be nil.
func NewRegistry(loggerHandler slog.Handler) *Registry {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &Registry{
		entries: make(map[pairKey]Converter),
		logger:  slog.New(loggerHandler).With(slog.String("component", "registry")),
	}
}

// Register inserts (or overwrites) the entry for c's declared pair.
func (r *Registry) Register(c Converter) error {
	source, target := c.Pair()
	key := pairKey{source: source, target: target}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("%w: cannot register %s -> %s", ErrRegistryFrozen, source, target)
	}
	if _, exists := r.entries[key]; exists {
		r.logger.Debug("Overwriting duplicate converter registration",
			slog.String("source", string(source)), slog.String("target", string(target)))
	}
	r.entries[key] = c
	return nil
}

// Freeze ends the initialization phase. Idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Lookup returns the converter for the pair, or false when none is
// registered. Safe for concurrent use.
func (r *Registry) Lookup(source, target kind.FileKind) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[pairKey{source: source, target: target}]
	return c, ok
}

// Pairs returns every registered (source, target) pair, for diagnostics.
func (r *Registry) Pairs() [][2]kind.FileKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pairs := make([][2]kind.FileKind, 0, len(r.entries))
	for key := range r.entries {
		pairs = append(pairs, [2]kind.FileKind{key.source, key.target})
	}
	return pairs
}
