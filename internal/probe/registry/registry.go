// Package registry implements the process-wide key registry for
// instrumented rwlocks.
//
// A key is minted once per (category, name) pair and never changes for the
// lifetime of the process. Key zero is reserved as the disabled sentinel:
// every code path in the probe treats a zero key as "instrumentation off".
//
// The registry is touched only at registration time (program or plugin
// startup), never on the lock/unlock hot path, so a plain mutex is enough.
package registry

import "sync"

// Key identifies one registered rwlock class.
//
// Keys are process-wide unique, assigned in registration order starting
// at 1. A zero Key always disables instrumentation.
type Key uint32

// KeyDisabled is the sentinel for uninstrumented locks.
const KeyDisabled Key = 0

// Registration flags.
const (
	// FlagSingleton marks a lock class with exactly one instance per
	// process (e.g. a global table lock). Advisory: retained with the
	// key's metadata, not interpreted by the probe itself.
	FlagSingleton uint32 = 1 << 0
)

// LockInfo describes one rwlock class to register.
//
// The descriptor is consumed once by Register: the minted key is written
// through the Key pointer and the descriptor is not retained afterward
// (its Name is copied into the registry's metadata).
type LockInfo struct {
	// Key receives the assigned key, or is left untouched (zero value
	// KeyDisabled) when the instrumentation facility is off.
	Key *Key

	// Name of the lock class within its category, e.g. "buffer_pool".
	Name string

	// Flags for the lock class, see FlagSingleton.
	Flags uint32

	// Volatility classifies how often instances are created/destroyed.
	// Advisory metadata for sinks; 0 means unknown.
	Volatility int

	// Documentation is a one-line description surfaced by sinks and
	// tooling. Advisory.
	Documentation string
}

// entry is the retained per-key metadata.
type entry struct {
	name          string // full "category/name"
	flags         uint32
	volatility    int
	documentation string
}

// Registry mints and resolves keys.
//
// Safe for concurrent use: Register may be called by independent package
// initializers racing at startup, lookups may run concurrently with
// registration.
type Registry struct {
	mu   sync.Mutex
	next Key
	keys map[string]Key // full name -> key
	meta map[Key]*entry // key -> metadata
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		keys: make(map[string]Key),
		meta: make(map[Key]*entry),
	}
}

// Register assigns a key to every descriptor in info.
//
// Duplicate policy is first-wins: a (category, name) pair that was already
// registered gets its existing key back, and the original metadata is kept.
// This keeps registration idempotent when several initializers register the
// same category, and guarantees a stable key per pair within a process run.
//
// Descriptors with a nil Key pointer or an empty Name are skipped.
func (r *Registry) Register(category string, info []LockInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range info {
		d := &info[i]
		if d.Key == nil || d.Name == "" {
			continue
		}
		full := category + "/" + d.Name
		if k, ok := r.keys[full]; ok {
			// First-wins: hand back the stable key, keep metadata.
			*d.Key = k
			continue
		}
		r.next++
		k := r.next
		r.keys[full] = k
		r.meta[k] = &entry{
			name:          full,
			flags:         d.Flags,
			volatility:    d.Volatility,
			documentation: d.Documentation,
		}
		*d.Key = k
	}
}

// LookupName resolves a key back to its full "category/name".
//
// Used when creating lock handles and by tooling; not on the wait path.
func (r *Registry) LookupName(k Key) (string, bool) {
	if k == KeyDisabled {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.meta[k]
	if !ok {
		return "", false
	}
	return e.name, true
}

// LookupKey resolves a (category, name) pair to its key, if registered.
func (r *Registry) LookupKey(category, name string) (Key, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[category+"/"+name]
	return k, ok
}

// Count reports how many keys have been minted.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}
