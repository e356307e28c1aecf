// Where: internal/dsl/registry.go
// What: Key-value registry with lazy reads.
// Why: Hold explicit overrides and deferred producers for one command invocation.
package dsl

import "sort"

// Registry maps keys to values. At most one entry exists per key; the last
// write wins.
type Registry struct {
	entries map[Key]Value
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Key]Value)}
}

// Register stores value for key, silently replacing any previous entry.
func (r *Registry) Register(key Key, value Value) {
	if value == nil {
		value = Literal(nil)
	}
	r.entries[key] = value
}

// Set is shorthand for Register(key, Literal(v)).
func (r *Registry) Set(key Key, v any) {
	r.Register(key, Literal(v))
}

// Fetch returns the resolved value for key, or nil when missing. Deferred
// producers run once per call.
func (r *Registry) Fetch(key Key) any {
	value, ok := r.entries[key]
	if !ok {
		return nil
	}
	return value.Resolve()
}

// Has reports whether key has an entry, regardless of its value.
func (r *Registry) Has(key Key) bool {
	_, ok := r.entries[key]
	return ok
}

// Entry returns the stored value without resolving it.
func (r *Registry) Entry(key Key) (Value, bool) {
	value, ok := r.entries[key]
	return value, ok
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Resolved returns every entry forced to its current value.
func (r *Registry) Resolved() map[string]any {
	out := make(map[string]any, len(r.entries))
	for key, value := range r.entries {
		out[string(key)] = value.Resolve()
	}
	return out
}
