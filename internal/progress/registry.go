package progress

import (
	"sort"
	"sync"
)

// Registry holds per-stream state keyed by stream identity, typically the
// filename of a download. Values are created on first use.
type Registry[T any] struct {
	mu      sync.Mutex
	streams map[string]T
	create  func(key string) T
}

// NewRegistry creates an empty registry; create builds the state of a new key.
func NewRegistry[T any](create func(key string) T) *Registry[T] {
	return &Registry[T]{
		streams: make(map[string]T),
		create:  create,
	}
}

// Get returns the state for key, creating it if needed. The boolean is true
// when the state was just created.
func (r *Registry[T]) Get(key string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.streams[key]; ok {
		return v, false
	}
	v := r.create(key)
	r.streams[key] = v
	return v, true
}

// Delete forgets key.
func (r *Registry[T]) Delete(key string) {
	r.mu.Lock()
	delete(r.streams, key)
	r.mu.Unlock()
}

// Len returns the number of live streams.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.streams)
}

// Keys returns the live stream keys in sorted order.
func (r *Registry[T]) Keys() []string {
	r.mu.Lock()
	keys := make([]string, 0, len(r.streams))
	for k := range r.streams {
		keys = append(keys, k)
	}
	r.mu.Unlock()

	sort.Strings(keys)
	return keys
}
