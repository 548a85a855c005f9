package trace

import (
	"runtime"
	"sync"
	"weak"
)

// WeakMap associates values with pointer keys without keeping the keys
// alive. When a key becomes unreachable its entry is evicted by a runtime
// cleanup. Values must not reference their own key, or the key can never
// be collected.
type WeakMap[K, V any] struct {
	mu sync.Mutex
	m  map[weak.Pointer[K]]V
}

// NewWeakMap creates an empty WeakMap.
func NewWeakMap[K, V any]() *WeakMap[K, V] {
	return &WeakMap[K, V]{m: make(map[weak.Pointer[K]]V)}
}

// Get returns the value stored for key.
func (w *WeakMap[K, V]) Get(key *K) (V, bool) {
	var zero V
	if key == nil {
		return zero, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.m[weak.Make(key)]
	return v, ok
}

// Has reports whether key has an entry.
func (w *WeakMap[K, V]) Has(key *K) bool {
	_, ok := w.Get(key)
	return ok
}

// Set stores value for key, replacing any previous value.
func (w *WeakMap[K, V]) Set(key *K, value V) {
	if key == nil {
		return
	}
	wp := weak.Make(key)

	w.mu.Lock()
	_, existed := w.m[wp]
	w.m[wp] = value
	w.mu.Unlock()

	if !existed {
		runtime.AddCleanup(key, w.evict, wp)
	}
}

// Delete removes key's entry and reports whether one existed.
func (w *WeakMap[K, V]) Delete(key *K) bool {
	if key == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	wp := weak.Make(key)
	_, ok := w.m[wp]
	delete(w.m, wp)
	return ok
}

// Len returns the number of live entries.
func (w *WeakMap[K, V]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.m)
}

// evict runs on the cleanup goroutine after a key has been collected.
func (w *WeakMap[K, V]) evict(wp weak.Pointer[K]) {
	w.mu.Lock()
	delete(w.m, wp)
	w.mu.Unlock()
}
