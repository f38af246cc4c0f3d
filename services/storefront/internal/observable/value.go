// Package observable holds state containers that notify subscribers on
// every write. Values are replaced wholesale; the last write wins.
package observable

import "sync"

// Value is a concurrency-safe observable cell
type Value[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   map[int]func(T)
}

// New returns a Value holding initial
func New[T any](initial T) *Value[T] {
	return &Value[T]{value: initial, subs: make(map[int]func(T))}
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set replaces the value and notifies subscribers
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	v.value = value
	subs := v.snapshot()
	v.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

// Update applies fn to the current value under the lock, stores the result
// and notifies subscribers with it
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	v.value = fn(v.value)
	value := v.value
	subs := v.snapshot()
	v.mu.Unlock()

	for _, sub := range subs {
		sub(value)
	}
	return value
}

// Subscribe registers fn for future writes. The returned func removes it.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

// snapshot must be called with mu held. Subscribers run in registration order.
func (v *Value[T]) snapshot() []func(T) {
	subs := make([]func(T), 0, len(v.subs))
	for id := 0; id < v.nextID; id++ {
		if fn, ok := v.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}
