// Package watch provides observable values that notify subscribers on change.
//
// Subscribers are never called with a lock held, so they may read or write
// any value, including the one that notified them. Changes are delivered in
// the order they were made; a change made from inside a subscriber is
// delivered once the current delivery round has finished.
package watch

import "sync"

// Readable is the subscriber side of a Value.
type Readable[T any] interface {
	Get() T
	// Subscribe calls fn with the current value and after every change.
	// The returned func removes the subscription.
	Subscribe(fn func(T)) (cancel func())
}

type Value[T any] struct {
	mu          sync.RWMutex
	value       T
	nextID      int
	subs        map[int]func(T)
	queue       []T
	dispatching bool
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{value: initial, subs: make(map[int]func(T))}
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

func (v *Value[T]) Set(value T) {
	v.Update(func(T) (T, bool) { return value, true })
}

// Update replaces the value with the result of fn, which runs under the write
// lock so read-modify-write cycles are atomic. Subscribers are notified only
// when fn reports a change. fn must not touch v.
func (v *Value[T]) Update(fn func(T) (T, bool)) {
	v.mu.Lock()
	next, changed := fn(v.value)
	if !changed {
		v.mu.Unlock()
		return
	}
	v.value = next
	v.queue = append(v.queue, next)
	if v.dispatching {
		v.mu.Unlock()
		return
	}
	v.dispatching = true
	v.mu.Unlock()

	v.dispatch()
}

// dispatch drains the queue. Only one goroutine dispatches at a time.
func (v *Value[T]) dispatch() {
	for {
		v.mu.Lock()
		if len(v.queue) == 0 {
			v.dispatching = false
			v.mu.Unlock()
			return
		}
		value := v.queue[0]
		var zero T
		v.queue[0] = zero
		v.queue = v.queue[1:]
		subs := v.snapshot()
		v.mu.Unlock()

		for _, fn := range subs {
			fn(value)
		}
	}
}

func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	current := v.value
	v.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

func (v *Value[T]) snapshot() []func(T) {
	subs := make([]func(T), 0, len(v.subs))
	for id := 0; id < v.nextID; id++ {
		if fn, ok := v.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

type derived[S, T any] struct {
	src Readable[S]
	fn  func(S) T
}

// Derive returns a read-only view of src mapped through fn. Get always
// reflects the latest value of src; subscribers are notified on every change
// of src.
func Derive[S, T any](src Readable[S], fn func(S) T) Readable[T] {
	return &derived[S, T]{src: src, fn: fn}
}

func (d *derived[S, T]) Get() T {
	return d.fn(d.src.Get())
}

func (d *derived[S, T]) Subscribe(fn func(T)) func() {
	return d.src.Subscribe(func(s S) { fn(d.fn(s)) })
}
