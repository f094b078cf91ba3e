// Package orderlock provides a keyed mutex that serializes all mutating
// operations for a single order: allocation, stage updates, cancellation,
// and fallback must never run concurrently for the same order id.
package orderlock

import "sync"

// KeyedMutex holds one mutex per key. Mutexes are created on first use and
// kept for the lifetime of the process; the set of in-flight order ids is
// small relative to memory, so entries are not evicted.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, blocking until it is free.
// The returned function releases it.
//
// Example:
//
//	unlock := locks.Lock(orderID.String())
//	defer unlock()
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
