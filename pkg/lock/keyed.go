// Package lock serializes conflicting writes per key. Upserts racing on
// the same natural key go through a Locker so at most one of them sees
// "not found"; the storage-layer unique index remains the backstop.
package lock

import (
	"context"
	"sync"
)

// Locker grants exclusive access to a key. Acquire blocks until the key is
// free or the context is done; the returned function releases the key.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// KeyedMutex is a process-local Locker: one mutex per active key,
// reclaimed when the last waiter releases.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*keyEntry
}

type keyEntry struct {
	ch   chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		entries: make(map[string]*keyEntry),
	}
}

func (m *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	entry, ok := m.entries[key]
	if !ok {
		entry = &keyEntry{ch: make(chan struct{}, 1)}
		m.entries[key] = entry
	}
	entry.refs++
	m.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
		return func() { m.release(key, entry) }, nil
	case <-ctx.Done():
		m.decref(key, entry)
		return nil, ctx.Err()
	}
}

func (m *KeyedMutex) release(key string, entry *keyEntry) {
	<-entry.ch
	m.decref(key, entry)
}

func (m *KeyedMutex) decref(key string, entry *keyEntry) {
	m.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(m.entries, key)
	}
	m.mu.Unlock()
}
