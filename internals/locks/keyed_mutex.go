package locks

import (
	"context"
	"sync"
	"time"
)

// KeyedMutex is the in-process Guard: one mutex per live key, dropped
// from the table once nobody holds or waits on it.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
	wait    time.Duration
}

type entry struct {
	ch   chan struct{} // capacity 1, token = lock
	refs int
}

func NewKeyedMutex(wait time.Duration) *KeyedMutex {
	if wait <= 0 {
		wait = 30 * time.Second
	}
	return &KeyedMutex{
		entries: make(map[string]*entry),
		wait:    wait,
	}
}

func (k *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		e.ch <- struct{}{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	timer := time.NewTimer(k.wait)
	defer timer.Stop()

	select {
	case <-e.ch:
		return func() { k.release(key, e) }, nil
	case <-ctx.Done():
		k.unref(key, e)
		return nil, ErrBusy
	case <-timer.C:
		k.unref(key, e)
		return nil, ErrBusy
	}
}

func (k *KeyedMutex) release(key string, e *entry) {
	e.ch <- struct{}{}
	k.unref(key, e)
}

func (k *KeyedMutex) unref(key string, e *entry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()
}
