package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// item is a cached value together with its key and deadline.
type item[V any] struct {
	deadline time.Time // zero = never expires
	value    V
	key      string
}

func (it *item[V]) expired(now time.Time) bool {
	return !it.deadline.IsZero() && now.After(it.deadline)
}

// Memory is a process-local cache with TTL expiration and optional LRU bound.
// Recently used entries sit at the front of the list.
type Memory[V any] struct {
	index  map[string]*list.Element
	lru    *list.List
	opts   memoryOptions
	stop   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewMemory creates a new in-memory cache.
//
// Example:
//
//	codes := cache.NewMemory[string](
//	    cache.WithDefaultTTL(time.Minute),
//	    cache.WithMaxEntries(10000),
//	)
//	defer codes.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := memoryOptions{
		defaultTTL:      defaultTTL,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Memory[V]{
		index: make(map[string]*list.Element),
		lru:   list.New(),
		opts:  o,
		stop:  make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Get retrieves a value by key and marks it as recently used.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	el, ok := m.lookup(key)
	if !ok {
		return zero, ErrNotFound
	}
	m.lru.MoveToFront(el)
	return el.Value.(*item[V]).value, nil
}

// Set stores a value with the given TTL.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	var deadline time.Time
	if ttl > 0 {
		deadline = time.Now().Add(ttl)
	}

	if el, ok := m.index[key]; ok {
		it := el.Value.(*item[V])
		it.value = value
		it.deadline = deadline
		m.lru.MoveToFront(el)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.index) >= m.opts.maxEntries {
		if oldest := m.lru.Back(); oldest != nil {
			m.remove(oldest)
		}
	}

	m.index[key] = m.lru.PushFront(&item[V]{key: key, value: value, deadline: deadline})
	return nil
}

// Delete removes a key from the cache.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if el, ok := m.index[key]; ok {
		m.remove(el)
	}
	return nil
}

// Take retrieves and removes a value under a single lock.
func (m *Memory[V]) Take(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	if m.closed {
		return zero, ErrClosed
	}
	el, ok := m.lookup(key)
	if !ok {
		return zero, ErrNotFound
	}
	m.remove(el)
	return el.Value.(*item[V]).value, nil
}

// Len returns the number of stored entries, expired ones included until cleanup.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.index)
}

// Close stops the janitor goroutine. Close is idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.stop)
	return nil
}

// lookup returns the live element for key, dropping it if expired.
// Caller must hold the mutex.
func (m *Memory[V]) lookup(key string) (*list.Element, bool) {
	el, ok := m.index[key]
	if !ok {
		return nil, false
	}
	if el.Value.(*item[V]).expired(time.Now()) {
		m.remove(el)
		return nil, false
	}
	return el, true
}

// remove unlinks an element. Caller must hold the mutex.
func (m *Memory[V]) remove(el *list.Element) {
	m.lru.Remove(el)
	delete(m.index, el.Value.(*item[V]).key)
}

func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.purge(now)
		}
	}
}

// purge drops expired entries, walking from the least recently used end.
func (m *Memory[V]) purge(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for el := m.lru.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*item[V]).expired(now) {
			m.remove(el)
		}
		el = prev
	}
}

var _ Cache[any] = (*Memory[any])(nil)
