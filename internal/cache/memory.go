package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

var _ Cache = (*Memory)(nil)

type entry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process cache bounded by entry count. The least recently
// used entry is evicted when full; expired entries are dropped on read.
type Memory struct {
	mu  sync.Mutex
	lru *simplelru.LRU[string, entry]
	now func() time.Time
}

// NewMemory returns a Memory cache holding at most size entries.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = 512
	}
	l, err := simplelru.NewLRU[string, entry](size, nil)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Memory{lru: l, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.lru.Get(key)
	if !ok {
		return "", false, nil
	}
	if !m.now().Before(e.expiresAt) {
		m.lru.Remove(key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Add(key, entry{value: value, expiresAt: m.now().Add(ttl)})
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Remove(key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}
