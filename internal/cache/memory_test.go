package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(8)
	if err := m.Set(ctx, "k", "<div/>", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || v != "<div/>" {
		t.Fatalf("unexpected get: %q %v %v", v, ok, err)
	}
}

func TestMemoryZeroTTLStoresNothing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(8)
	_ = m.Set(ctx, "k", "v", 0)
	_ = m.Set(ctx, "k2", "v", -time.Second)
	if m.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", m.Len())
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(8)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	_ = m.Set(ctx, "k", "v", 10*time.Second)

	now = now.Add(9 * time.Second)
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}
	now = now.Add(time.Second)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatalf("expected miss at expiry")
	}
	if m.Len() != 0 {
		t.Fatalf("expired entry not dropped")
	}
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)
	_ = m.Set(ctx, "a", "1", time.Minute)
	_ = m.Set(ctx, "b", "2", time.Minute)
	_, _, _ = m.Get(ctx, "a")
	_ = m.Set(ctx, "c", "3", time.Minute)
	if _, ok, _ := m.Get(ctx, "b"); ok {
		t.Fatalf("expected b evicted")
	}
	if _, ok, _ := m.Get(ctx, "a"); !ok {
		t.Fatalf("expected a kept")
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)
	_ = m.Set(ctx, "a", "1", time.Minute)
	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Fatalf("expected miss after delete")
	}
	if err := m.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(64)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%10)
			_ = m.Set(ctx, key, key, time.Minute)
			_, _, _ = m.Get(ctx, key)
		}()
	}
	wg.Wait()
	if m.Len() != 10 {
		t.Fatalf("expected 10 keys, got %d", m.Len())
	}
}
