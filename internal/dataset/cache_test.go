package dataset

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCache_ServesUntilTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	loads := 0
	c := NewCache[int](time.Hour, func(_ context.Context, _ string) (int, error) {
		loads++
		return loads, nil
	}, WithClock(clock.Now))
	ctx := context.Background()

	v, _ := c.Get(ctx, "a")
	if v != 1 {
		t.Fatalf("first Get = %d, want 1", v)
	}
	clock.Advance(59 * time.Minute)
	if v, _ = c.Get(ctx, "a"); v != 1 {
		t.Errorf("Get before expiry = %d, want cached 1", v)
	}
	clock.Advance(time.Minute)
	if v, _ = c.Get(ctx, "a"); v != 2 {
		t.Errorf("Get at expiry = %d, want reload 2", v)
	}
	if v, _ = c.Get(ctx, "b"); v != 3 {
		t.Errorf("Get other path = %d, want 3", v)
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	fail := true
	c := NewCache[string](time.Hour, func(_ context.Context, _ string) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "ok", nil
	})
	ctx := context.Background()

	if _, err := c.Get(ctx, "x"); err == nil {
		t.Fatal("Get: expected error")
	}
	fail = false
	v, err := c.Get(ctx, "x")
	if err != nil || v != "ok" {
		t.Errorf("Get after recovery = %q, %v", v, err)
	}
}

func TestCache_Invalidate(t *testing.T) {
	loads := 0
	c := NewCache[int](0, func(_ context.Context, _ string) (int, error) {
		loads++
		return loads, nil
	})
	ctx := context.Background()

	c.Get(ctx, "x")
	c.Invalidate()
	if v, _ := c.Get(ctx, "x"); v != 2 {
		t.Errorf("Get after Invalidate = %d, want 2", v)
	}
}
