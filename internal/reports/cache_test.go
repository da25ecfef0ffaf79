package reports

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCacheVersionInitialises(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	ver, err := cache.Version(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ver != 1 {
		t.Fatalf("expected initial version 1 got %d", ver)
	}

	key, err := cache.BuildKey(ctx, "reports", "kpi_snapshot", "2025-05-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(key, ":1") {
		t.Fatalf("expected versioned key, got %q", key)
	}
}

func TestCacheBumpChangesKeys(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "reports", "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cache.Bump(ctx); err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	after, err := cache.BuildKey(ctx, "reports", "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before == after {
		t.Fatalf("expected bump to change keys, both %q", before)
	}
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (interface{}, error) {
		loads++
		return map[string]int{"n": 42}, nil
	}

	var dest map[string]int
	if err := cache.FetchJSON(ctx, "k", &dest, loader); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest["n"] != 42 {
		t.Fatalf("unexpected value %v", dest)
	}
	dest = nil
	if err := cache.FetchJSON(ctx, "k", &dest, loader); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest["n"] != 42 {
		t.Fatalf("unexpected cached value %v", dest)
	}
	if loads != 1 {
		t.Fatalf("expected single load, got %d", loads)
	}
}

func TestCacheFetchJSONPropagatesLoaderError(t *testing.T) {
	cache, _ := newTestCache(t)
	wantErr := errors.New("boom")

	var dest map[string]int
	err := cache.FetchJSON(context.Background(), "k", &dest, func(context.Context) (interface{}, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error, got %v", err)
	}
}

func TestNilCachePassesThrough(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "a", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "a:b" {
		t.Fatalf("unexpected key %q", key)
	}

	loads := 0
	var dest map[string]int
	for i := 0; i < 2; i++ {
		if err := cache.FetchJSON(ctx, key, &dest, func(context.Context) (interface{}, error) {
			loads++
			return map[string]int{"n": 7}, nil
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if loads != 2 {
		t.Fatalf("expected loader on every call without redis, got %d", loads)
	}
	if err := cache.Bump(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCacheListenForInvalidationSyncsVersion(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cache.ListenForInvalidation(ctx, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Give the subscriber a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	mr.Publish("reports.bump", "9")

	deadline := time.Now().Add(2 * time.Second)
	for {
		ver, err := cache.Version(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ver == 9 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("version not synced, still %d", ver)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
