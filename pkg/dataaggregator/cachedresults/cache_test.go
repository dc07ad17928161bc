package cachedresults

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestCache(shared Shared) (*Cache, *testClock) {
	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}

	c := New(shared)
	c.Now = clock.Now

	return c, clock
}

func TestCacheTTLExpiry(t *testing.T) {
	tests := []struct {
		label   string
		advance time.Duration
		hit     bool
	}{
		{"fresh", 0, true},
		{"just before expiry", 999 * time.Millisecond, true},
		{"exactly at ttl", 1000 * time.Millisecond, true},
		{"just after expiry", 1001 * time.Millisecond, false},
		{"long after expiry", time.Hour, false},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			c, clock := newTestCache(nil)
			c.Set("k", "v", 1000*time.Millisecond)

			clock.Advance(tc.advance)
			value, hit := c.Get("k")

			if hit != tc.hit {
				t.Fatalf("Get hit = %v, expected %v", hit, tc.hit)
			}
			if hit && value != "v" {
				t.Errorf("Get value = %v, expected v", value)
			}
		})
	}
}

func TestCacheLazyEviction(t *testing.T) {
	c, clock := newTestCache(nil)
	c.Set("stale", 1, time.Second)
	c.Set("fresh", 2, time.Minute)

	clock.Advance(2 * time.Second)

	if stats := c.Stats(); stats.Size != 2 {
		t.Fatalf("expected expired entry to linger until looked up, size = %d", stats.Size)
	}

	if _, hit := c.Get("stale"); hit {
		t.Fatal("expected stale entry to miss")
	}

	stats := c.Stats()
	if stats.Size != 1 || stats.Keys[0] != "fresh" {
		t.Errorf("Stats after eviction = %+v, expected only fresh", stats)
	}
}

func TestCacheSetOverwrites(t *testing.T) {
	c, clock := newTestCache(nil)
	c.Set("k", "old", time.Second)

	clock.Advance(900 * time.Millisecond)
	c.Set("k", "new", time.Second)

	clock.Advance(900 * time.Millisecond)
	value, hit := c.Get("k")
	if !hit || value != "new" {
		t.Errorf("Get = %v, %v, expected new value restamped on overwrite", value, hit)
	}
}

func TestCacheClear(t *testing.T) {
	c, _ := newTestCache(nil)
	c.Set("departures:A:10", 1, time.Minute)
	c.Set("departures:B:10", 2, time.Minute)
	c.Set("disruptions:50", 3, time.Minute)

	if removed := c.Clear(context.Background(), "departures"); removed != 2 {
		t.Errorf("Clear(departures) removed %d, expected 2", removed)
	}

	stats := c.Stats()
	if stats.Size != 1 || stats.Keys[0] != "disruptions:50" {
		t.Errorf("Stats = %+v, expected only disruptions:50", stats)
	}

	c.Set("strikes", 4, time.Minute)
	if removed := c.Clear(context.Background(), ""); removed != 2 {
		t.Errorf("Clear() removed %d, expected 2", removed)
	}
	if stats := c.Stats(); stats.Size != 0 || len(stats.Keys) != 0 {
		t.Errorf("Stats = %+v, expected empty cache", stats)
	}
}

func TestCacheStatsSortedKeys(t *testing.T) {
	c, _ := newTestCache(nil)
	c.Set("strikes", 1, time.Minute)
	c.Set("dashboard", 1, time.Minute)
	c.Set("disruptions:20", 1, time.Minute)

	stats := c.Stats()
	expected := []string{"dashboard", "disruptions:20", "strikes"}

	if strings.Join(stats.Keys, ",") != strings.Join(expected, ",") {
		t.Errorf("Keys = %v, expected %v", stats.Keys, expected)
	}
}

type fakeShared struct {
	values  map[string]string
	ttls    map[string]time.Duration
	deleted []string
	cleared []string
	failing bool
}

func newFakeShared() *fakeShared {
	return &fakeShared{
		values: map[string]string{},
		ttls:   map[string]time.Duration{},
	}
}

func (f *fakeShared) Get(ctx context.Context, key string) (string, time.Duration, error) {
	if f.failing {
		return "", 0, errors.New("connection refused")
	}

	value, exists := f.values[key]
	if !exists {
		return "", 0, errors.New("value not found")
	}

	return value, f.ttls[key], nil
}

func (f *fakeShared) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if f.failing {
		return errors.New("connection refused")
	}

	f.values[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeShared) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeShared) Clear(ctx context.Context, pattern string) error {
	f.cleared = append(f.cleared, pattern)
	return nil
}

type testRecord struct {
	Name  string
	Count int
}

func TestTypedGetSet(t *testing.T) {
	c, _ := newTestCache(nil)
	ctx := context.Background()

	Set(ctx, c, "records", []testRecord{{"a", 1}}, time.Minute)

	records, hit := Get[[]testRecord](ctx, c, "records")
	if !hit || len(records) != 1 || records[0].Name != "a" {
		t.Fatalf("Get = %v, %v", records, hit)
	}

	if _, hit := Get[string](ctx, c, "records"); hit {
		t.Error("expected a type mismatch to miss")
	}
	if _, hit := c.Get("records"); hit {
		t.Error("expected mismatched entry to be evicted")
	}
}

func TestTypedGetFromShared(t *testing.T) {
	shared := newFakeShared()
	shared.values["records"] = `[{"Name":"b","Count":2}]`
	shared.ttls["records"] = 20 * time.Second

	c, clock := newTestCache(shared)
	ctx := context.Background()

	records, hit := Get[[]testRecord](ctx, c, "records")
	if !hit || len(records) != 1 || records[0].Count != 2 {
		t.Fatalf("Get = %v, %v, expected shared hit", records, hit)
	}

	// Promoted into memory with the remaining ttl
	delete(shared.values, "records")
	clock.Advance(19 * time.Second)
	if _, hit := Get[[]testRecord](ctx, c, "records"); !hit {
		t.Error("expected promoted entry to be served from memory")
	}

	clock.Advance(2 * time.Second)
	if _, hit := Get[[]testRecord](ctx, c, "records"); hit {
		t.Error("expected promoted entry to expire with the shared ttl")
	}
}

func TestTypedGetCorruptSharedEntry(t *testing.T) {
	shared := newFakeShared()
	shared.values["records"] = `{not json`
	shared.ttls["records"] = time.Minute

	c, _ := newTestCache(shared)

	if _, hit := Get[[]testRecord](context.Background(), c, "records"); hit {
		t.Fatal("expected corrupt entry to miss")
	}

	if len(shared.deleted) != 1 || shared.deleted[0] != "records" {
		t.Errorf("deleted = %v, expected corrupt entry to be evicted", shared.deleted)
	}
}

func TestTypedSetWritesShared(t *testing.T) {
	shared := newFakeShared()
	c, _ := newTestCache(shared)

	Set(context.Background(), c, "strikes", []testRecord{{"c", 3}}, 15*time.Minute)

	if shared.values["strikes"] != `[{"Name":"c","Count":3}]` {
		t.Errorf("shared value = %q", shared.values["strikes"])
	}
	if shared.ttls["strikes"] != 15*time.Minute {
		t.Errorf("shared ttl = %v, expected 15m", shared.ttls["strikes"])
	}
}

func TestSharedFailuresNeverSurface(t *testing.T) {
	shared := newFakeShared()
	shared.failing = true
	c, _ := newTestCache(shared)
	ctx := context.Background()

	Set(ctx, c, "k", 1, time.Minute)

	value, hit := Get[int](ctx, c, "k")
	if !hit || value != 1 {
		t.Errorf("Get = %v, %v, expected memory tier to still serve", value, hit)
	}

	c.Clear(ctx, "k")
	if len(shared.cleared) != 1 || shared.cleared[0] != "k" {
		t.Errorf("cleared = %v, expected shared clear with pattern", shared.cleared)
	}
}

func TestEscapeGlob(t *testing.T) {
	if escaped := escapeGlob("stations:a*b?[c]"); escaped != `stations:a\*b\?\[c\]` {
		t.Errorf("escapeGlob = %q", escaped)
	}
}
