package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "artifact:abc")
	if err != nil || hit {
		t.Fatalf("Get before Set = hit=%v err=%v, want miss", hit, err)
	}

	// Round trip
	if err := c.Set(ctx, "artifact:abc", []byte("png bytes"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "artifact:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != "png bytes" {
		t.Errorf("Get = %q hit=%v, want stored value", data, hit)
	}

	// Delete
	if err := c.Delete(ctx, "artifact:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "artifact:abc")
	if hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting a missing key is fine
	if err := c.Delete(ctx, "never-stored"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, hit, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCachePurge(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte(key), 0); err != nil {
			t.Fatalf("Set(%q) error: %v", key, err)
		}
	}

	// Generous retention keeps fresh entries.
	removed, err := c.Purge(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Purge error: %v", err)
	}
	if removed != 0 {
		t.Errorf("Purge(24h) removed %d fresh entries, want 0", removed)
	}

	// Zero retention removes everything.
	removed, err = c.Purge(ctx, 0)
	if err != nil {
		t.Fatalf("Purge error: %v", err)
	}
	if removed != 3 {
		t.Errorf("Purge(0) removed %d, want 3", removed)
	}
	_, hit, _ := c.Get(ctx, "a")
	if hit {
		t.Error("Get after full purge should miss")
	}
}

func TestHash(t *testing.T) {
	// Determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.DatasetKey("abc123"); got != "dataset:abc123" {
		t.Errorf("DatasetKey = %q", got)
	}

	base := ArtifactKeyOpts{Kind: "pie", Scheme: "default", Format: "png", DPI: 100}

	// Determinism
	k1 := k.ArtifactKey("hash1", base)
	k2 := k.ArtifactKey("hash1", base)
	if k1 != k2 {
		t.Error("ArtifactKey should be deterministic")
	}

	// Every option participates in the key
	variants := []ArtifactKeyOpts{
		{Kind: "horizontal_bar", Scheme: "default", Format: "png", DPI: 100},
		{Kind: "pie", Scheme: "spectrum", Format: "png", DPI: 100},
		{Kind: "pie", Scheme: "default", Format: "svg", DPI: 100},
		{Kind: "pie", Scheme: "default", Format: "png", DPI: 300},
		{Kind: "pie", Scheme: "default", Format: "png", DPI: 100, Categories: []string{"A"}},
		{Kind: "pie", Scheme: "default", Format: "png", DPI: 100, PieGroup: "2024"},
	}
	for i, opts := range variants {
		if k.ArtifactKey("hash1", opts) == k1 {
			t.Errorf("variant %d should produce a different key", i)
		}
	}

	// Different dataset hashes differ
	if k.ArtifactKey("hash2", base) == k1 {
		t.Error("different dataset hashes should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(NewDefaultKeyer(), "tenant:x:")

	if got := k.DatasetKey("abc"); got != "tenant:x:dataset:abc" {
		t.Errorf("DatasetKey = %q", got)
	}

	plain := NewDefaultKeyer().ArtifactKey("h", ArtifactKeyOpts{Kind: "pie"})
	scoped := k.ArtifactKey("h", ArtifactKeyOpts{Kind: "pie"})
	if scoped != "tenant:x:"+plain {
		t.Errorf("ArtifactKey = %q, want prefixed %q", scoped, plain)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Non-retryable errors fail immediately
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return context.Canceled
	})
	if err == nil || calls != 1 {
		t.Errorf("non-retryable: calls=%d err=%v, want 1 call", calls, err)
	}

	// Retryable errors retry until success
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrCacheMiss)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retryable: calls=%d err=%v, want success on call 2", calls, err)
	}
}
