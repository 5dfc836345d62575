package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

var errBoom = errors.New("boom")

func init() {
	retryDelay = time.Millisecond
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("null cache Get should always miss")
	}
	if data != nil {
		t.Error("null cache Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("null cache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "p2:acme/foo"); hit {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.Set(ctx, "p2:acme/foo", []byte(`{"v":1}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "p2:acme/foo")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if string(data) != `{"v":1}` {
		t.Errorf("Get data = %q", data)
	}

	if err := c.Delete(ctx, "p2:acme/foo"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "p2:acme/foo"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "key", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("Get = %v, %v; want expired miss", hit, err)
	}
}

func TestFileCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("key")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("Get = %v, %v; want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir not empty after Clear: %d entries", len(entries))
	}
}

func TestNamespace(t *testing.T) {
	ctx := context.Background()
	base, _ := NewFileCache(t.TempDir())

	v1 := Namespace(base, "v1:")
	v2 := Namespace(base, "v2:")

	if err := v1.Set(ctx, "acme/foo", []byte("one"), 0); err != nil {
		t.Fatal(err)
	}
	if err := v2.Set(ctx, "acme/foo", []byte("two"), 0); err != nil {
		t.Fatal(err)
	}

	got, _, _ := v1.Get(ctx, "acme/foo")
	if string(got) != "one" {
		t.Errorf("v1 = %q, want one", got)
	}
	got, _, _ = base.Get(ctx, "v2:acme/foo")
	if string(got) != "two" {
		t.Errorf("base v2:acme/foo = %q, want two", got)
	}

	nested := Namespace(Namespace(base, "a:"), "b:")
	if err := nested.Set(ctx, "k", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := base.Get(ctx, "a:b:k"); !hit {
		t.Error("nested namespace should prefix keys with a:b:")
	}
}

func TestRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	c, err := NewRedisCache(ctx, "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get missing = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "p2:acme/foo", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists(defaultRedisPrefix + "p2:acme/foo") {
		t.Error("key not stored under the bumper prefix")
	}

	data, hit, err := c.Get(ctx, "p2:acme/foo")
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "p2:acme/foo"); hit {
		t.Error("entry should expire after ttl")
	}

	_ = c.Set(ctx, "gone", []byte("x"), 0)
	if err := c.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "gone"); hit {
		t.Error("entry present after Delete")
	}
}

func TestRedisCacheClear(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	c, err := NewRedisCache(ctx, "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	for _, k := range []string{"p2:acme/foo", "p2:acme/bar", "p:acme/foo"} {
		if err := c.Set(ctx, k, []byte("x"), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := mr.Set("other:key", "keep"); err != nil {
		t.Fatal(err)
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d keys, want 3", n)
	}
	if !mr.Exists("other:key") {
		t.Error("keys outside the bumper prefix must survive Clear")
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url"); err == nil {
		t.Error("expected error for malformed url")
	}
}

func TestFileCache_PathIsSharded(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())

	p := c.path("p2:acme/foo")
	rel, err := filepath.Rel(c.Dir(), p)
	if err != nil {
		t.Fatal(err)
	}
	shard, file := filepath.Split(rel)
	if len(shard) != 3 || len(file) != 62+len(".json") {
		t.Errorf("path = %q, want <2 hex>/<62 hex>.json", rel)
	}
	if p != c.path("p2:acme/foo") {
		t.Error("path should be deterministic")
	}
	if p == c.path("p2:acme/bar") {
		t.Error("different keys should map to different files")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(errBoom)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != errBoom.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, errBoom) {
		t.Error("wrapped error should unwrap to the cause")
	}
	if IsRetryable(errBoom) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errBoom
	})
	if err != errBoom || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errBoom)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry then success: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(errBoom)
	})
	if !errors.Is(err, errBoom) || calls != retryAttempts {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	saved := retryDelay
	retryDelay = time.Hour
	defer func() { retryDelay = saved }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errBoom)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
