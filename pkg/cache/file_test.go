package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFileCache(t *testing.T) *FileCache {
	t.Helper()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	return c.(*FileCache)
}

func TestFileCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t)

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != "value" {
		t.Errorf("hit=%v data=%q", hit, data)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("missing key should be a miss")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t)

	_ = c.Set(ctx, "key", []byte("value"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t)

	_ = c.Set(ctx, "key", []byte("value"), 0)

	// Corrupt the entry on disk; the next read treats it as a miss and
	// removes the file.
	hash := Hash([]byte("key"))
	path := filepath.Join(c.Dir(), hash[:2], hash)
	if err := os.WriteFile(path, []byte("{garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("corrupt entry should be a miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t)

	_ = c.Set(ctx, "key", []byte("value"), 0)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("deleted key should be a miss")
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t)

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}

	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d entries left in cache dir", len(entries))
	}
}
