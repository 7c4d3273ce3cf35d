package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v", v, ok)
	}

	// "b" is now least recently used
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %d, %v", v, ok)
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive eviction")
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c := NewLRUCache[string](10, 20*time.Millisecond)
	c.Set("k", "v")
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestFileKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	if err := os.WriteFile(path, []byte(`{"items":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	k1, err := FileKey(path)
	if err != nil {
		t.Fatalf("FileKey: %v", err)
	}
	k2, _ := FileKey(path)
	if k1 != k2 {
		t.Fatalf("keys differ for unchanged file: %q vs %q", k1, k2)
	}

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	k3, _ := FileKey(path)
	if k3 == k1 {
		t.Fatal("expected key to change with modification time")
	}

	if _, err := FileKey(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
