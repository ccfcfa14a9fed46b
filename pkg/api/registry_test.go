package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luxgrid/pxld/pkg/cache"
	"github.com/luxgrid/pxld/pkg/codec"
)

func setupTestCache(t *testing.T) (*cache.IndexCache, string) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "pxld_registry_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	idx, err := cache.Open(filepath.Join(tmpDir, "cache"))
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	return idx, tmpDir
}

func TestFileRegistryCachesIndex(t *testing.T) {
	idx, tmpDir := setupTestCache(t)
	path := writeTestCapture(t, tmpDir)

	registry := NewFileRegistry(idx)
	defer registry.CloseAll()

	id, r, err := registry.Open(path, false)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if id == "" {
		t.Error("Expected a non-empty handle")
	}
	if r.FrameCount() != 5 {
		t.Errorf("Expected 5 frames, got %d", r.FrameCount())
	}

	fp, err := cache.Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	offsets, ok, err := idx.Get(fp)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected the open to populate the cache")
	}
	if len(offsets) != 5 {
		t.Fatalf("Expected 5 cached offsets, got %d", len(offsets))
	}
	if offsets[0] != codec.FileHeaderSize {
		t.Errorf("Expected first offset %d, got %d", codec.FileHeaderSize, offsets[0])
	}

	// Second open takes the cache-hit path; frames must still be reachable.
	_, r2, err := registry.Open(path, false)
	if err != nil {
		t.Fatalf("Cached open failed: %v", err)
	}
	if _, err := r2.ReadFrame(4); err != nil {
		t.Errorf("ReadFrame through cached index failed: %v", err)
	}
}

func TestFileRegistryRecoversFromStaleIndex(t *testing.T) {
	idx, tmpDir := setupTestCache(t)
	path := writeTestCapture(t, tmpDir)

	fp, err := cache.Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	// Poison the cache with an index of the wrong length.
	if err := idx.Put(fp, []int64{codec.FileHeaderSize}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	registry := NewFileRegistry(idx)
	defer registry.CloseAll()

	_, r, err := registry.Open(path, false)
	if err != nil {
		t.Fatalf("Open should recover from a stale index, got: %v", err)
	}
	if r.FrameCount() != 5 {
		t.Errorf("Expected 5 frames, got %d", r.FrameCount())
	}

	// Recovery rebuilds the entry.
	offsets, ok, err := idx.Get(fp)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected the recovered open to repopulate the cache")
	}
	if len(offsets) != 5 {
		t.Errorf("Expected 5 cached offsets after recovery, got %d", len(offsets))
	}
}

func TestFileRegistryCloseSemantics(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pxld_registry_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	path := writeTestCapture(t, tmpDir)

	registry := NewFileRegistry(nil)
	defer registry.CloseAll()

	id, _, err := registry.Open(path, false)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if registry.Len() != 1 {
		t.Errorf("Expected 1 registered file, got %d", registry.Len())
	}
	if _, ok := registry.Get(id); !ok {
		t.Error("Expected Get to find the handle")
	}

	if err := registry.Close(id); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if registry.Len() != 0 {
		t.Errorf("Expected 0 registered files, got %d", registry.Len())
	}
	if err := registry.Close(id); err == nil {
		t.Error("Expected an error closing a released handle")
	}
	if err := registry.Close("nope"); err == nil {
		t.Error("Expected an error for an unknown handle")
	}
}

func TestFileRegistryCloseAll(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pxld_registry_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	path := writeTestCapture(t, tmpDir)

	registry := NewFileRegistry(nil)
	for i := 0; i < 3; i++ {
		if _, _, err := registry.Open(path, false); err != nil {
			t.Fatalf("Open %d failed: %v", i, err)
		}
	}
	if registry.Len() != 3 {
		t.Fatalf("Expected 3 registered files, got %d", registry.Len())
	}

	if err := registry.CloseAll(); err != nil {
		t.Errorf("CloseAll failed: %v", err)
	}
	if registry.Len() != 0 {
		t.Errorf("Expected 0 registered files after CloseAll, got %d", registry.Len())
	}
}
