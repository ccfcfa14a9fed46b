package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luxgrid/pxld/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *IndexCache {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "pxld_cache_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	c, err := Open(filepath.Join(tmpDir, "index-cache"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheMissThenHit(t *testing.T) {
	c := openTestCache(t)

	offsets := []int64{64, 188, 312, 436}

	_, ok, err := c.Get("fp-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put("fp-1", offsets))

	got, ok, err := c.Get("fp-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, offsets, got)

	require.NoError(t, c.Delete("fp-1"))

	_, ok, err = c.Get("fp-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent entry is fine.
	assert.NoError(t, c.Delete("fp-1"))
}

func TestCacheEmptyOffsets(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.Put("empty", nil))

	got, ok, err := c.Get("empty")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pxld_cache_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dir := filepath.Join(tmpDir, "index-cache")

	c, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, c.Put("fp-persist", []int64{64, 1000000}))
	require.NoError(t, c.Close())

	c, err = Open(dir)
	require.NoError(t, err)
	defer c.Close()

	got, ok, err := c.Get("fp-persist")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int64{64, 1000000}, got)
}

func writeHeaderFile(t *testing.T, dir, name string, header codec.FileHeader, extra []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := append(codec.EncodeFileHeader(header), extra...)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestFingerprintTracksContent(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pxld_cache_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	base := codec.FileHeader{
		Major:        codec.SupportedMajor,
		FPS:          30,
		TotalSlaves:  2,
		TotalFrames:  10,
		TotalPixels:  100,
		UDPPort:      codec.DefaultUDPPort,
		ChecksumType: codec.ChecksumNone,
	}

	a := writeHeaderFile(t, tmpDir, "a.pxld", base, nil)

	changed := base
	changed.TotalFrames = 11
	b := writeHeaderFile(t, tmpDir, "b.pxld", changed, nil)

	// Same header, one extra byte: the size is part of the identity.
	c := writeHeaderFile(t, tmpDir, "c.pxld", base, []byte{0})

	fpA, err := Fingerprint(a)
	require.NoError(t, err)
	fpB, err := Fingerprint(b)
	require.NoError(t, err)
	fpC, err := Fingerprint(c)
	require.NoError(t, err)

	assert.Len(t, fpA, 64) // hex SHA-256
	assert.NotEqual(t, fpA, fpB)
	assert.NotEqual(t, fpA, fpC)
	assert.NotEqual(t, fpB, fpC)

	// Stable across calls.
	again, err := Fingerprint(a)
	require.NoError(t, err)
	assert.Equal(t, fpA, again)
}

func TestFingerprintErrors(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pxld_cache_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	_, err = Fingerprint(filepath.Join(tmpDir, "missing.pxld"))
	assert.Error(t, err)

	short := filepath.Join(tmpDir, "short.pxld")
	require.NoError(t, os.WriteFile(short, []byte("PXLD"), 0600))
	_, err = Fingerprint(short)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file header")
}
