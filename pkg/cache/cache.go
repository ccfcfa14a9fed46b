// Package cache persists frame-index tables between runs so reopening a large
// show file skips the full frame walk. Entries are keyed by a content
// fingerprint, not by path: renaming a file keeps its cache entry, editing it
// invalidates it.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/luxgrid/pxld/pkg/codec"
)

// IndexCache is a pebble-backed store of frame offset tables.
type IndexCache struct {
	db *pebble.DB
}

// Open opens (or creates) the cache database under dir.
func Open(dir string) (*IndexCache, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &IndexCache{db: db}, nil
}

// Fingerprint computes the cache key for a file: hex SHA-256 over its 64
// header bytes and its total size. Two files with equal headers but different
// frame payloads share a header; folding the size in keeps truncated or
// appended copies apart.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	header := make([]byte, codec.FileHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return "", fmt.Errorf("failed to read file header: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write(header)
	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], uint64(fi.Size()))
	h.Write(size[:])
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the cached offsets for a fingerprint. The second return is
// false on a miss.
func (c *IndexCache) Get(fingerprint string) ([]int64, bool, error) {
	data, closer, err := c.db.Get([]byte(fingerprint))
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()

	offsets, err := decodeOffsets(data)
	if err != nil {
		return nil, false, err
	}
	return offsets, true, nil
}

// Put stores the offsets for a fingerprint.
func (c *IndexCache) Put(fingerprint string, offsets []int64) error {
	return c.db.Set([]byte(fingerprint), encodeOffsets(offsets), pebble.NoSync)
}

// Delete drops a fingerprint's entry. Deleting an absent entry is not an
// error.
func (c *IndexCache) Delete(fingerprint string) error {
	return c.db.Delete([]byte(fingerprint), pebble.NoSync)
}

// Close closes the underlying database.
func (c *IndexCache) Close() error {
	return c.db.Close()
}

// encodeOffsets packs a little-endian u32 count followed by u64 offsets.
func encodeOffsets(offsets []int64) []byte {
	buf := make([]byte, 4+8*len(offsets))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(offsets)))
	for i, off := range offsets {
		binary.LittleEndian.PutUint64(buf[4+8*i:], uint64(off))
	}
	return buf
}

func decodeOffsets(data []byte) ([]int64, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("cache entry too short: %d bytes", len(data))
	}
	count := binary.LittleEndian.Uint32(data[0:4])
	if len(data) != 4+8*int(count) {
		return nil, fmt.Errorf("cache entry declares %d offsets in %d bytes", count, len(data))
	}
	offsets := make([]int64, count)
	for i := range offsets {
		offsets[i] = int64(binary.LittleEndian.Uint64(data[4+8*i:]))
	}
	return offsets, nil
}
