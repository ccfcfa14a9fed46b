package pxfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/luxgrid/pxld/pkg/codec"
)

// BuildIndex walks the file once, reading only the fixed 32-byte frame
// headers, and returns the absolute byte offset of every frame. Each header
// declares its own table and pixel-buffer sizes, so the walk is O(frames)
// with constant I/O per frame no matter how large the pixel buffers are,
// which keeps random frame access cheap.
func BuildIndex(src io.ReaderAt, size int64, header codec.FileHeader) ([]int64, error) {
	wantTable := uint32(header.TotalSlaves) * codec.SlaveEntrySize
	offsets := make([]int64, 0, header.TotalFrames)
	buf := make([]byte, codec.FrameHeaderSize)
	pos := int64(codec.FileHeaderSize)

	for i := uint32(0); i < header.TotalFrames; i++ {
		if err := readFullAt(src, buf, pos); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, &codec.FormatError{
					Kind:   codec.KindTruncatedFile,
					Offset: pos,
					Msg:    fmt.Sprintf("frame %d header runs past end of file", i),
				}
			}
			return nil, fmt.Errorf("read frame %d header: %w", i, err)
		}

		fh, err := codec.DecodeFrameHeader(buf)
		if err != nil {
			return nil, err
		}
		if fh.SlaveTableSize != wantTable {
			return nil, &codec.FormatError{
				Kind:   codec.KindSizeMismatch,
				Offset: pos + 8,
				Msg: fmt.Sprintf("frame %d declares a %d-byte slave table, header's %d slaves need %d",
					i, fh.SlaveTableSize, header.TotalSlaves, wantTable),
			}
		}

		offsets = append(offsets, pos)
		pos += codec.FrameHeaderSize + int64(fh.SlaveTableSize) + int64(fh.PixelDataSize)
		if pos > size {
			return nil, &codec.FormatError{
				Kind:   codec.KindTruncatedFile,
				Offset: size,
				Msg:    fmt.Sprintf("frame %d body runs past end of file", i),
			}
		}
	}

	if pos != size {
		return nil, &codec.FormatError{
			Kind:   codec.KindSizeMismatch,
			Offset: pos,
			Msg:    fmt.Sprintf("%d trailing bytes after the last frame", size-pos),
		}
	}
	return offsets, nil
}

// readFullAt reads exactly len(buf) bytes at off. ReadAt never moves a shared
// seek position, which is what keeps concurrent frame reads coordination-free.
func readFullAt(src io.ReaderAt, buf []byte, off int64) error {
	n, err := src.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return err
}
