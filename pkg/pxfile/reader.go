// Package pxfile reads and writes PXLD v3 container files: verify once,
// index once, then serve any number of independent random-access frame reads.
package pxfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/luxgrid/pxld/pkg/codec"
)

// Reader is an open, verified file plus its frame index. Both are immutable
// after Open, so a single Reader may serve concurrent ReadFrame and
// ReadSlaveData calls without locking: every read uses ReadAt with its own
// offset and no shared cursor exists.
type Reader struct {
	file   *os.File
	header codec.FileHeader
	index  []int64
	size   int64
	config ReaderOptions
}

// Open verifies path's checksum, builds its frame index, and returns a
// Reader ready to serve frames.
func Open(path string) (*Reader, error) {
	return OpenWithOptions(ReaderOptions{Path: path})
}

// OpenWithOptions is Open with explicit configuration. A supplied Index skips
// the indexing walk but never the checksum pass: the cache shortcuts
// indexing, not integrity. SkipVerify is for files verified earlier in the
// same process.
func OpenWithOptions(config ReaderOptions) (*Reader, error) {
	file, err := os.Open(config.Path)
	if err != nil {
		return nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	size := stat.Size()

	buf := make([]byte, codec.FileHeaderSize)
	if err := readFullAt(file, buf, 0); err != nil {
		file.Close()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &codec.FormatError{
				Kind:   codec.KindTruncatedFile,
				Offset: 0,
				Msg:    fmt.Sprintf("file of %d bytes cannot hold a %d-byte header", size, codec.FileHeaderSize),
			}
		}
		return nil, fmt.Errorf("read file header: %w", err)
	}

	header, err := codec.DecodeFileHeader(buf)
	if err != nil {
		file.Close()
		return nil, err
	}

	// Integrity first: a failed checksum means frame boundaries cannot be
	// trusted, so indexing must not even start.
	if !config.SkipVerify {
		if err := VerifyChecksum(file, size, header); err != nil {
			file.Close()
			return nil, err
		}
	}

	index := config.Index
	if index == nil {
		index, err = BuildIndex(file, size, header)
		if err != nil {
			file.Close()
			return nil, err
		}
	} else if uint32(len(index)) != header.TotalFrames {
		file.Close()
		return nil, &codec.FormatError{
			Kind:   codec.KindIndexCorruption,
			Offset: -1,
			Msg:    fmt.Sprintf("supplied index has %d entries, file declares %d frames", len(index), header.TotalFrames),
		}
	}

	return &Reader{
		file:   file,
		header: header,
		index:  index,
		size:   size,
		config: config,
	}, nil
}

// Header returns the decoded file header with its declared values unaltered.
func (r *Reader) Header() codec.FileHeader {
	return r.header
}

// Path returns the file path the reader was opened with.
func (r *Reader) Path() string {
	return r.config.Path
}

// FrameCount returns the number of frames the file declares.
func (r *Reader) FrameCount() uint32 {
	return r.header.TotalFrames
}

// FrameOffsets returns a copy of the frame index, suitable for caching.
func (r *Reader) FrameOffsets() []int64 {
	out := make([]int64, len(r.index))
	copy(out, r.index)
	return out
}

// Timestamp returns the derived playback time of a frame.
func (r *Reader) Timestamp(frameID uint32) time.Duration {
	return r.header.Timestamp(frameID)
}

// Duration returns the playback length of the whole file.
func (r *Reader) Duration() time.Duration {
	return r.header.Duration()
}

// Info summarizes the open file.
func (r *Reader) Info() Info {
	checksum := "none"
	if r.header.ChecksumType == codec.ChecksumCRC32 {
		checksum = fmt.Sprintf("%08x", r.header.Checksum)
	}
	return Info{
		Path:           r.config.Path,
		Version:        fmt.Sprintf("%d.%d", r.header.Major, r.header.Minor),
		Frames:         r.header.TotalFrames,
		Slaves:         r.header.TotalSlaves,
		PixelsPerFrame: r.header.TotalPixels,
		FPS:            r.header.FPS,
		UDPPort:        r.header.UDPPort,
		DurationMS:     r.header.Duration().Milliseconds(),
		Checksum:       checksum,
		SizeBytes:      r.size,
	}
}

// ReadFrame decodes frame frameID by index lookup: one header read to learn
// the body sizes, one body read, then a full structural decode. The frame id
// stored in the file must match the ordinal position the index claims;
// anything else means the index and the file disagree.
func (r *Reader) ReadFrame(frameID uint32) (*codec.Frame, error) {
	if frameID >= r.header.TotalFrames {
		return nil, &codec.FormatError{
			Kind:   codec.KindOutOfRange,
			Offset: -1,
			Msg:    fmt.Sprintf("frame %d requested, file has %d frames", frameID, r.header.TotalFrames),
		}
	}
	offset := r.index[frameID]

	fh, err := r.readFrameHeader(frameID, offset)
	if err != nil {
		return nil, err
	}

	total := int64(codec.FrameHeaderSize) + int64(fh.SlaveTableSize) + int64(fh.PixelDataSize)
	buf := make([]byte, total)
	if err := r.readAt(buf, offset, frameID); err != nil {
		return nil, err
	}

	frame, err := codec.DecodeFrame(buf)
	if err != nil {
		return nil, err
	}
	if frame.Header.FrameID != frameID {
		return nil, &codec.FormatError{
			Kind:   codec.KindIndexCorruption,
			Offset: offset,
			Msg:    fmt.Sprintf("frame at index %d carries id %d", frameID, frame.Header.FrameID),
		}
	}
	return frame, nil
}

// ReadFrameHeader reads just a frame's fixed header. Cheaper than ReadFrame
// when only sizes, flags or counts are needed.
func (r *Reader) ReadFrameHeader(frameID uint32) (codec.FrameHeader, error) {
	if frameID >= r.header.TotalFrames {
		return codec.FrameHeader{}, &codec.FormatError{
			Kind:   codec.KindOutOfRange,
			Offset: -1,
			Msg:    fmt.Sprintf("frame %d requested, file has %d frames", frameID, r.header.TotalFrames),
		}
	}
	offset := r.index[frameID]

	fh, err := r.readFrameHeader(frameID, offset)
	if err != nil {
		return codec.FrameHeader{}, err
	}
	if fh.FrameID != frameID {
		return codec.FrameHeader{}, &codec.FormatError{
			Kind:   codec.KindIndexCorruption,
			Offset: offset,
			Msg:    fmt.Sprintf("frame at index %d carries id %d", frameID, fh.FrameID),
		}
	}
	return fh, nil
}

// ReadSlaveData returns one slave's canonical bytes from one frame without
// materializing the rest of the pixel buffer: it reads the header and table,
// validates the table, then reads only the slave's declared range. This is
// the splitter's hot path.
func (r *Reader) ReadSlaveData(frameID uint32, slaveID uint8) ([]byte, error) {
	if frameID >= r.header.TotalFrames {
		return nil, &codec.FormatError{
			Kind:   codec.KindOutOfRange,
			Offset: -1,
			Msg:    fmt.Sprintf("frame %d requested, file has %d frames", frameID, r.header.TotalFrames),
		}
	}
	offset := r.index[frameID]

	fh, err := r.readFrameHeader(frameID, offset)
	if err != nil {
		return nil, err
	}
	if fh.FrameID != frameID {
		return nil, &codec.FormatError{
			Kind:   codec.KindIndexCorruption,
			Offset: offset,
			Msg:    fmt.Sprintf("frame at index %d carries id %d", frameID, fh.FrameID),
		}
	}
	if fh.SlaveTableSize%codec.SlaveEntrySize != 0 {
		return nil, &codec.FormatError{
			Kind:   codec.KindSizeMismatch,
			Offset: offset + 8,
			Msg:    fmt.Sprintf("slave table size %d is not a multiple of %d", fh.SlaveTableSize, codec.SlaveEntrySize),
		}
	}

	tableBuf := make([]byte, fh.SlaveTableSize)
	if err := r.readAt(tableBuf, offset+codec.FrameHeaderSize, frameID); err != nil {
		return nil, err
	}
	entries := make([]codec.SlaveEntry, 0, len(tableBuf)/codec.SlaveEntrySize)
	for pos := 0; pos < len(tableBuf); pos += codec.SlaveEntrySize {
		e, err := codec.DecodeSlaveEntry(tableBuf[pos : pos+codec.SlaveEntrySize])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := codec.ValidateSlaveTable(entries, fh.PixelDataSize); err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.SlaveID != slaveID {
			continue
		}
		if e.DataLength%codec.PixelRecordSize != 0 {
			return nil, &codec.FormatError{
				Kind:   codec.KindMisalignedSlaveData,
				Offset: -1,
				Msg: fmt.Sprintf("slave %d data length %d is not a whole number of %d-byte pixels",
					slaveID, e.DataLength, codec.PixelRecordSize),
			}
		}
		data := make([]byte, e.DataLength)
		start := offset + codec.FrameHeaderSize + int64(fh.SlaveTableSize) + int64(e.DataOffset)
		if err := r.readAt(data, start, frameID); err != nil {
			return nil, err
		}
		return data, nil
	}
	return nil, &codec.FormatError{
		Kind:   codec.KindUnknownSlave,
		Offset: -1,
		Msg:    fmt.Sprintf("slave %d not present in frame %d", slaveID, frameID),
	}
}

// Frames returns an iterator over the half-open frame range [from, to).
func (r *Reader) Frames(from, to uint32) (FrameIterator, error) {
	if from > to || to > r.header.TotalFrames {
		return nil, &codec.FormatError{
			Kind:   codec.KindOutOfRange,
			Offset: -1,
			Msg:    fmt.Sprintf("frame range [%d,%d) outside [0,%d)", from, to, r.header.TotalFrames),
		}
	}
	return &frameIterator{reader: r, next: from, end: to}, nil
}

// AllFrames iterates every frame in order.
func (r *Reader) AllFrames() FrameIterator {
	it, _ := r.Frames(0, r.header.TotalFrames)
	return it
}

// Close closes the underlying file. In-flight reads race with Close; callers
// coordinate shutdown the same way they would for any os.File.
func (r *Reader) Close() error {
	return r.file.Close()
}

func (r *Reader) readFrameHeader(frameID uint32, offset int64) (codec.FrameHeader, error) {
	buf := make([]byte, codec.FrameHeaderSize)
	if err := r.readAt(buf, offset, frameID); err != nil {
		return codec.FrameHeader{}, err
	}
	return codec.DecodeFrameHeader(buf)
}

func (r *Reader) readAt(buf []byte, off int64, frameID uint32) error {
	if err := readFullAt(r.file, buf, off); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &codec.FormatError{
				Kind:   codec.KindTruncatedFile,
				Offset: off,
				Msg:    fmt.Sprintf("frame %d read of %d bytes runs past end of file", frameID, len(buf)),
			}
		}
		return fmt.Errorf("read frame %d: %w", frameID, err)
	}
	return nil
}

// frameIterator implements FrameIterator over a fixed range
type frameIterator struct {
	reader *Reader
	next   uint32
	end    uint32
	frame  *codec.Frame
	err    error
}

func (it *frameIterator) Next() bool {
	if it.err != nil || it.next >= it.end {
		return false
	}
	it.frame, it.err = it.reader.ReadFrame(it.next)
	if it.err != nil {
		return false
	}
	it.next++
	return true
}

func (it *frameIterator) Frame() *codec.Frame {
	return it.frame
}

func (it *frameIterator) Err() error {
	return it.err
}

func (it *frameIterator) Close() error {
	// Don't close the underlying reader as it's owned by the caller
	return nil
}
