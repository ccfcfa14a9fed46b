package pxfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/luxgrid/pxld/pkg/codec"
)

const defaultWriteBuffer = 64 * 1024

// Writer authors a PXLD file: single writer, frames appended in order, and a
// three-step finish (write everything with a zero checksum field, re-read the
// checksummed region, patch the 4-byte field in place). Appending never
// touches previously written bytes; only Close revisits the header.
type Writer struct {
	file        *os.File
	writer      *bufio.Writer
	config      WriterOptions
	mutex       sync.Mutex
	offset      int64
	frames      uint32
	slaves      uint16
	totalPixels uint32
	closed      bool
}

// NewWriter creates the file (truncating any previous content) and reserves
// the header. The header's counters are filled in by Close, once the frame
// count and slave shape are known.
func NewWriter(config WriterOptions) (*Writer, error) {
	if config.FPS == 0 {
		return nil, fmt.Errorf("pxfile: fps must be at least 1")
	}
	if config.UDPPort == 0 {
		config.UDPPort = codec.DefaultUDPPort
	}
	if config.BufferSize <= 0 {
		config.BufferSize = defaultWriteBuffer
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0750); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0600)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		file:   file,
		writer: bufio.NewWriterSize(file, config.BufferSize),
		config: config,
	}

	// Placeholder header so a crashed write is still identifiable as PXLD.
	if _, err := w.writer.Write(codec.EncodeFileHeader(w.buildHeader())); err != nil {
		file.Close()
		return nil, err
	}
	w.offset = codec.FileHeaderSize

	return w, nil
}

// AppendFrame encodes one frame and appends it. The frame id is assigned
// sequentially; table and buffer sizes are recomputed from the actual data.
// Every frame must carry the same slave count as the first one; the header
// declares a single table shape for the whole file.
func (w *Writer) AppendFrame(entries []codec.SlaveEntry, pixels []byte) (uint32, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return 0, fmt.Errorf("pxfile: writer is closed")
	}
	if len(entries) > int(^uint16(0)) {
		return 0, fmt.Errorf("pxfile: %d slave entries exceed the format's 16-bit count", len(entries))
	}

	if w.frames == 0 {
		w.slaves = uint16(len(entries))
		for _, e := range entries {
			w.totalPixels += uint32(e.PixelCount)
		}
	} else if uint16(len(entries)) != w.slaves {
		return 0, fmt.Errorf("pxfile: frame %d has %d slaves, file is shaped for %d",
			w.frames, len(entries), w.slaves)
	}

	frame := &codec.Frame{
		Header: codec.FrameHeader{FrameID: w.frames},
		Slaves: entries,
		Pixels: pixels,
	}
	data, err := codec.EncodeFrame(frame)
	if err != nil {
		return 0, err
	}

	n, err := w.writer.Write(data)
	if err != nil {
		return 0, err
	}
	w.offset += int64(n)

	id := w.frames
	w.frames++
	return id, nil
}

// Sync flushes buffered frames and fsyncs.
func (w *Writer) Sync() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.sync()
}

func (w *Writer) sync() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close finalizes the file: flush frames, write the real header, compute the
// checksum over [27, EOF) and patch it into bytes [23, 27). The stored field
// is outside its own coverage, so the patch does not invalidate the sum.
func (w *Writer) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}

	header := w.buildHeader()
	if _, err := w.file.WriteAt(codec.EncodeFileHeader(header), 0); err != nil {
		w.file.Close()
		return err
	}

	if header.ChecksumType == codec.ChecksumCRC32 {
		sum, err := ComputeChecksum(w.file, w.offset)
		if err != nil {
			w.file.Close()
			return err
		}
		var field [4]byte
		binary.LittleEndian.PutUint32(field[:], sum)
		if _, err := w.file.WriteAt(field[:], codec.ChecksumFieldOffset); err != nil {
			w.file.Close()
			return err
		}
	}

	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// FrameCount returns the number of frames appended so far.
func (w *Writer) FrameCount() uint32 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.frames
}

// Size returns the current byte size of the file including the header.
func (w *Writer) Size() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.offset
}

// Path returns the file path
func (w *Writer) Path() string {
	return w.config.Path
}

func (w *Writer) buildHeader() codec.FileHeader {
	checksumType := codec.ChecksumCRC32
	if w.config.DisableChecksum {
		checksumType = codec.ChecksumNone
	}
	return codec.FileHeader{
		Major:        codec.SupportedMajor,
		Minor:        w.config.Minor,
		FPS:          w.config.FPS,
		TotalSlaves:  w.slaves,
		TotalFrames:  w.frames,
		TotalPixels:  w.totalPixels,
		UDPPort:      w.config.UDPPort,
		Checksum:     0,
		ChecksumType: checksumType,
	}
}
