package codec

import (
	"bytes"
	"encoding/binary"
	"time"
)

// Layout constants fixed by the v3 container format. The header declares the
// frame-header and slave-entry sizes so a reader can reject files written by
// an incompatible layout before touching any frame.
const (
	FileHeaderSize  = 64
	FrameHeaderSize = 32
	SlaveEntrySize  = 24
	PixelRecordSize = 4

	SupportedMajor = 3

	// The stored checksum occupies bytes [23,27); the checksummed region is
	// [27, EOF). The field is excluded from its own coverage.
	ChecksumFieldOffset = 23
	ChecksumRangeStart  = 27

	DefaultUDPPort = 4050
)

// Magic identifies a PXLD container file.
var Magic = [4]byte{'P', 'X', 'L', 'D'}

// Checksum type selector values.
const (
	ChecksumNone  uint8 = 0
	ChecksumCRC32 uint8 = 1
)

// FileHeader is the fixed 64-byte header at the start of every file.
// Reserved bytes (28-63) are not modeled; they are written as zero.
type FileHeader struct {
	Major        uint8  // format major version, must equal SupportedMajor
	Minor        uint8  // format minor version, mismatches tolerated
	FPS          uint8  // playback frame rate in frames per second
	TotalSlaves  uint16 // slave entries in every frame's table
	TotalFrames  uint32 // frames in the file
	TotalPixels  uint32 // pixel records per frame, summed across slaves
	UDPPort      uint16 // hint for the playback transport, not used here
	Checksum     uint32 // CRC-32 over bytes [27, EOF)
	ChecksumType uint8  // ChecksumNone or ChecksumCRC32
}

// DecodeFileHeader parses the fixed 64-byte header.
// Format: [Magic(4)][Major(1)][Minor(1)][FPS(1)][TotalSlaves(2)][TotalFrames(4)]
// [TotalPixels(4)][FrameHeaderSize(2)][SlaveEntrySize(2)][UDPPort(2)]
// [Checksum(4)][ChecksumType(1)][Reserved(36)]
func DecodeFileHeader(data []byte) (FileHeader, error) {
	if len(data) < FileHeaderSize {
		return FileHeader{}, formatErr(KindTruncatedFile, 0,
			"file header needs %d bytes, have %d", FileHeaderSize, len(data))
	}
	if !bytes.Equal(data[0:4], Magic[:]) {
		return FileHeader{}, formatErr(KindBadMagic, 0, "got %q", data[0:4])
	}

	h := FileHeader{
		Major:        data[4],
		Minor:        data[5],
		FPS:          data[6],
		TotalSlaves:  binary.LittleEndian.Uint16(data[7:9]),
		TotalFrames:  binary.LittleEndian.Uint32(data[9:13]),
		TotalPixels:  binary.LittleEndian.Uint32(data[13:17]),
		UDPPort:      binary.LittleEndian.Uint16(data[21:23]),
		Checksum:     binary.LittleEndian.Uint32(data[23:27]),
		ChecksumType: data[27],
	}

	if h.Major != SupportedMajor {
		return FileHeader{}, formatErr(KindUnsupportedVersion, 4,
			"major version %d, supported %d", h.Major, SupportedMajor)
	}
	if fhs := binary.LittleEndian.Uint16(data[17:19]); fhs != FrameHeaderSize {
		return FileHeader{}, formatErr(KindStructuralMismatch, 17,
			"declared frame header size %d, want %d", fhs, FrameHeaderSize)
	}
	if ses := binary.LittleEndian.Uint16(data[19:21]); ses != SlaveEntrySize {
		return FileHeader{}, formatErr(KindStructuralMismatch, 19,
			"declared slave entry size %d, want %d", ses, SlaveEntrySize)
	}
	if h.FPS == 0 {
		return FileHeader{}, formatErr(KindStructuralMismatch, 6,
			"fps must be at least 1")
	}
	if h.ChecksumType > ChecksumCRC32 {
		return FileHeader{}, formatErr(KindStructuralMismatch, 27,
			"unknown checksum type %d", h.ChecksumType)
	}

	return h, nil
}

// EncodeFileHeader serializes h into a fresh 64-byte buffer. Reserved bytes
// are zeroed; the declared structural sizes are always the v3 constants. The
// Checksum field is written exactly as supplied because its real value is only
// known once the rest of the file exists.
func EncodeFileHeader(h FileHeader) []byte {
	buf := make([]byte, FileHeaderSize)
	copy(buf[0:4], Magic[:])
	buf[4] = h.Major
	buf[5] = h.Minor
	buf[6] = h.FPS
	binary.LittleEndian.PutUint16(buf[7:], h.TotalSlaves)
	binary.LittleEndian.PutUint32(buf[9:], h.TotalFrames)
	binary.LittleEndian.PutUint32(buf[13:], h.TotalPixels)
	binary.LittleEndian.PutUint16(buf[17:], FrameHeaderSize)
	binary.LittleEndian.PutUint16(buf[19:], SlaveEntrySize)
	binary.LittleEndian.PutUint16(buf[21:], h.UDPPort)
	binary.LittleEndian.PutUint32(buf[23:], h.Checksum)
	buf[27] = h.ChecksumType
	return buf
}

// Timestamp derives the playback time of a frame: frame_id × 1000 / fps
// milliseconds. Timestamps are never stored; they are a pure function of
// position and frame rate.
func (h FileHeader) Timestamp(frameID uint32) time.Duration {
	if h.FPS == 0 {
		return 0
	}
	return time.Duration(frameID) * time.Second / time.Duration(h.FPS)
}

// Duration is the playback length of the whole file.
func (h FileHeader) Duration() time.Duration {
	if h.FPS == 0 {
		return 0
	}
	return time.Duration(h.TotalFrames) * time.Second / time.Duration(h.FPS)
}
