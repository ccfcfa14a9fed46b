package pxfile

import (
	"github.com/luxgrid/pxld/pkg/codec"
)

// ReaderOptions holds configuration for opening a file
type ReaderOptions struct {
	Path       string  // Path to the .pxld file
	SkipVerify bool    // Skip the checksum pass for already-verified files
	Index      []int64 // Previously built frame index (e.g. from the cache); nil builds it
}

// WriterOptions holds configuration for authoring a file
type WriterOptions struct {
	Path            string // Path of the file to create (truncated if it exists)
	FPS             uint8  // Playback frame rate, must be at least 1
	Minor           uint8  // Minor format version to declare
	UDPPort         uint16 // Transport hint, 0 means the format default
	DisableChecksum bool   // Write checksum_type 0 instead of CRC-32
	BufferSize      int    // Write buffer size, 0 means a sane default
}

// FrameIterator provides streaming access to a range of frames
type FrameIterator interface {
	Next() bool
	Frame() *codec.Frame
	Err() error
	Close() error
}

// Info is a point-in-time summary of an open file, the shape served by the
// inspection API and the CLI.
type Info struct {
	Path           string `json:"path"`
	Version        string `json:"version"`
	Frames         uint32 `json:"frames"`
	Slaves         uint16 `json:"slaves"`
	PixelsPerFrame uint32 `json:"pixels_per_frame"`
	FPS            uint8  `json:"fps"`
	UDPPort        uint16 `json:"udp_port"`
	DurationMS     int64  `json:"duration_ms"`
	Checksum       string `json:"checksum"` // stored CRC-32 as hex, or "none"
	SizeBytes      int64  `json:"size_bytes"`
}
