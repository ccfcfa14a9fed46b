// Package codec implements the PXLD v3 binary layout: the fixed-size file
// header, per-frame headers, slave table entries, and whole-frame
// encode/decode with structural validation.
//
// # File Layout
//
// A PXLD file is a 64-byte FileHeader followed by total_frames variable-length
// frames, each laid out as:
//
//	[FrameHeader(32)][SlaveEntry(24) × total_slaves][PixelData(pixel_data_size)]
//
// All multi-byte integers are unsigned little-endian.
//
// # File Header
//
//	[Magic "PXLD"(4)][Major(1)][Minor(1)][FPS(1)][TotalSlaves(2)][TotalFrames(4)]
//	[TotalPixels(4)][FrameHeaderSize(2)][SlaveEntrySize(2)][UDPPort(2)]
//	[Checksum(4)][ChecksumType(1)][Reserved(36)]
//
// FrameHeaderSize must equal 32 and SlaveEntrySize must equal 24 for major
// version 3; any other value means the file was written by an incompatible
// layout and is rejected before any frame is touched. Minor version
// differences are tolerated. Reserved bytes are written as zero and ignored
// on read.
//
// # Frames
//
// Each FrameHeader carries the frame's ordinal id (equal to its position),
// the byte size of its slave table, and the byte size of its pixel buffer:
// everything needed to skip the frame without reading its body, which is what
// makes cheap random-access indexing possible.
//
// A SlaveEntry does not own pixel bytes. Its DataOffset/DataLength pair is a
// view into the owning frame's flat pixel buffer. DecodeFrame rejects tables
// with duplicate slave ids, ranges that leave the buffer, or ranges that
// overlap each other, so a decoded Frame can be sliced without re-checking.
//
// # Pixels
//
// The pixel buffer is a flat sequence of 4-byte canonical records, one byte
// each for red, green, blue and white. Physical LED encodings are normalized
// into this shape at authoring time (see the pixel package); the codec itself
// never interprets pixel bytes.
//
// # Checksum
//
// The header stores a CRC-32 (IEEE, the zlib/gzip variant) computed over
// bytes [27, EOF), from the checksum-type byte through end of file. The
// stored checksum field at [23, 27) is excluded from its own coverage.
// Computing and verifying the checksum is file-level work and lives in the
// pxfile package; this package only carries the stored value and the range
// constants.
//
// # Timestamps
//
// A frame's playback time is never stored. It is derived as
// frame_id × 1000 / fps milliseconds, a pure function of ordinal position
// and the header's frame rate.
//
// # Error Handling
//
// Every violation is reported as a *FormatError carrying a machine-checkable
// Kind and, where known, the byte offset. Package sentinels (ErrBadMagic,
// ErrChecksumMismatch, ...) support errors.Is. Nothing is silently corrected
// or defaulted.
//
// # Thread Safety
//
// All functions are pure; decoded values are plain data. A Frame's Pixels
// slice may alias the input buffer, so callers that mutate the input after
// decoding should copy first.
package codec
