package codec

import (
	"encoding/binary"
	"sort"
)

// FrameHeader is the fixed 32-byte header preceding every frame body.
// Format: [FrameID(4)][Flags(2)][Reserved(2)][SlaveTableSize(4)][PixelDataSize(4)][Reserved(16)]
type FrameHeader struct {
	FrameID        uint32 // ordinal position in the file, starting at 0
	Flags          uint16 // reserved, always 0 in v3
	SlaveTableSize uint32 // byte size of the slave table, total_slaves × 24
	PixelDataSize  uint32 // byte size of the pixel buffer
}

// SlaveEntry is one fixed 24-byte slave table row. It does not own pixel
// bytes; DataOffset/DataLength are a view into the owning frame's buffer.
// Format: [SlaveID(1)][Flags(1)][ChannelStart(2)][ChannelCount(2)][PixelCount(2)]
// [DataOffset(4)][DataLength(4)][Reserved(8)]
type SlaveEntry struct {
	SlaveID      uint8  // logical controller id, unique within a frame
	Flags        uint8  // reserved
	ChannelStart uint16 // first logical channel, 1-based
	ChannelCount uint16 // logical channels driven by this slave
	PixelCount   uint16 // pixel records this slave drives
	DataOffset   uint32 // byte offset into the frame's pixel buffer
	DataLength   uint32 // byte length of this slave's pixel data
}

// Frame is one decoded playback timestep: header, slave table, and the flat
// canonical pixel buffer the table indexes into.
type Frame struct {
	Header FrameHeader
	Slaves []SlaveEntry
	Pixels []byte
}

// DecodeFrameHeader parses a fixed 32-byte frame header.
func DecodeFrameHeader(data []byte) (FrameHeader, error) {
	if len(data) < FrameHeaderSize {
		return FrameHeader{}, formatErr(KindTruncatedFile, 0,
			"frame header needs %d bytes, have %d", FrameHeaderSize, len(data))
	}
	return FrameHeader{
		FrameID:        binary.LittleEndian.Uint32(data[0:4]),
		Flags:          binary.LittleEndian.Uint16(data[4:6]),
		SlaveTableSize: binary.LittleEndian.Uint32(data[8:12]),
		PixelDataSize:  binary.LittleEndian.Uint32(data[12:16]),
	}, nil
}

// EncodeFrameHeader serializes fh into a fresh 32-byte buffer, reserved bytes zeroed.
func EncodeFrameHeader(fh FrameHeader) []byte {
	buf := make([]byte, FrameHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], fh.FrameID)
	binary.LittleEndian.PutUint16(buf[4:], fh.Flags)
	binary.LittleEndian.PutUint32(buf[8:], fh.SlaveTableSize)
	binary.LittleEndian.PutUint32(buf[12:], fh.PixelDataSize)
	return buf
}

// DecodeSlaveEntry parses a fixed 24-byte slave table entry.
func DecodeSlaveEntry(data []byte) (SlaveEntry, error) {
	if len(data) < SlaveEntrySize {
		return SlaveEntry{}, formatErr(KindTruncatedFile, 0,
			"slave entry needs %d bytes, have %d", SlaveEntrySize, len(data))
	}
	return SlaveEntry{
		SlaveID:      data[0],
		Flags:        data[1],
		ChannelStart: binary.LittleEndian.Uint16(data[2:4]),
		ChannelCount: binary.LittleEndian.Uint16(data[4:6]),
		PixelCount:   binary.LittleEndian.Uint16(data[6:8]),
		DataOffset:   binary.LittleEndian.Uint32(data[8:12]),
		DataLength:   binary.LittleEndian.Uint32(data[12:16]),
	}, nil
}

// EncodeSlaveEntry serializes e into a fresh 24-byte buffer, reserved bytes zeroed.
func EncodeSlaveEntry(e SlaveEntry) []byte {
	buf := make([]byte, SlaveEntrySize)
	buf[0] = e.SlaveID
	buf[1] = e.Flags
	binary.LittleEndian.PutUint16(buf[2:], e.ChannelStart)
	binary.LittleEndian.PutUint16(buf[4:], e.ChannelCount)
	binary.LittleEndian.PutUint16(buf[6:], e.PixelCount)
	binary.LittleEndian.PutUint32(buf[8:], e.DataOffset)
	binary.LittleEndian.PutUint32(buf[12:], e.DataLength)
	return buf
}

// Size returns the encoded byte size of the frame.
func (f *Frame) Size() int {
	return FrameHeaderSize + len(f.Slaves)*SlaveEntrySize + len(f.Pixels)
}

// PixelCount returns the number of pixel records in the frame's buffer.
func (f *Frame) PixelCount() int {
	return len(f.Pixels) / PixelRecordSize
}

// Entry looks up the slave table row for slaveID in table order.
func (f *Frame) Entry(slaveID uint8) (SlaveEntry, bool) {
	for _, e := range f.Slaves {
		if e.SlaveID == slaveID {
			return e, true
		}
	}
	return SlaveEntry{}, false
}

// SlaveData returns the sub-slice [DataOffset, DataOffset+DataLength) of the
// pixel buffer owned by slaveID. The slice aliases the frame's buffer; callers
// must not mutate it. Duplicate ids were already rejected when the frame was
// decoded, so the first match is the only match.
func (f *Frame) SlaveData(slaveID uint8) ([]byte, error) {
	e, ok := f.Entry(slaveID)
	if !ok {
		return nil, formatErr(KindUnknownSlave, -1,
			"slave %d not present in frame %d", slaveID, f.Header.FrameID)
	}
	if e.DataLength%PixelRecordSize != 0 {
		return nil, formatErr(KindMisalignedSlaveData, -1,
			"slave %d data length %d is not a whole number of %d-byte pixels",
			slaveID, e.DataLength, PixelRecordSize)
	}
	if uint64(e.DataOffset)+uint64(e.DataLength) > uint64(len(f.Pixels)) {
		return nil, formatErr(KindSlaveRangeOverflow, -1,
			"slave %d range [%d,%d) exceeds pixel buffer of %d bytes",
			slaveID, e.DataOffset, uint64(e.DataOffset)+uint64(e.DataLength), len(f.Pixels))
	}
	return f.Pixels[e.DataOffset : e.DataOffset+e.DataLength], nil
}

// EncodeFrame serializes a frame. SlaveTableSize and PixelDataSize are
// recomputed from the actual slave count and buffer length rather than trusted
// from the header, so an encoded frame is self-consistent by construction.
func EncodeFrame(f *Frame) ([]byte, error) {
	if err := ValidateSlaveTable(f.Slaves, uint32(len(f.Pixels))); err != nil {
		return nil, err
	}

	hdr := f.Header
	hdr.SlaveTableSize = uint32(len(f.Slaves) * SlaveEntrySize)
	hdr.PixelDataSize = uint32(len(f.Pixels))

	buf := make([]byte, 0, f.Size())
	buf = append(buf, EncodeFrameHeader(hdr)...)
	for _, e := range f.Slaves {
		buf = append(buf, EncodeSlaveEntry(e)...)
	}
	buf = append(buf, f.Pixels...)
	return buf, nil
}

// DecodeFrame parses a complete frame blob: the 32-byte header, the slave
// table it declares, then the pixel buffer. The table is validated here, so
// after DecodeFrame succeeds every entry can be trusted by SlaveData.
func DecodeFrame(data []byte) (*Frame, error) {
	fh, err := DecodeFrameHeader(data)
	if err != nil {
		return nil, err
	}
	if fh.SlaveTableSize%SlaveEntrySize != 0 {
		return nil, formatErr(KindSizeMismatch, 8,
			"slave table size %d is not a multiple of %d", fh.SlaveTableSize, SlaveEntrySize)
	}

	want := FrameHeaderSize + int64(fh.SlaveTableSize) + int64(fh.PixelDataSize)
	if int64(len(data)) < want {
		return nil, formatErr(KindTruncatedFile, 0,
			"frame %d needs %d bytes, have %d", fh.FrameID, want, len(data))
	}

	count := int(fh.SlaveTableSize) / SlaveEntrySize
	slaves := make([]SlaveEntry, 0, count)
	pos := FrameHeaderSize
	for i := 0; i < count; i++ {
		e, err := DecodeSlaveEntry(data[pos : pos+SlaveEntrySize])
		if err != nil {
			return nil, err
		}
		slaves = append(slaves, e)
		pos += SlaveEntrySize
	}
	pixels := data[pos : pos+int(fh.PixelDataSize)]

	if err := ValidateSlaveTable(slaves, fh.PixelDataSize); err != nil {
		return nil, err
	}

	return &Frame{Header: fh, Slaves: slaves, Pixels: pixels}, nil
}

// ValidateSlaveTable enforces the v3 table invariants: slave ids unique within
// the frame, every range inside the pixel buffer, and no two occupied ranges
// overlapping. Zero-length entries own no bytes and cannot overlap anything.
func ValidateSlaveTable(entries []SlaveEntry, pixelDataSize uint32) error {
	seen := make(map[uint8]bool, len(entries))
	occupied := make([]SlaveEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.SlaveID] {
			return formatErr(KindDuplicateSlaveID, -1,
				"slave id %d appears more than once in the frame table", e.SlaveID)
		}
		seen[e.SlaveID] = true

		end := uint64(e.DataOffset) + uint64(e.DataLength)
		if end > uint64(pixelDataSize) {
			return formatErr(KindSlaveRangeOverflow, -1,
				"slave %d range [%d,%d) exceeds pixel buffer of %d bytes",
				e.SlaveID, e.DataOffset, end, pixelDataSize)
		}
		if e.DataLength > 0 {
			occupied = append(occupied, e)
		}
	}

	sort.Slice(occupied, func(i, j int) bool { return occupied[i].DataOffset < occupied[j].DataOffset })
	for i := 1; i < len(occupied); i++ {
		prev, cur := occupied[i-1], occupied[i]
		if prev.DataOffset+prev.DataLength > cur.DataOffset {
			return formatErr(KindSlaveRangeOverflow, -1,
				"slave %d and slave %d pixel ranges overlap", prev.SlaveID, cur.SlaveID)
		}
	}
	return nil
}
