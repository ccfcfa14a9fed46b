package pxfile

import (
	"fmt"

	"github.com/luxgrid/pxld/pkg/codec"
	"github.com/luxgrid/pxld/pkg/pixel"
	"github.com/luxgrid/pxld/pkg/rig"
)

// AuthorFrame canonicalizes one frame of per-slave raw capture against a rig
// document and lays out the slave table for appending. Channels number from 1
// in rig document order; canonical pixel data packs back-to-back in the same
// order. raw maps slave id to that slave's raw bytes for the frame, sized by
// the slave's wiring.
func AuthorFrame(rg *rig.Rig, raw map[uint8][]byte) ([]codec.SlaveEntry, []byte, error) {
	entries := make([]codec.SlaveEntry, 0, len(rg.Slaves))
	var pixels []byte
	channelStart := 1

	for i := range rg.Slaves {
		s := &rg.Slaves[i]

		rawLen, err := s.RawByteLen()
		if err != nil {
			return nil, nil, fmt.Errorf("slave %d: %w", s.ID, err)
		}
		data, ok := raw[s.ID]
		if !ok {
			return nil, nil, fmt.Errorf("slave %d: no raw capture supplied", s.ID)
		}
		if len(data) != rawLen {
			return nil, nil, fmt.Errorf("slave %d: raw frame is %d bytes, wiring needs %d",
				s.ID, len(data), rawLen)
		}
		if channelStart+rawLen-1 > 0xFFFF {
			return nil, nil, fmt.Errorf("slave %d: channel numbering exceeds 65535", s.ID)
		}
		if s.PixelCount() > 0xFFFF {
			return nil, nil, fmt.Errorf("slave %d: pixel count %d exceeds 65535", s.ID, s.PixelCount())
		}

		canonical, err := canonicalizeSlave(s, data)
		if err != nil {
			return nil, nil, err
		}

		entries = append(entries, codec.SlaveEntry{
			SlaveID:      s.ID,
			ChannelStart: uint16(channelStart),
			ChannelCount: uint16(rawLen),
			PixelCount:   uint16(s.PixelCount()),
			DataOffset:   uint32(len(pixels)),
			DataLength:   uint32(len(canonical)),
		})
		pixels = append(pixels, canonical...)
		channelStart += rawLen
	}
	return entries, pixels, nil
}

// canonicalizeSlave converts one slave's raw frame output by output, honoring
// per-output LED-type overrides.
func canonicalizeSlave(s *rig.Slave, data []byte) ([]byte, error) {
	out := make([]byte, 0, s.CanonicalByteLen())
	pos := 0
	for i := range s.Outputs {
		o := &s.Outputs[i]
		t, err := s.Type(o)
		if err != nil {
			return nil, fmt.Errorf("slave %d output %q: %w", s.ID, o.Label, err)
		}
		size, err := t.RawPixelSize()
		if err != nil {
			return nil, fmt.Errorf("slave %d output %q: %w", s.ID, o.Label, err)
		}
		canonical, err := pixel.CanonicalizeBuffer(t, data[pos:pos+o.Count*size])
		if err != nil {
			return nil, fmt.Errorf("slave %d output %q: %w", s.ID, o.Label, err)
		}
		out = append(out, canonical...)
		pos += o.Count * size
	}
	return out, nil
}
