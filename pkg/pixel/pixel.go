// Package pixel normalizes physical LED encodings into the canonical 4-byte
// RGBW record stored in PXLD pixel buffers.
//
// Canonicalization happens once, when a file is authored from raw hardware
// capture. The LED type comes from the rig document, never from the file:
// decoders only ever see canonical records and need no knowledge of wiring.
// The reverse transform (canonical back to a wire format) belongs to the
// playback transport; the canonical form keeps every raw channel value intact
// so that transform stays possible.
package pixel

import (
	"errors"
	"fmt"
)

// CanonicalSize is the byte size of one canonical RGBW record.
const CanonicalSize = 4

// White sentinel values for the 3-channel families. APA102 frames carry a
// 5-bit global brightness field, so its sentinel is the 5-bit maximum; WS2812
// has no brightness field and gets full scale.
const (
	APA102MaxBrightness = 0x1F
	WS2812MaxBrightness = 0xFF
)

// LEDType tags a slave's physical LED family.
type LEDType uint8

const (
	APA102C     LEDType = iota // 3 bytes per pixel, native order R,G,B
	WS2812B                    // 3 bytes per pixel, native order G,R,B
	StandardLED                // 1 byte per pixel, brightness only
)

var (
	ErrUnknownLEDType = errors.New("pixel: unknown led type")
	ErrRawLength      = errors.New("pixel: raw data length does not match led type")
)

// ParseLEDType maps a rig document tag to its LEDType.
func ParseLEDType(s string) (LEDType, error) {
	switch s {
	case "APA102C":
		return APA102C, nil
	case "WS2812B":
		return WS2812B, nil
	case "STANDARD_LED":
		return StandardLED, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLEDType, s)
}

func (t LEDType) String() string {
	switch t {
	case APA102C:
		return "APA102C"
	case WS2812B:
		return "WS2812B"
	case StandardLED:
		return "STANDARD_LED"
	}
	return fmt.Sprintf("LEDType(%d)", uint8(t))
}

// RawPixelSize is the number of raw bytes one pixel of this family occupies
// in a hardware capture.
func (t LEDType) RawPixelSize() (int, error) {
	switch t {
	case APA102C, WS2812B:
		return 3, nil
	case StandardLED:
		return 1, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownLEDType, uint8(t))
}

// Pixel is one canonical RGBW record.
type Pixel struct {
	R, G, B, W uint8
}

// Bytes returns the record in stored order.
func (p Pixel) Bytes() [CanonicalSize]byte {
	return [CanonicalSize]byte{p.R, p.G, p.B, p.W}
}

// AppendTo appends the record's stored form to dst.
func (p Pixel) AppendTo(dst []byte) []byte {
	return append(dst, p.R, p.G, p.B, p.W)
}

// Canonicalize converts one raw pixel into its canonical record:
//   - APA102C: raw R,G,B becomes (R, G, B, 0x1F)
//   - WS2812B: raw G,R,B becomes (R, G, B, 0xFF), a channel permutation
//   - STANDARD_LED: raw brightness becomes (0, 0, 0, brightness)
//
// The White sentinel for the 3-channel families is fixed per family, never
// derived from input.
func Canonicalize(t LEDType, raw []byte) (Pixel, error) {
	size, err := t.RawPixelSize()
	if err != nil {
		return Pixel{}, err
	}
	if len(raw) != size {
		return Pixel{}, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrRawLength, t, size, len(raw))
	}

	switch t {
	case APA102C:
		return Pixel{R: raw[0], G: raw[1], B: raw[2], W: APA102MaxBrightness}, nil
	case WS2812B:
		return Pixel{R: raw[1], G: raw[0], B: raw[2], W: WS2812MaxBrightness}, nil
	default: // StandardLED
		return Pixel{W: raw[0]}, nil
	}
}

// CanonicalizeBuffer converts a whole raw capture for one slave. The input
// length must be a multiple of the family's raw pixel size; the result holds
// one canonical record per raw pixel, in order.
func CanonicalizeBuffer(t LEDType, raw []byte) ([]byte, error) {
	size, err := t.RawPixelSize()
	if err != nil {
		return nil, err
	}
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte %s pixels",
			ErrRawLength, len(raw), size, t)
	}

	out := make([]byte, 0, len(raw)/size*CanonicalSize)
	for i := 0; i < len(raw); i += size {
		p, err := Canonicalize(t, raw[i:i+size])
		if err != nil {
			return nil, err
		}
		out = p.AppendTo(out)
	}
	return out, nil
}

// Decode splits a canonical buffer into records. The length must be a
// multiple of CanonicalSize.
func Decode(buf []byte) ([]Pixel, error) {
	if len(buf)%CanonicalSize != 0 {
		return nil, fmt.Errorf("pixel: buffer of %d bytes is not a whole number of %d-byte records",
			len(buf), CanonicalSize)
	}
	out := make([]Pixel, 0, len(buf)/CanonicalSize)
	for i := 0; i < len(buf); i += CanonicalSize {
		out = append(out, Pixel{R: buf[i], G: buf[i+1], B: buf[i+2], W: buf[i+3]})
	}
	return out, nil
}
