package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/luxgrid/pxld/pkg/pixel"
	"github.com/luxgrid/pxld/pkg/pxfile"
	"github.com/luxgrid/pxld/pkg/rig"
)

// Color is the RGB triple all generators paint with.
type Color struct {
	R, G, B uint8
}

// parseColor reads the --color flag's "R,G,B" form.
func parseColor(s string) (Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("color must be R,G,B (got %q)", s)
	}
	var vals [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("color channel %q: %w", strings.TrimSpace(p), err)
		}
		vals[i] = uint8(v)
	}
	return Color{R: vals[0], G: vals[1], B: vals[2]}, nil
}

// scale dims the color to level, clamped to [0, 1].
func (c Color) scale(level float64) Color {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	return Color{
		R: uint8(math.Round(float64(c.R) * level)),
		G: uint8(math.Round(float64(c.G) * level)),
		B: uint8(math.Round(float64(c.B) * level)),
	}
}

// brightness folds the color down to the single channel a dimmer carries.
func (c Color) brightness() uint8 {
	m := c.R
	if c.G > m {
		m = c.G
	}
	if c.B > m {
		m = c.B
	}
	return m
}

// rawPixel encodes one pixel of color c in the family's wire order.
func rawPixel(t pixel.LEDType, c Color) []byte {
	switch t {
	case pixel.WS2812B:
		return []byte{c.G, c.R, c.B}
	case pixel.StandardLED:
		return []byte{c.brightness()}
	default:
		return []byte{c.R, c.G, c.B}
	}
}

// frameFunc colors pixel p (the rig-global index) on frame i.
type frameFunc func(i, p int) Color

// frameCount converts the --seconds/--fps flags into a frame total.
func frameCount(seconds float64, fps uint8) int {
	return int(math.Round(seconds * float64(fps)))
}

// rawShow renders frame i as per-slave raw captures in the rig's wire orders.
func rawShow(rg *rig.Rig, i int, fn frameFunc) (map[uint8][]byte, error) {
	raw := make(map[uint8][]byte, len(rg.Slaves))
	p := 0 // rig-global pixel index
	for si := range rg.Slaves {
		s := &rg.Slaves[si]
		rawLen, err := s.RawByteLen()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 0, rawLen)
		for oi := range s.Outputs {
			o := &s.Outputs[oi]
			t, err := s.Type(o)
			if err != nil {
				return nil, err
			}
			for k := 0; k < o.Count; k++ {
				buf = append(buf, rawPixel(t, fn(i, p))...)
				p++
			}
		}
		raw[s.ID] = buf
	}
	return raw, nil
}

// generate authors the whole show frame by frame and writes it to
// config.Output.
func generate(rg *rig.Rig, frames int, fn frameFunc) error {
	if frames <= 0 {
		return fmt.Errorf("show needs at least one frame (%g seconds at %d fps)", config.Seconds, config.FPS)
	}

	w, err := pxfile.NewWriter(pxfile.WriterOptions{
		Path: config.Output,
		FPS:  config.FPS,
	})
	if err != nil {
		return err
	}

	for i := 0; i < frames; i++ {
		raw, err := rawShow(rg, i, fn)
		if err != nil {
			w.Close()
			return fmt.Errorf("frame %d: %w", i, err)
		}
		entries, pixels, err := pxfile.AuthorFrame(rg, raw)
		if err != nil {
			w.Close()
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if _, err := w.AppendFrame(entries, pixels); err != nil {
			w.Close()
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	if !config.Quiet {
		fmt.Printf("✅ Wrote %s: %d frames, %d slaves, %d pixels per frame at %d fps\n",
			config.Output, frames, len(rg.Slaves), rg.PixelCount(), config.FPS)
	}
	return nil
}
