/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package rig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/luxgrid/pxld/pkg/pixel"
	"gopkg.in/yaml.v3"
)

// Rig describes the physical installation a capture plays back onto: which
// slave controllers exist and what LED hardware hangs off each of them.
type Rig struct {
	Name   string  `yaml:"name,omitempty"`
	Slaves []Slave `yaml:"slaves"`
}

// Slave is one networked controller on the rig.
type Slave struct {
	ID      uint8    `yaml:"id"`
	Name    string   `yaml:"name,omitempty"`
	LEDType string   `yaml:"led_type"`
	Outputs []Output `yaml:"outputs"`
}

// Output is one physical strip or channel bank wired to a slave.
type Output struct {
	Label   string `yaml:"label,omitempty"`
	LEDType string `yaml:"led_type,omitempty"` // overrides the slave default
	Count   int    `yaml:"count"`
}

// Load reads and validates a rig document. JSON documents load too, YAML
// being a superset.
func Load(path string) (*Rig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("rig file does not exist: %s", path)
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid rig path: %w", err)
		}
		path = absPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rig file: %w", err)
	}

	var r Rig
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse rig file: %w", err)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Save writes the rig document to the specified path.
func Save(r *Rig, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create rig directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal rig: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write rig file: %w", err)
	}

	return nil
}

// Validate checks the document for duplicate slave ids, unknown LED types and
// empty outputs.
func (r *Rig) Validate() error {
	if len(r.Slaves) == 0 {
		return fmt.Errorf("rig defines no slaves")
	}

	seen := make(map[uint8]bool, len(r.Slaves))
	for i := range r.Slaves {
		s := &r.Slaves[i]
		if seen[s.ID] {
			return fmt.Errorf("duplicate slave id %d", s.ID)
		}
		seen[s.ID] = true

		if _, err := pixel.ParseLEDType(s.LEDType); err != nil {
			return fmt.Errorf("slave %d: %w", s.ID, err)
		}
		if len(s.Outputs) == 0 {
			return fmt.Errorf("slave %d has no outputs", s.ID)
		}
		for j, out := range s.Outputs {
			if out.Count <= 0 {
				return fmt.Errorf("slave %d output %d has no pixels", s.ID, j)
			}
			if out.LEDType != "" {
				if _, err := pixel.ParseLEDType(out.LEDType); err != nil {
					return fmt.Errorf("slave %d output %d: %w", s.ID, j, err)
				}
			}
		}
	}
	return nil
}

// Slave returns the slave with the given id.
func (r *Rig) Slave(id uint8) (*Slave, bool) {
	for i := range r.Slaves {
		if r.Slaves[i].ID == id {
			return &r.Slaves[i], true
		}
	}
	return nil, false
}

// SlaveIDs returns all slave ids in ascending order.
func (r *Rig) SlaveIDs() []uint8 {
	ids := make([]uint8, 0, len(r.Slaves))
	for i := range r.Slaves {
		ids = append(ids, r.Slaves[i].ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PixelCount sums the pixel counts of every output on every slave.
func (r *Rig) PixelCount() int {
	total := 0
	for i := range r.Slaves {
		total += r.Slaves[i].PixelCount()
	}
	return total
}

// Type resolves the LED family of an output, falling back to the slave-wide
// default when the output does not override it.
func (s *Slave) Type(out *Output) (pixel.LEDType, error) {
	tag := s.LEDType
	if out != nil && out.LEDType != "" {
		tag = out.LEDType
	}
	return pixel.ParseLEDType(tag)
}

// PixelCount sums the pixel counts of the slave's outputs.
func (s *Slave) PixelCount() int {
	total := 0
	for _, out := range s.Outputs {
		total += out.Count
	}
	return total
}

// RawByteLen is the per-frame byte length of this slave's hardware capture:
// 3 bytes per pixel for the RGB families, 1 for STANDARD_LED channels.
func (s *Slave) RawByteLen() (int, error) {
	total := 0
	for i := range s.Outputs {
		t, err := s.Type(&s.Outputs[i])
		if err != nil {
			return 0, err
		}
		size, err := t.RawPixelSize()
		if err != nil {
			return 0, err
		}
		total += s.Outputs[i].Count * size
	}
	return total, nil
}

// CanonicalByteLen is the per-frame byte length once every pixel is widened
// to the 4-byte stored form.
func (s *Slave) CanonicalByteLen() int {
	return s.PixelCount() * pixel.CanonicalSize
}
