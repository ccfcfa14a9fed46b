package cmd

import (
	"testing"

	"github.com/luxgrid/pxld/pkg/codec"
	"github.com/luxgrid/pxld/pkg/rig"
	"github.com/stretchr/testify/assert"
)

func reconcileTestRig() *rig.Rig {
	return &rig.Rig{
		Name: "reconcile-test",
		Slaves: []rig.Slave{
			{
				ID:      1,
				Name:    "wall",
				LEDType: "APA102C",
				Outputs: []rig.Output{{Label: "strip-a", Count: 2}},
			},
			{
				ID:      2,
				Name:    "spots",
				LEDType: "STANDARD_LED",
				Outputs: []rig.Output{{Label: "dimmers", Count: 2}},
			},
		},
	}
}

// matchingFrame mirrors reconcileTestRig exactly: slave 1 has 2 pixels over 6
// channels, slave 2 has 2 pixels over 2 channels.
func matchingFrame() *codec.Frame {
	return &codec.Frame{
		Header: codec.FrameHeader{FrameID: 0, SlaveTableSize: 48, PixelDataSize: 16},
		Slaves: []codec.SlaveEntry{
			{SlaveID: 1, ChannelStart: 1, ChannelCount: 6, PixelCount: 2, DataOffset: 0, DataLength: 8},
			{SlaveID: 2, ChannelStart: 7, ChannelCount: 2, PixelCount: 2, DataOffset: 8, DataLength: 8},
		},
		Pixels: make([]byte, 16),
	}
}

func TestReconcileRig(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*codec.Frame)
		expected []string
	}{
		{
			name:     "matching table",
			mutate:   func(f *codec.Frame) {},
			expected: nil,
		},
		{
			name: "pixel count disagrees",
			mutate: func(f *codec.Frame) {
				f.Slaves[0].PixelCount = 3
			},
			expected: []string{"slave 1: file has 3 pixels, rig declares 2"},
		},
		{
			name: "data length disagrees",
			mutate: func(f *codec.Frame) {
				f.Slaves[1].DataLength = 12
			},
			expected: []string{"slave 2: file carries 12 data bytes, rig expects 8"},
		},
		{
			name: "channel count disagrees",
			mutate: func(f *codec.Frame) {
				f.Slaves[0].ChannelCount = 4
			},
			expected: []string{"slave 1: file declares 4 channels, rig wires 6"},
		},
		{
			name: "slave unknown to the rig",
			mutate: func(f *codec.Frame) {
				f.Slaves[0].SlaveID = 9
			},
			expected: []string{
				"slave 9 present in file but not in rig",
				"slave 1 configured in rig but absent from file",
			},
		},
		{
			name: "slave missing from the file",
			mutate: func(f *codec.Frame) {
				f.Slaves = f.Slaves[:1]
			},
			expected: []string{"slave 2 configured in rig but absent from file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := matchingFrame()
			tt.mutate(frame)

			findings := reconcileRig(reconcileTestRig(), frame)
			assert.Equal(t, tt.expected, findings)
		})
	}
}
