package rig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luxgrid/pxld/pkg/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRig() *Rig {
	return &Rig{
		Name: "garage",
		Slaves: []Slave{
			{
				ID:      1,
				Name:    "left-wall",
				LEDType: "APA102C",
				Outputs: []Output{
					{Label: "strip-a", Count: 120},
					{Label: "strip-b", Count: 60},
				},
			},
			{
				ID:      2,
				Name:    "spots",
				LEDType: "STANDARD_LED",
				Outputs: []Output{
					{Label: "bank-1", Count: 8},
				},
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pxld_rig_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "rig.yaml")
	require.NoError(t, Save(testRig(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, testRig(), loaded)
}

func TestLoadAcceptsJSON(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pxld_rig_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	doc := `{"slaves": [{"id": 3, "led_type": "WS2812B", "outputs": [{"count": 30}]}]}`
	path := filepath.Join(tmpDir, "rig.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Slaves, 1)
	assert.Equal(t, uint8(3), loaded.Slaves[0].ID)
	assert.Equal(t, 30, loaded.PixelCount())
}

func TestLoadErrors(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pxld_rig_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(tmpDir, "nope.yaml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(tmpDir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("slaves: ["), 0644))
		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse rig file")
	})
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, testRig().Validate())
	})

	t.Run("no slaves", func(t *testing.T) {
		err := (&Rig{}).Validate()
		assert.ErrorContains(t, err, "no slaves")
	})

	t.Run("duplicate ids", func(t *testing.T) {
		r := testRig()
		r.Slaves[1].ID = r.Slaves[0].ID
		assert.ErrorContains(t, r.Validate(), "duplicate slave id")
	})

	t.Run("unknown led type", func(t *testing.T) {
		r := testRig()
		r.Slaves[0].LEDType = "SK6812"
		assert.ErrorIs(t, r.Validate(), pixel.ErrUnknownLEDType)
	})

	t.Run("unknown output override", func(t *testing.T) {
		r := testRig()
		r.Slaves[0].Outputs[0].LEDType = "SK6812"
		assert.ErrorIs(t, r.Validate(), pixel.ErrUnknownLEDType)
	})

	t.Run("no outputs", func(t *testing.T) {
		r := testRig()
		r.Slaves[0].Outputs = nil
		assert.ErrorContains(t, r.Validate(), "has no outputs")
	})

	t.Run("zero count output", func(t *testing.T) {
		r := testRig()
		r.Slaves[0].Outputs[1].Count = 0
		assert.ErrorContains(t, r.Validate(), "has no pixels")
	})
}

func TestSlaveLookup(t *testing.T) {
	r := testRig()

	s, ok := r.Slave(2)
	require.True(t, ok)
	assert.Equal(t, "spots", s.Name)

	_, ok = r.Slave(9)
	assert.False(t, ok)

	assert.Equal(t, []uint8{1, 2}, r.SlaveIDs())
}

func TestByteLengths(t *testing.T) {
	r := testRig()

	assert.Equal(t, 188, r.PixelCount())

	left, ok := r.Slave(1)
	require.True(t, ok)
	assert.Equal(t, 180, left.PixelCount())

	// 180 RGB pixels at 3 raw bytes each.
	raw, err := left.RawByteLen()
	require.NoError(t, err)
	assert.Equal(t, 540, raw)
	assert.Equal(t, 720, left.CanonicalByteLen())

	// STANDARD_LED channels are one raw byte each.
	spots, ok := r.Slave(2)
	require.True(t, ok)
	raw, err = spots.RawByteLen()
	require.NoError(t, err)
	assert.Equal(t, 8, raw)
	assert.Equal(t, 32, spots.CanonicalByteLen())
}

func TestOutputTypeOverride(t *testing.T) {
	s := &Slave{
		ID:      4,
		LEDType: "APA102C",
		Outputs: []Output{
			{Count: 10},
			{Count: 5, LEDType: "STANDARD_LED"},
		},
	}

	// 10 pixels at 3 bytes + 5 channels at 1 byte.
	raw, err := s.RawByteLen()
	require.NoError(t, err)
	assert.Equal(t, 35, raw)

	typ, err := s.Type(&s.Outputs[0])
	require.NoError(t, err)
	assert.Equal(t, pixel.APA102C, typ)

	typ, err = s.Type(&s.Outputs[1])
	require.NoError(t, err)
	assert.Equal(t, pixel.StandardLED, typ)
}
