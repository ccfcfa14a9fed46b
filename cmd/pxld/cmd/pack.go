package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/luxgrid/pxld/pkg/codec"
	"github.com/luxgrid/pxld/pkg/pxfile"
	"github.com/luxgrid/pxld/pkg/rig"
	"github.com/spf13/cobra"
)

// packCmd represents the pack command
var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Author a capture file from raw hardware capture",
	Long: `Author a .pxld capture file from per-slave raw capture files and a rig
document. The raw directory holds one slave<id>.raw file per rig slave,
each a back-to-back run of that slave's raw frame output; the rig's LED
types drive canonicalization, and every slave must cover the same number
of frames.

Examples:
  pxld pack --rig rig.yaml --raw ./captures -o show.pxld
  pxld pack --rig rig.yaml --raw ./captures -o show.pxld --fps 25 --udp-port 4055`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rigPath, _ := cmd.Flags().GetString("rig")
		rawDir, _ := cmd.Flags().GetString("raw")
		outPath, _ := cmd.Flags().GetString("output")
		fps, _ := cmd.Flags().GetUint8("fps")
		udpPort, _ := cmd.Flags().GetUint16("udp-port")

		rg, err := rig.Load(rigPath)
		if err != nil {
			return err
		}

		captures, frames, err := readRawCaptures(rg, rawDir)
		if err != nil {
			return err
		}

		w, err := pxfile.NewWriter(pxfile.WriterOptions{
			Path:    outPath,
			FPS:     fps,
			UDPPort: udpPort,
		})
		if err != nil {
			return err
		}

		for i := 0; i < frames; i++ {
			entries, pixels, err := frameFromCaptures(rg, captures, i)
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

		cmd.Printf("✅ Packed %s: %d frames, %d slaves, %d pixels per frame\n",
			outPath, frames, len(rg.Slaves), rg.PixelCount())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().String("rig", "", "Rig document describing the slaves (required)")
	packCmd.Flags().String("raw", "", "Directory of per-slave raw capture files (required)")
	packCmd.Flags().StringP("output", "o", "", "Output .pxld path (required)")
	packCmd.Flags().Uint8("fps", 40, "Declared playback frame rate")
	packCmd.Flags().Uint16("udp-port", 4050, "Declared playback UDP port hint")
	for _, flag := range []string{"rig", "raw", "output"} {
		if err := packCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}
}

// rawCapturePath names one slave's capture file inside the raw directory.
func rawCapturePath(dir string, slaveID uint8) string {
	return filepath.Join(dir, fmt.Sprintf("slave%d.raw", slaveID))
}

// readRawCaptures loads every rig slave's capture and derives the common frame
// count. Each file's size must be a whole multiple of that slave's per-frame
// raw length, and all slaves must cover the same number of frames.
func readRawCaptures(rg *rig.Rig, dir string) (map[uint8][]byte, int, error) {
	captures := make(map[uint8][]byte, len(rg.Slaves))
	frames := -1

	for i := range rg.Slaves {
		s := &rg.Slaves[i]

		perFrame, err := s.RawByteLen()
		if err != nil {
			return nil, 0, fmt.Errorf("slave %d: %w", s.ID, err)
		}
		path := rawCapturePath(dir, s.ID)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, fmt.Errorf("slave %d: %w", s.ID, err)
		}
		if len(data) == 0 || len(data)%perFrame != 0 {
			return nil, 0, fmt.Errorf("slave %d: %s is %d bytes, not a whole number of %d-byte frames",
				s.ID, path, len(data), perFrame)
		}

		n := len(data) / perFrame
		if frames == -1 {
			frames = n
		} else if n != frames {
			return nil, 0, fmt.Errorf("slave %d: %s covers %d frames, other slaves cover %d",
				s.ID, path, n, frames)
		}
		captures[s.ID] = data
	}
	return captures, frames, nil
}

// frameFromCaptures slices frame i out of every slave's capture and
// canonicalizes it into an appendable frame.
func frameFromCaptures(rg *rig.Rig, captures map[uint8][]byte, i int) ([]codec.SlaveEntry, []byte, error) {
	raw := make(map[uint8][]byte, len(rg.Slaves))
	for j := range rg.Slaves {
		s := &rg.Slaves[j]
		perFrame, err := s.RawByteLen()
		if err != nil {
			return nil, nil, fmt.Errorf("slave %d: %w", s.ID, err)
		}
		raw[s.ID] = captures[s.ID][i*perFrame : (i+1)*perFrame]
	}
	return pxfile.AuthorFrame(rg, raw)
}
