package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/luxgrid/pxld/pkg/codec"
	"github.com/luxgrid/pxld/pkg/pxfile"
	"github.com/luxgrid/pxld/pkg/rig"
	"github.com/spf13/cobra"
)

// slavesCmd represents the slaves command
var slavesCmd = &cobra.Command{
	Use:   "slaves <file>",
	Short: "Show a frame's slave table",
	Long: `Show the slave table of one frame: controller ids, logical channel
spans, and pixel data extents. With --rig the table is also reconciled
against a rig document, reporting every disagreement between what the
file carries and what the rig wires.

Examples:
  pxld slaves show.pxld
  pxld slaves show.pxld --frame 120 --rig rig.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		frameID, _ := cmd.Flags().GetUint32("frame")
		rigPath, _ := cmd.Flags().GetString("rig")

		r, err := pxfile.Open(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		frame, err := r.ReadFrame(frameID)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCHANNEL START\tCHANNELS\tPIXELS\tDATA OFFSET\tDATA BYTES")
		for _, e := range frame.Slaves {
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\n",
				e.SlaveID, e.ChannelStart, e.ChannelCount, e.PixelCount, e.DataOffset, e.DataLength)
		}
		w.Flush()

		if rigPath == "" {
			return nil
		}

		rg, err := rig.Load(rigPath)
		if err != nil {
			return err
		}
		findings := reconcileRig(rg, frame)
		if len(findings) == 0 {
			cmd.Printf("✅ Slave table matches %s\n", rigPath)
			return nil
		}
		for _, f := range findings {
			cmd.Printf("⚠️  %s\n", f)
		}
		return fmt.Errorf("%d finding(s) against %s", len(findings), rigPath)
	},
}

func init() {
	rootCmd.AddCommand(slavesCmd)
	slavesCmd.Flags().Uint32("frame", 0, "Frame id to inspect")
	slavesCmd.Flags().String("rig", "", "Rig document to reconcile against")
}

// reconcileRig compares a frame's slave table with the rig document, in table
// order first, then rig order for slaves the file is missing.
func reconcileRig(rg *rig.Rig, frame *codec.Frame) []string {
	var findings []string

	seen := make(map[uint8]bool, len(frame.Slaves))
	for _, e := range frame.Slaves {
		seen[e.SlaveID] = true

		s, ok := rg.Slave(e.SlaveID)
		if !ok {
			findings = append(findings, fmt.Sprintf("slave %d present in file but not in rig", e.SlaveID))
			continue
		}
		if int(e.PixelCount) != s.PixelCount() {
			findings = append(findings, fmt.Sprintf("slave %d: file has %d pixels, rig declares %d",
				e.SlaveID, e.PixelCount, s.PixelCount()))
		}
		if int(e.DataLength) != s.CanonicalByteLen() {
			findings = append(findings, fmt.Sprintf("slave %d: file carries %d data bytes, rig expects %d",
				e.SlaveID, e.DataLength, s.CanonicalByteLen()))
		}
		if channels, err := s.RawByteLen(); err == nil && int(e.ChannelCount) != channels {
			findings = append(findings, fmt.Sprintf("slave %d: file declares %d channels, rig wires %d",
				e.SlaveID, e.ChannelCount, channels))
		}
	}

	for _, id := range rg.SlaveIDs() {
		if !seen[id] {
			findings = append(findings, fmt.Sprintf("slave %d configured in rig but absent from file", id))
		}
	}
	return findings
}
