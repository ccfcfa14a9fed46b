package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/luxgrid/pxld/pkg/codec"
	"github.com/luxgrid/pxld/pkg/pxfile"
	"github.com/spf13/cobra"
)

// framesCmd represents the frames command
var framesCmd = &cobra.Command{
	Use:   "frames <file>",
	Short: "List frame metadata",
	Long: `List per-frame metadata: ordinal id, derived playback timestamp, slave
count, and pixel buffer size. The range is half-open; --to -1 means the
end of the file.

Examples:
  pxld frames show.pxld
  pxld frames show.pxld --from 100 --to 200`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetUint32("from")
		to, _ := cmd.Flags().GetInt64("to")

		r, err := pxfile.Open(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		end := r.FrameCount()
		if to >= 0 {
			end = uint32(to)
		}
		if from > end || end > r.FrameCount() {
			return fmt.Errorf("invalid frame range [%d, %d): file has %d frames",
				from, end, r.FrameCount())
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintln(w, "ID\tTIMESTAMP\tSLAVES\tPIXEL BYTES\tFLAGS")
		for id := from; id < end; id++ {
			fh, err := r.ReadFrameHeader(id)
			if err != nil {
				return fmt.Errorf("frame %d: %w", id, err)
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t0x%04x\n",
				fh.FrameID,
				r.Timestamp(fh.FrameID),
				fh.SlaveTableSize/codec.SlaveEntrySize,
				fh.PixelDataSize,
				fh.Flags)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(framesCmd)
	framesCmd.Flags().Uint32("from", 0, "First frame id to list")
	framesCmd.Flags().Int64("to", -1, "Frame id to stop before (-1 for end of file)")
}
