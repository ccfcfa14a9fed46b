package cmd

import (
	"fmt"
	"os"

	"github.com/luxgrid/pxld/pkg/pxfile"
	"github.com/spf13/cobra"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract one slave's raw pixel stream",
	Long: `Extract one slave's canonical pixel bytes across a frame range,
concatenated in playback order. Without -o the output lands next to the
working directory under the standard split name; --to -1 means the end
of the file.

Examples:
  pxld extract show.pxld --slave 3
  pxld extract show.pxld --slave 3 --from 100 --to 200 -o wall.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slaveID, _ := cmd.Flags().GetUint8("slave")
		from, _ := cmd.Flags().GetUint32("from")
		to, _ := cmd.Flags().GetInt64("to")
		outPath, _ := cmd.Flags().GetString("output")

		r, err := pxfile.Open(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		end := r.FrameCount()
		if to >= 0 {
			end = uint32(to)
		}

		if outPath == "" {
			path, err := pxfile.SplitSlave(r, slaveID, from, end, ".")
			if err != nil {
				return err
			}
			records, err := pxfile.VerifyRawCapture(path)
			if err != nil {
				return err
			}
			cmd.Printf("✅ Wrote %s (%d pixel records)\n", path, records)
			return nil
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		n, err := pxfile.ExtractSlave(r, slaveID, from, end, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		cmd.Printf("✅ Wrote %s (%d bytes)\n", outPath, n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().Uint8("slave", 0, "Slave id to extract (required)")
	extractCmd.Flags().Uint32("from", 0, "First frame id")
	extractCmd.Flags().Int64("to", -1, "Frame id to stop before (-1 for end of file)")
	extractCmd.Flags().StringP("output", "o", "", "Output path (default: standard split name in the working directory)")
	if err := extractCmd.MarkFlagRequired("slave"); err != nil {
		panic(err)
	}
}
