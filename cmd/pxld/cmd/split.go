package cmd

import (
	"github.com/luxgrid/pxld/pkg/pxfile"
	"github.com/spf13/cobra"
)

// splitCmd represents the split command
var splitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Split a capture into per-slave raw files",
	Long: `Split every slave's pixel stream out of a capture file, one raw .bin
per slave, each verified after writing.

Examples:
  pxld split show.pxld
  pxld split show.pxld -d ./captures`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")

		r, err := pxfile.Open(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		paths, err := pxfile.SplitAll(r, dir)
		if err != nil {
			return err
		}
		for _, path := range paths {
			records, err := pxfile.VerifyRawCapture(path)
			if err != nil {
				return err
			}
			cmd.Printf("✅ %s (%d pixel records)\n", path, records)
		}

		frames, fps, duration := pxfile.RangeInfo(r)
		cmd.Printf("Split %d slaves from %d frames (%d fps, %s)\n",
			len(paths), frames, fps, duration)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().StringP("dir", "d", ".", "Directory to write the raw files into")
}
