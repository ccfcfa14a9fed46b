package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/luxgrid/pxld/pkg/pxfile"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show a capture file's header summary",
	Long: `Show a capture file's header summary: format version, frame geometry,
declared playback hints, and checksum state. The file is fully verified
before anything is printed.

Examples:
  pxld info show.pxld
  pxld info show.pxld --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		r, err := pxfile.Open(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		info := r.Info()
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintf(w, "Path:\t%s\n", info.Path)
		fmt.Fprintf(w, "Version:\t%s\n", info.Version)
		fmt.Fprintf(w, "Frames:\t%d\n", info.Frames)
		fmt.Fprintf(w, "Slaves:\t%d\n", info.Slaves)
		fmt.Fprintf(w, "Pixels per frame:\t%d\n", info.PixelsPerFrame)
		fmt.Fprintf(w, "FPS:\t%d\n", info.FPS)
		fmt.Fprintf(w, "UDP port:\t%d\n", info.UDPPort)
		fmt.Fprintf(w, "Duration:\t%s\n", time.Duration(info.DurationMS)*time.Millisecond)
		fmt.Fprintf(w, "Checksum:\t%s\n", info.Checksum)
		fmt.Fprintf(w, "Size:\t%d bytes\n", info.SizeBytes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().Bool("json", false, "Print machine-readable JSON")
}
