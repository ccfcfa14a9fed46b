package main

import (
	"github.com/spf13/cobra"
)

var solidCmd = &cobra.Command{
	Use:   "solid",
	Short: "Author a single-color show",
	Long: `Every pixel holds one color for the whole show.

Examples:
  pxldgen solid --color 255,0,0
  pxldgen solid --color 0,128,255 --seconds 3 -o blue.pxld`,
	RunE: func(cmd *cobra.Command, args []string) error {
		colorStr, _ := cmd.Flags().GetString("color")
		c, err := parseColor(colorStr)
		if err != nil {
			return err
		}
		return generate(showRig, frameCount(config.Seconds, config.FPS), func(i, p int) Color {
			return c
		})
	},
}

func init() {
	solidCmd.Flags().String("color", "255,0,0", "show color as R,G,B")
}
