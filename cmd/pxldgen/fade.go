package main

import (
	"github.com/spf13/cobra"
)

var fadeCmd = &cobra.Command{
	Use:   "fade",
	Short: "Author a fade-in show",
	Long: `All pixels ramp together from black to the target color across the
show's length.

Examples:
  pxldgen fade --color 255,255,255 --seconds 5
  pxldgen fade --color 0,255,0 --fps 25 -o green-fade.pxld`,
	RunE: func(cmd *cobra.Command, args []string) error {
		colorStr, _ := cmd.Flags().GetString("color")
		c, err := parseColor(colorStr)
		if err != nil {
			return err
		}
		frames := frameCount(config.Seconds, config.FPS)
		return generate(showRig, frames, func(i, p int) Color {
			level := 1.0
			if frames > 1 {
				level = float64(i) / float64(frames-1)
			}
			return c.scale(level)
		})
	},
}

func init() {
	fadeCmd.Flags().String("color", "255,255,255", "target color as R,G,B")
}
