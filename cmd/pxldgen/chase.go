package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chaseCmd = &cobra.Command{
	Use:   "chase",
	Short: "Author a chase show",
	Long: `A lit window runs along the rig's pixels, one pixel per frame,
wrapping at the end. Pixels behind the head taper off across the
window's width.

Examples:
  pxldgen chase --color 255,0,255 --width 5
  pxldgen chase --width 3 --seconds 4 --fps 25 -o chase.pxld`,
	RunE: func(cmd *cobra.Command, args []string) error {
		colorStr, _ := cmd.Flags().GetString("color")
		c, err := parseColor(colorStr)
		if err != nil {
			return err
		}
		width, _ := cmd.Flags().GetInt("width")
		if width <= 0 {
			return fmt.Errorf("window width must be at least 1 (got %d)", width)
		}
		total := showRig.PixelCount()
		return generate(showRig, frameCount(config.Seconds, config.FPS), func(i, p int) Color {
			head := i % total
			d := (head - p + total) % total // pixels behind the head
			if d < width {
				return c.scale(1 - float64(d)/float64(width))
			}
			return Color{}
		})
	},
}

func init() {
	chaseCmd.Flags().String("color", "255,0,255", "chase color as R,G,B")
	chaseCmd.Flags().Int("width", 3, "lit window width in pixels")
}
