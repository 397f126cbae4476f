package cmd

import (
	"errors"
	"math"

	"github.com/MeKo-Tech/pagekit/internal/geometry"
	"github.com/MeKo-Tech/pagekit/internal/tools"
	"github.com/spf13/cobra"
)

var numberCmd = &cobra.Command{
	Use:   "number [files or folders...]",
	Short: "Stamp page numbers in a corner",
	Long: `Stamp the 1-based page number on every page (or on --pages) of each PDF.
Position, margin and font size default to the pages section of the
configuration.

Examples:
  pagekit number
  pagekit number --position top-left --margin 20 --font-size 10`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := pageRanges(cmd)
		if err != nil {
			return err
		}
		cfg := currentConfig()

		position := cfg.Pages.Position
		if cmd.Flags().Changed("position") {
			position, _ = cmd.Flags().GetString("position")
		}
		corner, err := geometry.ParseCorner(position)
		if err != nil {
			return err
		}

		margin := cfg.Pages.Margin
		if cmd.Flags().Changed("margin") {
			margin, _ = cmd.Flags().GetFloat64("margin")
		}
		fontSize := cfg.Pages.FontSize
		if cmd.Flags().Changed("font-size") {
			fontSize, _ = cmd.Flags().GetFloat64("font-size")
		}
		if fontSize <= 0 {
			return errors.New("--font-size must be positive")
		}

		fn, err := tools.Number(tools.NumberOptions{
			Corner:   corner,
			Margin:   margin,
			FontSize: int(math.Round(fontSize)),
			Ranges:   list,
		})
		if err != nil {
			return err
		}
		return runTool(cmd, args, tools.NameNumber, tools.PDFExtensions, fn)
	},
}

var resizeCmd = &cobra.Command{
	Use:   "resize [files or folders...]",
	Short: "Fit every page onto a standard paper size",
	Long: `Scale the content of every page uniformly so it fits the target paper
size, centered, and set the page size to the target.

Examples:
  pagekit resize --size a4
  pagekit resize --size letter scans/`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		size := currentConfig().Pages.Size
		if cmd.Flags().Changed("size") {
			size, _ = cmd.Flags().GetString("size")
		}
		fn, err := tools.Resize(size)
		if err != nil {
			return err
		}
		return runTool(cmd, args, tools.NameResize, tools.PDFExtensions, fn)
	},
}

var watermarkCmd = &cobra.Command{
	Use:   "watermark [files or folders...]",
	Short: "Place an image behind the content of every page",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()

		image := cfg.Watermark.Image
		if cmd.Flags().Changed("image") {
			image, _ = cmd.Flags().GetString("image")
		}
		if image == "" {
			return errors.New("--image is required")
		}
		opacity := cfg.Watermark.Opacity
		if cmd.Flags().Changed("opacity") {
			opacity, _ = cmd.Flags().GetFloat64("opacity")
		}
		maxPixels := cfg.Watermark.MaxPixels
		if cmd.Flags().Changed("max-pixels") {
			maxPixels, _ = cmd.Flags().GetInt("max-pixels")
		}

		fn, cleanup, err := tools.Watermark(image, opacity, maxPixels)
		if err != nil {
			return err
		}
		defer cleanup()
		return runTool(cmd, args, tools.NameWatermark, tools.PDFExtensions, fn)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(numberCmd, resizeCmd, watermarkCmd)

	numberCmd.Flags().String("position", geometry.BottomRight.String(), "corner for the number (top-left, top-right, bottom-left, bottom-right)")
	numberCmd.Flags().Float64("margin", geometry.DefaultMargin, "distance from the page edges in points")
	numberCmd.Flags().Float64("font-size", 12, "font size in points")
	numberCmd.Flags().StringP("pages", "p", "", "pages to number (default: all)")

	resizeCmd.Flags().StringP("size", "s", "a4", "target paper size (a4, letter)")

	watermarkCmd.Flags().String("image", "", "watermark image (jpg, png, bmp, tiff)")
	watermarkCmd.Flags().Float64("opacity", 0.5, "watermark opacity between 0 and 1")
	watermarkCmd.Flags().Int("max-pixels", 2000, "downscale the image so neither side exceeds this (0 keeps it)")
}
