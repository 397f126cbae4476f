package cmd

import (
	"errors"

	"github.com/MeKo-Tech/pagekit/internal/tools"
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select [files or folders...]",
	Short: "Keep only the selected pages of each PDF",
	Long: `Write a copy of each PDF holding only the selected pages, in the order
given. Pages may repeat. Ranges outside a document are skipped with a
warning; a document without any valid range is skipped.

Examples:
  pagekit select --pages "1-3,7"
  pagekit select --pages "5,1,1" report.pdf`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := pageRanges(cmd)
		if err != nil {
			return err
		}
		if list == nil {
			return errors.New("--pages is required")
		}
		fn, err := tools.Select(list)
		if err != nil {
			return err
		}
		return runTool(cmd, args, tools.NameSelect, tools.PDFExtensions, fn)
	},
}

var rotateCmd = &cobra.Command{
	Use:   "rotate [files or folders...]",
	Short: "Rotate pages clockwise",
	Long: `Set the rotation of pages of each PDF to 90, 180 or 270 degrees clockwise.
The rotation replaces any rotation a page already has. Without --pages every
page is rotated.

Examples:
  pagekit rotate --degrees 90
  pagekit rotate --degrees 180 --pages "2-4" scan.pdf`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := pageRanges(cmd)
		if err != nil {
			return err
		}
		degrees, _ := cmd.Flags().GetInt("degrees")
		fn, err := tools.Rotate(degrees, list)
		if err != nil {
			return err
		}
		return runTool(cmd, args, tools.NameRotate, tools.PDFExtensions, fn)
	},
}

var splitCmd = &cobra.Command{
	Use:   "split [files or folders...]",
	Short: "Split each PDF into parts of N pages",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		span, _ := cmd.Flags().GetInt("span")
		fn, err := tools.Split(span)
		if err != nil {
			return err
		}
		return runTool(cmd, args, tools.NameSplit, tools.PDFExtensions, fn)
	},
	SilenceUsage: true,
}

var mergeCmd = &cobra.Command{
	Use:   "merge [files or folders...]",
	Short: "Merge all PDFs into one document",
	Long: `Concatenate every input PDF into a single <timestamp>_merged_pdf.pdf,
ordered by file name or by modification time.

Examples:
  pagekit merge
  pagekit merge --sort date chapters/`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		sortBy, _ := cmd.Flags().GetString("sort")
		fn, err := tools.Merge(sortBy)
		if err != nil {
			return err
		}
		return runGroupTool(cmd, args, tools.NameMerge, tools.PDFExtensions, fn)
	},
}

func init() {
	rootCmd.AddCommand(selectCmd, rotateCmd, splitCmd, mergeCmd)

	selectCmd.Flags().StringP("pages", "p", "", `pages to keep, 1-based (e.g. "1-3,7,5")`)

	rotateCmd.Flags().IntP("degrees", "d", 90, "clockwise rotation (90, 180, 270)")
	rotateCmd.Flags().StringP("pages", "p", "", "pages to rotate (default: all)")

	splitCmd.Flags().IntP("span", "n", 1, "pages per part")

	mergeCmd.Flags().String("sort", tools.SortByFilename, "merge order (filename, date)")
}
