package cmd

import (
	"github.com/MeKo-Tech/pagekit/internal/tools"
	"github.com/spf13/cobra"
)

var compressCmd = &cobra.Command{
	Use:   "compress [files or folders...]",
	Short: "Rewrite each PDF optimized for size",
	Long: `Rewrite each PDF with duplicate objects removed and streams recompressed.
With --quality the embedded JPEG images are also re-encoded at that quality;
an image is only replaced when it gets smaller.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		quality := currentConfig().Compress.ImageQuality
		if cmd.Flags().Changed("quality") {
			quality, _ = cmd.Flags().GetInt("quality")
		}

		fn, err := tools.Compress(quality)
		if err != nil {
			return err
		}
		return runTool(cmd, args, tools.NameCompress, tools.PDFExtensions, fn)
	},
}

var repairCmd = &cobra.Command{
	Use:   "repair [files or folders...]",
	Short: "Rewrite damaged PDFs into readable ones",
	Long: `Try to recover each PDF: first a relaxed read and rewrite, then a full
optimization pass. The first strategy that yields a readable document wins.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, args, tools.NameRepair, tools.PDFExtensions, tools.Repair())
	},
}

func init() {
	compressCmd.Flags().Int("quality", 0, "re-encode embedded JPEG images at this quality (1-100, 0 keeps them)")

	rootCmd.AddCommand(compressCmd, repairCmd)
}
