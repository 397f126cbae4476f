package cmd

import (
	"github.com/MeKo-Tech/pagekit/internal/tools"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract text or images from PDFs",
}

var extractTextCmd = &cobra.Command{
	Use:   "text [files or folders...]",
	Short: "Write the text of each PDF to a .txt file",
	Long: `Write the text layer of each PDF to <timestamp>_<name>.txt, one
"--- Page N ---" section per page. Scanned documents without a text layer
are skipped.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := pageRanges(cmd)
		if err != nil {
			return err
		}
		return runTool(cmd, args, tools.NameExtractText, tools.PDFExtensions, tools.ExtractText(list))
	},
}

var extractImagesCmd = &cobra.Command{
	Use:          "images [files or folders...]",
	Short:        "Save the images embedded in each PDF",
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := pageRanges(cmd)
		if err != nil {
			return err
		}
		return runTool(cmd, args, tools.NameExtractImages, tools.PDFExtensions, tools.ExtractImages(list))
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert files to PDF",
}

var convertImagesCmd = &cobra.Command{
	Use:   "images [files or folders...]",
	Short: "Turn each image into a one-page PDF",
	Long: `Turn each JPEG, PNG, BMP or TIFF image into a PDF page of the same size.
Transparent areas are flattened onto white.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		quality, _ := cmd.Flags().GetInt("quality")
		fn, err := tools.ConvertImage(quality)
		if err != nil {
			return err
		}
		return runTool(cmd, args, tools.NameConvertImages, tools.ImageExtensions, fn)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd, convertCmd)
	extractCmd.AddCommand(extractTextCmd, extractImagesCmd)
	convertCmd.AddCommand(convertImagesCmd)

	extractTextCmd.Flags().StringP("pages", "p", "", "pages to read (default: all)")
	extractImagesCmd.Flags().StringP("pages", "p", "", "pages to read (default: all)")

	convertImagesCmd.Flags().Int("quality", 95, "JPEG quality of the embedded image (1-100)")
}
