package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/services"
	"github.com/kamal-hamza/lumi-cli/pkg/preview"
	"github.com/kamal-hamza/lumi-cli/pkg/ui"
)

var (
	adjustBrightness int
	adjustContrast   int
	adjustOutput     string
	adjustPreview    bool
	adjustCopy       bool
	adjustForce      bool
	adjustDryRun     bool
)

var adjustCmd = &cobra.Command{
	Use:   "adjust [image]",
	Short: "Apply brightness and contrast and save a copy",
	Long: `Render an image with the given brightness and contrast and write the result
to a new file. The source image is never overwritten.

Both values range from 0 to 100; 50 leaves the channel unchanged.
Out-of-range values are clamped.

Examples:
  lumi adjust photo.jpg -b 70 -c 60
  lumi adjust photo.jpg -c 80 -o out.png --force
  lumi adjust photo.jpg -b 30 --preview --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdjust,
}

func init() {
	adjustCmd.Flags().IntVarP(&adjustBrightness, "brightness", "b", domain.NeutralValue, "Brightness (0-100)")
	adjustCmd.Flags().IntVarP(&adjustContrast, "contrast", "c", domain.NeutralValue, "Contrast (0-100)")
	adjustCmd.Flags().StringVarP(&adjustOutput, "output", "o", "", "Output file (default: <name>-edited.<output_format>)")
	adjustCmd.Flags().BoolVarP(&adjustPreview, "preview", "p", false, "Print a terminal preview of the result")
	adjustCmd.Flags().BoolVar(&adjustCopy, "copy", false, "Copy the output path to the clipboard")
	adjustCmd.Flags().BoolVarP(&adjustForce, "force", "f", false, "Overwrite an existing output file")
	adjustCmd.Flags().BoolVarP(&adjustDryRun, "dry-run", "n", false, "Do not write any file")
}

func runAdjust(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	path, err := imageArg(ctx, args, "Adjust image")
	if err != nil {
		if err == errPickerAborted {
			return nil
		}
		return err
	}

	doc, err := documentService.Open(ctx, path)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to load image"))
		return err
	}

	if err := applyAdjustments(doc, adjustBrightness, adjustContrast); err != nil {
		return err
	}

	stats, err := documentService.Stats(doc)
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatInfo(fmt.Sprintf("%s  %s %d  %s %d  (avg %d → %d)",
		doc.Name,
		ui.IconSun, doc.PropertyValue(domain.Brightness),
		ui.IconContrast, doc.PropertyValue(domain.Contrast),
		stats.OriginalBrightness, stats.EditedBrightness)))

	if adjustPreview {
		cols, rows := terminalSize()
		if appConfig.PreviewWidth > 0 && appConfig.PreviewWidth < cols {
			cols = appConfig.PreviewWidth
		}
		fmt.Println(preview.String(doc.Edited(), cols, rows-4))
	}

	if adjustDryRun {
		fmt.Println(ui.FormatMuted("Dry run: nothing written"))
		return nil
	}

	output := adjustOutput
	if output == "" {
		output = defaultOutputPath(doc.Path, appConfig.OutputFormat)
	}

	if err := documentService.Save(ctx, doc, services.SaveRequest{
		Output:    output,
		Overwrite: adjustForce,
	}); err != nil {
		fmt.Println(ui.FormatError("Failed to save"))
		return err
	}
	fmt.Println(ui.FormatSaved(output))

	if adjustCopy {
		if err := clipboard.WriteAll(output); err != nil {
			fmt.Println(ui.FormatMuted("(Clipboard access failed)"))
		} else {
			fmt.Println(ui.FormatMuted("Path copied to clipboard"))
		}
	}

	return nil
}
