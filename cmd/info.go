package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/pkg/metadata"
	"github.com/kamal-hamza/lumi-cli/pkg/ui"
)

var infoStrict bool

var infoCmd = &cobra.Command{
	Use:   "info [image]",
	Short: "Show dimensions, format and average brightness of an image",
	Long: `Read the image header and pixels and print a summary.

The image can be a path or a name (fuzzy matched) inside the image folder.
Without an argument a picker is shown.

Examples:
  lumi info photo.jpg
  lumi info sunset --strict`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoStrict, "strict", false, "Fail when the header is suspicious (size limit)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	path, err := imageArg(ctx, args, "Image info")
	if err != nil {
		if err == errPickerAborted {
			return nil
		}
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	parser := metadata.NewParser(infoStrict, appConfig.MaxImagePixels)
	result, err := parser.Parse(f, filepath.Base(path))
	if err != nil {
		for _, e := range result.Errors {
			fmt.Println(ui.FormatError(e.Error()))
		}
		return err
	}
	for _, w := range result.Warnings {
		fmt.Println(ui.FormatWarning(w))
	}

	// Oversized images still get their header summary, just no pixel statistics
	brightness := "skipped (over max_image_pixels)"
	doc, err := documentService.Open(ctx, path)
	switch {
	case errors.Is(err, domain.ErrImageTooLarge):
	case err != nil:
		return err
	default:
		stats, err := documentService.Stats(doc)
		if err != nil {
			return err
		}
		brightness = fmt.Sprintf("%d / 255", stats.OriginalBrightness)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	file := domain.ImageFile{Name: filepath.Base(path), Size: info.Size(), ModTime: info.ModTime()}

	fmt.Println(ui.FormatTitle(ui.IconImage + " " + file.Name))
	fmt.Println()
	fmt.Print(ui.RenderKeyValues([][2]string{
		{"Path", path},
		{"Format", result.Metadata.Format},
		{"Dimensions", fmt.Sprintf("%d x %d", result.Metadata.Width, result.Metadata.Height)},
		{"Color model", result.Metadata.ColorModel},
		{"Size", file.GetDisplaySize()},
		{"Modified", file.GetDisplayDate(appConfig.DateFormat)},
		{"Brightness", brightness},
	}))
	return nil
}
