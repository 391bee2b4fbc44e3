package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/pkg/ui"
)

var (
	histogramBrightness int
	histogramContrast   int
	histogramOutput     string
	histogramOpen       bool
)

var histogramCmd = &cobra.Command{
	Use:     "histogram [image]",
	Aliases: []string{"hist"},
	Short:   "Render RGB histograms of the original and adjusted image (alias: hist)",
	Long: `Write an HTML page with per-channel histograms of the original image and
the image after applying brightness and contrast.

The page is written to the cache (or histogram_dir from the config) unless
--output is given.

Examples:
  lumi histogram photo.jpg -c 80
  lumi hist photo.jpg -b 30 -o report.html --open`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistogram,
}

func init() {
	histogramCmd.Flags().IntVarP(&histogramBrightness, "brightness", "b", domain.NeutralValue, "Brightness (0-100)")
	histogramCmd.Flags().IntVarP(&histogramContrast, "contrast", "c", domain.NeutralValue, "Contrast (0-100)")
	histogramCmd.Flags().StringVarP(&histogramOutput, "output", "o", "", "Output HTML file")
	histogramCmd.Flags().BoolVar(&histogramOpen, "open", false, "Open the page in the default browser")
}

func runHistogram(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	path, err := imageArg(ctx, args, "Histogram")
	if err != nil {
		if err == errPickerAborted {
			return nil
		}
		return err
	}

	doc, err := documentService.Open(ctx, path)
	if err != nil {
		return err
	}
	if err := applyAdjustments(doc, histogramBrightness, histogramContrast); err != nil {
		return err
	}

	report, err := histogramService.Report(doc)
	if err != nil {
		return err
	}

	output, err := histogramOutputPath(doc.Name)
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := histogramService.Render(f, report); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Println(ui.FormatSaved(output))
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Average brightness %d → %d",
		report.Original.Brightness, report.Edited.Brightness)))

	if histogramOpen {
		return OpenFile(output)
	}
	return nil
}

func histogramOutputPath(name string) (string, error) {
	if histogramOutput != "" {
		return histogramOutput, nil
	}

	filename := strings.TrimSuffix(name, filepath.Ext(name)) + "-histogram.html"
	if appConfig.HistogramDir != "" {
		if err := os.MkdirAll(appConfig.HistogramDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create histogram directory: %w", err)
		}
		return filepath.Join(appConfig.HistogramDir, filename), nil
	}

	if err := appDirs.Initialize(); err != nil {
		return "", err
	}
	return appDirs.GetHistogramPath(filename), nil
}
