package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/services"
	"github.com/kamal-hamza/lumi-cli/pkg/ui"
)

var (
	watchBrightness int
	watchContrast   int
	watchOutput     string
	watchQuiet      bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [image]",
	Short: "Re-render an adjusted copy whenever the source image changes",
	Long: `Watch an image and write an adjusted copy each time it is saved.

Changes are debounced (watch_debounce_ms in the config) so editors that write
in several steps trigger a single render. The output is overwritten each time.

Examples:
  lumi watch scan.png -b 60 -c 70 -o scan-bright.png
  lumi watch            # pick the image interactively`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVarP(&watchBrightness, "brightness", "b", domain.NeutralValue, "Brightness (0-100)")
	watchCmd.Flags().IntVarP(&watchContrast, "contrast", "c", domain.NeutralValue, "Contrast (0-100)")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Output file (default: <name>-edited.<output_format>)")
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Suppress render notifications")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(getContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := imageArg(ctx, args, "Watch image")
	if err != nil {
		if err == errPickerAborted {
			return nil
		}
		return err
	}

	output := watchOutput
	if output == "" {
		output = defaultOutputPath(path, appConfig.OutputFormat)
	}

	r := &watchRenderer{
		source:     path,
		output:     output,
		brightness: watchBrightness,
		contrast:   watchContrast,
	}

	// Initial render so the output exists before the first change
	if err := r.render(ctx); err != nil {
		return err
	}
	if !watchQuiet {
		fmt.Println(ui.FormatSaved(output))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: many editors replace the file instead of writing to it
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	if !watchQuiet {
		fmt.Println(ui.FormatInfo("Watching " + path))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
	}

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	var debounceTimer *time.Timer
	renderCh := make(chan struct{}, 1)
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, func() {
					select {
					case renderCh <- struct{}{}:
					default:
					}
				})
			}

		case <-renderCh:
			if err := r.render(ctx); err != nil {
				if !watchQuiet {
					fmt.Println(ui.FormatError("Render failed: " + err.Error()))
				}
				log.Printf("watch: %v", err)
				continue
			}
			if !watchQuiet {
				fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s Re-rendered %s", time.Now().Format("15:04:05"), filepath.Base(output))))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: watcher error: %v", err)
		}
	}
}

// watchRenderer reloads the source and writes the adjusted copy
type watchRenderer struct {
	source     string
	output     string
	brightness int
	contrast   int
}

func (r *watchRenderer) render(ctx context.Context) error {
	doc, err := documentService.Open(ctx, r.source)
	if err != nil {
		return err
	}
	if err := applyAdjustments(doc, r.brightness, r.contrast); err != nil {
		return err
	}
	return documentService.Save(ctx, doc, services.SaveRequest{Output: r.output, Overwrite: true})
}
