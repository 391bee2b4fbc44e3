package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"golang.org/x/term"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/services"
	"github.com/kamal-hamza/lumi-cli/pkg/metadata"
)

// errPickerAborted is returned when the user closes the fuzzy picker
var errPickerAborted = errors.New("no image selected")

// GetPreferredEditor returns the editor command from env or default
func GetPreferredEditor() string {
	if env := os.Getenv("VISUAL"); env != "" {
		return env
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// OpenFile opens a file with the OS default application.
func OpenFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	// Start() detaches so lumi can exit while the viewer stays open
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}
	return nil
}

// resolveImagePath turns a CLI argument into an image path.
// Existing files are used as given; anything else is looked up in the image folder.
func resolveImagePath(ctx context.Context, query string) (string, error) {
	if info, err := os.Stat(query); err == nil && !info.IsDir() {
		return query, nil
	}

	file, err := listService.Resolve(ctx, query)
	if err != nil {
		return "", err
	}
	return file.Path, nil
}

// pickImage lets the user choose an image from the folder with a fuzzy finder
func pickImage(ctx context.Context, header string) (string, error) {
	resp, err := listService.Execute(ctx, services.ListRequest{SortBy: appConfig.DefaultSort})
	if err != nil {
		return "", err
	}
	if resp.Total == 0 {
		return "", fmt.Errorf("no images found in %s", resp.Root)
	}

	idx, err := fuzzyfinder.Find(
		resp.Images,
		func(i int) string { return resp.Images[i].Name },
		fuzzyfinder.WithHeader(header),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			f := resp.Images[i]
			summary := ""
			if m, err := metadata.Extract(f.Path); err == nil {
				summary = metadata.Format(m)
			}
			return fmt.Sprintf("%s\n\n%s\n%s\n%s",
				f.Name, summary, f.GetDisplaySize(), f.GetDisplayDate(appConfig.DateFormat))
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", errPickerAborted
		}
		return "", err
	}
	return resp.Images[idx].Path, nil
}

// imageArg resolves the optional first argument, falling back to the picker
func imageArg(ctx context.Context, args []string, header string) (string, error) {
	if len(args) > 0 {
		return resolveImagePath(ctx, args[0])
	}
	return pickImage(ctx, header)
}

// applyAdjustments sets brightness and contrast in one recompute
func applyAdjustments(doc *domain.Document, brightness, contrast int) error {
	return documentService.Apply(doc, map[domain.PropertyID]int{
		domain.Brightness: brightness,
		domain.Contrast:   contrast,
	})
}

// defaultOutputPath derives "<dir>/<stem>-edited.<format>" next to the source
func defaultOutputPath(src, format string) string {
	ext := filepath.Ext(src)
	stem := strings.TrimSuffix(filepath.Base(src), ext)
	if format == "" {
		format = "png"
	}
	return filepath.Join(filepath.Dir(src), stem+"-edited."+format)
}

// terminalSize returns the usable preview area in cells
func terminalSize() (int, int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80, 24
	}
	w, h, err := term.GetSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// truncate shortens a string to maxLen runes
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
