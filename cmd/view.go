package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/services"
	"github.com/kamal-hamza/lumi-cli/pkg/preview"
)

var viewCmd = &cobra.Command{
	Use:   "view [image]",
	Short: "Full-screen true-colour viewer with live adjustments",
	Long: `Show an image full screen in the terminal and adjust it live.

Without an argument a fuzzy picker is shown.

Keys:
  b / B       Brightness down / up
  c / C       Contrast down / up
  o           Toggle original / edited
  r           Reset edits
  n / p       Next / previous image in the folder
  s           Save a copy
  q / Esc     Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func runView(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	path, err := imageArg(ctx, args, "View image")
	if err != nil {
		if err == errPickerAborted {
			return nil
		}
		return err
	}

	resp, err := listService.Execute(ctx, services.ListRequest{SortBy: appConfig.DefaultSort})
	if err != nil {
		return err
	}

	viewer, err := NewImageViewer(resp.Images, path)
	if err != nil {
		return fmt.Errorf("failed to start viewer: %w", err)
	}
	return viewer.Run()
}

// ImageViewer draws a document with half-block cells on a tcell screen
type ImageViewer struct {
	screen       tcell.Screen
	images       []domain.ImageFile
	index        int
	doc          *domain.Document
	showOriginal bool
	status       string
	width        int
	height       int
}

// NewImageViewer opens path and prepares the screen
func NewImageViewer(images []domain.ImageFile, path string) (*ImageViewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	v := newImageViewer(screen, images, path)
	if err := v.load(path); err != nil {
		screen.Fini()
		return nil, err
	}
	return v, nil
}

func newImageViewer(screen tcell.Screen, images []domain.ImageFile, path string) *ImageViewer {
	width, height := screen.Size()
	v := &ImageViewer{
		screen: screen,
		images: images,
		index:  -1,
		width:  width,
		height: height,
	}
	abs, _ := filepath.Abs(path)
	for i, f := range images {
		if p, _ := filepath.Abs(f.Path); p == abs {
			v.index = i
			break
		}
	}
	return v
}

func (v *ImageViewer) load(path string) error {
	doc, err := documentService.Open(getContext(), path)
	if err != nil {
		return err
	}
	v.doc = doc
	v.showOriginal = false
	v.status = ""
	return nil
}

// Run starts the event loop
func (v *ImageViewer) Run() error {
	defer v.screen.Fini()

	v.render()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.width, v.height = ev.Size()
			v.screen.Sync()
			v.render()

		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}
			v.handleKeyPress(ev)
			v.render()
		}
	}
}

func (v *ImageViewer) handleKeyPress(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRight:
		v.step(1)
		return
	case tcell.KeyLeft:
		v.step(-1)
		return
	}

	switch ev.Rune() {
	case 'b':
		v.nudge(domain.Brightness, -appConfig.BrightnessStep)
	case 'B':
		v.nudge(domain.Brightness, appConfig.BrightnessStep)
	case 'c':
		v.nudge(domain.Contrast, -appConfig.ContrastStep)
	case 'C':
		v.nudge(domain.Contrast, appConfig.ContrastStep)
	case 'o':
		v.showOriginal = !v.showOriginal
	case 'r':
		documentService.Reset(v.doc)
		v.status = "reset"
	case 'n':
		v.step(1)
	case 'p':
		v.step(-1)
	case 's':
		output := defaultOutputPath(v.doc.Path, appConfig.OutputFormat)
		if err := documentService.Save(getContext(), v.doc, services.SaveRequest{Output: output, Overwrite: true}); err != nil {
			v.status = "save failed: " + err.Error()
		} else {
			v.status = "saved " + filepath.Base(output)
		}
	}
}

func (v *ImageViewer) nudge(id domain.PropertyID, delta int) {
	if err := documentService.SetProperty(v.doc, id, v.doc.PropertyValue(id)+delta); err != nil {
		v.status = err.Error()
		return
	}
	v.showOriginal = false
}

// step moves to the next or previous image in the folder, wrapping around
func (v *ImageViewer) step(delta int) {
	if len(v.images) == 0 {
		return
	}
	next := (v.index + delta + len(v.images)) % len(v.images)
	if v.index < 0 {
		next = 0
	}
	if err := v.load(v.images[next].Path); err != nil {
		v.status = err.Error()
		return
	}
	v.index = next
}

func (v *ImageViewer) render() {
	v.screen.Clear()

	img := v.doc.Edited()
	label := "edited"
	if v.showOriginal {
		img = v.doc.Original()
		label = "original"
	}

	grid := preview.Build(img, v.width, v.height-2)
	offsetX := (v.width - grid.Cols) / 2
	if offsetX < 0 {
		offsetX = 0
	}
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			c := grid.At(col, row)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(c.Top.R), int32(c.Top.G), int32(c.Top.B))).
				Background(tcell.NewRGBColor(int32(c.Bottom.R), int32(c.Bottom.G), int32(c.Bottom.B)))
			v.screen.SetContent(offsetX+col, row, '▀', nil, style)
		}
	}

	info := fmt.Sprintf(" %s │ brightness %d │ contrast %d │ %s",
		v.doc.Name,
		v.doc.PropertyValue(domain.Brightness),
		v.doc.PropertyValue(domain.Contrast),
		label)
	if v.index >= 0 {
		info += fmt.Sprintf(" │ %d/%d", v.index+1, len(v.images))
	}
	if v.status != "" {
		info += " │ " + v.status
	}
	v.drawText(0, v.height-2, info, tcell.StyleDefault.Bold(true).Foreground(tcell.ColorPurple))

	help := " b/B brightness │ c/C contrast │ o original │ r reset │ n/p next/prev │ s save │ q quit"
	v.drawText(0, v.height-1, help, tcell.StyleDefault.Foreground(tcell.ColorGray))

	v.screen.Show()
}

func (v *ImageViewer) drawText(x, y int, text string, style tcell.Style) {
	text = strings.TrimRight(text, " ")
	col := x
	for _, r := range text {
		if col >= v.width {
			break
		}
		v.screen.SetContent(col, y, r, nil, style)
		col++
	}
}
