// Package preview turns rasters into terminal cells.
//
// Each cell covers two source rows: the upper half-block glyph takes the top
// pixel as foreground and the bottom pixel as background.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// HalfBlock is the glyph drawn in every cell
const HalfBlock = "▀"

// Cell is one terminal cell: Top is the upper pixel, Bottom the lower one
type Cell struct {
	Top    color.NRGBA
	Bottom color.NRGBA
}

// Grid is a row-major block of cells
type Grid struct {
	Cols  int
	Rows  int
	Cells []Cell
}

// At returns the cell at (col, row)
func (g *Grid) At(col, row int) Cell {
	return g.Cells[row*g.Cols+col]
}

// FitSize returns the pixel size an image of w×h should be scaled to so it fits
// into maxCols columns and maxRows terminal rows, preserving the aspect ratio.
// Pixel height is always even. Images are never scaled up.
func FitSize(w, h, maxCols, maxRows int) (int, int) {
	if w <= 0 || h <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	maxH := maxRows * 2

	outW, outH := w, h
	if outW > maxCols {
		outH = outH * maxCols / outW
		outW = maxCols
	}
	if outH > maxH {
		outW = outW * maxH / outH
		outH = maxH
	}
	if outW < 1 {
		outW = 1
	}
	if outH < 2 {
		outH = 2
	}
	if outH%2 == 1 {
		outH++
	}
	return outW, outH
}

// Scale resamples src to w×h with a bilinear filter
func Scale(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Build scales src to fit maxCols × maxRows cells and pairs up rows
func Build(src image.Image, maxCols, maxRows int) *Grid {
	if src == nil {
		return &Grid{}
	}
	b := src.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxCols, maxRows)
	if w == 0 || h == 0 {
		return &Grid{}
	}

	scaled := Scale(src, w, h)
	grid := &Grid{Cols: w, Rows: h / 2, Cells: make([]Cell, w*h/2)}
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < w; col++ {
			grid.Cells[row*w+col] = Cell{
				Top:    scaled.NRGBAAt(col, row*2),
				Bottom: scaled.NRGBAAt(col, row*2+1),
			}
		}
	}
	return grid
}

// Render draws the grid with lipgloss true-colour styles, one line per row
func Render(g *Grid) string {
	var b strings.Builder
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			c := g.At(col, row)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(Hex(c.Top))).
				Background(lipgloss.Color(Hex(c.Bottom)))
			b.WriteString(style.Render(HalfBlock))
		}
		if row < g.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// String is Build followed by Render
func String(src image.Image, maxCols, maxRows int) string {
	return Render(Build(src, maxCols, maxRows))
}

// Hex formats the colour as #rrggbb, compositing over black
func Hex(c color.NRGBA) string {
	r := uint32(c.R) * uint32(c.A) / 255
	g := uint32(c.G) * uint32(c.A) / 255
	bl := uint32(c.B) * uint32(c.A) / 255
	return fmt.Sprintf("#%02x%02x%02x", r, g, bl)
}
