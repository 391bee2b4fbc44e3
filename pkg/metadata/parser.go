package metadata

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Metadata represents what an image header reveals without decoding pixels
type Metadata struct {
	Format     string
	Width      int
	Height     int
	ColorModel string
}

// Pixels returns Width*Height
func (m *Metadata) Pixels() int {
	return m.Width * m.Height
}

// ParseError represents a header problem
type ParseError struct {
	Field   string
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s - %s", e.Field, e.Message)
}

// ParseResult contains the parsing outcome with detailed error information
type ParseResult struct {
	Metadata *Metadata
	Errors   []ParseError
	Warnings []string
}

// Parser reads image headers
type Parser struct {
	strict    bool
	maxPixels int
}

// NewParser creates a new header parser.
// maxPixels > 0 flags images larger than that; in strict mode it is an error.
func NewParser(strict bool, maxPixels int) *Parser {
	return &Parser{
		strict:    strict,
		maxPixels: maxPixels,
	}
}

// Parse reads the header from r. name is only used to check the extension.
func (p *Parser) Parse(r io.Reader, name string) (*ParseResult, error) {
	result := &ParseResult{
		Metadata: &Metadata{},
		Errors:   []ParseError{},
		Warnings: []string{},
	}

	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		result.Errors = append(result.Errors, ParseError{Field: "Header", Message: err.Error()})
		return result, fmt.Errorf("parsing failed with %d errors", len(result.Errors))
	}

	result.Metadata.Format = format
	result.Metadata.Width = cfg.Width
	result.Metadata.Height = cfg.Height
	result.Metadata.ColorModel = colorModelName(cfg.ColorModel)

	if cfg.Width <= 0 || cfg.Height <= 0 {
		result.Errors = append(result.Errors, ParseError{
			Field:   "Dimensions",
			Message: fmt.Sprintf("%dx%d has no pixels", cfg.Width, cfg.Height),
		})
	}

	if p.maxPixels > 0 && result.Metadata.Pixels() > p.maxPixels {
		msg := fmt.Sprintf("%d pixels exceeds the limit of %d", result.Metadata.Pixels(), p.maxPixels)
		if p.strict {
			result.Errors = append(result.Errors, ParseError{Field: "Dimensions", Message: msg})
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
	}

	if name != "" && !extensionMatches(filepath.Ext(name), format) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("extension %q does not match %s content", filepath.Ext(name), format))
	}

	if len(result.Errors) > 0 {
		return result, fmt.Errorf("parsing failed with %d errors", len(result.Errors))
	}

	return result, nil
}

// Extract is a convenience function for non-strict parsing of a file
func Extract(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result, err := NewParser(false, 0).Parse(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return result.Metadata, nil
}

// Format renders metadata as a one-line summary, e.g. "1920x1080 jpeg (YCbCr)"
func Format(m *Metadata) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d %s", m.Width, m.Height, m.Format)
	if m.ColorModel != "" {
		fmt.Fprintf(&b, " (%s)", m.ColorModel)
	}
	return b.String()
}

func extensionMatches(ext, format string) bool {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	switch format {
	case "jpeg":
		return ext == "jpg" || ext == "jpeg"
	case "tiff":
		return ext == "tif" || ext == "tiff"
	default:
		return ext == format
	}
}

func colorModelName(m color.Model) string {
	switch m {
	case color.RGBAModel:
		return "RGBA"
	case color.RGBA64Model:
		return "RGBA64"
	case color.NRGBAModel:
		return "NRGBA"
	case color.NRGBA64Model:
		return "NRGBA64"
	case color.GrayModel:
		return "Gray"
	case color.Gray16Model:
		return "Gray16"
	case color.YCbCrModel:
		return "YCbCr"
	case color.CMYKModel:
		return "CMYK"
	case color.AlphaModel:
		return "Alpha"
	}
	if _, ok := m.(color.Palette); ok {
		return "Paletted"
	}
	return ""
}
