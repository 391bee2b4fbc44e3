package codec

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // registers WebP with image.Decode

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/ports"
)

// Codec decodes image files into the working raster and encodes results back to disk
type Codec struct {
	jpegQuality int
	maxPixels   int
}

// New creates a codec. jpegQuality is clamped to 1..100.
func New(jpegQuality int) *Codec {
	if jpegQuality < 1 {
		jpegQuality = jpeg.DefaultQuality
	}
	if jpegQuality > 100 {
		jpegQuality = 100
	}
	return &Codec{jpegQuality: jpegQuality}
}

// WithMaxPixels makes Decode reject images whose header reports more than n pixels.
// n <= 0 removes the limit.
func (c *Codec) WithMaxPixels(n int) *Codec {
	c.maxPixels = n
	return c
}

var (
	_ ports.Decoder = (*Codec)(nil)
	_ ports.Encoder = (*Codec)(nil)
)

// Decode reads path and normalizes it to NRGBA at the origin
func (c *Codec) Decode(ctx context.Context, path string) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if c.maxPixels > 0 {
		cfg, _, err := image.DecodeConfig(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
		}
		if px := cfg.Width * cfg.Height; px > c.maxPixels {
			return nil, fmt.Errorf("%w: %s is %dx%d (%d pixels, limit %d)",
				domain.ErrImageTooLarge, filepath.Base(path), cfg.Width, cfg.Height, px, c.maxPixels)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	return domain.Normalize(img)
}

// Encode writes img to path, choosing the format from the extension
func (c *Codec) Encode(ctx context.Context, path string, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Encode into a sibling temp file, then rename into place
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lumi-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := c.encodeTo(tmp, format, img); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

func (c *Codec) encodeTo(f *os.File, format string, img image.Image) error {
	switch format {
	case "jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: c.jpegQuality})
	case "gif":
		return gif.Encode(f, img, nil)
	case "bmp":
		return bmp.Encode(f, img)
	case "tiff":
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(f, img)
	}
}

// FormatFor maps an output file extension to an encoder name
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".gif":
		return "gif", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	default:
		return "", fmt.Errorf("%w for output: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
}
