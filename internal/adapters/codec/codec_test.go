package codec

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/bmp"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{20, 40, 60, 255})
			}
		}
	}
	return img
}

func TestCodec_RoundTripLossless(t *testing.T) {
	dir := t.TempDir()
	c := New(90)
	ctx := context.Background()
	src := checker(6, 4)

	for _, name := range []string{"out.png", "out.bmp", "out.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := c.Encode(ctx, path, src); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			got, err := c.Decode(ctx, path)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(src.Pix, got.Pix); diff != "" {
				t.Errorf("round trip changed pixels:\n%s", diff)
			}
		})
	}
}

func TestCodec_JPEGIsNormalized(t *testing.T) {
	dir := t.TempDir()
	c := New(100)
	ctx := context.Background()
	path := filepath.Join(dir, "photo.jpg")

	if err := c.Encode(ctx, path, checker(16, 8)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := c.Decode(ctx, path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Rect != image.Rect(0, 0, 16, 8) {
		t.Errorf("bounds = %v, want (0,0)-(16,8)", got.Rect)
	}
	if a := got.NRGBAAt(3, 3).A; a != 255 {
		t.Errorf("alpha = %d, want 255", a)
	}
}

func TestCodec_DecodePalettedAndGray(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 1, color.Gray{Y: 77})
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "gray.png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := New(0).Decode(ctx, path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if px := got.NRGBAAt(1, 1); px != (color.NRGBA{77, 77, 77, 255}) {
		t.Errorf("pixel = %v, want {77 77 77 255}", px)
	}

	buf.Reset()
	if err := bmp.Encode(&buf, checker(3, 3)); err != nil {
		t.Fatal(err)
	}
	bmpPath := filepath.Join(dir, "c.bmp")
	if err := os.WriteFile(bmpPath, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(0).Decode(ctx, bmpPath); err != nil {
		t.Errorf("BMP decode failed: %v", err)
	}
}

func TestCodec_DecodeFailures(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	c := New(90)

	corrupt := filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(dir, "missing.png"), corrupt} {
		if img, err := c.Decode(ctx, path); err == nil || img != nil {
			t.Errorf("Decode(%s) = %v, %v; want error", filepath.Base(path), img, err)
		}
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := c.Decode(cancelled, corrupt); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Decode error = %v, want context.Canceled", err)
	}
}

func TestCodec_MaxPixels(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	path := filepath.Join(dir, "wide.png")
	if err := New(90).Encode(ctx, path, checker(8, 4)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		maxPixels int
		wantErr   bool
	}{
		{"no limit", 0, false},
		{"exactly at limit", 32, false},
		{"over limit", 31, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := New(90).WithMaxPixels(tt.maxPixels).Decode(ctx, path)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrImageTooLarge) || img != nil {
					t.Errorf("Decode() = %v, %v; want ErrImageTooLarge", img, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(checker(8, 4).Pix, img.Pix); diff != "" {
				t.Errorf("pixels after header check differ (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCodec_EncodeUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.webp")

	err := New(90).Encode(context.Background(), path, checker(2, 2))
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no file should be written for an unsupported format")
	}
}

func TestFormatFor(t *testing.T) {
	tests := map[string]string{
		"a.png":  "png",
		"a.JPG":  "jpeg",
		"a.jpeg": "jpeg",
		"a.gif":  "gif",
		"a.bmp":  "bmp",
		"a.tif":  "tiff",
	}
	for path, want := range tests {
		got, err := FormatFor(path)
		if err != nil || got != want {
			t.Errorf("FormatFor(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := FormatFor("a"); err == nil {
		t.Error("FormatFor without extension should fail")
	}
}

func TestNew_ClampsQuality(t *testing.T) {
	if c := New(0); c.jpegQuality != 75 {
		t.Errorf("New(0).jpegQuality = %d, want 75", c.jpegQuality)
	}
	if c := New(500); c.jpegQuality != 100 {
		t.Errorf("New(500).jpegQuality = %d, want 100", c.jpegQuality)
	}
}
