package services

import (
	"image"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
)

// AdjustEngine applies brightness and contrast to a raster.
// It holds no state; the same inputs always give the same output.
type AdjustEngine struct{}

// NewAdjustEngine creates a new adjustment engine
func NewAdjustEngine() *AdjustEngine {
	return &AdjustEngine{}
}

// Params are the transform coefficients derived from slider values
type Params struct {
	BrightnessOffset float64
	ContrastFactor   float64
}

// ParamsFor maps slider positions to transform coefficients.
// Brightness 50 is a zero offset, 0 and 100 are -127.5 and +127.5.
// Contrast 50 is a factor of 1.0, 0 flattens to mid-gray, 100 doubles.
func ParamsFor(brightness, contrast int) Params {
	factor := float64(contrast) / 50.0
	if factor < 0 {
		factor = 0
	}
	return Params{
		BrightnessOffset: float64(brightness-domain.NeutralValue) * (255.0 / 100.0),
		ContrastFactor:   factor,
	}
}

// ParamsFrom reads brightness and contrast from props, using the neutral value for absent ones
func ParamsFrom(props domain.PropertyReader) Params {
	brightness, contrast := domain.NeutralValue, domain.NeutralValue
	if props != nil {
		if v, ok := props.Lookup(domain.Brightness); ok {
			brightness = v
		}
		if v, ok := props.Lookup(domain.Contrast); ok {
			contrast = v
		}
	}
	return ParamsFor(brightness, contrast)
}

// Channel transforms a single 8-bit channel value.
// Contrast pivots on 128, then the brightness offset is added.
// The result is truncated toward zero and clamped to [0, 255].
func (p Params) Channel(c uint8) uint8 {
	v := int((float64(c)-128)*p.ContrastFactor + 128 + p.BrightnessOffset)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// lut precomputes Channel for every input value
func (p Params) lut() [256]uint8 {
	var table [256]uint8
	for i := range table {
		table[i] = p.Channel(uint8(i))
	}
	return table
}

// Apply returns a new raster with the adjustments in props applied to src.
// src is never written. An empty src fails with domain.ErrEmptyImage.
func (e *AdjustEngine) Apply(src *image.NRGBA, props domain.PropertyReader) (*image.NRGBA, error) {
	return e.ApplyParams(src, ParamsFrom(props))
}

// ApplyParams is Apply with precomputed coefficients
func (e *AdjustEngine) ApplyParams(src *image.NRGBA, p Params) (*image.NRGBA, error) {
	if domain.IsEmpty(src) {
		return nil, domain.ErrEmptyImage
	}

	b := src.Rect
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	table := p.lut()

	for y := 0; y < h; y++ {
		off := src.PixOffset(b.Min.X, b.Min.Y+y)
		srcLine := src.Pix[off : off+w*4]
		dstLine := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]

		for x := 0; x < len(srcLine); x += 4 {
			dstLine[x+0] = table[srcLine[x+0]]
			dstLine[x+1] = table[srcLine[x+1]]
			dstLine[x+2] = table[srcLine[x+2]]
			dstLine[x+3] = srcLine[x+3]
		}
	}

	return dst, nil
}

// MeasureBrightness returns the mean of (R+G+B)/3 over every pixel, in [0, 255]
func (e *AdjustEngine) MeasureBrightness(src *image.NRGBA) (int, error) {
	if domain.IsEmpty(src) {
		return 0, domain.ErrEmptyImage
	}

	b := src.Rect
	w, h := b.Dx(), b.Dy()
	var sum uint64
	for y := 0; y < h; y++ {
		off := src.PixOffset(b.Min.X, b.Min.Y+y)
		line := src.Pix[off : off+w*4]
		for x := 0; x < len(line); x += 4 {
			sum += (uint64(line[x]) + uint64(line[x+1]) + uint64(line[x+2])) / 3
		}
	}

	return int(sum / uint64(w*h)), nil
}
