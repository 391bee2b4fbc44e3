package domain

import (
	"image"

	"golang.org/x/image/draw"
)

// Normalize converts any decoded image into the engine's working raster:
// non-premultiplied 8-bit RGBA anchored at the origin.
// An NRGBA already at the origin is returned as is.
func Normalize(img image.Image) (*image.NRGBA, error) {
	if img == nil || isNilRaster(img) {
		return nil, ErrEmptyImage
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}

	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, nil
}

// isNilRaster catches typed nil pointers of the concrete types decoders return,
// whose Bounds method would dereference nil.
func isNilRaster(img image.Image) bool {
	switch v := img.(type) {
	case *image.NRGBA:
		return v == nil
	case *image.RGBA:
		return v == nil
	case *image.YCbCr:
		return v == nil
	case *image.Paletted:
		return v == nil
	case *image.Gray:
		return v == nil
	}
	return false
}

// IsEmpty reports whether the raster is nil or has no pixels
func IsEmpty(img *image.NRGBA) bool {
	return img == nil || img.Rect.Dx() <= 0 || img.Rect.Dy() <= 0
}

// CloneRaster returns a deep copy of img
func CloneRaster(img *image.NRGBA) *image.NRGBA {
	if img == nil {
		return nil
	}
	out := &image.NRGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(out.Pix, img.Pix)
	return out
}
