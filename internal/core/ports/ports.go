package ports

import (
	"context"
	"image"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
)

// ImageRepository defines the port for discovering image files
type ImageRepository interface {
	// List returns every supported image in the repository's folder (no pixel data)
	List(ctx context.Context) ([]domain.ImageFile, error)

	// Get returns the listing entry for a file name inside the folder
	Get(ctx context.Context, name string) (*domain.ImageFile, error)

	// Root returns the folder being listed
	Root() string
}

// Decoder defines the port for turning an image file into a working raster
type Decoder interface {
	// Decode reads path and returns a normalized NRGBA raster anchored at the origin.
	// Any failure must be reported, never panic.
	Decode(ctx context.Context, path string) (*image.NRGBA, error)
}

// Encoder defines the port for writing a raster to disk
type Encoder interface {
	// Encode writes img to path, picking the format from the extension
	Encode(ctx context.Context, path string, img image.Image) error
}
