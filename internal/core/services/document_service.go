package services

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/ports"
)

// DocumentService handles the lifecycle of a loaded image and its edits
type DocumentService struct {
	decoder ports.Decoder
	encoder ports.Encoder
	engine  *AdjustEngine
}

// NewDocumentService creates a new document service
func NewDocumentService(decoder ports.Decoder, encoder ports.Encoder, engine *AdjustEngine) *DocumentService {
	if engine == nil {
		engine = NewAdjustEngine()
	}
	return &DocumentService{
		decoder: decoder,
		encoder: encoder,
		engine:  engine,
	}
}

// Engine returns the adjustment engine used for recomputes
func (s *DocumentService) Engine() *AdjustEngine {
	return s.engine
}

// Open decodes path into a new document with default properties.
// Any decode failure is reported as domain.ErrImageUnavailable.
func (s *DocumentService) Open(ctx context.Context, path string) (*domain.Document, error) {
	img, err := s.decoder.Decode(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrImageUnavailable, filepath.Base(path), err)
	}

	doc, err := domain.NewDocument(path, img)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrImageUnavailable, filepath.Base(path), err)
	}

	return doc, nil
}

// Reload decodes the document's file again into a fresh document.
// Edits and property values do not carry over.
func (s *DocumentService) Reload(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	return s.Open(ctx, doc.Path)
}

// SetProperty stores a clamped property value and recomputes the edited image.
// An unregistered id fails with domain.ErrUnknownProperty and changes nothing.
func (s *DocumentService) SetProperty(doc *domain.Document, id domain.PropertyID, value int) error {
	return s.Apply(doc, map[domain.PropertyID]int{id: value})
}

// Apply sets several properties at once and recomputes the edited image a single time.
// Either every id is known and all values are stored, or nothing changes.
func (s *DocumentService) Apply(doc *domain.Document, values map[domain.PropertyID]int) error {
	return doc.Update(func(original *image.NRGBA, props *domain.PropertySet) (*image.NRGBA, error) {
		for id := range values {
			if _, ok := props.Lookup(id); !ok {
				return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProperty, id)
			}
		}

		next := props.Clone()
		for id, v := range values {
			next.Set(id, v)
		}

		edited, err := s.engine.Apply(original, next)
		if err != nil {
			return nil, fmt.Errorf("failed to adjust %s: %w", doc.Name, err)
		}

		for id := range values {
			v, _ := next.Lookup(id)
			props.Set(id, v)
		}
		return edited, nil
	})
}

// Recompute derives the edited image again from the original and current properties
func (s *DocumentService) Recompute(doc *domain.Document) error {
	return s.Apply(doc, nil)
}

// Reset discards edits and restores default property values
func (s *DocumentService) Reset(doc *domain.Document) {
	doc.ResetEdits()
}

// SaveRequest describes an explicit export of the edited image
type SaveRequest struct {
	Output    string
	Overwrite bool
}

// Save encodes the edited image (or the original when unedited) to a new file.
// The document's own source file is never overwritten.
func (s *DocumentService) Save(ctx context.Context, doc *domain.Document, req SaveRequest) error {
	if req.Output == "" {
		return fmt.Errorf("output path is required")
	}

	src, err := filepath.Abs(doc.Path)
	if err != nil {
		src = doc.Path
	}
	dst, err := filepath.Abs(req.Output)
	if err != nil {
		dst = req.Output
	}
	if src == dst {
		return fmt.Errorf("refusing to overwrite the source image %s", doc.Path)
	}

	if !req.Overwrite && fileExists(dst) {
		return fmt.Errorf("output already exists: %s (use --force to overwrite)", req.Output)
	}

	if err := s.encoder.Encode(ctx, req.Output, doc.Edited()); err != nil {
		return fmt.Errorf("failed to save %s: %w", req.Output, err)
	}
	return nil
}

// DocumentStats summarises a document for info displays
type DocumentStats struct {
	Width              int
	Height             int
	OriginalBrightness int
	EditedBrightness   int
	HasEdits           bool
}

// Stats measures the average brightness of the original and edited images
func (s *DocumentService) Stats(doc *domain.Document) (*DocumentStats, error) {
	orig, err := s.engine.MeasureBrightness(doc.Original())
	if err != nil {
		return nil, err
	}
	edited, err := s.engine.MeasureBrightness(doc.Edited())
	if err != nil {
		return nil, err
	}

	b := doc.Bounds()
	return &DocumentStats{
		Width:              b.Dx(),
		Height:             b.Dy(),
		OriginalBrightness: orig,
		EditedBrightness:   edited,
		HasEdits:           doc.HasEdits(),
	}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
