package domain

import (
	"image"
	"path/filepath"
	"sync"
)

// Document is one loaded image file: the untouched original, its property
// set, and the edited raster derived from both.
//
// The original is never written after construction. The edited raster is
// always a full recompute from the original, never patched.
type Document struct {
	Path string
	Name string

	mu       sync.RWMutex
	original *image.NRGBA
	edited   *image.NRGBA
	hasEdits bool
	props    *PropertySet
}

// NewDocument creates a document around a decoded image with default properties
func NewDocument(path string, img image.Image) (*Document, error) {
	original, err := Normalize(img)
	if err != nil {
		return nil, err
	}

	return &Document{
		Path:     path,
		Name:     filepath.Base(path),
		original: original,
		props:    DefaultProperties(),
	}, nil
}

// Original returns the source raster. Callers must not modify it.
func (d *Document) Original() *image.NRGBA {
	return d.original
}

// Edited returns the derived raster, or the original when there are no edits
func (d *Document) Edited() *image.NRGBA {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.hasEdits {
		return d.edited
	}
	return d.original
}

// HasEdits reports whether an edited raster currently exists
func (d *Document) HasEdits() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hasEdits
}

// Bounds returns the original image bounds
func (d *Document) Bounds() image.Rectangle {
	return d.original.Rect
}

// Properties returns a snapshot of the document's properties
func (d *Document) Properties() []Property {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.props.All()
}

// PropertyValue returns the current value of id, or NeutralValue if absent
func (d *Document) PropertyValue(id PropertyID) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.props.Value(id)
}

// SetPropertyValue clamps and stores a property value.
// It reports false if the document has no such property.
func (d *Document) SetPropertyValue(id PropertyID, value int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.props.Set(id, value)
}

// Snapshot returns an independent copy of the current property set
func (d *Document) Snapshot() *PropertySet {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.props.Clone()
}

// Update runs fn with exclusive access to the property set and the edited raster.
// fn returns the new edited raster; nil clears the edits.
func (d *Document) Update(fn func(original *image.NRGBA, props *PropertySet) (*image.NRGBA, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	edited, err := fn(d.original, d.props)
	if err != nil {
		return err
	}
	d.setEditedLocked(edited)
	return nil
}

// SetEdited replaces the edited raster. A nil or mis-sized raster clears the edits.
func (d *Document) SetEdited(img *image.NRGBA) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setEditedLocked(img)
}

func (d *Document) setEditedLocked(img *image.NRGBA) {
	if IsEmpty(img) || img.Rect.Size() != d.original.Rect.Size() {
		d.edited = nil
		d.hasEdits = false
		return
	}
	d.edited = img
	d.hasEdits = true
}

// ResetEdits drops the edited raster and returns every property to its default
func (d *Document) ResetEdits() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.edited = nil
	d.hasEdits = false
	d.props.Reset()
}
