package domain

import "errors"

var (
	// ErrEmptyImage is returned when a raster has zero width or height
	ErrEmptyImage = errors.New("image is empty")

	// ErrUnknownProperty is returned when a property id is not registered on a document
	ErrUnknownProperty = errors.New("unknown property")

	// ErrImageUnavailable wraps any failure to load an image file
	ErrImageUnavailable = errors.New("image could not be loaded")

	// ErrDocumentNotFound is returned when a session id has no open document
	ErrDocumentNotFound = errors.New("document not found")

	// ErrImageTooLarge is returned when an image exceeds the configured pixel limit
	ErrImageTooLarge = errors.New("image exceeds the pixel limit")

	// ErrUnsupportedFormat is returned for file extensions no codec handles
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
