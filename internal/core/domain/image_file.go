package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ImageFile is the lightweight listing entry for an image on disk.
// Listing never decodes pixel data.
type ImageFile struct {
	Name    string    `json:"name"`
	Path    string    `json:"-"`
	Ext     string    `json:"ext"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// SupportedExtensions lists the file extensions the decoder understands
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tif", ".tiff"}

// IsSupportedImage reports whether the filename has a decodable extension
func IsSupportedImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// NormalizeExt lowercases an extension and ensures the leading dot
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// GetDisplaySize formats the file size for tables
func (f ImageFile) GetDisplaySize() string {
	const unit = 1024
	if f.Size < unit {
		return fmt.Sprintf("%d B", f.Size)
	}
	div, exp := int64(unit), 0
	for n := f.Size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(f.Size)/float64(div), "KMGTPE"[exp])
}

// GetDisplayDate formats the modification time
func (f ImageFile) GetDisplayDate(layout string) string {
	if f.ModTime.IsZero() {
		return ""
	}
	if layout == "" {
		layout = "2006-01-02"
	}
	return f.ModTime.Format(layout)
}
