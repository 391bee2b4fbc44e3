package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/ports"
)

// FolderRepository lists image files in a single directory (non-recursive)
type FolderRepository struct {
	root       string
	showHidden bool
	extensions map[string]bool
	mu         sync.RWMutex
}

// NewFolderRepository creates a repository for dir.
// extensions restricts the listing; empty means every supported format.
func NewFolderRepository(dir string, showHidden bool, extensions []string) *FolderRepository {
	allowed := make(map[string]bool)
	for _, ext := range extensions {
		if e := domain.NormalizeExt(ext); e != "" {
			allowed[e] = true
		}
	}

	return &FolderRepository{
		root:       dir,
		showHidden: showHidden,
		extensions: allowed,
	}
}

// Ensure it implements the interface
var _ ports.ImageRepository = (*FolderRepository)(nil)

// Root returns the listed folder
func (r *FolderRepository) Root() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.root
}

// SetRoot points the repository at another folder
func (r *FolderRepository) SetRoot(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.root = dir
}

// List returns every supported image in the folder
func (r *FolderRepository) List(ctx context.Context) ([]domain.ImageFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", r.root, err)
	}

	var files []domain.ImageFile
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !r.accepts(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, r.toImageFile(entry.Name(), info))
	}

	return files, nil
}

// Get returns the entry for name, which must be a plain file name inside the folder
func (r *FolderRepository) Get(ctx context.Context, name string) (*domain.ImageFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return nil, fmt.Errorf("invalid image name: %q", name)
	}
	if !r.accepts(name) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, name)
	}

	info, err := os.Stat(filepath.Join(r.root, name))
	if err != nil {
		return nil, fmt.Errorf("image not found: %s", name)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("image not found: %s", name)
	}

	f := r.toImageFile(name, info)
	return &f, nil
}

// Accepts reports whether a file name would appear in the listing
func (r *FolderRepository) Accepts(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.accepts(filepath.Base(name))
}

func (r *FolderRepository) accepts(name string) bool {
	if !r.showHidden && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~")) {
		return false
	}
	if !domain.IsSupportedImage(name) {
		return false
	}
	if len(r.extensions) > 0 && !r.extensions[strings.ToLower(filepath.Ext(name))] {
		return false
	}
	return true
}

func (r *FolderRepository) toImageFile(name string, info os.FileInfo) domain.ImageFile {
	return domain.ImageFile{
		Name:    name,
		Path:    filepath.Join(r.root, name),
		Ext:     strings.ToLower(filepath.Ext(name)),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}
