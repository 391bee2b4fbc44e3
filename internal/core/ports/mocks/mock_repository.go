package mocks

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"time"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
)

// MockImageRepository is a mock implementation of the ImageRepository interface for testing
type MockImageRepository struct {
	mu    sync.RWMutex
	root  string
	files map[string]domain.ImageFile
	err   error
}

// NewMockImageRepository creates a new mock repository rooted at root
func NewMockImageRepository(root string) *MockImageRepository {
	return &MockImageRepository{
		root:  root,
		files: make(map[string]domain.ImageFile),
	}
}

// AddFile registers a listing entry
func (m *MockImageRepository) AddFile(name string, size int64, modTime time.Time) domain.ImageFile {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := domain.ImageFile{
		Name:    name,
		Path:    filepath.Join(m.root, name),
		Ext:     domain.NormalizeExt(filepath.Ext(name)),
		Size:    size,
		ModTime: modTime,
	}
	m.files[name] = f
	return f
}

// SetError makes every List call fail with err
func (m *MockImageRepository) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// List returns all registered files
func (m *MockImageRepository) List(ctx context.Context) ([]domain.ImageFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	files := make([]domain.ImageFile, 0, len(m.files))
	for _, f := range m.files {
		files = append(files, f)
	}
	return files, nil
}

// Get retrieves a file by name
func (m *MockImageRepository) Get(ctx context.Context, name string) (*domain.ImageFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("image not found: %s", name)
	}
	return &f, nil
}

// Root returns the configured root
func (m *MockImageRepository) Root() string {
	return m.root
}

// --- MockDecoder ---

// MockDecoder serves in-memory rasters keyed by path
type MockDecoder struct {
	mu     sync.Mutex
	images map[string]*image.NRGBA
	calls  []string
}

func NewMockDecoder() *MockDecoder {
	return &MockDecoder{
		images: make(map[string]*image.NRGBA),
	}
}

// AddImage registers a raster for path
func (m *MockDecoder) AddImage(path string, img *image.NRGBA) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[path] = img
}

func (m *MockDecoder) Decode(ctx context.Context, path string) (*image.NRGBA, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, path)

	img, ok := m.images[path]
	if !ok {
		return nil, fmt.Errorf("open %s: file does not exist", path)
	}
	return domain.CloneRaster(img), nil
}

// Calls returns the paths passed to Decode
func (m *MockDecoder) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// --- MockEncoder ---

type MockEncoder struct {
	mu         sync.Mutex
	written    map[string]image.Image
	shouldFail bool
}

func NewMockEncoder() *MockEncoder {
	return &MockEncoder{
		written: make(map[string]image.Image),
	}
}

// SetShouldFail makes Encode return an error
func (m *MockEncoder) SetShouldFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
}

func (m *MockEncoder) Encode(ctx context.Context, path string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return fmt.Errorf("mock encode failure: %s", path)
	}
	m.written[path] = img
	return nil
}

// Written returns the image encoded to path, if any
func (m *MockEncoder) Written(path string) (image.Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.written[path]
	return img, ok
}
