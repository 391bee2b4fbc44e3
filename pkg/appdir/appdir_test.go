package appdir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_XDG(t *testing.T) {
	configHome := t.TempDir()
	cacheHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	d, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"config path", d.ConfigPath, filepath.Join(configHome, "lumi", "config.yaml")},
		{"cache path", d.CachePath, filepath.Join(cacheHome, "lumi")},
		{"histograms path", d.HistogramsPath, filepath.Join(cacheHome, "lumi", "histograms")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestDirs_GetHistogramPath(t *testing.T) {
	d := &Dirs{HistogramsPath: "/test/cache/histograms"}

	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"html page", "photo.html", "/test/cache/histograms/photo.html"},
		{"dotted name", "holiday.2024.html", "/test/cache/histograms/holiday.2024.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := d.GetHistogramPath(tt.filename)
			if result != tt.expected {
				t.Errorf("GetHistogramPath(%q) = %q, want %q", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestDirs_InitializeAndClean(t *testing.T) {
	root := t.TempDir()
	d := &Dirs{
		CachePath:      filepath.Join(root, "cache"),
		HistogramsPath: filepath.Join(root, "cache", "histograms"),
	}

	if err := d.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if info, err := os.Stat(d.HistogramsPath); err != nil || !info.IsDir() {
		t.Fatalf("histograms dir not created: %v", err)
	}

	if err := os.WriteFile(d.GetHistogramPath("a.html"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := d.CleanCache(); err != nil {
		t.Fatalf("CleanCache() error = %v", err)
	}
	entries, err := os.ReadDir(d.CachePath)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache not empty after CleanCache: %d entries", len(entries))
	}
}

func TestDirs_CleanCache_Missing(t *testing.T) {
	d := &Dirs{CachePath: filepath.Join(t.TempDir(), "nope")}
	if err := d.CleanCache(); err != nil {
		t.Errorf("CleanCache() on missing dir = %v, want nil", err)
	}
}
