package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.DefaultSort != "name" {
		t.Errorf("expected default DefaultSort='name', got %q", cfg.DefaultSort)
	}

	if cfg.BrightnessStep != 5 || cfg.ContrastStep != 5 {
		t.Errorf("expected default steps 5/5, got %d/%d", cfg.BrightnessStep, cfg.ContrastStep)
	}

	if cfg.JPEGQuality != 90 {
		t.Errorf("expected default JPEGQuality=90, got %d", cfg.JPEGQuality)
	}

	if cfg.WatchDebounceMS != 300 {
		t.Errorf("expected default WatchDebounceMS=300, got %d", cfg.WatchDebounceMS)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	// Loading a non-existent file should return default config
	cfg, err := Load("/nonexistent/path/config.yaml")

	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.ServeAddr != "127.0.0.1:8080" {
		t.Errorf("expected default ServeAddr, got %q", cfg.ServeAddr)
	}
}

func TestSave_And_Load(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.DefaultDir = "/home/me/Pictures"
	cfg.DefaultSort = "size"
	cfg.ReverseSort = true
	cfg.Extensions = []string{"png", "jpg"}
	cfg.JPEGQuality = 70

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.DefaultDir != "/home/me/Pictures" {
		t.Errorf("DefaultDir = %q", loaded.DefaultDir)
	}
	if loaded.DefaultSort != "size" || !loaded.ReverseSort {
		t.Errorf("sort = %q reverse = %v", loaded.DefaultSort, loaded.ReverseSort)
	}
	if len(loaded.Extensions) != 2 || loaded.Extensions[1] != "jpg" {
		t.Errorf("Extensions = %v", loaded.Extensions)
	}
	if loaded.JPEGQuality != 70 {
		t.Errorf("JPEGQuality = %d, want 70", loaded.JPEGQuality)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_sort: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad_NormalizesInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `default_sort: random
brightness_step: 0
contrast_step: 500
jpeg_quality: 0
output_format: webp
watch_debounce_ms: -1
preview_width: -10
serve_addr: ""
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	def := DefaultConfig()
	tests := []struct {
		field string
		got   interface{}
		want  interface{}
	}{
		{"DefaultSort", cfg.DefaultSort, def.DefaultSort},
		{"BrightnessStep", cfg.BrightnessStep, def.BrightnessStep},
		{"ContrastStep", cfg.ContrastStep, def.ContrastStep},
		{"JPEGQuality", cfg.JPEGQuality, def.JPEGQuality},
		{"OutputFormat", cfg.OutputFormat, def.OutputFormat},
		{"WatchDebounceMS", cfg.WatchDebounceMS, def.WatchDebounceMS},
		{"PreviewWidth", cfg.PreviewWidth, 0},
		{"ServeAddr", cfg.ServeAddr, def.ServeAddr},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.field, tt.got, tt.want)
		}
	}
}

func TestMarshal(t *testing.T) {
	data, err := DefaultConfig().Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("Marshal returned empty output")
	}
}
