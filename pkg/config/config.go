package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Browsing
	DefaultDir  string   `yaml:"default_dir"`
	DefaultSort string   `yaml:"default_sort"`
	ReverseSort bool     `yaml:"reverse_sort"`
	ShowHidden  bool     `yaml:"show_hidden"`
	Extensions  []string `yaml:"extensions"`
	DateFormat  string   `yaml:"date_format"`

	// Sliders
	BrightnessStep int `yaml:"brightness_step"`
	ContrastStep   int `yaml:"contrast_step"`

	// Preview
	PreviewWidth int `yaml:"preview_width"`

	// Output
	OutputFormat string `yaml:"output_format"`
	JPEGQuality  int    `yaml:"jpeg_quality"`
	HistogramDir string `yaml:"histogram_dir"`

	// Server
	ServeAddr   string `yaml:"serve_addr"`
	MaxSessions int    `yaml:"max_sessions"`

	// Performance
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	// MaxImagePixels caps width*height for every decode (0 = no limit).
	// lumi info only warns about it unless --strict is given.
	MaxImagePixels int `yaml:"max_image_pixels"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultDir:      "",
		DefaultSort:     "name",
		ReverseSort:     false,
		ShowHidden:      false,
		Extensions:      []string{},
		DateFormat:      "2006-01-02 15:04",
		BrightnessStep:  5,
		ContrastStep:    5,
		PreviewWidth:    0,
		OutputFormat:    "png",
		JPEGQuality:     90,
		HistogramDir:    "",
		ServeAddr:       "127.0.0.1:8080",
		MaxSessions:     32,
		WatchDebounceMS: 300,
		MaxImagePixels:  100_000_000,
		ColorTheme:      "auto",
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize replaces missing or out-of-range values with defaults
func (c *Config) normalize() {
	def := DefaultConfig()

	if c.Extensions == nil {
		c.Extensions = []string{}
	}
	if !isValidSort(c.DefaultSort) {
		c.DefaultSort = def.DefaultSort
	}
	if c.DateFormat == "" {
		c.DateFormat = def.DateFormat
	}
	if c.BrightnessStep <= 0 || c.BrightnessStep > 100 {
		c.BrightnessStep = def.BrightnessStep
	}
	if c.ContrastStep <= 0 || c.ContrastStep > 100 {
		c.ContrastStep = def.ContrastStep
	}
	if c.PreviewWidth < 0 {
		c.PreviewWidth = 0
	}
	if c.OutputFormat != "png" && c.OutputFormat != "jpg" {
		c.OutputFormat = def.OutputFormat
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = def.JPEGQuality
	}
	if c.ServeAddr == "" {
		c.ServeAddr = def.ServeAddr
	}
	if c.MaxSessions < 0 {
		c.MaxSessions = def.MaxSessions
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = def.WatchDebounceMS
	}
	if c.MaxImagePixels < 0 {
		c.MaxImagePixels = 0
	}
	if c.ColorTheme == "" {
		c.ColorTheme = def.ColorTheme
	}
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal returns the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// isValidSort checks if the sort key is valid
func isValidSort(sort string) bool {
	validSorts := []string{"name", "size", "date"}
	for _, valid := range validSorts {
		if sort == valid {
			return true
		}
	}
	return false
}
