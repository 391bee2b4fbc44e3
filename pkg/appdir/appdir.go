package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "lumi"

// Dirs represents the per-user directories lumi reads and writes
type Dirs struct {
	ConfigPath     string
	CachePath      string
	HistogramsPath string
}

// New creates a Dirs instance with XDG-compliant paths
func New() (*Dirs, error) {
	configPath, configErr := getConfigPath()
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}
	cachePath, cacheErr := getCacheRoot()
	if cacheErr != nil {
		return nil, fmt.Errorf("failed to determine cache root: %w", cacheErr)
	}

	return &Dirs{
		ConfigPath:     configPath,
		CachePath:      cachePath,
		HistogramsPath: filepath.Join(cachePath, "histograms"),
	}, nil
}

// getCacheRoot follows the XDG Base Directory specification on Unix and uses LocalAppData on Windows
func getCacheRoot() (string, error) {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, appName), nil
	}

	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		return filepath.Join(localAppData, appName, "cache"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// Fall back to ~/.cache/lumi (Unix-like systems)
	return filepath.Join(homeDir, ".cache", appName), nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName, "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// Fall back to ~/.config/lumi/config.yaml (Unix-like systems)
	return filepath.Join(homeDir, ".config", appName, "config.yaml"), nil
}

// Initialize creates the cache directories if they don't exist
func (d *Dirs) Initialize() error {
	for _, dir := range []string{d.CachePath, d.HistogramsPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetHistogramPath returns the full path for a generated histogram page
func (d *Dirs) GetHistogramPath(filename string) string {
	return filepath.Join(d.HistogramsPath, filename)
}

// CleanCache removes all files in the cache directory
func (d *Dirs) CleanCache() error {
	entries, err := os.ReadDir(d.CachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(d.CachePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}
