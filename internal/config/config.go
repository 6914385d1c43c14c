package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config contains the program configuration.
type Config struct {
	FFmpegPath   string `yaml:"ffmpeg_path"`
	FFprobePath  string `yaml:"ffprobe_path"`
	Verbose      bool   `yaml:"verbose"`
	DefaultTitle string `yaml:"default_title"`
	Album        string `yaml:"album"`
	Composer     string `yaml:"composer"`
	Custom2      string `yaml:"custom2"`
	OutputDir    string `yaml:"output_dir"`
	MaxUploadMB  int64  `yaml:"max_upload_mb"`
}

// DefaultConfig returns the default configuration. The tag defaults are the
// literals the companion firmware looks for; change them only if you know
// what parses them.
func DefaultConfig() Config {
	return Config{
		Verbose:      false,
		DefaultTitle: "Glyph",
		Album:        "Glyph Tools",
		Composer:     "v1-Pacman Glyph Composer",
		Custom2:      "26cols",
		MaxUploadMB:  64,
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.OutputDir = ExpandHome(cfg.OutputDir)

	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./glyphembed.yaml",
		"./glyphembed.yml",
		filepath.Join(home, ".config", "glyphembed", "config.yaml"),
		filepath.Join(home, ".config", "glyphembed", "config.yml"),
		filepath.Join(home, ".glyphembed.yaml"),
		filepath.Join(home, ".glyphembed.yml"),
	}

	for _, path := range locations {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "glyphembed", "config.yaml")
}

// GetDefaultLogPath returns the default log directory path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "glyphembed", "logs")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DefaultTitle == "" {
		return fmt.Errorf("default_title cannot be empty")
	}
	if c.Album == "" {
		return fmt.Errorf("album cannot be empty")
	}
	if c.Composer == "" {
		return fmt.Errorf("composer cannot be empty")
	}
	if c.Custom2 == "" {
		return fmt.Errorf("custom2 cannot be empty")
	}

	if c.MaxUploadMB < 1 {
		return fmt.Errorf("max_upload_mb must be at least 1, got %d", c.MaxUploadMB)
	}
	if c.MaxUploadMB > 1024 {
		return fmt.Errorf("max_upload_mb cannot exceed 1024, got %d", c.MaxUploadMB)
	}

	if c.FFmpegPath != "" && strings.ContainsAny(c.FFmpegPath, "\n\r") {
		return fmt.Errorf("ffmpeg_path contains invalid characters")
	}
	if c.FFprobePath != "" && strings.ContainsAny(c.FFprobePath, "\n\r") {
		return fmt.Errorf("ffprobe_path contains invalid characters")
	}

	return nil
}
