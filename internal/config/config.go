package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for tasktrack.
type Config struct {
	ListenAddr string         `toml:"listen_addr"`
	DataDir    string         `toml:"data_dir"`
	LogLevel   string         `toml:"log_level"` // debug, info, warn, error
	Database   DatabaseConfig `toml:"database"`
}

// DatabaseConfig selects the store backend.
// The Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type string `toml:"type"` // "sqlite" or "memory"
}

// Default returns a Config with default values rooted at dataDir.
func Default(dataDir string) *Config {
	return &Config{
		ListenAddr: "127.0.0.1:8714",
		DataDir:    dataDir,
		LogLevel:   "info",
		Database: DatabaseConfig{
			Type: "sqlite",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "tasktrack.toml"
	}
	return filepath.Join(cfgDir, "tasktrack", "config.toml")
}

// DBPath returns the store file path under the configured data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "tasktrack.db")
}

// Read decodes a Config from the provided reader.
func Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Init writes a new config file at the specified path. It refuses to
// overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
