// Package config reads the entityform TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Database types.
const (
	DatabaseMemory   = "memory"
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

// Config is the root configuration.
type Config struct {
	LogLevel       string         `toml:"log_level"` // "error", "info", "verbose" or "trace"
	Locale         string         `toml:"locale"`
	DescriptorsDir string         `toml:"descriptors_dir,omitempty"` // empty uses the embedded customer descriptors
	Database       DatabaseConfig `toml:"database"`
	Server         ServerConfig   `toml:"server"`
	Lookup         LookupConfig   `toml:"lookup"`
	Media          MediaConfig    `toml:"media"`
}

// DatabaseConfig selects the gateway store. The Type field determines
// whether DSN is used.
type DatabaseConfig struct {
	Type string `toml:"type"`          // "memory", "sqlite" or "postgres"
	DSN  string `toml:"dsn,omitempty"` // file path for sqlite, connection string for postgres
}

// ServerConfig configures the REST server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LookupConfig configures the terminal lookup dialog.
type LookupConfig struct {
	PageSize int `toml:"page_size"`
}

// MediaConfig configures the terminal breakpoint.
type MediaConfig struct {
	MobileMaxColumns int `toml:"mobile_max_columns"`
}

// Default returns a configuration that runs entirely in memory.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Locale:   "en",
		Database: DatabaseConfig{Type: DatabaseMemory},
		Server:   ServerConfig{Addr: ":8080"},
		Lookup:   LookupConfig{PageSize: 10},
		Media:    MediaConfig{MobileMaxColumns: 80},
	}
}

// Validate checks the tagged database union and numeric settings.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case DatabaseMemory:
	case DatabaseSQLite, DatabasePostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("config: database.dsn is required for type %q", c.Database.Type)
		}
	default:
		return fmt.Errorf("config: unknown database.type %q", c.Database.Type)
	}
	if c.Lookup.PageSize <= 0 {
		return fmt.Errorf("config: lookup.page_size must be positive, got %d", c.Lookup.PageSize)
	}
	if c.Media.MobileMaxColumns <= 0 {
		return fmt.Errorf("config: media.mobile_max_columns must be positive, got %d", c.Media.MobileMaxColumns)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from r on top of Default.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes cfg to w.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads path and validates it. An empty path or a missing file yields
// Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		read, err := ReadFromFile(path)
		switch {
		case err == nil:
			cfg = read
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes cfg to path, refusing to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
