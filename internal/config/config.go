// Package config loads application settings from a config.toml placed
// next to the executable, with environment-variable overrides for
// deployment and local runs.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the full application configuration.
type AppConfig struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Retention RetentionConfig `toml:"retention"`
	Sink      SinkConfig      `toml:"sink"`
}

// ServerConfig configures the HTTP dashboard server.
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// DataConfig locates local state: the SQLite database, the pricing
// workbook used to enrich Troia uploads, and the export directory.
type DataConfig struct {
	DataDir     string `toml:"data_dir"`
	PricingPath string `toml:"pricing_path"`
}

// RetentionConfig bounds how much history a channel keeps.
type RetentionConfig struct {
	Months         int `toml:"months"`
	DegradedMonths int `toml:"degraded_months"`
	MaxBytes       int `toml:"max_bytes"`
}

// SinkConfig configures the remote spreadsheet sink. Disabled unless a
// URL is configured.
type SinkConfig struct {
	URL     string `toml:"url"`
	Token   string `toml:"token"`
	Enabled bool   `toml:"enabled"`
}

// DefaultConfig returns the configuration used when no config.toml
// exists.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        8080,
			DevMode:     false,
			OpenBrowser: true,
		},
		Data: DataConfig{
			DataDir:     "data",
			PricingPath: "",
		},
		Retention: RetentionConfig{
			Months:         24,
			DegradedMonths: 12,
			MaxBytes:       0,
		},
		Sink: SinkConfig{},
	}
}

// GetExeDir returns the directory holding the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig reads config.toml from the executable's directory. A
// missing file yields the defaults; environment variables override in
// either case.
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, err
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("SALESBOARD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("SALESBOARD_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("SALESBOARD_PRICING_PATH"); v != "" {
		config.Data.PricingPath = v
	}
	if v := os.Getenv("SALESBOARD_SINK_URL"); v != "" {
		config.Sink.URL = v
		config.Sink.Enabled = true
	}
	if v := os.Getenv("SALESBOARD_SINK_TOKEN"); v != "" {
		config.Sink.Token = v
	}
}

// SaveConfig writes the configuration back to config.toml.
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir creates the data directory tree next to the executable
// and returns its path.
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// DataPath joins a filename under a data subdirectory.
func DataPath(dataDir, subdir, filename string) string {
	return filepath.Join(dataDir, subdir, filename)
}
