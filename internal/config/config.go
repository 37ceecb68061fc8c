// Package config holds runtime configuration sourced from flags and
// PDFXML_-prefixed environment variables, flags taking precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultScale       = 2.0

	DefaultDirPerm = 0o750
)

// Config holds all configuration for the converter.
type Config struct {
	// Directory is the default location MCP tools resolve relative paths
	// against.
	Directory string

	// Workers bounds the page conversion pool.
	Workers int

	LogLevel    string
	MaxFileSize int64

	// Clustering thresholds.
	MergeGap float64
	SpaceGap float64
	SizeTol  float64

	// PreviewScale is the raster preview resolution multiplier.
	PreviewScale float64

	Version    string
	ServerName string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Directory:    currentDir,
		Workers:      runtime.NumCPU(),
		LogLevel:     DefaultLogLevel,
		MaxFileSize:  DefaultMaxFileSize,
		MergeGap:     2.0,
		SpaceGap:     0.2,
		SizeTol:      2.0,
		PreviewScale: DefaultScale,
		Version:      "1.0.0",
		ServerName:   "pdfxml",
	}
}

// RegisterFlags defines the shared flags on fs with the defaults from cfg.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.String("dir", c.Directory, "Default directory for resolving document paths")
	fs.Int("workers", c.Workers, "Number of concurrent page workers")
	fs.String("loglevel", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64("maxfilesize", c.MaxFileSize, "Maximum PDF file size in bytes")
	fs.Float64("merge-gap", c.MergeGap, "Span merge gap as a multiple of font size")
	fs.Float64("space-gap", c.SpaceGap, "Space insertion gap as a multiple of font size")
	fs.Float64("size-tolerance", c.SizeTol, "Maximum font size delta for span merging")
	fs.Float64("scale", c.PreviewScale, "Raster preview scale factor")
}

// Load resolves the configuration from fs and the environment and
// validates it.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("PDFXML")
	v.AutomaticEnv()

	v.SetDefault("dir", cfg.Directory)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("merge-gap", cfg.MergeGap)
	v.SetDefault("space-gap", cfg.SpaceGap)
	v.SetDefault("size-tolerance", cfg.SizeTol)
	v.SetDefault("scale", cfg.PreviewScale)

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	cfg.Directory = v.GetString("dir")
	cfg.Workers = v.GetInt("workers")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.MergeGap = v.GetFloat64("merge-gap")
	cfg.SpaceGap = v.GetFloat64("space-gap")
	cfg.SizeTol = v.GetFloat64("size-tolerance")
	cfg.PreviewScale = v.GetFloat64("scale")

	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Directory == "" {
		return errors.New("directory cannot be empty")
	}
	if _, err := os.Stat(c.Directory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.Directory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", c.Directory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access directory %s: %w", c.Directory, err)
	}

	if c.Workers < 1 {
		return errors.New("workers must be positive")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.MergeGap <= 0 || c.SpaceGap < 0 || c.SizeTol <= 0 {
		return errors.New("clustering thresholds must be positive")
	}
	if c.PreviewScale <= 0 {
		return errors.New("preview scale must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}
