// Package config loads typesetting configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ebookworks/go-typeset/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits.
const (
	MaxLanguageLength = 35   // RFC 5646 allows long private-use tags
	MaxPathLength     = 4096 // PATH_MAX on most systems
	MaxURLLength      = 2048 // Browser limit
	MaxWorkers        = 64   // beyond this contention dominates
)

// Config holds all configuration for the typeset tool.
type Config struct {
	Language  LanguageConfig  `yaml:"language"`
	Quotes    QuotesConfig    `yaml:"quotes"`
	Hyphenate HyphenateConfig `yaml:"hyphenate"`
	Format    FormatConfig    `yaml:"format"`
	Tools     ToolsConfig     `yaml:"tools"`
	Publish   PublishConfig   `yaml:"publish"`
	Workers   int             `yaml:"workers"` // 0 = number of CPUs
}

// LanguageConfig defines language resolution options.
type LanguageConfig struct {
	Default string `yaml:"default"` // Used when documents carry no xml:lang (empty = require xml:lang)
}

// QuotesConfig defines quote conversion options.
type QuotesConfig struct {
	Threshold int `yaml:"threshold"` // Classifier majority percentage, 0 = default (80)
}

// HyphenateConfig defines hyphenation options.
type HyphenateConfig struct {
	PatternDir      string `yaml:"patternDir"`      // Directory of hyph-<lang>.tex files
	IncludeHeadings bool   `yaml:"includeHeadings"` // Hyphenate inside h1-h6 (default: skip them)
}

// FormatConfig defines xmllint formatting options.
type FormatConfig struct {
	SingleLines bool `yaml:"singleLines"` // Collapse documents to one line before formatting
}

// ToolsConfig overrides paths to external tools (empty = resolve on PATH).
type ToolsConfig struct {
	XMLLint  string `yaml:"xmllint"`
	ExifTool string `yaml:"exiftool"`
	Browser  string `yaml:"browser"` // Chrome/Chromium binary for math rendering
}

// PublishConfig defines metadata upload options.
type PublishConfig struct {
	Endpoint string `yaml:"endpoint"` // Catalog URL to POST ebook metadata to
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers who
// construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("language.default", c.Language.Default, MaxLanguageLength); err != nil {
		return err
	}

	if t := c.Quotes.Threshold; t != 0 && (t <= 50 || t > 100) {
		return fmt.Errorf("quotes.threshold: must be in (50, 100], got %d", t)
	}

	if err := validateFieldLength("hyphenate.patternDir", c.Hyphenate.PatternDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("tools.xmllint", c.Tools.XMLLint, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("tools.exiftool", c.Tools.ExifTool, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("tools.browser", c.Tools.Browser, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("publish.endpoint", c.Publish.Endpoint, MaxURLLength); err != nil {
		return err
	}
	if ep := c.Publish.Endpoint; ep != "" &&
		!strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
		return fmt.Errorf("publish.endpoint: must be an http(s) URL, got %q", ep)
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers: must be between 0 and %d, got %d", MaxWorkers, c.Workers)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-typeset/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-typeset", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
