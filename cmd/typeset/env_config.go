package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ebookworks/go-typeset/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // TYPESET_CONFIG: config file path
	Language   string // TYPESET_LANG: default language tag
	PatternDir string // TYPESET_PATTERN_DIR: hyphenation pattern directory
	Threshold  int    // TYPESET_THRESHOLD: quote classifier percentage
	Endpoint   string // TYPESET_ENDPOINT: publish endpoint URL
	XMLLint    string // TYPESET_XMLLINT: xmllint binary path
	ExifTool   string // TYPESET_EXIFTOOL: exiftool binary path
	Browser    string // TYPESET_BROWSER: Chrome/Chromium binary path
	Workers    int    // TYPESET_WORKERS: parallel workers
}

// knownEnvVars lists valid TYPESET_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"TYPESET_CONFIG":      true,
	"TYPESET_LANG":        true,
	"TYPESET_PATTERN_DIR": true,
	"TYPESET_THRESHOLD":   true,
	"TYPESET_ENDPOINT":    true,
	"TYPESET_XMLLINT":     true,
	"TYPESET_EXIFTOOL":    true,
	"TYPESET_BROWSER":     true,
	"TYPESET_WORKERS":     true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("TYPESET_CONFIG"),
		Language:   os.Getenv("TYPESET_LANG"),
		PatternDir: os.Getenv("TYPESET_PATTERN_DIR"),
		Endpoint:   os.Getenv("TYPESET_ENDPOINT"),
		XMLLint:    os.Getenv("TYPESET_XMLLINT"),
		ExifTool:   os.Getenv("TYPESET_EXIFTOOL"),
		Browser:    os.Getenv("TYPESET_BROWSER"),
	}

	if threshold := os.Getenv("TYPESET_THRESHOLD"); threshold != "" {
		if t, err := strconv.Atoi(threshold); err == nil && t > 50 && t <= 100 {
			cfg.Threshold = t
		}
	}

	if workers := os.Getenv("TYPESET_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized TYPESET_* variables.
// Helps catch typos like TYPESET_PATERN_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "TYPESET_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values the config file left empty/zero, so precedence is:
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Language != "" && cfg.Language.Default == "" {
		cfg.Language.Default = env.Language
	}
	if env.PatternDir != "" && cfg.Hyphenate.PatternDir == "" {
		cfg.Hyphenate.PatternDir = env.PatternDir
	}
	if env.Threshold != 0 && cfg.Quotes.Threshold == 0 {
		cfg.Quotes.Threshold = env.Threshold
	}
	if env.Endpoint != "" && cfg.Publish.Endpoint == "" {
		cfg.Publish.Endpoint = env.Endpoint
	}
	if env.XMLLint != "" && cfg.Tools.XMLLint == "" {
		cfg.Tools.XMLLint = env.XMLLint
	}
	if env.ExifTool != "" && cfg.Tools.ExifTool == "" {
		cfg.Tools.ExifTool = env.ExifTool
	}
	if env.Browser != "" && cfg.Tools.Browser == "" {
		cfg.Tools.Browser = env.Browser
	}
	if env.Workers != 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
}

// resolveConfig loads the YAML config (flag > TYPESET_CONFIG > defaults) and
// layers environment overrides on top.
func resolveConfig(flagConfig string, stderr io.Writer) (*config.Config, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(stderr)

	cfg := config.DefaultConfig()
	nameOrPath := flagConfig
	if nameOrPath == "" {
		nameOrPath = envCfg.ConfigPath
	}
	if nameOrPath != "" {
		loaded, err := config.LoadConfig(nameOrPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}
