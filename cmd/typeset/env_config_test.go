package main

// Notes:
// - These tests use t.Setenv and therefore cannot run in parallel.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ebookworks/go-typeset/internal/config"
)

// clearTypesetEnv blanks every known TYPESET_* variable for the test.
func clearTypesetEnv(t *testing.T) {
	t.Helper()
	for name := range knownEnvVars {
		t.Setenv(name, "")
	}
}

func TestLoadEnvConfig(t *testing.T) {
	clearTypesetEnv(t)
	t.Setenv("TYPESET_CONFIG", "/etc/typeset.yaml")
	t.Setenv("TYPESET_LANG", "en-GB")
	t.Setenv("TYPESET_PATTERN_DIR", "/opt/patterns")
	t.Setenv("TYPESET_THRESHOLD", "90")
	t.Setenv("TYPESET_ENDPOINT", "https://catalog.example.org")
	t.Setenv("TYPESET_XMLLINT", "/usr/bin/xmllint")
	t.Setenv("TYPESET_EXIFTOOL", "/usr/bin/exiftool")
	t.Setenv("TYPESET_BROWSER", "/usr/bin/chromium")
	t.Setenv("TYPESET_WORKERS", "4")

	cfg := loadEnvConfig()

	if cfg.ConfigPath != "/etc/typeset.yaml" {
		t.Errorf("ConfigPath = %q", cfg.ConfigPath)
	}
	if cfg.Language != "en-GB" {
		t.Errorf("Language = %q", cfg.Language)
	}
	if cfg.PatternDir != "/opt/patterns" {
		t.Errorf("PatternDir = %q", cfg.PatternDir)
	}
	if cfg.Threshold != 90 {
		t.Errorf("Threshold = %d, want 90", cfg.Threshold)
	}
	if cfg.Endpoint != "https://catalog.example.org" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.XMLLint != "/usr/bin/xmllint" {
		t.Errorf("XMLLint = %q", cfg.XMLLint)
	}
	if cfg.ExifTool != "/usr/bin/exiftool" {
		t.Errorf("ExifTool = %q", cfg.ExifTool)
	}
	if cfg.Browser != "/usr/bin/chromium" {
		t.Errorf("Browser = %q", cfg.Browser)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
}

func TestLoadEnvConfig_InvalidNumbersIgnored(t *testing.T) {
	clearTypesetEnv(t)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "threshold not a number", key: "TYPESET_THRESHOLD", value: "high"},
		{name: "threshold at half", key: "TYPESET_THRESHOLD", value: "50"},
		{name: "threshold over 100", key: "TYPESET_THRESHOLD", value: "120"},
		{name: "workers not a number", key: "TYPESET_WORKERS", value: "many"},
		{name: "workers zero", key: "TYPESET_WORKERS", value: "0"},
		{name: "workers negative", key: "TYPESET_WORKERS", value: "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg := loadEnvConfig()
			if cfg.Threshold != 0 || cfg.Workers != 0 {
				t.Errorf("invalid %s=%q should be ignored, got threshold=%d workers=%d",
					tt.key, tt.value, cfg.Threshold, cfg.Workers)
			}
		})
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	clearTypesetEnv(t)
	t.Setenv("TYPESET_PATERN_DIR", "/typo")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	if !strings.Contains(buf.String(), "TYPESET_PATERN_DIR") {
		t.Errorf("expected a typo warning, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "TYPESET_LANG") {
		t.Errorf("known variables should not warn, got %q", buf.String())
	}
}

func TestApplyEnvConfig(t *testing.T) {
	env := &envConfig{
		Language:   "fr-FR",
		PatternDir: "/env/patterns",
		Threshold:  85,
		Endpoint:   "https://env.example.org",
		XMLLint:    "/env/xmllint",
		ExifTool:   "/env/exiftool",
		Browser:    "/env/chromium",
		Workers:    6,
	}

	t.Run("fills empty fields", func(t *testing.T) {
		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)

		if cfg.Language.Default != "fr-FR" {
			t.Errorf("Language.Default = %q", cfg.Language.Default)
		}
		if cfg.Hyphenate.PatternDir != "/env/patterns" {
			t.Errorf("Hyphenate.PatternDir = %q", cfg.Hyphenate.PatternDir)
		}
		if cfg.Quotes.Threshold != 85 {
			t.Errorf("Quotes.Threshold = %d", cfg.Quotes.Threshold)
		}
		if cfg.Publish.Endpoint != "https://env.example.org" {
			t.Errorf("Publish.Endpoint = %q", cfg.Publish.Endpoint)
		}
		if cfg.Tools.XMLLint != "/env/xmllint" {
			t.Errorf("Tools.XMLLint = %q", cfg.Tools.XMLLint)
		}
		if cfg.Workers != 6 {
			t.Errorf("Workers = %d", cfg.Workers)
		}
	})

	t.Run("config file values win over env", func(t *testing.T) {
		cfg := &config.Config{
			Language:  config.LanguageConfig{Default: "en-US"},
			Quotes:    config.QuotesConfig{Threshold: 95},
			Hyphenate: config.HyphenateConfig{PatternDir: "/file/patterns"},
			Tools:     config.ToolsConfig{XMLLint: "/file/xmllint"},
			Publish:   config.PublishConfig{Endpoint: "https://file.example.org"},
			Workers:   2,
		}
		applyEnvConfig(env, cfg)

		if cfg.Language.Default != "en-US" {
			t.Errorf("Language.Default = %q, env should not override config", cfg.Language.Default)
		}
		if cfg.Quotes.Threshold != 95 {
			t.Errorf("Quotes.Threshold = %d, env should not override config", cfg.Quotes.Threshold)
		}
		if cfg.Hyphenate.PatternDir != "/file/patterns" {
			t.Errorf("Hyphenate.PatternDir = %q", cfg.Hyphenate.PatternDir)
		}
		if cfg.Tools.XMLLint != "/file/xmllint" {
			t.Errorf("Tools.XMLLint = %q", cfg.Tools.XMLLint)
		}
		if cfg.Publish.Endpoint != "https://file.example.org" {
			t.Errorf("Publish.Endpoint = %q", cfg.Publish.Endpoint)
		}
		if cfg.Workers != 2 {
			t.Errorf("Workers = %d", cfg.Workers)
		}
	})
}

func TestResolveConfig(t *testing.T) {
	clearTypesetEnv(t)

	writeConfig := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("defaults when nothing configured", func(t *testing.T) {
		cfg, err := resolveConfig("", &bytes.Buffer{})
		if err != nil {
			t.Fatalf("resolveConfig() error = %v", err)
		}
		if cfg.Language.Default != "" || cfg.Workers != 0 {
			t.Errorf("expected defaults, got %+v", cfg)
		}
	})

	t.Run("flag path wins over TYPESET_CONFIG", func(t *testing.T) {
		flagPath := writeConfig(t, "flag.yaml", "workers: 3\n")
		envPath := writeConfig(t, "env.yaml", "workers: 5\n")
		t.Setenv("TYPESET_CONFIG", envPath)

		cfg, err := resolveConfig(flagPath, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("resolveConfig() error = %v", err)
		}
		if cfg.Workers != 3 {
			t.Errorf("Workers = %d, want the flag config's 3", cfg.Workers)
		}
	})

	t.Run("TYPESET_CONFIG used without flag", func(t *testing.T) {
		envPath := writeConfig(t, "env.yaml", "workers: 5\n")
		t.Setenv("TYPESET_CONFIG", envPath)

		cfg, err := resolveConfig("", &bytes.Buffer{})
		if err != nil {
			t.Fatalf("resolveConfig() error = %v", err)
		}
		if cfg.Workers != 5 {
			t.Errorf("Workers = %d, want 5", cfg.Workers)
		}
	})

	t.Run("env overrides layer onto file config", func(t *testing.T) {
		path := writeConfig(t, "base.yaml", "workers: 5\n")
		t.Setenv("TYPESET_LANG", "de-DE")

		cfg, err := resolveConfig(path, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("resolveConfig() error = %v", err)
		}
		if cfg.Workers != 5 {
			t.Errorf("Workers = %d, want 5 from the file", cfg.Workers)
		}
		if cfg.Language.Default != "de-DE" {
			t.Errorf("Language.Default = %q, want the env override", cfg.Language.Default)
		}
	})

	t.Run("missing config file errors", func(t *testing.T) {
		if _, err := resolveConfig("/nonexistent/typeset.yaml", &bytes.Buffer{}); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})
}
