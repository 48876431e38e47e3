// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/ebookworks/go-typeset/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN or TYPESET_BROWSER to use an installed Chrome")
	}

	return formatHints(hints)
}

// ForXMLLint returns hints for a missing xmllint binary.
func ForXMLLint() string {
	return format("install libxml2-utils (Debian) or libxml2 (Homebrew), or set TYPESET_XMLLINT")
}

// ForExifTool returns hints for a missing exiftool binary.
func ForExifTool() string {
	return format("install exiftool, or set TYPESET_EXIFTOOL")
}

// ForPatterns returns hints for missing hyphenation pattern files.
func ForPatterns() string {
	return format("download hyph-<lang>.tex from the TeX hyphenation project and point --pattern-dir or TYPESET_PATTERN_DIR at it")
}

// ForLanguage returns hints for documents without a usable language tag.
func ForLanguage() string {
	return format("add xml:lang to the document root, or pass --lang")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-typeset/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-typeset") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
