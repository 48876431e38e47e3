package main

import (
	"errors"
	"os"

	typeset "github.com/ebookworks/go-typeset"
	"github.com/ebookworks/go-typeset/internal/config"
)

// Exit codes for the typeset CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command succeeded
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitTool    = 4 // External tool errors (xmllint, exiftool, browser)
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// External tool errors (exit 4)
	if errors.Is(err, typeset.ErrXMLLintNotFound) ||
		errors.Is(err, typeset.ErrExifToolNotFound) ||
		errors.Is(err, typeset.ErrBrowserConnect) ||
		errors.Is(err, typeset.ErrPageCreate) ||
		errors.Is(err, typeset.ErrPageLoad) ||
		errors.Is(err, typeset.ErrMathRender) {
		return ExitTool
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadDocument) ||
		errors.Is(err, ErrWriteDocument) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidThreshold) ||
		errors.Is(err, typeset.ErrEmptyDocument) ||
		errors.Is(err, typeset.ErrEmptyFragment) ||
		errors.Is(err, typeset.ErrEmptyMarkdown) ||
		errors.Is(err, typeset.ErrInvalidLanguage) ||
		errors.Is(err, typeset.ErrMissingHyphenationPatterns) ||
		errors.Is(err, typeset.ErrMetadataIncomplete) {
		return ExitUsage
	}

	return ExitGeneral
}
