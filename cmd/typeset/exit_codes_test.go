package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	typeset "github.com/ebookworks/go-typeset"
	"github.com/ebookworks/go-typeset/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: ExitSuccess},
		{name: "generic error", err: errors.New("boom"), want: ExitGeneral},

		// Tool errors
		{name: "xmllint not found", err: typeset.ErrXMLLintNotFound, want: ExitTool},
		{name: "exiftool not found", err: typeset.ErrExifToolNotFound, want: ExitTool},
		{name: "browser connect", err: typeset.ErrBrowserConnect, want: ExitTool},
		{name: "page load", err: typeset.ErrPageLoad, want: ExitTool},
		{name: "math render", err: typeset.ErrMathRender, want: ExitTool},

		// I/O errors
		{name: "file not found", err: os.ErrNotExist, want: ExitIO},
		{name: "permission denied", err: os.ErrPermission, want: ExitIO},
		{name: "no input", err: ErrNoInput, want: ExitIO},
		{name: "read failure", err: ErrReadDocument, want: ExitIO},
		{name: "write failure", err: ErrWriteDocument, want: ExitIO},

		// Usage errors
		{name: "config not found", err: config.ErrConfigNotFound, want: ExitUsage},
		{name: "config parse", err: config.ErrConfigParse, want: ExitUsage},
		{name: "invalid workers", err: ErrInvalidWorkerCount, want: ExitUsage},
		{name: "invalid threshold", err: ErrInvalidThreshold, want: ExitUsage},
		{name: "empty document", err: typeset.ErrEmptyDocument, want: ExitUsage},
		{name: "invalid language", err: typeset.ErrInvalidLanguage, want: ExitUsage},
		{name: "missing patterns", err: typeset.ErrMissingHyphenationPatterns, want: ExitUsage},
		{name: "incomplete metadata", err: typeset.ErrMetadataIncomplete, want: ExitUsage},

		// Wrapped errors resolve through errors.Is
		{
			name: "wrapped tool error",
			err:  fmt.Errorf("formatting: %w", typeset.ErrXMLLintNotFound),
			want: ExitTool,
		},
		{
			name: "deeply wrapped usage error",
			err:  fmt.Errorf("2 of 5 files failed: %w", fmt.Errorf("hyphenating: %w", typeset.ErrMissingHyphenationPatterns)),
			want: ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
