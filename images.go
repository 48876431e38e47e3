package typeset

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
)

// Inkscape leaves generated ids, metadata, and styling debris in exported
// SVGs.
var (
	svgIDPattern        = regexp.MustCompile(`id="[^"]+?"`)
	svgMetadataPattern  = regexp.MustCompile(`(?s)<metadata[^>]*?>.*?</metadata>`)
	svgEmptyDefsPattern = regexp.MustCompile(`<defs[^>]*?/>`)
	svgNamespacePattern = regexp.MustCompile(`xmlns:(dc|cc|rdf)="[^"]*?"`)
	svgStylePattern     = regexp.MustCompile(` style=".*?"`)
)

// CleanInkscapeSVG strips Inkscape-generated ids, metadata blocks, empty
// defs, Dublin Core namespaces, and inline styles from an SVG. Run the
// result through FormatXHTML for canonical output.
func CleanInkscapeSVG(svg string) string {
	svg = svgIDPattern.ReplaceAllString(svg, "")
	svg = svgMetadataPattern.ReplaceAllString(svg, "")
	svg = svgEmptyDefsPattern.ReplaceAllString(svg, "")
	svg = svgNamespacePattern.ReplaceAllString(svg, "")
	svg = svgStylePattern.ReplaceAllString(svg, "")
	return svg
}

// MetadataStripper removes embedded metadata from image files by shelling
// out to exiftool.
type MetadataStripper struct {
	Runner       CommandRunner
	ExifToolPath string // defaults to exiftool resolved on PATH
}

// NewMetadataStripper creates a MetadataStripper with a real command runner.
func NewMetadataStripper() *MetadataStripper {
	return &MetadataStripper{Runner: &ExecRunner{}}
}

// Strip removes all metadata from the image at path, overwriting the
// original file. Returns ErrExifToolNotFound when exiftool is not installed.
func (s *MetadataStripper) Strip(ctx context.Context, path string) error {
	tool := s.ExifToolPath
	if tool == "" {
		resolved, err := exec.LookPath("exiftool")
		if err != nil {
			return ErrExifToolNotFound
		}
		tool = resolved
	}

	_, stderr, err := s.Runner.Run(ctx, tool, nil, nil, "-overwrite_original", "-all=", path)
	if errors.Is(err, exec.ErrNotFound) {
		return ErrExifToolNotFound
	}
	if err != nil {
		return fmt.Errorf("stripping metadata from %s: %s: %w", path, stderr, err)
	}
	return nil
}
