// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "typeset-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// FindFiles walks root and returns every regular file whose extension (without
// the dot) matches one of extensions, sorted lexically. If root is itself a
// regular file it is returned as-is regardless of extension, so explicit
// arguments always win over discovery.
func FindFiles(root string, extensions ...string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("locating %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden directories like .git are never ebook content.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if wanted[ext] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}
