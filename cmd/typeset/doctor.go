package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/ebookworks/go-typeset/internal/fileutil"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Tools    toolsInfo    `json:"tools"`
	Patterns patternsInfo `json:"patterns"`
	Env      envInfo      `json:"environment"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// toolsInfo holds external tool detection results.
type toolsInfo struct {
	XMLLint  toolInfo `json:"xmllint"`
	ExifTool toolInfo `json:"exiftool"`
	Chrome   toolInfo `json:"chrome"`
}

// toolInfo holds a single tool's detection result.
type toolInfo struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// patternsInfo holds hyphenation pattern directory results.
type patternsInfo struct {
	Dir   string   `json:"dir,omitempty"`
	Files []string `json:"files,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	CI         bool   `json:"ci"`
	BrowserBin string `json:"rod_browser_bin,omitempty"`
}

// runDoctor performs diagnostic checks and prints the results.
// Returns an error only when the environment cannot run the core commands.
func runDoctor(_ context.Context, args []string, env *Environment) error {
	flags, err := parseDoctorFlags(args)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common.config, env.Stderr)
	if err != nil {
		return err
	}

	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			CI:         os.Getenv("CI") == "true",
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	// xmllint is required for the format stage.
	result.Tools.XMLLint = lookupTool(cfg.Tools.XMLLint, "xmllint")
	if !result.Tools.XMLLint.Found {
		result.Errors = append(result.Errors,
			"xmllint not found. Install libxml2-utils or set TYPESET_XMLLINT")
	}

	// exiftool is only needed for strip-images.
	result.Tools.ExifTool = lookupTool(cfg.Tools.ExifTool, "exiftool")
	if !result.Tools.ExifTool.Found {
		result.Warnings = append(result.Warnings,
			"exiftool not found; the strip-images command will fail")
	}

	// Chrome is only needed for math rendering.
	result.Tools.Chrome = lookupChrome(cfg.Tools.Browser)
	if !result.Tools.Chrome.Found {
		result.Warnings = append(result.Warnings,
			"Chrome/Chromium not found; the math command will download a managed browser on first use")
	}

	checkPatterns(cfg.Hyphenate.PatternDir, result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return fmt.Errorf("environment not ready")
	}
	return nil
}

// lookupTool resolves a tool path from config or PATH.
func lookupTool(configured, name string) toolInfo {
	if configured != "" {
		if fileutil.FileExists(configured) {
			return toolInfo{Found: true, Path: configured}
		}
		return toolInfo{}
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return toolInfo{}
	}
	return toolInfo{Found: true, Path: path}
}

// lookupChrome resolves the browser via config, ROD_BROWSER_BIN, or rod's
// own search paths.
func lookupChrome(configured string) toolInfo {
	if configured != "" {
		if fileutil.FileExists(configured) {
			return toolInfo{Found: true, Path: configured}
		}
		return toolInfo{}
	}
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		if fileutil.FileExists(bin) {
			return toolInfo{Found: true, Path: bin}
		}
		return toolInfo{}
	}
	path, found := launcher.LookPath()
	if !found {
		return toolInfo{}
	}
	return toolInfo{Found: true, Path: path}
}

// checkPatterns inventories the hyphenation pattern directory.
func checkPatterns(dir string, result *doctorResult) {
	if dir == "" {
		result.Warnings = append(result.Warnings,
			"no pattern directory configured; the hyphenate command needs --pattern-dir or TYPESET_PATTERN_DIR")
		return
	}
	result.Patterns.Dir = dir

	files, err := fileutil.FindFiles(dir, "tex")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("pattern directory %s: %v", dir, err))
		return
	}
	if len(files) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("pattern directory %s contains no .tex files", dir))
		return
	}
	result.Patterns.Files = files
}

// printDoctorResult renders a human-readable report.
func printDoctorResult(w io.Writer, result *doctorResult) {
	fmt.Fprintf(w, "typeset doctor: %s\n\n", result.Status)

	printTool := func(name string, info toolInfo) {
		if info.Found {
			fmt.Fprintf(w, "  %-10s %s\n", name, info.Path)
		} else {
			fmt.Fprintf(w, "  %-10s not found\n", name)
		}
	}
	fmt.Fprintln(w, "Tools:")
	printTool("xmllint", result.Tools.XMLLint)
	printTool("exiftool", result.Tools.ExifTool)
	printTool("chrome", result.Tools.Chrome)

	fmt.Fprintln(w, "\nHyphenation patterns:")
	if result.Patterns.Dir == "" {
		fmt.Fprintln(w, "  (no pattern directory configured)")
	} else {
		fmt.Fprintf(w, "  %s (%d files)\n", result.Patterns.Dir, len(result.Patterns.Files))
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
	if len(result.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
}
