package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	typeset "github.com/ebookworks/go-typeset"
	"github.com/ebookworks/go-typeset/internal/fileutil"
)

// runTitlecase titlecases its arguments, or stdin when none are given.
func runTitlecase(args []string, env *Environment) error {
	fs := flag.NewFlagSet("titlecase", flag.ContinueOnError)
	fs.Usage = func() { printTitlecaseUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return err
	}

	if positional := fs.Args(); len(positional) > 0 {
		fmt.Fprintln(env.Stdout, typeset.Titlecase(strings.Join(positional, " ")))
		return nil
	}

	content, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	for _, line := range strings.Split(strings.TrimRight(string(content), "\n"), "\n") {
		fmt.Fprintln(env.Stdout, typeset.Titlecase(line))
	}
	return nil
}

// runClean strips Inkscape debris from SVG files in place.
func runClean(args []string, env *Environment) error {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	verbose := fs.BoolP("verbose", "v", false, "list cleaned files")
	fs.Usage = func() { printCleanUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) == 0 {
		return ErrNoInput
	}

	var firstErr error
	for _, arg := range fs.Args() {
		files, err := fileutil.FindFiles(arg, "svg")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoInput, err)
		}
		for _, path := range files {
			content, err := os.ReadFile(path) // #nosec G304 -- path comes from CLI args
			if err != nil {
				fmt.Fprintf(env.Stderr, "%s: %v\n", path, err)
				if firstErr == nil {
					firstErr = fmt.Errorf("%w: %v", ErrReadDocument, err)
				}
				continue
			}
			cleaned := typeset.CleanInkscapeSVG(string(content))
			if err := os.WriteFile(path, []byte(cleaned), filePermissions); err != nil {
				fmt.Fprintf(env.Stderr, "%s: %v\n", path, err)
				if firstErr == nil {
					firstErr = fmt.Errorf("%w: %v", ErrWriteDocument, err)
				}
				continue
			}
			if *verbose {
				fmt.Fprintf(env.Stdout, "%s: cleaned\n", path)
			}
		}
	}
	return firstErr
}

// imageExtensions are the formats exiftool is asked to strip.
var imageExtensions = []string{"jpg", "jpeg", "png", "tif", "tiff"}

// runStripImages removes embedded metadata from image files.
func runStripImages(ctx context.Context, args []string, env *Environment) error {
	fs := flag.NewFlagSet("strip-images", flag.ContinueOnError)
	var common commonFlags
	addCommonFlags(fs, &common)
	fs.Usage = func() { printStripImagesUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) == 0 {
		return ErrNoInput
	}

	cfg, err := resolveConfig(common.config, env.Stderr)
	if err != nil {
		return err
	}

	stripper := typeset.NewMetadataStripper()
	stripper.ExifToolPath = cfg.Tools.ExifTool

	var firstErr error
	for _, arg := range fs.Args() {
		files, err := fileutil.FindFiles(arg, imageExtensions...)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoInput, err)
		}
		for _, path := range files {
			if err := stripper.Strip(ctx, path); err != nil {
				fmt.Fprintf(env.Stderr, "%s: %v\n", path, err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if common.verbose {
				fmt.Fprintf(env.Stdout, "%s: stripped\n", path)
			}
		}
	}
	return firstErr
}

// runWordcount prints per-file and total word counts.
func runWordcount(args []string, env *Environment) error {
	fs := flag.NewFlagSet("wordcount", flag.ContinueOnError)
	totalOnly := fs.Bool("total", false, "print only the total")
	fs.Usage = func() { printWordcountUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) == 0 {
		return ErrNoInput
	}

	total := 0
	var firstErr error
	for _, arg := range fs.Args() {
		files, err := fileutil.FindFiles(arg, documentExtensions...)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoInput, err)
		}
		for _, path := range files {
			content, err := os.ReadFile(path) // #nosec G304 -- path comes from CLI args
			if err != nil {
				fmt.Fprintf(env.Stderr, "%s: %v\n", path, err)
				if firstErr == nil {
					firstErr = fmt.Errorf("%w: %v", ErrReadDocument, err)
				}
				continue
			}
			count := typeset.CountWords(string(content))
			total += count
			if !*totalOnly {
				fmt.Fprintf(env.Stdout, "%s: %d\n", path, count)
			}
		}
	}
	fmt.Fprintf(env.Stdout, "total: %d\n", total)
	return firstErr
}
