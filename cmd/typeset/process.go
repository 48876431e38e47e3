package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	typeset "github.com/ebookworks/go-typeset"
	"github.com/ebookworks/go-typeset/internal/config"
	"github.com/ebookworks/go-typeset/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadDocument       = errors.New("failed to read document")
	ErrWriteDocument      = errors.New("failed to write document")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidThreshold   = errors.New("invalid quote style threshold")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// documentExtensions are the file types the batch commands operate on.
var documentExtensions = []string{"xhtml", "html", "htm"}

// FileToProcess represents a single file to process.
type FileToProcess struct {
	InputPath  string
	OutputPath string
}

// ProcessResult holds the outcome of processing a single file.
type ProcessResult struct {
	InputPath string
	Style     typeset.QuoteStyle
	Err       error
	Duration  time.Duration
}

// validateWorkers rejects nonsensical worker counts early.
func validateWorkers(n int) error {
	if n < 0 || n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// validateThreshold rejects classifier cutoffs outside (50, 100] before they
// reach the option constructor, which panics on bad values. Zero means "use
// the configured or built-in default" and passes through.
func validateThreshold(n int) error {
	if n != 0 && (n <= 50 || n > 100) {
		return fmt.Errorf("%w: %d (must be 51-100)", ErrInvalidThreshold, n)
	}
	return nil
}

// discoverFiles expands positional arguments into concrete input/output
// pairs. Directories are walked for document files. With no output flag,
// files are rewritten in place; when output is a directory, each result
// keeps its base name under it.
func discoverFiles(args []string, output string) ([]FileToProcess, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	var inputs []string
	for _, arg := range args {
		found, err := fileutil.FindFiles(arg, documentExtensions...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoInput, err)
		}
		inputs = append(inputs, found...)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no document files under %v", ErrNoInput, args)
	}

	outputIsDir := false
	if output != "" {
		if info, err := os.Stat(output); err == nil && info.IsDir() {
			outputIsDir = true
		} else if len(inputs) > 1 {
			// Multiple inputs need a directory target.
			if err := os.MkdirAll(output, dirPermissions); err != nil {
				return nil, fmt.Errorf("creating output directory: %w", err)
			}
			outputIsDir = true
		}
	}

	files := make([]FileToProcess, len(inputs))
	for i, in := range inputs {
		out := in
		switch {
		case outputIsDir:
			out = filepath.Join(output, filepath.Base(in))
		case output != "":
			out = output
		}
		files[i] = FileToProcess{InputPath: in, OutputPath: out}
	}
	return files, nil
}

// buildOptions translates flags and config into typeset options.
func buildOptions(f *processFlags, cfg *config.Config) []typeset.Option {
	var opts []typeset.Option

	lang := f.lang
	if lang == "" {
		lang = cfg.Language.Default
	}
	if lang != "" {
		opts = append(opts, typeset.WithLanguage(lang))
	}

	patternDir := f.patternDir
	if patternDir == "" {
		patternDir = cfg.Hyphenate.PatternDir
	}
	if patternDir != "" {
		opts = append(opts, typeset.WithPatternDir(patternDir))
	}

	if f.includeHeadings || cfg.Hyphenate.IncludeHeadings {
		opts = append(opts, typeset.WithExcludeHeadings(false))
	}

	threshold := f.threshold
	if threshold == 0 {
		threshold = cfg.Quotes.Threshold
	}
	if threshold != 0 {
		opts = append(opts, typeset.WithQuoteStyleThreshold(threshold))
	}

	return opts
}

// processBatch runs files through the pool concurrently and reports results.
// Returns an error when any file failed.
func processBatch(ctx context.Context, pool Pool, files []FileToProcess, input typeset.Input, env *Environment, f *processFlags) error {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	jobs := make(chan int)
	results := make([]ProcessResult, len(files))

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Canceled contexts make processFile return immediately, so
			// draining the remaining jobs is cheap.
			for i := range jobs {
				results[i] = processFile(ctx, pool, files[i], input, env.Now)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "%s: %v\n", r.InputPath, r.Err)
			continue
		}
		if f.common.verbose {
			fmt.Fprintf(env.Stdout, "%s: ok (%s)\n", r.InputPath, r.Duration.Round(time.Millisecond))
		}
		if input.ConvertQuotes && !f.common.quiet {
			fmt.Fprintf(env.Stdout, "%s: %s\n", r.InputPath, r.Style)
		}
	}

	if failed > 0 {
		// Surface the first failure so exit codes reflect the cause.
		for _, r := range results {
			if r.Err != nil {
				return fmt.Errorf("%d of %d files failed: %w", failed, len(files), r.Err)
			}
		}
	}
	return nil
}

// processFile runs one file through an acquired Typesetter.
func processFile(ctx context.Context, pool Pool, file FileToProcess, input typeset.Input, now func() time.Time) ProcessResult {
	start := now()
	result := ProcessResult{InputPath: file.InputPath}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	content, err := os.ReadFile(file.InputPath) // #nosec G304 -- path comes from CLI args
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadDocument, err)
		return result
	}

	t := pool.Acquire()
	input.XHTML = string(content)
	processed, err := t.Process(ctx, input)
	pool.Release(t)
	if err != nil {
		result.Err = err
		return result
	}
	result.Style = processed.Style

	if err := os.WriteFile(file.OutputPath, []byte(processed.XHTML), filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteDocument, err)
		return result
	}

	result.Duration = now().Sub(start)
	return result
}

// runProcess runs the full pipeline (quotes, hyphenation, formatting).
func runProcess(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseProcessFlags(args)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if err := validateThreshold(flags.threshold); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common.config, env.Stderr)
	if err != nil {
		return err
	}
	env.Config = cfg

	files, err := discoverFiles(positional, flags.output)
	if err != nil {
		return err
	}

	opts := buildOptions(flags, cfg)
	if cfg.Tools.XMLLint != "" {
		opts = append(opts, typeset.WithCommandRunner(&toolPathRunner{xmllint: cfg.Tools.XMLLint}))
	}

	pool := NewTypesetterPool(resolvePoolSize(flags.workers, cfg.Workers), func() Processor {
		return typeset.New(opts...)
	})
	defer pool.Close()

	input := typeset.Input{
		ConvertQuotes: !flags.noQuotes,
		Hyphenate:     !flags.noHyphenate,
		Format:        !flags.noFormat,
	}
	return processBatch(ctx, pool, files, input, env, flags)
}

// runHyphenate inserts soft hyphens into document body text.
func runHyphenate(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseHyphenateFlags(args)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common.config, env.Stderr)
	if err != nil {
		return err
	}
	env.Config = cfg

	files, err := discoverFiles(positional, flags.output)
	if err != nil {
		return err
	}

	opts := buildOptions(flags, cfg)
	pool := NewTypesetterPool(resolvePoolSize(flags.workers, cfg.Workers), func() Processor {
		return typeset.New(opts...)
	})
	defer pool.Close()

	return processBatch(ctx, pool, files, typeset.Input{Hyphenate: true}, env, flags)
}

// runQuotes classifies quotation style, optionally converting British
// documents to American in place.
func runQuotes(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseQuotesFlags(args)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	// Guards both the convert path (option constructor) and classifyFiles.
	if err := validateThreshold(flags.threshold); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common.config, env.Stderr)
	if err != nil {
		return err
	}
	env.Config = cfg

	files, err := discoverFiles(positional, flags.output)
	if err != nil {
		return err
	}

	if !flags.convert {
		return classifyFiles(files, flags, cfg, env)
	}

	opts := buildOptions(flags, cfg)
	pool := NewTypesetterPool(resolvePoolSize(flags.workers, cfg.Workers), func() Processor {
		return typeset.New(opts...)
	})
	defer pool.Close()

	return processBatch(ctx, pool, files, typeset.Input{ConvertQuotes: true}, env, flags)
}

// classifyFiles reports each document's quotation style without rewriting it.
func classifyFiles(files []FileToProcess, flags *processFlags, cfg *config.Config, env *Environment) error {
	threshold := flags.threshold
	if threshold == 0 {
		threshold = cfg.Quotes.Threshold
	}
	if threshold == 0 {
		threshold = typeset.DefaultQuoteStyleThreshold
	}

	var firstErr error
	for _, file := range files {
		content, err := os.ReadFile(file.InputPath) // #nosec G304 -- path comes from CLI args
		if err != nil {
			fmt.Fprintf(env.Stderr, "%s: %v\n", file.InputPath, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %v", ErrReadDocument, err)
			}
			continue
		}
		style := typeset.ClassifyQuoteStyleThreshold(string(content), threshold)
		fmt.Fprintf(env.Stdout, "%s: %s\n", file.InputPath, style)
	}
	return firstErr
}

// runFormat canonicalizes and pretty-prints documents via xmllint.
func runFormat(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseFormatFlags(args)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common.config, env.Stderr)
	if err != nil {
		return err
	}
	env.Config = cfg

	files, err := discoverFiles(positional, flags.output)
	if err != nil {
		return err
	}

	formatter := typeset.NewXMLFormatter()
	formatter.XMLLintPath = cfg.Tools.XMLLint
	formatOpts := typeset.FormatOptions{
		SingleLines:    flags.singleLines || cfg.Format.SingleLines,
		IsMetadataFile: flags.metadata,
		IsEndnotesFile: flags.endnotes,
	}

	var firstErr error
	failed := 0
	for _, file := range files {
		if err := formatFile(ctx, formatter, file, formatOpts); err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "%s: %v\n", file.InputPath, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, "%s: ok\n", file.InputPath)
		}
	}
	if firstErr != nil {
		return fmt.Errorf("%d of %d files failed: %w", failed, len(files), firstErr)
	}
	return nil
}

// formatFile formats a single document in place or into its output path.
func formatFile(ctx context.Context, formatter *typeset.XMLFormatter, file FileToProcess, opts typeset.FormatOptions) error {
	content, err := os.ReadFile(file.InputPath) // #nosec G304 -- path comes from CLI args
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadDocument, err)
	}

	formatted, err := formatter.Format(ctx, string(content), opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(file.OutputPath, []byte(formatted), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDocument, err)
	}
	return nil
}

// toolPathRunner rewrites the xmllint binary path before executing.
type toolPathRunner struct {
	typeset.ExecRunner
	xmllint string
}

func (r *toolPathRunner) Run(ctx context.Context, name string, stdin []byte, cmdEnv []string, cmdArgs ...string) ([]byte, []byte, error) {
	if name == "xmllint" && r.xmllint != "" {
		name = r.xmllint
	}
	return r.ExecRunner.Run(ctx, name, stdin, cmdEnv, cmdArgs...)
}
