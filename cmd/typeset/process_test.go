package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	typeset "github.com/ebookworks/go-typeset"
	"github.com/ebookworks/go-typeset/internal/config"
)

// fakeProcessor uppercases the document so output files are distinguishable
// from their inputs.
type fakeProcessor struct {
	style typeset.QuoteStyle
	err   error
}

func (f *fakeProcessor) Process(ctx context.Context, input typeset.Input) (*typeset.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &typeset.Result{
		XHTML: strings.ToUpper(input.XHTML),
		Style: f.style,
	}, nil
}

func (f *fakeProcessor) Close() error { return nil }

// fakePool hands out a single shared Processor without blocking.
type fakePool struct {
	p Processor
}

func (f *fakePool) Acquire() Processor  { return f.p }
func (f *fakePool) Release(_ Processor) {}
func (f *fakePool) Size() int           { return 1 }

func writeDocument(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		workers int
		wantErr bool
	}{
		{name: "auto", workers: 0, wantErr: false},
		{name: "one", workers: 1, wantErr: false},
		{name: "maximum", workers: config.MaxWorkers, wantErr: false},
		{name: "negative", workers: -1, wantErr: true},
		{name: "over maximum", workers: config.MaxWorkers + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateWorkers(tt.workers)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.workers, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
				t.Errorf("error = %v, want ErrInvalidWorkerCount", err)
			}
		})
	}
}

func TestValidateThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		threshold int
		wantErr   bool
	}{
		{name: "default", threshold: 0, wantErr: false},
		{name: "lowest valid", threshold: 51, wantErr: false},
		{name: "highest valid", threshold: 100, wantErr: false},
		{name: "bare majority", threshold: 50, wantErr: true},
		{name: "below majority", threshold: 40, wantErr: true},
		{name: "over hundred", threshold: 101, wantErr: true},
		{name: "negative", threshold: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateThreshold(tt.threshold)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateThreshold(%d) error = %v, wantErr %v", tt.threshold, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidThreshold) {
				t.Errorf("error = %v, want ErrInvalidThreshold", err)
			}
		})
	}
}

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	t.Run("no arguments", func(t *testing.T) {
		t.Parallel()

		if _, err := discoverFiles(nil, ""); !errors.Is(err, ErrNoInput) {
			t.Errorf("error = %v, want ErrNoInput", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		if _, err := discoverFiles([]string{"/nonexistent/chapter-1.xhtml"}, ""); !errors.Is(err, ErrNoInput) {
			t.Errorf("error = %v, want ErrNoInput", err)
		}
	})

	t.Run("directory without documents", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeDocument(t, dir, "core.css", "body {}")

		if _, err := discoverFiles([]string{dir}, ""); !errors.Is(err, ErrNoInput) {
			t.Errorf("error = %v, want ErrNoInput", err)
		}
	})

	t.Run("single file in place", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeDocument(t, dir, "chapter-1.xhtml", "<p/>")

		files, err := discoverFiles([]string{path}, "")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("got %d files, want 1", len(files))
		}
		if files[0].InputPath != path || files[0].OutputPath != path {
			t.Errorf("got %+v, want in-place pair for %s", files[0], path)
		}
	})

	t.Run("single file with output file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeDocument(t, dir, "chapter-1.xhtml", "<p/>")
		out := filepath.Join(dir, "out.xhtml")

		files, err := discoverFiles([]string{path}, out)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if files[0].OutputPath != out {
			t.Errorf("OutputPath = %q, want %q", files[0].OutputPath, out)
		}
	})

	t.Run("multiple files create output directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := writeDocument(t, dir, "chapter-1.xhtml", "<p/>")
		b := writeDocument(t, dir, "chapter-2.xhtml", "<p/>")
		out := filepath.Join(t.TempDir(), "processed")

		files, err := discoverFiles([]string{a, b}, out)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if info, err := os.Stat(out); err != nil || !info.IsDir() {
			t.Fatalf("output directory not created: %v", err)
		}
		for _, f := range files {
			want := filepath.Join(out, filepath.Base(f.InputPath))
			if f.OutputPath != want {
				t.Errorf("OutputPath = %q, want %q", f.OutputPath, want)
			}
		}
	})

	t.Run("directory input walks documents", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeDocument(t, dir, "chapter-1.xhtml", "<p/>")
		writeDocument(t, dir, "chapter-2.xhtml", "<p/>")
		writeDocument(t, dir, "core.css", "body {}")

		files, err := discoverFiles([]string{dir}, "")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if len(files) != 2 {
			t.Errorf("got %d files, want 2 documents (css excluded)", len(files))
		}
	})
}

func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("writes processed output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeDocument(t, dir, "chapter-1.xhtml", "<p>hello</p>")
		files := []FileToProcess{{InputPath: path, OutputPath: path}}

		env, _, _ := testEnv("")
		pool := &fakePool{p: &fakeProcessor{style: typeset.QuoteStyleBritish}}

		err := processBatch(context.Background(), pool, files, typeset.Input{Hyphenate: true}, env, &processFlags{})
		if err != nil {
			t.Fatalf("processBatch() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "<P>HELLO</P>" {
			t.Errorf("output = %q, want the processed document", got)
		}
	})

	t.Run("reports style when converting quotes", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeDocument(t, dir, "chapter-1.xhtml", "<p>hello</p>")
		files := []FileToProcess{{InputPath: path, OutputPath: path}}

		env, stdout, _ := testEnv("")
		pool := &fakePool{p: &fakeProcessor{style: typeset.QuoteStyleBritish}}

		err := processBatch(context.Background(), pool, files, typeset.Input{ConvertQuotes: true}, env, &processFlags{})
		if err != nil {
			t.Fatalf("processBatch() error = %v", err)
		}
		if !strings.Contains(stdout.String(), path+": british") {
			t.Errorf("stdout = %q, want style line", stdout.String())
		}
	})

	t.Run("quiet suppresses style lines", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeDocument(t, dir, "chapter-1.xhtml", "<p>hello</p>")
		files := []FileToProcess{{InputPath: path, OutputPath: path}}

		env, stdout, _ := testEnv("")
		pool := &fakePool{p: &fakeProcessor{style: typeset.QuoteStyleBritish}}
		flags := &processFlags{common: commonFlags{quiet: true}}

		if err := processBatch(context.Background(), pool, files, typeset.Input{ConvertQuotes: true}, env, flags); err != nil {
			t.Fatalf("processBatch() error = %v", err)
		}
		if stdout.Len() != 0 {
			t.Errorf("stdout = %q, want nothing in quiet mode", stdout.String())
		}
	})

	t.Run("aggregates failures", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		good := writeDocument(t, dir, "chapter-1.xhtml", "<p>hello</p>")
		files := []FileToProcess{
			{InputPath: good, OutputPath: good},
			{InputPath: filepath.Join(dir, "missing.xhtml"), OutputPath: filepath.Join(dir, "missing.xhtml")},
		}

		env, _, stderr := testEnv("")
		pool := &fakePool{p: &fakeProcessor{}}

		err := processBatch(context.Background(), pool, files, typeset.Input{Hyphenate: true}, env, &processFlags{})
		if err == nil {
			t.Fatal("expected an error for the missing file")
		}
		if !strings.Contains(err.Error(), "1 of 2 files failed") {
			t.Errorf("error = %v, want failure count", err)
		}
		if !errors.Is(err, ErrReadDocument) {
			t.Errorf("error = %v, want wrapping ErrReadDocument", err)
		}
		if !strings.Contains(stderr.String(), "missing.xhtml") {
			t.Errorf("stderr = %q, want per-file failure line", stderr.String())
		}
	})

	t.Run("canceled context fails all files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeDocument(t, dir, "chapter-1.xhtml", "<p>hello</p>")
		files := []FileToProcess{{InputPath: path, OutputPath: path}}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		env, _, _ := testEnv("")
		pool := &fakePool{p: &fakeProcessor{}}

		err := processBatch(ctx, pool, files, typeset.Input{Hyphenate: true}, env, &processFlags{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})

	t.Run("no files is a no-op", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")
		pool := &fakePool{p: &fakeProcessor{}}

		if err := processBatch(context.Background(), pool, nil, typeset.Input{}, env, &processFlags{}); err != nil {
			t.Errorf("processBatch() error = %v, want nil for empty batch", err)
		}
	})
}

func TestClassifyFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	british := writeDocument(t, dir, "british.xhtml", strings.Repeat("<p>‘One.’</p>\n", 5))
	american := writeDocument(t, dir, "american.xhtml", strings.Repeat("<p>“One.”</p>\n", 5))
	files := []FileToProcess{
		{InputPath: british, OutputPath: british},
		{InputPath: american, OutputPath: american},
	}

	env, stdout, _ := testEnv("")
	err := classifyFiles(files, &processFlags{}, config.DefaultConfig(), env)
	if err != nil {
		t.Fatalf("classifyFiles() error = %v", err)
	}
	if !strings.Contains(stdout.String(), british+": british") {
		t.Errorf("stdout = %q, want british line", stdout.String())
	}
	if !strings.Contains(stdout.String(), american+": american") {
		t.Errorf("stdout = %q, want american line", stdout.String())
	}
}
