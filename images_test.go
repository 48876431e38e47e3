package typeset

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCleanInkscapeSVG(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		wantNot []string
		want    []string
	}{
		{
			name: "generated ids removed",
			in:   `<svg><path id="path1234" d="M 0 0"/></svg>`,
			wantNot: []string{
				`id="path1234"`,
			},
			want: []string{`d="M 0 0"`},
		},
		{
			name: "metadata block removed",
			in: `<svg><metadata id="metadata7">
<rdf:RDF>editor info</rdf:RDF>
</metadata><path d="M 0 0"/></svg>`,
			wantNot: []string{"<metadata", "editor info"},
			want:    []string{"<path"},
		},
		{
			name:    "empty defs removed",
			in:      `<svg><defs id="defs2"/><rect/></svg>`,
			wantNot: []string{"<defs"},
			want:    []string{"<rect/>"},
		},
		{
			name: "editor namespaces removed",
			in:   `<svg xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:cc="http://creativecommons.org/ns#" xmlns:svg="http://www.w3.org/2000/svg">`,
			wantNot: []string{
				"xmlns:dc", "xmlns:cc",
			},
			want: []string{`xmlns:svg="http://www.w3.org/2000/svg"`},
		},
		{
			name:    "inline styles removed",
			in:      `<path style="fill:#000000;stroke:none" d="M 1 1"/>`,
			wantNot: []string{"style="},
			want:    []string{`d="M 1 1"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CleanInkscapeSVG(tt.in)
			for _, not := range tt.wantNot {
				if strings.Contains(got, not) {
					t.Errorf("output should not contain %q\ngot: %s", not, got)
				}
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %s", want, got)
				}
			}
		})
	}
}

// fakeRunner records invocations and returns canned output.
type fakeRunner struct {
	calls  [][]string
	stdins [][]byte
	stdout []byte
	stderr []byte
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, stdin []byte, _ []string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	f.stdins = append(f.stdins, stdin)
	return f.stdout, f.stderr, f.err
}

func TestMetadataStripper_Strip(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	s := &MetadataStripper{Runner: runner, ExifToolPath: "/usr/bin/exiftool"}

	if err := s.Strip(context.Background(), "cover.jpg"); err != nil {
		t.Fatalf("Strip() error = %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 exiftool invocation, got %d", len(runner.calls))
	}
	call := runner.calls[0]
	for _, want := range []string{"/usr/bin/exiftool", "-overwrite_original", "-all=", "cover.jpg"} {
		found := false
		for _, arg := range call {
			if arg == want {
				found = true
			}
		}
		if !found {
			t.Errorf("invocation missing %q: %v", want, call)
		}
	}
}

func TestMetadataStripper_Strip_CommandError(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: errors.New("boom"), stderr: []byte("bad file")}
	s := &MetadataStripper{Runner: runner, ExifToolPath: "/usr/bin/exiftool"}

	err := s.Strip(context.Background(), "cover.jpg")
	if err == nil {
		t.Fatal("Strip() expected error")
	}
	if !strings.Contains(err.Error(), "bad file") {
		t.Errorf("error should carry stderr, got %v", err)
	}
}
