package typeset

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMarkdownConverter_ToXHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		title        string
		lang         string
		wantContains []string
	}{
		{
			name:  "basic heading",
			input: "# A Chapter",
			title: "A Chapter",
			wantContains: []string{
				`<?xml version="1.0" encoding="utf-8"?>`,
				`xmlns="http://www.w3.org/1999/xhtml"`,
				`xml:lang="en-US"`,
				"<title>A Chapter</title>",
				"<h1",
				"A Chapter",
			},
		},
		{
			name:  "explicit language",
			input: "du texte",
			lang:  "fr-FR",
			wantContains: []string{
				`xml:lang="fr-FR"`,
			},
		},
		{
			name:  "GFM table",
			input: "| A | B |\n|---|---|\n| 1 | 2 |",
			wantContains: []string{
				"<table>",
				"<th>A</th>",
				"<td>1</td>",
			},
		},
		{
			name:  "footnote",
			input: "Text with a note.[^1]\n\n[^1]: The note body.",
			wantContains: []string{
				"fn:1",
				"The note body.",
			},
		},
		{
			name:  "fenced code block is highlighted",
			input: "```go\nfunc main() {}\n```",
			wantContains: []string{
				"<pre",
				"func",
			},
		},
		{
			name:  "self-closing break",
			input: "an image: ![alt](x.png)",
			wantContains: []string{
				`<img src="x.png" alt="alt" />`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewMarkdownConverter()
			got, err := c.ToXHTML(context.Background(), tt.input, tt.title, tt.lang)
			if err != nil {
				t.Fatalf("ToXHTML() error = %v", err)
			}

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %s", want, got)
				}
			}
		})
	}
}

func TestMarkdownConverter_ToXHTML_Empty(t *testing.T) {
	t.Parallel()

	c := NewMarkdownConverter()
	_, err := c.ToXHTML(context.Background(), "", "", "")
	if !errors.Is(err, ErrEmptyMarkdown) {
		t.Errorf("ToXHTML() error = %v, want ErrEmptyMarkdown", err)
	}
}

func TestMarkdownConverter_ToXHTML_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	c := NewMarkdownConverter()
	_, err := c.ToXHTML(ctx, "# x", "", "")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("ToXHTML() error = %v, want context.DeadlineExceeded", err)
	}
}
