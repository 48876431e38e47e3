package typeset

import (
	"bytes"
	"context"
	"fmt"

	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// xhtmlTemplate wraps goldmark's fragment output in a complete XHTML
// document suitable for epub content.
const xhtmlTemplate = `<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops" epub:prefix="z3998: http://www.daisy.org/z3998/2012/vocab/structure/, se: https://standardebooks.org/vocab/1.0" xml:lang="%s">
<head>
	<meta charset="utf-8"/>
	<title>%s</title>
</head>
<body>
%s
</body>
</html>
`

// MarkdownConverter converts Markdown drafts into XHTML documents ready for
// the rest of the pipeline.
type MarkdownConverter struct {
	md goldmark.Markdown
}

// NewMarkdownConverter creates a MarkdownConverter with GFM extensions and
// syntax highlighting.
func NewMarkdownConverter() *MarkdownConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes become endnote-style links
			highlighting.NewHighlighting(
				highlighting.WithCustomStyle(styles.Get("github")),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(), // Self-closing tags, required for epub
		),
	)
	return &MarkdownConverter{md: md}
}

// ToXHTML converts Markdown content to a standalone XHTML document with the
// given title and xml:lang. Supports context cancellation via goroutine +
// select since goldmark doesn't natively support context.
func (c *MarkdownConverter) ToXHTML(ctx context.Context, content, title, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if content == "" {
		return "", ErrEmptyMarkdown
	}
	if lang == "" {
		lang = "en-US"
	}

	type result struct {
		xhtml string
		err   error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrMarkdownConversion, err)}
			return
		}
		done <- result{xhtml: fmt.Sprintf(xhtmlTemplate, lang, title, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.xhtml, r.err
	}
}
