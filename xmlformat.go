package typeset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// CommandRunner abstracts subprocess execution to enable testing without
// real external tools.
type CommandRunner interface {
	Run(ctx context.Context, name string, stdin []byte, env []string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// Run executes name with args, feeding stdin and appending env entries to
// the inherited environment.
func (r *ExecRunner) Run(ctx context.Context, name string, stdin []byte, env []string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// FormatOptions controls FormatXHTML behavior.
type FormatOptions struct {
	SingleLines    bool // collapse the document to one line before formatting
	IsMetadataFile bool // skip entity unescaping (protects opf long-descriptions)
	IsEndnotesFile bool // apply the endnotes cite/referrer spacing fix
}

// XMLFormatter canonicalizes and pretty-prints XHTML by shelling out to
// xmllint.
type XMLFormatter struct {
	Runner      CommandRunner
	XMLLintPath string // defaults to "xmllint" resolved on PATH
}

// NewXMLFormatter creates an XMLFormatter with a real command runner.
func NewXMLFormatter() *XMLFormatter {
	return &XMLFormatter{Runner: &ExecRunner{}}
}

// Patterns for pre- and post-processing around xmllint.
var (
	entityPattern  = regexp.MustCompile(`&#?\w+;`)
	doctypePattern = regexp.MustCompile(`(?s)<!DOCTYPE[^>]+?>`)

	// Whitespace between block tags and their content.
	pOpenSpacePattern  = regexp.MustCompile(`(?s)<p([^>]*?)>\s+([^<\s])`)
	pCloseSpacePattern = regexp.MustCompile(`(?s)([^>\s])\s+</p>`)

	// xmllint removes spacing between some inline HTML5 elements.
	inlineSeamPattern = regexp.MustCompile(`</(abbr|cite|i|span)><(abbr|cite|i|span)`)

	// Inline elements directly followed by an <a> tag, unless a noteref.
	// Needs negative lookahead, hence regexp2.
	inlineAnchorPattern = regexp2.MustCompile(`</(abbr|cite|i|span)><(a(?! href="[^"]+?" id="noteref-))`, regexp2.None)

	// Two sequential inline elements as sole children of a block are
	// indented, which breaks spacing when the second is a noteref.
	noterefIndentPattern = regexp.MustCompile(`(?s)</(abbr|cite|i|span)>\s+<(a href="[^"]+?" id="noteref-)`)

	// <cite> running into a referrer <a> in endnotes files.
	citeReferrerPattern = regexp.MustCompile(`</cite>(<a href="[^"]+?" epub:type="se:referrer")`)
)

// essentialReferences must stay escaped; unescaping them would break the
// document.
var essentialReferences = map[string]bool{
	"&gt;": true, "&lt;": true, "&amp;": true,
	"&#62;": true, "&#60;": true, "&#38;": true,
	"&#x3e;": true, "&#x3c;": true, "&#x26;": true,
}

// replaceInessentialReferences converts XML character references to literal
// characters, except the essential three (in all their spellings). Epub3
// does not allow named entities.
func replaceInessentialReferences(xhtml string) string {
	return entityPattern.ReplaceAllStringFunc(xhtml, func(entity string) string {
		if essentialReferences[strings.ToLower(entity)] {
			return entity
		}
		decoded := html.UnescapeString(entity)
		if decoded == entity || strings.HasPrefix(decoded, "&") {
			return entity // unknown reference, leave it alone
		}
		return decoded
	})
}

// Format canonicalizes xhtml with `xmllint --c14n`, pretty-prints it with
// `xmllint --format` (tab indentation), and fixes the inline spacing
// problems xmllint introduces. The output is a complete XHTML document with
// an XML declaration.
func (f *XMLFormatter) Format(ctx context.Context, xhtml string, opts FormatOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if xhtml == "" {
		return "", ErrEmptyDocument
	}

	if opts.SingleLines {
		xhtml = strings.ReplaceAll(xhtml, "\n", " ")
		xhtml = whitespaceRun.ReplaceAllString(xhtml, " ")
	}

	if !opts.IsMetadataFile {
		xhtml = replaceInessentialReferences(xhtml)
	}

	// Unnecessary doctypes can cause xmllint to hang.
	xhtml = doctypePattern.ReplaceAllString(xhtml, "")

	lint := f.XMLLintPath
	if lint == "" {
		lint = "xmllint"
	}

	// Canonicalize.
	stdout, stderr, err := f.Runner.Run(ctx, lint, []byte(xhtml), nil, "--c14n", "-")
	if errors.Is(err, exec.ErrNotFound) {
		return "", ErrXMLLintNotFound
	}
	if !utf8.Valid(stderr) || !utf8.Valid(stdout) {
		return "", ErrInvalidEncoding
	}
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidXHTML, strings.ReplaceAll(msg, "-:", "Line "))
	}
	if err != nil {
		return "", fmt.Errorf("running xmllint --c14n: %w", err)
	}

	// xmllint strips the XML header during c14n.
	xhtml = "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n" + string(stdout)

	// Pretty-print.
	stdout, _, err = f.Runner.Run(ctx, lint, []byte(xhtml), []string{"XMLLINT_INDENT=\t"}, "--format", "-")
	if err != nil {
		return "", fmt.Errorf("running xmllint --format: %w", err)
	}
	xhtml = string(stdout)

	// Remove whitespace xmllint left between block tags and content.
	xhtml = pOpenSpacePattern.ReplaceAllString(xhtml, "<p$1>$2")
	xhtml = pCloseSpacePattern.ReplaceAllString(xhtml, "$1</p>")

	// Restore spacing between inline elements.
	xhtml = inlineSeamPattern.ReplaceAllString(xhtml, "</$1> <$2")
	if fixed, err := inlineAnchorPattern.Replace(xhtml, "</$1> <$2", -1, -1); err == nil {
		xhtml = fixed
	}
	xhtml = noterefIndentPattern.ReplaceAllString(xhtml, "</$1><$2")

	if opts.IsEndnotesFile {
		xhtml = citeReferrerPattern.ReplaceAllString(xhtml, "</cite> $1")
	}

	return xhtml, nil
}
