package typeset

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/antchfx/xmlquery"
)

// Heading tag names as accumulated by the scanner ("h1".."h6", "/h1".."/h6").
var (
	headingOpenPattern  = regexp.MustCompile(`^h[1-6]$`)
	headingClosePattern = regexp.MustCompile(`^/h[1-6]$`)
)

// Hyphenator inserts soft hyphens into the body text of an XHTML document.
//
// The scanner walks the <body> region character by character, classifying
// each position as tag markup, word content, or boundary. Words are handed to
// a language-specific Syllabifier; everything else is copied through
// byte-for-byte. The zero value is not usable: Source is required.
type Hyphenator struct {
	// Source resolves syllable splitters per language tag.
	Source SyllabifierSource

	// ExcludeHeadings suppresses hyphenation inside <h1> through <h6>
	// while still scanning past them.
	ExcludeHeadings bool
}

// Hyphenate returns doc with soft hyphens inserted into body words.
//
// lang is a BCP-47-like tag such as "en-US". When empty, the language is read
// from the xml:lang or lang attribute of the document's root element;
// ErrInvalidLanguage is returned when neither exists. The output is not
// guaranteed to be pretty-printed; run FormatXHTML afterwards if indentation
// matters.
//
// Hyphenation either fully succeeds or fails with an explicit error. There is
// no partial output.
func (h *Hyphenator) Hyphenate(ctx context.Context, doc, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if doc == "" {
		return "", ErrEmptyDocument
	}

	if lang == "" {
		var err error
		lang, err = resolveDocumentLanguage(doc)
		if err != nil {
			return "", err
		}
	}

	splitter, err := h.Source.Syllabifier(lang)
	if err != nil {
		return "", fmt.Errorf("resolving syllabifier for %q: %w", lang, err)
	}

	bodyStart := strings.Index(doc, "<body")
	bodyEnd := strings.LastIndex(doc, "</body>")
	if bodyStart < 0 || bodyEnd < 0 || bodyEnd < bodyStart {
		return "", ErrMalformedInput
	}
	bodyEnd += len("</body>")
	body := doc[bodyStart:bodyEnd]

	processed := h.hyphenateBody(body, splitter)

	// Strip the original body and re-inject the processed text right after
	// the head region closes.
	headClose := strings.Index(doc, "</head>")
	if headClose < 0 {
		return "", fmt.Errorf("%w: missing </head>", ErrMalformedInput)
	}
	stripped := doc[:bodyStart] + doc[bodyEnd:]
	return strings.Replace(stripped, "</head>", "</head>\n\t"+processed, 1), nil
}

// hyphenateBody runs the scanner over one body region, emitting a new buffer.
// Tag content, attributes and boundary characters are copied verbatim; words
// are finalized at every boundary.
func (h *Hyphenator) hyphenateBody(body string, splitter Syllabifier) string {
	var out strings.Builder
	out.Grow(len(body) + len(body)/8)

	var word []rune
	var tagName []rune
	inTag := false
	readingTagName := false
	inHeading := false

	flushWord := func() {
		if len(word) == 0 {
			return
		}
		out.WriteString(h.finalizeWord(word, inHeading, splitter))
		word = word[:0]
	}

	for _, r := range body {
		if inTag {
			out.WriteRune(r)
			switch {
			case r == '>':
				inTag = false
				if readingTagName {
					readingTagName = false
					inHeading = headingState(tagName, inHeading)
				}
			case r == ' ':
				if readingTagName {
					readingTagName = false
					inHeading = headingState(tagName, inHeading)
				}
			case readingTagName:
				tagName = append(tagName, r)
			}
			continue
		}

		if r == '<' {
			flushWord()
			inTag = true
			readingTagName = true
			tagName = tagName[:0]
			out.WriteRune(r)
			continue
		}

		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word = append(word, r)
			continue
		}

		flushWord()
		out.WriteRune(r)
	}
	flushWord()

	return out.String()
}

// finalizeWord returns the word with soft hyphens between syllables, or the
// word unchanged when it is heading-excluded, at or above the length ceiling,
// or has no break points.
func (h *Hyphenator) finalizeWord(word []rune, inHeading bool, splitter Syllabifier) string {
	text := string(word)
	if h.ExcludeHeadings && inHeading {
		return text
	}
	if len(word) >= maxHyphenationWordLength {
		return text
	}
	syllables := splitter.Syllables(text)
	if len(syllables) < 2 {
		return text
	}
	return strings.Join(syllables, string(SoftHyphen))
}

// headingState updates the heading-depth flag for a completed tag name.
func headingState(tagName []rune, current bool) bool {
	name := string(tagName)
	if headingOpenPattern.MatchString(name) {
		return true
	}
	if headingClosePattern.MatchString(name) {
		return false
	}
	return current
}

// resolveDocumentLanguage reads the language declaration from the document's
// root element, preferring xml:lang over lang.
func resolveDocumentLanguage(doc string) (string, error) {
	parsed, err := xmlquery.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLanguage, err)
	}
	root := parsed.FirstChild
	for root != nil && root.Type != xmlquery.ElementNode {
		root = root.NextSibling
	}
	if root == nil {
		return "", ErrInvalidLanguage
	}
	for _, attr := range root.Attr {
		if attr.Name.Local == "lang" && attr.Name.Space == "xml" && attr.Value != "" {
			return attr.Value, nil
		}
	}
	for _, attr := range root.Attr {
		if attr.Name.Local == "lang" && attr.Name.Space == "" && attr.Value != "" {
			return attr.Value, nil
		}
	}
	return "", ErrInvalidLanguage
}

// StripSoftHyphens removes every soft hyphen marker from s. Useful for
// re-hyphenating a document with fresh dictionaries.
func StripSoftHyphens(s string) string {
	return strings.ReplaceAll(s, string(SoftHyphen), "")
}
