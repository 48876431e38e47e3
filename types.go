package typeset

import (
	"time"
)

// Typographic characters used throughout the pipeline.
const (
	// SoftHyphen is the invisible break hint inserted between syllables.
	SoftHyphen = '\u00ad'

	// WordJoiner glues a word to an adjacent glyph without allowing a break.
	WordJoiner = '\u2060'

	// ThinSpace separates nested closing quotation marks.
	ThinSpace = '\u2009'
)

// maxHyphenationWordLength is a safety ceiling: words at or above this rune
// count pass through the hyphenator unmodified.
const maxHyphenationWordLength = 100

// QuoteStyle identifies a document's quotation convention.
type QuoteStyle int

// Quoting conventions. British uses single quotes for top-level quotations,
// American uses double quotes.
const (
	QuoteStyleUnsure QuoteStyle = iota
	QuoteStyleBritish
	QuoteStyleAmerican
)

// String returns the lowercase name of the style.
func (s QuoteStyle) String() string {
	switch s {
	case QuoteStyleBritish:
		return "british"
	case QuoteStyleAmerican:
		return "american"
	default:
		return "unsure"
	}
}

// DefaultQuoteStyleThreshold is the percentage of qualifying paragraphs that
// must open with the same primary quote glyph before the classifier commits
// to a style. The value is a house-style choice, not a derived property.
const DefaultQuoteStyleThreshold = 80

// Syllabifier splits a single word into hyphenation-legal segments.
// The concatenation of the returned segments must equal the input word
// exactly; a single-element result means the word has no break points.
type Syllabifier interface {
	Syllables(word string) []string
}

// SyllabifierSource resolves a Syllabifier for a language tag.
// Implementations should return an error wrapping
// ErrMissingHyphenationPatterns when no dictionary exists for the tag.
type SyllabifierSource interface {
	Syllabifier(lang string) (Syllabifier, error)
}

// Input contains processing parameters for Typesetter.Process.
type Input struct {
	XHTML         string // document content (required)
	ConvertQuotes bool   // detect quoting style, convert British to American
	Hyphenate     bool   // insert soft hyphens into body text
	Format        bool   // canonicalize and pretty-print via xmllint
}

// Result holds the outcome of a Process call.
type Result struct {
	XHTML string     // processed document
	Style QuoteStyle // detected quoting style (when ConvertQuotes was set)
}

// Option configures a Typesetter.
type Option func(*Typesetter)

// typesetterConfig holds internal configuration for Typesetter.
type typesetterConfig struct {
	timeout         time.Duration
	language        string
	patternDir      string
	excludeHeadings bool
	quoteThreshold  int
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the timeout for browser-backed operations.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("typeset: WithTimeout duration must be positive")
	}
	return func(t *Typesetter) {
		t.cfg.timeout = d
	}
}

// WithLanguage sets an explicit language tag (e.g. "en-US"), overriding the
// document's own xml:lang / lang declaration.
func WithLanguage(tag string) Option {
	return func(t *Typesetter) {
		t.cfg.language = tag
	}
}

// WithPatternDir sets the directory searched for hyph-<lang>.tex pattern
// files.
func WithPatternDir(dir string) Option {
	return func(t *Typesetter) {
		t.cfg.patternDir = dir
	}
}

// WithExcludeHeadings suppresses hyphenation inside <h1> through <h6>.
func WithExcludeHeadings(exclude bool) Option {
	return func(t *Typesetter) {
		t.cfg.excludeHeadings = exclude
	}
}

// WithQuoteStyleThreshold overrides DefaultQuoteStyleThreshold.
// Panics if pct is outside (50, 100] since a majority below 50 is undefined.
func WithQuoteStyleThreshold(pct int) Option {
	if pct <= 50 || pct > 100 {
		panic("typeset: quote style threshold must be in (50, 100]")
	}
	return func(t *Typesetter) {
		t.cfg.quoteThreshold = pct
	}
}

// WithSyllabifierSource injects a custom dictionary source, replacing the
// pattern-directory cache. Used by tests and by callers with in-memory
// dictionaries.
func WithSyllabifierSource(src SyllabifierSource) Option {
	return func(t *Typesetter) {
		t.source = src
	}
}

// WithCommandRunner injects a custom subprocess runner for the xmllint
// formatting stage.
func WithCommandRunner(r CommandRunner) Option {
	return func(t *Typesetter) {
		t.runner = r
	}
}
