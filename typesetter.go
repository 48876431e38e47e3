package typeset

import (
	"context"
	"fmt"

	"github.com/npillmayer/hyphenate"

	"github.com/ebookworks/go-typeset/internal/hyphenator"
)

// PatternSource resolves syllabifiers from a directory of TeX hyphenation
// pattern files, caching parsed dictionaries per language.
type PatternSource struct {
	cache *hyphenator.Cache
}

// NewPatternSource creates a PatternSource reading hyph-<lang>.tex files
// from dir.
func NewPatternSource(dir string) *PatternSource {
	return &PatternSource{cache: hyphenator.NewCache(dir)}
}

// Syllabifier returns the syllabifier for a language tag.
func (s *PatternSource) Syllabifier(lang string) (Syllabifier, error) {
	dict, err := s.cache.Dictionary(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingHyphenationPatterns, err)
	}
	return &dictionarySyllabifier{dict: dict}, nil
}

// dictionarySyllabifier adapts a hyphenate.Dictionary to the Syllabifier
// interface.
type dictionarySyllabifier struct {
	dict *hyphenate.Dictionary
}

func (d *dictionarySyllabifier) Syllables(word string) []string {
	return d.dict.Hyphenate(word)
}

// Compile-time interface checks.
var (
	_ SyllabifierSource = (*PatternSource)(nil)
	_ Syllabifier       = (*dictionarySyllabifier)(nil)
	_ CommandRunner     = (*ExecRunner)(nil)
)

// Typesetter orchestrates the typography pipeline: quote conversion,
// hyphenation, and xmllint formatting.
type Typesetter struct {
	cfg       typesetterConfig
	source    SyllabifierSource
	runner    CommandRunner
	formatter *XMLFormatter
	math      *MathRenderer
}

// New creates a Typesetter with default configuration.
// Use options to customize behavior (e.g., WithLanguage).
func New(opts ...Option) *Typesetter {
	t := &Typesetter{
		cfg: typesetterConfig{
			timeout:         defaultTimeout,
			excludeHeadings: true,
			quoteThreshold:  DefaultQuoteStyleThreshold,
		},
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.source == nil {
		t.source = NewPatternSource(t.cfg.patternDir)
	}
	if t.runner == nil {
		t.runner = &ExecRunner{}
	}
	t.formatter = &XMLFormatter{Runner: t.runner}

	return t
}

// Process runs the requested stages over the document and returns the
// result. The context is used for cancellation and timeout.
func (t *Typesetter) Process(ctx context.Context, input Input) (*Result, error) {
	if input.XHTML == "" {
		return nil, ErrEmptyDocument
	}

	result := &Result{XHTML: input.XHTML}

	if input.ConvertQuotes {
		result.Style = ClassifyQuoteStyleThreshold(result.XHTML, t.cfg.quoteThreshold)
		if result.Style == QuoteStyleBritish {
			result.XHTML = ConvertBritishToAmerican(result.XHTML)
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if input.Hyphenate {
		h := &Hyphenator{Source: t.source, ExcludeHeadings: t.cfg.excludeHeadings}
		hyphenated, err := h.Hyphenate(ctx, result.XHTML, t.cfg.language)
		if err != nil {
			return nil, fmt.Errorf("hyphenating: %w", err)
		}
		result.XHTML = hyphenated
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if input.Format {
		formatted, err := t.formatter.Format(ctx, result.XHTML, FormatOptions{})
		if err != nil {
			return nil, fmt.Errorf("formatting: %w", err)
		}
		result.XHTML = formatted
	}

	return result, nil
}

// RenderMath renders a math fragment to PNG bytes using headless Chrome.
// The browser is launched lazily on the first call.
func (t *Typesetter) RenderMath(ctx context.Context, fragment string) ([]byte, error) {
	if t.math == nil {
		t.math = NewMathRenderer(t.cfg.timeout)
	}
	return t.math.RenderPNG(ctx, fragment)
}

// Close releases resources (headless Chrome browser).
func (t *Typesetter) Close() error {
	if t.math != nil {
		return t.math.Close()
	}
	return nil
}
