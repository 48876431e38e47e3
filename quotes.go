package typeset

import (
	"regexp"
	"strings"
)

// Placeholder runes for the quote conversion pipeline. They come from the
// private use area so no rewrite rule can confuse them with document
// content, and the resolution table maps every one of them to a final glyph,
// so none can survive to the output.
const (
	phOpenDouble  = '\uE000' // stands in for “
	phCloseDouble = '\uE001' // stands in for ”
	phOpenSingle  = '\uE002' // stands in for ‘
	phCloseSingle = '\uE003' // apostrophe glyph reclassified as a closing quote
	phApostrophe  = '\uE004' // apostrophe glyph confirmed as possessive/contraction
)

// Paragraph-initial quote captures: the shortest run of text between a <p>
// tag and the first primary opening quote of each kind.
var (
	doubleFirstPattern = regexp.MustCompile(`\t*<p>(.*?)“`)
	singleFirstPattern = regexp.MustCompile(`\t*<p>(.*?)‘`)
)

// ClassifyQuoteStyle samples paragraph-initial quotation marks and guesses
// whether doc follows the British or American quoting convention, using
// DefaultQuoteStyleThreshold as the cutoff.
func ClassifyQuoteStyle(doc string) QuoteStyle {
	return ClassifyQuoteStyleThreshold(doc, DefaultQuoteStyleThreshold)
}

// ClassifyQuoteStyleThreshold is ClassifyQuoteStyle with an explicit cutoff
// percentage. A paragraph counts toward a style only when the capture up to
// that style's opening glyph does not already contain the other style's
// opening glyph. Documents with no qualifying captures classify as Unsure.
func ClassifyQuoteStyleThreshold(doc string, threshold int) QuoteStyle {
	doubleFirst := countQualifyingCaptures(doubleFirstPattern, doc, "‘")
	singleFirst := countQualifyingCaptures(singleFirstPattern, doc, "“")

	total := doubleFirst + singleFirst
	if total == 0 {
		return QuoteStyleUnsure
	}

	americanPct := float64(doubleFirst) / float64(total) * 100
	switch {
	case americanPct >= float64(threshold):
		return QuoteStyleAmerican
	case 100-americanPct >= float64(threshold):
		return QuoteStyleBritish
	default:
		return QuoteStyleUnsure
	}
}

// countQualifyingCaptures counts pattern matches whose capture group does not
// contain the opposing glyph.
func countQualifyingCaptures(pattern *regexp.Regexp, doc, opposing string) int {
	count := 0
	for _, m := range pattern.FindAllStringSubmatch(doc, -1) {
		if !strings.Contains(m[1], opposing) {
			count++
		}
	}
	return count
}

// rewriteRule is one ordered, context-sensitive rewrite in the conversion
// pipeline.
type rewriteRule struct {
	pattern *regexp.Regexp
	repl    string
}

// Placeholder strings for building rules.
var (
	ldq = string(phOpenDouble)
	rdq = string(phCloseDouble)
	lsq = string(phOpenSingle)
	rsq = string(phCloseSingle)
	ap  = string(phApostrophe)
)

// markAmbiguousQuotes reclassifies apostrophe glyphs by context. The rules
// run strictly in order; each operates on the output of the previous one.
// At this point “ ” ‘ are already placeholders, so character classes like
// [^‘”] cannot be confused by original top-level quotes.
var markAmbiguousQuotes = []rewriteRule{
	// A closing double followed by word-joiner, thin space, and an apostrophe
	// is a nested "closing double then closing single" pair when it ends the
	// quotation (whitespace, closing tag, or end of input follows).
	{regexp.MustCompile(rdq + string(WordJoiner) + string(ThinSpace) + `’(\s+)`), rdq + string(ThinSpace) + rsq + "$1"},
	{regexp.MustCompile(rdq + string(WordJoiner) + string(ThinSpace) + `’(</|$)`), rdq + string(ThinSpace) + rsq + "$1"},

	// An apostrophe right after sentence punctuation closes a quotation.
	{regexp.MustCompile(`([.,!?…:;])’`), "$1" + rsq},

	// Likewise after an em-dash, when the quotation ends there.
	{regexp.MustCompile(`—’(\s+)`), "—" + rsq + "$1"},
	{regexp.MustCompile(`—’(</|$)`), "—" + rsq + "$1"},

	// Between two lowercase letters, or after whitespace before a lowercase
	// letter, the glyph is a genuine possessive/contraction apostrophe.
	{regexp.MustCompile(`([a-z])’([a-z])`), "$1" + ap + "$2"},
	{regexp.MustCompile(`(\s+)’([a-z])`), "$1" + ap + "$2"},
}

// substitutePlaceholders converts the unambiguous quote glyphs to
// placeholders. The apostrophe glyph stays untouched; its role is resolved
// contextually by markAmbiguousQuotes.
var substitutePlaceholders = strings.NewReplacer(
	"“", ldq,
	"”", rdq,
	"‘", lsq,
)

// discardForeignPlaceholders drops our private-use runes when they occur in
// the input itself, so the pipeline's placeholders are provably its own and
// resolution cannot turn stray input runes into quote glyphs.
var discardForeignPlaceholders = strings.NewReplacer(
	ldq, "",
	rdq, "",
	lsq, "",
	rsq, "",
	ap, "",
)

// resolvePlaceholders swaps every placeholder for its American-style glyph.
// The table is total over the placeholder set: former double quotes become
// single, former singles become double, apostrophes stay apostrophes.
var resolvePlaceholders = strings.NewReplacer(
	ldq, "‘",
	rdq, "’",
	lsq, "“",
	rsq, "”",
	ap, "’",
)

// correctionRules patches two known problem patterns left by the main
// pipeline: sequential closing singles, and a double-opened quotation whose
// closing glyph was misread as a single.
var correctionRules = []rewriteRule{
	{regexp.MustCompile(`’ ’`), "’ ”"},
	{regexp.MustCompile(`“([^‘”]+?[^s])’([!?:;)\s])`), "“$1”$2"},
	{regexp.MustCompile(`“([^‘”]+?)’([!?:;)])`), "“$1”$2"},
}

// ConvertBritishToAmerican rewrites a document's quotation from British style
// (single quotes primary) to American style (double quotes primary),
// disambiguating the overloaded apostrophe glyph by context.
//
// The converter assumes British input; it does not re-verify. It is total
// over arbitrary Unicode text: on American-style or mixed input the output
// quality is undefined, but the function never fails and never leaks
// placeholder characters.
func ConvertBritishToAmerican(doc string) string {
	doc = discardForeignPlaceholders.Replace(doc)
	doc = substitutePlaceholders.Replace(doc)

	for _, rule := range markAmbiguousQuotes {
		doc = rule.pattern.ReplaceAllString(doc, rule.repl)
	}

	doc = resolvePlaceholders.Replace(doc)

	for _, rule := range correctionRules {
		doc = rule.pattern.ReplaceAllString(doc, rule.repl)
	}

	return doc
}
