package typeset

import (
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
)

// smallWords are kept lowercase in titles unless they open or close the
// title or follow a colon.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "en": true, "for": true, "if": true, "in": true, "of": true,
	"on": true, "or": true, "the": true, "to": true, "v": true, "v.": true,
	"vs": true, "vs.": true, "via": true,
}

// titleAdjustment is one house-style correction applied after the base pass.
type titleAdjustment struct {
	pattern *regexp2.Regexp
	replace func(m regexp2.Match) string
}

func mustAdjustment(pattern string, replace func(m regexp2.Match) string) titleAdjustment {
	return titleAdjustment{
		pattern: regexp2.MustCompile(pattern, regexp2.None),
		replace: replace,
	}
}

// titleAdjustments runs in order over the base-titlecased string. Several of
// these need lookbehind, hence regexp2 instead of the standard library.
var titleAdjustments = []titleAdjustment{
	// Lowercase markup tags the base pass capitalized, attributes included.
	mustAdjustment(`<(/?)([^>]+?)>`, func(m regexp2.Match) string {
		return "<" + m.GroupByNumber(1).String() + strings.ToLower(m.GroupByNumber(2).String()) + ">"
	}),

	// Lowercase leading "D’", as in "Marie d’Elle".
	mustAdjustment(`\bD’(?=[A-Z])`, func(m regexp2.Match) string {
		return "d’"
	}),

	// Lowercase "And"/"Or" even when preceded by punctuation.
	mustAdjustment(`([^a-zA-Z]) (And|Or)\b`, func(m regexp2.Match) string {
		return m.GroupByNumber(1).String() + " " + strings.ToLower(m.GroupByNumber(2).String())
	}),

	// A preposition opening a parenthetical is only capitalized when it
	// starts a subtitle; mid-title parentheticals keep it lowercase.
	mustAdjustment(`\((For|Of|To)(.*?)\)(.+?)`, func(m regexp2.Match) string {
		return "(" + strings.ToLower(m.GroupByNumber(1).String()) + m.GroupByNumber(2).String() + ")" + m.GroupByNumber(3).String()
	}),

	// Lowercase "And" when glued to the next glyph by a word joiner.
	mustAdjustment("\\bAnd\u2060", func(m regexp2.Match) string {
		return "and\u2060"
	}),

	// Lowercase "In" after a semicolon (but not words like "Inheritance").
	mustAdjustment(`\b; In\b`, func(m regexp2.Match) string {
		return "; in"
	}),

	// Lowercase "From"/"With" unless first word or opening a parenthetical.
	mustAdjustment(`(?<!^)(?<!\()\b(From|With)\b`, func(m regexp2.Match) string {
		return strings.ToLower(m.GroupByNumber(1).String())
	}),

	// Capitalize the first word after an opening quote or an italicized
	// reference to a work.
	mustAdjustment(`(‘|“|<i.*?epub:type=".*?se:.*?".*?>)([a-z])`, func(m regexp2.Match) string {
		return m.GroupByNumber(1).String() + strings.ToUpper(m.GroupByNumber(2).String())
	}),

	// Lowercase "The" after "vs.".
	mustAdjustment(`vs\. The\b`, func(m regexp2.Match) string {
		return "vs. the"
	}),

	// Lowercase nobiliary particles, as in "Charles de Gaulle", unless first
	// word or preceded by an opening double quote.
	mustAdjustment(`(?<!^|“)\b(De|Von|Van|Le)\b`, func(m regexp2.Match) string {
		return strings.ToLower(m.GroupByNumber(1).String())
	}),

	// Uppercase the word after "Or,", which is probably a subtitle.
	mustAdjustment(`\bOr, ([a-z])`, func(m regexp2.Match) string {
		return "Or, " + strings.ToUpper(m.GroupByNumber(1).String())
	}),
}

// Titlecase titlecases a string according to house style: a standard
// small-word-aware base pass, then a set of corrections for markup, names,
// subtitles, and quoted work titles.
func Titlecase(text string) string {
	text = baseTitlecase(text)

	for _, adj := range titleAdjustments {
		result, err := adj.pattern.ReplaceFunc(text, adj.replace, -1, -1)
		if err != nil {
			continue // regexp2 only errors on pathological timeouts
		}
		text = result
	}

	// Entity and abbreviation fixes the rule table cannot express cleanly.
	text = strings.ReplaceAll(text, "&Amp;", "&amp;")
	text = strings.ReplaceAll(text, "Etc.", "etc.")

	return text
}

// baseTitlecase capitalizes each word, keeping small words lowercase unless
// they open or close the title or follow a colon. Words with internal
// capitals are left alone.
func baseTitlecase(text string) string {
	fields := splitKeepingSeparators(text)

	// Indices of the first and last actual words.
	first, last := -1, -1
	for i, f := range fields {
		if f.word {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	afterColon := false
	var b strings.Builder
	for i, f := range fields {
		if !f.word {
			b.WriteString(f.text)
			if strings.ContainsAny(f.text, ":") {
				afterColon = true
			}
			continue
		}

		w := f.text
		forced := i == first || i == last || afterColon
		// Colons attach to the word they follow, not the separator.
		afterColon = strings.HasSuffix(w, ":")

		switch {
		case hasInternalCapital(w):
			b.WriteString(w) // already deliberately cased, e.g. "McTeague"
		case smallWords[strings.ToLower(w)] && !forced:
			b.WriteString(strings.ToLower(w))
		default:
			b.WriteString(capitalizeWord(w))
		}
	}
	return b.String()
}

type titleField struct {
	text string
	word bool
}

// splitKeepingSeparators splits text into word and separator runs so the
// original whitespace survives the round trip.
func splitKeepingSeparators(text string) []titleField {
	var fields []titleField
	start := 0
	inWord := false
	for i, r := range text {
		isSpace := unicode.IsSpace(r)
		if inWord == !isSpace {
			continue
		}
		if i > start {
			fields = append(fields, titleField{text[start:i], inWord})
		}
		start = i
		inWord = !isSpace
	}
	if start < len(text) {
		fields = append(fields, titleField{text[start:], inWord})
	}
	return fields
}

// hasInternalCapital reports whether a capital letter appears after the
// word's first letter.
func hasInternalCapital(w string) bool {
	seenFirst := false
	for _, r := range w {
		if !unicode.IsLetter(r) {
			continue
		}
		if seenFirst && unicode.IsUpper(r) {
			return true
		}
		seenFirst = true
	}
	return false
}

// capitalizeWord uppercases the first letter of w and lowercases the rest,
// skipping leading punctuation such as parentheses and quotes. Hyphenated
// compounds are capitalized per segment.
func capitalizeWord(w string) string {
	if parts := strings.Split(w, "-"); len(parts) > 1 {
		for i, p := range parts {
			parts[i] = capitalizeWord(p)
		}
		return strings.Join(parts, "-")
	}
	runes := []rune(w)
	i := 0
	for i < len(runes) {
		r := runes[i]
		if r == '<' {
			// Skip over leading markup like <abbr> to reach the word.
			for i < len(runes) && runes[i] != '>' {
				i++
			}
			i++
			continue
		}
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '<' {
					break
				}
				runes[j] = unicode.ToLower(runes[j])
			}
			break
		}
		if r != '(' && r != '“' && r != '‘' && r != '"' && r != '\'' && r != '[' {
			break // leading digits or symbols: leave the word alone
		}
		i++
	}
	return string(runes)
}
