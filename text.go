package typeset

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	tagPattern            = regexp.MustCompile(`(?s)</?([a-z]+)[^>]*?>`)
	apostrophePattern     = regexp.MustCompile(`['‘’]`)
	nonAlphanumericRun    = regexp.MustCompile(`(?i)[^0-9a-z]`)
	whitespaceRun         = regexp.MustCompile(`\s+`)
	trailingDashesPattern = regexp.MustCompile(`-+$`)
)

// StripTags removes all markup tags from a string.
func StripTags(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}

// CountWords returns the number of whitespace-separated words in the
// tag-stripped text.
func CountWords(text string) int {
	return len(strings.Fields(StripTags(text)))
}

// Ordinal returns n followed by its English ordinal suffix, like "1st" or
// "22nd".
func Ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// MakeURLSafe returns a URL-safe version of the input. For example,
// "Mother's Day" becomes "mothers-day".
func MakeURLSafe(text string) string {
	// Decompose accented characters and drop the combining marks.
	var b strings.Builder
	for _, r := range norm.NFKD.String(text) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	text = strings.TrimSpace(b.String())
	text = strings.ToLower(text)
	text = apostrophePattern.ReplaceAllString(text, "")
	text = nonAlphanumericRun.ReplaceAllString(text, " ")
	text = whitespaceRun.ReplaceAllString(text, "-")
	return trailingDashesPattern.ReplaceAllString(text, "")
}
