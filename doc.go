// Package typeset prepares book-length XHTML documents for publication by
// normalizing typography inside markup without corrupting the markup itself.
//
// # Quick Start
//
// Create a typesetter, process a document, and close when done:
//
//	ts := typeset.New(
//	    typeset.WithPatternDir("/usr/share/hyph-patterns"),
//	)
//	defer ts.Close()
//
//	result, err := ts.Process(ctx, typeset.Input{
//	    XHTML:         doc,
//	    ConvertQuotes: true,
//	    Hyphenate:     true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("chapter-1.xhtml", []byte(result.XHTML), 0644)
//
// # Processing Pipeline
//
// The full pipeline runs these stages in order, each optional:
//
//  1. Quote style detection and British-to-American conversion
//  2. Soft-hyphen insertion via language-specific Liang patterns
//  3. XHTML canonicalization and pretty-printing via xmllint
//
// The two core transforms are also available as standalone functions and
// types: ClassifyQuoteStyle and ConvertBritishToAmerican operate on any
// string and never fail; Hyphenator scans the document body tag-aware and
// splices soft hyphens into words only.
//
// # Hyphenation Dictionaries
//
// Word splitting uses TeX hyphenation pattern files (hyph-<lang>.tex) loaded
// through github.com/npillmayer/hyphenate. Dictionaries are loaded lazily and
// cached per process, keyed by canonical BCP-47 tag. A document's language is
// taken from WithLanguage or from the xml:lang / lang attribute on its root
// element; having neither is an error, not a guess.
//
// # External Tools
//
// XHTML formatting shells out to xmllint, image metadata stripping to
// exiftool. Both run behind a CommandRunner interface so they can be faked in
// tests. Math fragment rendering uses a headless Chrome instance managed by
// go-rod; the browser is connected lazily and released by Close.
package typeset
