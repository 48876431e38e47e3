package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// processFlags holds flags for the document-processing commands
// (process, hyphenate, quotes, format).
type processFlags struct {
	common  commonFlags
	output  string
	workers int

	// Language and hyphenation
	lang            string
	patternDir      string
	includeHeadings bool

	// Quotes
	convert   bool
	threshold int

	// Formatting
	singleLines bool
	metadata    bool
	endnotes    bool

	// Stage selection for the process command
	noQuotes    bool
	noHyphenate bool
	noFormat    bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file timing")
}

// addLanguageFlags adds language/hyphenation flags to a FlagSet.
func addLanguageFlags(fs *flag.FlagSet, f *processFlags) {
	fs.StringVarP(&f.lang, "lang", "l", "", "language tag, overrides the document's xml:lang")
	fs.StringVar(&f.patternDir, "pattern-dir", "", "directory of hyph-<lang>.tex pattern files")
	fs.BoolVar(&f.includeHeadings, "include-headings", false, "hyphenate inside h1-h6")
}

// addQuoteFlags adds quote-conversion flags to a FlagSet.
func addQuoteFlags(fs *flag.FlagSet, f *processFlags) {
	fs.IntVar(&f.threshold, "threshold", 0, "classifier majority percentage (51-100, 0 = default)")
}

// addFormatFlags adds xmllint formatting flags to a FlagSet.
func addFormatFlags(fs *flag.FlagSet, f *processFlags) {
	fs.BoolVar(&f.singleLines, "single-lines", false, "collapse the document to one line before formatting")
	fs.BoolVar(&f.metadata, "metadata", false, "treat input as a package document (skip entity unescaping)")
	fs.BoolVar(&f.endnotes, "endnotes", false, "apply endnotes citation spacing fixes")
}

// newProcessFlagSet builds the FlagSet shared by the processing commands.
func newProcessFlagSet(name string, f *processFlags, usage func()) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (default: in place)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	fs.Usage = usage
	return fs
}

// parseProcessFlags parses flags for the process command.
func parseProcessFlags(args []string) (*processFlags, []string, error) {
	f := &processFlags{}
	fs := newProcessFlagSet("process", f, func() { printProcessUsage(os.Stderr) })
	addLanguageFlags(fs, f)
	addQuoteFlags(fs, f)
	addFormatFlags(fs, f)
	fs.BoolVar(&f.noQuotes, "no-quotes", false, "skip quote conversion")
	fs.BoolVar(&f.noHyphenate, "no-hyphenate", false, "skip hyphenation")
	fs.BoolVar(&f.noFormat, "no-format", false, "skip xmllint formatting")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseHyphenateFlags parses flags for the hyphenate command.
func parseHyphenateFlags(args []string) (*processFlags, []string, error) {
	f := &processFlags{}
	fs := newProcessFlagSet("hyphenate", f, func() { printHyphenateUsage(os.Stderr) })
	addLanguageFlags(fs, f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseQuotesFlags parses flags for the quotes command.
func parseQuotesFlags(args []string) (*processFlags, []string, error) {
	f := &processFlags{}
	fs := newProcessFlagSet("quotes", f, func() { printQuotesUsage(os.Stderr) })
	addQuoteFlags(fs, f)
	fs.BoolVar(&f.convert, "convert", false, "convert British quotation to American in place")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseFormatFlags parses flags for the format command.
func parseFormatFlags(args []string) (*processFlags, []string, error) {
	f := &processFlags{}
	fs := newProcessFlagSet("format", f, func() { printFormatUsage(os.Stderr) })
	addFormatFlags(fs, f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// mathFlags holds flags for the math command.
type mathFlags struct {
	common  commonFlags
	output  string
	timeout string
}

// parseMathFlags parses flags for the math command.
func parseMathFlags(args []string) (*mathFlags, []string, error) {
	fs := flag.NewFlagSet("math", flag.ContinueOnError)
	f := &mathFlags{}
	fs.StringVarP(&f.output, "output", "o", "", "output PNG path (default: stdout)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g., 30s, 2m)")
	addCommonFlags(fs, &f.common)
	fs.Usage = func() { printMathUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common commonFlags
	output string
	title  string
	lang   string
}

// parseRenderFlags parses flags for the render command.
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	f := &renderFlags{}
	fs.StringVarP(&f.output, "output", "o", "", "output XHTML path (default: stdout)")
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVarP(&f.lang, "lang", "l", "", "document language tag (default: en-US)")
	addCommonFlags(fs, &f.common)
	fs.Usage = func() { printRenderUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// parseDoctorFlags parses flags for the doctor command.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	f := &doctorFlags{}
	fs.BoolVar(&f.json, "json", false, "emit the report as JSON")
	addCommonFlags(fs, &f.common)
	fs.Usage = func() { printDoctorUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// publishFlags holds flags for the publish command.
type publishFlags struct {
	common   commonFlags
	endpoint string
}

// parsePublishFlags parses flags for the publish command.
func parsePublishFlags(args []string) (*publishFlags, []string, error) {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	f := &publishFlags{}
	fs.StringVar(&f.endpoint, "endpoint", "", "catalog URL to POST metadata to")
	addCommonFlags(fs, &f.common)
	fs.Usage = func() { printPublishUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
