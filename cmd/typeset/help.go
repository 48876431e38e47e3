package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  process       Run quote conversion, hyphenation, and formatting")
	fmt.Fprintln(w, "  hyphenate     Insert soft hyphens into document body text")
	fmt.Fprintln(w, "  quotes        Detect quotation style, optionally convert to American")
	fmt.Fprintln(w, "  format        Canonicalize and pretty-print XHTML via xmllint")
	fmt.Fprintln(w, "  titlecase     Titlecase strings per house style")
	fmt.Fprintln(w, "  clean         Strip Inkscape debris from SVG files")
	fmt.Fprintln(w, "  strip-images  Remove embedded metadata from images")
	fmt.Fprintln(w, "  wordcount     Count words in documents")
	fmt.Fprintln(w, "  math          Render a math fragment to PNG")
	fmt.Fprintln(w, "  render        Convert a Markdown draft to XHTML")
	fmt.Fprintln(w, "  publish       Upload ebook metadata to the catalog")
	fmt.Fprintln(w, "  doctor        Check external tools and configuration")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'typeset help <command>' for details on a specific command.")
}

// printCommonFlags prints the flags every processing command accepts.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "  -o, --output <path>   Output file or directory (default: in place)")
	fmt.Fprintln(w, "  -w, --workers <n>     Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -c, --config <name>   Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet           Only show errors")
	fmt.Fprintln(w, "  -v, --verbose         Show per-file timing")
}

// printProcessUsage prints usage for the process command.
func printProcessUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset process <file|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the full pipeline over XHTML documents: classify and convert")
	fmt.Fprintln(w, "quotation marks, insert soft hyphens, and format via xmllint.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	printCommonFlags(w)
	fmt.Fprintln(w, "  -l, --lang <tag>      Language tag, overrides the document's xml:lang")
	fmt.Fprintln(w, "      --pattern-dir <d> Directory of hyph-<lang>.tex pattern files")
	fmt.Fprintln(w, "      --include-headings  Hyphenate inside h1-h6")
	fmt.Fprintln(w, "      --threshold <n>   Classifier majority percentage (51-100)")
	fmt.Fprintln(w, "      --single-lines    Collapse documents to one line before formatting")
	fmt.Fprintln(w, "      --no-quotes       Skip quote conversion")
	fmt.Fprintln(w, "      --no-hyphenate    Skip hyphenation")
	fmt.Fprintln(w, "      --no-format       Skip xmllint formatting")
}

// printHyphenateUsage prints usage for the hyphenate command.
func printHyphenateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset hyphenate <file|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Insert soft hyphens between syllables in document body text.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	printCommonFlags(w)
	fmt.Fprintln(w, "  -l, --lang <tag>      Language tag, overrides the document's xml:lang")
	fmt.Fprintln(w, "      --pattern-dir <d> Directory of hyph-<lang>.tex pattern files")
	fmt.Fprintln(w, "      --include-headings  Hyphenate inside h1-h6")
}

// printQuotesUsage prints usage for the quotes command.
func printQuotesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset quotes <file|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report each document's quotation style (american, british, unsure).")
	fmt.Fprintln(w, "With --convert, rewrite British-quoted documents to American style.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	printCommonFlags(w)
	fmt.Fprintln(w, "      --convert         Convert British quotation to American")
	fmt.Fprintln(w, "      --threshold <n>   Classifier majority percentage (51-100)")
}

// printFormatUsage prints usage for the format command.
func printFormatUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset format <file|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Canonicalize and pretty-print XHTML documents via xmllint.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	printCommonFlags(w)
	fmt.Fprintln(w, "      --single-lines    Collapse documents to one line before formatting")
	fmt.Fprintln(w, "      --metadata        Treat input as a package document")
	fmt.Fprintln(w, "      --endnotes        Apply endnotes citation spacing fixes")
}

// printTitlecaseUsage prints usage for the titlecase command.
func printTitlecaseUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset titlecase [string...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Titlecase the arguments, or each line of stdin when none are given.")
}

// printCleanUsage prints usage for the clean command.
func printCleanUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset clean <file|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Strip Inkscape-generated ids, metadata, and styling from SVG files")
	fmt.Fprintln(w, "in place.")
}

// printStripImagesUsage prints usage for the strip-images command.
func printStripImagesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset strip-images <file|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Remove embedded metadata from image files using exiftool.")
}

// printWordcountUsage prints usage for the wordcount command.
func printWordcountUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset wordcount <file|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Count whitespace-separated words in tag-stripped document text.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --total           Print only the total")
}

// printMathUsage prints usage for the math command.
func printMathUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset math [fragment] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a MathML or HTML math fragment to PNG using headless Chrome.")
	fmt.Fprintln(w, "Reads the fragment from stdin when no argument is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>   Output PNG path (default: stdout)")
	fmt.Fprintln(w, "  -t, --timeout <d>     Render timeout (e.g., 30s, 2m)")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset render <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a Markdown draft to a complete XHTML document.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>   Output XHTML path (default: stdout)")
	fmt.Fprintln(w, "      --title <s>       Document title")
	fmt.Fprintln(w, "  -l, --lang <tag>      Document language tag (default: en-US)")
}

// printPublishUsage prints usage for the publish command.
func printPublishUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset publish <content.opf|ebook-dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read ebook metadata from a package document and POST it to the")
	fmt.Fprintln(w, "catalog endpoint as JSON.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --endpoint <url>  Catalog URL (or TYPESET_ENDPOINT)")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typeset doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check external tools, hyphenation patterns, and configuration.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json            Emit the report as JSON")
	fmt.Fprintln(w, "  -c, --config <name>   Config file name or path")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "process":
		printProcessUsage(env.Stdout)
	case "hyphenate":
		printHyphenateUsage(env.Stdout)
	case "quotes":
		printQuotesUsage(env.Stdout)
	case "format":
		printFormatUsage(env.Stdout)
	case "titlecase":
		printTitlecaseUsage(env.Stdout)
	case "clean":
		printCleanUsage(env.Stdout)
	case "strip-images":
		printStripImagesUsage(env.Stdout)
	case "wordcount":
		printWordcountUsage(env.Stdout)
	case "math":
		printMathUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "publish":
		printPublishUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: typeset version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: typeset help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
