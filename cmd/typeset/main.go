package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	typeset "github.com/ebookworks/go-typeset"
	"github.com/ebookworks/go-typeset/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS for containerized environments.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	env := DefaultEnv()
	code := run(os.Args, env)
	os.Exit(code)
}

// run dispatches to the named subcommand and returns an exit code.
func run(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := interruptContext(env.Context())
	defer stop()

	command := args[1]
	rest := args[2:]

	var err error
	switch command {
	case "process":
		err = runProcess(ctx, rest, env)
	case "hyphenate":
		err = runHyphenate(ctx, rest, env)
	case "quotes":
		err = runQuotes(ctx, rest, env)
	case "format":
		err = runFormat(ctx, rest, env)
	case "titlecase":
		err = runTitlecase(rest, env)
	case "clean":
		err = runClean(rest, env)
	case "strip-images":
		err = runStripImages(ctx, rest, env)
	case "wordcount":
		err = runWordcount(rest, env)
	case "math":
		err = runMath(ctx, rest, env)
	case "render":
		err = runRender(ctx, rest, env)
	case "publish":
		err = runPublish(ctx, rest, env)
	case "doctor":
		err = runDoctor(ctx, rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "typeset %s\n", Version)
	case "help":
		runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", command)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "%v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor maps known failures to actionable hints.
func hintFor(err error) string {
	switch {
	case errors.Is(err, typeset.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, typeset.ErrXMLLintNotFound):
		return hints.ForXMLLint()
	case errors.Is(err, typeset.ErrExifToolNotFound):
		return hints.ForExifTool()
	case errors.Is(err, typeset.ErrMissingHyphenationPatterns):
		return hints.ForPatterns()
	case errors.Is(err, typeset.ErrInvalidLanguage):
		return hints.ForLanguage()
	default:
		return ""
	}
}
