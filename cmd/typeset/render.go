package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	typeset "github.com/ebookworks/go-typeset"
)

// runMath renders a math fragment to a PNG via headless Chrome. The fragment
// comes from the first positional argument, or stdin when absent.
func runMath(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseMathFlags(args)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common.config, env.Stderr)
	if err != nil {
		return err
	}
	if cfg.Tools.Browser != "" && os.Getenv("ROD_BROWSER_BIN") == "" {
		os.Setenv("ROD_BROWSER_BIN", cfg.Tools.Browser)
	}

	fragment := ""
	if len(positional) > 0 {
		fragment = positional[0]
	} else {
		content, err := io.ReadAll(env.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		fragment = string(content)
	}

	timeout := time.Duration(0)
	if flags.timeout != "" {
		timeout, err = time.ParseDuration(flags.timeout)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("invalid timeout %q", flags.timeout)
		}
	}

	renderer := typeset.NewMathRenderer(timeout)
	defer renderer.Close()

	png, err := renderer.RenderPNG(ctx, fragment)
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err = env.Stdout.Write(png)
		return err
	}
	if err := os.WriteFile(flags.output, png, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDocument, err)
	}
	return nil
}

// runRender converts a Markdown draft to an XHTML document.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return ErrNoInput
	}

	cfg, err := resolveConfig(flags.common.config, env.Stderr)
	if err != nil {
		return err
	}

	lang := flags.lang
	if lang == "" {
		lang = cfg.Language.Default
	}

	content, err := os.ReadFile(positional[0]) // #nosec G304 -- path comes from CLI args
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadDocument, err)
	}

	converter := typeset.NewMarkdownConverter()
	xhtml, err := converter.ToXHTML(ctx, string(content), flags.title, lang)
	if err != nil {
		return err
	}

	if flags.output == "" {
		fmt.Fprint(env.Stdout, xhtml)
		return nil
	}
	if err := os.WriteFile(flags.output, []byte(xhtml), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDocument, err)
	}
	return nil
}

// runPublish uploads ebook metadata from a package document to the catalog.
func runPublish(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePublishFlags(args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return ErrNoInput
	}

	cfg, err := resolveConfig(flags.common.config, env.Stderr)
	if err != nil {
		return err
	}

	endpoint := flags.endpoint
	if endpoint == "" {
		endpoint = cfg.Publish.Endpoint
	}
	if endpoint == "" {
		return fmt.Errorf("no publish endpoint: set --endpoint, TYPESET_ENDPOINT, or publish.endpoint in config")
	}

	meta, err := typeset.LoadEbookMetadata(positional[0])
	if err != nil {
		return err
	}

	publisher := typeset.NewPublisher(endpoint)
	if err := publisher.Publish(ctx, meta); err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "published %q by %s to %s\n", meta.Title, meta.Author, endpoint)
	}
	return nil
}
