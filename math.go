package typeset

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/ebookworks/go-typeset/internal/fileutil"
	"github.com/ebookworks/go-typeset/internal/process"
)

// mathPageTemplate hosts a math fragment for screenshotting. The fragment is
// rendered black-on-white at ebook body size inside a shrink-wrapped
// container so the screenshot bounds hug the expression.
const mathPageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { margin: 0; background: #fff; }
#fragment { display: inline-block; padding: 4px; font-size: 24px; color: #000; }
</style>
</head>
<body>
<div id="fragment">%s</div>
</body>
</html>`

// MathRenderer renders a MathML or HTML math fragment to a PNG image using
// headless Chrome. The browser is launched lazily on first use; Close
// releases it. Rod downloads a managed Chromium on first run when none is
// installed; set ROD_BROWSER_BIN to use a specific binary.
type MathRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// NewMathRenderer creates a MathRenderer with the given per-render timeout.
func NewMathRenderer(timeout time.Duration) *MathRenderer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &MathRenderer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *MathRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use a pre-installed browser if specified (containerized environments).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// RenderPNG renders fragment and returns a screenshot of it as PNG bytes.
func (r *MathRenderer) RenderPNG(ctx context.Context, fragment string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fragment == "" {
		return nil, ErrEmptyFragment
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(fmt.Sprintf(mathPageTemplate, fragment), "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	element, err := page.Timeout(timeout).Element("#fragment")
	if err != nil {
		return nil, fmt.Errorf("%w: locating fragment: %v", ErrMathRender, err)
	}

	png, err := element.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMathRender, err)
	}
	return png, nil
}

// Close releases browser resources. Chrome forks helper processes that can
// outlive a graceful close, so the launcher's process group is killed as a
// fallback.
func (r *MathRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher = nil
	}
	return err
}
