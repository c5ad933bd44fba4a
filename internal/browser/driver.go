// Package browser implements the form.Page contract on top of a real
// Chrome instance driven over CDP. One Driver owns one browser
// process; it is created per submission and torn down unconditionally
// when the submission ends.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formswarm/internal/config"
	"github.com/xkilldash9x/formswarm/internal/form"
)

// Driver drives a single Chrome instance through chromedp. Not safe
// for concurrent use; each submission owns its own Driver.
type Driver struct {
	cfg    config.BrowserConfig
	logger *zap.Logger

	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	// cancelTab performs the graceful browser shutdown. A function
	// variable to allow substituting the wait in tests.
	cancelTab func() error
}

// NewDriver launches a Chrome instance and returns a ready Driver. The
// parent ctx bounds the browser's whole lifetime.
func NewDriver(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Driver, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOptions(cfg)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	d := &Driver{
		cfg:         cfg,
		logger:      logger.Named("browser"),
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}
	d.cancelTab = func() error { return chromedp.Cancel(tabCtx) }

	// An empty Run forces the browser process to start now, so launch
	// failures surface here instead of on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		d.teardown()
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	d.logger.Debug("browser instance launched", zap.Bool("headless", cfg.Headless))
	return d, nil
}

// execOptions translates the browser config into chromedp allocator
// options.
func execOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		// Required on hardened systems where the Chrome sandbox cannot
		// initialize.
		chromedp.NoSandbox,
		// Stability in containers and headless environments.
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-extensions", true),
	)
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	opts = append(opts, chromedp.DisableGPU)

	for _, arg := range cfg.Args {
		if !strings.Contains(arg, "=") {
			opts = append(opts, chromedp.Flag(strings.TrimPrefix(arg, "--"), true))
			continue
		}
		parts := strings.SplitN(arg, "=", 2)
		opts = append(opts, chromedp.Flag(strings.TrimPrefix(parts[0], "--"), parts[1]))
	}
	return opts
}

// run executes actions on the tab context while honoring the caller's
// cancellation. The derived context aborts in-flight CDP calls without
// tearing the tab down.
func (d *Driver) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(d.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Navigate loads the form URL and blocks until the form element is
// visible, bounded by the configured navigation timeout.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, d.cfg.NavigationTimeout)
	defer cancel()

	err := d.run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("form", chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("%w: form not visible after %s", form.ErrNavigationTimeout, d.cfg.NavigationTimeout)
		}
		return fmt.Errorf("navigating to form: %w", err)
	}
	d.logger.Debug("form loaded", zap.String("url", url))
	return nil
}

func (d *Driver) FindAll(ctx context.Context, xpath string) ([]string, error) {
	var nodes []*cdp.Node
	err := d.run(ctx, chromedp.Nodes(xpath, &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return nil, err
	}
	handles := make([]string, 0, len(nodes))
	for _, n := range nodes {
		handles = append(handles, n.FullXPath())
	}
	return handles, nil
}

func (d *Driver) Attribute(ctx context.Context, xpath, name string) (string, bool, error) {
	var value string
	var ok bool
	err := d.run(ctx, chromedp.AttributeValue(xpath, name, &value, &ok, chromedp.BySearch))
	return value, ok, err
}

func (d *Driver) Text(ctx context.Context, xpath string) (string, error) {
	var text string
	if err := d.run(ctx, chromedp.Text(xpath, &text, chromedp.BySearch)); err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

const visibleScript = `
(function(xpath) {
	const el = document.evaluate(xpath, document, null,
		XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!el) {
		return false;
	}
	const rect = el.getBoundingClientRect();
	const style = window.getComputedStyle(el);
	return rect.width > 0 && rect.height > 0 &&
		style.visibility !== 'hidden' && style.display !== 'none';
})(%s)`

func (d *Driver) Visible(ctx context.Context, xpath string) (bool, error) {
	var visible bool
	err := d.Evaluate(ctx, fmt.Sprintf(visibleScript, strconv.Quote(xpath)), &visible)
	return visible, err
}

// Click dispatches a trusted mouse click. Failures are classified as
// interception so callers can choose the script fallback.
func (d *Driver) Click(ctx context.Context, xpath string) error {
	if err := d.run(ctx, chromedp.Click(xpath, chromedp.BySearch)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", form.ErrClickIntercepted, err)
	}
	return nil
}

const scriptClickScript = `
(function(xpath) {
	const el = document.evaluate(xpath, document, null,
		XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!el) {
		throw new Error('no element for script click');
	}
	el.click();
})(%s)`

func (d *Driver) ClickScript(ctx context.Context, xpath string) error {
	return d.Evaluate(ctx, fmt.Sprintf(scriptClickScript, strconv.Quote(xpath)), nil)
}

const scrollIntoViewScript = `
(function(xpath) {
	const el = document.evaluate(xpath, document, null,
		XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (el) {
		el.scrollIntoView({behavior: 'smooth', block: 'center'});
	}
})(%s)`

func (d *Driver) ScrollIntoView(ctx context.Context, xpath string) error {
	return d.Evaluate(ctx, fmt.Sprintf(scrollIntoViewScript, strconv.Quote(xpath)), nil)
}

func (d *Driver) ScrollToBottom(ctx context.Context) error {
	return d.Evaluate(ctx, `window.scrollTo(0, document.body.scrollHeight)`, nil)
}

func (d *Driver) ClearAndFill(ctx context.Context, xpath, value string) error {
	return d.run(ctx,
		chromedp.Clear(xpath, chromedp.BySearch),
		chromedp.SendKeys(xpath, value, chromedp.BySearch),
	)
}

func (d *Driver) Evaluate(ctx context.Context, script string, out any) error {
	return d.run(ctx, chromedp.Evaluate(script, out,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithSilent(true)
		}))
}

func (d *Driver) Location(ctx context.Context) (string, error) {
	var url string
	err := d.run(ctx, chromedp.Location(&url))
	return url, err
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := d.run(ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return nil, err
	}
	return buf, nil
}

// Close shuts the browser down gracefully. The graceful close waits on
// the browser process, so the caller's deadline hard-cancels the tab if
// it expires first; teardown never outlives ctx.
func (d *Driver) Close(ctx context.Context) error {
	stop := context.AfterFunc(ctx, d.tabCancel)
	defer stop()

	err := d.cancelTab()
	d.teardown()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("closing browser: %w", ctxErr)
	}
	if err != nil {
		return fmt.Errorf("closing browser: %w", err)
	}
	d.logger.Debug("browser instance closed")
	return nil
}

func (d *Driver) teardown() {
	d.tabCancel()
	d.allocCancel()
}

var _ form.Page = (*Driver)(nil)
