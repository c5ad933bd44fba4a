// internal/form/locator.go
package form

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Container is a handle to the list-item subtree believed to hold
// exactly one question's interactive controls. It is consumed
// immediately after resolution and never cached: sections are replaced
// wholesale on page advance, so a stale handle is worthless.
type Container struct {
	XPath string
}

// Strategy is one resolution attempt. It returns the container XPath,
// or "" when the strategy produced no match. Strategies are tried in
// order; the first non-empty result wins.
type Strategy struct {
	Name    string
	Attempt func(ctx context.Context, page Page, label string) (string, error)
}

// Locator resolves a free-text question label to its enclosing
// interactive container on the live page.
type Locator struct {
	page         Page
	logger       *zap.Logger
	strategies   []Strategy
	settleScroll time.Duration
}

// NewLocator builds a Locator with the default strategy order:
// exact text, exact text on a descendant, substring, then a scripted
// full-document scan. settleScroll is the pause after the smooth
// scroll that brings the container to viewport center.
func NewLocator(page Page, settleScroll time.Duration, logger *zap.Logger) *Locator {
	return &Locator{
		page:         page,
		logger:       logger.Named("locator"),
		strategies:   DefaultStrategies(),
		settleScroll: settleScroll,
	}
}

// WithStrategies replaces the strategy chain. Used by tests to probe
// individual strategies and their ordering.
func (l *Locator) WithStrategies(strategies []Strategy) *Locator {
	l.strategies = strategies
	return l
}

// Locate resolves the label against the live DOM. On success the
// container has been smooth-scrolled to viewport center and given a
// short settle delay, so downstream interaction can assume it is
// visible and stable.
func (l *Locator) Locate(ctx context.Context, label string) (Container, error) {
	for _, strat := range l.strategies {
		if err := ctx.Err(); err != nil {
			return Container{}, err
		}

		xpath, err := strat.Attempt(ctx, l.page, label)
		if err != nil {
			l.logger.Debug("locator strategy errored, trying next",
				zap.String("strategy", strat.Name), zap.String("label", label), zap.Error(err))
			continue
		}
		if xpath == "" {
			continue
		}

		l.logger.Debug("question container resolved",
			zap.String("strategy", strat.Name), zap.String("label", label))

		if err := l.page.ScrollIntoView(ctx, xpath); err != nil {
			// A failed scroll is not fatal; the interaction may still land.
			l.logger.Debug("scroll to container failed", zap.String("label", label), zap.Error(err))
		}
		if err := settle(ctx, l.settleScroll); err != nil {
			return Container{}, err
		}
		return Container{XPath: xpath}, nil
	}

	return Container{}, fmt.Errorf("%w: %q", ErrQuestionNotFound, label)
}

// DefaultStrategies is the ordered resolution chain. Layering
// exact -> nested -> substring -> scan trades precision against
// resilience: exact matches avoid grabbing the wrong question when two
// labels share a prefix, while the later layers survive markup and
// whitespace variation in the rendered text.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "exact-text", Attempt: firstMatch(func(label string) string {
			return fmt.Sprintf(`//div[normalize-space(text())=%s]/ancestor::div[contains(@role,'listitem')]`, xpathLiteral(label))
		})},
		{Name: "exact-text-descendant", Attempt: firstMatch(func(label string) string {
			return fmt.Sprintf(`//div[.//*[normalize-space(text())=%s]]/ancestor::div[contains(@role,'listitem')]`, xpathLiteral(label))
		})},
		{Name: "substring", Attempt: firstMatch(func(label string) string {
			return fmt.Sprintf(`//div[contains(text(),%s)]/ancestor::div[contains(@role,'listitem')]`, xpathLiteral(label))
		})},
		{Name: "script-scan", Attempt: scriptScan},
	}
}

// firstMatch wraps a label->XPath template into a Strategy attempt that
// returns the first matching node.
func firstMatch(template func(label string) string) func(context.Context, Page, string) (string, error) {
	return func(ctx context.Context, page Page, label string) (string, error) {
		matches, err := page.FindAll(ctx, template(label))
		if err != nil {
			return "", err
		}
		if len(matches) == 0 {
			return "", nil
		}
		return matches[0], nil
	}
}

// containerScanScript walks the whole document for any element whose
// text includes the label and that sits inside a list-item-role
// container, then reports the container's absolute XPath. This is the
// last resort when every XPath pattern missed, typically because the
// label text is split across inline markup.
const containerScanScript = `
(function(label) {
	function absoluteXPath(el) {
		const parts = [];
		for (; el && el.nodeType === Node.ELEMENT_NODE; el = el.parentNode) {
			let index = 1;
			for (let sib = el.previousSibling; sib; sib = sib.previousSibling) {
				if (sib.nodeType === Node.ELEMENT_NODE && sib.nodeName === el.nodeName) {
					index++;
				}
			}
			parts.unshift(el.nodeName.toLowerCase() + '[' + index + ']');
		}
		return '/' + parts.join('/');
	}
	const hit = Array.from(document.querySelectorAll('div')).find(el =>
		el.textContent.includes(label) && el.closest('[role="listitem"]')
	);
	if (!hit) {
		return '';
	}
	return absoluteXPath(hit.closest('[role="listitem"]'));
})(%s)`

func scriptScan(ctx context.Context, page Page, label string) (string, error) {
	var xpath string
	script := fmt.Sprintf(containerScanScript, jsString(label))
	if err := page.Evaluate(ctx, script, &xpath); err != nil {
		return "", err
	}
	return xpath, nil
}

// xpathLiteral quotes a string for embedding in an XPath expression.
// XPath 1.0 has no escape sequence, so labels containing both quote
// kinds are stitched together with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, `'`)
	for i, p := range parts {
		parts[i] = `'` + p + `'`
	}
	return "concat(" + strings.Join(parts, `,"'",`) + ")"
}

// jsString quotes a string for embedding in page script.
func jsString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
