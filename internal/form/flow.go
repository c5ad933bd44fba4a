// internal/form/flow.go
package form

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SubmitOutcome classifies how a submission attempt ended.
type SubmitOutcome int

const (
	// SubmitFailed means the submit control could not be activated.
	SubmitFailed SubmitOutcome = iota
	// SubmitAssumed means the click landed but no confirmation signal
	// was observed. Treated as success under the optimistic policy.
	SubmitAssumed
	// SubmitConfirmed means a confirmation phrase or the response URL
	// was observed after the click.
	SubmitConfirmed
)

// Succeeded reports whether the outcome counts toward the success
// tally. Both assumed and confirmed submissions count.
func (o SubmitOutcome) Succeeded() bool {
	return o == SubmitAssumed || o == SubmitConfirmed
}

func (o SubmitOutcome) String() string {
	switch o {
	case SubmitFailed:
		return "failed"
	case SubmitAssumed:
		return "assumed"
	case SubmitConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// submitButtonTexts is the preference-ordered list of visible texts a
// submit control is searched by before the structural fallback.
var submitButtonTexts = []string{"Submit", "Submit form", "Send"}

// confirmationPhrases are the post-submit texts that confirm the
// response was recorded.
var confirmationPhrases = []string{
	"Your response has been recorded",
	"Thank you for your response",
	"Response submitted",
	"Form submitted",
}

// responseURLFragment appears in the landing URL after a recorded
// submission.
const responseURLFragment = "formResponse"

// FlowController drives multi-section navigation and final submission.
type FlowController struct {
	page   Page
	logger *zap.Logger

	settleAdvance time.Duration
	settleSubmit  time.Duration
}

func NewFlowController(page Page, settleAdvance, settleSubmit time.Duration, logger *zap.Logger) *FlowController {
	return &FlowController{
		page:          page,
		logger:        logger.Named("flow"),
		settleAdvance: settleAdvance,
		settleSubmit:  settleSubmit,
	}
}

// AdvanceSection scrolls to the bottom of the current section and
// clicks the Next control if one exists. It returns false with a nil
// error when no Next control is present, which marks the last section.
func (f *FlowController) AdvanceSection(ctx context.Context) (bool, error) {
	if err := f.page.ScrollToBottom(ctx); err != nil {
		f.logger.Debug("scroll to bottom failed", zap.Error(err))
	}

	next, err := f.page.FindAll(ctx, `//span[normalize-space(text())='Next']/ancestor::div[@role='button']`)
	if err != nil {
		return false, fmt.Errorf("querying next control: %w", err)
	}
	if len(next) == 0 {
		f.logger.Info("no next control, treating section as last")
		return false, nil
	}

	if err := f.clickWithFallback(ctx, next[0]); err != nil {
		return false, fmt.Errorf("advancing section: %w", err)
	}
	if err := settle(ctx, f.settleAdvance); err != nil {
		return false, err
	}
	f.logger.Info("advanced to next section")
	return true, nil
}

// Submit locates the submit control, activates it and classifies the
// result. A control is searched first by visible text in preference
// order, then by the structural role fallback.
func (f *FlowController) Submit(ctx context.Context) (SubmitOutcome, error) {
	if err := f.page.ScrollToBottom(ctx); err != nil {
		f.logger.Debug("scroll to bottom failed", zap.Error(err))
	}

	button, err := f.findSubmitControl(ctx)
	if err != nil {
		return SubmitFailed, err
	}
	if button == "" {
		return SubmitFailed, fmt.Errorf("%w: submit control", ErrQuestionNotFound)
	}

	if err := f.clickWithFallback(ctx, button); err != nil {
		return SubmitFailed, fmt.Errorf("activating submit: %w", err)
	}
	if err := settle(ctx, f.settleSubmit); err != nil {
		return SubmitFailed, err
	}

	if f.confirmed(ctx) {
		f.logger.Info("submission confirmed")
		return SubmitConfirmed, nil
	}

	f.logger.Warn("no confirmation signal observed, assuming submission landed")
	return SubmitAssumed, nil
}

func (f *FlowController) findSubmitControl(ctx context.Context) (string, error) {
	for _, text := range submitButtonTexts {
		xpath := fmt.Sprintf(`//span[normalize-space(text())=%s]/ancestor::div[@role='button']`, xpathLiteral(text))
		matches, err := f.page.FindAll(ctx, xpath)
		if err != nil {
			return "", fmt.Errorf("querying submit control %q: %w", text, err)
		}
		if len(matches) > 0 {
			return matches[0], nil
		}
	}

	// Structural fallback for forms whose submit label is localized.
	matches, err := f.page.FindAll(ctx, `//div[@role='button'][contains(@jsaction,'submit')]`)
	if err != nil {
		return "", fmt.Errorf("querying submit fallback: %w", err)
	}
	if len(matches) > 0 {
		f.logger.Debug("submit control resolved by structural fallback")
		return matches[0], nil
	}
	return "", nil
}

// confirmed checks for any confirmation phrase visible on the page,
// then for the response fragment in the landing URL.
func (f *FlowController) confirmed(ctx context.Context) bool {
	for _, phrase := range confirmationPhrases {
		xpath := fmt.Sprintf(`//div[contains(text(),%s)]`, xpathLiteral(phrase))
		matches, err := f.page.FindAll(ctx, xpath)
		if err != nil || len(matches) == 0 {
			continue
		}
		visible, err := f.page.Visible(ctx, matches[0])
		if err == nil && visible {
			f.logger.Debug("confirmation phrase visible", zap.String("phrase", phrase))
			return true
		}
	}

	location, err := f.page.Location(ctx)
	if err != nil {
		f.logger.Debug("reading landing URL failed", zap.Error(err))
		return false
	}
	if strings.Contains(location, responseURLFragment) {
		f.logger.Debug("landing URL indicates recorded response", zap.String("url", location))
		return true
	}
	return false
}

func (f *FlowController) clickWithFallback(ctx context.Context, xpath string) error {
	nativeErr := f.page.Click(ctx, xpath)
	if nativeErr == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	f.logger.Debug("native click failed, dispatching script click", zap.Error(nativeErr))
	if scriptErr := f.page.ClickScript(ctx, xpath); scriptErr != nil {
		return fmt.Errorf("native click failed (%v), script click failed: %w", nativeErr, scriptErr)
	}
	return nil
}
