// internal/form/interact.go
package form

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// textInputProbes is the fixed preference order for input-like
// sub-elements inside a container.
var textInputProbes = []string{
	`//input[@type='text']`,
	`//input[@type='email']`,
	`//input[@type='number']`,
	`//textarea`,
}

// likertScale maps the 1-6 scale to its canonical option text. The
// mapping is computed for Likert selections but, under the default
// random-selection policy, does not influence which option is clicked;
// it is retained for the hint-honoring mode.
var likertScale = map[int]string{
	1: "Never",
	2: "Rarely",
	3: "Sometimes",
	4: "Often",
	5: "Very Often",
	6: "Always",
}

// ItemOutcome is the per-list-item result of a bulk radio sweep.
type ItemOutcome struct {
	Index     int
	HadRadios bool
	Err       error
}

// Interactor performs the value-setting interaction for each control
// archetype. Every operation first resolves the question container
// through the Locator, then scrolls the specific sub-control into view
// before touching it.
type Interactor struct {
	page    Page
	locator *Locator
	logger  *zap.Logger
	rng     *rand.Rand

	// honorHint makes SelectRadio honor the caller-supplied option
	// text instead of picking uniformly at random. Off by default to
	// preserve the randomized-response behavior.
	honorHint    bool
	settleScroll time.Duration
}

// NewInteractor wires an interaction engine over the page and locator.
// The rng drives all random option picks; injecting it keeps a
// submission reproducible under a fixed seed.
func NewInteractor(page Page, locator *Locator, rng *rand.Rand, honorHint bool, settleScroll time.Duration, logger *zap.Logger) *Interactor {
	return &Interactor{
		page:         page,
		locator:      locator,
		logger:       logger.Named("interactor"),
		rng:          rng,
		honorHint:    honorHint,
		settleScroll: settleScroll,
	}
}

// FillText resolves the container for label, probes its input-like
// sub-elements in preference order, clears the first one present and
// writes value into it.
func (i *Interactor) FillText(ctx context.Context, label, value string) error {
	container, err := i.locator.Locate(ctx, label)
	if err != nil {
		return err
	}

	for _, probe := range textInputProbes {
		fields, err := i.page.FindAll(ctx, container.XPath+probe)
		if err != nil {
			return fmt.Errorf("probing inputs for %q: %w", label, err)
		}
		if len(fields) == 0 {
			continue
		}

		field := fields[0]
		if err := i.page.ScrollIntoView(ctx, field); err != nil {
			i.logger.Debug("scroll to input failed", zap.String("label", label), zap.Error(err))
		}
		if err := i.page.ClearAndFill(ctx, field, value); err != nil {
			return fmt.Errorf("filling %q: %w", label, err)
		}
		i.logger.Info("entered text answer", zap.String("label", label), zap.String("value", value))
		return nil
	}

	return fmt.Errorf("%w: %q", ErrInputFieldNotFound, label)
}

// CheckBox ensures the single checkbox-role control under label is
// checked. Idempotent: an already-checked box is left alone, so a
// second call performs no click and never toggles it off.
func (i *Interactor) CheckBox(ctx context.Context, label string) error {
	container, err := i.locator.Locate(ctx, label)
	if err != nil {
		return err
	}

	boxes, err := i.page.FindAll(ctx, container.XPath+`//div[@role='checkbox']`)
	if err != nil {
		return fmt.Errorf("querying checkbox for %q: %w", label, err)
	}
	if len(boxes) == 0 {
		return fmt.Errorf("%w: no checkbox under %q", ErrInputFieldNotFound, label)
	}

	box := boxes[0]
	if err := i.page.ScrollIntoView(ctx, box); err != nil {
		i.logger.Debug("scroll to checkbox failed", zap.String("label", label), zap.Error(err))
	}

	checked, _, err := i.page.Attribute(ctx, box, "aria-checked")
	if err != nil {
		return fmt.Errorf("reading checkbox state for %q: %w", label, err)
	}
	if checked == "true" {
		i.logger.Info("checkbox already checked", zap.String("label", label))
		return nil
	}

	if err := i.clickWithFallback(ctx, box); err != nil {
		return fmt.Errorf("checking %q: %w", label, err)
	}
	i.logger.Info("checked checkbox", zap.String("label", label))
	return nil
}

// SelectRadio picks one radio-role option inside the container for
// label. By default the pick is uniformly random and preferred is
// deliberately ignored, reproducing randomized survey responses even
// for an ostensibly directed question; set honorHint to make preferred
// binding.
func (i *Interactor) SelectRadio(ctx context.Context, label, preferred string) error {
	container, err := i.locator.Locate(ctx, label)
	if err != nil {
		return err
	}

	radios, err := i.page.FindAll(ctx, container.XPath+`//div[@role='radio']`)
	if err != nil {
		return fmt.Errorf("querying radios for %q: %w", label, err)
	}
	if len(radios) == 0 {
		return fmt.Errorf("%w: %q", ErrNoOptionsFound, label)
	}

	choice := radios[i.rng.Intn(len(radios))]
	if i.honorHint && preferred != "" {
		// Digit and lowercase scale tokens resolve to their canonical
		// option text before matching.
		preferred = canonicalOption(preferred)
		if hinted, ok := i.findRadioByText(ctx, radios, preferred); ok {
			choice = hinted
		} else {
			i.logger.Debug("hint did not match any option, falling back to random pick",
				zap.String("label", label), zap.String("hint", preferred))
		}
	}

	return i.selectRadioControl(ctx, choice, label)
}

// SelectLikert maps a 1-6 scale value to its canonical option text and
// delegates to SelectRadio.
func (i *Interactor) SelectLikert(ctx context.Context, label string, scale int) error {
	return i.SelectRadio(ctx, label, LikertLabel(scale))
}

// LikertLabel resolves a scale value to its canonical text. Values
// outside 1-6 fall back to their decimal form, matching how a raw
// value would be typed.
func LikertLabel(scale int) string {
	if text, ok := likertScale[scale]; ok {
		return text
	}
	return strconv.Itoa(scale)
}

// canonicalOption resolves a scale word or digit token ("3",
// "Sometimes") to its canonical text. Unknown tokens pass through.
func canonicalOption(token string) string {
	if n, err := strconv.Atoi(token); err == nil {
		return LikertLabel(n)
	}
	for _, text := range likertScale {
		if strings.EqualFold(text, token) {
			return text
		}
	}
	return token
}

// FillAllRadiosRandomly sweeps every list-item container on the
// current page and selects one random option in each that holds radio
// controls. Per-item failures are recorded in the outcome slice and
// skipped; the returned error is reserved for a top-level sweep
// failure (the page enumeration itself breaking).
func (i *Interactor) FillAllRadiosRandomly(ctx context.Context) ([]ItemOutcome, error) {
	items, err := i.page.FindAll(ctx, `//div[@role='listitem']`)
	if err != nil {
		return nil, fmt.Errorf("enumerating question items: %w", err)
	}
	i.logger.Info("sweeping page for radio questions", zap.Int("items", len(items)))

	outcomes := make([]ItemOutcome, 0, len(items))
	for idx, item := range items {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcome := ItemOutcome{Index: idx}

		radios, err := i.page.FindAll(ctx, item+`//div[@role='radio']`)
		if err != nil {
			outcome.Err = err
			outcomes = append(outcomes, outcome)
			i.logger.Warn("skipping item after query failure", zap.Int("item", idx), zap.Error(err))
			continue
		}
		if len(radios) == 0 {
			outcomes = append(outcomes, outcome)
			continue
		}
		outcome.HadRadios = true

		if err := i.page.ScrollIntoView(ctx, item); err != nil {
			i.logger.Debug("scroll to item failed", zap.Int("item", idx), zap.Error(err))
		}
		if err := settle(ctx, i.settleScroll); err != nil {
			return outcomes, err
		}

		choice := radios[i.rng.Intn(len(radios))]
		if err := i.selectRadioControl(ctx, choice, fmt.Sprintf("item %d", idx)); err != nil {
			outcome.Err = err
			i.logger.Warn("skipping item after selection failure", zap.Int("item", idx), zap.Error(err))
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// findRadioByText scans the candidate radios for one whose visible
// text matches want case-insensitively.
func (i *Interactor) findRadioByText(ctx context.Context, radios []string, want string) (string, bool) {
	for _, radio := range radios {
		text, err := i.page.Text(ctx, radio)
		if err != nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(text), want) {
			return radio, true
		}
	}
	return "", false
}

// selectRadioControl scrolls to the chosen radio and clicks it unless
// it is already selected. Clicking an unselected radio in a group that
// already has a selection moves the selection, so the group invariant
// of exactly one checked option holds either way.
func (i *Interactor) selectRadioControl(ctx context.Context, radio, what string) error {
	if err := i.page.ScrollIntoView(ctx, radio); err != nil {
		i.logger.Debug("scroll to radio failed", zap.String("question", what), zap.Error(err))
	}

	checked, _, err := i.page.Attribute(ctx, radio, "aria-checked")
	if err != nil {
		return fmt.Errorf("reading radio state for %s: %w", what, err)
	}
	if checked == "true" {
		i.logger.Info("option already selected", zap.String("question", what))
		return nil
	}

	if err := i.clickWithFallback(ctx, radio); err != nil {
		return fmt.Errorf("selecting option for %s: %w", what, err)
	}
	i.logger.Info("selected option", zap.String("question", what))
	return nil
}

// clickWithFallback tries a native click and, when it is intercepted,
// retries exactly once through a script-dispatched click. A second
// failure propagates.
func (i *Interactor) clickWithFallback(ctx context.Context, xpath string) error {
	nativeErr := i.page.Click(ctx, xpath)
	if nativeErr == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	i.logger.Debug("native click failed, dispatching script click", zap.Error(nativeErr))
	if scriptErr := i.page.ClickScript(ctx, xpath); scriptErr != nil {
		return fmt.Errorf("native click failed (%v), script click failed: %w", nativeErr, scriptErr)
	}
	return nil
}
