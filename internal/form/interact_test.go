// internal/form/interact_test.go
package form

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSeed = 7

func newTestInteractor(page *fakePage, honorHint bool) *Interactor {
	locator := NewLocator(page, 0, zap.NewNop())
	rng := rand.New(rand.NewSource(testSeed))
	return NewInteractor(page, locator, rng, honorHint, 0, zap.NewNop())
}

// placeQuestion wires label to a container handle via the exact-text
// strategy so Locate resolves in one hop.
func placeQuestion(page *fakePage, label, container string) {
	page.dom[exactQuery(label)] = []string{container}
}

func TestFillText_PrefersTextInput(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "Age", "/c")
	page.dom[`/c//input[@type='text']`] = []string{"/c/input[1]"}
	page.dom[`/c//textarea`] = []string{"/c/textarea[1]"}

	err := newTestInteractor(page, false).FillText(context.Background(), "Age", "21")
	require.NoError(t, err)
	assert.Equal(t, "21", page.filled["/c/input[1]"])
	assert.Empty(t, page.filled["/c/textarea[1]"])
}

func TestFillText_FallsBackThroughProbeOrder(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "E-mail ID", "/c")
	page.dom[`/c//input[@type='email']`] = []string{"/c/email[1]"}

	err := newTestInteractor(page, false).FillText(context.Background(), "E-mail ID", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", page.filled["/c/email[1]"])
}

func TestFillText_NoInputFound(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "Height", "/c")

	err := newTestInteractor(page, false).FillText(context.Background(), "Height", "170 cm")
	assert.ErrorIs(t, err, ErrInputFieldNotFound)
}

func TestFillText_QuestionMissing(t *testing.T) {
	err := newTestInteractor(newFakePage(), false).FillText(context.Background(), "Ghost", "x")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestCheckBox_ChecksAndStaysIdempotent(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "I Agree", "/c")
	page.dom[`/c//div[@role='checkbox']`] = []string{"/c/box"}

	it := newTestInteractor(page, false)
	require.NoError(t, it.CheckBox(context.Background(), "I Agree"))
	assert.Equal(t, 1, page.totalClicks())

	// Second call observes aria-checked=true and must not toggle.
	require.NoError(t, it.CheckBox(context.Background(), "I Agree"))
	assert.Equal(t, 1, page.totalClicks())
}

func TestCheckBox_MissingControl(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "I Agree", "/c")

	err := newTestInteractor(page, false).CheckBox(context.Background(), "I Agree")
	assert.ErrorIs(t, err, ErrInputFieldNotFound)
}

func TestSelectRadio_RandomPickIgnoresHint(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "Gender", "/c")
	radios := []string{"/c/r1", "/c/r2", "/c/r3"}
	page.dom[`/c//div[@role='radio']`] = radios
	page.texts["/c/r1"] = "Female"
	page.texts["/c/r2"] = "Male"
	page.texts["/c/r3"] = "Prefer not to say"

	err := newTestInteractor(page, false).SelectRadio(context.Background(), "Gender", "Prefer not to say")
	require.NoError(t, err)

	expected := radios[rand.New(rand.NewSource(testSeed)).Intn(len(radios))]
	require.Len(t, page.clicks, 1)
	assert.Equal(t, expected, page.clicks[0])
}

func TestSelectRadio_HonorsHintWhenEnabled(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "Gender", "/c")
	page.dom[`/c//div[@role='radio']`] = []string{"/c/r1", "/c/r2"}
	page.texts["/c/r1"] = "Female"
	page.texts["/c/r2"] = "Male"

	err := newTestInteractor(page, true).SelectRadio(context.Background(), "Gender", "Male")
	require.NoError(t, err)
	require.Len(t, page.clicks, 1)
	assert.Equal(t, "/c/r2", page.clicks[0])
}

func TestSelectRadio_NoOptions(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "Gender", "/c")

	err := newTestInteractor(page, false).SelectRadio(context.Background(), "Gender", "")
	assert.ErrorIs(t, err, ErrNoOptionsFound)
}

func TestSelectRadio_AlreadySelectedSkipsClick(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "Gender", "/c")
	page.dom[`/c//div[@role='radio']`] = []string{"/c/r1"}
	page.setAttr("/c/r1", "aria-checked", "true")

	err := newTestInteractor(page, false).SelectRadio(context.Background(), "Gender", "")
	require.NoError(t, err)
	assert.Zero(t, page.totalClicks())
}

func TestSelectRadio_InterceptedClickFallsBackToScript(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "Gender", "/c")
	page.dom[`/c//div[@role='radio']`] = []string{"/c/r1"}
	page.interceptNative["/c/r1"] = true

	err := newTestInteractor(page, false).SelectRadio(context.Background(), "Gender", "")
	require.NoError(t, err)
	assert.Empty(t, page.clicks)
	assert.Equal(t, []string{"/c/r1"}, page.scriptClicks)
}

func TestSelectRadio_BothClickPathsFail(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "Gender", "/c")
	page.dom[`/c//div[@role='radio']`] = []string{"/c/r1"}
	page.interceptNative["/c/r1"] = true
	page.scriptClickErr["/c/r1"] = errors.New("node detached")

	err := newTestInteractor(page, false).SelectRadio(context.Background(), "Gender", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node detached")
}

func TestSelectLikert_MapsScaleToCanonicalText(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "Have you felt anxious?", "/c")
	page.dom[`/c//div[@role='radio']`] = []string{"/c/r1", "/c/r2"}
	page.texts["/c/r1"] = "Never"
	page.texts["/c/r2"] = "Very Often"

	err := newTestInteractor(page, true).SelectLikert(context.Background(), "Have you felt anxious?", 5)
	require.NoError(t, err)
	require.Len(t, page.clicks, 1)
	assert.Equal(t, "/c/r2", page.clicks[0])
}

func TestLikertLabel(t *testing.T) {
	assert.Equal(t, "Never", LikertLabel(1))
	assert.Equal(t, "Always", LikertLabel(6))
	assert.Equal(t, "9", LikertLabel(9))
}

func TestCanonicalOption(t *testing.T) {
	assert.Equal(t, "Sometimes", canonicalOption("3"))
	assert.Equal(t, "Very Often", canonicalOption("very often"))
	assert.Equal(t, "N/A", canonicalOption("N/A"))
}

func TestSelectRadio_HintAcceptsScaleTokens(t *testing.T) {
	page := newFakePage()
	placeQuestion(page, "Have you felt anxious?", "/c")
	page.dom[`/c//div[@role='radio']`] = []string{"/c/r1", "/c/r2", "/c/r3"}
	page.texts["/c/r1"] = "Never"
	page.texts["/c/r2"] = "Sometimes"
	page.texts["/c/r3"] = "Always"

	err := newTestInteractor(page, true).SelectRadio(context.Background(), "Have you felt anxious?", "3")
	require.NoError(t, err)
	require.Len(t, page.clicks, 1)
	assert.Equal(t, "/c/r2", page.clicks[0])
}

func TestFillAllRadiosRandomly(t *testing.T) {
	page := newFakePage()
	page.dom[`//div[@role='listitem']`] = []string{"/i0", "/i1", "/i2"}
	page.dom[`/i0//div[@role='radio']`] = []string{"/i0/r1", "/i0/r2"}
	// /i1 holds no radios (a text question).
	page.findErr[`/i2//div[@role='radio']`] = errors.New("stale document")

	outcomes, err := newTestInteractor(page, false).FillAllRadiosRandomly(context.Background())
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].HadRadios)
	assert.NoError(t, outcomes[0].Err)
	assert.False(t, outcomes[1].HadRadios)
	assert.NoError(t, outcomes[1].Err)
	assert.Error(t, outcomes[2].Err)

	assert.Equal(t, 1, page.totalClicks())
}
