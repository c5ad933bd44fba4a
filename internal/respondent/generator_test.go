package respondent

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	emailRe  = regexp.MustCompile(`^[a-z]{5,10}@(gmail|yahoo|outlook|hotmail)\.com$`)
	heightRe = regexp.MustCompile(`^(\d+) cm$`)
	weightRe = regexp.MustCompile(`^(\d+) kg$`)
)

func TestUserRecord_Bounds(t *testing.T) {
	g := NewGenerator(1)
	for i := 0; i < 500; i++ {
		u := g.UserRecord()

		assert.Len(t, u.DisplayName, 2)
		assert.Equal(t, strings.ToUpper(u.DisplayName), u.DisplayName)
		assert.Regexp(t, emailRe, u.Email)
		assert.Contains(t, Genders, u.Gender)
		assert.Contains(t, Cities, u.CityState)

		age, err := strconv.Atoi(u.AgeYears)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, age, 16)
		assert.LessOrEqual(t, age, 25)

		m := heightRe.FindStringSubmatch(u.HeightCm)
		require.NotNil(t, m, "height %q", u.HeightCm)
		height, _ := strconv.Atoi(m[1])
		assert.GreaterOrEqual(t, height, 150)
		assert.LessOrEqual(t, height, 195)

		m = weightRe.FindStringSubmatch(u.WeightKg)
		require.NotNil(t, m, "weight %q", u.WeightKg)
		weight, _ := strconv.Atoi(m[1])
		assert.GreaterOrEqual(t, weight, 45)
		assert.LessOrEqual(t, weight, 100)
	}
}

func TestBSQAnswers_CoversAllQuestionsInScale(t *testing.T) {
	answers := NewGenerator(2).BSQAnswers()
	require.Len(t, answers, len(BSQQuestions))
	for _, q := range BSQQuestions {
		v, ok := answers[q]
		require.True(t, ok, "missing answer for %q", q)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
	}
}

func TestWCBAnswers_CoversAllQuestionsInScale(t *testing.T) {
	answers := NewGenerator(3).WCBAnswers()
	require.Len(t, answers, len(WCBQuestions))
	for _, q := range WCBQuestions {
		v, ok := answers[q]
		require.True(t, ok, "missing answer for %q", q)
		assert.Contains(t, WCBScale, v)
	}
}

func TestGenerator_DeterministicUnderSeed(t *testing.T) {
	a, b := NewGenerator(42), NewGenerator(42)

	assert.Equal(t, a.UserRecord(), b.UserRecord())
	assert.Equal(t, a.BSQAnswers(), b.BSQAnswers())
	assert.Equal(t, a.WCBAnswers(), b.WCBAnswers())
}

func TestGenerator_SeedsDiverge(t *testing.T) {
	a, b := NewGenerator(1), NewGenerator(2)

	// A handful of draws from different seeds should not all collide.
	same := 0
	for i := 0; i < 10; i++ {
		if a.UserRecord() == b.UserRecord() {
			same++
		}
	}
	assert.Less(t, same, 10)
}
