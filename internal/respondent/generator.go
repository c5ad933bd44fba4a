package respondent

import (
	"fmt"
	"math/rand"
)

// UserRecord is one generated respondent's demographic data, formatted
// exactly as it is typed into the form. Immutable after generation.
type UserRecord struct {
	DisplayName string
	Email       string
	AgeYears    string
	Gender      string
	CityState   string
	HeightCm    string
	WeightKg    string
}

// Generator produces randomized survey responses. A Generator is
// seeded per submission so a run can be reproduced; it is not safe for
// concurrent use and each submission owns its own instance.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// RNG exposes the generator's random source so the page interaction
// layer draws from the same seeded stream.
func (g *Generator) RNG() *rand.Rand {
	return g.rng
}

// UserRecord draws a fresh respondent: two uppercase initials, a short
// lowercase mailbox at a common provider, age 16-25, height 150-195 cm
// and weight 45-100 kg as the form expects them typed.
func (g *Generator) UserRecord() UserRecord {
	return UserRecord{
		DisplayName: g.initials(2),
		Email:       g.email(),
		AgeYears:    fmt.Sprintf("%d", g.between(16, 25)),
		Gender:      Genders[g.rng.Intn(len(Genders))],
		CityState:   Cities[g.rng.Intn(len(Cities))],
		HeightCm:    fmt.Sprintf("%d cm", g.between(150, 195)),
		WeightKg:    fmt.Sprintf("%d kg", g.between(45, 100)),
	}
}

// BSQAnswers maps every BSQ-8A question to a random 1-6 scale value.
func (g *Generator) BSQAnswers() map[string]int {
	answers := make(map[string]int, len(BSQQuestions))
	for _, q := range BSQQuestions {
		answers[q] = g.between(1, 6)
	}
	return answers
}

// WCBAnswers maps every weight-control question to a random frequency
// word from the 5-point scale.
func (g *Generator) WCBAnswers() map[string]string {
	answers := make(map[string]string, len(WCBQuestions))
	for _, q := range WCBQuestions {
		answers[q] = WCBScale[g.rng.Intn(len(WCBScale))]
	}
	return answers
}

// between returns a uniform draw from [lo, hi] inclusive.
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) initials(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('A' + g.rng.Intn(26))
	}
	return string(b)
}

func (g *Generator) email() string {
	local := make([]byte, g.between(5, 10))
	for i := range local {
		local[i] = byte('a' + g.rng.Intn(26))
	}
	return string(local) + "@" + emailDomains[g.rng.Intn(len(emailDomains))]
}
