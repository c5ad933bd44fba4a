// Package respondent generates randomized survey responses and holds
// the static structure of the target survey: section order, question
// labels and answer scales.
package respondent

// Field labels of the participant-information section. The locator
// matches these against the rendered question text, so they must stay
// byte-identical to the form.
const (
	ConsentLabel  = "I Agree"
	NameLabel     = "Name or Initials"
	EmailLabel    = "E-mail ID"
	AgeLabel      = "Age"
	LocationLabel = "City, State"
	HeightLabel   = "Height"
	WeightLabel   = "Weight"
	GenderLabel   = "Gender"
)

// BSQQuestions are the Body Shape Questionnaire (BSQ-8A) items,
// answered on the 1-6 Never..Always scale.
var BSQQuestions = []string{
	"Has feeling bored made you brood about your shape?",
	"Have you thought that your thighs, hips or bottom are too large for the rest of you?",
	"Have you felt so bad about your shape that you have cried?",
	"Have you avoided running because your flesh might wobble?",
	"Has being with thin people of your same gender made you feel self-conscious about your shape?",
	"Have you worried about your thighs spreading out when sitting down?",
	"Has eating sweets, cakes, or other high calorie food made you feel fat?",
	"Has worry about your shape made you feel you ought to exercise?",
}

// WCBQuestions are the Weight Control Behaviours checklist items,
// answered on a 5-point frequency scale.
var WCBQuestions = []string{
	"Dieted or restricted food intake (eating less than you wanted to lose weight)",
	"Skipped meals to control your weight",
	"Exercised excessively to lose weight (e.g., working out multiple times a day)",
	"Fasted for 24 hours or more to lose weight",
	"Taken diet pills, supplements, or herbal products for weight loss",
	"Vomited or used laxatives after eating to control weight",
	"Tracked calories obsessively (using apps, journals, etc.)",
	"Followed detox diets or cleanses for weight loss",
}

// WCBScale is the 5-point frequency scale for the weight-control
// section, ordered least to most frequent.
var WCBScale = []string{"Never", "Rarely", "Sometimes", "Often", "Very Often"}

// Genders are the options of the participant gender question.
var Genders = []string{"Female", "Male"}

// Cities is the pool the City, State answer is drawn from.
var Cities = []string{
	"New York, NY", "Los Angeles, CA", "Chicago, IL", "Houston, TX",
	"Phoenix, AZ", "Philadelphia, PA", "San Antonio, TX", "San Diego, CA",
	"Dallas, TX", "San Jose, CA", "Austin, TX", "Jacksonville, FL",
	"Bangalore, Karnataka", "Mumbai, Maharashtra", "Jaipur, Rajasthan",
	"Chennai, Tamil Nadu", "Vishakapatnam, Kerala", "Mysore, Karnataka",
	"Delhi, New Delhi",
}

// emailDomains is the pool for generated respondent addresses.
var emailDomains = []string{"gmail.com", "yahoo.com", "outlook.com", "hotmail.com"}
