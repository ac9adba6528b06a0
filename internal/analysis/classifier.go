package analysis

import (
	"strings"

	"github.com/tdnguyen/jira-planner/internal/models"
)

// ClassifierWeights are the additive scoring knobs. Every contribution
// is non-negative except the simple-type bias, so the score (and the
// resulting level) is monotonic in description length and keyword hits.
type ClassifierWeights struct {
	SimpleTypeBias  float64 // bugs and tasks
	ComplexTypeBias float64 // features, stories, epics
	MediumLength    float64 // descriptions of 200 to 500 characters
	LongLength      float64 // descriptions over 500 characters
	EscalationHit   float64 // per distinct escalation term present
	BusinessHit     float64 // per distinct business-logic term present
	ModerateAt      float64 // score at or above this is Moderate
	ComplexAt       float64 // score at or above this is Complex
}

// DefaultClassifierWeights returns the scoring table used in
// production. With these values a short keyword-free bug scores below
// zero (Simple) and a long description mentioning two escalation terms
// scores five (Complex).
func DefaultClassifierWeights() ClassifierWeights {
	return ClassifierWeights{
		SimpleTypeBias:  -0.5,
		ComplexTypeBias: 1.5,
		MediumLength:    1.5,
		LongLength:      3.0,
		EscalationHit:   1.0,
		BusinessHit:     0.5,
		ModerateAt:      1.0,
		ComplexAt:       4.0,
	}
}

// escalationTerms signal integration or performance scope. Each
// distinct term present adds a full point.
var escalationTerms = []string{
	"integration", "migration", "performance", "scalability",
	"concurrency", "distributed", "security", "third-party", "refactor",
}

// businessTerms signal non-trivial domain logic. Each distinct term
// present adds a fractional amount.
var businessTerms = []string{
	"calculate", "transform", "validate", "aggregate", "workflow", "reconcile",
}

// Classifier scores an issue's text into Simple, Moderate, or Complex.
// It never fails; unknown issue types simply carry no bias and an empty
// description pins the result to Simple.
type Classifier struct {
	weights ClassifierWeights
}

// NewClassifier returns a classifier with the default weights.
func NewClassifier() *Classifier {
	return &Classifier{weights: DefaultClassifierWeights()}
}

// NewClassifierWith returns a classifier with caller-supplied weights.
func NewClassifierWith(w ClassifierWeights) *Classifier {
	return &Classifier{weights: w}
}

// Classify maps the issue to a complexity level by thresholding Score.
func (c *Classifier) Classify(issue models.Issue) models.ComplexityLevel {
	if strings.TrimSpace(issue.Description) == "" {
		return models.ComplexitySimple
	}
	score := c.Score(issue)
	switch {
	case score >= c.weights.ComplexAt:
		return models.ComplexityComplex
	case score >= c.weights.ModerateAt:
		return models.ComplexityModerate
	default:
		return models.ComplexitySimple
	}
}

// Score combines the issue-type bias, the description-length bucket,
// and case-insensitive keyword scans of the title and description into
// one additive score.
func (c *Classifier) Score(issue models.Issue) float64 {
	var score float64

	switch strings.ToLower(issue.IssueType) {
	case "bug", "task":
		score += c.weights.SimpleTypeBias
	case "feature", "story", "epic":
		score += c.weights.ComplexTypeBias
	}

	switch length := len(issue.Description); {
	case length > 500:
		score += c.weights.LongLength
	case length >= 200:
		score += c.weights.MediumLength
	}

	text := strings.ToLower(issue.Title + " " + issue.Description)
	for _, term := range escalationTerms {
		if strings.Contains(text, term) {
			score += c.weights.EscalationHit
		}
	}
	for _, term := range businessTerms {
		if strings.Contains(text, term) {
			score += c.weights.BusinessHit
		}
	}
	return score
}
