package analysis

import (
	"fmt"
	"strings"

	"github.com/tdnguyen/jira-planner/internal/models"
)

// DefaultLanguage is the target when the caller does not name one.
const DefaultLanguage = "java"

// Options control a single analysis run. Zero values pick the defaults:
// java target, 4 hour cap, 20% buffer, 8 hour days.
type Options struct {
	Language         string
	MaxHours         float64
	BufferPercentage float64
	HoursPerDay      float64
}

// Engine ties the analysis stages together: derive an identifier from
// the title, classify complexity, outline pseudo-code, render skeleton
// source files, and estimate effort. It keeps no per-call state, so one
// Engine is safe to share across goroutines.
type Engine struct {
	registry   *Registry
	deriver    *IdentifierDeriver
	classifier *Classifier
	pseudo     *PseudoCodeGenerator
	source     *SourceFileGenerator
}

// NewEngine creates an engine with the built-in language registry.
func NewEngine() *Engine {
	return NewEngineWith(NewRegistry())
}

// NewEngineWith creates an engine on a caller-supplied registry, which
// lets tests and embedders register extra languages or aliases.
func NewEngineWith(reg *Registry) *Engine {
	deriver := NewIdentifierDeriver()
	classifier := NewClassifier()
	return &Engine{
		registry:   reg,
		deriver:    deriver,
		classifier: classifier,
		pseudo:     NewPseudoCodeGenerator(reg, deriver, classifier),
		source:     NewSourceFileGenerator(reg, deriver),
	}
}

// Analyze runs the full pipeline for one issue and assembles the
// result. It is deterministic: the same issue and options always
// produce the same result.
func (e *Engine) Analyze(issue models.Issue, opts Options) (*models.AnalysisResult, error) {
	language := opts.Language
	if language == "" {
		language = DefaultLanguage
	}
	maxHours := opts.MaxHours
	if maxHours == 0 {
		maxHours = DefaultMaxHours
	}

	bundles, err := e.registry.ResolveSet(language)
	if err != nil {
		return nil, err
	}

	pseudo, err := e.pseudo.Generate(issue, language)
	if err != nil {
		return nil, err
	}
	source, err := e.source.Generate(issue, pseudo, language)
	if err != nil {
		return nil, err
	}

	estimator := NewEffortEstimator(e.registry, opts.HoursPerDay, opts.BufferPercentage)
	effort, err := estimator.Estimate(issue, pseudo, language, maxHours)
	if err != nil {
		return nil, err
	}

	return &models.AnalysisResult{
		Issue:           issue,
		PseudoCode:      pseudo,
		SourceCode:      source,
		Effort:          effort,
		Recommendations: e.recommendations(issue, pseudo, effort, bundles, maxHours, estimator.hoursPerDay),
	}, nil
}

// recommendations builds the advisory notes attached to a result,
// conditioned on input quality, complexity, the hour constraint, the
// target languages, and issue priority.
func (e *Engine) recommendations(issue models.Issue, pseudo *models.PseudoCode, effort *models.TaskBreakdown, bundles []*TemplateBundle, maxHours, hoursPerDay float64) []string {
	var recs []string

	if strings.TrimSpace(issue.Description) == "" {
		recs = append(recs, "Insufficient description provided; estimates are low-confidence until the issue is fleshed out")
	}
	if strings.TrimSpace(issue.Title) == "" {
		recs = append(recs, "Give the issue a descriptive title; generated artifact names fell back to a generic identifier")
	}

	if pseudo.Complexity == models.ComplexityComplex {
		recs = append(recs,
			"Consider breaking this task into smaller sub-tasks for better manageability",
			"Schedule a technical design review before implementation")
	}

	maxDays := maxHours / hoursPerDay
	if effort.TotalWithBuffer() > maxDays {
		recs = append(recs, fmt.Sprintf(
			"Estimated effort (%.1f days / %.1f hours) exceeds max hours (%gh / %.1f days). Consider scope reduction or timeline adjustment.",
			effort.TotalWithBuffer(), effort.BufferedHours(), maxHours, maxDays))
	}

	for _, b := range bundles {
		if b.Frontend {
			recs = append(recs,
				"Follow Angular style guide and use reactive forms for complex scenarios",
				"Implement proper error handling and loading states in the UI")
		} else {
			recs = append(recs,
				"Ensure proper exception handling and logging throughout the implementation",
				"Write comprehensive unit tests using JUnit and Mockito")
		}
	}

	switch issue.Priority {
	case "Critical", "High", "Highest":
		recs = append(recs, "Given the high priority, consider pair programming or code review during development")
	}

	return recs
}
