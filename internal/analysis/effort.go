package analysis

import (
	"fmt"
	"strings"

	"github.com/tdnguyen/jira-planner/internal/models"
)

// Task names of the standard breakdown, in report order.
const (
	TaskAnalysisDesign = "Analysis & Design"
	TaskImplementation = "Implementation"
	TaskTesting        = "Testing"
	TaskCodeReview     = "Code Review"
	TaskDocumentation  = "Documentation"
)

// Estimation defaults applied when the caller passes zero values.
const (
	DefaultMaxHours         = 4.0
	DefaultHoursPerDay      = 8.0
	DefaultBufferPercentage = 20.0
)

var taskOrder = []string{
	TaskAnalysisDesign,
	TaskImplementation,
	TaskTesting,
	TaskCodeReview,
	TaskDocumentation,
}

// baseTaskHours is the baseline effort table keyed by complexity level
// and task name, before any language surcharge or constraint scaling.
var baseTaskHours = map[models.ComplexityLevel]map[string]float64{
	models.ComplexitySimple: {
		TaskAnalysisDesign: 2,
		TaskImplementation: 4,
		TaskTesting:        2,
		TaskCodeReview:     1,
		TaskDocumentation:  1,
	},
	models.ComplexityModerate: {
		TaskAnalysisDesign: 4,
		TaskImplementation: 8,
		TaskTesting:        4,
		TaskCodeReview:     2,
		TaskDocumentation:  2,
	},
	models.ComplexityComplex: {
		TaskAnalysisDesign: 8,
		TaskImplementation: 16,
		TaskTesting:        8,
		TaskCodeReview:     3,
		TaskDocumentation:  3,
	},
}

// EffortEstimator turns a classified issue into a per-task hour
// breakdown, applying the target language's implementation surcharge
// and rescaling to fit a caller-supplied hour constraint.
type EffortEstimator struct {
	registry         *Registry
	hoursPerDay      float64
	bufferPercentage float64
}

// NewEffortEstimator creates an estimator. Zero values select the
// defaults of 8 hours per day and a 20% buffer.
func NewEffortEstimator(reg *Registry, hoursPerDay, bufferPercentage float64) *EffortEstimator {
	if hoursPerDay <= 0 {
		hoursPerDay = DefaultHoursPerDay
	}
	if bufferPercentage == 0 {
		bufferPercentage = DefaultBufferPercentage
	}
	return &EffortEstimator{
		registry:         reg,
		hoursPerDay:      hoursPerDay,
		bufferPercentage: bufferPercentage,
	}
}

// Estimate builds the task breakdown for an issue at the complexity the
// pseudo-code generator established. Implementation hours carry the
// language surcharge (the product of the surcharges when two languages
// are combined). When the unconstrained total exceeds maxHours every
// task is scaled by the same ratio so the total equals maxHours exactly
// and each task keeps its relative share; an estimate under the cap is
// returned as-is. Hours are kept unrounded, rendering is the report
// layer's job. An unrecognized complexity level estimates as Moderate.
func (e *EffortEstimator) Estimate(issue models.Issue, pseudo *models.PseudoCode, language string, maxHours float64) (*models.TaskBreakdown, error) {
	if maxHours <= 0 {
		return nil, &InvalidConstraintError{Constraint: "max_hours", Value: maxHours, Reason: "must be positive"}
	}
	if e.bufferPercentage < 0 {
		return nil, &InvalidConstraintError{Constraint: "buffer_percentage", Value: e.bufferPercentage, Reason: "must not be negative"}
	}
	bundles, err := e.registry.ResolveSet(language)
	if err != nil {
		return nil, err
	}

	level := pseudo.Complexity
	base, ok := baseTaskHours[level]
	if !ok {
		base = baseTaskHours[models.ComplexityModerate]
	}

	surcharge := 1.0
	for _, b := range bundles {
		surcharge *= b.ImplSurcharge
	}
	display := bundles[0].Display
	if len(bundles) > 1 {
		display = "FULLSTACK"
	}

	desc := strings.ToLower(issue.Description)
	tasks := make([]models.EffortTask, 0, len(taskOrder))
	for _, name := range taskOrder {
		hours := base[name]
		if name == TaskImplementation {
			hours *= surcharge
		}
		tasks = append(tasks, models.EffortTask{
			TaskName:       name,
			Complexity:     level,
			EstimatedHours: hours,
			EstimatedDays:  hours / e.hoursPerDay,
			Assumptions:    taskAssumptions(name, issue, display),
			RiskFactors:    taskRisks(name, desc, level, bundles),
		})
	}

	total := 0.0
	for _, t := range tasks {
		total += t.EstimatedHours
	}
	if total > maxHours {
		e.scaleDown(tasks, total, maxHours)
		total = maxHours
	}

	return &models.TaskBreakdown{
		Tasks:            tasks,
		TotalHours:       total,
		TotalDays:        total / e.hoursPerDay,
		BufferPercentage: e.bufferPercentage,
	}, nil
}

// scaleDown shrinks every task by the same factor so the breakdown fits
// the hour constraint, recording the squeeze on each task.
func (e *EffortEstimator) scaleDown(tasks []models.EffortTask, current, maxHours float64) {
	factor := maxHours / current
	for i := range tasks {
		h := tasks[i].EstimatedHours * factor
		tasks[i].EstimatedHours = h
		tasks[i].EstimatedDays = h / e.hoursPerDay
		tasks[i].Assumptions = append(tasks[i].Assumptions,
			fmt.Sprintf("Estimate scaled to fit %g hour constraint", maxHours))
		tasks[i].RiskFactors = append(tasks[i].RiskFactors,
			"Reduced time may impact quality or require shortcuts")
	}
}

func taskAssumptions(task string, issue models.Issue, display string) []string {
	switch task {
	case TaskAnalysisDesign:
		var a []string
		if issue.ID != "" {
			a = append(a, fmt.Sprintf("Requirements taken from %s", issue.ID))
		}
		return append(a, "All dependencies and APIs are documented")
	case TaskImplementation:
		return []string{
			"Development environment is set up",
			fmt.Sprintf("Implementation targets %s", display),
			"Code follows existing patterns",
		}
	case TaskTesting:
		return []string{
			"Test framework is already set up",
			"Mock data and services are available",
		}
	case TaskCodeReview:
		return []string{
			"Code follows project standards",
			"Single round of review",
		}
	case TaskDocumentation:
		return []string{
			"Standard code documentation",
			"README and inline comments",
		}
	}
	return nil
}

func taskRisks(task, desc string, level models.ComplexityLevel, bundles []*TemplateBundle) []string {
	isComplex := level == models.ComplexityComplex
	var risks []string
	switch task {
	case TaskAnalysisDesign:
		if isComplex {
			risks = append(risks,
				"Complex requirements may need clarification",
				"Architecture decisions may require senior review")
		}
		if strings.Contains(desc, "integration") {
			risks = append(risks, "Third-party API integration may have unknowns")
		}
		if strings.Contains(desc, "performance") {
			risks = append(risks, "Performance requirements may need prototyping")
		}
		if len(risks) == 0 {
			risks = append(risks, "Minimal risk for simple design")
		}
	case TaskImplementation:
		if isComplex {
			risks = append(risks, "Complex logic may require multiple iterations")
		}
		if strings.Contains(desc, "database") {
			risks = append(risks, "Database schema changes may need migration")
		}
		for _, b := range bundles {
			if b.Frontend {
				risks = append(risks, "UI/UX feedback may require changes")
				if strings.Contains(desc, "form") {
					risks = append(risks, "Complex form validation may need extra time")
				}
			} else if strings.Contains(desc, "transaction") {
				risks = append(risks, "Transactional logic requires careful testing")
			}
		}
		if len(risks) == 0 {
			risks = append(risks, "Standard implementation with minimal risk")
		}
	case TaskTesting:
		if isComplex {
			risks = append(risks, "Complex scenarios require extensive test coverage")
		}
		if strings.Contains(desc, "integration") || strings.Contains(desc, "third-party") {
			risks = append(risks, "Integration testing may require mock services")
		}
		if strings.Contains(desc, "database") {
			risks = append(risks, "Database tests need test data setup")
		}
	case TaskCodeReview:
		if isComplex {
			risks = append(risks, "Multiple review cycles may be needed")
		}
	}
	return risks
}
