package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/tdnguyen/jira-planner/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestEstimateSimpleUnconstrained(t *testing.T) {
	est := NewEffortEstimator(NewRegistry(), 0, 0)

	issue := models.Issue{ID: "PROJ-101", Title: "Export totals screen"}
	pseudo := &models.PseudoCode{Complexity: models.ComplexitySimple}

	breakdown, err := est.Estimate(issue, pseudo, "java", 40)
	if err != nil {
		t.Fatalf("Failed to estimate: %v", err)
	}

	wantNames := []string{
		TaskAnalysisDesign,
		TaskImplementation,
		TaskTesting,
		TaskCodeReview,
		TaskDocumentation,
	}
	wantHours := []float64{2, 4, 2, 1, 1}

	if len(breakdown.Tasks) != len(wantNames) {
		t.Fatalf("Expected %d tasks, got %d", len(wantNames), len(breakdown.Tasks))
	}
	for i, task := range breakdown.Tasks {
		if task.TaskName != wantNames[i] {
			t.Errorf("Expected task %d to be %q, got %q", i, wantNames[i], task.TaskName)
		}
		if !almostEqual(task.EstimatedHours, wantHours[i]) {
			t.Errorf("Expected %q to take %.2f hours, got %.2f", task.TaskName, wantHours[i], task.EstimatedHours)
		}
		if !almostEqual(task.EstimatedDays, wantHours[i]/8) {
			t.Errorf("Expected %q days to be hours/8, got %.4f", task.TaskName, task.EstimatedDays)
		}
		for _, a := range task.Assumptions {
			if strings.Contains(a, "scaled") {
				t.Errorf("Expected no scaling below the cap, found %q on %q", a, task.TaskName)
			}
		}
	}

	if !almostEqual(breakdown.TotalHours, 10) {
		t.Errorf("Expected 10 total hours, got %.2f", breakdown.TotalHours)
	}
	if !almostEqual(breakdown.TotalDays, 1.25) {
		t.Errorf("Expected 1.25 total days, got %.4f", breakdown.TotalDays)
	}
	if breakdown.BufferPercentage != DefaultBufferPercentage {
		t.Errorf("Expected the default buffer, got %.1f", breakdown.BufferPercentage)
	}
	if !almostEqual(breakdown.TotalWithBuffer(), 1.5) {
		t.Errorf("Expected 1.5 buffered days, got %.4f", breakdown.TotalWithBuffer())
	}

	first := breakdown.Tasks[0].Assumptions
	if len(first) == 0 || first[0] != "Requirements taken from PROJ-101" {
		t.Errorf("Expected the design task to cite the issue ID, got %v", first)
	}
}

func TestEstimateScalesToCap(t *testing.T) {
	est := NewEffortEstimator(NewRegistry(), 0, 0)

	pseudo := &models.PseudoCode{Complexity: models.ComplexityComplex}
	breakdown, err := est.Estimate(models.Issue{Title: "Nightly ledger sync"}, pseudo, "BE", 4.0)
	if err != nil {
		t.Fatalf("Failed to estimate: %v", err)
	}

	if breakdown.TotalHours != 4.0 {
		t.Errorf("Expected the total pinned to the 4 hour cap, got %v", breakdown.TotalHours)
	}
	if !almostEqual(breakdown.TotalDays, 0.5) {
		t.Errorf("Expected 0.5 total days, got %v", breakdown.TotalDays)
	}

	// Proportions of the unconstrained 38 hour breakdown must survive.
	baseHours := []float64{8, 16, 8, 3, 3}
	sum := 0.0
	for i, task := range breakdown.Tasks {
		want := baseHours[i] * 4.0 / 38.0
		if !almostEqual(task.EstimatedHours, want) {
			t.Errorf("Expected %q to scale to %.6f hours, got %.6f", task.TaskName, want, task.EstimatedHours)
		}
		sum += task.EstimatedHours

		assumptions := strings.Join(task.Assumptions, "\n")
		if !strings.Contains(assumptions, "Estimate scaled to fit 4 hour constraint") {
			t.Errorf("Expected %q to record the scaling, got %v", task.TaskName, task.Assumptions)
		}
		risks := strings.Join(task.RiskFactors, "\n")
		if !strings.Contains(risks, "Reduced time may impact quality or require shortcuts") {
			t.Errorf("Expected %q to record the squeeze risk, got %v", task.TaskName, task.RiskFactors)
		}
	}

	if math.Abs(sum-breakdown.TotalHours) > 1e-6 {
		t.Errorf("Expected the task hours to sum to the total, got %v vs %v", sum, breakdown.TotalHours)
	}
}

func TestEstimateAngularSurcharge(t *testing.T) {
	est := NewEffortEstimator(NewRegistry(), 0, 0)

	issue := models.Issue{Title: "Totals form", Description: "A form on the totals screen."}
	pseudo := &models.PseudoCode{Complexity: models.ComplexityModerate}

	breakdown, err := est.Estimate(issue, pseudo, "angular", 100)
	if err != nil {
		t.Fatalf("Failed to estimate: %v", err)
	}

	impl := breakdown.Tasks[1]
	if impl.TaskName != TaskImplementation {
		t.Fatalf("Expected the second task to be Implementation, got %q", impl.TaskName)
	}
	if !almostEqual(impl.EstimatedHours, 8*1.1) {
		t.Errorf("Expected the frontend surcharge on implementation, got %.4f hours", impl.EstimatedHours)
	}

	assumptions := strings.Join(impl.Assumptions, "\n")
	if !strings.Contains(assumptions, "Implementation targets ANGULAR") {
		t.Errorf("Expected the implementation task to name the target, got %v", impl.Assumptions)
	}
	risks := strings.Join(impl.RiskFactors, "\n")
	if !strings.Contains(risks, "UI/UX feedback may require changes") {
		t.Errorf("Expected the frontend risk note, got %v", impl.RiskFactors)
	}
	if !strings.Contains(risks, "Complex form validation may need extra time") {
		t.Errorf("Expected the form risk note, got %v", impl.RiskFactors)
	}
}

func TestEstimateFullstackSurcharge(t *testing.T) {
	est := NewEffortEstimator(NewRegistry(), 0, 0)

	pseudo := &models.PseudoCode{Complexity: models.ComplexityModerate}
	breakdown, err := est.Estimate(models.Issue{Title: "Totals dashboard"}, pseudo, "fullstack", 100)
	if err != nil {
		t.Fatalf("Failed to estimate: %v", err)
	}

	impl := breakdown.Tasks[1]
	if !almostEqual(impl.EstimatedHours, 8*1.1) {
		t.Errorf("Expected the combined surcharge to be the product of both languages, got %.4f", impl.EstimatedHours)
	}
	if !strings.Contains(strings.Join(impl.Assumptions, "\n"), "Implementation targets FULLSTACK") {
		t.Errorf("Expected the combined target label, got %v", impl.Assumptions)
	}
}

func TestEstimateRiskConditioning(t *testing.T) {
	est := NewEffortEstimator(NewRegistry(), 0, 0)

	issue := models.Issue{
		Title:       "Nightly ledger sync",
		Description: "Third-party integration that rewrites the ledger database nightly.",
	}
	pseudo := &models.PseudoCode{Complexity: models.ComplexityComplex}

	breakdown, err := est.Estimate(issue, pseudo, "java", 1000)
	if err != nil {
		t.Fatalf("Failed to estimate: %v", err)
	}

	design := strings.Join(breakdown.Tasks[0].RiskFactors, "\n")
	if !strings.Contains(design, "Complex requirements may need clarification") {
		t.Errorf("Expected the Complex design risk, got %v", breakdown.Tasks[0].RiskFactors)
	}
	if !strings.Contains(design, "Third-party API integration may have unknowns") {
		t.Errorf("Expected the integration design risk, got %v", breakdown.Tasks[0].RiskFactors)
	}

	testRisks := strings.Join(breakdown.Tasks[2].RiskFactors, "\n")
	if !strings.Contains(testRisks, "Database tests need test data setup") {
		t.Errorf("Expected the database testing risk, got %v", breakdown.Tasks[2].RiskFactors)
	}

	review := breakdown.Tasks[3].RiskFactors
	if len(review) != 1 || review[0] != "Multiple review cycles may be needed" {
		t.Errorf("Expected only the Complex review risk, got %v", review)
	}
}

func TestEstimateDefaultRisks(t *testing.T) {
	est := NewEffortEstimator(NewRegistry(), 0, 0)

	issue := models.Issue{Title: "Rename a label", Description: "Small copy tweak."}
	pseudo := &models.PseudoCode{Complexity: models.ComplexitySimple}

	breakdown, err := est.Estimate(issue, pseudo, "java", 1000)
	if err != nil {
		t.Fatalf("Failed to estimate: %v", err)
	}

	design := breakdown.Tasks[0].RiskFactors
	if len(design) != 1 || design[0] != "Minimal risk for simple design" {
		t.Errorf("Expected the minimal design risk, got %v", design)
	}
	impl := breakdown.Tasks[1].RiskFactors
	if len(impl) != 1 || impl[0] != "Standard implementation with minimal risk" {
		t.Errorf("Expected the minimal implementation risk, got %v", impl)
	}
}

func TestEstimateInvalidConstraints(t *testing.T) {
	reg := NewRegistry()
	pseudo := &models.PseudoCode{Complexity: models.ComplexitySimple}

	est := NewEffortEstimator(reg, 0, 0)
	for _, maxHours := range []float64{0, -3} {
		_, err := est.Estimate(models.Issue{}, pseudo, "java", maxHours)
		var invalid *InvalidConstraintError
		if !errors.As(err, &invalid) {
			t.Fatalf("Expected InvalidConstraintError for max hours %v, got %v", maxHours, err)
		}
		if invalid.Constraint != "max_hours" {
			t.Errorf("Expected the error to name max_hours, got %q", invalid.Constraint)
		}
	}

	negBuffer := NewEffortEstimator(reg, 0, -5)
	_, err := negBuffer.Estimate(models.Issue{}, pseudo, "java", 10)
	var invalid *InvalidConstraintError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidConstraintError for a negative buffer, got %v", err)
	}
	if invalid.Constraint != "buffer_percentage" {
		t.Errorf("Expected the error to name buffer_percentage, got %q", invalid.Constraint)
	}
}

func TestEstimateUnknownLanguage(t *testing.T) {
	est := NewEffortEstimator(NewRegistry(), 0, 0)

	_, err := est.Estimate(models.Issue{}, &models.PseudoCode{Complexity: models.ComplexitySimple}, "python", 10)
	var unsupported *UnsupportedLanguageError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Expected UnsupportedLanguageError, got %v", err)
	}
}
