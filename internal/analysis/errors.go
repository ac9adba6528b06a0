package analysis

import (
	"fmt"
	"strings"

	"github.com/tdnguyen/jira-planner/internal/models"
)

// UnsupportedLanguageError is returned when a requested target language
// has no registered template bundle. It is fatal to the call and never
// retried.
type UnsupportedLanguageError struct {
	Language  string
	Supported []string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q (supported: %s)", e.Language, strings.Join(e.Supported, ", "))
}

// InvalidConstraintError is returned when an estimation constraint is
// out of range, such as a non-positive hour cap or a negative buffer.
type InvalidConstraintError struct {
	Constraint string
	Value      float64
	Reason     string
}

func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("invalid constraint %s=%v: %s", e.Constraint, e.Value, e.Reason)
}

// EmptyInput reports whether the issue lacks usable title or
// description text. Analysis still succeeds for such issues with a
// fallback identifier and minimal complexity; the condition is flagged
// in the result's recommendations.
func EmptyInput(issue models.Issue) bool {
	return strings.TrimSpace(issue.Title) == "" || strings.TrimSpace(issue.Description) == ""
}
