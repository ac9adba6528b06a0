package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AnalysisRequestTask is the payload of an "analysis-request" A2A task,
// sent from the JiraRetrievalAgent (or any other caller) to the
// AnalysisAgent when an issue should be analyzed.
type AnalysisRequestTask struct {
	TicketID    string            `json:"ticketId" validate:"required"`
	Language    string            `json:"language,omitempty"`
	MaxHours    float64           `json:"maxHours,omitempty" validate:"omitempty,gt=0"`
	AssignTo    string            `json:"assignTo,omitempty"`
	UpdateIssue bool              `json:"updateIssue,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// AnalysisCompletedTask is the result payload sent back after an
// AnalysisRequestTask has been processed.
type AnalysisCompletedTask struct {
	TaskID     string          `json:"taskId"`
	TicketID   string          `json:"ticketId"`
	Complexity ComplexityLevel `json:"complexity"`
	TotalHours float64         `json:"totalHours"`
	TotalDays  float64         `json:"totalDays"`
	CommentURL string          `json:"commentUrl,omitempty"`
	Report     string          `json:"report,omitempty"`
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct checks the validate tags on a transport payload and
// flattens any violations into a single error.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var messages []string
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed rule '%s'", e.StructNamespace(), e.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}
