package common

import (
	"testing"

	"trpc.group/trpc-go/trpc-a2a-go/protocol"

	"github.com/tdnguyen/jira-planner/internal/models"
)

func TestExtractAnalysisRequestFromDataPart(t *testing.T) {
	request := &models.AnalysisRequestTask{
		TicketID:    "PROJ-123",
		Language:    "fullstack",
		MaxHours:    6,
		UpdateIssue: true,
	}
	message := NewAnalysisRequestMessage(request)

	var task models.AnalysisRequestTask
	if err := ExtractAnalysisRequest(message, &task); err != nil {
		t.Fatalf("Failed to extract analysis request: %v", err)
	}

	if task.TicketID != "PROJ-123" {
		t.Errorf("Expected TicketID to be PROJ-123, got %s", task.TicketID)
	}
	if task.Language != "fullstack" {
		t.Errorf("Expected Language to be fullstack, got %s", task.Language)
	}
	if task.MaxHours != 6 {
		t.Errorf("Expected MaxHours to be 6, got %v", task.MaxHours)
	}
	if !task.UpdateIssue {
		t.Error("Expected UpdateIssue to be true")
	}
}

func TestExtractAnalysisRequestFromTextPart(t *testing.T) {
	textPart := protocol.NewTextPart(`{"ticketId":"PROJ-9","language":"angular","maxHours":2.5}`)
	message := protocol.Message{Parts: []protocol.Part{textPart}}

	var task models.AnalysisRequestTask
	if err := ExtractAnalysisRequest(message, &task); err != nil {
		t.Fatalf("Failed to extract analysis request: %v", err)
	}

	if task.TicketID != "PROJ-9" || task.Language != "angular" || task.MaxHours != 2.5 {
		t.Errorf("Extracted task is wrong: %+v", task)
	}
}

func TestExtractAnalysisRequestLooseKeys(t *testing.T) {
	dataPart := protocol.DataPart{
		Type: "data",
		Data: map[string]interface{}{
			"issueId":    "PROJ-77",
			"lang":       "java",
			"max_hours":  "3.5",
			"updateJira": "true",
			"event":      "created",
			"projectKey": "PROJ",
		},
	}
	message := protocol.Message{Parts: []protocol.Part{&dataPart}}

	var task models.AnalysisRequestTask
	if err := ExtractAnalysisRequest(message, &task); err != nil {
		t.Fatalf("Failed to extract analysis request: %v", err)
	}

	if task.TicketID != "PROJ-77" {
		t.Errorf("Expected issueId alias to be accepted, got %s", task.TicketID)
	}
	if task.Language != "java" {
		t.Errorf("Expected lang alias to be accepted, got %s", task.Language)
	}
	if task.MaxHours != 3.5 {
		t.Errorf("Expected max_hours string to parse, got %v", task.MaxHours)
	}
	if !task.UpdateIssue {
		t.Error("Expected updateJira alias to be accepted")
	}
	if task.Metadata["event"] != "created" {
		t.Errorf("Expected event metadata to carry over, got %v", task.Metadata)
	}
}

func TestExtractAnalysisRequestMissingTicket(t *testing.T) {
	textPart := protocol.NewTextPart(`{"language":"java"}`)
	message := protocol.Message{Parts: []protocol.Part{textPart}}

	var task models.AnalysisRequestTask
	if err := ExtractAnalysisRequest(message, &task); err == nil {
		t.Error("Expected an error when no ticket ID is present")
	}
}

func TestExtractAnalysisCompleted(t *testing.T) {
	dataPart := protocol.DataPart{
		Type: "data",
		Data: models.AnalysisCompletedTask{
			TaskID:     "task-1",
			TicketID:   "PROJ-123",
			Complexity: models.ComplexityModerate,
			TotalHours: 20,
			TotalDays:  2.5,
		},
	}
	message := &protocol.Message{Parts: []protocol.Part{&dataPart}}

	var result models.AnalysisCompletedTask
	if err := ExtractAnalysisCompleted(message, &result); err != nil {
		t.Fatalf("Failed to extract analysis result: %v", err)
	}

	if result.TicketID != "PROJ-123" {
		t.Errorf("Expected TicketID to be PROJ-123, got %s", result.TicketID)
	}
	if result.Complexity != models.ComplexityModerate {
		t.Errorf("Expected Moderate complexity, got %s", result.Complexity)
	}
	if result.TotalHours != 20 {
		t.Errorf("Expected TotalHours to be 20, got %v", result.TotalHours)
	}
}
