package common

import (
	"encoding/json"
	"fmt"

	"trpc.group/trpc-go/trpc-a2a-go/protocol"

	log "github.com/tdnguyen/jira-planner/internal/logging"
	"github.com/tdnguyen/jira-planner/internal/models"
)

// NewAnalysisRequestMessage wraps an analysis request in a DataPart
// message. DataPart keeps the payload as structured JSON instead of
// double-encoding it inside a text part.
func NewAnalysisRequestMessage(task *models.AnalysisRequestTask) protocol.Message {
	dataPart := protocol.DataPart{
		Type: "data",
		Data: task,
		Metadata: map[string]interface{}{
			"content-type": "application/json",
		},
	}
	return protocol.Message{
		Parts: []protocol.Part{&dataPart},
	}
}

// ExtractAnalysisRequest pulls an AnalysisRequestTask out of a message.
// Callers on the wire vary: some send a DataPart, some a JSON text part,
// and some use loose key names, so each strategy is tried in turn.
func ExtractAnalysisRequest(message protocol.Message, task *models.AnalysisRequestTask) error {
	if len(message.Parts) == 0 {
		return fmt.Errorf("message has no parts")
	}

	for _, part := range message.Parts {
		// Try DataPart first (value or pointer)
		var dp *protocol.DataPart
		switch v := part.(type) {
		case protocol.DataPart:
			dp = &v
		case *protocol.DataPart:
			dp = v
		}
		if dp != nil && dp.Data != nil {
			raw, err := json.Marshal(dp.Data)
			if err != nil {
				log.Debugf("Failed to marshal DataPart.Data: %v", err)
				continue
			}
			if err := json.Unmarshal(raw, task); err == nil && task.TicketID != "" {
				return nil
			}
			var dataMap map[string]interface{}
			if err := json.Unmarshal(raw, &dataMap); err == nil {
				if err := extractRequestFromMap(dataMap, task); err == nil {
					return nil
				}
			}
		}

		// Then TextPart carrying JSON (value or pointer)
		var tp *protocol.TextPart
		switch v := part.(type) {
		case protocol.TextPart:
			tp = &v
		case *protocol.TextPart:
			tp = v
		}
		if tp != nil && tp.Text != "" {
			if err := json.Unmarshal([]byte(tp.Text), task); err == nil && task.TicketID != "" {
				return nil
			}
			var dataMap map[string]interface{}
			if err := json.Unmarshal([]byte(tp.Text), &dataMap); err == nil {
				if err := extractRequestFromMap(dataMap, task); err == nil {
					return nil
				}
			}
		}
	}

	return fmt.Errorf("could not extract analysis request from message")
}

// extractRequestFromMap fills the task from a loosely keyed map.
func extractRequestFromMap(data map[string]interface{}, task *models.AnalysisRequestTask) error {
	ticketID, ok := GetStringValue(data, "ticketId", "ticket_id", "issueId", "id")
	if !ok {
		return fmt.Errorf("no ticket ID found in data")
	}
	task.TicketID = ticketID

	if language, ok := GetStringValue(data, "language", "targetLanguage", "lang"); ok {
		task.Language = language
	}
	if assignTo, ok := GetStringValue(data, "assignTo", "assignee"); ok {
		task.AssignTo = assignTo
	}
	if maxHours, ok := GetFloatValue(data, "maxHours", "max_hours"); ok {
		task.MaxHours = maxHours
	}
	if update, ok := GetBoolValue(data, "updateIssue", "updateJira"); ok {
		task.UpdateIssue = update
	}

	if task.Metadata == nil {
		task.Metadata = make(map[string]string)
	}
	for _, field := range []string{"event", "projectKey", "user", "priority", "timestamp"} {
		if value, ok := GetStringValue(data, field); ok {
			task.Metadata[field] = value
		}
	}

	return nil
}

// ExtractAnalysisCompleted pulls an AnalysisCompletedTask out of a
// response message.
func ExtractAnalysisCompleted(message *protocol.Message, task *models.AnalysisCompletedTask) error {
	if message == nil || len(message.Parts) == 0 {
		return fmt.Errorf("message is nil or has no parts")
	}

	for _, part := range message.Parts {
		var dp *protocol.DataPart
		switch v := part.(type) {
		case *protocol.DataPart:
			dp = v
		case protocol.DataPart:
			dp = &v
		}
		if dp != nil && dp.Data != nil {
			if raw, err := json.Marshal(dp.Data); err == nil {
				if err := json.Unmarshal(raw, task); err == nil && task.TicketID != "" {
					return nil
				}
			}
		}

		var tp *protocol.TextPart
		switch v := part.(type) {
		case protocol.TextPart:
			tp = &v
		case *protocol.TextPart:
			tp = v
		}
		if tp != nil && tp.Text != "" {
			if err := json.Unmarshal([]byte(tp.Text), task); err == nil && task.TicketID != "" {
				return nil
			}
		}
	}

	return fmt.Errorf("could not extract analysis result from message")
}
