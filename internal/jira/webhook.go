package jira

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tdnguyen/jira-planner/internal/config"
	"github.com/tdnguyen/jira-planner/internal/models"
)

// WebhookPayload is the JSON body Jira posts to registered webhooks.
type WebhookPayload struct {
	ID           int             `json:"id"`
	Timestamp    int64           `json:"timestamp"`
	Issue        WebhookIssue    `json:"issue"`
	User         WebhookUser     `json:"user"`
	Changelog    *Changelog      `json:"changelog,omitempty"`
	Comment      *WebhookComment `json:"comment,omitempty"`
	WebhookEvent string          `json:"webhookEvent"`
}

// WebhookIssue is the issue fragment embedded in a webhook payload.
type WebhookIssue struct {
	ID     string                 `json:"id"`
	Self   string                 `json:"self"`
	Key    string                 `json:"key"`
	Fields map[string]interface{} `json:"fields"`
}

// WebhookUser is the user fragment embedded in a webhook payload.
type WebhookUser struct {
	Self         string            `json:"self"`
	Name         string            `json:"name"`
	Key          string            `json:"key"`
	EmailAddress string            `json:"emailAddress"`
	AvatarURLs   map[string]string `json:"avatarUrls"`
	DisplayName  string            `json:"displayName"`
	Active       interface{}       `json:"active"` // Can be string "true" or boolean true
}

// Changelog lists the field changes that triggered an update event.
type Changelog struct {
	ID    int             `json:"id"`
	Items []ChangelogItem `json:"items"`
}

// ChangelogItem is a single field change in a changelog.
type ChangelogItem struct {
	Field      string `json:"field"`
	Fieldtype  string `json:"fieldtype"`
	From       string `json:"from"`
	FromString string `json:"fromString"`
	To         string `json:"to"`
	ToString   string `json:"toString"`
}

// WebhookComment is the comment fragment on comment events.
type WebhookComment struct {
	ID           string      `json:"id"`
	Self         string      `json:"self"`
	Body         string      `json:"body"`
	Author       WebhookUser `json:"author"`
	UpdateAuthor WebhookUser `json:"updateAuthor"`
	Created      string      `json:"created"`
	Updated      string      `json:"updated"`
}

// WebhookRequest is the normalized form of a Jira webhook used internally.
type WebhookRequest struct {
	TicketID     string            `json:"ticketId"`
	Event        string            `json:"event"`                  // "created", "updated", "commented", etc.
	UserName     string            `json:"userName"`               // The user who triggered the event
	UserEmail    string            `json:"userEmail"`              // The email of the user who triggered the event
	ProjectKey   string            `json:"projectKey"`             // The key of the project containing the issue
	Changes      map[string]string `json:"changes"`                // Map of fields that were changed and their new values
	WebhookName  string            `json:"webhookName"`            // Name of the webhook that was triggered
	Timestamp    string            `json:"timestamp"`              // When the webhook was triggered
	CustomFields map[string]string `json:"customFields,omitempty"` // Any custom fields from Jira
}

// TransformWebhook converts a raw Jira webhook payload into the internal
// WebhookRequest format: the event name is shortened, the project key is
// derived from the issue key, the Unix-ms timestamp becomes RFC3339, and
// changelog entries collapse to a field-to-new-value map.
func TransformWebhook(payload []byte) (*WebhookRequest, error) {
	var webhook WebhookPayload
	if err := json.Unmarshal(payload, &webhook); err != nil {
		return nil, err
	}

	webhookReq := &WebhookRequest{
		TicketID:    webhook.Issue.Key,
		Event:       eventType(webhook.WebhookEvent),
		UserName:    webhook.User.Name,
		UserEmail:   webhook.User.EmailAddress,
		WebhookName: webhook.WebhookEvent,
	}

	// Project key is the prefix of the issue key (e.g. "JRA" from "JRA-20002")
	if parts := strings.Split(webhook.Issue.Key, "-"); len(parts) > 0 {
		webhookReq.ProjectKey = parts[0]
	}

	if webhook.Timestamp > 0 {
		webhookReq.Timestamp = time.Unix(webhook.Timestamp/1000, 0).Format(time.RFC3339)
	} else {
		webhookReq.Timestamp = time.Now().Format(time.RFC3339)
	}

	if webhook.Changelog != nil && len(webhook.Changelog.Items) > 0 {
		webhookReq.Changes = make(map[string]string)
		for _, item := range webhook.Changelog.Items {
			webhookReq.Changes[item.Field] = item.ToString
		}
	}

	if len(webhook.Issue.Fields) > 0 {
		webhookReq.CustomFields = make(map[string]string)
		for field, value := range webhook.Issue.Fields {
			webhookReq.CustomFields[field] = customFieldValue(value)
		}
	}

	return webhookReq, nil
}

// customFieldValue flattens a webhook field value to a string. Complex
// values are carried as their JSON encoding.
func customFieldValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64, int, bool:
		return fmt.Sprintf("%v", v)
	default:
		if jsonValue, err := json.Marshal(v); err == nil {
			return string(jsonValue)
		}
		return ""
	}
}

// eventType shortens a webhook event name like "jira:issue_created" to
// its bare action.
func eventType(webhookEvent string) string {
	switch webhookEvent {
	case "jira:issue_created":
		return "created"
	case "jira:issue_updated":
		return "updated"
	case "jira:issue_commented":
		return "commented"
	case "jira:issue_deleted":
		return "deleted"
	default:
		if parts := strings.Split(webhookEvent, ":"); len(parts) > 1 {
			return parts[1]
		}
		return webhookEvent
	}
}

// ShouldTriggerAnalysis reports whether the event warrants running the
// analysis pipeline. Comment and delete events are skipped.
func (w *WebhookRequest) ShouldTriggerAnalysis() bool {
	switch w.Event {
	case "created", "updated":
		return true
	}
	return false
}

// ToAnalysisRequest builds the task payload the AnalysisAgent consumes.
// Analysis options come from the configuration, not the webhook; the
// webhook only contributes the ticket and trigger context.
func (w *WebhookRequest) ToAnalysisRequest(cfg *config.Config) *models.AnalysisRequestTask {
	return &models.AnalysisRequestTask{
		TicketID:    w.TicketID,
		Language:    cfg.Language,
		MaxHours:    cfg.MaxHours,
		AssignTo:    cfg.AssignTo,
		UpdateIssue: cfg.UpdateJira,
		Metadata: map[string]string{
			"event":      w.Event,
			"projectKey": w.ProjectKey,
			"user":       w.UserName,
			"timestamp":  w.Timestamp,
		},
	}
}
