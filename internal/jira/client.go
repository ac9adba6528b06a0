package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tdnguyen/jira-planner/internal/config"
	"github.com/tdnguyen/jira-planner/internal/models"
)

// OriginalEstimateField is the reserved field name that routes a value
// (in seconds) into the issue's time tracking block instead of a custom
// field. Configure JIRA_ORIGINAL_ESTIMATE_FIELD with this name to enable
// estimate write-back.
const OriginalEstimateField = "originalEstimate"

// descriptionFallbacks are custom field display names consulted, in
// order, when an issue has no description in the standard field.
var descriptionFallbacks = []string{"Story Description", "Task Description"}

// Client is a Jira Cloud REST v3 API client.
type Client struct {
	config     *config.Config
	httpClient *http.Client

	mu       sync.Mutex
	fieldIDs map[string]fieldInfo
}

// fieldInfo is one entry of the display-name to field-ID cache. Rich
// fields take an ADF document instead of a plain string.
type fieldInfo struct {
	ID   string
	Rich bool
}

// NewClient creates a new Jira client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
	}
}

// GetIssue fetches a Jira issue by its key and normalizes it into a
// models.Issue. The description is taken from the standard field when
// present, otherwise from the first non-empty fallback custom field.
func (c *Client) GetIssue(ctx context.Context, issueID string) (*models.Issue, error) {
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s?expand=names", c.config.JiraBaseURL, issueID)

	body, err := c.do(ctx, http.MethodGet, endpoint, nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %s: %w", issueID, err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	fields, ok := raw["fields"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("response missing fields")
	}

	issue := &models.Issue{
		ID:          rawString(raw["key"]),
		Title:       rawString(fields["summary"]),
		Description: descriptionText(raw, fields),
		IssueType:   nestedName(fields["issuetype"]),
		Priority:    nestedName(fields["priority"]),
		Status:      nestedName(fields["status"]),
		Assignee:    displayName(fields["assignee"]),
		Reporter:    displayName(fields["reporter"]),
	}
	if issue.ID == "" {
		issue.ID = rawString(raw["id"])
	}
	if labels, ok := fields["labels"].([]interface{}); ok {
		for _, label := range labels {
			if s, ok := label.(string); ok {
				issue.Labels = append(issue.Labels, s)
			}
		}
	}
	return issue, nil
}

// UpdateIssueField writes a string value to the named issue field.
// Display names like "Pseudo Code" are resolved to custom field IDs via
// the field directory; rich-text fields get the value wrapped in an ADF
// document. The reserved name "originalEstimate" expects the value to be
// seconds and updates the time tracking block instead.
func (c *Client) UpdateIssueField(ctx context.Context, issueID, fieldName, value string) error {
	var fields map[string]interface{}

	if fieldName == OriginalEstimateField {
		seconds, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("original estimate must be whole seconds: %w", err)
		}
		fields = map[string]interface{}{
			"timetracking": map[string]string{
				// Jira durations bottom out at minutes.
				"originalEstimate": fmt.Sprintf("%dm", seconds/60),
			},
		}
	} else {
		info, err := c.resolveField(ctx, fieldName)
		if err != nil {
			return err
		}
		if info.Rich {
			fields = map[string]interface{}{info.ID: TextToADF(value)}
		} else {
			fields = map[string]interface{}{info.ID: value}
		}
	}

	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s", c.config.JiraBaseURL, issueID)
	payload := map[string]interface{}{"fields": fields}
	if _, err := c.do(ctx, http.MethodPut, endpoint, payload, http.StatusNoContent); err != nil {
		return fmt.Errorf("failed to update field %q on %s: %w", fieldName, issueID, err)
	}
	return nil
}

// AddComment posts a comment to a Jira issue. The text is converted to
// an ADF document, so {code} macro regions render as code blocks.
func (c *Client) AddComment(ctx context.Context, issueID, comment string) (*models.JiraComment, error) {
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s/comment", c.config.JiraBaseURL, issueID)

	payload := map[string]interface{}{"body": TextToADF(comment)}
	body, err := c.do(ctx, http.MethodPost, endpoint, payload, http.StatusCreated)
	if err != nil {
		return nil, fmt.Errorf("failed to post comment: %w", err)
	}

	var posted struct {
		ID      string `json:"id"`
		Created string `json:"created"`
		Author  struct {
			DisplayName string `json:"displayName"`
		} `json:"author"`
	}
	if err := json.Unmarshal(body, &posted); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	jiraComment := &models.JiraComment{
		ID:      posted.ID,
		Body:    comment,
		Created: posted.Created,
		Author:  posted.Author.DisplayName,
	}

	// Add the comment URL
	jiraComment.URL = fmt.Sprintf("%s/browse/%s?focusedCommentId=%s",
		c.config.JiraBaseURL, issueID, jiraComment.ID)

	return jiraComment, nil
}

// AssignIssue assigns the issue to the first account matching query,
// which may be a display name or an email address.
func (c *Client) AssignIssue(ctx context.Context, issueID, query string) error {
	searchURL := fmt.Sprintf("%s/rest/api/3/user/search?query=%s",
		c.config.JiraBaseURL, url.QueryEscape(query))

	body, err := c.do(ctx, http.MethodGet, searchURL, nil, http.StatusOK)
	if err != nil {
		return fmt.Errorf("failed to search users: %w", err)
	}
	var users []struct {
		AccountID string `json:"accountId"`
	}
	if err := json.Unmarshal(body, &users); err != nil {
		return fmt.Errorf("failed to unmarshal user search: %w", err)
	}
	if len(users) == 0 {
		return fmt.Errorf("no Jira user matches %q", query)
	}

	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s/assignee", c.config.JiraBaseURL, issueID)
	payload := map[string]string{"accountId": users[0].AccountID}
	if _, err := c.do(ctx, http.MethodPut, endpoint, payload, http.StatusNoContent); err != nil {
		return fmt.Errorf("failed to assign issue: %w", err)
	}
	return nil
}

// resolveField maps a field display name to its ID, loading the field
// directory once and caching it for the lifetime of the client. Raw
// custom field IDs pass through untouched.
func (c *Client) resolveField(ctx context.Context, name string) (fieldInfo, error) {
	if strings.HasPrefix(name, "customfield_") {
		return fieldInfo{ID: name, Rich: true}, nil
	}

	c.mu.Lock()
	cached := c.fieldIDs
	c.mu.Unlock()

	if cached == nil {
		fetched, err := c.fetchFields(ctx)
		if err != nil {
			return fieldInfo{}, err
		}
		c.mu.Lock()
		c.fieldIDs = fetched
		c.mu.Unlock()
		cached = fetched
	}

	info, ok := cached[strings.ToLower(name)]
	if !ok {
		return fieldInfo{}, fmt.Errorf("no Jira field named %q", name)
	}
	return info, nil
}

// fetchFields loads the instance's field directory keyed by lowercased
// display name.
func (c *Client) fetchFields(ctx context.Context) (map[string]fieldInfo, error) {
	endpoint := fmt.Sprintf("%s/rest/api/3/field", c.config.JiraBaseURL)

	body, err := c.do(ctx, http.MethodGet, endpoint, nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	var raw []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Schema struct {
			Custom string `json:"custom"`
		} `json:"schema"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal field list: %w", err)
	}

	fields := make(map[string]fieldInfo, len(raw))
	for _, f := range raw {
		fields[strings.ToLower(f.Name)] = fieldInfo{
			ID:   f.ID,
			Rich: strings.HasSuffix(f.Schema.Custom, ":textarea"),
		}
	}
	return fields, nil
}

// do sends one API request and returns the response body after checking
// the status code.
func (c *Client) do(ctx context.Context, method, endpoint string, payload interface{}, wantStatus int) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonPayload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.addAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return nil, fmt.Errorf("unexpected status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// addAuthHeader adds authentication headers to the request
func (c *Client) addAuthHeader(req *http.Request) {
	// Basic authentication with username and API token
	auth := base64.StdEncoding.EncodeToString([]byte(c.config.JiraUsername + ":" + c.config.JiraAPIToken))
	req.Header.Set("Authorization", "Basic "+auth)
}

// descriptionText locates the issue description, preferring the standard
// field and falling back to the configured custom field names resolved
// through the expand=names directory.
func descriptionText(raw, fields map[string]interface{}) string {
	if text := fieldText(fields["description"]); text != "" {
		return text
	}
	names, _ := raw["names"].(map[string]interface{})
	for _, want := range descriptionFallbacks {
		for id, name := range names {
			if rawString(name) == want {
				if text := fieldText(fields[id]); text != "" {
					return text
				}
			}
		}
	}
	return ""
}

// fieldText flattens a field value that may be a plain string or an ADF
// document.
func fieldText(v interface{}) string {
	switch v.(type) {
	case string, map[string]interface{}:
		return strings.TrimSpace(ADFToText(v))
	default:
		return ""
	}
}

// nestedName pulls the "name" out of an object-valued field such as
// issuetype, priority, or status.
func nestedName(v interface{}) string {
	if m, ok := v.(map[string]interface{}); ok {
		return rawString(m["name"])
	}
	return ""
}

// displayName pulls the "displayName" out of a user-valued field.
func displayName(v interface{}) string {
	if m, ok := v.(map[string]interface{}); ok {
		return rawString(m["displayName"])
	}
	return ""
}

// rawString safely converts an interface{} to a string
func rawString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
