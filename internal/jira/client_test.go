package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tdnguyen/jira-planner/internal/config"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		JiraBaseURL:  baseURL,
		JiraUsername: "bot@example.com",
		JiraAPIToken: "secret-token",
	}
}

func TestGetIssue(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/issue/PROJ-42" {
			t.Errorf("Unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "10042",
			"key": "PROJ-42",
			"fields": {
				"summary": "Create wrapper API for digitcare",
				"description": {
					"type": "doc",
					"version": 1,
					"content": [
						{"type": "paragraph", "content": [
							{"type": "text", "text": "Wrap the legacy endpoints"},
							{"type": "hardBreak"},
							{"type": "text", "text": "behind one gateway."}
						]}
					]
				},
				"issuetype": {"name": "Story"},
				"priority": {"name": "High"},
				"status": {"name": "To Do"},
				"labels": ["backend", "api"],
				"assignee": {"displayName": "Dana Developer"},
				"reporter": {"displayName": "Rita Reporter"}
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	issue, err := client.GetIssue(context.Background(), "PROJ-42")
	if err != nil {
		t.Fatalf("GetIssue failed: %v", err)
	}

	if issue.ID != "PROJ-42" {
		t.Errorf("Expected ID to be PROJ-42, got %s", issue.ID)
	}
	if issue.Title != "Create wrapper API for digitcare" {
		t.Errorf("Expected summary to carry over, got %s", issue.Title)
	}
	if want := "Wrap the legacy endpoints\nbehind one gateway."; issue.Description != want {
		t.Errorf("Expected description %q, got %q", want, issue.Description)
	}
	if issue.IssueType != "Story" || issue.Priority != "High" || issue.Status != "To Do" {
		t.Errorf("Expected nested names to be extracted, got %+v", issue)
	}
	if len(issue.Labels) != 2 || issue.Labels[0] != "backend" {
		t.Errorf("Expected labels [backend api], got %v", issue.Labels)
	}
	if issue.Assignee != "Dana Developer" || issue.Reporter != "Rita Reporter" {
		t.Errorf("Expected user display names, got assignee=%s reporter=%s", issue.Assignee, issue.Reporter)
	}
	if !strings.HasPrefix(gotAuth, "Basic ") {
		t.Errorf("Expected basic auth header, got %q", gotAuth)
	}
}

func TestGetIssueDescriptionFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"key": "PROJ-7",
			"names": {
				"customfield_10051": "Story Description",
				"customfield_10052": "Sprint"
			},
			"fields": {
				"summary": "Fix error 404",
				"description": null,
				"customfield_10051": {
					"type": "doc",
					"version": 1,
					"content": [
						{"type": "paragraph", "content": [
							{"type": "text", "text": "The landing page returns 404 for logged out users."}
						]}
					]
				},
				"issuetype": {"name": "Bug"},
				"priority": {"name": "Medium"}
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	issue, err := client.GetIssue(context.Background(), "PROJ-7")
	if err != nil {
		t.Fatalf("GetIssue failed: %v", err)
	}

	if want := "The landing page returns 404 for logged out users."; issue.Description != want {
		t.Errorf("Expected fallback description %q, got %q", want, issue.Description)
	}
}

func TestUpdateIssueFieldResolvesName(t *testing.T) {
	fieldFetches := 0
	var gotUpdate map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rest/api/3/field":
			fieldFetches++
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id": "summary", "name": "Summary", "schema": {"type": "string"}},
				{"id": "customfield_10101", "name": "Pseudo Code", "schema": {"type": "string", "custom": "com.atlassian.jira.plugin.system.customfieldtypes:textarea"}},
				{"id": "customfield_10102", "name": "Team", "schema": {"type": "string", "custom": "com.atlassian.jira.plugin.system.customfieldtypes:textfield"}}
			]`))
		case r.Method == http.MethodPut && r.URL.Path == "/rest/api/3/issue/PROJ-42":
			if err := json.NewDecoder(r.Body).Decode(&gotUpdate); err != nil {
				t.Errorf("Failed to decode update payload: %v", err)
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	ctx := context.Background()

	if err := client.UpdateIssueField(ctx, "PROJ-42", "Pseudo Code", "BEGIN\nEND"); err != nil {
		t.Fatalf("UpdateIssueField failed: %v", err)
	}

	fields, ok := gotUpdate["fields"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected a fields object in the payload, got %v", gotUpdate)
	}
	doc, ok := fields["customfield_10101"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected the display name to resolve to customfield_10101, got %v", fields)
	}
	if doc["type"] != "doc" {
		t.Errorf("Expected a rich field to be wrapped in an ADF doc, got %v", doc["type"])
	}

	// Second update must reuse the cached field directory
	if err := client.UpdateIssueField(ctx, "PROJ-42", "Pseudo Code", "BEGIN"); err != nil {
		t.Fatalf("Second UpdateIssueField failed: %v", err)
	}
	if fieldFetches != 1 {
		t.Errorf("Expected 1 field directory fetch, got %d", fieldFetches)
	}
}

func TestUpdateIssueFieldPlainCustomField(t *testing.T) {
	var gotUpdate map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rest/api/3/field":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id": "customfield_10102", "name": "Team", "schema": {"type": "string", "custom": "com.atlassian.jira.plugin.system.customfieldtypes:textfield"}}
			]`))
		case r.Method == http.MethodPut:
			_ = json.NewDecoder(r.Body).Decode(&gotUpdate)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	if err := client.UpdateIssueField(context.Background(), "PROJ-42", "Team", "platform"); err != nil {
		t.Fatalf("UpdateIssueField failed: %v", err)
	}

	fields := gotUpdate["fields"].(map[string]interface{})
	if fields["customfield_10102"] != "platform" {
		t.Errorf("Expected a plain string value for a non-rich field, got %v", fields["customfield_10102"])
	}
}

func TestUpdateIssueFieldOriginalEstimate(t *testing.T) {
	var gotUpdate map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotUpdate)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	if err := client.UpdateIssueField(context.Background(), "PROJ-42", OriginalEstimateField, "39600"); err != nil {
		t.Fatalf("UpdateIssueField failed: %v", err)
	}

	fields := gotUpdate["fields"].(map[string]interface{})
	tracking, ok := fields["timetracking"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected a timetracking payload, got %v", fields)
	}
	if tracking["originalEstimate"] != "660m" {
		t.Errorf("Expected 39600 seconds to become 660m, got %v", tracking["originalEstimate"])
	}

	if err := client.UpdateIssueField(context.Background(), "PROJ-42", OriginalEstimateField, "soon"); err == nil {
		t.Error("Expected an error for a non-numeric estimate value")
	}
}

func TestAddComment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/issue/PROJ-42/comment" {
			t.Errorf("Unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("Failed to decode comment payload: %v", err)
		}
		body, ok := payload["body"].(map[string]interface{})
		if !ok || body["type"] != "doc" {
			t.Errorf("Expected an ADF body, got %v", payload["body"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"id": "10500",
			"created": "2018-05-07T13:03:57.000+0000",
			"author": {"displayName": "Analysis Bot"}
		}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	comment, err := client.AddComment(context.Background(), "PROJ-42", "Effort estimation attached")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	if comment.ID != "10500" {
		t.Errorf("Expected comment ID 10500, got %s", comment.ID)
	}
	if comment.Author != "Analysis Bot" {
		t.Errorf("Expected author Analysis Bot, got %s", comment.Author)
	}
	wantURL := server.URL + "/browse/PROJ-42?focusedCommentId=10500"
	if comment.URL != wantURL {
		t.Errorf("Expected comment URL %s, got %s", wantURL, comment.URL)
	}
}

func TestAssignIssue(t *testing.T) {
	var gotAssign map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rest/api/3/user/search":
			if q := r.URL.Query().Get("query"); q != "dana@example.com" {
				t.Errorf("Expected query dana@example.com, got %q", q)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"accountId": "5b10ac8d82e05b22cc7d4ef5", "displayName": "Dana Developer"}]`))
		case r.Method == http.MethodPut && r.URL.Path == "/rest/api/3/issue/PROJ-42/assignee":
			_ = json.NewDecoder(r.Body).Decode(&gotAssign)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	if err := client.AssignIssue(context.Background(), "PROJ-42", "dana@example.com"); err != nil {
		t.Fatalf("AssignIssue failed: %v", err)
	}

	if gotAssign["accountId"] != "5b10ac8d82e05b22cc7d4ef5" {
		t.Errorf("Expected the first matching accountId, got %v", gotAssign)
	}
}

func TestAssignIssueNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	err := client.AssignIssue(context.Background(), "PROJ-42", "nobody")
	if err == nil {
		t.Fatal("Expected an error when no user matches")
	}
	if !strings.Contains(err.Error(), "no Jira user matches") {
		t.Errorf("Expected a no-match error, got %v", err)
	}
}
