package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-a2a-go/protocol"
	"trpc.group/trpc-go/trpc-a2a-go/taskmanager"

	"github.com/tdnguyen/jira-planner/internal/analysis"
	"github.com/tdnguyen/jira-planner/internal/common"
	"github.com/tdnguyen/jira-planner/internal/config"
	"github.com/tdnguyen/jira-planner/internal/jira"
	"github.com/tdnguyen/jira-planner/internal/llm"
	log "github.com/tdnguyen/jira-planner/internal/logging"
	"github.com/tdnguyen/jira-planner/internal/models"
	"github.com/tdnguyen/jira-planner/internal/report"
)

// AnalysisAgent implements the TaskProcessor interface from trpc-a2a-go.
// It turns an analysis-request task into pseudo code, source stubs, and
// an effort estimate, and writes the results back to the Jira issue.
type AnalysisAgent struct {
	config     *config.Config
	jiraClient jira.JiraClientInterface
	engine     *analysis.Engine
	llmClient  llm.LLMClient
}

// NewAnalysisAgent creates a new AnalysisAgent
func NewAnalysisAgent(cfg *config.Config) *AnalysisAgent {
	agent := &AnalysisAgent{
		config:     cfg,
		jiraClient: jira.NewClient(cfg),
		engine:     analysis.NewEngine(),
	}

	if cfg.LLMEnabled {
		llmClient, err := llm.NewClient(cfg)
		if err != nil {
			log.Warnf("LLM enrichment disabled: %v", err)
		} else {
			agent.llmClient = llmClient
		}
	}

	return agent
}

// Helper function to create string pointers
func stringPtr(s string) *string {
	return &s
}

// Process implements the TaskProcessor interface from trpc-a2a-go
func (a *AnalysisAgent) Process(ctx context.Context, taskID string, message protocol.Message, handle taskmanager.TaskHandle) error {
	log.Infof("Received task with ID: %s", taskID)

	if err := handle.UpdateStatus(protocol.TaskState("processing"), nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	// Extract and validate the request payload
	var task models.AnalysisRequestTask
	if err := common.ExtractAnalysisRequest(message, &task); err != nil {
		return fmt.Errorf("failed to extract task data: %w", err)
	}
	if err := models.ValidateStruct(&task); err != nil {
		return fmt.Errorf("invalid analysis request: %w", err)
	}
	a.applyDefaults(&task)

	log.Infof("Processing analysis-request for ticket %s (language=%s, maxHours=%g)",
		task.TicketID, task.Language, task.MaxHours)

	if err := handle.UpdateStatus(protocol.TaskState("fetching_issue"), nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	// Fetch the issue. Fetch failures degrade to an empty issue so the
	// pipeline still produces generic artifacts.
	issue := a.fetchIssue(ctx, task.TicketID)
	if analysis.EmptyInput(issue) {
		log.Warnf("Issue %s has no usable title or description, estimates will be generic", task.TicketID)
	}

	if err := handle.UpdateStatus(protocol.TaskState("analyzing"), nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	result, err := a.engine.Analyze(issue, analysis.Options{
		Language:         task.Language,
		MaxHours:         task.MaxHours,
		BufferPercentage: a.config.BufferPercentage,
		HoursPerDay:      a.config.HoursPerDay,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	markdown := report.Markdown(result)

	if err := handle.UpdateStatus(protocol.TaskState("updating_jira"), nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	commentURL := ""
	if task.UpdateIssue && a.hasJiraCredentials() {
		commentURL = a.updateJiraIssue(ctx, &task, result)
	} else {
		log.Infof("Skipping Jira write-back for %s (updates disabled or no credentials)", task.TicketID)
	}

	// Record the Markdown report as an artifact
	reportArtifact := protocol.Artifact{
		Name:        stringPtr("report"),
		Description: stringPtr("Issue analysis report"),
		Parts:       []protocol.Part{protocol.NewTextPart(markdown)},
	}
	if err := handle.AddArtifact(reportArtifact); err != nil {
		return fmt.Errorf("failed to record artifact: %w", err)
	}

	if commentURL != "" {
		commentArtifact := protocol.Artifact{
			Name:        stringPtr("comment"),
			Description: stringPtr("Jira Comment"),
			Parts:       []protocol.Part{},
			Metadata: map[string]interface{}{
				"url": commentURL,
			},
		}
		if err := handle.AddArtifact(commentArtifact); err != nil {
			log.Warnf("Failed to add comment artifact: %v", err)
		}
	}

	// Build the analysis-completed payload
	completed := models.AnalysisCompletedTask{
		TaskID:     taskID,
		TicketID:   task.TicketID,
		Complexity: result.PseudoCode.Complexity,
		TotalHours: result.Effort.TotalHours,
		TotalDays:  result.Effort.TotalDays,
		CommentURL: commentURL,
		Report:     markdown,
	}
	dataPart := protocol.DataPart{
		Type: "data",
		Data: completed,
		Metadata: map[string]interface{}{
			"content-type": "application/json",
		},
	}
	responseMsg := &protocol.Message{
		Parts: []protocol.Part{&dataPart},
	}

	if err := handle.UpdateStatus(protocol.TaskState("completed"), responseMsg); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	log.Infof("Task %s completed: %s estimated at %.2f hours", taskID, task.TicketID, result.Effort.TotalHours)
	return nil
}

// StartServer exposes the agent as an A2A server and blocks until the
// context is canceled.
func (a *AnalysisAgent) StartServer(ctx context.Context) error {
	srv, err := common.SetupServer(common.SetupServerOptions{
		AgentName:    config.AnalysisAgentName,
		AgentVersion: a.config.AgentVersion,
		AgentURL:     a.config.AgentURL,
		AuthType:     a.config.AuthType,
		JWTSecret:    a.config.JWTSecret,
		APIKey:       a.config.APIKey,
		Processor:    a,
	})
	if err != nil {
		return fmt.Errorf("failed to setup A2A server: %w", err)
	}
	return common.StartServer(ctx, srv, a.config.ServerHost, a.config.ServerPort)
}

// AnalyzeAndReport runs the full pipeline outside the A2A task loop.
// The retrieval agent uses it as a local fallback when the analysis
// peer is unreachable, and the CLI uses it for one-shot runs.
func (a *AnalysisAgent) AnalyzeAndReport(ctx context.Context, task *models.AnalysisRequestTask) (*models.AnalysisCompletedTask, error) {
	if err := models.ValidateStruct(task); err != nil {
		return nil, fmt.Errorf("invalid analysis request: %w", err)
	}
	a.applyDefaults(task)

	issue := a.fetchIssue(ctx, task.TicketID)
	if analysis.EmptyInput(issue) {
		log.Warnf("Issue %s has no usable title or description, estimates will be generic", task.TicketID)
	}

	result, err := a.engine.Analyze(issue, analysis.Options{
		Language:         task.Language,
		MaxHours:         task.MaxHours,
		BufferPercentage: a.config.BufferPercentage,
		HoursPerDay:      a.config.HoursPerDay,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	commentURL := ""
	if task.UpdateIssue && a.hasJiraCredentials() {
		commentURL = a.updateJiraIssue(ctx, task, result)
	}

	return &models.AnalysisCompletedTask{
		TicketID:   task.TicketID,
		Complexity: result.PseudoCode.Complexity,
		TotalHours: result.Effort.TotalHours,
		TotalDays:  result.Effort.TotalDays,
		CommentURL: commentURL,
		Report:     report.Markdown(result),
	}, nil
}

// applyDefaults fills unset request fields from the configuration.
func (a *AnalysisAgent) applyDefaults(task *models.AnalysisRequestTask) {
	if task.Language == "" {
		task.Language = a.config.Language
	}
	if task.MaxHours <= 0 {
		task.MaxHours = a.config.MaxHours
	}
	if task.AssignTo == "" {
		task.AssignTo = a.config.AssignTo
	}
}

// fetchIssue loads the issue from Jira, degrading to an empty placeholder
// when the fetch fails so analysis can still run.
func (a *AnalysisAgent) fetchIssue(ctx context.Context, ticketID string) models.Issue {
	if !a.hasJiraCredentials() {
		log.Infof("No Jira credentials configured, analyzing %s without issue data", ticketID)
		return models.Issue{ID: ticketID}
	}

	issue, err := a.jiraClient.GetIssue(ctx, ticketID)
	if err != nil {
		log.Warnf("Failed to fetch issue %s, continuing with empty issue: %v", ticketID, err)
		return models.Issue{ID: ticketID}
	}
	return *issue
}

func (a *AnalysisAgent) hasJiraCredentials() bool {
	return a.config.JiraUsername != "" && a.config.JiraAPIToken != ""
}

// updateJiraIssue pushes the analysis artifacts to the issue: the pseudo
// code field, the source code field, the original estimate, the effort
// comment, and finally the assignee. Individual failures are logged and
// the remaining steps still run. Returns the posted comment URL, if any.
func (a *AnalysisAgent) updateJiraIssue(ctx context.Context, task *models.AnalysisRequestTask, result *models.AnalysisResult) string {
	ticketID := task.TicketID

	if a.config.PseudoCodeField != "" {
		fieldText := report.PseudoCodeField(result.PseudoCode)
		if err := a.jiraClient.UpdateIssueField(ctx, ticketID, a.config.PseudoCodeField, fieldText); err != nil {
			log.Warnf("Failed to update pseudo code field on %s: %v", ticketID, err)
		} else {
			log.Infof("Updated %q field on %s", a.config.PseudoCodeField, ticketID)
		}
	}

	if a.config.SourceCodeField != "" && result.SourceCode != nil {
		fieldText := report.SourceCodeField(result.SourceCode)
		if err := a.jiraClient.UpdateIssueField(ctx, ticketID, a.config.SourceCodeField, fieldText); err != nil {
			log.Warnf("Failed to update source code field on %s: %v", ticketID, err)
		} else {
			log.Infof("Updated %q field on %s", a.config.SourceCodeField, ticketID)
		}
	}

	if a.config.OriginalEstimateField != "" {
		seconds := report.OriginalEstimateSeconds(result.Effort)
		if err := a.jiraClient.UpdateIssueField(ctx, ticketID, a.config.OriginalEstimateField, strconv.Itoa(seconds)); err != nil {
			log.Warnf("Failed to update original estimate on %s: %v", ticketID, err)
		} else {
			log.Infof("Set original estimate on %s to %d seconds", ticketID, seconds)
		}
	}

	comment := report.EffortComment(result.Effort)
	if summary := a.summarize(ctx, result); summary != "" {
		comment = summary + "\n\n" + comment
	}

	commentURL := ""
	jiraComment, err := a.jiraClient.AddComment(ctx, ticketID, comment)
	if err != nil {
		log.Warnf("Failed to post effort comment on %s: %v", ticketID, err)
	} else {
		commentURL = jiraComment.URL
		log.Infof("Posted effort comment: %s", commentURL)
	}

	if task.AssignTo != "" {
		if err := a.jiraClient.AssignIssue(ctx, ticketID, task.AssignTo); err != nil {
			log.Warnf("Failed to assign %s to %q: %v", ticketID, task.AssignTo, err)
		} else {
			log.Infof("Assigned %s to %q", ticketID, task.AssignTo)
		}
	}

	return commentURL
}

// summarize asks the LLM for a one-paragraph phrasing of the estimate.
// Returns the empty string when the LLM is disabled or fails, keeping
// the comment fully deterministic in that case.
func (a *AnalysisAgent) summarize(ctx context.Context, result *models.AnalysisResult) string {
	if a.llmClient == nil {
		return ""
	}

	prompt := fmt.Sprintf(
		"Summarize this development estimate in one short paragraph for a Jira comment. "+
			"Respond with JSON of the form {\"summary\": \"...\"}.\n\n"+
			"Issue: %s\nComplexity: %s\nTotal hours: %.2f\nTotal days: %.2f\nRecommendations:\n- %s",
		result.Issue.Title,
		result.PseudoCode.Complexity,
		result.Effort.TotalHours,
		result.Effort.TotalDays,
		strings.Join(result.Recommendations, "\n- "),
	)

	completion, err := a.llmClient.Complete(ctx, prompt)
	if err != nil {
		log.Warnf("LLM summary failed, using deterministic comment: %v", err)
		return ""
	}

	raw, err := common.ExtractJSON(completion)
	if err != nil {
		log.Warnf("LLM response had no JSON payload: %v", err)
		return ""
	}
	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Warnf("Failed to parse LLM summary: %v", err)
		return ""
	}
	return strings.TrimSpace(parsed.Summary)
}
