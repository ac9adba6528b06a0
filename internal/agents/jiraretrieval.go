package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"trpc.group/trpc-go/trpc-a2a-go/auth"
	"trpc.group/trpc-go/trpc-a2a-go/client"
	"trpc.group/trpc-go/trpc-a2a-go/protocol"
	"trpc.group/trpc-go/trpc-a2a-go/server"
	"trpc.group/trpc-go/trpc-a2a-go/taskmanager"

	"github.com/tdnguyen/jira-planner/internal/common"
	"github.com/tdnguyen/jira-planner/internal/config"
	"github.com/tdnguyen/jira-planner/internal/jira"
	log "github.com/tdnguyen/jira-planner/internal/logging"
	"github.com/tdnguyen/jira-planner/internal/models"
)

// JiraRetrievalAgent receives Jira webhook events and dispatches
// analysis-request tasks to the AnalysisAgent. When the peer is not
// reachable it runs the analysis locally so webhooks are never dropped.
type JiraRetrievalAgent struct {
	cfg            *config.Config
	analysisClient *client.A2AClient
	fallback       *AnalysisAgent
	a2aServer      *server.A2AServer
	webhookServer  *http.Server
}

// NewJiraRetrievalAgent creates a new JiraRetrievalAgent
func NewJiraRetrievalAgent(cfg *config.Config) *JiraRetrievalAgent {
	analysisClient, err := common.SetupA2AClient(cfg, cfg.AnalysisAgentURL)
	if err != nil {
		log.Fatalf("Failed to create AnalysisAgent client: %v", err)
	}

	return &JiraRetrievalAgent{
		cfg:            cfg,
		analysisClient: analysisClient,
		fallback:       NewAnalysisAgent(cfg),
	}
}

// Process implements the TaskProcessor interface. The agent accepts
// analysis-completed notifications from the AnalysisAgent and direct
// analysis requests, which it forwards.
func (j *JiraRetrievalAgent) Process(ctx context.Context, taskID string, msg protocol.Message, handle taskmanager.TaskHandle) error {
	if len(msg.Parts) == 0 {
		return fmt.Errorf("empty message or no parts")
	}

	if err := handle.UpdateStatus(protocol.TaskState("processing"), nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	// Completed notifications carry a complexity; bare requests do not
	var completed models.AnalysisCompletedTask
	if err := common.ExtractAnalysisCompleted(&msg, &completed); err == nil && completed.Complexity != "" {
		return j.processAnalysisCompleted(taskID, &completed, handle)
	}

	var request models.AnalysisRequestTask
	if err := common.ExtractAnalysisRequest(msg, &request); err == nil {
		if err := j.dispatch(ctx, &request); err != nil {
			return err
		}
		responseText := fmt.Sprintf("Dispatched analysis request for ticket %s", request.TicketID)
		responseMsg := &protocol.Message{
			Parts: []protocol.Part{protocol.NewTextPart(responseText)},
		}
		if err := handle.UpdateStatus(protocol.TaskState("completed"), responseMsg); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		return nil
	}

	return fmt.Errorf("unknown task payload")
}

// processAnalysisCompleted records a finished analysis reported by the
// AnalysisAgent.
func (j *JiraRetrievalAgent) processAnalysisCompleted(taskID string, completed *models.AnalysisCompletedTask, handle taskmanager.TaskHandle) error {
	log.Infof("Analysis completed for ticket %s: %s complexity, %.2f hours",
		completed.TicketID, completed.Complexity, completed.TotalHours)
	if completed.CommentURL != "" {
		log.Infof("Effort comment posted: %s", completed.CommentURL)
	}

	responseText := fmt.Sprintf("Recorded analysis result for ticket %s", completed.TicketID)
	responseMsg := &protocol.Message{
		Parts: []protocol.Part{protocol.NewTextPart(responseText)},
	}
	if err := handle.UpdateStatus(protocol.TaskState("completed"), responseMsg); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	log.Infof("Task %s completed successfully", taskID)
	return nil
}

// HandleWebhook processes Jira webhook requests
func (j *JiraRetrievalAgent) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()
	log.Infof("[%s] Received webhook request from %s", requestID, r.RemoteAddr)

	// Only accept POST requests
	if r.Method != http.MethodPost {
		log.Warnf("[%s] Method not allowed: %s", requestID, r.Method)
		common.ReturnJSONError(w, http.StatusMethodNotAllowed, "Method not allowed: Only POST requests are accepted")
		return
	}

	// Check content type
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		log.Warnf("[%s] Invalid content type: %s", requestID, contentType)
		common.ReturnJSONError(w, http.StatusUnsupportedMediaType, "Content type must be application/json")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warnf("[%s] Failed to read request body: %v", requestID, err)
		common.ReturnJSONError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read request body: %v", err))
		return
	}
	defer r.Body.Close()

	if len(body) == 0 {
		log.Warnf("[%s] Empty request body", requestID)
		common.ReturnJSONError(w, http.StatusBadRequest, "Request body cannot be empty")
		return
	}

	// Log payload size instead of full payload (which could be large)
	log.Debugf("[%s] Webhook payload size: %d bytes", requestID, len(body))

	webhookReq, err := parseWebhook(body)
	if err != nil {
		log.Warnf("[%s] Failed to parse webhook payload: %v", requestID, err)
		common.ReturnJSONError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse request body: %v", err))
		return
	}

	if webhookReq.TicketID == "" {
		log.Warnf("[%s] Missing ticket ID in webhook request", requestID)
		common.ReturnJSONError(w, http.StatusBadRequest, "Missing required field: ticketId")
		return
	}
	if webhookReq.Event == "" {
		log.Warnf("[%s] Missing event type in webhook request", requestID)
		common.ReturnJSONError(w, http.StatusBadRequest, "Missing required field: event")
		return
	}
	if webhookReq.Timestamp == "" {
		webhookReq.Timestamp = time.Now().Format(time.RFC3339)
	}

	log.Infof("[%s] Processing webhook for ticket: %s, event: %s", requestID, webhookReq.TicketID, webhookReq.Event)

	if !webhookReq.ShouldTriggerAnalysis() {
		j.writeWebhookResponse(w, requestID, webhookReq.TicketID, "ignored",
			fmt.Sprintf("Event %q does not trigger analysis", webhookReq.Event))
		return
	}

	if err := j.ProcessWebhook(r.Context(), webhookReq); err != nil {
		log.Errorf("[%s] Failed to process webhook: %v", requestID, err)
		common.ReturnJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to process webhook: %v", err))
		return
	}

	j.writeWebhookResponse(w, requestID, webhookReq.TicketID, "success",
		fmt.Sprintf("Successfully processed webhook for ticket %s", webhookReq.TicketID))

	log.Infof("[%s] Webhook processed in %v", requestID, time.Since(start))
}

func (j *JiraRetrievalAgent) writeWebhookResponse(w http.ResponseWriter, requestID, ticketID, status, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	responseBody := map[string]string{
		"status":    status,
		"ticketId":  ticketID,
		"message":   message,
		"requestId": requestID,
	}
	if err := json.NewEncoder(w).Encode(responseBody); err != nil {
		log.Warnf("[%s] Failed to write webhook response: %v", requestID, err)
	}
}

// parseWebhook accepts both raw Jira webhook payloads and the
// pre-normalized WebhookRequest format.
func parseWebhook(body []byte) (*jira.WebhookRequest, error) {
	if bytes.Contains(body, []byte("webhookEvent")) {
		return jira.TransformWebhook(body)
	}
	var webhookReq jira.WebhookRequest
	if err := json.Unmarshal(body, &webhookReq); err != nil {
		return nil, err
	}
	return &webhookReq, nil
}

// ProcessWebhook turns a webhook into an analysis request and dispatches it
func (j *JiraRetrievalAgent) ProcessWebhook(ctx context.Context, webhookReq *jira.WebhookRequest) error {
	log.Infof("Processing webhook for ticket: %s, event: %s", webhookReq.TicketID, webhookReq.Event)
	task := webhookReq.ToAnalysisRequest(j.cfg)
	return j.dispatch(ctx, task)
}

// dispatch sends the analysis request to the AnalysisAgent. When the
// peer is unreachable the agent runs the analysis locally instead.
func (j *JiraRetrievalAgent) dispatch(ctx context.Context, task *models.AnalysisRequestTask) error {
	params := protocol.SendTaskParams{
		Message: common.NewAnalysisRequestMessage(task),
	}

	resp, err := j.analysisClient.SendTasks(ctx, params)
	if err != nil {
		log.Warnf("Could not reach AnalysisAgent at %s: %v", j.cfg.AnalysisAgentURL, err)
		log.Infof("Running analysis locally for ticket %s", task.TicketID)

		completed, localErr := j.fallback.AnalyzeAndReport(ctx, task)
		if localErr != nil {
			return fmt.Errorf("local analysis failed: %w", localErr)
		}
		log.Infof("Local analysis for %s: %s complexity, %.2f hours",
			completed.TicketID, completed.Complexity, completed.TotalHours)
		return nil
	}

	log.Infof("Dispatched analysis request for %s, task ID: %s", task.TicketID, resp.ID)
	return nil
}

// SetupA2AServer builds the agent's A2A server with the shared settings.
func (j *JiraRetrievalAgent) SetupA2AServer() error {
	srv, err := common.SetupServer(common.SetupServerOptions{
		AgentName:    config.JiraRetrievalAgentName,
		AgentVersion: j.cfg.AgentVersion,
		AgentURL:     j.cfg.AgentURL,
		AuthType:     j.cfg.AuthType,
		JWTSecret:    j.cfg.JWTSecret,
		APIKey:       j.cfg.APIKey,
		Processor:    j,
	})
	if err != nil {
		return fmt.Errorf("failed to setup A2A server: %w", err)
	}
	j.a2aServer = srv
	return nil
}

// SetupHTTPServer registers the webhook route behind the auth middleware.
func (j *JiraRetrievalAgent) SetupHTTPServer() {
	mux := http.NewServeMux()
	mux.Handle("/webhook", common.AuthMiddleware(j.authProvider(), http.HandlerFunc(j.HandleWebhook)))

	j.webhookServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", j.cfg.ServerHost, j.cfg.WebhookPort),
		Handler: mux,
	}
	log.Infof("Webhook endpoint available at: http://%s:%d/webhook", j.cfg.ServerHost, j.cfg.WebhookPort)
}

func (j *JiraRetrievalAgent) authProvider() auth.Provider {
	switch j.cfg.AuthType {
	case "jwt":
		return auth.NewJWTAuthProvider([]byte(j.cfg.JWTSecret), "", "", 24*time.Hour)
	case "apikey":
		return auth.NewAPIKeyAuthProvider(map[string]string{j.cfg.APIKey: "user"}, "X-API-Key")
	}
	log.Warnf("No authentication configured for webhook handler")
	return nil
}

// StartA2AServer runs the A2A server until the context is canceled.
func (j *JiraRetrievalAgent) StartA2AServer(ctx context.Context) error {
	if j.a2aServer == nil {
		return fmt.Errorf("A2A server not set up")
	}
	return common.StartServer(ctx, j.a2aServer, j.cfg.ServerHost, j.cfg.ServerPort)
}

// StartHTTPServer runs the webhook listener, shutting down gracefully
// when the context is canceled.
func (j *JiraRetrievalAgent) StartHTTPServer(ctx context.Context) error {
	if j.webhookServer == nil {
		return fmt.Errorf("HTTP server not set up")
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := j.webhookServer.Shutdown(shutdownCtx); err != nil {
			log.Warnf("Webhook server shutdown: %v", err)
		}
	}()

	log.Infof("Starting webhook server on %s", j.webhookServer.Addr)
	if err := j.webhookServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("webhook server error: %w", err)
	}
	return nil
}
