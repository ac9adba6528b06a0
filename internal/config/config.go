package config

import (
	"log"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tdnguyen/jira-planner/internal/analysis"
)

// Agent names used to select per-agent defaults.
const (
	AnalysisAgentName      = "AnalysisAgent"
	JiraRetrievalAgentName = "JiraRetrievalAgent"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerPort int
	ServerHost string

	// WebhookPort is where the retrieval agent listens for Jira
	// webhooks, kept separate from the A2A JSON-RPC port.
	WebhookPort int

	// Agent configuration
	AgentName    string
	AgentVersion string
	AgentURL     string

	// AnalysisAgentURL is where the retrieval agent forwards analysis
	// request tasks.
	AnalysisAgentURL string

	// Jira configuration
	JiraBaseURL           string
	JiraUsername          string
	JiraAPIToken          string
	PseudoCodeField       string
	SourceCodeField       string
	OriginalEstimateField string

	// Analysis configuration
	Language         string
	MaxHours         float64
	BufferPercentage float64
	HoursPerDay      float64
	AssignTo         string
	UpdateJira       bool

	// Authentication
	AuthType  string // "jwt" or "apikey"
	JWTSecret string
	APIKey    string

	// LLM configuration
	LLMEnabled     bool
	LLMProvider    string // "openai", "azure", "anthropic"
	LLMModel       string
	LLMAPIKey      string
	LLMServiceURL  string
	LLMMaxTokens   int
	LLMTimeout     int // in seconds
	LLMTemperature float64
}

var v = viper.New()

// init loads environment variables from .env file and binds them into
// the shared viper instance.
func init() {
	// Try to load from project root first
	err := godotenv.Load()
	if err != nil {
		// Try loading from parent directory (assuming we're in a subdirectory)
		err = godotenv.Load("../.env")
		if err != nil {
			// Try one more level up
			err = godotenv.Load("../../.env")
			if err != nil {
				log.Println("No .env file found or error loading it. Using environment variables or defaults.")
			} else {
				log.Println("Loaded configuration from ../../.env file")
			}
		} else {
			log.Println("Loaded configuration from ../.env file")
		}
	} else {
		log.Println("Loaded configuration from .env file")
	}

	v.AutomaticEnv()
	setDefaults(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("WEBHOOK_PORT", 0) // 0 means SERVER_PORT+3

	v.SetDefault("AGENT_NAME", "AnalysisAgent")
	v.SetDefault("AGENT_VERSION", "1.0.0")
	v.SetDefault("AGENT_URL", "http://localhost:8080")
	v.SetDefault("ANALYSIS_AGENT_URL", "http://localhost:8080")

	v.SetDefault("JIRA_BASE_URL", "https://your-jira-instance.atlassian.net")
	v.SetDefault("JIRA_USERNAME", "")
	v.SetDefault("JIRA_API_TOKEN", "")
	v.SetDefault("JIRA_PSEUDO_CODE_FIELD", "Pseudo Code")
	v.SetDefault("JIRA_SOURCE_CODE_FIELD", "Source Code")
	v.SetDefault("JIRA_ORIGINAL_ESTIMATE_FIELD", "")

	v.SetDefault("TARGET_LANGUAGE", analysis.DefaultLanguage)
	v.SetDefault("BUFFER_PERCENTAGE", analysis.DefaultBufferPercentage)
	v.SetDefault("HOURS_PER_DAY", analysis.DefaultHoursPerDay)
	v.SetDefault("ASSIGN_TO", "")
	v.SetDefault("UPDATE_JIRA", true)

	v.SetDefault("AUTH_TYPE", "apikey") // "jwt" or "apikey"
	v.SetDefault("JWT_SECRET", "your-jwt-secret")
	v.SetDefault("API_KEY", "your-api-key")

	v.SetDefault("LLM_ENABLED", false)
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_MODEL", "gpt-4")
	v.SetDefault("LLM_API_KEY", "")
	v.SetDefault("LLM_SERVICE_URL", "")
	v.SetDefault("LLM_MAX_TOKENS", 4000)
	v.SetDefault("LLM_TIMEOUT", 30)
	v.SetDefault("LLM_TEMPERATURE", 0.0)
}

// GetViper exposes the shared viper instance for callers that need raw
// access to configuration keys.
func GetViper() *viper.Viper {
	return v
}

// NewConfig creates a new configuration with values from environment variables
func NewConfig() *Config {
	hoursPerDay := v.GetFloat64("HOURS_PER_DAY")

	serverPort := v.GetInt("SERVER_PORT")
	webhookPort := v.GetInt("WEBHOOK_PORT")
	if webhookPort == 0 {
		webhookPort = serverPort + 3
	}

	return &Config{
		// Server configuration
		ServerPort:  serverPort,
		ServerHost:  v.GetString("SERVER_HOST"),
		WebhookPort: webhookPort,

		// Agent configuration
		AgentName:        v.GetString("AGENT_NAME"),
		AgentVersion:     v.GetString("AGENT_VERSION"),
		AgentURL:         v.GetString("AGENT_URL"),
		AnalysisAgentURL: v.GetString("ANALYSIS_AGENT_URL"),

		// Jira configuration
		JiraBaseURL:           v.GetString("JIRA_BASE_URL"),
		JiraUsername:          v.GetString("JIRA_USERNAME"),
		JiraAPIToken:          v.GetString("JIRA_API_TOKEN"),
		PseudoCodeField:       v.GetString("JIRA_PSEUDO_CODE_FIELD"),
		SourceCodeField:       v.GetString("JIRA_SOURCE_CODE_FIELD"),
		OriginalEstimateField: v.GetString("JIRA_ORIGINAL_ESTIMATE_FIELD"),

		// Analysis configuration
		Language:         v.GetString("TARGET_LANGUAGE"),
		MaxHours:         resolveMaxHours(v, hoursPerDay),
		BufferPercentage: v.GetFloat64("BUFFER_PERCENTAGE"),
		HoursPerDay:      hoursPerDay,
		AssignTo:         v.GetString("ASSIGN_TO"),
		UpdateJira:       v.GetBool("UPDATE_JIRA"),

		// Authentication
		AuthType:  v.GetString("AUTH_TYPE"),
		JWTSecret: v.GetString("JWT_SECRET"),
		APIKey:    v.GetString("API_KEY"),

		// LLM configuration
		LLMEnabled:     v.GetBool("LLM_ENABLED"),
		LLMProvider:    v.GetString("LLM_PROVIDER"),
		LLMModel:       v.GetString("LLM_MODEL"),
		LLMAPIKey:      v.GetString("LLM_API_KEY"),
		LLMServiceURL:  v.GetString("LLM_SERVICE_URL"),
		LLMMaxTokens:   v.GetInt("LLM_MAX_TOKENS"),
		LLMTimeout:     v.GetInt("LLM_TIMEOUT"),
		LLMTemperature: v.GetFloat64("LLM_TEMPERATURE"),
	}
}

// resolveMaxHours reads MAX_HOURS, honoring the legacy MAX_DAYS alias
// (days are converted using the configured working day length).
func resolveMaxHours(v *viper.Viper, hoursPerDay float64) float64 {
	if raw := v.GetString("MAX_HOURS"); raw != "" {
		if hours, err := strconv.ParseFloat(raw, 64); err == nil && hours > 0 {
			return hours
		}
		log.Printf("Ignoring invalid MAX_HOURS value %q", raw)
	}
	if raw := v.GetString("MAX_DAYS"); raw != "" {
		if days, err := strconv.ParseFloat(raw, 64); err == nil && days > 0 {
			return days * hoursPerDay
		}
		log.Printf("Ignoring invalid MAX_DAYS value %q", raw)
	}
	return analysis.DefaultMaxHours
}
