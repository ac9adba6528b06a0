package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/tdnguyen/jira-planner/internal/agents"
	"github.com/tdnguyen/jira-planner/internal/config"
	"github.com/tdnguyen/jira-planner/internal/models"
)

var (
	issueKey string
	language string
	maxHours float64
	assignTo string
	update   bool
	outFile  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jiraplanner",
	Short: "Analyze Jira issues and estimate development effort",
	Long: `jiraplanner turns a Jira issue into pseudo code, source file stubs,
and a task-level effort estimate.

Run 'jiraplanner analyze' for a one-shot analysis of a single issue, or
'jiraplanner serve' to expose the analysis engine as an A2A agent.`,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [issue-key]",
	Short: "Analyze a single issue and print the report",
	Long: `Analyze fetches the issue, derives pseudo code and source stubs for the
target language, estimates effort per task, and prints a Markdown report.

When --issue is omitted and no argument is given, the command prompts for
the issue key, language, and hour constraint interactively.

Examples:
  jiraplanner analyze PROJ-123
  jiraplanner analyze --issue PROJ-123 --language angular --max-hours 6
  jiraplanner analyze PROJ-123 --update --out PROJ-123.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis engine as an A2A server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)

	analyzeCmd.Flags().StringVarP(&issueKey, "issue", "i", "", "Jira issue key (e.g. PROJ-123)")
	analyzeCmd.Flags().StringVarP(&language, "language", "l", "", "target language: java, angular, or fullstack")
	analyzeCmd.Flags().Float64Var(&maxHours, "max-hours", 0, "maximum total hours for the estimate")
	analyzeCmd.Flags().StringVar(&assignTo, "assign-to", "", "assign the issue to this user after analysis")
	analyzeCmd.Flags().BoolVarP(&update, "update", "u", false, "write results back to the Jira issue")
	analyzeCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the report to a file instead of stdout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()

	if issueKey == "" && len(args) > 0 {
		issueKey = args[0]
	}

	// No issue key from flags or args means interactive mode.
	if issueKey == "" {
		if err := promptForInput(cfg); err != nil {
			if err == promptui.ErrInterrupt {
				return fmt.Errorf("cancelled by user")
			}
			return err
		}
	}

	task := &models.AnalysisRequestTask{
		TicketID:    strings.TrimSpace(issueKey),
		Language:    language,
		MaxHours:    maxHours,
		AssignTo:    assignTo,
		UpdateIssue: update,
	}

	agent := agents.NewAnalysisAgent(cfg)
	completed, err := agent.AnalyzeAndReport(cmd.Context(), task)
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, []byte(completed.Report+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("Report written to %s\n", outFile)
	} else {
		fmt.Println(completed.Report)
	}

	fmt.Printf("\n%s: %s complexity, %.2f hours (%.2f days)\n",
		completed.TicketID, completed.Complexity, completed.TotalHours, completed.TotalDays)
	if completed.CommentURL != "" {
		fmt.Printf("Effort comment: %s\n", completed.CommentURL)
	}
	return nil
}

// promptForInput collects the issue key, language, and hour constraint
// interactively. The update flag is only asked about when Jira
// credentials are configured.
func promptForInput(cfg *config.Config) error {
	keyPrompt := promptui.Prompt{
		Label: "Jira issue key",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("issue key cannot be empty")
			}
			return nil
		},
	}
	key, err := keyPrompt.Run()
	if err != nil {
		return err
	}
	issueKey = key

	if language == "" {
		langSelect := promptui.Select{
			Label: "Target language",
			Items: []string{"java", "angular", "fullstack"},
		}
		_, choice, err := langSelect.Run()
		if err != nil {
			return err
		}
		language = choice
	}

	if maxHours <= 0 {
		hoursPrompt := promptui.Prompt{
			Label:   "Max hours per estimate",
			Default: strconv.FormatFloat(cfg.MaxHours, 'f', -1, 64),
			Validate: func(input string) error {
				v, err := strconv.ParseFloat(input, 64)
				if err != nil || v <= 0 {
					return fmt.Errorf("enter a positive number")
				}
				return nil
			},
		}
		raw, err := hoursPrompt.Run()
		if err != nil {
			return err
		}
		maxHours, _ = strconv.ParseFloat(raw, 64)
	}

	if !update && cfg.JiraUsername != "" && cfg.JiraAPIToken != "" {
		confirmPrompt := promptui.Prompt{
			Label:     "Write results back to Jira",
			IsConfirm: true,
		}
		_, err := confirmPrompt.Run()
		if err != nil && err != promptui.ErrAbort {
			return err
		}
		update = (err == nil)
	}

	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	cfg.AgentName = config.AnalysisAgentName
	cfg.AgentURL = fmt.Sprintf("http://%s:%d", cfg.ServerHost, cfg.ServerPort)

	agent := agents.NewAnalysisAgent(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting AnalysisAgent server on %s:%d\n", cfg.ServerHost, cfg.ServerPort)
	return agent.StartServer(ctx)
}
