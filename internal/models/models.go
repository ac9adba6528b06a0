package models

// ComplexityLevel classifies an issue as Simple, Moderate, or Complex.
// The three levels are totally ordered: Simple < Moderate < Complex.
type ComplexityLevel string

const (
	ComplexitySimple   ComplexityLevel = "Simple"
	ComplexityModerate ComplexityLevel = "Moderate"
	ComplexityComplex  ComplexityLevel = "Complex"
)

// Rank returns the position of the level in the Simple < Moderate < Complex
// order. Unknown values rank below Simple.
func (c ComplexityLevel) Rank() int {
	switch c {
	case ComplexitySimple:
		return 1
	case ComplexityModerate:
		return 2
	case ComplexityComplex:
		return 3
	default:
		return 0
	}
}

// Issue is the normalized work item handed to the analysis engine.
// It is built by the Jira client (or an empty placeholder on fetch
// failure) and consumed read-only.
type Issue struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	IssueType   string   `json:"issueType"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
	Reporter    string   `json:"reporter,omitempty"`
}

// PseudoCodeSection is one titled group of algorithm steps.
type PseudoCodeSection struct {
	Title string   `json:"title"`
	Steps []string `json:"steps"`
}

// PseudoCode is the generated algorithm outline for an issue: an ordered
// list of sections forming one BEGIN..END block, the complexity the
// generator worked at, and free-form notes for the implementer.
type PseudoCode struct {
	Sections   []PseudoCodeSection `json:"sections"`
	Complexity ComplexityLevel     `json:"complexity"`
	Notes      []string            `json:"notes,omitempty"`
}

// SourceFile is a single generated skeleton file.
type SourceFile struct {
	Filename    string `json:"filename"`
	Language    string `json:"language"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

// SourceCode bundles the skeleton files for one language (or the
// concatenation of two languages in fullstack mode) together with the
// conventional dependencies and setup steps for that stack.
type SourceCode struct {
	Language          string       `json:"language"`
	Files             []SourceFile `json:"files"`
	Dependencies      []string     `json:"dependencies,omitempty"`
	SetupInstructions []string     `json:"setupInstructions,omitempty"`
}

// EffortTask is one line of the effort breakdown.
type EffortTask struct {
	TaskName       string          `json:"taskName"`
	Complexity     ComplexityLevel `json:"complexity"`
	EstimatedHours float64         `json:"estimatedHours"`
	EstimatedDays  float64         `json:"estimatedDays"`
	Assumptions    []string        `json:"assumptions,omitempty"`
	RiskFactors    []string        `json:"riskFactors,omitempty"`
}

// TaskBreakdown is the full effort estimate for an issue. TotalHours is
// always the sum of the tasks' EstimatedHours; hours are stored
// unrounded so that invariant holds exactly, renderers round for
// display.
type TaskBreakdown struct {
	Tasks            []EffortTask `json:"tasks"`
	TotalHours       float64      `json:"totalHours"`
	TotalDays        float64      `json:"totalDays"`
	BufferPercentage float64      `json:"bufferPercentage"`
}

// TotalWithBuffer returns the day estimate with the contingency buffer
// applied.
func (b TaskBreakdown) TotalWithBuffer() float64 {
	return b.TotalDays * (1 + b.BufferPercentage/100)
}

// BufferedHours returns the hour estimate with the contingency buffer
// applied.
func (b TaskBreakdown) BufferedHours() float64 {
	return b.TotalHours * (1 + b.BufferPercentage/100)
}

// AnalysisResult is the complete output of one analysis run. Each run
// produces a fresh value; nothing is shared between runs.
type AnalysisResult struct {
	Issue           Issue          `json:"issue"`
	PseudoCode      *PseudoCode    `json:"pseudoCode"`
	SourceCode      *SourceCode    `json:"sourceCode"`
	Effort          *TaskBreakdown `json:"effort"`
	Recommendations []string       `json:"recommendations,omitempty"`
}

// JiraComment represents a comment posted to Jira.
type JiraComment struct {
	ID      string `json:"id"`
	Body    string `json:"body"`
	Created string `json:"created"`
	Author  string `json:"author,omitempty"`
	URL     string `json:"url,omitempty"`
}
