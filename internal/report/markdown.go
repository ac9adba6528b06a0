// Package report renders an analysis result into the textual payloads
// posted back to Jira: a plain-text pseudo-code field, a banner-framed
// source code field, an effort table comment, and a full Markdown
// report for files or chat surfaces.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tdnguyen/jira-planner/internal/models"
)

const bannerWidth = 80

// PseudoCodeField renders the pseudo-code outline as the plain-text
// payload for the Jira pseudo-code field.
func PseudoCodeField(p *models.PseudoCode) string {
	var out []string
	out = append(out, fmt.Sprintf("🔍 Pseudo Code (Complexity: %s)", p.Complexity), "")
	for _, section := range p.Sections {
		out = append(out, section.Title+":")
		out = append(out, section.Steps...)
		out = append(out, "")
	}
	if len(p.Notes) > 0 {
		out = append(out, "Notes:")
		for _, note := range p.Notes {
			out = append(out, "- "+note)
		}
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// SourceCodeField renders the generated skeletons as the payload for
// the Jira source-code field, framing each file in Jira code macros.
func SourceCodeField(s *models.SourceCode) string {
	heavy := strings.Repeat("=", bannerWidth)
	light := strings.Repeat("-", bannerWidth)

	var out []string
	out = append(out,
		heavy,
		fmt.Sprintf("💻 GENERATED SOURCE CODE (%s)", strings.ToUpper(s.Language)),
		heavy,
		"",
		fmt.Sprintf("📁 Total Files: %d", len(s.Files)),
		fmt.Sprintf("🔧 Language: %s", strings.ToUpper(s.Language)),
		"",
	)

	if len(s.Dependencies) > 0 {
		out = append(out, light, "📦 DEPENDENCIES", light)
		for _, dep := range s.Dependencies {
			out = append(out, "  • "+dep)
		}
		out = append(out, "")
	}

	out = append(out, light, "📂 SOURCE FILES", light, "")
	for i, file := range s.Files {
		out = append(out,
			"",
			heavy,
			fmt.Sprintf("FILE #%d: %s", i+1, file.Filename),
			heavy,
			"Description: "+file.Description,
			light,
			"",
			codeMacro(file.Language),
			file.Content,
			"{code}",
			"",
		)
	}

	if len(s.SetupInstructions) > 0 {
		out = append(out, light, "⚙️ SETUP INSTRUCTIONS", light)
		for i, instruction := range s.SetupInstructions {
			out = append(out, fmt.Sprintf("%d. %s", i+1, instruction))
		}
		out = append(out, "")
	}

	out = append(out, heavy, "✅ END OF SOURCE CODE", heavy)
	return strings.Join(out, "\n")
}

// codeMacro picks the Jira code macro for a file's language.
func codeMacro(language string) string {
	switch language {
	case "java":
		return "{code:java}"
	case "angular":
		return "{code:typescript}"
	default:
		return "{code}"
	}
}

// EffortComment renders the effort breakdown as the Markdown table
// posted as a Jira comment.
func EffortComment(b *models.TaskBreakdown) string {
	var out []string
	out = append(out,
		"📊 Effort Estimation",
		"",
		"| Task | Hours | Days | Complexity |",
		"|------|-------|------|------------|",
	)
	for _, task := range b.Tasks {
		out = append(out, fmt.Sprintf("| %s | %.2f | %.2f | %s |",
			task.TaskName, task.EstimatedHours, task.EstimatedDays, task.Complexity))
	}
	out = append(out,
		fmt.Sprintf("| TOTAL | %.2f | %.2f | |", b.TotalHours, b.TotalDays),
		fmt.Sprintf("| WITH BUFFER (%g%%) | %.2f | %.2f | |",
			b.BufferPercentage, b.BufferedHours(), b.TotalWithBuffer()),
	)
	return strings.Join(out, "\n")
}

// OriginalEstimateSeconds converts the breakdown into the value for
// Jira's original-estimate field: the average of the raw and buffered
// hour totals, in whole seconds.
func OriginalEstimateSeconds(b *models.TaskBreakdown) int {
	avgHours := (b.TotalHours + b.BufferedHours()) / 2
	return int(avgHours * 3600)
}

// Markdown renders the complete analysis report.
func Markdown(result *models.AnalysisResult) string {
	issue := result.Issue

	var out []string
	out = append(out, fmt.Sprintf("# Issue Analysis: %s", issue.ID))
	if issue.Title != "" {
		out = append(out, "", "**"+issue.Title+"**")
	}
	out = append(out, "",
		fmt.Sprintf("- Type: %s", orDash(issue.IssueType)),
		fmt.Sprintf("- Priority: %s", orDash(issue.Priority)),
		fmt.Sprintf("- Complexity: %s", result.PseudoCode.Complexity),
		"")

	out = append(out, "## Pseudo Code", "")
	for _, section := range result.PseudoCode.Sections {
		out = append(out, "### "+section.Title, "", "```text")
		out = append(out, section.Steps...)
		out = append(out, "```", "")
	}
	if len(result.PseudoCode.Notes) > 0 {
		out = append(out, "### Notes", "")
		for _, note := range result.PseudoCode.Notes {
			out = append(out, "- "+note)
		}
		out = append(out, "")
	}

	out = append(out, "## Generated Source Files", "")
	for _, file := range result.SourceCode.Files {
		out = append(out, fmt.Sprintf("### %s", file.Filename), "", file.Description, "",
			"```"+markdownFence(file.Language))
		out = append(out, file.Content)
		out = append(out, "```", "")
	}
	if len(result.SourceCode.Dependencies) > 0 {
		out = append(out, "### Dependencies", "")
		for _, dep := range result.SourceCode.Dependencies {
			out = append(out, "- "+dep)
		}
		out = append(out, "")
	}
	if len(result.SourceCode.SetupInstructions) > 0 {
		out = append(out, "### Setup", "")
		for i, instruction := range result.SourceCode.SetupInstructions {
			out = append(out, fmt.Sprintf("%d. %s", i+1, instruction))
		}
		out = append(out, "")
	}

	out = append(out, "## Effort Estimate", "",
		"| Task | Hours | Days | Complexity |",
		"|------|-------|------|------------|")
	for _, task := range result.Effort.Tasks {
		out = append(out, fmt.Sprintf("| %s | %.2f | %.2f | %s |",
			task.TaskName, task.EstimatedHours, task.EstimatedDays, task.Complexity))
	}
	out = append(out,
		fmt.Sprintf("| TOTAL | %.2f | %.2f | |", result.Effort.TotalHours, result.Effort.TotalDays),
		fmt.Sprintf("| WITH BUFFER (%g%%) | %.2f | %.2f | |",
			result.Effort.BufferPercentage, result.Effort.BufferedHours(), result.Effort.TotalWithBuffer()),
		"")

	if len(result.Recommendations) > 0 {
		out = append(out, "## Recommendations", "")
		for _, rec := range result.Recommendations {
			out = append(out, "- "+rec)
		}
		out = append(out, "")
	}

	return strings.Join(out, "\n")
}

// JSON renders the result as indented JSON for machine consumers.
func JSON(result *models.AnalysisResult) (string, error) {
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis result: %w", err)
	}
	return string(raw), nil
}

// markdownFence maps a file language to a Markdown fence tag.
func markdownFence(language string) string {
	switch language {
	case "angular":
		return "typescript"
	default:
		return language
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
