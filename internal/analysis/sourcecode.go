package analysis

import (
	"fmt"

	"github.com/tdnguyen/jira-planner/internal/models"
)

// setupSeparator divides per-language setup blocks in a combined analysis.
const setupSeparator = "---"

// SourceFileGenerator renders skeleton source files for an issue in a
// target language. The skeletons are starting points for the engineer,
// named after the identifier derived from the issue title.
type SourceFileGenerator struct {
	registry *Registry
	deriver  *IdentifierDeriver
}

// NewSourceFileGenerator creates a generator backed by the given
// language registry and identifier deriver.
func NewSourceFileGenerator(reg *Registry, deriver *IdentifierDeriver) *SourceFileGenerator {
	return &SourceFileGenerator{registry: reg, deriver: deriver}
}

// Generate produces the skeleton files for the requested language. The
// pseudo-code outline is accepted so callers can hand over the full
// analysis context; the current templates derive everything they need
// from the issue itself. For the combined fullstack target the result
// concatenates both language blocks in backend-then-frontend order.
func (g *SourceFileGenerator) Generate(issue models.Issue, pseudo *models.PseudoCode, language string) (*models.SourceCode, error) {
	_ = pseudo

	bundles, err := g.registry.ResolveSet(language)
	if err != nil {
		return nil, err
	}
	name := g.deriver.Derive(issue.Title)

	if len(bundles) == 1 {
		b := bundles[0]
		return &models.SourceCode{
			Language:          b.Tag,
			Files:             renderLayers(b, name),
			Dependencies:      append([]string(nil), b.Dependencies...),
			SetupInstructions: append([]string(nil), b.SetupSteps...),
		}, nil
	}

	combined := &models.SourceCode{Language: FullstackTag}
	for i, b := range bundles {
		combined.Files = append(combined.Files, renderLayers(b, name)...)
		combined.Dependencies = append(combined.Dependencies, b.Dependencies...)
		if i > 0 {
			combined.SetupInstructions = append(combined.SetupInstructions, setupSeparator)
		}
		combined.SetupInstructions = append(combined.SetupInstructions, b.SetupSteps...)
	}
	return combined, nil
}

func renderLayers(b *TemplateBundle, name string) []models.SourceFile {
	files := make([]models.SourceFile, 0, len(b.Layers))
	for _, layer := range b.Layers {
		files = append(files, models.SourceFile{
			Filename:    fmt.Sprintf("%s%s.%s", name, layer.Layer, layer.Extension),
			Language:    b.Tag,
			Content:     layer.Render(name),
			Description: layer.Description,
		})
	}
	return files
}
