package analysis

import (
	"strings"

	"github.com/tdnguyen/jira-planner/internal/models"
)

// Section titles, in output order. Every language emits exactly these
// five sections; the first opens the BEGIN..END block and the last
// closes it.
const (
	SectionInputValidation = "Input Validation"
	SectionMainLogic       = "Main Logic Flow"
	SectionSuccess         = "Success Handling"
	SectionErrorHandling   = "Error Handling"
	SectionCleanup         = "Resource Cleanup"
)

// KeywordFlags captures which requirement vocabularies appear in an
// issue's text. They switch optional pseudo-code steps on.
type KeywordFlags struct {
	CRUD       bool
	Validation bool
	API        bool
	Database   bool
	Auth       bool
}

var (
	crudTerms       = []string{"create", "update", "delete", "fetch", "get", "list", "save"}
	validationTerms = []string{"validate", "check", "verify", "required", "mandatory"}
	apiTerms        = []string{"api", "endpoint", "service", "rest", "http"}
	databaseTerms   = []string{"database", "table", "repository", "store", "persist", "query"}
	authTerms       = []string{"auth", "login", "permission", "access", "role", "user"}
)

// DetectKeywords scans the issue text for the requirement vocabularies.
// CRUD verbs count in either the title or the description, the rest in
// the description only.
func DetectKeywords(issue models.Issue) KeywordFlags {
	title := strings.ToLower(issue.Title)
	desc := strings.ToLower(issue.Description)
	both := title + " " + desc
	return KeywordFlags{
		CRUD:       containsAny(both, crudTerms),
		Validation: containsAny(desc, validationTerms),
		API:        containsAny(desc, apiTerms),
		Database:   containsAny(desc, databaseTerms),
		Auth:       containsAny(desc, authTerms),
	}
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// PseudoCodeGenerator emits the algorithm outline for an issue in a
// target language.
type PseudoCodeGenerator struct {
	registry   *Registry
	deriver    *IdentifierDeriver
	classifier *Classifier
}

// NewPseudoCodeGenerator wires a generator over the given registry,
// deriver, and classifier.
func NewPseudoCodeGenerator(reg *Registry, deriver *IdentifierDeriver, classifier *Classifier) *PseudoCodeGenerator {
	return &PseudoCodeGenerator{registry: reg, deriver: deriver, classifier: classifier}
}

// Generate produces the five-section outline for one language, or the
// concatenation of both languages' outlines under language-labeled
// headings when the fullstack tag is requested. The output is fully
// determined by the issue text and the language tag; calling twice with
// the same inputs yields identical results.
func (g *PseudoCodeGenerator) Generate(issue models.Issue, language string) (*models.PseudoCode, error) {
	bundles, err := g.registry.ResolveSet(language)
	if err != nil {
		return nil, err
	}

	ctx := GenContext{
		Issue:    issue,
		Name:     g.deriver.Derive(issue.Title),
		Keywords: DetectKeywords(issue),
		Level:    g.classifier.Classify(issue),
	}

	if len(bundles) == 1 {
		b := bundles[0]
		return &models.PseudoCode{
			Sections:   b.Sections(ctx),
			Complexity: ctx.Level,
			Notes:      b.Notes(ctx),
		}, nil
	}

	var sections []models.PseudoCodeSection
	var notes []string
	for _, b := range bundles {
		heading := b.BlockHeading()
		for _, section := range b.Sections(ctx) {
			sections = append(sections, models.PseudoCodeSection{
				Title: heading + ": " + section.Title,
				Steps: section.Steps,
			})
		}
		notes = append(notes, b.Notes(ctx)...)
	}
	return &models.PseudoCode{
		Sections:   sections,
		Complexity: ctx.Level,
		Notes:      notes,
	}, nil
}
