package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tdnguyen/jira-planner/internal/models"
)

// GenContext carries the per-issue inputs a template bundle needs to
// phrase its output.
type GenContext struct {
	Issue    models.Issue
	Name     string // identifier derived from the title
	Keywords KeywordFlags
	Level    models.ComplexityLevel
}

// LayerTemplate describes one skeleton file a language emits.
type LayerTemplate struct {
	Layer       string
	Extension   string
	Description string
	Render      func(name string) string
}

// TemplateBundle is everything the generators know about one target
// language: skeleton layers, conventional dependencies, setup steps,
// pseudo-code phrasing, and the surcharge its implementation work
// carries in the effort model.
type TemplateBundle struct {
	Tag           string
	Display       string
	Frontend      bool
	ImplSurcharge float64
	Dependencies  []string
	SetupSteps    []string
	Layers        []LayerTemplate
	Sections      func(ctx GenContext) []models.PseudoCodeSection
	Notes         func(ctx GenContext) []string
}

// BlockHeading labels this language's block when two languages are
// combined in one analysis.
func (b *TemplateBundle) BlockHeading() string {
	if b.Frontend {
		return fmt.Sprintf("Frontend Implementation (%s)", b.Display)
	}
	return fmt.Sprintf("Backend Implementation (%s)", b.Display)
}

// FullstackTag requests the combined backend plus frontend analysis.
const FullstackTag = "fullstack"

// Registry maps language tags and their aliases to template bundles.
// It is populated at construction and read-only afterwards, so lookups
// are safe from concurrent goroutines.
type Registry struct {
	bundles map[string]*TemplateBundle
	aliases map[string]string
}

// NewRegistry returns a registry holding the built-in java and angular
// bundles plus the aliases the issue tracker configuration uses
// (BE resolves to java, UI to angular).
func NewRegistry() *Registry {
	r := &Registry{
		bundles: make(map[string]*TemplateBundle),
		aliases: make(map[string]string),
	}
	r.Register(javaBundle(), "be", "backend")
	r.Register(angularBundle(), "ui", "fe", "frontend")
	return r
}

// Register adds a bundle under its canonical tag plus any aliases.
func (r *Registry) Register(b *TemplateBundle, aliases ...string) {
	r.bundles[b.Tag] = b
	for _, alias := range aliases {
		r.aliases[strings.ToLower(alias)] = b.Tag
	}
}

// Resolve looks up a single language tag, case-insensitively and via
// aliases. An unknown tag yields an UnsupportedLanguageError naming the
// available tags rather than a silent fallback.
func (r *Registry) Resolve(tag string) (*TemplateBundle, error) {
	key := strings.ToLower(strings.TrimSpace(tag))
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	if b, ok := r.bundles[key]; ok {
		return b, nil
	}
	return nil, &UnsupportedLanguageError{Language: tag, Supported: r.Supported()}
}

// ResolveSet resolves a language tag into the ordered bundle list an
// analysis runs over. The fullstack tag expands to the backend bundle
// followed by the frontend bundle; every other tag resolves to one
// bundle.
func (r *Registry) ResolveSet(tag string) ([]*TemplateBundle, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case FullstackTag, "full", "both":
		be, err := r.Resolve("java")
		if err != nil {
			return nil, err
		}
		fe, err := r.Resolve("angular")
		if err != nil {
			return nil, err
		}
		return []*TemplateBundle{be, fe}, nil
	}
	b, err := r.Resolve(tag)
	if err != nil {
		return nil, err
	}
	return []*TemplateBundle{b}, nil
}

// Supported returns the canonical tags in sorted order.
func (r *Registry) Supported() []string {
	tags := make([]string, 0, len(r.bundles))
	for tag := range r.bundles {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
