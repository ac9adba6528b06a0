package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/tdnguyen/jira-planner/internal/models"
)

func newTestSourceGenerator() *SourceFileGenerator {
	return NewSourceFileGenerator(NewRegistry(), NewIdentifierDeriver())
}

func TestGenerateJavaSourceFiles(t *testing.T) {
	gen := newTestSourceGenerator()

	issue := models.Issue{
		Title:       "Write a wrapper for below mention api in s_digitcare",
		Description: "Wrap the upstream API behind our own endpoint.",
	}

	code, err := gen.Generate(issue, nil, "java")
	if err != nil {
		t.Fatalf("Failed to generate source files: %v", err)
	}

	if code.Language != "java" {
		t.Errorf("Expected language java, got %q", code.Language)
	}

	wantFiles := []string{
		"WrapperApiDigitcareController.java",
		"WrapperApiDigitcareService.java",
		"WrapperApiDigitcareRepository.java",
		"WrapperApiDigitcareDTO.java",
		"WrapperApiDigitcareEntity.java",
	}
	if len(code.Files) != len(wantFiles) {
		t.Fatalf("Expected %d files, got %d", len(wantFiles), len(code.Files))
	}
	for i, want := range wantFiles {
		if code.Files[i].Filename != want {
			t.Errorf("Expected file %d to be %q, got %q", i, want, code.Files[i].Filename)
		}
		if code.Files[i].Language != "java" {
			t.Errorf("Expected file %q to be tagged java, got %q", want, code.Files[i].Language)
		}
	}

	if !strings.Contains(code.Files[0].Content, "class WrapperApiDigitcareController") {
		t.Error("Expected the controller skeleton to declare the derived class name")
	}
	if !strings.Contains(code.Files[4].Content, "@Entity") {
		t.Error("Expected the entity skeleton to carry the JPA annotation")
	}

	joinedDeps := strings.Join(code.Dependencies, " ")
	if !strings.Contains(joinedDeps, "spring-boot-starter-web") {
		t.Errorf("Expected Spring Boot dependencies, got %v", code.Dependencies)
	}
	if len(code.SetupInstructions) == 0 || !strings.Contains(code.SetupInstructions[0], "pom.xml") {
		t.Errorf("Expected Maven setup instructions, got %v", code.SetupInstructions)
	}
}

func TestGenerateAngularSourceFiles(t *testing.T) {
	gen := newTestSourceGenerator()

	issue := models.Issue{
		Title:       "Write a wrapper for below mention api in s_digitcare",
		Description: "Wrap the upstream API behind a small screen.",
	}

	code, err := gen.Generate(issue, nil, "ui")
	if err != nil {
		t.Fatalf("Failed to generate source files: %v", err)
	}

	if code.Language != "angular" {
		t.Errorf("Expected the ui alias to resolve to angular, got %q", code.Language)
	}

	wantFiles := []string{
		"WrapperApiDigitcareComponent.ts",
		"WrapperApiDigitcareTemplate.html",
		"WrapperApiDigitcareStyles.scss",
		"WrapperApiDigitcareService.ts",
		"WrapperApiDigitcareModel.ts",
	}
	if len(code.Files) != len(wantFiles) {
		t.Fatalf("Expected %d files, got %d", len(wantFiles), len(code.Files))
	}
	for i, want := range wantFiles {
		if code.Files[i].Filename != want {
			t.Errorf("Expected file %d to be %q, got %q", i, want, code.Files[i].Filename)
		}
	}

	if !strings.Contains(code.Files[0].Content, "selector: 'app-wrapper-api-digitcare'") {
		t.Error("Expected the component selector to use the kebab-case identifier")
	}
	if !strings.Contains(strings.Join(code.Dependencies, " "), "@angular/core") {
		t.Errorf("Expected Angular dependencies, got %v", code.Dependencies)
	}
}

func TestGenerateFullstackSourceFiles(t *testing.T) {
	gen := newTestSourceGenerator()

	issue := models.Issue{
		Title:       "Create region totals dashboard",
		Description: "Backend endpoint plus a screen that lists totals.",
	}

	code, err := gen.Generate(issue, nil, "fullstack")
	if err != nil {
		t.Fatalf("Failed to generate source files: %v", err)
	}

	if code.Language != FullstackTag {
		t.Errorf("Expected language %q, got %q", FullstackTag, code.Language)
	}
	if len(code.Files) != 10 {
		t.Fatalf("Expected 10 files for the combined target, got %d", len(code.Files))
	}
	if code.Files[0].Language != "java" || code.Files[9].Language != "angular" {
		t.Errorf("Expected backend files before frontend files, got %q first and %q last",
			code.Files[0].Language, code.Files[9].Language)
	}

	if len(code.Dependencies) != 10 {
		t.Errorf("Expected both dependency lists concatenated, got %v", code.Dependencies)
	}

	if len(code.SetupInstructions) != 11 {
		t.Fatalf("Expected 11 setup lines including the separator, got %d", len(code.SetupInstructions))
	}
	if code.SetupInstructions[5] != setupSeparator {
		t.Errorf("Expected the language blocks separated by %q, got %q", setupSeparator, code.SetupInstructions[5])
	}
}

func TestGenerateSourceFilesUnknownLanguage(t *testing.T) {
	gen := newTestSourceGenerator()

	code, err := gen.Generate(models.Issue{Title: "Anything"}, nil, "python")
	if code != nil {
		t.Errorf("Expected no source code for an unknown language, got %+v", code)
	}

	var unsupported *UnsupportedLanguageError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Expected UnsupportedLanguageError, got %v", err)
	}
}
