package analysis

import (
	"testing"
	"unicode"
)

func TestDeriveIdentifier(t *testing.T) {
	deriver := NewIdentifierDeriver()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "stop words and short tokens dropped",
			title: "Write a wrapper for below mention api in s_digitcare",
			want:  "WrapperApiDigitcare",
		},
		{
			name:  "first three survivors win",
			title: "Implement custom payment reconciliation dashboard widget",
			want:  "ImplementCustomPayment",
		},
		{
			name:  "digits survive tokenization",
			title: "Fix error 404 on profile page",
			want:  "FixError404",
		},
		{
			name:  "mixed case is normalized",
			title: "UPDATE User ACCESS Roles",
			want:  "UserAccessRoles",
		},
		{
			name:  "all stop words fall back to raw tokens",
			title: "To do it",
			want:  "ToDoIt",
		},
		{
			name:  "empty title",
			title: "",
			want:  "Generated",
		},
		{
			name:  "punctuation only",
			title: "!!! --- ???",
			want:  "Generated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriver.Derive(tt.title)
			if got != tt.want {
				t.Errorf("Expected identifier %q for title %q, got %q", tt.want, tt.title, got)
			}
		})
	}
}

func TestDeriveIdentifierIdempotent(t *testing.T) {
	deriver := NewIdentifierDeriver()
	titles := []string{
		"Write a wrapper for below mention api in s_digitcare",
		"Add retry logic to the export job",
		"",
		"   spaced    out    title   ",
	}

	for _, title := range titles {
		first := deriver.Derive(title)
		second := deriver.Derive(title)
		if first != second {
			t.Errorf("Expected stable output for %q, got %q then %q", title, first, second)
		}
		for _, r := range first {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				t.Errorf("Expected only letters and digits in %q, found %q", first, r)
			}
		}
	}
}

func TestDeriveIdentifierExtraStopWords(t *testing.T) {
	deriver := NewIdentifierDeriver("wrapper", "Widget")

	got := deriver.Derive("Write a wrapper widget for the export api")
	if got != "ExportApi" {
		t.Errorf("Expected extra stop words to be filtered, got %q", got)
	}
}
