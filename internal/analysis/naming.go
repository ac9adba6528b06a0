package analysis

import (
	"strings"
	"unicode"
)

// defaultStopWords are title tokens that carry no naming information:
// articles, prepositions, auxiliaries, and the generic verbs that open
// most ticket titles.
var defaultStopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "should": {},
	"could": {}, "may": {}, "might": {}, "must": {}, "can": {}, "to": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "by": {}, "for": {}, "with": {},
	"from": {}, "as": {}, "into": {}, "through": {}, "during": {},
	"before": {}, "after": {}, "above": {}, "below": {}, "between": {},
	"under": {}, "again": {}, "further": {}, "then": {}, "once": {},
	"here": {}, "there": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"all": {}, "both": {}, "each": {}, "few": {}, "more": {}, "most": {},
	"other": {}, "some": {}, "such": {}, "no": {}, "nor": {}, "not": {},
	"only": {}, "own": {}, "same": {}, "so": {}, "than": {}, "too": {},
	"very": {}, "write": {}, "create": {}, "update": {}, "delete": {},
	"add": {}, "remove": {}, "get": {}, "fetch": {}, "make": {}, "new": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "mention": {},
}

// fallbackIdentifier is used when the title has no tokens at all.
const fallbackIdentifier = "Generated"

// maxIdentifierTokens caps how many title tokens make it into a name.
const maxIdentifierTokens = 3

// IdentifierDeriver turns free ticket text into a short PascalCase
// identifier used to label generated classes and files.
type IdentifierDeriver struct {
	stopWords map[string]struct{}
}

// NewIdentifierDeriver returns a deriver with the default stop-word
// table, extended with any extra stop words the caller wants filtered.
func NewIdentifierDeriver(extraStopWords ...string) *IdentifierDeriver {
	words := make(map[string]struct{}, len(defaultStopWords)+len(extraStopWords))
	for w := range defaultStopWords {
		words[w] = struct{}{}
	}
	for _, w := range extraStopWords {
		words[strings.ToLower(w)] = struct{}{}
	}
	return &IdentifierDeriver{stopWords: words}
}

// Derive builds the identifier for a title. The title is split on every
// non-alphanumeric rune (underscores included) and lowercased; tokens in
// the stop-word table or shorter than three characters are dropped; the
// first three survivors are capitalized and joined. When no token
// survives the filter the first three raw tokens are used instead, and
// an empty title yields "Generated". The same title always produces the
// same identifier.
func (d *IdentifierDeriver) Derive(title string) string {
	tokens := tokenize(title)
	if len(tokens) == 0 {
		return fallbackIdentifier
	}

	var kept []string
	for _, tok := range tokens {
		if len(kept) == maxIdentifierTokens {
			break
		}
		if _, skip := d.stopWords[tok]; skip || len(tok) <= 2 {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 {
		kept = tokens
		if len(kept) > maxIdentifierTokens {
			kept = kept[:maxIdentifierTokens]
		}
	}

	var b strings.Builder
	for _, tok := range kept {
		b.WriteString(capitalizeToken(tok))
	}
	return b.String()
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, strings.ToLower(f))
	}
	return tokens
}

func capitalizeToken(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return string(unicode.ToUpper(runes[0])) + string(runes[1:])
}
