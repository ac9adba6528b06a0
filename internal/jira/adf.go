package jira

import (
	"strings"
)

// ADFNode is a node in an Atlassian Document Format tree. The same shape
// serves documents, paragraphs, code blocks, and text leaves; unused
// fields are omitted from the JSON.
type ADFNode struct {
	Type    string                 `json:"type"`
	Version int                    `json:"version,omitempty"`
	Text    string                 `json:"text,omitempty"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Content []ADFNode              `json:"content,omitempty"`
}

// TextToADF builds an ADF document from plain text. Blank lines separate
// paragraphs, lines inside a paragraph become hard breaks, and regions
// wrapped in {code:lang} / {code} macros become code blocks so generated
// sources keep their highlighting when posted through the v3 API.
func TextToADF(text string) ADFNode {
	doc := ADFNode{Type: "doc", Version: 1}

	var paragraph []ADFNode
	flush := func() {
		if len(paragraph) > 0 {
			doc.Content = append(doc.Content, ADFNode{Type: "paragraph", Content: paragraph})
			paragraph = nil
		}
	}

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if lang, ok := codeMacro(line); ok {
			flush()
			var code []string
			for i++; i < len(lines); i++ {
				if _, closing := codeMacro(lines[i]); closing {
					break
				}
				code = append(code, lines[i])
			}
			block := ADFNode{
				Type:    "codeBlock",
				Content: []ADFNode{{Type: "text", Text: strings.Join(code, "\n")}},
			}
			if lang != "" {
				block.Attrs = map[string]interface{}{"language": lang}
			}
			doc.Content = append(doc.Content, block)
			continue
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if len(paragraph) > 0 {
			paragraph = append(paragraph, ADFNode{Type: "hardBreak"})
		}
		paragraph = append(paragraph, ADFNode{Type: "text", Text: line})
	}
	flush()

	// Jira rejects documents with no content.
	if len(doc.Content) == 0 {
		doc.Content = []ADFNode{{Type: "paragraph", Content: []ADFNode{{Type: "text", Text: " "}}}}
	}
	return doc
}

// codeMacro reports whether line is a {code} or {code:lang} macro and
// returns the language when one is given.
func codeMacro(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{code") || !strings.HasSuffix(trimmed, "}") {
		return "", false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "{code"), "}")
	if inner == "" {
		return "", true
	}
	if strings.HasPrefix(inner, ":") {
		return strings.TrimPrefix(inner, ":"), true
	}
	return "", false
}

// ADFToText flattens a decoded ADF value (as produced by json.Unmarshal
// into interface{}) back into plain text. Block nodes end with a newline,
// hard breaks become newlines, and everything else is walked recursively.
// Plain strings pass through so callers can hand it either representation.
func ADFToText(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	var sb strings.Builder
	walkADF(v, &sb)
	return strings.TrimRight(sb.String(), "\n")
}

func walkADF(v interface{}, sb *strings.Builder) {
	node, ok := v.(map[string]interface{})
	if !ok {
		return
	}
	switch node["type"] {
	case "text":
		if s, ok := node["text"].(string); ok {
			sb.WriteString(s)
		}
		return
	case "hardBreak":
		sb.WriteString("\n")
		return
	}

	content, _ := node["content"].([]interface{})
	for _, child := range content {
		walkADF(child, sb)
	}

	switch node["type"] {
	case "paragraph", "heading", "codeBlock", "blockquote", "listItem":
		sb.WriteString("\n")
	}
}
