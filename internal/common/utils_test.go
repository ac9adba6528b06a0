package common

import (
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	text := "Here is the summary you asked for:\n{\"summary\": \"Throttle the retry loop\"}\nLet me know if you need more."

	extracted, err := ExtractJSON(text)
	if err != nil {
		t.Fatalf("Failed to extract JSON: %v", err)
	}
	if extracted != `{"summary": "Throttle the retry loop"}` {
		t.Errorf("Expected the embedded object, got %s", extracted)
	}
}

func TestExtractJSONNoMatch(t *testing.T) {
	if _, err := ExtractJSON("no structured content here"); err == nil {
		t.Error("Expected an error for text without JSON")
	}
}

func TestGetFloatValue(t *testing.T) {
	data := map[string]interface{}{
		"maxHours": 4.5,
		"buffer":   "20",
		"label":    "not a number",
	}

	if v, ok := GetFloatValue(data, "maxHours"); !ok || v != 4.5 {
		t.Errorf("Expected 4.5, got %v (ok=%v)", v, ok)
	}
	if v, ok := GetFloatValue(data, "missing", "buffer"); !ok || v != 20 {
		t.Errorf("Expected the string fallback to parse to 20, got %v (ok=%v)", v, ok)
	}
	if _, ok := GetFloatValue(data, "label"); ok {
		t.Error("Expected a non-numeric string to be rejected")
	}
}

func TestGetBoolValue(t *testing.T) {
	data := map[string]interface{}{
		"updateIssue": true,
		"assign":      "false",
	}

	if v, ok := GetBoolValue(data, "updateIssue"); !ok || !v {
		t.Errorf("Expected true, got %v (ok=%v)", v, ok)
	}
	if v, ok := GetBoolValue(data, "assign"); !ok || v {
		t.Errorf("Expected the string false to parse, got %v (ok=%v)", v, ok)
	}
	if _, ok := GetBoolValue(data, "missing"); ok {
		t.Error("Expected a missing key to report not found")
	}
}
