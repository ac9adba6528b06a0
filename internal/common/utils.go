package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
)

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// BoolPtr returns a pointer to the given bool
func BoolPtr(b bool) *bool {
	return &b
}

// ExtractJSON extracts JSON content from a text string
// It looks for content between { and } or [ and ] brackets
func ExtractJSON(text string) (string, error) {
	// Try to find JSON object
	objRegex := regexp.MustCompile(`(?s)\{.*\}`)
	objMatch := objRegex.FindString(text)
	if objMatch != "" {
		// Validate it's valid JSON
		var obj interface{}
		if err := json.Unmarshal([]byte(objMatch), &obj); err == nil {
			return objMatch, nil
		}
	}

	// Try to find JSON array
	arrRegex := regexp.MustCompile(`(?s)\[.*\]`)
	arrMatch := arrRegex.FindString(text)
	if arrMatch != "" {
		// Validate it's valid JSON
		var arr interface{}
		if err := json.Unmarshal([]byte(arrMatch), &arr); err == nil {
			return arrMatch, nil
		}
	}

	return "", fmt.Errorf("no valid JSON found in text")
}

// GetStringValue retrieves a string value from a map using multiple possible keys
// It tries each key in order and returns the first non-empty value found
func GetStringValue(data map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		if val, ok := data[key]; ok {
			if strVal, ok := val.(string); ok && strVal != "" {
				return strVal, true
			}
		}
	}
	return "", false
}

// GetFloatValue retrieves a numeric value from a map using multiple
// possible keys, accepting JSON numbers and numeric strings.
func GetFloatValue(data map[string]interface{}, keys ...string) (float64, bool) {
	for _, key := range keys {
		val, ok := data[key]
		if !ok {
			continue
		}
		switch v := val.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

// GetBoolValue retrieves a boolean value from a map using multiple
// possible keys, accepting JSON booleans and the strings "true"/"false".
func GetBoolValue(data map[string]interface{}, keys ...string) (bool, bool) {
	for _, key := range keys {
		val, ok := data[key]
		if !ok {
			continue
		}
		switch v := val.(type) {
		case bool:
			return v, true
		case string:
			if parsed, err := strconv.ParseBool(v); err == nil {
				return parsed, true
			}
		}
	}
	return false, false
}

// ReturnJSONError writes a JSON error response with the given status code and message
func ReturnJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    statusCode,
			"message": message,
		},
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		// If JSON encoding fails, fall back to plain text
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(fmt.Sprintf("Error: %s", message)))
	}
}
