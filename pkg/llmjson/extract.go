// Package llmjson pulls JSON objects out of language model replies, which
// often wrap the object in markdown fences or a sentence of prose.
package llmjson

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when the text holds no JSON object
var ErrNoJSON = errors.New("no json object in model output")

// Extract returns the outermost {...} region of text after removing
// markdown code fences.
func Extract(text string) ([]byte, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```JSON", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, ErrNoJSON
	}
	return []byte(cleaned[start : end+1]), nil
}

// Decode extracts the JSON object from text and unmarshals it into v
func Decode(text string, v any) error {
	raw, err := Extract(text)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
