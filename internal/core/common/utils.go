package common

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ExtractJSONObject strips the wrapping LLMs put around JSON: a markdown fence
// and leading or trailing prose. It returns the outermost {...} span; backticks
// inside the object are left alone.
func ExtractJSONObject(response string) (string, error) {
	s := trimFence(strings.TrimSpace(response))

	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", fmt.Errorf("no JSON object found in response (missing '{')")
	}
	end := strings.LastIndexByte(s, '}')
	if end < start {
		return "", fmt.Errorf("no JSON object found in response (missing '}')")
	}
	return s[start : end+1], nil
}

// trimFence removes an opening ``` line (with its language tag) and a closing ```.
func trimFence(s string) string {
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl != -1 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// ParseJSON cleans and unmarshals a JSON string into a type T.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	jsonStr, err := ExtractJSONObject(response)
	if err != nil {
		return zero, err
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

// Truncate shortens s to at most max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
