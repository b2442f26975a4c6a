// Package feedback turns untrusted grader replies into domain.Feedback.
package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"pywhiz/internal/domain"
)

const (
	KeyOutput        = "output"
	KeyHints         = "hints"
	KeySuggestions   = "suggestions"
	KeyIsCorrect     = "is_correct"
	KeyEncouragement = "encouragement"
	KeyFocusArea     = "focus_area"
)

var baseRequired = []string{KeyOutput, KeyHints, KeySuggestions, KeyIsCorrect}

// jsonFence matches the opening of a ```json block; the language tag is case-insensitive.
// The block body is decoded as a stream, so backticks inside string values do not end it.
var jsonFence = regexp.MustCompile("(?i)```json[ \\t]*")

var errNoJSONObject = errors.New("reply contains no JSON object")

type options struct {
	required []string
}

type Option func(*options)

// WithRequired adds keys that must be present on top of output, hints, suggestions and is_correct.
func WithRequired(keys ...string) Option {
	return func(o *options) {
		o.required = append(o.required, keys...)
	}
}

// Parse decodes raw as a JSON object, falling back to the first ```json fenced block.
// Undecodable input yields MALFORMED_FEEDBACK; missing or mistyped keys yield INCOMPLETE_FEEDBACK.
func Parse(raw string, opts ...Option) (*domain.Feedback, error) {
	o := &options{required: append([]string(nil), baseRequired...)}
	for _, opt := range opts {
		opt(o)
	}

	obj, err := decodeObject(raw)
	if err != nil {
		return nil, domain.NewMalformedFeedbackError(raw, err)
	}

	fb := &domain.Feedback{}
	var missing []string
	present := make(map[string]bool)

	if v, ok := textValue(obj, KeyOutput); ok {
		fb.Output = v
		present[KeyOutput] = true
	}
	if v, ok := textValue(obj, KeyHints); ok {
		fb.Hints = v
		present[KeyHints] = true
	}
	if v, ok := textValue(obj, KeySuggestions); ok {
		fb.Suggestions = v
		present[KeySuggestions] = true
	}
	if v, ok := boolValue(obj, KeyIsCorrect); ok {
		fb.IsCorrect = v
		present[KeyIsCorrect] = true
	}
	if v, ok := textValue(obj, KeyEncouragement); ok {
		fb.Encouragement = v
		present[KeyEncouragement] = true
	}
	if v, ok := textValue(obj, KeyFocusArea); ok {
		fb.FocusArea = v
		present[KeyFocusArea] = true
	}

	seen := make(map[string]bool)
	for _, key := range o.required {
		if seen[key] {
			continue
		}
		seen[key] = true
		if !present[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewIncompleteFeedbackError(raw, missing)
	}

	return fb, nil
}

func decodeObject(raw string) (map[string]interface{}, error) {
	cleaned := stripThinking(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil, errors.New("reply is empty")
	}

	var obj map[string]interface{}
	directErr := json.Unmarshal([]byte(cleaned), &obj)
	if directErr == nil && obj != nil {
		return obj, nil
	}

	loc := jsonFence.FindStringIndex(cleaned)
	if loc == nil {
		if directErr == nil {
			return nil, errNoJSONObject
		}
		return nil, fmt.Errorf("direct decode: %w", directErr)
	}
	obj = nil
	if err := json.NewDecoder(strings.NewReader(cleaned[loc[1]:])).Decode(&obj); err != nil {
		return nil, fmt.Errorf("fenced decode: %w", err)
	}
	if obj == nil {
		return nil, errNoJSONObject
	}
	return obj, nil
}

// stripThinking drops a leading <think>...</think> section emitted by reasoning models.
func stripThinking(s string) string {
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}

// textValue accepts a string or a list of strings; lists become "- a\n- b".
func textValue(obj map[string]interface{}, key string) (string, bool) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case []interface{}:
		lines := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return "", false
			}
			lines = append(lines, "- "+s)
		}
		return strings.Join(lines, "\n"), true
	default:
		return "", false
	}
}

func boolValue(obj map[string]interface{}, key string) (bool, bool) {
	v, ok := obj[key]
	if !ok {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}
