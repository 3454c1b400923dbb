// Package aigen wraps the external text-generation provider and normalizes
// its free-text output into validated domain objects, substituting
// deterministic fallbacks whenever the model output cannot be trusted.
package aigen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidatorFunc rejects a candidate JSON document that does not match the
// expected shape for an endpoint.
type ValidatorFunc func(data json.RawMessage) error

// ExtractJSON tries a strict parse of raw, then falls back to the substring
// between the first '{' and the last '}'. The second return value reports
// whether a syntactically valid document was found.
func ExtractJSON(raw string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(raw)
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), true
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	candidate := trimmed[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}

// Normalize returns a document that passes validate, or the fallback value.
// Malformed model output never surfaces to callers; only upstream transport
// failures are reported as errors, and those happen before this point.
func Normalize(raw string, validate ValidatorFunc, fallback func() json.RawMessage) json.RawMessage {
	doc, ok := ExtractJSON(raw)
	if !ok {
		return fallback()
	}
	if err := validate(doc); err != nil {
		return fallback()
	}
	return doc
}

// WorkoutPlanDoc is the shape the workout-generation endpoint promises.
type WorkoutPlanDoc struct {
	Name      string        `json:"name"`
	Notes     string        `json:"notes"`
	Exercises []ExerciseDoc `json:"exercises"`
}

type ExerciseDoc struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        string `json:"reps"`
	RestSeconds int    `json:"restSeconds"`
}

// AnalysisDoc is the shape the progress-analysis endpoint promises.
type AnalysisDoc struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	Recommendations []string `json:"recommendations"`
}

// ValidateWorkoutPlan requires a named plan with at least one exercise.
func ValidateWorkoutPlan(data json.RawMessage) error {
	var doc WorkoutPlanDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("workout plan shape: %w", err)
	}
	if strings.TrimSpace(doc.Name) == "" {
		return fmt.Errorf("workout plan name is required")
	}
	if len(doc.Exercises) == 0 {
		return fmt.Errorf("workout plan needs at least one exercise")
	}
	for _, ex := range doc.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return fmt.Errorf("exercise name is required")
		}
	}
	return nil
}

// ValidateAnalysis requires a summary plus the three list sections.
func ValidateAnalysis(data json.RawMessage) error {
	var doc AnalysisDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("analysis shape: %w", err)
	}
	if strings.TrimSpace(doc.Summary) == "" {
		return fmt.Errorf("analysis summary is required")
	}
	if doc.Strengths == nil || doc.Improvements == nil || doc.Recommendations == nil {
		return fmt.Errorf("analysis sections are required")
	}
	return nil
}

// NormalizeChatReply reduces free-text chat output to a non-empty reply
// string. The model sometimes wraps the reply in a JSON string or an object
// with a "reply" field; both are unwrapped.
func NormalizeChatReply(raw string, fallback func() string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback()
	}

	var asString string
	if err := json.Unmarshal([]byte(trimmed), &asString); err == nil {
		if reply := strings.TrimSpace(asString); reply != "" {
			return reply
		}
		return fallback()
	}

	var asObject struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal([]byte(trimmed), &asObject); err == nil {
		if reply := strings.TrimSpace(asObject.Reply); reply != "" {
			return reply
		}
		return fallback()
	}

	return trimmed
}
