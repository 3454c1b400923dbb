package aigen

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymora/api/internal/models"
)

func TestExtractJSONStrict(t *testing.T) {
	doc, ok := ExtractJSON(`{"name": "Plan A"}`)
	require.True(t, ok)
	assert.JSONEq(t, `{"name": "Plan A"}`, string(doc))
}

func TestExtractJSONFromProse(t *testing.T) {
	raw := "Sure! Here is your plan:\n```json\n{\"name\": \"Plan A\", \"exercises\": []}\n```\nEnjoy!"

	doc, ok := ExtractJSON(raw)
	require.True(t, ok)
	assert.JSONEq(t, `{"name": "Plan A", "exercises": []}`, string(doc))
}

func TestExtractJSONGarbage(t *testing.T) {
	for _, raw := range []string{"", "no braces here", "{broken", "} backwards {"} {
		_, ok := ExtractJSON(raw)
		assert.False(t, ok, "input %q", raw)
	}
}

func TestNormalizeUsesFallbackOnInvalidDoc(t *testing.T) {
	fallback := json.RawMessage(`{"name":"fallback","exercises":[{"name":"Squat","sets":3,"reps":"10"}]}`)

	out := Normalize(`{"name": "", "exercises": []}`, ValidateWorkoutPlan, func() json.RawMessage {
		return fallback
	})

	assert.Equal(t, fallback, out)
}

func TestNormalizePassesValidDoc(t *testing.T) {
	raw := `{"name": "Push Day", "exercises": [{"name": "Bench Press", "sets": 3, "reps": "5"}]}`

	out := Normalize(raw, ValidateWorkoutPlan, func() json.RawMessage {
		t.Fatal("fallback should not run for valid output")
		return nil
	})

	assert.JSONEq(t, raw, string(out))
}

func TestValidateWorkoutPlan(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid", `{"name":"A","exercises":[{"name":"Squat","sets":3,"reps":"10"}]}`, false},
		{"empty name", `{"name":" ","exercises":[{"name":"Squat","sets":3,"reps":"10"}]}`, true},
		{"no exercises", `{"name":"A","exercises":[]}`, true},
		{"nameless exercise", `{"name":"A","exercises":[{"name":"","sets":3,"reps":"10"}]}`, true},
		{"wrong types", `{"name":"A","exercises":"nope"}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWorkoutPlan(json.RawMessage(tc.doc))
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAnalysis(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid", `{"summary":"ok","strengths":[],"improvements":[],"recommendations":["x"]}`, false},
		{"empty summary", `{"summary":"","strengths":[],"improvements":[],"recommendations":[]}`, true},
		{"missing section", `{"summary":"ok","strengths":[],"improvements":[]}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAnalysis(json.RawMessage(tc.doc))
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeChatReply(t *testing.T) {
	fallback := func() string { return "fallback" }

	assert.Equal(t, "plain answer", NormalizeChatReply("plain answer", fallback))
	assert.Equal(t, "quoted answer", NormalizeChatReply(`"quoted answer"`, fallback))
	assert.Equal(t, "wrapped", NormalizeChatReply(`{"reply": "wrapped"}`, fallback))
	assert.Equal(t, "fallback", NormalizeChatReply("", fallback))
	assert.Equal(t, "fallback", NormalizeChatReply("   ", fallback))
	assert.Equal(t, "fallback", NormalizeChatReply(`""`, fallback))
	assert.Equal(t, "fallback", NormalizeChatReply(`{"reply": ""}`, fallback))
}

func TestFallbackWorkoutPlanIsValid(t *testing.T) {
	plan := FallbackWorkoutPlan("fat loss")

	encoded, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.NoError(t, ValidateWorkoutPlan(encoded))
	assert.Contains(t, plan.Name, "fat loss")

	plain := FallbackWorkoutPlan("")
	assert.NotContains(t, plain.Name, "(")
}

func TestFallbackAnalysis(t *testing.T) {
	entries := []models.ProgressEntry{
		{WeightKg: 82.5, RecordedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{WeightKg: 80.0, RecordedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{WeightKg: 81.0, RecordedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	doc := FallbackAnalysis(entries)

	assert.Contains(t, doc.Summary, "3 entries")
	assert.Contains(t, doc.Summary, "+2.5 kg")

	encoded, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NoError(t, ValidateAnalysis(encoded))
}

func TestFallbackAnalysisEmpty(t *testing.T) {
	doc := FallbackAnalysis(nil)

	assert.Equal(t, "No progress entries recorded yet.", doc.Summary)

	encoded, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NoError(t, ValidateAnalysis(encoded))
}
