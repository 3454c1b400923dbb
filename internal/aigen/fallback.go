package aigen

import (
	"fmt"
	"strings"

	"gymora/api/internal/models"
)

// Fallbacks are deterministic and locally computable so every AI endpoint
// degrades gracefully when the provider misbehaves.

const fallbackChatReply = "I could not reach the coaching assistant just now. " +
	"Please try again in a moment, or message your trainer directly."

func FallbackChatReply() string {
	return fallbackChatReply
}

// FallbackWorkoutPlan is a general-purpose template, lightly tuned by goal.
func FallbackWorkoutPlan(goal string) WorkoutPlanDoc {
	name := "Full Body Foundation"
	if g := strings.TrimSpace(goal); g != "" {
		name = fmt.Sprintf("Full Body Foundation (%s)", g)
	}

	return WorkoutPlanDoc{
		Name:  name,
		Notes: "Template plan. Ask your trainer to adjust loads and progressions.",
		Exercises: []ExerciseDoc{
			{Name: "Goblet Squat", Sets: 3, Reps: "10-12", RestSeconds: 90},
			{Name: "Push-Up", Sets: 3, Reps: "8-12", RestSeconds: 60},
			{Name: "One-Arm Dumbbell Row", Sets: 3, Reps: "10 per side", RestSeconds: 90},
			{Name: "Romanian Deadlift", Sets: 3, Reps: "10-12", RestSeconds: 90},
			{Name: "Plank", Sets: 3, Reps: "30-45s", RestSeconds: 60},
		},
	}
}

// FallbackAnalysis summarizes progress entries numerically, oldest to newest.
func FallbackAnalysis(entries []models.ProgressEntry) AnalysisDoc {
	doc := AnalysisDoc{
		Strengths:       []string{},
		Improvements:    []string{},
		Recommendations: []string{"Keep logging your measurements so trends stay visible."},
	}

	if len(entries) == 0 {
		doc.Summary = "No progress entries recorded yet."
		doc.Recommendations = append([]string{"Record a first weigh-in to start tracking."}, doc.Recommendations...)
		return doc
	}

	first := entries[0]
	last := entries[0]
	for _, e := range entries[1:] {
		if e.RecordedAt.Before(first.RecordedAt) {
			first = e
		}
		if e.RecordedAt.After(last.RecordedAt) {
			last = e
		}
	}

	delta := last.WeightKg - first.WeightKg
	doc.Summary = fmt.Sprintf("%d entries recorded; weight changed %+.1f kg (%.1f kg to %.1f kg).",
		len(entries), delta, first.WeightKg, last.WeightKg)

	if len(entries) >= 3 {
		doc.Strengths = append(doc.Strengths, "Consistent measurement habit.")
	}
	if delta > 0 {
		doc.Improvements = append(doc.Improvements, "Weight is trending up; review nutrition logs with your trainer.")
	}

	return doc
}
