package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"gymora/api/internal/aigen"
	"gymora/api/internal/models"
	"gymora/api/internal/repository"
)

// AIService fronts the text-generation provider for the three AI endpoints.
// Transport and auth failures propagate to the caller; malformed model output
// never does, it becomes a deterministic fallback instead.
type AIService struct {
	provider aigen.Completer
	progress *repository.ProgressRepository
	log      zerolog.Logger
}

func NewAIService(provider aigen.Completer, progress *repository.ProgressRepository, log zerolog.Logger) *AIService {
	return &AIService{
		provider: provider,
		progress: progress,
		log:      log,
	}
}

const chatSystemPrompt = "You are a friendly fitness coaching assistant for a gym. " +
	"Answer briefly and practically. Never give medical advice."

func (s *AIService) Chat(ctx context.Context, message string) (string, error) {
	raw, err := s.provider.Complete(ctx, chatSystemPrompt, message)
	if err != nil {
		return "", err
	}
	return aigen.NormalizeChatReply(raw, aigen.FallbackChatReply), nil
}

const workoutSystemPrompt = "You are a strength coach. Respond with only a JSON object: " +
	`{"name": string, "notes": string, "exercises": [{"name": string, "sets": number, "reps": string, "restSeconds": number}]}.` +
	" No prose outside the JSON."

type WorkoutRequest struct {
	Goal        string
	Level       string
	DaysPerWeek int
}

func (s *AIService) GenerateWorkout(ctx context.Context, req WorkoutRequest) (aigen.WorkoutPlanDoc, error) {
	prompt := fmt.Sprintf("Create a workout plan. Goal: %s. Experience level: %s.",
		orDefault(req.Goal, "general fitness"), orDefault(req.Level, "beginner"))
	if req.DaysPerWeek > 0 {
		prompt += fmt.Sprintf(" Training days per week: %d.", req.DaysPerWeek)
	}

	raw, err := s.provider.Complete(ctx, workoutSystemPrompt, prompt)
	if err != nil {
		return aigen.WorkoutPlanDoc{}, err
	}

	doc := aigen.Normalize(raw, aigen.ValidateWorkoutPlan, func() json.RawMessage {
		s.log.Debug().Msg("workout generation fell back to template")
		encoded, _ := json.Marshal(aigen.FallbackWorkoutPlan(req.Goal))
		return encoded
	})

	var plan aigen.WorkoutPlanDoc
	if err := json.Unmarshal(doc, &plan); err != nil {
		// Normalize guarantees a valid document; this is unreachable in
		// practice but fail to the template rather than an empty plan.
		return aigen.FallbackWorkoutPlan(req.Goal), nil
	}
	return plan, nil
}

const analysisSystemPrompt = "You are a fitness progress analyst. Respond with only a JSON object: " +
	`{"summary": string, "strengths": [string], "improvements": [string], "recommendations": [string]}.` +
	" No prose outside the JSON."

func (s *AIService) AnalyzeProgress(ctx context.Context, userID string) (aigen.AnalysisDoc, error) {
	entries, err := s.progress.ListByUser(ctx, userID, 50)
	if err != nil {
		return aigen.AnalysisDoc{}, err
	}

	raw, err := s.provider.Complete(ctx, analysisSystemPrompt, describeProgress(entries))
	if err != nil {
		return aigen.AnalysisDoc{}, err
	}

	doc := aigen.Normalize(raw, aigen.ValidateAnalysis, func() json.RawMessage {
		s.log.Debug().Str("user_id", userID).Msg("progress analysis fell back to numeric summary")
		encoded, _ := json.Marshal(aigen.FallbackAnalysis(entries))
		return encoded
	})

	var analysis aigen.AnalysisDoc
	if err := json.Unmarshal(doc, &analysis); err != nil {
		return aigen.FallbackAnalysis(entries), nil
	}
	return analysis, nil
}

func describeProgress(entries []models.ProgressEntry) string {
	if len(entries) == 0 {
		return "The member has no recorded progress entries yet."
	}

	var b strings.Builder
	b.WriteString("Analyze this member's progress entries (newest first):\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s: %.1f kg", e.RecordedAt.Format("2006-01-02"), e.WeightKg)
		if e.BodyFatPct != nil {
			fmt.Fprintf(&b, ", %.1f%% body fat", *e.BodyFatPct)
		}
		if e.Notes != "" {
			fmt.Fprintf(&b, " (%s)", e.Notes)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func orDefault(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
