package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymora/api/internal/service"
)

type fakeCompleter struct {
	output string
	err    error
}

func (f fakeCompleter) Complete(_ context.Context, _ string, _ string) (string, error) {
	return f.output, f.err
}

func newAITestRouter(completer fakeCompleter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := HandlerSet{
		log:       zerolog.Nop(),
		aiService: service.NewAIService(completer, nil, zerolog.Nop()),
	}

	router := gin.New()
	router.POST("/ai/chat", h.AIChat)
	router.POST("/ai/workout", h.AIWorkout)
	return router
}

func TestAIChat(t *testing.T) {
	router := newAITestRouter(fakeCompleter{output: "Drink water and warm up first."})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message": "any tips?"}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Drink water and warm up first.", body["reply"])
}

func TestAIChatMissingMessage(t *testing.T) {
	router := newAITestRouter(fakeCompleter{output: "unused"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestAIChatProviderDown(t *testing.T) {
	router := newAITestRouter(fakeCompleter{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message": "hello"}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "assistant unavailable", body["error"])
}

func TestAIWorkout(t *testing.T) {
	modelOutput := `{"name": "Hypertrophy Block", "notes": "", "exercises": [{"name": "Squat", "sets": 4, "reps": "8", "restSeconds": 120}]}`
	router := newAITestRouter(fakeCompleter{output: modelOutput})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ai/workout", strings.NewReader(`{"goal": "muscle", "level": "intermediate", "daysPerWeek": 4}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Workout struct {
			Name      string `json:"name"`
			Exercises []struct {
				Name string `json:"name"`
			} `json:"exercises"`
		} `json:"workout"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Hypertrophy Block", body.Workout.Name)
	require.Len(t, body.Workout.Exercises, 1)
	assert.Equal(t, "Squat", body.Workout.Exercises[0].Name)
}

func TestAIWorkoutFallsBackOnGarbageOutput(t *testing.T) {
	router := newAITestRouter(fakeCompleter{output: "I cannot produce JSON today, sorry."})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ai/workout", strings.NewReader(`{"goal": "strength"}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Workout struct {
			Name      string `json:"name"`
			Exercises []any  `json:"exercises"`
		} `json:"workout"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Workout.Name, "Full Body Foundation")
	assert.NotEmpty(t, body.Workout.Exercises)
}
