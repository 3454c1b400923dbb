package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymora/api/internal/models"
)

func TestRequestIDGenerated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRequestIDPassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "front-desk-42")
	router.ServeHTTP(w, req)

	assert.Equal(t, "front-desk-42", w.Header().Get("X-Request-Id"))
}

func TestRequestIDReplacesOversized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	oversized := strings.Repeat("x", maxRequestIDLen+1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", oversized)
	router.ServeHTTP(w, req)

	got := w.Header().Get("X-Request-Id")
	assert.NotEqual(t, oversized, got)
	assert.NotEmpty(t, got)
}

func TestLoggerEmitsUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	router := gin.New()
	router.Use(RequestID(), Logger(logger))
	router.GET("/attendance/summary", func(c *gin.Context) {
		c.Set(CurrentUserKey, models.User{ID: "member-1", Role: models.UserRoleMember})
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance/summary", nil))

	require.Equal(t, http.StatusOK, w.Code)
	line := buf.String()
	assert.Contains(t, line, `"user_id":"member-1"`)
	assert.Contains(t, line, `"role":"member"`)
	assert.Contains(t, line, `"path":"/attendance/summary"`)
}

func TestLoggerOmitsUserIDWhenAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	router := gin.New()
	router.Use(Logger(logger))
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.NotContains(t, buf.String(), "user_id")
}
