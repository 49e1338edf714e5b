package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academics-api/internal/decoder"
	"github.com/noah-isme/academics-api/internal/handler"
	"github.com/noah-isme/academics-api/internal/models"
	"github.com/noah-isme/academics-api/internal/service"
	"github.com/noah-isme/academics-api/pkg/config"
)

const (
	testClientID     = "timetable-app"
	testClientSecret = "timetable-secret"
)

func buildTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(testClientSecret), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{Env: "test", APIPrefix: "/api/v1", MaxPayloadBytes: 1024}
	logr := zap.NewNop()
	metrics := service.NewMetricsService()
	academics := service.NewAcademicsService(decoder.New(logr), nil, nil, metrics, logr)
	auth := service.NewAuthService(nil, logr, service.AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "academics-api",
		ClientID:          testClientID,
		ClientSecretHash:  string(hash),
	})

	return newRouter(cfg, logr, routeDeps{
		auth:      auth,
		metrics:   metrics,
		academics: handler.NewAcademicsHandler(academics),
		tokens:    handler.NewAuthHandler(auth),
		probes: handler.NewMetricsHandler(metrics, map[string]handler.ReadinessCheck{
			"postgres": func(ctx context.Context) error { return nil },
		}),
	})
}

func perform(router *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func issueToken(t *testing.T, router *gin.Engine, scope string) string {
	t.Helper()
	body, _ := json.Marshal(models.TokenRequest{ClientID: testClientID, ClientSecret: testClientSecret, Scope: scope})
	w := perform(router, http.MethodPost, "/api/v1/auth/token", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env struct {
		Data models.TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.AccessToken)
	return env.Data.AccessToken
}

func TestRouterDecodeRequiresToken(t *testing.T) {
	router := buildTestRouter(t)

	w := perform(router, http.MethodPost, "/api/v1/decode/status", "", []byte(`{"status":{"code":0}}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterDecodeStatus(t *testing.T) {
	router := buildTestRouter(t)
	token := issueToken(t, router, models.ScopeDecode)

	w := perform(router, http.MethodPost, "/api/v1/decode/status", token, []byte(`{"status":{"code":11}}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"code_name":"SESSION_TIMEOUT"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouterReaderCannotDecode(t *testing.T) {
	router := buildTestRouter(t)
	token := issueToken(t, router, models.ScopeRead)

	w := perform(router, http.MethodPost, "/api/v1/decode/status", token, []byte(`{"status":{"code":0}}`))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouterPayloadLimit(t *testing.T) {
	router := buildTestRouter(t)
	token := issueToken(t, router, models.ScopeDecode)

	w := perform(router, http.MethodPost, "/api/v1/decode/enrollment", token, bytes.Repeat([]byte("a"), 2048))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouterOptionalRoutesAbsent(t *testing.T) {
	router := buildTestRouter(t)
	token := issueToken(t, router, models.ScopeDecode)

	w := perform(router, http.MethodGet, "/api/v1/snapshots/14BCE0001", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, http.MethodGet, "/api/v1/exports/download?token=x", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterProbes(t *testing.T) {
	router := buildTestRouter(t)

	w := perform(router, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"postgres":"ok"`)

	w = perform(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
