package container_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/viva-lambda/internal/config"
	"github.com/saulo-duarte/viva-lambda/internal/container"
	"github.com/saulo-duarte/viva-lambda/internal/llm"
)

func TestNewWithMockProvider(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("LLM_MOCK_RESPONSE", `{"questions":["What is refraction?"]}`)
	t.Setenv("OFFLOAD_WORKERS", "3")

	c, err := container.New(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, c.Pool.Size())
	assert.Equal(t, "mock", c.Provider.ModelID())
	assert.Equal(t, "mock", c.LLMConfig.Provider)

	rec := httptest.NewRecorder()
	c.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","model":"mock"}`, rec.Body.String())

	for i := 0; i < 3; i++ {
		form := url.Values{"text": {"Optics"}}
		req := httptest.NewRequest(http.MethodPost, "/get_answer", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		c.Router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"selected_question":"What is refraction?"}`, rec.Body.String())
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("OFFLOAD_WORKERS", "lots")

	_, err := container.New(context.Background())
	assert.Error(t, err)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LLM_PROVIDER", "carrier-pigeon")

	_, err := container.New(context.Background())
	assert.Error(t, err)
}

func TestNewWithProviderServesQuestions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":["Define torque."]}`)})
	llmCfg := llm.DefaultConfig()
	llmCfg.Provider = llm.ProviderMock

	c := container.NewWithProvider(config.Default(), llmCfg, mock)

	form := url.Values{"text": {"Rotational dynamics"}}
	req := httptest.NewRequest(http.MethodPost, "/get_answer", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	c.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"selected_question":"Define torque."}`, rec.Body.String())

	call, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, llmCfg.MaxTokens, call.MaxTokens)
	require.NotNil(t, call.Temperature)
	assert.Equal(t, llmCfg.Temperature, *call.Temperature)
}
