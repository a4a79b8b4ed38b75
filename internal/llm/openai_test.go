package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func questionsSchema() *Schema {
	return &Schema{
		Name:        "test-questions",
		Description: "a list of questions",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required":             []any{"questions"},
			"additionalProperties": false,
		},
	}
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "llama-3.3-70b-versatile",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42},
	}
}

func newTestOpenAIProvider(t *testing.T, mode ResponseMode, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL + "/v1", Model: "llama-70b"}, mode)
	require.NoError(t, err)
	return p
}

func TestOpenAIProvider_JSONObjectMode(t *testing.T) {
	var body map[string]any
	p := newTestOpenAIProvider(t, ModeJSONObject, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("```json\n{\"questions\":[\"What is ATP?\"]}\n```", "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:      "You are a viva examiner.",
		Messages:    UserPrompt("Content: cells"),
		Schema:      questionsSchema(),
		MaxTokens:   256,
		Temperature: ptr(0.7),
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"questions":["What is ATP?"]}`, string(resp.Content))
	assert.Equal(t, 30, resp.Usage.InputTokens)
	assert.Equal(t, "end", resp.StopReason)

	assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
	format := body["response_format"].(map[string]any)
	assert.Equal(t, "json_object", format["type"])

	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	system := msgs[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.True(t, strings.Contains(system["content"].(string), "JSON Schema"))
}

func TestOpenAIProvider_JSONSchemaMode(t *testing.T) {
	var body map[string]any
	p := newTestOpenAIProvider(t, ModeJSONSchema, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"questions":["a","b"]}`, "stop"))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Schema: questionsSchema()})
	require.NoError(t, err)

	format := body["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	js := format["json_schema"].(map[string]any)
	assert.Equal(t, "test-questions", js["name"])
	assert.Equal(t, true, js["strict"])
}

func TestOpenAIProvider_SchemaMismatch(t *testing.T) {
	p := newTestOpenAIProvider(t, ModeJSONObject, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"questions":"not a list"}`, "stop"))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Schema: questionsSchema()})
	var invalid *ErrInvalidResponse
	require.True(t, errors.As(err, &invalid), "got %T: %v", err, err)
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p := newTestOpenAIProvider(t, ModeJSONObject, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"questions":["a`, "length"))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Schema: questionsSchema()})
	var truncated *ErrMaxTokensExceeded
	require.True(t, errors.As(err, &truncated), "got %T: %v", err, err)
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	p := newTestOpenAIProvider(t, ModeJSONObject, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "tokens", "message": "Rate limit exceeded", "code": "rate_limit_exceeded"},
		})
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x")})
	var rl *ErrRateLimit
	require.True(t, errors.As(err, &rl), "got %T: %v", err, err)
}

func TestOpenAIProvider_ServerError(t *testing.T) {
	p := newTestOpenAIProvider(t, ModeJSONObject, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "server_error", "message": "upstream down"},
		})
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x")})
	var unavailable *ErrProviderUnavailable
	require.True(t, errors.As(err, &unavailable), "got %T: %v", err, err)
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(Config{}, ModeJSONSchema)
	assert.Error(t, err)
}

func TestOpenAIProvider_Temperature(t *testing.T) {
	tests := []struct {
		name        string
		temperature *float64
		wantSent    bool
		want        float64
	}{
		{name: "zero is sent", temperature: ptr(0.0), wantSent: true, want: 0},
		{name: "value is sent", temperature: ptr(0.4), wantSent: true, want: 0.4},
		{name: "nil is omitted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			p := newTestOpenAIProvider(t, ModeJSONObject, func(w http.ResponseWriter, r *http.Request) {
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(chatCompletion(`{"questions":["a"]}`, "stop"))
			})

			_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Temperature: tt.temperature})
			require.NoError(t, err)

			got, sent := body["temperature"]
			require.Equal(t, tt.wantSent, sent)
			if sent {
				assert.InDelta(t, tt.want, got, 1e-6)
			}
		})
	}
}
