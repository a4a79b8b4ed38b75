package llm

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderLangChain = "langchain"
	ProviderMock      = "mock"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// Config selects and configures the single provider the process uses.
type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string

	Temperature float64
	MaxTokens   int

	// Timeout bounds one Generate call. Zero leaves it to the client default.
	Timeout time.Duration

	// MockResponse is the JSON the mock provider answers every call with.
	MockResponse string
}

type providerDefaults struct {
	model   string
	baseURL string
	keyEnv  string
}

var defaults = map[string]providerDefaults{
	ProviderGroq:      {model: "llama-3.3-70b-versatile", baseURL: groqBaseURL, keyEnv: "GROQ_API_KEY"},
	ProviderOpenAI:    {model: "gpt-4o-mini", keyEnv: "OPENAI_API_KEY"},
	ProviderGemini:    {model: "gemini-flash", keyEnv: "GEMINI_API_KEY"},
	ProviderAnthropic: {model: "claude-haiku", keyEnv: "ANTHROPIC_API_KEY"},
	ProviderLangChain: {model: "llama-3.3-70b-versatile", baseURL: groqBaseURL, keyEnv: "GROQ_API_KEY"},
	ProviderMock:      {model: "mock"},
}

func DefaultConfig() Config {
	d := defaults[ProviderGroq]
	return Config{
		Provider:    ProviderGroq,
		Model:       d.model,
		BaseURL:     d.baseURL,
		Temperature: 0.7,
		MaxTokens:   2048,
		Timeout:     60 * time.Second,
	}
}

// ConfigFromEnv reads LLM_* variables plus the credential variable of the
// selected provider.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		d, ok := defaults[p]
		if !ok {
			return Config{}, fmt.Errorf("unknown LLM provider: %q", p)
		}
		cfg.Provider = p
		cfg.Model = d.model
		cfg.BaseURL = d.baseURL
	}

	if d := defaults[cfg.Provider]; d.keyEnv != "" {
		cfg.APIKey = os.Getenv(d.keyEnv)
	}
	cfg.MockResponse = os.Getenv("LLM_MOCK_RESPONSE")
	if m := os.Getenv("LLM_MODEL"); m != "" {
		cfg.Model = m
	}
	if u := os.Getenv("LLM_BASE_URL"); u != "" {
		cfg.BaseURL = u
	}

	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t < 0 || t > 2 {
			return Config{}, fmt.Errorf("LLM_TEMPERATURE must be a number in [0, 2], got %q", v)
		}
		cfg.Temperature = t
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("LLM_MAX_TOKENS must be a positive integer, got %q", v)
		}
		cfg.MaxTokens = n
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("LLM_TIMEOUT must be a non-negative duration, got %q", v)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// Validate checks the selected provider has its credential.
func (c Config) Validate() error {
	d, ok := defaults[c.Provider]
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if d.keyEnv != "" && c.APIKey == "" {
		return fmt.Errorf("%s is required for the %s provider", d.keyEnv, c.Provider)
	}
	if c.Provider == ProviderMock && !json.Valid([]byte(c.MockResponse)) {
		return fmt.Errorf("LLM_MOCK_RESPONSE must hold the JSON the mock provider returns, got %q", c.MockResponse)
	}
	return nil
}
