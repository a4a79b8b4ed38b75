package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// NewProvider builds the configured provider wrapped as
// caller -> timeout -> logging -> base.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderGroq:
		base, err = NewOpenAIProvider(cfg, ModeJSONObject)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg, ModeJSONSchema)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case ProviderLangChain:
		base, err = NewLangChainProvider(cfg)
	case ProviderMock:
		mock := NewMockProvider()
		mock.Repeat(MockResponse{Content: json.RawMessage(cfg.MockResponse)})
		base = mock
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithTimeout(WithLogging(base, cfg.Provider), cfg.Timeout), nil
}
