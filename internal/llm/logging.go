package llm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/viva-lambda/internal/config"
)

type contextKey string

const purposeKey contextKey = "llm_purpose"

// WithPurpose labels the LLM calls made with ctx in the request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// LoggingProvider logs one line per Generate call with latency and usage.
type LoggingProvider struct {
	inner    Provider
	provider string
}

func WithLogging(p Provider, providerName string) Provider {
	return &LoggingProvider{inner: p, provider: providerName}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"provider":   l.provider,
		"model":      l.inner.ModelID(),
		"purpose":    PurposeFrom(ctx),
		"latency_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		log.WithError(err).Warn("LLM request failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"input_tokens":  resp.Usage.InputTokens,
		"output_tokens": resp.Usage.OutputTokens,
		"stop_reason":   resp.StopReason,
	}).Info("LLM request completed")
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// TimeoutProvider bounds each call with its own deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
