package container

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/viva-lambda/internal/config"
	"github.com/saulo-duarte/viva-lambda/internal/llm"
	"github.com/saulo-duarte/viva-lambda/internal/offload"
	"github.com/saulo-duarte/viva-lambda/internal/router"
	"github.com/saulo-duarte/viva-lambda/internal/viva"
)

type Container struct {
	Config        config.Config
	LLMConfig     llm.Config
	Provider      llm.Provider
	Pool          *offload.Pool
	VivaContainer *viva.VivaContainer
	Router        *chi.Mux
}

// New reads .env and the environment, builds the LLM provider once and wires
// it into the HTTP stack.
func New(ctx context.Context) (*Container, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	config.Init()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	llmCfg, err := llm.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	return NewWithProvider(cfg, llmCfg, provider), nil
}

// NewWithProvider wires an already built provider.
func NewWithProvider(cfg config.Config, llmCfg llm.Config, provider llm.Provider) *Container {
	pool := offload.NewPool(cfg.OffloadWorkers)
	vivaContainer := viva.NewVivaContainer(
		provider,
		viva.GeneratorConfig{Temperature: llmCfg.Temperature, MaxTokens: llmCfg.MaxTokens},
		pool,
		cfg.MaxUploadBytes,
	)

	r := router.New(router.RouterConfig{
		VivaHandler:       vivaContainer.Handler,
		ModelID:           provider.ModelID(),
		CorsAllowedOrigin: cfg.CorsAllowedOrigin,
	})

	config.Logger.WithFields(logrus.Fields{
		"provider": llmCfg.Provider,
		"model":    provider.ModelID(),
		"workers":  pool.Size(),
	}).Info("Container initialized")

	return &Container{
		Config:        cfg,
		LLMConfig:     llmCfg,
		Provider:      provider,
		Pool:          pool,
		VivaContainer: vivaContainer,
		Router:        r,
	}
}
