package viva

import (
	"github.com/saulo-duarte/viva-lambda/internal/llm"
	"github.com/saulo-duarte/viva-lambda/internal/offload"
)

type VivaContainer struct {
	Handler *Handler
	Service Service
}

func NewVivaContainer(provider llm.Provider, cfg GeneratorConfig, pool *offload.Pool, maxUploadBytes int64) *VivaContainer {
	generator := NewGenerator(provider, cfg)
	service := NewService(generator, pool)
	handler := NewHandler(service, maxUploadBytes)

	return &VivaContainer{
		Handler: handler,
		Service: service,
	}
}
