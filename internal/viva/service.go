package viva

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/saulo-duarte/viva-lambda/internal/offload"
)

type Service interface {
	SelectQuestion(ctx context.Context, content Content) (Selection, error)
}

type service struct {
	generator Generator
	pool      *offload.Pool
	pick      func([]string) string
}

func NewService(generator Generator, pool *offload.Pool) Service {
	return &service{
		generator: generator,
		pool:      pool,
		pick:      lo.Sample[string],
	}
}

// SelectQuestion generates questions off the request goroutine and picks one
// uniformly at random. A generation failure is not an error here; it shows
// up as a Selection that is not Found. Errors are reserved for the work never
// being run.
func (s *service) SelectQuestion(ctx context.Context, content Content) (Selection, error) {
	result, err := offload.Do(ctx, s.pool, func(ctx context.Context) (Result, error) {
		return s.generator.Generate(ctx, content), nil
	})
	if err != nil {
		return Selection{}, fmt.Errorf("run question generation: %w", err)
	}
	if !result.OK() {
		return Selection{Result: result}, nil
	}
	return Selection{Question: s.pick(result.Questions), Result: result}, nil
}
