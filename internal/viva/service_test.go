package viva

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/viva-lambda/internal/offload"
)

type stubGenerator struct {
	result Result
	block  chan struct{}
	got    Content
}

func (s *stubGenerator) Generate(_ context.Context, content Content) Result {
	s.got = content
	if s.block != nil {
		<-s.block
	}
	return s.result
}

func TestSelectQuestionPicksFromGenerated(t *testing.T) {
	questions := []string{"Q1?", "Q2?", "Q3?"}
	gen := &stubGenerator{result: Result{Questions: questions}}
	svc := NewService(gen, offload.NewPool(2)).(*service)
	svc.pick = func(qs []string) string { return qs[len(qs)-1] }

	sel, err := svc.SelectQuestion(context.Background(), Content{Text: "x", Source: SourceText})
	require.NoError(t, err)
	assert.True(t, sel.Found())
	assert.Equal(t, "Q3?", sel.Question)
	assert.Equal(t, SourceText, gen.got.Source)
}

func TestSelectQuestionDefaultPickerStaysInSet(t *testing.T) {
	questions := []string{"A?", "B?", "C?", "D?"}
	svc := NewService(&stubGenerator{result: Result{Questions: questions}}, offload.NewPool(1))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		sel, err := svc.SelectQuestion(context.Background(), Content{})
		require.NoError(t, err)
		require.Contains(t, questions, sel.Question)
		seen[sel.Question] = true
	}
	// 200 uniform draws from 4 leave a vanishing chance of missing one
	assert.Len(t, seen, len(questions))
}

func TestSelectQuestionNotFound(t *testing.T) {
	svc := NewService(&stubGenerator{result: Result{Err: ErrNoQuestions}}, offload.NewPool(1))

	sel, err := svc.SelectQuestion(context.Background(), Content{})
	require.NoError(t, err)
	assert.False(t, sel.Found())
	assert.Empty(t, sel.Question)
	assert.True(t, errors.Is(sel.Result.Err, ErrNoQuestions))
}

func TestSelectQuestionCancelled(t *testing.T) {
	gen := &stubGenerator{result: Result{Questions: []string{"late"}}, block: make(chan struct{})}
	svc := NewService(gen, offload.NewPool(1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.SelectQuestion(ctx, Content{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(gen.block)
}
