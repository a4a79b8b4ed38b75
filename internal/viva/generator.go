package viva

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/viva-lambda/internal/config"
	"github.com/saulo-duarte/viva-lambda/internal/llm"
)

const generationPurpose = "viva-questions"

// Generator turns study content into a list of questions. It never returns an
// error on its own: failures are carried in Result.Err.
type Generator interface {
	Generate(ctx context.Context, content Content) Result
}

type GeneratorConfig struct {
	Temperature float64
	MaxTokens   int
}

type llmGenerator struct {
	provider llm.Provider
	cfg      GeneratorConfig
}

func NewGenerator(provider llm.Provider, cfg GeneratorConfig) Generator {
	return &llmGenerator{provider: provider, cfg: cfg}
}

func (g *llmGenerator) Generate(ctx context.Context, content Content) (res Result) {
	res.ID = uuid.New()
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"generation_id": res.ID,
		"source":        content.Source,
		"has_content":   content.HasContent(),
	})

	defer func() {
		if r := recover(); r != nil {
			res.Questions = nil
			res.Err = fmt.Errorf("question generation panicked: %v", r)
			log.WithError(res.Err).Error("Question generation panicked")
		}
	}()

	req := llm.Request{
		Messages:    llm.UserPrompt(BuildPrompt(content)),
		Schema:      QuestionSetSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: lo.ToPtr(g.cfg.Temperature),
	}

	resp, err := g.provider.Generate(llm.WithPurpose(ctx, generationPurpose), req)
	if err != nil {
		res.Err = fmt.Errorf("generate questions: %w", err)
		log.WithError(err).Error("Failed to generate questions")
		return res
	}

	var set QuestionSet
	if err := json.Unmarshal(resp.Content, &set); err != nil {
		res.Err = fmt.Errorf("decode questions: %w", err)
		log.WithError(err).Error("Failed to decode questions")
		return res
	}

	questions := lo.Filter(set.Questions, func(q string, _ int) bool {
		return strings.TrimSpace(q) != ""
	})
	if len(questions) == 0 {
		res.Err = ErrNoQuestions
		log.Warn("Model returned no questions")
		return res
	}

	res.Questions = questions
	log.WithField("count", len(questions)).Info("Questions generated")
	return res
}
