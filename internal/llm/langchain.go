package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// LangChainProvider drives an OpenAI-compatible model through langchaingo.
// Structured output is obtained the LangChain way: the schema becomes the
// parameters of a single tool and the model is forced to call it.
type LangChainProvider struct {
	llm   llms.Model
	model string
}

func NewLangChainProvider(cfg Config) (*LangChainProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("langchain provider API key is required")
	}

	model := resolveModel(cfg.Model, openaiModels)
	opts := []lcopenai.Option{
		lcopenai.WithModel(model),
		lcopenai.WithToken(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(cfg.BaseURL))
	}

	client, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain client: %w", err)
	}
	return &LangChainProvider{llm: client, model: model}, nil
}

func (p *LangChainProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	messages := make([]llms.MessageContent, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	for _, m := range req.Messages {
		kind := llms.ChatMessageTypeHuman
		if m.Role == RoleAssistant {
			kind = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(kind, m.Content))
	}

	var opts []llms.CallOption
	if req.Temperature != nil {
		opts = append(opts, llms.WithTemperature(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Schema != nil {
		opts = append(opts,
			llms.WithTools([]llms.Tool{schemaTool(req.Schema)}),
			llms.WithToolChoice("required"),
		)
	}

	resp, err := p.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("no choices in response")}
	}

	choice := resp.Choices[0]
	content := json.RawMessage(cleanModelOutput(choice.Content))
	if req.Schema != nil {
		content, err = toolArguments(choice, req.Schema.Name)
		if err != nil {
			return nil, err
		}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}

	return &Response{
		Content:    content,
		Usage:      langchainUsage(choice.GenerationInfo),
		Model:      p.model,
		StopReason: mapLangChainStopReason(choice.StopReason),
	}, nil
}

func (p *LangChainProvider) ModelID() string {
	return p.model
}

func schemaTool(schema *Schema) llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        schema.Name,
			Description: schema.Description,
			Parameters:  schema.Definition,
		},
	}
}

func toolArguments(choice *llms.ContentChoice, name string) (json.RawMessage, error) {
	for _, call := range choice.ToolCalls {
		if call.FunctionCall != nil && call.FunctionCall.Name == name {
			return json.RawMessage(call.FunctionCall.Arguments), nil
		}
	}
	// Some OpenAI-compatible hosts ignore tool_choice and answer in text.
	if choice.Content != "" {
		return json.RawMessage(cleanModelOutput(choice.Content)), nil
	}
	return nil, &ErrInvalidResponse{Err: fmt.Errorf("model did not call %q", name)}
}

func langchainUsage(info map[string]any) Usage {
	intField := func(key string) int {
		if v, ok := info[key].(int); ok {
			return v
		}
		return 0
	}
	return Usage{
		InputTokens:  intField("PromptTokens"),
		OutputTokens: intField("CompletionTokens"),
		TotalTokens:  intField("TotalTokens"),
	}
}

func mapLangChainStopReason(reason string) string {
	if reason == "length" {
		return "max_tokens"
	}
	return "end"
}
