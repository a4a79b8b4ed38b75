package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is the boundary to a hosted model. Implementations must be safe
// for concurrent use; a single instance is shared by every request.
type Provider interface {
	// Generate sends req to the model. When req.Schema is set the returned
	// Content is JSON that has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

type Request struct {
	System   string
	Messages []Message

	// Schema asks the provider for structured output. Nil means free text.
	Schema *Schema

	MaxTokens int
	// Temperature is sent as given, zero included. Nil leaves the
	// provider's default.
	Temperature *float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name doubles as the tool or response-format
// name on providers that need one, so keep it to [a-zA-Z0-9_-].
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds the single-turn request most callers need.
func UserPrompt(prompt string) []Message {
	return []Message{{Role: RoleUser, Content: prompt}}
}

// cleanModelOutput strips the markdown fences some models wrap JSON in.
func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// resolveModel maps a friendly alias to a provider model id; unknown names
// pass through untouched.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
