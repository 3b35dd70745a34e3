// Package llm wraps the chat-completion provider behind a small Invoker
// interface so feature handlers stay provider-agnostic and tests can stub
// the model.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/influxity/influxity/internal/pkg/env"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyCompletion is returned when the provider answers without content.
var ErrEmptyCompletion = errors.New("llm: provider returned an empty completion")

// Message is one role-tagged turn sent to the model.
type Message struct {
	Role    string
	Content string
}

// Invoker produces one completion for a list of role-tagged messages.
type Invoker interface {
	Invoke(ctx context.Context, messages []Message) (string, error)
}

// Client is the live Invoker backed by an OpenAI-compatible API.
type Client struct {
	api   *openai.Client
	model string
}

// NewClientFromEnv builds a client from deployment configuration. A custom
// LLM_BASE_URL points the same client at any OpenAI-compatible gateway.
func NewClientFromEnv() *Client {
	cfg := openai.DefaultConfig(env.GetEnv("LLM_API_KEY", ""))
	if baseURL := env.GetEnv("LLM_BASE_URL", ""); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: env.GetEnv("LLM_MODEL", openai.GPT4oMini),
	}
}

func (c *Client) Invoke(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm: completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
