package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

const maxCompletionTokens = 4096

type client struct {
	api     *openai.Client
	hc      *http.Client
	token   string
	model   string
	baseURL string
}

// NewClient builds a completion client against OpenRouter. OpenRouter speaks
// the OpenAI chat completions wire format, so the go-openai client is reused
// with a different base URL.
func NewClient(token, model string, timeout time.Duration) (*client, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	hc := &http.Client{Timeout: timeout}

	cfg := openai.DefaultConfig(token)
	cfg.BaseURL = DefaultBaseURL
	cfg.HTTPClient = hc

	return &client{
		api:     openai.NewClientWithConfig(cfg),
		hc:      hc,
		token:   token,
		model:   model,
		baseURL: DefaultBaseURL,
	}, nil
}

// CreateChatCompletion performs a single attempt against the completion API.
// Timeouts and non-2xx statuses surface as ErrUpstreamUnavailable; there is
// no retry policy, the user resends to retry.
func (c *client) CreateChatCompletion(ctx context.Context, chat *domain.Chat) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(chat.Messages))
	for _, m := range chat.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	model := chat.Model
	if model == "" {
		model = c.model
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxCompletionTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", domain.ErrUpstreamUnavailable)
	}

	message := resp.Choices[0].Message
	if message.Role != openai.ChatMessageRoleAssistant {
		return "", fmt.Errorf("%w: unexpected role %q", domain.ErrUpstreamUnavailable, message.Role)
	}

	return message.Content, nil
}
