package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"
)

const mistralBaseURL = "https://api.mistral.ai/v1"

// mistralTemperature keeps Mistral output focused on a single short line.
const mistralTemperature = 0.3

// chatClient serves OpenAI-compatible chat completion endpoints. Mistral's
// API follows the same contract, so both providers share this client.
type chatClient struct {
	client *openai.Client
	model  Model
	logger *log.Logger
}

func newChatClient(opts Options) *chatClient {
	cfg := openai.DefaultConfig(opts.APIKey)
	switch {
	case opts.BaseURL != "":
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	case opts.Model.Provider == ProviderMistral:
		cfg.BaseURL = mistralBaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: opts.timeout()}

	return &chatClient{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
		logger: opts.Logger,
	}
}

func (c *chatClient) Generate(ctx context.Context, req Request) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: c.model.ID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	// The gpt-5 family only accepts max_completion_tokens and go-openai
	// rejects max_tokens for it before sending. Mistral's OpenAI-compatible
	// endpoint still expects max_tokens.
	if c.model.Provider == ProviderMistral {
		chatReq.MaxTokens = MaxTokens
		chatReq.Temperature = mistralTemperature
	} else {
		chatReq.MaxCompletionTokens = MaxTokens
	}

	if c.logger != nil {
		c.logger.Debug("calling chat completion API", "provider", c.model.Provider, "model", c.model.ID)
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("%s API request failed: %w", c.model.Provider.DisplayName(), err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
