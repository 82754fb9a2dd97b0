// Package llm provides clients for the hosted chat-completion APIs that
// generate commit messages.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds a single completion request.
const DefaultTimeout = 60 * time.Second

// MaxTokens caps the generated message length; a commit message never
// needs more.
const MaxTokens = 1024

// ErrEmptyResponse is returned when the API answers without any content.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Request carries the prompts for one completion call.
type Request struct {
	System string
	Prompt string
}

// Client generates a commit message with a single synchronous API call.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Options configures a provider client.
type Options struct {
	APIKey  string
	Model   Model
	BaseURL string // override the provider endpoint, used by tests
	Timeout time.Duration
	Logger  *log.Logger
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

// NewClient builds the client matching the model's provider.
func NewClient(opts Options) (Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("API key is required")
	}

	switch opts.Model.Provider {
	case ProviderClaude:
		return newClaudeClient(opts), nil
	case ProviderOpenAI, ProviderMistral:
		return newChatClient(opts), nil
	case ProviderGemini:
		return newGeminiClient(opts), nil
	}
	return nil, fmt.Errorf("unsupported provider: %s", opts.Model.Provider)
}
