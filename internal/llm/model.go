package llm

import (
	"fmt"
	"strings"
)

// Provider identifies the hosted API a model is served by.
type Provider string

const (
	ProviderClaude  Provider = "claude"
	ProviderOpenAI  Provider = "openai"
	ProviderGemini  Provider = "gemini"
	ProviderMistral Provider = "mistral"
)

// DisplayName returns the provider name used in user-facing output.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderClaude:
		return "Claude"
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderGemini:
		return "Google Gemini"
	case ProviderMistral:
		return "Mistral"
	}
	return "Unknown"
}

// Model maps a short CLI alias to the provider's full model identifier.
type Model struct {
	Alias    string
	ID       string
	Provider Provider
}

func (m Model) String() string { return m.Alias }

// models is the supported model table, grouped by provider.
var models = []Model{
	{"opus-4-1", "claude-opus-4-1-20250805", ProviderClaude},
	{"opus-4", "claude-opus-4-20250514", ProviderClaude},
	{"sonnet-4", "claude-sonnet-4-20250514", ProviderClaude},
	{"sonnet-3-7", "claude-3-7-sonnet-20250219", ProviderClaude},
	{"haiku-3-5", "claude-3-5-haiku-20241022", ProviderClaude},
	{"haiku-3", "claude-3-haiku-20240307", ProviderClaude},

	{"gpt-5", "gpt-5-2025-08-07", ProviderOpenAI},
	{"gpt-5-mini", "gpt-5-mini-2025-08-07", ProviderOpenAI},
	{"gpt-5-nano", "gpt-5-nano-2025-08-07", ProviderOpenAI},

	{"gemini-2.5-pro", "gemini-2.5-pro", ProviderGemini},
	{"gemini-2.5-flash", "gemini-2.5-flash", ProviderGemini},
	{"gemini-2.5-flash-lite", "gemini-2.5-flash-lite", ProviderGemini},

	{"mistral-medium-31", "mistral-medium-2508", ProviderMistral},
	{"magistral-medium-11", "magistral-medium-2507", ProviderMistral},
	{"codestral-2508", "codestral-2508", ProviderMistral},
	{"mistral-small-32", "mistral-small-3.2", ProviderMistral},
	{"ministral-8b", "ministral-8b-2410", ProviderMistral},
}

// AllModels returns the supported model table in display order.
func AllModels() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	return out
}

// FindModel resolves a model by CLI alias or full API identifier.
func FindModel(name string) (Model, error) {
	for _, m := range models {
		if m.Alias == name || m.ID == name {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("unknown model %q, valid models: %s", name, strings.Join(Aliases(), ", "))
}

// Aliases lists all supported CLI aliases.
func Aliases() []string {
	aliases := make([]string, len(models))
	for i, m := range models {
		aliases[i] = m.Alias
	}
	return aliases
}
