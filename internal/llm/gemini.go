package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

// geminiClient uses the official Gemini SDK against the Gemini API backend.
type geminiClient struct {
	apiKey  string
	model   Model
	baseURL string
	logger  *log.Logger
}

func newGeminiClient(opts Options) *geminiClient {
	return &geminiClient{
		apiKey:  opts.APIKey,
		model:   opts.Model,
		baseURL: opts.BaseURL,
		logger:  opts.Logger,
	}
}

func (c *geminiClient) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug("calling Gemini API", "model", c.model.ID)
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		MaxOutputTokens:   MaxTokens,
	}

	resp, err := client.Models.GenerateContent(ctx, c.model.ID, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("Gemini API request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
