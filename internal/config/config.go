// Package config persists API keys and the default model in a per-user
// TOML file managed through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds everything convmit persists between runs.
type Config struct {
	ClaudeAPIKey  string `mapstructure:"claude_api_key"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	GeminiAPIKey  string `mapstructure:"gemini_api_key"`
	MistralAPIKey string `mapstructure:"mistral_api_key"`
	DefaultModel  string `mapstructure:"default_model"`
}

const (
	DefaultModel      = "haiku-3-5"
	DefaultConfigDir  = "convmit"
	DefaultConfigName = "config"
	ConfigType        = "toml"
)

// Provider names used for key lookup. They match llm.Provider values.
const (
	ProviderClaude  = "claude"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderMistral = "mistral"
)

type providerKey struct {
	configKey string
	flag      string
	envVars   []string
}

var providerKeys = map[string]providerKey{
	ProviderClaude:  {"claude_api_key", "--set-claude-key", []string{"CLAUDE_API_KEY", "ANTHROPIC_API_KEY"}},
	ProviderOpenAI:  {"openai_api_key", "--set-openai-key", []string{"OPENAI_API_KEY"}},
	ProviderGemini:  {"gemini_api_key", "--set-gemini-key", []string{"GEMINI_API_KEY"}},
	ProviderMistral: {"mistral_api_key", "--set-mistral-key", []string{"MISTRAL_API_KEY"}},
}

// DefaultPath returns the per-user config file location,
// e.g. ~/.config/convmit/config.toml on Linux.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config directory: %w", err)
	}
	return filepath.Join(base, DefaultConfigDir, DefaultConfigName+"."+ConfigType), nil
}

// Init sets up viper with the config file and defaults. A missing config
// file is created silently with defaults.
func Init(cfgFile string) error {
	path := cfgFile
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
	}
	viper.SetConfigFile(path)
	viper.SetConfigType(ConfigType)

	viper.SetDefault("default_model", DefaultModel)
	for _, pk := range providerKeys {
		viper.SetDefault(pk.configKey, "")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := viper.WriteConfigAs(path); err != nil {
			return fmt.Errorf("failed to write config file %s: %w", path, err)
		}
	}

	return nil
}

// Get unmarshals the current viper state into a Config.
func Get() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// KeyForProvider resolves the API key for a provider. A key stored in the
// config file wins; the provider's environment variables are the fallback.
// A missing key yields an error naming the flag and environment variable
// that configure it.
func (c *Config) KeyForProvider(provider string) (string, error) {
	pk, ok := providerKeys[provider]
	if !ok {
		return "", fmt.Errorf("unknown provider: %s", provider)
	}

	var key string
	switch provider {
	case ProviderClaude:
		key = c.ClaudeAPIKey
	case ProviderOpenAI:
		key = c.OpenAIAPIKey
	case ProviderGemini:
		key = c.GeminiAPIKey
	case ProviderMistral:
		key = c.MistralAPIKey
	}
	if key != "" {
		return key, nil
	}

	for _, env := range pk.envVars {
		if value := os.Getenv(env); value != "" {
			return value, nil
		}
	}

	return "", fmt.Errorf("%s API key not configured: set it with %s or the %s environment variable",
		provider, pk.flag, pk.envVars[0])
}

// SetProviderKey persists an API key for a provider.
func SetProviderKey(provider, key string) error {
	pk, ok := providerKeys[provider]
	if !ok {
		return fmt.Errorf("unknown provider: %s", provider)
	}
	return persist(pk.configKey, key)
}

// SetDefaultModel persists the default model alias.
func SetDefaultModel(model string) error {
	return persist("default_model", model)
}

func persist(key, value string) error {
	viper.Set(key, value)
	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
