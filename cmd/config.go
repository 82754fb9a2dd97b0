package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/convmit/convmit/internal/config"
	"github.com/convmit/convmit/internal/llm"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage convmit configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration with API keys masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		cfg, err := config.Get()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "default_model = %s\n", cfg.DefaultModel)
		fmt.Fprintf(out, "claude_api_key = %s\n", maskKey(cfg.ClaudeAPIKey))
		fmt.Fprintf(out, "openai_api_key = %s\n", maskKey(cfg.OpenAIAPIKey))
		fmt.Fprintf(out, "gemini_api_key = %s\n", maskKey(cfg.GeminiAPIKey))
		fmt.Fprintf(out, "mistral_api_key = %s\n", maskKey(cfg.MistralAPIKey))
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider> [key]",
	Short: "Save an API key for a provider (claude, openai, gemini, mistral)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		provider := strings.ToLower(args[0])
		switch provider {
		case config.ProviderClaude, config.ProviderOpenAI, config.ProviderGemini, config.ProviderMistral:
		default:
			return fmt.Errorf("unknown provider %q, expected claude, openai, gemini or mistral", args[0])
		}

		key := ""
		if len(args) == 2 {
			key = args[1]
		} else {
			var err error
			key, err = readSecret(cmd, fmt.Sprintf("Enter %s API key: ", llm.Provider(provider).DisplayName()))
			if err != nil {
				return err
			}
		}
		if key == "" {
			return fmt.Errorf("API key must not be empty")
		}

		if err := config.SetProviderKey(provider, key); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s API key saved to config\n",
			llm.Provider(provider).DisplayName())
		return nil
	},
}

var configSetModelCmd = &cobra.Command{
	Use:   "set-model <model>",
	Short: "Save the default model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		model, err := llm.FindModel(args[0])
		if err != nil {
			return err
		}
		if err := config.SetDefaultModel(model.Alias); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Default model set to %s\n", model.Alias)
		return nil
	},
}

// readSecret reads a key without echoing when stdin is a terminal, and
// falls back to a plain line read otherwise so piped input still works.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	var line string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &line); err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 4) + key[len(key)-4:]
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configSetModelCmd)
}
