// Package cmd wires the CLI commands together.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/convmit/convmit/internal/config"
	"github.com/convmit/convmit/internal/git"
	"github.com/convmit/convmit/internal/llm"
	"github.com/convmit/convmit/internal/workflow"
)

var (
	cfgFile       string
	modelName     string
	noCommit      bool
	addAll        bool
	autoYes       bool
	editMessage   bool
	noVerify      bool
	verbose       bool
	excludeFiles  []string
	onlyFiles     []string
	setClaudeKey  string
	setOpenAIKey  string
	setGeminiKey  string
	setMistralKey string
	setModel      string
	listModels    bool
	configErr     error

	rootCmd = &cobra.Command{
		Use:   "convmit",
		Short: "Generate conventional commit messages from staged changes using an LLM",
		Long: `convmit inspects staged git changes, asks a hosted LLM (Claude, OpenAI,
Gemini or Mistral) for a conventional commit message, and optionally
performs the commit.`,
		Version:       fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		RunE:          runRoot,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Configuration file path (default is the per-user config directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable debug logging")

	rootCmd.Flags().StringVarP(&modelName, "model", "m", "", "Model to use (see --list-models)")
	rootCmd.Flags().BoolVar(&noCommit, "no-commit", false, "Print the generated message, do not commit")
	rootCmd.Flags().BoolVarP(&addAll, "all", "a", false, "Stage all changes before generating")
	rootCmd.Flags().BoolVarP(&autoYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.Flags().BoolVarP(&editMessage, "edit", "e", false, "Edit the generated message before using it")
	rootCmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip pre-commit hooks")
	rootCmd.Flags().StringSliceVar(&excludeFiles, "exclude", nil, "Files to exclude from the generated prompt")
	rootCmd.Flags().StringSliceVar(&onlyFiles, "only", nil, "Limit the prompt to the specified files")

	rootCmd.Flags().StringVar(&setClaudeKey, "set-claude-key", "", "Save the Claude API key to config and exit")
	rootCmd.Flags().StringVar(&setOpenAIKey, "set-openai-key", "", "Save the OpenAI API key to config and exit")
	rootCmd.Flags().StringVar(&setGeminiKey, "set-gemini-key", "", "Save the Gemini API key to config and exit")
	rootCmd.Flags().StringVar(&setMistralKey, "set-mistral-key", "", "Save the Mistral API key to config and exit")
	rootCmd.Flags().StringVar(&setModel, "set-default-model", "", "Save the default model to config and exit")
	rootCmd.Flags().BoolVar(&listModels, "list-models", false, "List all available models and exit")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	configErr = config.Init(cfgFile)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

func runRoot(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return fmt.Errorf("configuration error: %w", configErr)
	}

	if done, err := handleConfigFlags(cmd); done || err != nil {
		return err
	}

	if listModels {
		printModels(cmd.OutOrStdout())
		return nil
	}

	cfg, err := config.Get()
	if err != nil {
		return err
	}

	name := modelName
	if name == "" {
		name = cfg.DefaultModel
	}
	model, err := llm.FindModel(name)
	if err != nil {
		return err
	}

	apiKey, err := cfg.KeyForProvider(string(model.Provider))
	if err != nil {
		return err
	}

	logger := newLogger()
	client, err := llm.NewClient(llm.Options{APIKey: apiKey, Model: model, Logger: logger})
	if err != nil {
		return err
	}

	flow := workflow.NewCommitFlow(
		git.NewClient(git.Options{Logger: logger}),
		client,
		workflow.Options{
			NoCommit: noCommit,
			AddAll:   addAll,
			AutoYes:  autoYes,
			Edit:     editMessage,
			NoVerify: noVerify,
			Exclude:  excludeFiles,
			Only:     onlyFiles,
		},
	)

	return handleErrors(flow.Run(cmd.Context()))
}

// handleConfigFlags processes the write-and-exit flags. Reports done when
// at least one of them was given.
func handleConfigFlags(cmd *cobra.Command) (bool, error) {
	done := false

	keyFlags := []struct {
		provider string
		value    string
	}{
		{config.ProviderClaude, setClaudeKey},
		{config.ProviderOpenAI, setOpenAIKey},
		{config.ProviderGemini, setGeminiKey},
		{config.ProviderMistral, setMistralKey},
	}

	for _, kf := range keyFlags {
		if kf.value == "" {
			continue
		}
		if err := config.SetProviderKey(kf.provider, kf.value); err != nil {
			return true, err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s API key saved to config\n",
			llm.Provider(kf.provider).DisplayName())
		done = true
	}

	if setModel != "" {
		model, err := llm.FindModel(setModel)
		if err != nil {
			return true, err
		}
		if err := config.SetDefaultModel(model.Alias); err != nil {
			return true, err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Default model set to %s\n", model.Alias)
		done = true
	}

	return done, nil
}

func handleErrors(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, workflow.ErrNoChanges) {
		if addAll {
			return err
		}
		return fmt.Errorf("%w\nHint: stage files with 'git add', or use -a to stage all changes", err)
	}

	return err
}
