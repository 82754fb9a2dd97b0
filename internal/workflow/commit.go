package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/convmit/convmit/internal/formatter"
	"github.com/convmit/convmit/internal/llm"
	"github.com/convmit/convmit/internal/ui"
)

// ErrNoChanges signals an empty staging area; the remote API is never
// called in that case.
var ErrNoChanges = errors.New("no staged changes found")

var (
	headerColor  = color.New(color.FgBlue, color.Bold)
	messageColor = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgYellow)
)

// Options configures a CommitFlow run.
type Options struct {
	NoCommit bool
	AddAll   bool
	AutoYes  bool
	Edit     bool
	NoVerify bool
	Exclude  []string
	Only     []string

	OutWriter io.Writer
	ErrWriter io.Writer
}

// CommitFlow runs the pipeline: staged changes -> prompt -> LLM ->
// parse/format -> optional commit.
type CommitFlow struct {
	git      GitClient
	llm      llm.Client
	opts     Options
	prompter Prompter
}

func NewCommitFlow(git GitClient, client llm.Client, opts Options) *CommitFlow {
	if opts.OutWriter == nil {
		opts.OutWriter = os.Stdout
	}
	if opts.ErrWriter == nil {
		opts.ErrWriter = os.Stderr
	}
	return &CommitFlow{
		git:      git,
		llm:      client,
		opts:     opts,
		prompter: &InteractivePrompter{ErrWriter: opts.ErrWriter},
	}
}

// SetPrompter replaces the interactive prompter, used by tests.
func (f *CommitFlow) SetPrompter(p Prompter) {
	f.prompter = p
}

func (f *CommitFlow) Run(ctx context.Context) error {
	if err := f.git.CheckRepository(); err != nil {
		return err
	}

	if f.opts.AddAll {
		if err := f.git.AddAll(); err != nil {
			return fmt.Errorf("git add failed: %w", err)
		}
		fmt.Fprintln(f.opts.ErrWriter, "All changes have been added to the staging area.")
	}

	prompt, err := f.buildPrompt()
	if err != nil {
		return err
	}

	for {
		message, err := f.generate(ctx, prompt)
		if err != nil {
			return err
		}

		action := ActionCommit
		if f.opts.Edit {
			action = ActionEdit
		} else if !f.opts.AutoYes {
			if action, err = f.prompter.Confirm(message); err != nil {
				return err
			}
		}

		switch action {
		case ActionCancel:
			infoColor.Fprintln(f.opts.ErrWriter, "Commit cancelled")
			return nil
		case ActionRegenerate:
			fmt.Fprintln(f.opts.ErrWriter, "Regenerating commit message...")
			continue
		case ActionEdit:
			edited, err := openEditor(message, f.opts.ErrWriter)
			if err != nil {
				return err
			}
			if edited != "" {
				message = formatter.FormatCommitMessage(edited)
			}
			fallthrough
		case ActionCommit:
			return f.finish(message)
		}
	}
}

// buildPrompt collects staged changes and assembles the user prompt.
// Returns ErrNoChanges before any network traffic when nothing is staged.
func (f *CommitFlow) buildPrompt() (string, error) {
	diff, err := f.git.StagedDiff()
	if err != nil {
		return "", fmt.Errorf("failed to get staged diff: %w", err)
	}
	if diff == "" {
		return "", ErrNoChanges
	}

	files, err := f.git.StagedFiles()
	if err != nil {
		return "", fmt.Errorf("failed to list staged files: %w", err)
	}
	if len(files) == 0 {
		return "", ErrNoChanges
	}

	numstat, err := f.git.StagedNumstat()
	if err != nil {
		return "", fmt.Errorf("failed to get staged diff stats: %w", err)
	}

	return formatter.BuildUserPrompt(formatter.PromptInput{
		Files:   files,
		Diff:    diff,
		Numstat: numstat,
		Only:    f.opts.Only,
		Exclude: f.opts.Exclude,
	})
}

func (f *CommitFlow) generate(ctx context.Context, prompt string) (string, error) {
	progress := ui.NewProgress(f.opts.ErrWriter, "Generating commit message...")
	progress.Start()
	raw, err := f.llm.Generate(ctx, llm.Request{System: formatter.SystemPrompt, Prompt: prompt})
	progress.Stop()

	if err != nil {
		return "", fmt.Errorf("failed to generate commit message: %w", err)
	}

	message := formatter.FormatCommitMessage(raw)
	if message == "" {
		return "", llm.ErrEmptyResponse
	}

	headerColor.Fprintln(f.opts.ErrWriter, "Generated commit message:")
	messageColor.Fprintln(f.opts.OutWriter, message)
	return message, nil
}

func (f *CommitFlow) finish(message string) error {
	if f.opts.NoCommit {
		return nil
	}

	var args []string
	if f.opts.NoVerify {
		args = append(args, "--no-verify")
	}

	if err := f.git.Commit(message, args...); err != nil {
		return err
	}

	successColor.Fprintln(f.opts.ErrWriter, "✓ Committed with generated message")
	return nil
}
