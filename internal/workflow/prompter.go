package workflow

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
)

// InteractivePrompter reads the user's decision from stdin.
type InteractivePrompter struct {
	ErrWriter io.Writer
	Stdin     io.Reader
}

func (p *InteractivePrompter) Confirm(message string) (Action, error) {
	stdin := p.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	if f, ok := stdin.(*os.File); ok {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			return ActionCancel, errors.New("stdin is not a terminal, use --yes to skip interactive confirmation")
		}
	}

	fmt.Fprint(p.ErrWriter, "\nProceed with this commit message? [y/n/r/e] (y=yes, n=no, r=regenerate, e=edit): ")
	reader := bufio.NewReader(stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return ActionCancel, fmt.Errorf("failed to read user input: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "":
		return ActionCommit, nil
	case "n":
		return ActionCancel, nil
	case "r":
		return ActionRegenerate, nil
	case "e":
		return ActionEdit, nil
	default:
		fmt.Fprintln(p.ErrWriter, "Invalid input, cancelling")
		return ActionCancel, nil
	}
}

// openEditor lets the user modify the message in $EDITOR. An empty result
// keeps the original message.
func openEditor(message string, errWriter io.Writer) (string, error) {
	tmpFile, err := os.CreateTemp("", "convmit-commit-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	tmpFileName := tmpFile.Name()
	defer os.Remove(tmpFileName)

	if _, err := tmpFile.WriteString(message); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write to temporary file: %w", err)
	}
	tmpFile.Close()

	fmt.Fprintln(errWriter, "Opening editor to modify commit message...")

	cmd := exec.Command(editorCommand(), tmpFileName)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to open editor: %w", err)
	}

	edited, err := os.ReadFile(tmpFileName)
	if err != nil {
		return "", fmt.Errorf("failed to read edited message: %w", err)
	}

	result := strings.TrimSpace(string(edited))
	if result == "" {
		fmt.Fprintln(errWriter, "Empty message provided, keeping original")
	}
	return result, nil
}

func editorCommand() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return "vi"
}
