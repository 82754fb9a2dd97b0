// Package git shells out to the git binary for staging-area inspection and commits.
package git

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/convmit/convmit/internal/gitcmd"
	"github.com/convmit/convmit/internal/stringsutil"
)

// Options configures a git Client.
type Options struct {
	Dir    string
	Logger *log.Logger
}

// Client wraps git operations needed by the commit workflow.
type Client struct {
	runner gitcmd.Runner
}

func NewClient(opts Options) *Client {
	return &Client{runner: gitcmd.Runner{Dir: opts.Dir, Logger: opts.Logger}}
}

// IsRepository reports whether the working directory is inside a git repository.
func (c *Client) IsRepository() bool {
	_, err := c.runner.Run("rev-parse", "--git-dir")
	return err == nil
}

// CheckRepository returns an error if the working directory is not a git repository.
func (c *Client) CheckRepository() error {
	if result, err := c.runner.Run("rev-parse", "--git-dir"); err != nil {
		return fmt.Errorf("not a git repository: %s", result.StderrString(true))
	}
	return nil
}

// StagedDiff returns the diff of all staged changes.
func (c *Client) StagedDiff() (string, error) {
	result, err := c.runner.Run("diff", "--cached")
	if err != nil {
		return "", fmt.Errorf("git diff --cached failed: %s", result.StderrString(true))
	}
	return result.StdoutString(false), nil
}

// StagedNumstat returns per-file added/deleted line counts for staged changes.
func (c *Client) StagedNumstat() (string, error) {
	result, err := c.runner.Run("diff", "--cached", "--numstat")
	if err != nil {
		return "", fmt.Errorf("git diff --cached --numstat failed: %s", result.StderrString(true))
	}
	return result.StdoutString(true), nil
}

// StagedFiles returns the paths of all staged files.
func (c *Client) StagedFiles() ([]string, error) {
	result, err := c.runner.Run("diff", "--cached", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("git diff --cached --name-only failed: %s", result.StderrString(true))
	}
	return stringsutil.SplitNonEmpty(result.StdoutString(true), "\n"), nil
}

// AddAll stages all changes in the working tree.
func (c *Client) AddAll() error {
	if result, err := c.runner.Run("add", "."); err != nil {
		return fmt.Errorf("git add failed: %s", result.StderrString(true))
	}
	return nil
}

// Commit creates a commit with the given message. Extra args are passed
// through to git commit (e.g. --no-verify).
func (c *Client) Commit(message string, args ...string) error {
	commitArgs := append([]string{"commit", "-m", message}, args...)
	if result, err := c.runner.Run(commitArgs...); err != nil {
		return fmt.Errorf("git commit failed: %s", result.StderrString(true))
	}
	return nil
}
