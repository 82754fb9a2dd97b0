// Package workflow orchestrates the generate-and-commit pipeline.
package workflow

// GitClient abstracts git operations for testability.
type GitClient interface {
	CheckRepository() error
	AddAll() error
	StagedDiff() (string, error)
	StagedNumstat() (string, error)
	StagedFiles() ([]string, error)
	Commit(message string, args ...string) error
}

// Action is the user's decision on a generated message.
type Action int

const (
	ActionCommit Action = iota
	ActionCancel
	ActionRegenerate
	ActionEdit
)

// Prompter asks the user what to do with a generated message.
type Prompter interface {
	Confirm(message string) (Action, error)
}
