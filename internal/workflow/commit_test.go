package workflow

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/convmit/convmit/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDiff = `diff --git a/auth.go b/auth.go
index 1234567..89abcde 100644
--- a/auth.go
+++ b/auth.go
@@ -1,2 +1,3 @@
 package auth
+func Login() {}
`

type stubGit struct {
	repoErr   error
	diff      string
	numstat   string
	files     []string
	addCalled bool
	commitErr error
	committed []string
	commitArg [][]string
}

func (s *stubGit) CheckRepository() error           { return s.repoErr }
func (s *stubGit) AddAll() error                    { s.addCalled = true; return nil }
func (s *stubGit) StagedDiff() (string, error)      { return s.diff, nil }
func (s *stubGit) StagedNumstat() (string, error)   { return s.numstat, nil }
func (s *stubGit) StagedFiles() ([]string, error)   { return s.files, nil }
func (s *stubGit) Commit(message string, args ...string) error {
	s.committed = append(s.committed, message)
	s.commitArg = append(s.commitArg, args)
	return s.commitErr
}

type stubLLM struct {
	responses []string
	err       error
	calls     int
	prompts   []llm.Request
}

func (s *stubLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	s.prompts = append(s.prompts, req)
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

type stubPrompter struct {
	actions []Action
}

func (s *stubPrompter) Confirm(string) (Action, error) {
	action := s.actions[0]
	if len(s.actions) > 1 {
		s.actions = s.actions[1:]
	}
	return action, nil
}

func newTestFlow(git *stubGit, client *stubLLM, opts Options) *CommitFlow {
	opts.OutWriter = &bytes.Buffer{}
	opts.ErrWriter = &bytes.Buffer{}
	return NewCommitFlow(git, client, opts)
}

func stagedGit() *stubGit {
	return &stubGit{
		diff:    testDiff,
		numstat: "1\t0\tauth.go",
		files:   []string{"auth.go"},
	}
}

func TestCommitFlow_GeneratesAndCommits(t *testing.T) {
	git := stagedGit()
	client := &stubLLM{responses: []string{"Feat(auth): Add login endpoint\n"}}

	flow := newTestFlow(git, client, Options{AutoYes: true})
	require.NoError(t, flow.Run(context.Background()))

	require.Len(t, git.committed, 1)
	assert.Equal(t, "feat(auth): Add login endpoint", git.committed[0])
	assert.Equal(t, 1, client.calls)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0].Prompt, "auth.go")
	assert.Contains(t, client.prompts[0].Prompt, "+func Login() {}")
	assert.Contains(t, client.prompts[0].System, "conventional commit")
}

func TestCommitFlow_NoCommitSkipsCommitStep(t *testing.T) {
	git := stagedGit()
	client := &stubLLM{responses: []string{"fix: handle empty input"}}

	flow := newTestFlow(git, client, Options{AutoYes: true, NoCommit: true})
	require.NoError(t, flow.Run(context.Background()))

	assert.Empty(t, git.committed, "commit must never run with NoCommit set")
	assert.Equal(t, 1, client.calls)
}

func TestCommitFlow_NoStagedChanges(t *testing.T) {
	git := &stubGit{}
	client := &stubLLM{responses: []string{"unused"}}

	flow := newTestFlow(git, client, Options{AutoYes: true})
	err := flow.Run(context.Background())

	require.ErrorIs(t, err, ErrNoChanges)
	assert.Zero(t, client.calls, "remote API must not be called without staged changes")
	assert.Empty(t, git.committed)
}

func TestCommitFlow_NotARepository(t *testing.T) {
	git := &stubGit{repoErr: errors.New("not a git repository")}
	client := &stubLLM{responses: []string{"unused"}}

	flow := newTestFlow(git, client, Options{AutoYes: true})
	err := flow.Run(context.Background())

	require.Error(t, err)
	assert.Zero(t, client.calls)
}

func TestCommitFlow_AddAll(t *testing.T) {
	git := stagedGit()
	client := &stubLLM{responses: []string{"chore: stage everything"}}

	flow := newTestFlow(git, client, Options{AutoYes: true, AddAll: true})
	require.NoError(t, flow.Run(context.Background()))

	assert.True(t, git.addCalled)
}

func TestCommitFlow_NoVerify(t *testing.T) {
	git := stagedGit()
	client := &stubLLM{responses: []string{"fix: a thing"}}

	flow := newTestFlow(git, client, Options{AutoYes: true, NoVerify: true})
	require.NoError(t, flow.Run(context.Background()))

	require.Len(t, git.commitArg, 1)
	assert.Contains(t, git.commitArg[0], "--no-verify")
}

func TestCommitFlow_Regenerate(t *testing.T) {
	git := stagedGit()
	client := &stubLLM{responses: []string{"feat: first attempt", "feat: second attempt"}}

	flow := newTestFlow(git, client, Options{})
	flow.SetPrompter(&stubPrompter{actions: []Action{ActionRegenerate, ActionCommit}})
	require.NoError(t, flow.Run(context.Background()))

	assert.Equal(t, 2, client.calls)
	require.Len(t, git.committed, 1)
	assert.Equal(t, "feat: second attempt", git.committed[0])
}

func TestCommitFlow_Cancel(t *testing.T) {
	git := stagedGit()
	client := &stubLLM{responses: []string{"feat: something"}}

	flow := newTestFlow(git, client, Options{})
	flow.SetPrompter(&stubPrompter{actions: []Action{ActionCancel}})
	require.NoError(t, flow.Run(context.Background()))

	assert.Empty(t, git.committed)
}

func TestCommitFlow_GenerationFailure(t *testing.T) {
	git := stagedGit()
	client := &stubLLM{err: errors.New("connection refused")}

	flow := newTestFlow(git, client, Options{AutoYes: true})
	err := flow.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate commit message")
	assert.Empty(t, git.committed)
}

func TestCommitFlow_UnparseableResponseFallsBack(t *testing.T) {
	git := stagedGit()
	client := &stubLLM{responses: []string{"I made the auth module better"}}

	flow := newTestFlow(git, client, Options{AutoYes: true})
	require.NoError(t, flow.Run(context.Background()))

	require.Len(t, git.committed, 1)
	assert.Equal(t, "I made the auth module better", git.committed[0])
}

func TestCommitFlow_CommitFailurePropagates(t *testing.T) {
	git := stagedGit()
	git.commitErr = errors.New("git commit failed: hook declined")
	client := &stubLLM{responses: []string{"feat: x"}}

	flow := newTestFlow(git, client, Options{AutoYes: true})
	err := flow.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "hook declined")
}

func TestCommitFlow_ExcludeFilteredFromPrompt(t *testing.T) {
	git := stagedGit()
	git.diff = testDiff + "diff --git a/go.sum b/go.sum\n--- a/go.sum\n+++ b/go.sum\n@@ -1 +1,2 @@\n module A\n+module B\n"
	git.files = []string{"auth.go", "go.sum"}
	client := &stubLLM{responses: []string{"feat(auth): add login"}}

	flow := newTestFlow(git, client, Options{AutoYes: true, Exclude: []string{"go.sum"}})
	require.NoError(t, flow.Run(context.Background()))

	require.Len(t, client.prompts, 1)
	assert.NotContains(t, client.prompts[0].Prompt, "go.sum")
	assert.Contains(t, client.prompts[0].Prompt, "auth.go")
}

func TestCommitFlow_EditKeepsMessageWhenEditorMakesNoChange(t *testing.T) {
	t.Setenv("EDITOR", "true")

	git := stagedGit()
	client := &stubLLM{responses: []string{"feat(auth): add login"}}

	flow := newTestFlow(git, client, Options{Edit: true})
	require.NoError(t, flow.Run(context.Background()))

	require.Len(t, git.committed, 1)
	assert.Equal(t, "feat(auth): add login", git.committed[0])
}
