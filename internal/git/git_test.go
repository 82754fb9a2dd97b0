package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/convmit/convmit/internal/gitcmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepo creates an isolated git repository in a temp directory and
// returns a Client bound to it.
func newTestRepo(t *testing.T) (*Client, string) {
	t.Helper()

	dir := t.TempDir()
	runner := gitcmd.Runner{Dir: dir}

	for _, args := range [][]string{
		{"init"},
		{"config", "user.name", "convmit test"},
		{"config", "user.email", "test@convmit.local"},
		{"config", "commit.gpgsign", "false"},
	} {
		result, err := runner.Run(args...)
		require.NoError(t, err, "git %v failed: %s", args, result.StderrString(true))
	}

	return NewClient(Options{Dir: dir}), dir
}

func stageFile(t *testing.T, dir, name, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	runner := gitcmd.Runner{Dir: dir}
	result, err := runner.Run("add", name)
	require.NoError(t, err, "git add failed: %s", result.StderrString(true))
}

func TestClient_NotARepository(t *testing.T) {
	client := NewClient(Options{Dir: t.TempDir()})

	assert.False(t, client.IsRepository())

	err := client.CheckRepository()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a git repository")
}

func TestClient_EmptyStagingArea(t *testing.T) {
	client, _ := newTestRepo(t)

	assert.True(t, client.IsRepository())
	require.NoError(t, client.CheckRepository())

	diff, err := client.StagedDiff()
	require.NoError(t, err)
	assert.Empty(t, diff)

	files, err := client.StagedFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestClient_StagedChanges(t *testing.T) {
	client, dir := newTestRepo(t)
	stageFile(t, dir, "hello.go", "package hello\n")

	files, err := client.StagedFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"hello.go"}, files)

	diff, err := client.StagedDiff()
	require.NoError(t, err)
	assert.Contains(t, diff, "hello.go")
	assert.Contains(t, diff, "+package hello")

	stats, err := client.StagedNumstat()
	require.NoError(t, err)
	assert.Contains(t, stats, "hello.go")
}

func TestClient_AddAll(t *testing.T) {
	client, dir := newTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("data\n"), 0o644))

	require.NoError(t, client.AddAll())

	files, err := client.StagedFiles()
	require.NoError(t, err)
	assert.Contains(t, files, "untracked.txt")
}

func TestClient_Commit(t *testing.T) {
	client, dir := newTestRepo(t)
	stageFile(t, dir, "a.txt", "first\n")

	require.NoError(t, client.Commit("feat(a): add a.txt"))

	// Staging area is clean after commit.
	diff, err := client.StagedDiff()
	require.NoError(t, err)
	assert.Empty(t, diff)

	runner := gitcmd.Runner{Dir: dir}
	result, err := runner.Run("log", "-1", "--pretty=%s")
	require.NoError(t, err)
	assert.Equal(t, "feat(a): add a.txt", result.StdoutString(true))
}

func TestClient_CommitFailure(t *testing.T) {
	client, _ := newTestRepo(t)

	// Nothing staged, commit must fail with git's stderr in the message.
	err := client.Commit("chore: empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git commit failed")
}
