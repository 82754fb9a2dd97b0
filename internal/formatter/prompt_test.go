package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUserPrompt(t *testing.T) {
	prompt, err := BuildUserPrompt(PromptInput{
		Files: []string{"main.go", "go.sum"},
		Diff:  sampleDiff,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Staged files:")
	assert.Contains(t, prompt, "main.go\ngo.sum")
	assert.Contains(t, prompt, "Diff:")
	assert.Contains(t, prompt, `+import "fmt"`)
}

func TestBuildUserPrompt_TruncatesLongDiff(t *testing.T) {
	hugeDiff := sampleDiff + "diff --git a/big.go b/big.go\n--- a/big.go\n+++ b/big.go\n@@ -1 +1 @@\n" +
		strings.Repeat("+padding line for a very long diff\n", 400)

	prompt, err := BuildUserPrompt(PromptInput{
		Files: []string{"main.go", "go.sum", "big.go"},
		Diff:  hugeDiff,
	})
	require.NoError(t, err)

	// File list and framing add a bit on top of the bounded diff.
	assert.Less(t, len(prompt), diffPromptLimit+500)
}

func TestBuildUserPrompt_OnlyFilter(t *testing.T) {
	prompt, err := BuildUserPrompt(PromptInput{
		Files: []string{"main.go", "go.sum"},
		Diff:  sampleDiff,
		Only:  []string{"main.go"},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "main.go")
	assert.NotContains(t, prompt, "go.sum")
}

func TestBuildUserPrompt_ExcludeFilter(t *testing.T) {
	prompt, err := BuildUserPrompt(PromptInput{
		Files:   []string{"main.go", "go.sum"},
		Diff:    sampleDiff,
		Exclude: []string{"go.sum"},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "main.go")
	assert.NotContains(t, prompt, "go.sum")
}

func TestBuildUserPrompt_ExcludeGlob(t *testing.T) {
	prompt, err := BuildUserPrompt(PromptInput{
		Files:   []string{"cmd/root.go", "docs/guide.md"},
		Diff:    "",
		Exclude: []string{"*.md"},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "cmd/root.go")
	assert.NotContains(t, prompt, "guide.md")
}

func TestBuildUserPrompt_FiltersRemoveEverything(t *testing.T) {
	_, err := BuildUserPrompt(PromptInput{
		Files: []string{"main.go"},
		Diff:  sampleDiff,
		Only:  []string{"nonexistent.go"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no staged files left")
}

func TestBuildUserPrompt_InvalidPattern(t *testing.T) {
	_, err := BuildUserPrompt(PromptInput{
		Files:   []string{"main.go"},
		Diff:    sampleDiff,
		Exclude: []string{"[invalid"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file pattern")
}

func TestMatchAny(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"exact match", []string{"main.go"}, "main.go", true},
		{"no match", []string{"main.go"}, "other.go", false},
		{"glob on base name", []string{"*.md"}, "docs/readme.md", true},
		{"directory prefix", []string{"internal"}, "internal/git/git.go", true},
		{"directory prefix with slash", []string{"cmd/"}, "cmd/root.go", true},
		{"empty patterns", nil, "main.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchAny(tt.patterns, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSystemPrompt_MentionsAllTypes(t *testing.T) {
	for _, typ := range []string{"feat", "fix", "docs", "style", "refactor", "test", "chore", "perf", "ci"} {
		assert.Contains(t, SystemPrompt, "- "+typ+":")
	}
	assert.Contains(t, SystemPrompt, "Return ONLY the commit message")
}
