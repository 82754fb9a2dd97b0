// Package formatter builds the LLM prompt from staged changes and parses
// generated text back into a conventional commit message.
package formatter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/convmit/convmit/internal/stringsutil"
)

// diffPromptLimit bounds the diff portion of a prompt in bytes.
const diffPromptLimit = 4000

// SystemPrompt instructs the model to answer with a single conventional
// commit line and nothing else.
const SystemPrompt = `Generate a conventional commit message based on the staged files and git diff provided by the user.

FORMAT: type(scope): description
- Use lowercase for type and description
- Scope is optional but recommended (file/module/feature affected)
- Description should be 50-72 characters, imperative mood
- Add '!' after type for breaking changes

COMMIT TYPES:
- feat: new feature or enhancement
- fix: bug fix or error correction
- docs: documentation changes only
- style: formatting, whitespace (no logic changes)
- refactor: code restructuring (no feature/bug changes)
- test: adding or updating tests
- chore: maintenance, deps, config, build
- perf: performance improvements
- ci: CI/CD pipeline changes

SCOPE GUIDELINES:
- Use filename/module for single file changes
- Use feature name for multi-file features
- Use 'readme' for README changes
- Omit scope for broad changes

EXAMPLES:
- feat(auth): add OAuth2 login support
- fix(parser): handle empty input correctly
- docs(readme): update installation instructions
- style: format code with gofmt
- chore(deps): update go-openai to v1.41

INSTRUCTIONS:
- Analyze the changes to determine the most appropriate type
- Look for breaking changes (API changes, removed features)
- Focus on the 'why' not the 'what' in the description
- Return ONLY the commit message, no explanations`

// PromptInput carries everything needed to build the user prompt.
type PromptInput struct {
	Files   []string
	Diff    string
	Numstat string
	Only    []string // limit the prompt to matching paths
	Exclude []string // drop matching paths from the prompt
}

// BuildUserPrompt assembles the staged file list and (bounded) diff into the
// user half of the prompt. Only/Exclude filters are applied first.
func BuildUserPrompt(in PromptInput) (string, error) {
	files, diff := in.Files, in.Diff
	if len(in.Only) > 0 || len(in.Exclude) > 0 {
		var err error
		files, diff, err = filterChanges(in)
		if err != nil {
			return "", err
		}
		if len(files) == 0 {
			return "", fmt.Errorf("no staged files left after applying --only/--exclude filters")
		}
	}

	diff = TruncateDiff(diff, in.Numstat, diffPromptLimit)

	var b strings.Builder
	b.WriteString("Staged files:\n\n")
	b.WriteString(strings.Join(files, "\n"))
	b.WriteString("\n\nDiff:\n\n")
	b.WriteString(diff)
	return b.String(), nil
}

func filterChanges(in PromptInput) ([]string, string, error) {
	keepPath := func(path string) (bool, error) {
		if len(in.Only) > 0 {
			ok, err := matchAny(in.Only, path)
			if err != nil || !ok {
				return false, err
			}
		}
		excluded, err := matchAny(in.Exclude, path)
		if err != nil {
			return false, err
		}
		return !excluded, nil
	}

	var files []string
	for _, f := range in.Files {
		keep, err := keepPath(f)
		if err != nil {
			return nil, "", err
		}
		if keep {
			files = append(files, f)
		}
	}

	sections := ParseDiff(in.Diff)
	if sections == nil {
		return stringsutil.UniqueStrings(files), in.Diff, nil
	}

	var b strings.Builder
	for _, section := range sections {
		keep, err := keepPath(section.Path)
		if err != nil {
			return nil, "", err
		}
		if keep {
			b.WriteString(section.Text())
		}
	}
	return stringsutil.UniqueStrings(files), b.String(), nil
}

// matchAny matches path against patterns by exact name, glob pattern, or
// directory prefix.
func matchAny(patterns []string, path string) (bool, error) {
	for _, pattern := range patterns {
		if pattern == path || strings.HasPrefix(path, strings.TrimSuffix(pattern, "/")+"/") {
			return true, nil
		}
		matched, err := filepath.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true, nil
		}
	}
	return false, nil
}
