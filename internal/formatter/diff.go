package formatter

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DiffFile is one file section of a unified diff.
type DiffFile struct {
	Path     string
	OldPath  string
	Header   string
	Hunks    []string
	IsBinary bool
	IsRename bool
	Added    int
	Deleted  int
}

// Text reassembles the file's diff section.
func (f DiffFile) Text() string {
	var b strings.Builder
	b.WriteString(f.Header)
	for _, hunk := range f.Hunks {
		b.WriteString(hunk)
	}
	return b.String()
}

// Summary is a one-line replacement for a dropped diff section.
func (f DiffFile) Summary() string {
	switch {
	case f.IsBinary:
		return f.Path + " (binary)"
	case f.IsRename && f.OldPath != "":
		return f.OldPath + " -> " + f.Path + " (renamed)"
	default:
		return f.Path + " (+" + strconv.Itoa(f.Added) + "/-" + strconv.Itoa(f.Deleted) + ")"
	}
}

// Generated and vendored content carries little signal for a commit
// message; its hunks are the first to go when the prompt is too long.
var (
	lowPriorityPatterns = []string{
		"go.sum", "package-lock.json", "yarn.lock", "pnpm-lock.yaml",
		"Pipfile.lock", "composer.lock", "Cargo.lock", "Gemfile.lock",
		"*.lock",
		"*.pb.go", "*_generated.go", "*_gen.go",
		"*.min.js", "*.min.css", "*.map",
	}
	lowPriorityDirs = []string{"vendor", "node_modules", "third_party"}
)

func lowPriority(path string) bool {
	if path == "" {
		return false
	}
	for _, seg := range strings.Split(path, "/") {
		for _, dir := range lowPriorityDirs {
			if seg == dir {
				return true
			}
		}
	}

	base := filepath.Base(path)
	for _, pattern := range lowPriorityPatterns {
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// ParseDiff splits a unified diff into per-file sections. Returns nil when
// the input does not look like a diff.
func ParseDiff(raw string) []DiffFile {
	if !strings.Contains(raw, "diff --") {
		return nil
	}

	var files []DiffFile
	var current *DiffFile
	inHunk := false

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			if current != nil {
				files = append(files, *current)
			}
			newPath, oldPath := headerPaths(line)
			current = &DiffFile{Path: newPath, OldPath: oldPath, Header: line + "\n"}
			if oldPath != "" && newPath != "" && oldPath != newPath {
				current.IsRename = true
			}
			inHunk = false
		case current == nil:
			// Preamble before the first file header, nothing to keep.
		case strings.HasPrefix(line, "@@ "):
			inHunk = true
			current.Hunks = append(current.Hunks, line+"\n")
		case inHunk:
			current.Hunks[len(current.Hunks)-1] += line + "\n"
			switch {
			case strings.HasPrefix(line, "+"):
				current.Added++
			case strings.HasPrefix(line, "-"):
				current.Deleted++
			}
		default:
			current.Header += line + "\n"
			applyHeaderLine(current, line)
		}
	}

	if current != nil {
		files = append(files, *current)
	}
	return files
}

func headerPaths(line string) (newPath, oldPath string) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return "", ""
	}
	oldPath = strings.TrimPrefix(strings.Trim(fields[2], "\""), "a/")
	newPath = strings.TrimPrefix(strings.Trim(fields[3], "\""), "b/")
	return newPath, oldPath
}

func applyHeaderLine(file *DiffFile, line string) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "rename from "):
		file.IsRename = true
		file.OldPath = strings.Trim(strings.TrimPrefix(line, "rename from "), "\"")
	case strings.HasPrefix(line, "rename to "):
		file.IsRename = true
		file.Path = strings.Trim(strings.TrimPrefix(line, "rename to "), "\"")
	case strings.HasPrefix(line, "Binary files "), strings.HasPrefix(line, "GIT binary patch"):
		file.IsBinary = true
	}
}

// ApplyNumstat fills per-file change counts from `git diff --numstat` output,
// which is more reliable than counting hunk lines.
func ApplyNumstat(files []DiffFile, numstat string) {
	stats := make(map[string][2]int)
	for _, line := range strings.Split(numstat, "\n") {
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 {
			continue
		}
		added, errA := strconv.Atoi(parts[0])
		deleted, errD := strconv.Atoi(parts[1])
		if errA != nil || errD != nil {
			continue // binary files report "-"
		}
		stats[strings.TrimSpace(parts[2])] = [2]int{added, deleted}
	}

	for i := range files {
		if stat, ok := stats[files[i].Path]; ok {
			files[i].Added = stat[0]
			files[i].Deleted = stat[1]
		}
	}
}

// TruncateDiff bounds a diff to limit bytes. Low-signal files (lockfiles,
// generated code, vendored trees) are reduced to summary lines first; if the
// result still overflows, remaining sections degrade to summaries and
// finally to a hard UTF-8-safe cut.
func TruncateDiff(diff, numstat string, limit int) string {
	if len(diff) <= limit {
		return diff
	}

	files := ParseDiff(diff)
	if len(files) == 0 {
		return hardTruncate(diff, limit)
	}
	ApplyNumstat(files, numstat)

	var keep, drop []DiffFile
	for _, f := range files {
		if lowPriority(f.Path) {
			drop = append(drop, f)
		} else {
			keep = append(keep, f)
		}
	}

	var b strings.Builder
	for _, f := range keep {
		if !appendSection(&b, f, limit) {
			return truncateToValidUTF8(b.String(), limit)
		}
	}
	for _, f := range drop {
		summary := f.Summary() + "\n"
		if b.Len()+len(summary) > limit {
			break
		}
		b.WriteString(summary)
	}
	return truncateToValidUTF8(b.String(), limit)
}

// appendSection writes the full section if it fits, falling back to the
// summary line. Reports false when not even the summary fits.
func appendSection(b *strings.Builder, f DiffFile, limit int) bool {
	section := f.Text()
	if b.Len()+len(section) <= limit {
		b.WriteString(section)
		return true
	}

	summary := f.Summary() + "\n"
	if b.Len()+len(summary) > limit {
		return false
	}
	b.WriteString(summary)
	return true
}

func hardTruncate(diff string, limit int) string {
	const marker = "...(content is too long, truncated)"
	cut := limit - len(marker)
	if cut <= 0 {
		return truncateToValidUTF8(diff, limit)
	}
	return truncateToValidUTF8(diff, cut) + marker
}

func truncateToValidUTF8(input string, maxBytes int) string {
	if len(input) <= maxBytes {
		return input
	}

	end := maxBytes
	for end > 0 && !utf8.ValidString(input[:end]) {
		end--
	}
	return input[:end]
}
