package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/driftwatch/driftwatch/pkg/domain/model"
)

// AnalyzeDiffStats summarizes a raw diff: file and line counts, top file
// extensions, and content hints. Returns a short one-line description used
// by the prompt builder and the commit summary.
func AnalyzeDiffStats(diffContent string) string {
	if strings.TrimSpace(diffContent) == "" {
		return "No diff content available."
	}

	var (
		totalFiles, insertions, deletions int
		extensions                        = map[string]int{}
		hasTests, hasDocs, hasConfig      bool
	)

	for _, line := range strings.Split(diffContent, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git"):
			totalFiles++
			if name := parseDiffFileName(line); name != "" {
				if idx := strings.LastIndex(name, "."); idx >= 0 && idx < len(name)-1 {
					extensions[name[idx+1:]]++
				}
			}
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			insertions++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			deletions++
		}

		lower := strings.ToLower(line)
		if strings.Contains(lower, "test") {
			hasTests = true
		}
		if strings.Contains(lower, "doc") || strings.Contains(lower, "readme") {
			hasDocs = true
		}
		if strings.Contains(lower, "config") || strings.Contains(lower, "setup") {
			hasConfig = true
		}
	}

	var parts []string
	if totalFiles > 0 {
		parts = append(parts, fmt.Sprintf("Files changed: %d", totalFiles))
	}
	if insertions > 0 || deletions > 0 {
		parts = append(parts, fmt.Sprintf("Lines: +%d -%d", insertions, deletions))
	}
	if len(extensions) > 0 {
		parts = append(parts, "File types: "+topExtensions(extensions, 3))
	}
	if hasTests {
		parts = append(parts, "Contains test changes")
	}
	if hasDocs {
		parts = append(parts, "Contains documentation changes")
	}
	if hasConfig {
		parts = append(parts, "Contains configuration changes")
	}

	if len(parts) == 0 {
		return "Standard code changes"
	}
	return strings.Join(parts, " | ")
}

func topExtensions(extensions map[string]int, n int) string {
	type extCount struct {
		ext   string
		count int
	}
	counts := make([]extCount, 0, len(extensions))
	for ext, count := range extensions {
		counts = append(counts, extCount{ext, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].ext < counts[j].ext
	})

	if len(counts) > n {
		counts = counts[:n]
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s (%d)", c.ext, c.count))
	}
	return strings.Join(parts, ", ")
}

// CategorizeCommits buckets commit messages by the fixed keyword taxonomy.
// Every message lands in exactly one bucket.
func CategorizeCommits(commitMessages []string) map[model.CommitCategory]int {
	categories := map[model.CommitCategory]int{
		model.CategoryFeature:  0,
		model.CategoryFix:      0,
		model.CategoryDocs:     0,
		model.CategoryRefactor: 0,
		model.CategoryTest:     0,
		model.CategoryChore:    0,
		model.CategoryOther:    0,
	}

	for _, message := range commitMessages {
		categories[categorizeCommit(message)]++
	}
	return categories
}

func categorizeCommit(message string) model.CommitCategory {
	lower := strings.ToLower(message)

	switch {
	case strings.HasPrefix(lower, "feat:") || strings.HasPrefix(lower, "feat(") ||
		strings.Contains(lower, "feature:"):
		return model.CategoryFeature
	case strings.HasPrefix(lower, "fix:") || strings.HasPrefix(lower, "fix(") ||
		strings.Contains(lower, "bug:"):
		return model.CategoryFix
	case strings.HasPrefix(lower, "doc:") || strings.Contains(lower, "docs:") ||
		strings.Contains(lower, "readme"):
		return model.CategoryDocs
	case strings.HasPrefix(lower, "refactor:") || strings.Contains(lower, "clean"):
		return model.CategoryRefactor
	case strings.HasPrefix(lower, "test:") || strings.Contains(lower, "spec"):
		return model.CategoryTest
	case strings.HasPrefix(lower, "chore:") || strings.Contains(lower, "update") ||
		strings.Contains(lower, "bump"):
		return model.CategoryChore
	default:
		return model.CategoryOther
	}
}
