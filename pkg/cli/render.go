package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/driftwatch/driftwatch/pkg/domain/model"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	sectionColor = color.New(color.Bold)

	severityColors = map[model.Severity]*color.Color{
		model.SeverityCritical: color.New(color.FgRed, color.Bold),
		model.SeverityHigh:     color.New(color.FgRed),
		model.SeverityMedium:   color.New(color.FgYellow),
		model.SeverityLow:      color.New(color.FgCyan),
	}
)

func severityColor(s model.Severity) *color.Color {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return color.New(color.FgWhite)
}

func renderJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode output")
	}
	return nil
}

func renderAnalysis(repoName string, analysis *model.ChangeAnalysis, jsonOut bool) error {
	if jsonOut {
		return renderJSON(analysis)
	}

	headerColor.Printf("=== %s ===\n", repoName)
	fmt.Printf("%s\n", analysis.Summary)
	fmt.Printf("Confidence: %.2f\n", analysis.Confidence)

	renderList("Breaking Changes", analysis.BreakingChanges)
	renderList("New Features", analysis.NewFeatures)
	renderList("Bug Fixes", analysis.BugFixes)
	renderList("Security Updates", analysis.SecurityUpdates)
	renderList("Deprecations", analysis.Deprecations)
	renderList("Recommendations", analysis.Recommendations)

	if len(analysis.DetailedBreakingChanges) > 0 {
		sectionColor.Println("\nDetected Breaking Changes:")
		for _, change := range analysis.DetailedBreakingChanges {
			fmt.Printf("  - [%s] %s: %s\n",
				severityColor(change.Severity).Sprint(change.Severity),
				change.Kind, change.Description)
		}
	}
	if len(analysis.DetailedSecurityUpdates) > 0 {
		sectionColor.Println("\nDetected Security Updates:")
		for _, update := range analysis.DetailedSecurityUpdates {
			fmt.Printf("  - [%s] %s: %s\n",
				severityColor(update.Severity).Sprint(update.Severity),
				update.Kind, update.Description)
		}
	}
	if len(analysis.DetailedDeprecations) > 0 {
		sectionColor.Println("\nDetected Deprecations:")
		for _, dep := range analysis.DetailedDeprecations {
			fmt.Printf("  - [%s] %s: %s\n",
				severityColor(dep.Severity).Sprint(dep.Severity),
				dep.Kind, dep.Description)
		}
	}

	fmt.Println()
	return nil
}

func renderList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	sectionColor.Printf("\n%s:\n", title)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func renderDetectionReport(report model.DetectionReport, jsonOut bool) error {
	if jsonOut {
		return renderJSON(report)
	}

	headerColor.Printf("=== %s ===\n", report.Repository)
	fmt.Printf("Total issues: %d\n", report.TotalIssues)
	if report.HasCriticalIssues {
		severityColor(model.SeverityCritical).Println("Critical issues detected")
	}

	if len(report.BreakingChanges) > 0 {
		sectionColor.Println("\nBreaking Changes:")
		for _, change := range report.BreakingChanges {
			fmt.Printf("  - [%s] %s: %s\n",
				severityColor(change.Severity).Sprint(change.Severity),
				change.Kind, change.Description)
		}
	}
	if len(report.SecurityUpdates) > 0 {
		sectionColor.Println("\nSecurity Updates:")
		for _, update := range report.SecurityUpdates {
			fmt.Printf("  - [%s] %s: %s\n",
				severityColor(update.Severity).Sprint(update.Severity),
				update.Kind, update.Description)
			if update.CVEID != "" {
				fmt.Printf("    CVE: %s\n", update.CVEID)
			}
		}
	}
	if len(report.Deprecations) > 0 {
		sectionColor.Println("\nDeprecations:")
		for _, dep := range report.Deprecations {
			fmt.Printf("  - [%s] %s: %s\n",
				severityColor(dep.Severity).Sprint(dep.Severity),
				dep.Kind, dep.Description)
		}
	}

	fmt.Println()
	return nil
}

func renderSummary(summary model.CommitSummary, jsonOut bool) error {
	if jsonOut {
		return renderJSON(summary)
	}

	headerColor.Printf("=== %s ===\n", summary.Repository)
	fmt.Printf("Commits: %d\n", summary.TotalCommits)
	if summary.LastCommit != "" {
		fmt.Printf("Last commit: %s\n", summary.LastCommit)
	}
	fmt.Printf("Changes: %s\n", summary.ChangeSummary)

	type bucket struct {
		category model.CommitCategory
		count    int
	}
	buckets := make([]bucket, 0, len(summary.CommitTypes))
	for category, count := range summary.CommitTypes {
		if count > 0 {
			buckets = append(buckets, bucket{category, count})
		}
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].category < buckets[j].category
	})

	if len(buckets) > 0 {
		sectionColor.Println("\nCommit types:")
		for _, b := range buckets {
			fmt.Printf("  %-10s %d\n", b.category, b.count)
		}
	}

	fmt.Println()
	return nil
}

func renderUpstreamInfo(info model.RemoteRepository) {
	headerColor.Printf("=== Upstream %s ===\n", info.FullName())
	if info.Description != "" {
		fmt.Printf("%s\n", info.Description)
	}
	fmt.Printf("Default branch: %s | Stars: %d | Forks: %d | Open issues: %d\n",
		info.DefaultBranch, info.Stars, info.Forks, info.OpenIssues)
	if info.Archived {
		severityColor(model.SeverityHigh).Println("Upstream repository is archived")
	}
	fmt.Println()
}
