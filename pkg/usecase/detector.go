package usecase

import (
	"fmt"
	"strings"

	"github.com/driftwatch/driftwatch/pkg/domain/model"
)

// Detectors are pure functions of their inputs: no I/O, deterministic, and
// an empty diff plus an empty commit list always yields an empty result.

// BreakingChangeDetector scans diffs and commit messages for breaking
// change signatures.
type BreakingChangeDetector struct{}

// NewBreakingChangeDetector creates a new BreakingChangeDetector instance
func NewBreakingChangeDetector() *BreakingChangeDetector {
	return &BreakingChangeDetector{}
}

// Detect returns all breaking changes found in the diff and commit
// messages. Findings from commit messages and diff content are both
// retained; nothing is deduplicated.
func (d *BreakingChangeDetector) Detect(diffContent string, commitMessages []string) []model.BreakingChange {
	changes := []model.BreakingChange{}

	for _, msg := range commitMessages {
		changes = append(changes, d.analyzeCommitMessage(msg)...)
	}
	changes = append(changes, d.analyzeDiffContent(diffContent)...)

	return changes
}

// analyzeCommitMessage yields at most one finding per message: an explicit
// breaking-change marker always wins over a deprecation marker.
func (d *BreakingChangeDetector) analyzeCommitMessage(message string) []model.BreakingChange {
	switch {
	case explicitBreakingRe.MatchString(message):
		return []model.BreakingChange{{
			Kind:               "explicit_breaking_change",
			Description:        message,
			Severity:           model.SeverityHigh,
			AffectedComponents: []string{model.UnknownComponent},
		}}
	case deprecationMarkerRe.MatchString(message):
		return []model.BreakingChange{{
			Kind:               "deprecation",
			Description:        message,
			Severity:           model.SeverityMedium,
			AffectedComponents: []string{model.UnknownComponent},
		}}
	default:
		return nil
	}
}

func (d *BreakingChangeDetector) analyzeDiffContent(diffContent string) []model.BreakingChange {
	var changes []model.BreakingChange

	for _, file := range splitDiffFiles(diffContent) {
		changes = append(changes, d.analyzeFileChanges(file)...)
	}
	return changes
}

// analyzeFileChanges applies the independent per-file predicates. Each
// predicate that fires contributes one finding.
func (d *BreakingChangeDetector) analyzeFileChanges(file diffFile) []model.BreakingChange {
	var changes []model.BreakingChange

	components := []string{model.UnknownComponent}
	if file.Name != "" {
		components = []string{file.Name}
	}

	if d.hasAPISignatureChanges(file.ChangedLines) {
		changes = append(changes, model.BreakingChange{
			Kind:               "api_signature_change",
			Description:        fmt.Sprintf("API signature modified in %s", file.displayName()),
			Severity:           model.SeverityHigh,
			AffectedComponents: components,
		})
	}
	if d.hasConfigurationChanges(file.Name, file.ChangedLines) {
		changes = append(changes, model.BreakingChange{
			Kind:               "configuration_change",
			Description:        fmt.Sprintf("Configuration changed in %s", file.displayName()),
			Severity:           model.SeverityMedium,
			AffectedComponents: components,
			MigrationGuidance:  "Review configuration changes and update local settings",
		})
	}
	if d.hasDatabaseChanges(file.Name, file.ChangedLines) {
		changes = append(changes, model.BreakingChange{
			Kind:               "database_change",
			Description:        fmt.Sprintf("Database schema changed in %s", file.displayName()),
			Severity:           model.SeverityHigh,
			AffectedComponents: components,
			MigrationGuidance:  "Run pending migrations before deploying",
		})
	}
	if d.hasDependencyChanges(file.Name, file.ChangedLines) {
		changes = append(changes, model.BreakingChange{
			Kind:               "dependency_change",
			Description:        fmt.Sprintf("Dependencies changed in %s", file.displayName()),
			Severity:           model.SeverityMedium,
			AffectedComponents: components,
			MigrationGuidance:  "Check for incompatible dependency versions",
		})
	}

	return changes
}

func (d *BreakingChangeDetector) hasAPISignatureChanges(content string) bool {
	return matchesAny(apiSignaturePatterns, content)
}

func (d *BreakingChangeDetector) hasConfigurationChanges(filename, content string) bool {
	if hasConfigSuffix(filename) || configFileNameRe.MatchString(filename) {
		return true
	}
	return configContentRe.MatchString(content)
}

func (d *BreakingChangeDetector) hasDatabaseChanges(filename, content string) bool {
	return databaseFileRe.MatchString(filename) || databaseContentRe.MatchString(content)
}

func (d *BreakingChangeDetector) hasDependencyChanges(filename, content string) bool {
	base := strings.ToLower(filename)
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return dependencyManifests[base] || dependencyContentRe.MatchString(content)
}

// SecurityDeprecationDetector scans for security updates and deprecations.
type SecurityDeprecationDetector struct{}

// NewSecurityDeprecationDetector creates a new SecurityDeprecationDetector instance
func NewSecurityDeprecationDetector() *SecurityDeprecationDetector {
	return &SecurityDeprecationDetector{}
}

// DetectSecurityUpdates returns security-relevant findings from the diff
// and commit messages, one per matched category per distinct line.
func (d *SecurityDeprecationDetector) DetectSecurityUpdates(diffContent string, commitMessages []string) []model.SecurityUpdate {
	updates := []model.SecurityUpdate{}
	seen := map[string]bool{}

	for _, line := range scanLines(diffContent, commitMessages) {
		for _, category := range securityCategories {
			if !matchesAny(securityPatterns[category], line) {
				continue
			}
			key := category + "\x00" + line
			if seen[key] {
				continue
			}
			seen[key] = true

			updates = append(updates, model.SecurityUpdate{
				Kind:                category,
				Description:         truncateLine(line),
				Severity:            d.determineSecuritySeverity(line),
				CVEID:               strings.ToUpper(cveRe.FindString(line)),
				AffectedComponents:  extractAffectedComponents(line),
				RemediationGuidance: "Review the security change and update dependent code",
			})
		}
	}
	return updates
}

// DetectDeprecations returns deprecation findings from the diff and commit
// messages.
func (d *SecurityDeprecationDetector) DetectDeprecations(diffContent string, commitMessages []string) []model.Deprecation {
	deprecations := []model.Deprecation{}
	seen := map[string]bool{}

	for _, line := range scanLines(diffContent, commitMessages) {
		for _, category := range deprecationCategories {
			if !matchesAny(deprecationPatterns[category], line) {
				continue
			}
			key := category + "\x00" + line
			if seen[key] {
				continue
			}
			seen[key] = true

			deprecations = append(deprecations, model.Deprecation{
				Kind:               category,
				Description:        truncateLine(line),
				Severity:           d.determineDeprecationSeverity(line),
				AffectedComponents: extractAffectedComponents(line),
			})
		}
	}
	return deprecations
}

func (d *SecurityDeprecationDetector) determineSecuritySeverity(text string) model.Severity {
	switch {
	case criticalSecurityRe.MatchString(text):
		return model.SeverityCritical
	case highSecurityRe.MatchString(text):
		return model.SeverityHigh
	case mediumSecurityRe.MatchString(text):
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

func (d *SecurityDeprecationDetector) determineDeprecationSeverity(text string) model.Severity {
	switch {
	case highDeprecationRe.MatchString(text):
		return model.SeverityHigh
	case mediumDeprecationRe.MatchString(text):
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// diffFile is one file section of a unified diff with its added and removed
// lines collapsed into ChangedLines.
type diffFile struct {
	Name         string
	ChangedLines string
}

func (f diffFile) displayName() string {
	if f.Name == "" {
		return model.UnknownComponent
	}
	return f.Name
}

// splitDiffFiles cuts a unified diff into per-file sections. Only added and
// removed lines are kept for predicate matching; context lines carry no
// change signal.
func splitDiffFiles(diffContent string) []diffFile {
	if strings.TrimSpace(diffContent) == "" {
		return nil
	}

	var files []diffFile
	var current *diffFile

	for _, line := range strings.Split(diffContent, "\n") {
		if strings.HasPrefix(line, "diff --git") {
			if current != nil {
				files = append(files, *current)
			}
			current = &diffFile{Name: parseDiffFileName(line)}
			continue
		}
		if current == nil {
			// Diff text without a header still gets scanned, unattributed.
			current = &diffFile{}
		}
		if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
			continue
		}
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			current.ChangedLines += strings.TrimPrefix(strings.TrimPrefix(line, "+"), "-") + "\n"
		}
	}
	if current != nil {
		files = append(files, *current)
	}
	return files
}

// parseDiffFileName extracts the post-change path from a "diff --git a/x b/y"
// header line.
func parseDiffFileName(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return ""
	}
	return strings.TrimPrefix(fields[3], "b/")
}

// scanLines yields all non-empty diff and commit lines for keyword scans,
// with diff markers stripped.
func scanLines(diffContent string, commitMessages []string) []string {
	var lines []string
	for _, line := range strings.Split(diffContent, "\n") {
		if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "+"), "-"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	for _, msg := range commitMessages {
		if trimmed := strings.TrimSpace(msg); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func extractAffectedComponents(text string) []string {
	matches := componentRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return []string{model.UnknownComponent}
	}

	seen := map[string]bool{}
	var components []string
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			components = append(components, m)
		}
	}
	return components
}

func truncateLine(line string) string {
	const maxLen = 200
	if len(line) <= maxLen {
		return line
	}
	return line[:maxLen] + "..."
}
