package usecase

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"

	"github.com/driftwatch/driftwatch/pkg/domain/model"
)

//go:embed prompts/analysis_system.md
var systemPrompt string

//go:embed prompts/analysis_user.md
var userPromptTemplate string

// DefaultMaxDiffBytes is the prompt diff ceiling. Diff content beyond it is
// truncated with an explicit marker, never silently dropped.
const DefaultMaxDiffBytes = 16000

const truncationMarker = "\n... [diff truncated]"

// PromptBuilder assembles provider-agnostic prompts for change analysis.
// Identical inputs always produce an identical prompt string.
type PromptBuilder struct {
	userTemplate *template.Template
	maxDiffBytes int
}

// NewPromptBuilder parses the embedded user prompt template. maxDiffBytes
// of zero or less selects the default ceiling.
func NewPromptBuilder(maxDiffBytes int) (*PromptBuilder, error) {
	tmpl, err := template.New("analysis_user").Parse(userPromptTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse user prompt template")
	}

	if maxDiffBytes <= 0 {
		maxDiffBytes = DefaultMaxDiffBytes
	}
	return &PromptBuilder{
		userTemplate: tmpl,
		maxDiffBytes: maxDiffBytes,
	}, nil
}

// SystemPrompt returns the fixed system prompt, including the output schema
// the model must emit.
func (b *PromptBuilder) SystemPrompt() string {
	return systemPrompt
}

// Build renders the analysis prompt for one request. Heuristic findings are
// embedded as hints so the model can corroborate or extend them; the custom
// instruction is appended last so it can override default emphasis.
func (b *PromptBuilder) Build(
	req model.AnalysisRequest,
	breakingChanges []model.BreakingChange,
	securityUpdates []model.SecurityUpdate,
	deprecations []model.Deprecation,
) (string, error) {
	skills := "Not specified"
	if len(req.Repository.Skills) > 0 {
		skills = strings.Join(req.Repository.Skills, ", ")
	}

	var commitSummary strings.Builder
	for _, msg := range req.CommitMessages {
		commitSummary.WriteString("- " + msg + "\n")
	}

	data := map[string]string{
		"RepositoryName":     req.Repository.Name,
		"Fork":               req.Repository.Fork,
		"Upstream":           req.Repository.Upstream,
		"Skills":             skills,
		"CommitSummary":      strings.TrimRight(commitSummary.String(), "\n"),
		"DiffAnalysis":       AnalyzeDiffStats(req.DiffContent),
		"BreakingContext":    formatBreakingContext(breakingChanges),
		"SecurityContext":    formatSecurityContext(securityUpdates),
		"DeprecationContext": formatDeprecationContext(deprecations),
		"DiffContent":        b.truncateDiff(req.DiffContent),
		"CustomPrompt":       req.CustomPrompt,
	}

	var buf bytes.Buffer
	if err := b.userTemplate.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute user prompt template")
	}
	return buf.String(), nil
}

func (b *PromptBuilder) truncateDiff(diff string) string {
	if len(diff) <= b.maxDiffBytes {
		return diff
	}
	return diff[:b.maxDiffBytes] + truncationMarker
}

func formatBreakingContext(changes []model.BreakingChange) string {
	if len(changes) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nDetected Breaking Changes:\n")
	for _, change := range changes {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", change.Kind, change.Severity, change.Description)
		if change.MigrationGuidance != "" {
			fmt.Fprintf(&sb, "  Migration: %s\n", change.MigrationGuidance)
		}
	}
	return sb.String()
}

func formatSecurityContext(updates []model.SecurityUpdate) string {
	if len(updates) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nDetected Security Updates:\n")
	for _, update := range updates {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", update.Kind, update.Severity, update.Description)
		if update.CVEID != "" {
			fmt.Fprintf(&sb, "  CVE: %s\n", update.CVEID)
		}
		if len(update.AffectedComponents) > 0 {
			fmt.Fprintf(&sb, "  Affected: %s\n", strings.Join(update.AffectedComponents, ", "))
		}
	}
	return sb.String()
}

func formatDeprecationContext(deprecations []model.Deprecation) string {
	if len(deprecations) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nDetected Deprecations:\n")
	for _, dep := range deprecations {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", dep.Kind, dep.Severity, dep.Description)
		if dep.ReplacementSuggestion != "" {
			fmt.Fprintf(&sb, "  Replacement: %s\n", dep.ReplacementSuggestion)
		}
		if dep.RemovalDate != "" {
			fmt.Fprintf(&sb, "  Removal Date: %s\n", dep.RemovalDate)
		}
	}
	return sb.String()
}
