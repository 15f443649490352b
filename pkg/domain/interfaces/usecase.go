package interfaces

import (
	"context"

	"github.com/driftwatch/driftwatch/pkg/domain/model"
)

// AnalyzerUseCase defines the change-analysis entry points. A nil
// *ChangeAnalysis with a nil error is the explicit "nothing to analyze"
// result, distinct from an analysis with empty findings.
type AnalyzerUseCase interface {
	// AnalyzeRepositoryChanges runs the full pipeline against recent changes.
	AnalyzeRepositoryChanges(ctx context.Context, repo model.Repository, git GitClient, opts ...AnalyzeOption) (*model.ChangeAnalysis, error)

	// AnalyzeCommit runs the same pipeline against a single commit's diff.
	AnalyzeCommit(ctx context.Context, repo model.Repository, git GitClient, hash string, opts ...AnalyzeOption) (*model.ChangeAnalysis, error)

	// CommitSummary buckets recent commit messages by a fixed keyword
	// taxonomy without invoking a provider.
	CommitSummary(ctx context.Context, repo model.Repository, git GitClient, numCommits int) (model.CommitSummary, error)

	// DetectChanges runs pattern detection only, no provider call.
	DetectChanges(ctx context.Context, repo model.Repository, git GitClient) (model.DetectionReport, error)
}

// AnalyzeOption adjusts a single analysis call.
type AnalyzeOption func(*AnalyzeConfig)

// AnalyzeConfig carries per-call overrides.
type AnalyzeConfig struct {
	Provider     string
	CustomPrompt string
}

// WithProvider overrides the configured default provider for this call.
func WithProvider(name string) AnalyzeOption {
	return func(c *AnalyzeConfig) { c.Provider = name }
}

// WithCustomPrompt appends a custom instruction to the analysis prompt.
func WithCustomPrompt(prompt string) AnalyzeOption {
	return func(c *AnalyzeConfig) { c.CustomPrompt = prompt }
}
