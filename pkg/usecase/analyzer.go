package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/driftwatch/driftwatch/pkg/domain/interfaces"
	"github.com/driftwatch/driftwatch/pkg/domain/model"
	"github.com/driftwatch/driftwatch/pkg/domain/types"
)

// DefaultRecentCommits is how many commits back the repository-level
// analysis looks.
const DefaultRecentCommits = 10

// LLMFactory builds a provider adapter for one analysis session.
type LLMFactory func(provider types.Provider) (interfaces.LLMClient, error)

type changeAnalyzer struct {
	settings   model.Settings
	newClient  LLMFactory
	prompts    *PromptBuilder
	breaking   *BreakingChangeDetector
	secDep     *SecurityDeprecationDetector
	numCommits int
}

// NewChangeAnalyzer creates the analysis orchestrator. The factory is
// invoked once per analysis call so each call site owns its adapter
// instance; no provider state is shared across calls.
func NewChangeAnalyzer(settings model.Settings, factory LLMFactory) (interfaces.AnalyzerUseCase, error) {
	prompts, err := NewPromptBuilder(settings.MaxDiffBytes)
	if err != nil {
		return nil, err
	}

	return &changeAnalyzer{
		settings:   settings,
		newClient:  factory,
		prompts:    prompts,
		breaking:   NewBreakingChangeDetector(),
		secDep:     NewSecurityDeprecationDetector(),
		numCommits: DefaultRecentCommits,
	}, nil
}

// AnalyzeRepositoryChanges runs the full pipeline: applicability check,
// change retrieval, heuristic pass, provider call, parse and merge. A nil
// result with a nil error means there was nothing to analyze.
func (a *changeAnalyzer) AnalyzeRepositoryChanges(ctx context.Context, repo model.Repository, git interfaces.GitClient, opts ...interfaces.AnalyzeOption) (*model.ChangeAnalysis, error) {
	logger := ctxlog.From(ctx)

	if !a.settings.AnalysisEnabled || !repo.AnalysisEnabled {
		logger.Info("Analysis disabled for repository", "repository", repo.Name)
		return nil, nil
	}

	diffContent, err := git.GetRecentChanges(ctx, a.numCommits)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get recent changes", goerr.V("repository", repo.Name))
	}
	commitMessages, err := git.GetRecentCommitMessages(ctx, a.numCommits)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get recent commit messages", goerr.V("repository", repo.Name))
	}

	if diffContent == "" && len(commitMessages) == 0 {
		logger.Info("No changes to analyze", "repository", repo.Name)
		return nil, nil
	}

	cfg := applyOptions(opts)
	req := model.AnalysisRequest{
		Repository:     repo,
		DiffContent:    diffContent,
		CommitMessages: commitMessages,
		CustomPrompt:   cfg.CustomPrompt,
	}

	return a.analyze(ctx, req, cfg)
}

// AnalyzeCommit runs the pipeline against a single commit's diff. The
// summary is prefixed with the short hash, and file/line statistics are
// appended to the recommendations.
func (a *changeAnalyzer) AnalyzeCommit(ctx context.Context, repo model.Repository, git interfaces.GitClient, hash string, opts ...interfaces.AnalyzeOption) (*model.ChangeAnalysis, error) {
	logger := ctxlog.From(ctx)

	if !a.settings.AnalysisEnabled || !repo.AnalysisEnabled {
		logger.Info("Analysis disabled for repository", "repository", repo.Name)
		return nil, nil
	}

	detail, err := git.GetCommitDiffAnalysis(ctx, hash)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get commit analysis",
			goerr.V("repository", repo.Name), goerr.V("commit", hash))
	}
	if detail.IsZero() {
		logger.Warn("No data for commit", "repository", repo.Name, "commit", hash)
		return nil, nil
	}

	cfg := applyOptions(opts)
	req := model.AnalysisRequest{
		Repository:     repo,
		DiffContent:    detail.DiffContent,
		CommitMessages: []string{detail.Message},
		CustomPrompt:   cfg.CustomPrompt,
	}

	analysis, err := a.analyze(ctx, req, cfg)
	if err != nil || analysis == nil {
		return analysis, err
	}

	short := detail.Hash
	if len(short) > 8 {
		short = short[:8]
	}
	analysis.Summary = fmt.Sprintf("Commit %s: %s", short, analysis.Summary)

	if len(detail.FilesChanged) > 0 {
		files := detail.FilesChanged
		if len(files) > 5 {
			files = files[:5]
		}
		analysis.Recommendations = append(analysis.Recommendations,
			"Files changed: "+strings.Join(files, ", "))
	}
	if detail.Insertions > 0 || detail.Deletions > 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			fmt.Sprintf("Lines: +%d -%d", detail.Insertions, detail.Deletions))
	}

	return analysis, nil
}

// analyze is the shared pipeline tail: heuristics, prompt, provider call,
// parse, merge.
func (a *changeAnalyzer) analyze(ctx context.Context, req model.AnalysisRequest, cfg interfaces.AnalyzeConfig) (*model.ChangeAnalysis, error) {
	logger := ctxlog.From(ctx)
	runID := uuid.NewString()

	breakingChanges := a.breaking.Detect(req.DiffContent, req.CommitMessages)
	securityUpdates := a.secDep.DetectSecurityUpdates(req.DiffContent, req.CommitMessages)
	deprecations := a.secDep.DetectDeprecations(req.DiffContent, req.CommitMessages)

	logger.Debug("Heuristic detection completed",
		"run_id", runID,
		"repository", req.Repository.Name,
		"breaking_changes", len(breakingChanges),
		"security_updates", len(securityUpdates),
		"deprecations", len(deprecations),
	)

	provider, err := a.resolveProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	prompt, err := a.prompts.Build(req, breakingChanges, securityUpdates, deprecations)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build analysis prompt", goerr.V("repository", req.Repository.Name))
	}

	client, err := a.newClient(provider)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM client",
			goerr.V("repository", req.Repository.Name), goerr.V("provider", provider))
	}

	logger.Info("Calling LLM for change analysis",
		"run_id", runID,
		"repository", req.Repository.Name,
		"provider", provider,
		"prompt_length", len(prompt),
	)

	response, err := client.GenerateAnalysis(ctx, a.prompts.SystemPrompt(), prompt)
	if err != nil {
		return nil, goerr.Wrap(err, "LLM analysis failed",
			goerr.T(types.ErrTagProvider),
			goerr.V("repository", req.Repository.Name), goerr.V("provider", provider))
	}

	usage := client.Usage()
	logger.Info("LLM analysis completed",
		"run_id", runID,
		"repository", req.Repository.Name,
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
	)

	analysis := ParseAnalysisResponse(response)
	analysis.DetailedBreakingChanges = breakingChanges
	analysis.DetailedSecurityUpdates = securityUpdates
	analysis.DetailedDeprecations = deprecations

	return &analysis, nil
}

// resolveProvider checks the requested provider against the supported set.
// An unsupported name is a configuration error, never silently defaulted.
func (a *changeAnalyzer) resolveProvider(override string) (types.Provider, error) {
	name := override
	if name == "" {
		name = a.settings.LLMProvider
	}

	provider := types.Provider(name)
	if !provider.IsSupported() {
		return "", goerr.New("unsupported LLM provider",
			goerr.T(types.ErrTagConfig), goerr.V("provider", name))
	}
	return provider, nil
}

// CommitSummary digests recent commits without invoking a provider.
func (a *changeAnalyzer) CommitSummary(ctx context.Context, repo model.Repository, git interfaces.GitClient, numCommits int) (model.CommitSummary, error) {
	if numCommits <= 0 {
		numCommits = DefaultRecentCommits
	}

	commitMessages, err := git.GetRecentCommitMessages(ctx, numCommits)
	if err != nil {
		return model.CommitSummary{}, goerr.Wrap(err, "failed to get recent commit messages", goerr.V("repository", repo.Name))
	}
	diffContent, err := git.GetRecentChanges(ctx, numCommits)
	if err != nil {
		return model.CommitSummary{}, goerr.Wrap(err, "failed to get recent changes", goerr.V("repository", repo.Name))
	}

	summary := model.CommitSummary{
		Repository:     repo.Name,
		TotalCommits:   len(commitMessages),
		CommitMessages: commitMessages,
		HasChanges:     diffContent != "",
		ChangeSummary:  AnalyzeDiffStats(diffContent),
		CommitTypes:    CategorizeCommits(commitMessages),
	}
	if len(commitMessages) > 0 {
		summary.LastCommit = commitMessages[0]
	}
	return summary, nil
}

// DetectChanges runs the heuristic detectors only. Useful when no provider
// credentials are available.
func (a *changeAnalyzer) DetectChanges(ctx context.Context, repo model.Repository, git interfaces.GitClient) (model.DetectionReport, error) {
	diffContent, err := git.GetRecentChanges(ctx, a.numCommits)
	if err != nil {
		return model.DetectionReport{}, goerr.Wrap(err, "failed to get recent changes", goerr.V("repository", repo.Name))
	}
	commitMessages, err := git.GetRecentCommitMessages(ctx, a.numCommits)
	if err != nil {
		return model.DetectionReport{}, goerr.Wrap(err, "failed to get recent commit messages", goerr.V("repository", repo.Name))
	}

	breakingChanges := a.breaking.Detect(diffContent, commitMessages)
	securityUpdates := a.secDep.DetectSecurityUpdates(diffContent, commitMessages)
	deprecations := a.secDep.DetectDeprecations(diffContent, commitMessages)

	hasCritical := false
	for _, change := range breakingChanges {
		if change.Severity == model.SeverityHigh {
			hasCritical = true
		}
	}
	for _, update := range securityUpdates {
		if update.Severity == model.SeverityHigh || update.Severity == model.SeverityCritical {
			hasCritical = true
		}
	}

	return model.DetectionReport{
		Repository:        repo.Name,
		BreakingChanges:   breakingChanges,
		SecurityUpdates:   securityUpdates,
		Deprecations:      deprecations,
		TotalIssues:       len(breakingChanges) + len(securityUpdates) + len(deprecations),
		HasCriticalIssues: hasCritical,
	}, nil
}

func applyOptions(opts []interfaces.AnalyzeOption) interfaces.AnalyzeConfig {
	var cfg interfaces.AnalyzeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
