package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/driftwatch/driftwatch/pkg/domain/interfaces"
	"github.com/driftwatch/driftwatch/pkg/domain/model"
	"github.com/driftwatch/driftwatch/pkg/domain/types"
	"github.com/driftwatch/driftwatch/pkg/usecase"
)

type mockGitClient struct {
	getRecentChanges        func(ctx context.Context, numCommits int) (string, error)
	getRecentCommitMessages func(ctx context.Context, numCommits int) ([]string, error)
	getCommitDiffAnalysis   func(ctx context.Context, hash string) (model.CommitDetail, error)
	calls                   int
}

func (m *mockGitClient) GetRecentChanges(ctx context.Context, numCommits int) (string, error) {
	m.calls++
	return m.getRecentChanges(ctx, numCommits)
}

func (m *mockGitClient) GetRecentCommitMessages(ctx context.Context, numCommits int) ([]string, error) {
	m.calls++
	return m.getRecentCommitMessages(ctx, numCommits)
}

func (m *mockGitClient) GetCommitDiffAnalysis(ctx context.Context, hash string) (model.CommitDetail, error) {
	m.calls++
	return m.getCommitDiffAnalysis(ctx, hash)
}

type mockLLMClient struct {
	generateAnalysis func(ctx context.Context, systemPrompt, prompt string) (string, error)
	usage            model.TokenUsage
	provider         string
}

func (m *mockLLMClient) GenerateAnalysis(ctx context.Context, systemPrompt, prompt string) (string, error) {
	return m.generateAnalysis(ctx, systemPrompt, prompt)
}

func (m *mockLLMClient) Usage() model.TokenUsage {
	return m.usage
}

func (m *mockLLMClient) Provider() string {
	return m.provider
}

func enabledSettings() model.Settings {
	return model.Settings{
		LLMProvider:     types.ProviderOpenAI.String(),
		AnalysisEnabled: true,
	}
}

func enabledRepo() model.Repository {
	return model.Repository{
		Name:            "my-fork",
		Fork:            "https://github.com/me/project",
		Upstream:        "https://github.com/them/project",
		AnalysisEnabled: true,
	}
}

func staticGit(diff string, messages []string) *mockGitClient {
	return &mockGitClient{
		getRecentChanges: func(ctx context.Context, numCommits int) (string, error) {
			return diff, nil
		},
		getRecentCommitMessages: func(ctx context.Context, numCommits int) ([]string, error) {
			return messages, nil
		},
	}
}

func staticLLM(response string) usecase.LLMFactory {
	return func(provider types.Provider) (interfaces.LLMClient, error) {
		return &mockLLMClient{
			generateAnalysis: func(ctx context.Context, systemPrompt, prompt string) (string, error) {
				return response, nil
			},
			usage:    model.TokenUsage{InputTokens: 100, OutputTokens: 50},
			provider: provider.String(),
		}, nil
	}
}

func TestAnalyzeRepositoryChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("globally disabled analysis skips git access", func(t *testing.T) {
		settings := enabledSettings()
		settings.AnalysisEnabled = false
		analyzer := gt.R1(usecase.NewChangeAnalyzer(settings, staticLLM("{}"))).NoError(t)

		git := staticGit("", nil)
		analysis := gt.R1(analyzer.AnalyzeRepositoryChanges(ctx, enabledRepo(), git)).NoError(t)
		gt.Nil(t, analysis)
		gt.Equal(t, git.calls, 0)
	})

	t.Run("per-repository disable skips git access", func(t *testing.T) {
		analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), staticLLM("{}"))).NoError(t)

		repo := enabledRepo()
		repo.AnalysisEnabled = false

		git := staticGit("", nil)
		analysis := gt.R1(analyzer.AnalyzeRepositoryChanges(ctx, repo, git)).NoError(t)
		gt.Nil(t, analysis)
		gt.Equal(t, git.calls, 0)
	})

	t.Run("no changes yields nil without provider call", func(t *testing.T) {
		factoryCalled := false
		factory := func(provider types.Provider) (interfaces.LLMClient, error) {
			factoryCalled = true
			return nil, errors.New("must not be called")
		}
		analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), factory)).NoError(t)

		analysis := gt.R1(analyzer.AnalyzeRepositoryChanges(ctx, enabledRepo(), staticGit("", nil))).NoError(t)
		gt.Nil(t, analysis)
		gt.False(t, factoryCalled)
	})

	t.Run("git error propagates", func(t *testing.T) {
		analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), staticLLM("{}"))).NoError(t)

		git := staticGit("", nil)
		git.getRecentChanges = func(ctx context.Context, numCommits int) (string, error) {
			return "", errors.New("repository is locked")
		}

		_, err := analyzer.AnalyzeRepositoryChanges(ctx, enabledRepo(), git)
		gt.Error(t, err)
	})

	t.Run("unsupported provider override is a config error", func(t *testing.T) {
		analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), staticLLM("{}"))).NoError(t)

		git := staticGit("+some change\n", []string{"fix: something"})
		_, err := analyzer.AnalyzeRepositoryChanges(ctx, enabledRepo(), git,
			interfaces.WithProvider("ollama"))
		gt.Error(t, err)
	})

	t.Run("provider error propagates", func(t *testing.T) {
		factory := func(provider types.Provider) (interfaces.LLMClient, error) {
			return &mockLLMClient{
				generateAnalysis: func(ctx context.Context, systemPrompt, prompt string) (string, error) {
					return "", errors.New("rate limited")
				},
			}, nil
		}
		analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), factory)).NoError(t)

		git := staticGit("+some change\n", []string{"fix: something"})
		_, err := analyzer.AnalyzeRepositoryChanges(ctx, enabledRepo(), git)
		gt.Error(t, err)
		gt.True(t, strings.Contains(err.Error(), "LLM analysis failed"))
	})

	t.Run("successful analysis merges heuristic findings", func(t *testing.T) {
		response := `{"summary": "Large refactor", "breaking_changes": ["API moved"], "confidence": 0.85}`
		analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), staticLLM(response))).NoError(t)

		git := staticGit(
			"diff --git a/api.py b/api.py\n+def handler(request):\n",
			[]string{"BREAKING CHANGE: new handler signature"},
		)

		analysis := gt.R1(analyzer.AnalyzeRepositoryChanges(ctx, enabledRepo(), git)).NoError(t)
		gt.NotNil(t, analysis)
		gt.Equal(t, analysis.Summary, "Large refactor")
		gt.Equal(t, analysis.Confidence, 0.85)
		gt.A(t, analysis.BreakingChanges).Length(1)

		// Commit marker plus diff predicate, in that order.
		gt.A(t, analysis.DetailedBreakingChanges).Length(2)
		gt.Equal(t, analysis.DetailedBreakingChanges[0].Kind, "explicit_breaking_change")
		gt.Equal(t, analysis.DetailedBreakingChanges[1].Kind, "api_signature_change")
	})

	t.Run("identical inputs yield identical results", func(t *testing.T) {
		response := `{"summary": "Stable output", "confidence": 0.8}`
		analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), staticLLM(response))).NoError(t)

		git := staticGit(
			"diff --git a/api.py b/api.py\n+def handler(request):\n",
			[]string{"BREAKING CHANGE: new handler signature"},
		)

		first := gt.R1(analyzer.AnalyzeRepositoryChanges(ctx, enabledRepo(), git)).NoError(t)
		second := gt.R1(analyzer.AnalyzeRepositoryChanges(ctx, enabledRepo(), git)).NoError(t)
		gt.Equal(t, first, second)
	})

	t.Run("custom prompt reaches the provider", func(t *testing.T) {
		var captured string
		factory := func(provider types.Provider) (interfaces.LLMClient, error) {
			return &mockLLMClient{
				generateAnalysis: func(ctx context.Context, systemPrompt, prompt string) (string, error) {
					captured = prompt
					return `{"summary": "ok"}`, nil
				},
			}, nil
		}
		analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), factory)).NoError(t)

		git := staticGit("+change\n", []string{"fix: x"})
		gt.R1(analyzer.AnalyzeRepositoryChanges(ctx, enabledRepo(), git,
			interfaces.WithCustomPrompt("Focus on storage"))).NoError(t)
		gt.True(t, strings.Contains(captured, "Focus on storage"))
	})
}

func TestAnalyzeCommit(t *testing.T) {
	ctx := context.Background()

	commitDetail := model.CommitDetail{
		Hash:         "0123456789abcdef0123456789abcdef01234567",
		Author:       "dev",
		Date:         time.Now(),
		Message:      "fix: patch the cache",
		DiffContent:  "diff --git a/cache.go b/cache.go\n+func Get(key string) {}\n",
		FilesChanged: []string{"cache.go"},
		Insertions:   1,
	}

	t.Run("summary is prefixed with short hash", func(t *testing.T) {
		response := `{"summary": "Cache fix", "confidence": 0.7}`
		analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), staticLLM(response))).NoError(t)

		git := &mockGitClient{
			getCommitDiffAnalysis: func(ctx context.Context, hash string) (model.CommitDetail, error) {
				return commitDetail, nil
			},
		}

		analysis := gt.R1(analyzer.AnalyzeCommit(ctx, enabledRepo(), git, "0123456")).NoError(t)
		gt.NotNil(t, analysis)
		gt.Equal(t, analysis.Summary, "Commit 01234567: Cache fix")
	})

	t.Run("file and line stats land in recommendations", func(t *testing.T) {
		response := `{"summary": "Cache fix", "recommendations": ["Review carefully"]}`
		analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), staticLLM(response))).NoError(t)

		git := &mockGitClient{
			getCommitDiffAnalysis: func(ctx context.Context, hash string) (model.CommitDetail, error) {
				return commitDetail, nil
			},
		}

		analysis := gt.R1(analyzer.AnalyzeCommit(ctx, enabledRepo(), git, "0123456")).NoError(t)
		gt.A(t, analysis.Recommendations).Length(3)
		gt.Equal(t, analysis.Recommendations[0], "Review carefully")
		gt.True(t, strings.Contains(analysis.Recommendations[1], "cache.go"))
		gt.True(t, strings.Contains(analysis.Recommendations[2], "+1"))
	})

	t.Run("missing commit data yields nil", func(t *testing.T) {
		analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), staticLLM("{}"))).NoError(t)

		git := &mockGitClient{
			getCommitDiffAnalysis: func(ctx context.Context, hash string) (model.CommitDetail, error) {
				return model.CommitDetail{}, nil
			},
		}

		analysis := gt.R1(analyzer.AnalyzeCommit(ctx, enabledRepo(), git, "deadbeef")).NoError(t)
		gt.Nil(t, analysis)
	})
}

func TestCommitSummary(t *testing.T) {
	ctx := context.Background()
	analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), nil)).NoError(t)

	t.Run("buckets and metadata", func(t *testing.T) {
		git := staticGit("diff --git a/x.go b/x.go\n+var x int\n", []string{
			"feat: add pagination",
			"fix: handle nil cursor",
		})

		summary := gt.R1(analyzer.CommitSummary(ctx, enabledRepo(), git, 10)).NoError(t)
		gt.Equal(t, summary.Repository, "my-fork")
		gt.Equal(t, summary.TotalCommits, 2)
		gt.Equal(t, summary.LastCommit, "feat: add pagination")
		gt.True(t, summary.HasChanges)
		gt.Equal(t, summary.CommitTypes[model.CategoryFeature], 1)
		gt.Equal(t, summary.CommitTypes[model.CategoryFix], 1)
	})

	t.Run("empty history", func(t *testing.T) {
		git := staticGit("", nil)
		summary := gt.R1(analyzer.CommitSummary(ctx, enabledRepo(), git, 10)).NoError(t)
		gt.Equal(t, summary.TotalCommits, 0)
		gt.False(t, summary.HasChanges)
		gt.Equal(t, summary.ChangeSummary, "No diff content available.")
	})
}

func TestDetectChanges(t *testing.T) {
	ctx := context.Background()
	analyzer := gt.R1(usecase.NewChangeAnalyzer(enabledSettings(), nil)).NoError(t)

	t.Run("aggregates heuristic findings", func(t *testing.T) {
		git := staticGit(
			"diff --git a/api.py b/api.py\n+def handler(request):\n",
			[]string{"Fix cve-2024-1234 in parser.go"},
		)

		report := gt.R1(analyzer.DetectChanges(ctx, enabledRepo(), git)).NoError(t)
		gt.Equal(t, report.Repository, "my-fork")
		gt.True(t, report.TotalIssues >= 2)
		gt.True(t, report.HasCriticalIssues)
	})

	t.Run("clean history reports nothing", func(t *testing.T) {
		git := staticGit("", []string{"chore: tidy imports"})
		report := gt.R1(analyzer.DetectChanges(ctx, enabledRepo(), git)).NoError(t)
		gt.Equal(t, report.TotalIssues, 0)
		gt.False(t, report.HasCriticalIssues)
	})
}
