package cli

import (
	"context"
	"log/slog"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/driftwatch/driftwatch/pkg/cli/config"
	"github.com/driftwatch/driftwatch/pkg/domain/interfaces"
	"github.com/driftwatch/driftwatch/pkg/domain/model"
	"github.com/driftwatch/driftwatch/pkg/domain/types"
	"github.com/driftwatch/driftwatch/pkg/infra/git"
	"github.com/driftwatch/driftwatch/pkg/infra/github"
	"github.com/driftwatch/driftwatch/pkg/infra/llm"
	"github.com/driftwatch/driftwatch/pkg/usecase"
	"github.com/driftwatch/driftwatch/pkg/utils/pool"
)

func cmdAnalyze() *cli.Command {
	var (
		fileCfg     config.File
		llmCfg      config.LLM
		githubCfg   config.GitHub
		prompt      string
		concurrency int
		jsonOut     bool
		upstream    bool
	)

	flags := append(fileCfg.Flags(), llmCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "prompt",
			Usage:       "Additional instruction appended to the analysis prompt",
			Destination: &prompt,
			Sources:     cli.EnvVars("DRIFTWATCH_PROMPT"),
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of repositories analyzed in parallel",
			Value:       2,
			Destination: &concurrency,
			Sources:     cli.EnvVars("DRIFTWATCH_CONCURRENCY"),
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Output results as JSON",
			Destination: &jsonOut,
		},
		&cli.BoolFlag{
			Name:        "upstream",
			Usage:       "Fetch upstream repository metadata before analysis",
			Destination: &upstream,
		},
	)

	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze recent changes in configured repositories",
		ArgsUsage: "[repository...]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			cfg, err := fileCfg.Load()
			if err != nil {
				return err
			}

			repos, err := selectRepositories(cfg, c.Args().Slice())
			if err != nil {
				return err
			}

			analyzer, err := usecase.NewChangeAnalyzer(cfg.Settings, newLLMFactory(cfg.Settings, llmCfg))
			if err != nil {
				return err
			}

			var analyzeOpts []interfaces.AnalyzeOption
			if llmCfg.Provider != "" {
				analyzeOpts = append(analyzeOpts, interfaces.WithProvider(llmCfg.Provider))
			}
			if prompt != "" {
				analyzeOpts = append(analyzeOpts, interfaces.WithCustomPrompt(prompt))
			}

			var ghClient interfaces.GitHubClient
			if upstream {
				ghClient = github.NewClient(ctx, githubCfg.Token)
			}

			var mu sync.Mutex
			results := make(map[string]*model.ChangeAnalysis, len(repos))
			failures := make(map[string]bool, len(repos))

			// One repository failing must not abort the rest of the batch.
			tasks := make([]pool.Task, 0, len(repos))
			for _, repo := range repos {
				tasks = append(tasks, func(ctx context.Context) error {
					analysis, err := analyzeOne(ctx, analyzer, repo, analyzeOpts)
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						failures[repo.Name] = true
						ctxlog.From(ctx).Error("Analysis failed",
							slog.String("repository", repo.Name), slog.Any("error", err))
						return nil
					}
					results[repo.Name] = analysis
					return nil
				})
			}

			if err := pool.Run(ctx, concurrency, tasks); err != nil {
				return err
			}
			if len(failures) == len(repos) && len(repos) > 0 {
				return goerr.New("analysis failed for all repositories",
					goerr.V("repositories", len(repos)))
			}

			for _, repo := range repos {
				if failures[repo.Name] {
					continue
				}
				if ghClient != nil {
					renderUpstream(ctx, ghClient, repo)
				}

				analysis := results[repo.Name]
				if analysis == nil {
					logger.Info("Nothing to analyze", slog.String("repository", repo.Name))
					continue
				}
				if err := renderAnalysis(repo.Name, analysis, jsonOut); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func analyzeOne(ctx context.Context, analyzer interfaces.AnalyzerUseCase, repo model.Repository, opts []interfaces.AnalyzeOption) (*model.ChangeAnalysis, error) {
	gitClient, err := git.Open(repo.LocalPath)
	if err != nil {
		return nil, err
	}
	return analyzer.AnalyzeRepositoryChanges(ctx, repo, gitClient, opts...)
}

// selectRepositories resolves positional names against the configured set;
// no names selects every configured repository.
func selectRepositories(cfg *model.Config, names []string) ([]model.Repository, error) {
	if len(names) == 0 {
		if len(cfg.Repositories) == 0 {
			return nil, goerr.New("no repositories configured", goerr.T(types.ErrTagConfig))
		}
		return cfg.Repositories, nil
	}

	repos := make([]model.Repository, 0, len(names))
	for _, name := range names {
		repo, ok := cfg.Repository(name)
		if !ok {
			return nil, goerr.New("repository not found in configuration",
				goerr.T(types.ErrTagConfig), goerr.V("name", name))
		}
		repos = append(repos, repo)
	}
	return repos, nil
}

// newLLMFactory binds flag and file configuration into the client factory
// the analyzer calls once per analysis.
func newLLMFactory(settings model.Settings, llmCfg config.LLM) usecase.LLMFactory {
	return func(provider types.Provider) (interfaces.LLMClient, error) {
		opts := llmCfg.Options()
		if llmCfg.APIKey == "" && llmCfg.APIKeyEnv == "" && settings.APIKeyEnv != "" {
			opts = append(opts, llm.WithAPIKeyEnv(settings.APIKeyEnv))
		}
		return llm.New(provider, opts...)
	}
}

func renderUpstream(ctx context.Context, client interfaces.GitHubClient, repo model.Repository) {
	logger := ctxlog.From(ctx)

	owner, name, err := github.ParseRepoURL(repo.Upstream)
	if err != nil {
		logger.Warn("Skipping upstream metadata",
			slog.String("repository", repo.Name), slog.Any("error", err))
		return
	}

	info, err := client.GetRepositoryInfo(ctx, owner, name)
	if err != nil {
		logger.Warn("Failed to fetch upstream metadata",
			slog.String("repository", repo.Name), slog.Any("error", err))
		return
	}

	renderUpstreamInfo(info)
}
