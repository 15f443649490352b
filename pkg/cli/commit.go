package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/driftwatch/driftwatch/pkg/cli/config"
	"github.com/driftwatch/driftwatch/pkg/domain/interfaces"
	"github.com/driftwatch/driftwatch/pkg/domain/types"
	"github.com/driftwatch/driftwatch/pkg/infra/git"
	"github.com/driftwatch/driftwatch/pkg/usecase"
)

func cmdCommit() *cli.Command {
	var (
		fileCfg config.File
		llmCfg  config.LLM
		prompt  string
		jsonOut bool
	)

	flags := append(fileCfg.Flags(), llmCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "prompt",
			Usage:       "Additional instruction appended to the analysis prompt",
			Destination: &prompt,
			Sources:     cli.EnvVars("DRIFTWATCH_PROMPT"),
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Output results as JSON",
			Destination: &jsonOut,
		},
	)

	return &cli.Command{
		Name:      "commit",
		Usage:     "Analyze a single commit",
		ArgsUsage: "<repository> <commit>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			args := c.Args().Slice()
			if len(args) != 2 {
				return goerr.New("expected <repository> <commit> arguments")
			}
			repoName, hash := args[0], args[1]

			cfg, err := fileCfg.Load()
			if err != nil {
				return err
			}

			repo, ok := cfg.Repository(repoName)
			if !ok {
				return goerr.New("repository not found in configuration",
					goerr.T(types.ErrTagConfig), goerr.V("name", repoName))
			}

			gitClient, err := git.Open(repo.LocalPath)
			if err != nil {
				return err
			}

			analyzer, err := usecase.NewChangeAnalyzer(cfg.Settings, newLLMFactory(cfg.Settings, llmCfg))
			if err != nil {
				return err
			}

			var opts []interfaces.AnalyzeOption
			if llmCfg.Provider != "" {
				opts = append(opts, interfaces.WithProvider(llmCfg.Provider))
			}
			if prompt != "" {
				opts = append(opts, interfaces.WithCustomPrompt(prompt))
			}

			analysis, err := analyzer.AnalyzeCommit(ctx, repo, gitClient, hash, opts...)
			if err != nil {
				return err
			}
			if analysis == nil {
				return goerr.New("nothing to analyze for commit",
					goerr.V("repository", repoName), goerr.V("commit", hash))
			}

			return renderAnalysis(repo.Name, analysis, jsonOut)
		},
	}
}
