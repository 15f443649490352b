package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/driftwatch/driftwatch/pkg/cli/config"
	"github.com/driftwatch/driftwatch/pkg/domain/types"
	"github.com/driftwatch/driftwatch/pkg/infra/git"
	"github.com/driftwatch/driftwatch/pkg/usecase"
)

func cmdDetect() *cli.Command {
	var (
		fileCfg config.File
		jsonOut bool
	)

	flags := append(fileCfg.Flags(),
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Output results as JSON",
			Destination: &jsonOut,
		},
	)

	return &cli.Command{
		Name:      "detect",
		Usage:     "Run pattern-based detection without calling an LLM",
		ArgsUsage: "<repository>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			args := c.Args().Slice()
			if len(args) != 1 {
				return goerr.New("expected <repository> argument")
			}

			cfg, err := fileCfg.Load()
			if err != nil {
				return err
			}

			repo, ok := cfg.Repository(args[0])
			if !ok {
				return goerr.New("repository not found in configuration",
					goerr.T(types.ErrTagConfig), goerr.V("name", args[0]))
			}

			gitClient, err := git.Open(repo.LocalPath)
			if err != nil {
				return err
			}

			analyzer, err := usecase.NewChangeAnalyzer(cfg.Settings, nil)
			if err != nil {
				return err
			}

			report, err := analyzer.DetectChanges(ctx, repo, gitClient)
			if err != nil {
				return err
			}

			return renderDetectionReport(report, jsonOut)
		},
	}
}
