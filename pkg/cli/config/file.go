package config

import (
	"github.com/urfave/cli/v3"

	"github.com/driftwatch/driftwatch/pkg/domain/model"
)

// File holds the configuration file location
type File struct {
	Path string
}

// Flags returns CLI flags for the configuration file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to configuration file",
			Value:       "driftwatch.toml",
			Destination: &c.Path,
			Sources:     cli.EnvVars("DRIFTWATCH_CONFIG"),
		},
	}
}

// Load reads and validates the configuration file.
func (c *File) Load() (*model.Config, error) {
	return model.LoadConfig(c.Path)
}
