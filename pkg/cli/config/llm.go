package config

import (
	"github.com/urfave/cli/v3"

	"github.com/driftwatch/driftwatch/pkg/infra/llm"
)

// LLM holds LLM provider configuration
type LLM struct {
	Provider  string
	Model     string
	APIKey    string
	APIKeyEnv string
}

// Flags returns CLI flags for LLM configuration
func (c *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider (openai, anthropic)",
			Destination: &c.Provider,
			Sources:     cli.EnvVars("DRIFTWATCH_LLM_PROVIDER"),
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "Model name (provider default when empty)",
			Destination: &c.Model,
			Sources:     cli.EnvVars("DRIFTWATCH_LLM_MODEL"),
		},
		&cli.StringFlag{
			Name:        "llm-api-key",
			Usage:       "API key for the LLM provider",
			Destination: &c.APIKey,
			Sources:     cli.EnvVars("DRIFTWATCH_LLM_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "llm-api-key-env",
			Usage:       "Environment variable holding the API key",
			Destination: &c.APIKeyEnv,
			Sources:     cli.EnvVars("DRIFTWATCH_LLM_API_KEY_ENV"),
		},
	}
}

// Options converts flag values into client construction options.
func (c *LLM) Options() []llm.Option {
	var opts []llm.Option
	if c.APIKey != "" {
		opts = append(opts, llm.WithAPIKey(c.APIKey))
	}
	if c.APIKeyEnv != "" {
		opts = append(opts, llm.WithAPIKeyEnv(c.APIKeyEnv))
	}
	if c.Model != "" {
		opts = append(opts, llm.WithModel(c.Model))
	}
	return opts
}
