package llm

import (
	"os"

	"github.com/m-mizutani/goerr/v2"

	"github.com/driftwatch/driftwatch/pkg/domain/interfaces"
	"github.com/driftwatch/driftwatch/pkg/domain/types"
)

// Option configures client construction.
type Option func(*config)

type config struct {
	apiKey    string
	apiKeyEnv string
	model     string
}

// WithAPIKey sets the API key directly, bypassing environment lookup.
func WithAPIKey(key string) Option {
	return func(c *config) {
		c.apiKey = key
	}
}

// WithAPIKeyEnv sets the environment variable the key is read from when no
// explicit key is given.
func WithAPIKeyEnv(name string) Option {
	return func(c *config) {
		c.apiKeyEnv = name
	}
}

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(c *config) {
		c.model = model
	}
}

// New creates a client for the given provider. Credential resolution order
// is WithAPIKey, then the WithAPIKeyEnv variable, then the provider's
// conventional environment variable.
func New(provider types.Provider, opts ...Option) (interfaces.LLMClient, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	switch provider {
	case types.ProviderOpenAI:
		key, err := cfg.resolveKey("OPENAI_API_KEY")
		if err != nil {
			return nil, err
		}
		return newOpenAIClient(key, cfg.model), nil

	case types.ProviderAnthropic:
		key, err := cfg.resolveKey("ANTHROPIC_API_KEY")
		if err != nil {
			return nil, err
		}
		return newAnthropicClient(key, cfg.model), nil

	default:
		return nil, goerr.New("unsupported LLM provider",
			goerr.T(types.ErrTagConfig), goerr.V("provider", provider))
	}
}

func (c *config) resolveKey(defaultEnv string) (string, error) {
	if c.apiKey != "" {
		return c.apiKey, nil
	}

	env := c.apiKeyEnv
	if env == "" {
		env = defaultEnv
	}
	if key := os.Getenv(env); key != "" {
		return key, nil
	}

	return "", goerr.New("API key not found",
		goerr.T(types.ErrTagConfig), goerr.V("env", env))
}
