package model

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/driftwatch/driftwatch/pkg/domain/types"
)

// Repository describes one tracked fork.
type Repository struct {
	Name            string   `toml:"name"`
	Fork            string   `toml:"fork"`
	Upstream        string   `toml:"upstream"`
	LocalPath       string   `toml:"local_path"`
	Skills          []string `toml:"skills"`
	AnalysisEnabled bool     `toml:"analysis_enabled"`
}

// Settings holds global analysis configuration.
type Settings struct {
	LLMProvider     string `toml:"llm_provider"`
	APIKeyEnv       string `toml:"api_key_env"`
	AnalysisEnabled bool   `toml:"analysis_enabled"`
	MaxDiffBytes    int    `toml:"max_diff_bytes"`
}

// Config is the decoded repositories file.
type Config struct {
	Settings     Settings     `toml:"settings"`
	Repositories []Repository `toml:"repositories"`
}

// DefaultSettings returns the settings used when the file omits them.
func DefaultSettings() Settings {
	return Settings{
		LLMProvider:     types.ProviderOpenAI.String(),
		AnalysisEnabled: true,
	}
}

// LoadConfig reads and validates a TOML repositories file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file",
			goerr.T(types.ErrTagConfig), goerr.V("path", path))
	}

	// Repositories omit analysis_enabled to mean "enabled"; decode through a
	// shadow type so the zero value does not read as disabled.
	type rawRepository struct {
		Repository
		AnalysisEnabled *bool `toml:"analysis_enabled"`
	}
	var raw struct {
		Settings     Settings        `toml:"settings"`
		Repositories []rawRepository `toml:"repositories"`
	}
	raw.Settings = DefaultSettings()

	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file",
			goerr.T(types.ErrTagConfig), goerr.V("path", path))
	}

	cfg := &Config{Settings: raw.Settings}
	for _, r := range raw.Repositories {
		repo := r.Repository
		repo.AnalysisEnabled = r.AnalysisEnabled == nil || *r.AnalysisEnabled
		cfg.Repositories = append(cfg.Repositories, repo)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks provider and repository entries.
func (c *Config) Validate() error {
	if !types.Provider(c.Settings.LLMProvider).IsSupported() {
		return goerr.New("unsupported LLM provider",
			goerr.T(types.ErrTagConfig),
			goerr.V("provider", c.Settings.LLMProvider))
	}

	seen := map[string]bool{}
	for _, repo := range c.Repositories {
		if repo.Name == "" {
			return goerr.New("repository name is required", goerr.T(types.ErrTagConfig))
		}
		if seen[repo.Name] {
			return goerr.New("duplicate repository name",
				goerr.T(types.ErrTagConfig), goerr.V("name", repo.Name))
		}
		seen[repo.Name] = true
	}
	return nil
}

// Repository looks up a configured repository by name.
func (c *Config) Repository(name string) (Repository, bool) {
	for _, repo := range c.Repositories {
		if repo.Name == name {
			return repo, true
		}
	}
	return Repository{}, false
}
