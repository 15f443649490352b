package types

// Version is the application version, overridden at build time
var Version = "0.1.0"

// AppName is the CLI application name
const AppName = "driftwatch"

// Provider identifies a hosted LLM backend
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// SupportedProviders lists all providers the analyzer can resolve
var SupportedProviders = []Provider{ProviderOpenAI, ProviderAnthropic}

// IsSupported checks if the provider is in the supported set
func (p Provider) IsSupported() bool {
	for _, s := range SupportedProviders {
		if p == s {
			return true
		}
	}
	return false
}

func (p Provider) String() string {
	return string(p)
}
