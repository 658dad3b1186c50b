package providers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Provider describes a preset used when creating API profiles
type Provider interface {
	// Name returns the provider's name (e.g., "anthropic", "ollama")
	Name() string
	// Description returns the text suggested as the profile description
	Description() string
	// DefaultBaseURL returns the default base URL, empty when the user must supply one
	DefaultBaseURL() string
	// RequiresAPIKey reports whether a profile for this provider needs a key
	RequiresAPIKey() bool
	// ValidateConfig validates the API configuration for this provider
	ValidateConfig(baseURL, apiKey string) error
	// NormalizeConfig normalizes the base URL (e.g., strip trailing slash)
	NormalizeConfig(baseURL string) string
}

// registry stores all registered providers
var registry = make(map[string]Provider)

// Register registers a new provider
func Register(name string, provider Provider) {
	registry[name] = provider
}

// Get returns a provider by name
func Get(name string) (Provider, error) {
	provider, ok := registry[name]
	if !ok {
		return nil, errors.New("unknown provider: " + name)
	}
	return provider, nil
}

// List returns all registered provider names in sorted order
func List() []string {
	var list []string
	for name := range registry {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// preset is a table-driven Provider
type preset struct {
	name        string
	description string
	baseURL     string
	requireKey  bool
	requireURL  bool
}

func (p *preset) Name() string           { return p.name }
func (p *preset) Description() string    { return p.description }
func (p *preset) DefaultBaseURL() string { return p.baseURL }
func (p *preset) RequiresAPIKey() bool   { return p.requireKey }

func (p *preset) ValidateConfig(baseURL, apiKey string) error {
	if p.requireKey && apiKey == "" {
		return fmt.Errorf("%s: must provide API key", p.name)
	}
	if p.requireURL && baseURL == "" {
		return fmt.Errorf("%s: must provide base URL", p.name)
	}
	return nil
}

func (p *preset) NormalizeConfig(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

// 初始化：注册内置提供商
func init() {
	Register("anthropic", &preset{
		name:        "anthropic",
		description: "Anthropic API",
		baseURL:     "https://api.anthropic.com",
		requireKey:  true,
	})
	Register("openai", &preset{
		name:        "openai",
		description: "OpenAI-compatible API",
		baseURL:     "https://api.openai.com/v1",
		requireKey:  true,
	})
	Register("litellm", &preset{
		name:        "litellm",
		description: "LiteLLM proxy",
		requireKey:  true,
		requireURL:  true,
	})
	Register("ollama", &preset{
		name:        "ollama",
		description: "Local Ollama",
		baseURL:     "http://127.0.0.1:11434",
	})
}
