package llm

import (
	"fmt"

	"golang.org/x/time/rate"

	"github.com/sant0-9/deckfill/internal/config"
)

// NewProvider creates a provider from config, paced by MinRequestInterval.
func NewProvider(cfg *config.Config) (Provider, error) {
	p, err := newBaseProvider(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.MinRequestInterval > 0 {
		return NewPaced(p, cfg.MinRequestInterval), nil
	}
	return p, nil
}

func newBaseProvider(cfg *config.Config) (Provider, error) {
	key := cfg.Key()
	switch cfg.Provider {
	case "ollama":
		host := "http://localhost:11434"
		if cfg.BaseURL != "" {
			host = cfg.BaseURL
		}
		return NewOllamaProvider(host, cfg.Model), nil

	case "groq":
		if key == "" {
			return nil, fmt.Errorf("groq requires an API key")
		}
		return NewGroqProvider(key, cfg.Model), nil

	case "openai":
		if key == "" {
			return nil, fmt.Errorf("openai requires an API key")
		}
		p := NewOpenAIProvider(key, cfg.Model)
		if cfg.BaseURL != "" {
			p.baseURL = cfg.BaseURL
		}
		return p, nil

	case "anthropic":
		if key == "" {
			return nil, fmt.Errorf("anthropic requires an API key")
		}
		p := NewAnthropicProvider(key, cfg.Model)
		if cfg.BaseURL != "" {
			p.baseURL = cfg.BaseURL
		}
		return p, nil

	case "openrouter":
		if key == "" {
			return nil, fmt.Errorf("openrouter requires an API key")
		}
		return NewOpenRouterProvider(key, cfg.Model), nil

	case "custom":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("custom provider requires base_url")
		}
		return NewCompatibleProvider("custom", cfg.BaseURL, key, cfg.Model), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// WithKey returns a factory building providers from cfg with a replaced API
// key. The config itself is not modified. Every provider the factory builds
// shares one limiter, so MinRequestInterval holds across rebuilds.
func WithKey(cfg *config.Config) func(apiKey string) (Provider, error) {
	var limiter *rate.Limiter
	if cfg.MinRequestInterval > 0 {
		limiter = newLimiter(cfg.MinRequestInterval)
	}
	return func(apiKey string) (Provider, error) {
		c := *cfg
		c.SetKey(apiKey)
		p, err := newBaseProvider(&c)
		if err != nil {
			return nil, err
		}
		if limiter == nil {
			return p, nil
		}
		return &Paced{Provider: p, limiter: limiter}, nil
	}
}
