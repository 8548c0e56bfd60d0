package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/abhisek/ecoquest/internal/config"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-2.0-flash-lite"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: defaultGeminiModel,
		},
		OpenRouter: OpenRouterConfig{
			Model: defaultOpenRouterModel,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// FromSettings overlays the application settings onto DefaultConfig.
// An empty provider resolves to the first one with a configured key, then
// to DiscoverConfig. ok is false when no provider could be determined.
func FromSettings(s config.LLMConfig) (Config, bool) {
	cfg := DefaultConfig()
	cfg.Provider = s.Provider
	if cfg.Provider == "" {
		cfg.Provider = firstConfigured(s)
	}
	if cfg.Provider == "" {
		discovered, ok := DiscoverConfig()
		if !ok {
			return Config{}, false
		}
		cfg = discovered
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Gemini.APIKey, s.Gemini.APIKey)
	set(&cfg.Gemini.Model, s.Gemini.Model)
	set(&cfg.OpenAI.APIKey, s.OpenAI.APIKey)
	set(&cfg.OpenAI.Model, s.OpenAI.Model)
	set(&cfg.OpenAI.BaseURL, s.OpenAI.BaseURL)
	set(&cfg.Anthropic.APIKey, s.Anthropic.APIKey)
	set(&cfg.Anthropic.Model, s.Anthropic.Model)
	set(&cfg.Anthropic.BaseURL, s.Anthropic.BaseURL)
	set(&cfg.OpenRouter.APIKey, s.OpenRouter.APIKey)
	set(&cfg.OpenRouter.Model, s.OpenRouter.Model)
	set(&cfg.OpenRouter.BaseURL, s.OpenRouter.BaseURL)
	if s.Timeout > 0 {
		cfg.Timeout = s.Timeout
	}
	return cfg, true
}

func firstConfigured(s config.LLMConfig) string {
	switch {
	case s.Gemini.APIKey != "":
		return "gemini"
	case s.OpenAI.APIKey != "":
		return "openai"
	case s.Anthropic.APIKey != "":
		return "anthropic"
	case s.OpenRouter.APIKey != "":
		return "openrouter"
	}
	return ""
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ECOQUEST_LLM_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("ECOQUEST_LLM_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("ECOQUEST_LLM_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("ECOQUEST_LLM_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
