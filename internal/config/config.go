// Package config loads EcoQuest settings from defaults, an optional YAML
// file, ECOQUEST_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Backends accepted by the "backend" key.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const envPrefix = "ECOQUEST"

type Config struct {
	Backend string       `mapstructure:"backend"`
	DB      string       `mapstructure:"db"`
	Redis   RedisConfig  `mapstructure:"redis"`
	Auth    AuthConfig   `mapstructure:"auth"`
	Server  ServerConfig `mapstructure:"server"`
	Log     LogConfig    `mapstructure:"log"`
	LLM     LLMConfig    `mapstructure:"llm"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type AuthConfig struct {
	// Secret signs session tokens. When empty a per-install secret is
	// generated under the data directory.
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// LoginRateLimit caps login attempts per client in LoginRateWindow.
	// Zero disables the limiter.
	LoginRateLimit  int           `mapstructure:"login_rate_limit"`
	LoginRateWindow time.Duration `mapstructure:"login_rate_window"`
}

type LogConfig struct {
	Mode     string `mapstructure:"mode"`
	Redact   bool   `mapstructure:"redact"`
	HashSalt string `mapstructure:"hash_salt"`
	File     string `mapstructure:"file"`
}

type LLMConfig struct {
	// Provider is empty to discover one from well-known API key variables.
	Provider   string         `mapstructure:"provider"`
	Timeout    time.Duration  `mapstructure:"timeout"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// defaults lists every key so that environment variables are picked up by
// Unmarshal even when no config file mentions them.
var defaults = map[string]any{
	"backend":                  BackendSQLite,
	"db":                       "",
	"redis.addr":               "localhost:6379",
	"redis.password":           "",
	"redis.db":                 0,
	"redis.key_prefix":         "ecoquest:",
	"auth.secret":              "",
	"auth.token_ttl":           30 * 24 * time.Hour,
	"server.addr":              ":8080",
	"server.allowed_origins":   []string{"http://localhost:5173"},
	"server.login_rate_limit":  10,
	"server.login_rate_window": time.Minute,
	"log.mode":                 "dev",
	"log.redact":               true,
	"log.hash_salt":            "",
	"log.file":                 "",
	"llm.provider":             "",
	"llm.timeout":              30 * time.Second,
	"llm.gemini.api_key":       "",
	"llm.gemini.model":         "",
	"llm.gemini.base_url":      "",
	"llm.openai.api_key":       "",
	"llm.openai.model":         "",
	"llm.openai.base_url":      "",
	"llm.anthropic.api_key":    "",
	"llm.anthropic.model":      "",
	"llm.anthropic.base_url":   "",
	"llm.openrouter.api_key":   "",
	"llm.openrouter.model":     "",
	"llm.openrouter.base_url":  "",
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"db":      "db",
	"backend": "backend",
	"addr":    "server.addr",
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// File is an explicit config file. When empty, ecoquest.yaml is looked
	// up in the config directory and its absence is not an error.
	File string

	// Flags, when set, overrides keys listed in flagKeys for flags the user changed.
	Flags *pflag.FlagSet
}

// Load resolves the configuration.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("ecoquest")
		v.SetConfigType("yaml")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, redis or memory)", c.Backend)
	}
	if c.Backend == BackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required for the redis backend")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Server.LoginRateLimit < 0 {
		return fmt.Errorf("server.login_rate_limit must not be negative")
	}
	return nil
}

// ConfigDir returns $XDG_CONFIG_HOME/ecoquest or ~/.config/ecoquest.
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns $XDG_DATA_HOME/ecoquest or ~/.local/share/ecoquest,
// creating it when missing.
func DataDir() (string, error) {
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return dir, os.MkdirAll(dir, 0o755)
}

func xdgDir(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, "ecoquest"), nil
}
