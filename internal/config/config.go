// Package config loads readiz settings from defaults, an optional
// readiz.yaml, READIZ_* environment variables and command-line overrides,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/readiz/internal/llm"
	"github.com/abhisek/readiz/internal/logger"
)

// EnvPrefix is prepended to every environment variable readiz reads.
const EnvPrefix = "READIZ"

// Config is the fully resolved application configuration.
type Config struct {
	LLM    llm.Config
	Log    logger.Config
	Store  StoreConfig
	Cache  CacheConfig
	Reader ReaderConfig

	// File is the config file that was read, if any.
	File string
}

// StoreConfig locates the LLM audit log database.
type StoreConfig struct {
	// Path is the SQLite file. Empty resolves to store.DefaultDBPath.
	Path string
	// Disabled skips the audit log entirely.
	Disabled bool
}

// CacheConfig selects the extracted-passage cache.
type CacheConfig struct {
	// Backend is "memory", "redis" or "none".
	Backend string
	TTL     time.Duration
	Redis   RedisConfig
}

// RedisConfig addresses the Redis server for the "redis" cache backend.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// ReaderConfig describes the intended reader; it is interpolated into
// generation and evaluation prompts.
type ReaderConfig struct {
	Age int
}

// Options adjust a single Load call.
type Options struct {
	// ConfigFile overrides config file discovery.
	ConfigFile string
	// Overrides are applied last, keyed by dotted config key
	// (e.g. "llm.provider"). Command-line flags land here.
	Overrides map[string]any
}

// discoveredKeys lists the conventional API key variables probed when no
// provider is configured, in priority order.
var discoveredKeys = []struct {
	provider string
	key      string
	envs     []string
}{
	{"gemini", "gemini.api_key", []string{"GEMINI_API_KEY", "API_KEY"}},
	{"openai", "openai.api_key", []string{"OPENAI_API_KEY"}},
	{"anthropic", "anthropic.api_key", []string{"ANTHROPIC_API_KEY"}},
	{"openrouter", "openrouter.api_key", []string{"OPENROUTER_API_KEY"}},
}

// Load resolves the configuration. A missing config file is not an error;
// a malformed one is.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, d := range discoveredKeys {
		envs := append([]string{EnvPrefix + "_" + envName(d.key)}, d.envs...)
		if err := v.BindEnv(append([]string{d.key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", d.key, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("readiz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "readiz"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	for k, val := range opts.Overrides {
		v.Set(k, val)
	}

	cfg := &Config{
		LLM: llm.Config{
			Provider: v.GetString("llm.provider"),
			Gemini: llm.GeminiConfig{
				APIKey: v.GetString("gemini.api_key"),
				Model:  v.GetString("gemini.model"),
			},
			OpenAI: llm.OpenAIConfig{
				APIKey:  v.GetString("openai.api_key"),
				Model:   v.GetString("openai.model"),
				BaseURL: v.GetString("openai.base_url"),
			},
			Anthropic: llm.AnthropicConfig{
				APIKey: v.GetString("anthropic.api_key"),
				Model:  v.GetString("anthropic.model"),
			},
			OpenRouter: llm.OpenRouterConfig{
				APIKey:  v.GetString("openrouter.api_key"),
				Model:   v.GetString("openrouter.model"),
				BaseURL: v.GetString("openrouter.base_url"),
			},
			Ollama: llm.OllamaConfig{
				ServerURL: v.GetString("ollama.server_url"),
				Model:     v.GetString("ollama.model"),
			},
			Retry: llm.RetryConfig{
				MaxAttempts: v.GetInt("llm.retry.max_attempts"),
				InitialWait: v.GetDuration("llm.retry.initial_wait"),
				MaxWait:     v.GetDuration("llm.retry.max_wait"),
				Multiplier:  v.GetFloat64("llm.retry.multiplier"),
			},
			Timeout:       v.GetDuration("llm.timeout"),
			CaptureBodies: v.GetBool("llm.capture_bodies"),
		},
		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   v.GetString("log.file"),
		},
		Store: StoreConfig{
			Path:     v.GetString("store.path"),
			Disabled: v.GetBool("store.disabled"),
		},
		Cache: CacheConfig{
			Backend: v.GetString("cache.backend"),
			TTL:     v.GetDuration("cache.ttl"),
			Redis: RedisConfig{
				Address:  v.GetString("cache.redis.address"),
				Password: v.GetString("cache.redis.password"),
				DB:       v.GetInt("cache.redis.db"),
			},
		},
		Reader: ReaderConfig{
			Age: v.GetInt("reader.age"),
		},
		File: v.ConfigFileUsed(),
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = discoverProvider(v)
	}

	return cfg, nil
}

// Validate reports configuration that would prevent the app from running.
// A missing API key for the selected provider is fatal at startup.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "memory", "none":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return fmt.Errorf("cache.redis.address is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}
	if c.Reader.Age <= 0 {
		return fmt.Errorf("reader.age must be positive, got %d", c.Reader.Age)
	}
	return nil
}

// discoverProvider picks the first provider whose API key is present,
// falling back to the default provider so validation names the missing key.
func discoverProvider(v *viper.Viper) string {
	for _, d := range discoveredKeys {
		if v.GetString(d.key) != "" {
			return d.provider
		}
	}
	return llm.DefaultConfig().Provider
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.capture_bodies", false)
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)

	v.SetDefault("gemini.model", d.Gemini.Model)
	v.SetDefault("openai.model", d.OpenAI.Model)
	v.SetDefault("openai.base_url", "")
	v.SetDefault("anthropic.model", d.Anthropic.Model)
	v.SetDefault("openrouter.model", d.OpenRouter.Model)
	v.SetDefault("openrouter.base_url", "")
	v.SetDefault("ollama.server_url", d.Ollama.ServerURL)
	v.SetDefault("ollama.model", d.Ollama.Model)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	v.SetDefault("store.path", "")
	v.SetDefault("store.disabled", false)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.redis.address", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("reader.age", 14)
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
