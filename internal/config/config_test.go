package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears every variable Load consults so the host environment
// cannot leak into a test.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"READIZ_GEMINI_API_KEY", "READIZ_OPENAI_API_KEY", "READIZ_ANTHROPIC_API_KEY",
		"READIZ_OPENROUTER_API_KEY", "READIZ_LLM_PROVIDER", "READIZ_LLM_TIMEOUT",
		"READIZ_READER_AGE", "READIZ_CACHE_BACKEND", "READIZ_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-flash", cfg.LLM.Gemini.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 14, cfg.Reader.Age)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.File)
}

func TestValidate_MissingKeyIsFatal(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoad_DiscoversProviderFromConventionalKeys(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		provider string
	}{
		{"legacy API_KEY maps to gemini", map[string]string{"API_KEY": "k"}, "gemini"},
		{"gemini wins over openai", map[string]string{"GEMINI_API_KEY": "g", "OPENAI_API_KEY": "o"}, "gemini"},
		{"openai", map[string]string{"OPENAI_API_KEY": "o"}, "openai"},
		{"anthropic", map[string]string{"ANTHROPIC_API_KEY": "a"}, "anthropic"},
		{"openrouter", map[string]string{"OPENROUTER_API_KEY": "r"}, "openrouter"},
		{"prefixed key", map[string]string{"READIZ_ANTHROPIC_API_KEY": "a"}, "anthropic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.provider, cfg.LLM.Provider)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestLoad_ExplicitProviderIsKept(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("READIZ_LLM_PROVIDER", "mock")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestLoad_ConfigFileAndPrecedence(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "readiz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  timeout: 45s
openai:
  api_key: from-file
  model: gpt-4.1-mini
reader:
  age: 11
cache:
  backend: redis
  redis:
    address: localhost:6379
`), 0o644))
	t.Setenv("READIZ_READER_AGE", "12")

	cfg, err := Load(Options{
		ConfigFile: path,
		Overrides:  map[string]any{"llm.timeout": "90s"},
	})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "from-file", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 12, cfg.Reader.Age, "env beats file")
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout, "override beats file")
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Address)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Cache:  CacheConfig{Backend: "memory"},
			Reader: ReaderConfig{Age: 14},
		}
	}
	base0 := base()
	base0.LLM.Provider = "mock"
	require.NoError(t, base0.Validate())

	redis := base()
	redis.LLM.Provider = "mock"
	redis.Cache.Backend = "redis"
	assert.Error(t, redis.Validate())

	unknown := base()
	unknown.LLM.Provider = "mock"
	unknown.Cache.Backend = "memcached"
	assert.Error(t, unknown.Validate())

	age := base()
	age.LLM.Provider = "mock"
	age.Reader.Age = 0
	assert.Error(t, age.Validate())
}
