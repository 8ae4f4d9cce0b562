package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/readiz/internal/app"
	"github.com/abhisek/readiz/internal/cache"
	"github.com/abhisek/readiz/internal/config"
	"github.com/abhisek/readiz/internal/evaluation"
	"github.com/abhisek/readiz/internal/extract"
	"github.com/abhisek/readiz/internal/llm"
	"github.com/abhisek/readiz/internal/logger"
	"github.com/abhisek/readiz/internal/material"
	"github.com/abhisek/readiz/internal/sessiongen"
	"github.com/abhisek/readiz/internal/store"
	"github.com/abhisek/readiz/internal/tutor"
)

// runApp validates configuration, builds dependencies, and launches the TUI.
// A missing API key stops here, before the terminal is taken over.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var eventRepo store.EventRepo
	if !cfg.Store.Disabled {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		eventRepo = st.EventRepo()
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM, eventRepo)
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	passages, closeCache := newPassageCache(ctx, cfg)
	defer closeCache()

	machine := tutor.New(tutor.Deps{
		Materials: material.NewRepository(material.Sample()),
		Extractor: extract.Cached(extract.New(provider, nil, extract.DefaultConfig()), passages),
		Generator: sessiongen.New(provider, generationConfig(cfg)),
		Evaluator: evaluation.New(provider, evaluationConfig(cfg)),
	})

	logger.Get().Info("starting readiz",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("cache", cfg.Cache.Backend),
		zap.String("config_file", cfg.File))

	return app.Run(ctx, machine, app.Options{})
}

// newPassageCache builds the configured cache. An unreachable Redis falls
// back to the in-memory cache.
func newPassageCache(ctx context.Context, cfg *config.Config) (cache.PassageCache, func()) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.Nop{}, func() {}
	case "redis":
		r, err := cache.DialRedis(ctx, cache.RedisOptions{
			Address:  cfg.Cache.Redis.Address,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		}, cfg.Cache.TTL)
		if err == nil {
			return r, func() { _ = r.Close() }
		}
		logger.Get().Warn("redis cache unavailable, using memory", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Redis cache unavailable, falling back to memory:", err)
	}
	return cache.NewMemory(cfg.Cache.TTL), func() {}
}

func generationConfig(cfg *config.Config) sessiongen.Config {
	c := sessiongen.DefaultConfig()
	c.ReaderAge = cfg.Reader.Age
	return c
}

func evaluationConfig(cfg *config.Config) evaluation.Config {
	c := evaluation.DefaultConfig()
	c.ReaderAge = cfg.Reader.Age
	return c
}
