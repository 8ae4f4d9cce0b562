package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/readiz/internal/config"
	"github.com/abhisek/readiz/internal/logger"
	"github.com/abhisek/readiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "readiz",
	Short: "AI reading comprehension tutor",
	Long:  "Readiz is a terminal reading tutor: pick a topic or an instructor's material, read, answer four questions and get feedback.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return logger.Initialize(cfg.Log)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ./readiz.yaml or $XDG_CONFIG_HOME/readiz/readiz.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite audit database (overrides READIZ_DB env var)")
	rootCmd.PersistentFlags().String("log-file", "", "Append logs to this file")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider: gemini, openai, anthropic, openrouter, ollama, mock")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration with flags taking precedence over the
// config file and environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	file, _ := flags.GetString("config")

	overrides := map[string]any{}
	for flag, key := range map[string]string{
		"db":       "store.path",
		"log-file": "log.file",
		"provider": "llm.provider",
	} {
		if v, _ := flags.GetString(flag); v != "" {
			overrides[key] = v
		}
	}

	cfg, err := config.Load(config.Options{ConfigFile: file, Overrides: overrides})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, then READIZ_DB, then
// the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if p := cfg.Store.Path; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the audit log database.
func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
