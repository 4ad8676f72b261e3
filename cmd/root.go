package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/sovbot/internal/config"
	"github.com/abhisek/sovbot/internal/logging"
	"github.com/abhisek/sovbot/internal/store"
)

// Set by the root command before any subcommand runs.
var (
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "sovbot",
	Short: "СОВ diagnostics bot",
	Long: `sovbot runs the СОВ (Системы Осознанного Выбора) diagnostics questionnaire
as a Telegram webhook bot, or locally in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file (default $XDG_CONFIG_HOME/sovbot/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SOVBOT_DB and the config file)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the logger.
func setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		c.Store.Path = db
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	l, err := logging.New(c.Logging.Level, c.Logging.Development, verbose)
	if err != nil {
		return err
	}
	cfg, logger = c, l
	return nil
}

// resolveDBPath returns the configured database path, then the default XDG
// path.
func resolveDBPath() (string, error) {
	if p := cfg.Store.Path; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
