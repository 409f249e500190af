package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"textintel/internal/config"
	"textintel/internal/logging"
)

var (
	cfgPath      string
	logFormat    string
	verbosity    int
	globalConfig *config.AppConfig
	globalLogger = logr.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "textintel",
	Short: "Sentiment analysis, summarization and semantic search",
	Long: `textintel serves sentiment analysis, summarization and semantic search
over HTTP and MCP, and manages the local document index from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}
		_ = godotenv.Load()

		var (
			cfg  *config.AppConfig
			path string
			err  error
		)
		if cfgPath == "" {
			cfg, path, err = config.LoadDefault()
		} else {
			cfg, err = config.Load(cfgPath)
			path = cfgPath
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("log-format") {
			cfg.Logging.Format = logFormat
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Logging.Verbosity = verbosity
		}
		globalConfig = cfg
		globalLogger = logging.New(cfg.Logging, os.Stderr).WithName("textintel")
		globalLogger.V(1).Info("config loaded", "path", path, "environment", cfg.App.Environment)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (default ./config.yaml or ~/.config/textintel/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "Log verbosity level")
}
