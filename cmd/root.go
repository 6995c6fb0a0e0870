package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mj1618/wsbar/internal/config"
	"github.com/mj1618/wsbar/internal/output"
	"github.com/mj1618/wsbar/internal/version"
)

// cfg is loaded by the root command before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "wsbar",
	Short: "Keep a workspace bar in sync with window-manager events",
	Long: `wsbar maintains the window list and workspace indicator of a status bar
from a stream of window-manager events. Each change is applied to an
in-memory model and the visible node tree is reconciled with the fewest
insert, remove and reorder operations.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "text", "Output format: text, yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: $XDG_CONFIG_HOME/wsbar/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		path, _ := rootCmd.PersistentFlags().GetString("config")
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level, _ := rootCmd.PersistentFlags().GetString("log-level")
		if level == "" {
			level = cfg.LogLevel
		}
		return setupLogging(level)
	}
}

func setupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(lvl)
	return nil
}
