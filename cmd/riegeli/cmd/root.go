/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/douzebis/riegeli/pkg/config"
)

type contextKey string

const configKey contextKey = "config"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "riegeli",
	Short: "riegeli - record container files",
	Long: `riegeli reads and writes riegeli record files: length-prefixed
records grouped into hashed, optionally compressed chunks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		configPath, _ := cmd.Flags().GetString("config")
		if configPath != "" {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		} else if defaultPath := config.GetDefaultConfigPath(); fileExists(defaultPath) {
			loaded, err := config.LoadConfig(defaultPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		setupLogging(cfg.Logging.Level)

		cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// configFromCmd returns the configuration loaded by the root command.
func configFromCmd(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey).(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

func setupLogging(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
