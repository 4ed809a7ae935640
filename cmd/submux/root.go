package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/submux/internal/config"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
	logLevel   string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "submux",
	Short: "Match subtitles to videos and mux them with mkvmerge",
	Long: `submux - match subtitles, fonts, chapters and tags to videos and mux them

Subtitles are paired with videos by filename: exact names first, then
episode numbers, then fuzzy show titles. Matched files are combined into
new Matroska files with mkvmerge.

Run 'submux match' to preview matches before muxing.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log every scored candidate")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("submux {{.Version}}\n")
}

// loadConfig loads the --config file, the discovered file, or defaults.
func loadConfig() (*config.Config, error) {
	cfg, path, err := config.LoadOrDefault(configPath)
	if err != nil {
		var cfgErr *config.ConfigError
		if path != "" && !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the logger from [log] and the command-line overrides.
// Logs go to stderr so --json output stays clean.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level := cfg.Level
	if logLevel != "" {
		level = logLevel
	}
	if debug {
		level = "debug"
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
