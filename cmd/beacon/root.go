package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Beacon/internal/config"
	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
)

// Build-time variables, injected via ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "beacon",
		Short: "Weighted Lighthouse quality index",
		Long: `Beacon turns Lighthouse category scores into a single weighted quality
index. It can score a report file once or serve the index over HTTP.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			if opts.verbose {
				level = "debug"
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), level, "text"))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newServeCmd(opts), newScoreCmd(opts), newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "beacon %s (commit %s)\n", Version, Commit)
		},
	}
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, hopts))
	}
	return slog.New(slog.NewJSONHandler(w, hopts))
}

// weightSlots maps configured raw weight input onto categories.
func weightSlots(w config.ScoringWeights) map[scoring.Category]string {
	return map[scoring.Category]string{
		scoring.Performance:   w.Performance,
		scoring.Accessibility: w.Accessibility,
		scoring.BestPractices: w.BestPractices,
		scoring.SEO:           w.SEO,
	}
}
