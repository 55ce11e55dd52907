package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Beacon/internal/config"
	"github.com/MikeSquared-Agency/Beacon/internal/ingest"
	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
)

type scoreOptions struct {
	weights map[scoring.Category]*string
	asJSON  bool
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	so := &scoreOptions{weights: make(map[scoring.Category]*string, len(scoring.Categories))}
	cmd := &cobra.Command{
		Use:   "score <report.json>",
		Short: "Score a Lighthouse report file",
		Long: `Score reads a Lighthouse JSON report, prints each category on a 0-100
scale and the weighted quality index.

Weights come from the config file and BEACON_WEIGHT_* variables and can be
overridden per run:
  beacon score report.json --weight-performance 50 --weight-seo 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, opts, so, args[0])
		},
	}

	for _, c := range scoring.Categories {
		so.weights[c] = cmd.Flags().String("weight-"+c.Key(), "", "raw weight for "+c.Label())
	}
	cmd.Flags().BoolVar(&so.asJSON, "json", false, "print the result as JSON")
	return cmd
}

func runScore(cmd *cobra.Command, opts *rootOptions, so *scoreOptions, path string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	slots := weightSlots(cfg.Scoring.Weights)
	for c, v := range so.weights {
		if cmd.Flags().Changed("weight-" + c.Key()) {
			slots[c] = *v
		}
	}

	logger := slog.Default()
	session := scoring.NewSession(scoring.NewRegistry(slots), logger)
	loader := ingest.NewLoader(session, logger)

	r := loader.Run(cmd.Context(), ingest.NewFileSource(path))
	if !r.OK() {
		return fmt.Errorf("score %s: %w", path, r.Err)
	}

	res := session.Recompute()
	if so.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printResult(cmd.OutOrStdout(), res)
}

func printResult(w io.Writer, res scoring.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range res.Categories {
		fmt.Fprintf(tw, "%s\t%s\t\n", c.Name, c.Label)
	}
	fmt.Fprintf(tw, "Index\t%s\t\n", res.IndexText)
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, res.Weights)
	return err
}
