// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/target-atlas/internal/metrics"
	"github.com/pdiddy/target-atlas/internal/pipeline"
	"github.com/pdiddy/target-atlas/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all three stages: drugs, targets, keywords",
	Long: `Run collects approved drugs from ChEMBL, links drugs approved since the
year cutoff to their protein targets, and fetches UniProt keywords for every
targeted protein. Each stage writes its table before the next one starts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd.Flags(), map[string]string{
			"year-cutoff": "join.year_cutoff",
			"concurrency": "enrich.concurrency",
		}); err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		return execute(func(ctx context.Context, cfg types.PipelineConfig) error {
			return runPipeline(ctx, pipeline.NewDeps(cfg), cfg, os.Stdout, asJSON)
		})
	},
}

func init() {
	runCmd.Flags().Int("year-cutoff", types.DefaultYearCutoff, "include drugs first approved in this year or later")
	runCmd.Flags().Int("concurrency", types.DefaultConcurrency, "maximum in-flight UniProt requests")
	runCmd.Flags().Bool("json", false, "print the run summary as JSON")

	rootCmd.AddCommand(runCmd)
}

// runPipeline runs every stage and reports to out. With asJSON the stage
// console lines are discarded and out receives only the JSON summary.
func runPipeline(ctx context.Context, deps pipeline.Deps, cfg types.PipelineConfig, out io.Writer, asJSON bool) error {
	console := out
	if asJSON {
		console = io.Discard
	}

	summary, err := pipeline.Run(ctx, deps, cfg, console)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(summary); encErr != nil {
			return fmt.Errorf("encoding summary: %w", encErr)
		}
	}
	return err
}

// execute loads the configuration, runs fn under a context cancelled by
// SIGINT or SIGTERM, and writes the metrics textfile when one is configured.
func execute(fn func(ctx context.Context, cfg types.PipelineConfig) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	runErr := fn(ctx, cfg)

	if path := viper.GetString("metrics_file"); path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("writing metrics textfile")
		}
	}
	return runErr
}
