// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/target-atlas/internal/chembl"
	"github.com/pdiddy/target-atlas/internal/pipeline"
	"github.com/pdiddy/target-atlas/internal/uniprot"
	"github.com/pdiddy/target-atlas/pkg/types"
)

var drugsCmd = &cobra.Command{
	Use:   "drugs",
	Short: "Collect approved drugs from ChEMBL",
	Long: `Drugs pages through every ChEMBL molecule with max_phase 4 and a first
approval year, and writes them sorted by approval year then name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd.Flags(), map[string]string{
			"chembl-url": "collect.base_url",
			"page-size":  "collect.page_size",
		}); err != nil {
			return err
		}
		return execute(func(ctx context.Context, cfg types.PipelineConfig) error {
			_, err := pipeline.CollectStage(ctx, chembl.NewClient(nil, cfg.Collect), cfg, os.Stdout)
			return err
		})
	},
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Link recently approved drugs to protein targets",
	Long: `Targets reads the drug table, keeps drugs approved in or after the year
cutoff, and resolves each drug's activity targets to UniProt accessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd.Flags(), map[string]string{
			"chembl-url":  "collect.base_url",
			"year-cutoff": "join.year_cutoff",
		}); err != nil {
			return err
		}
		return execute(func(ctx context.Context, cfg types.PipelineConfig) error {
			_, err := pipeline.JoinStage(ctx, chembl.NewClient(nil, cfg.Collect), cfg, os.Stdout)
			return err
		})
	},
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Fetch UniProt keywords for every targeted protein",
	Long: `Keywords reads the target table and fetches the UniProt entry of each
unique accession concurrently. Proteins without keywords fall back to the
text of their FUNCTION comments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd.Flags(), map[string]string{
			"uniprot-url": "enrich.base_url",
			"concurrency": "enrich.concurrency",
		}); err != nil {
			return err
		}
		return execute(func(ctx context.Context, cfg types.PipelineConfig) error {
			_, _, err := pipeline.EnrichStage(ctx, uniprot.NewClient(nil, cfg.Enrich), cfg, os.Stdout)
			return err
		})
	},
}

func init() {
	drugsCmd.Flags().String("chembl-url", types.DefaultChEMBLBaseURL, "ChEMBL REST API base URL")
	drugsCmd.Flags().Int("page-size", types.DefaultPageSize, "molecules requested per page")

	targetsCmd.Flags().String("chembl-url", types.DefaultChEMBLBaseURL, "ChEMBL REST API base URL")
	targetsCmd.Flags().Int("year-cutoff", types.DefaultYearCutoff, "include drugs first approved in this year or later")

	keywordsCmd.Flags().String("uniprot-url", types.DefaultUniProtBaseURL, "UniProtKB REST API base URL")
	keywordsCmd.Flags().Int("concurrency", types.DefaultConcurrency, "maximum in-flight UniProt requests")

	rootCmd.AddCommand(drugsCmd, targetsCmd, keywordsCmd)
}
