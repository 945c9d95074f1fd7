// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the collect, join and enrich stages in order. Every
// stage persists its table and the next stage reloads that table from disk,
// so a run can be inspected or resumed between stages.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/target-atlas/internal/chembl"
	"github.com/pdiddy/target-atlas/internal/collect"
	"github.com/pdiddy/target-atlas/internal/enrich"
	"github.com/pdiddy/target-atlas/internal/join"
	"github.com/pdiddy/target-atlas/internal/table"
	"github.com/pdiddy/target-atlas/internal/uniprot"
	"github.com/pdiddy/target-atlas/pkg/types"
)

// Deps are the upstream collaborators of a run.
type Deps struct {
	Molecules collect.MoleculeSource
	Targets   join.TargetLookup
	Keywords  enrich.Fetcher
}

// NewDeps wires the ChEMBL and UniProt clients from cfg.
func NewDeps(cfg types.PipelineConfig) Deps {
	chemblClient := chembl.NewClient(nil, cfg.Collect)
	return Deps{
		Molecules: chemblClient,
		Targets:   chemblClient,
		Keywords:  uniprot.NewClient(nil, cfg.Enrich),
	}
}

// Summary holds the counts reported at the end of a run.
type Summary struct {
	Drugs          int `json:"drugs" yaml:"drugs"`
	Selected       int `json:"selected" yaml:"selected"`
	Links          int `json:"links" yaml:"links"`
	FailedDrugs    int `json:"failed_drugs" yaml:"failed_drugs"`
	MissingTargets int `json:"missing_targets" yaml:"missing_targets"`
	Proteins       int `json:"proteins" yaml:"proteins"`
	FailedProteins int `json:"failed_proteins" yaml:"failed_proteins"`
	Keywords       int `json:"keywords" yaml:"keywords"`
}

// CollectStage collects approved drugs and writes the drug table.
func CollectStage(ctx context.Context, src collect.MoleculeSource, cfg types.PipelineConfig, w io.Writer) (int, error) {
	fmt.Fprintln(w, "Retrieving approved drug records from ChEMBL...")

	drugs, err := collect.Approved(ctx, src, chembl.ApprovedFilter(cfg.Collect.MaxPhase))
	if err != nil {
		return 0, err
	}

	path := cfg.Output.DrugsPath()
	if err := table.WriteDrugs(path, drugs); err != nil {
		return 0, err
	}
	fmt.Fprintf(w, "Stored %d approved drugs into %s.\n\n", len(drugs), path)
	return len(drugs), nil
}

// JoinStage reloads the drug table, links recent drugs to target accessions
// and writes the target table.
func JoinStage(ctx context.Context, lookup join.TargetLookup, cfg types.PipelineConfig, w io.Writer) (join.Result, error) {
	drugs, err := table.ReadDrugs(cfg.Output.DrugsPath())
	if err != nil {
		return join.Result{}, fmt.Errorf("loading drug table: %w", err)
	}

	fmt.Fprintf(w, "Identifying recent drug targets (approved from %d onwards)...\n", cfg.Join.YearCutoff)

	res, err := join.Targets(ctx, lookup, drugs, cfg.Join.YearCutoff)
	if err != nil {
		return res, err
	}

	path := cfg.Output.TargetsPath()
	if err := table.WriteLinks(path, res.Links); err != nil {
		return res, err
	}
	fmt.Fprintf(w, "Collected %d protein targets into %s.\n", len(res.Links), path)
	if res.FailedDrugs > 0 {
		fmt.Fprintf(w, "warning: target lookup failed for %d of %d drugs\n", res.FailedDrugs, res.Selected)
	}
	fmt.Fprintln(w)
	return res, nil
}

// EnrichStage reloads the target table, fetches keywords for every unique
// accession and writes the keyword table.
func EnrichStage(ctx context.Context, f enrich.Fetcher, cfg types.PipelineConfig, w io.Writer) (enrich.Result, int, error) {
	links, err := table.ReadLinks(cfg.Output.TargetsPath())
	if err != nil {
		return enrich.Result{}, 0, fmt.Errorf("loading target table: %w", err)
	}

	fmt.Fprintln(w, "Extracting UniProt keywords for protein targets...")

	res := enrich.Keywords(ctx, f, join.UniqueAccessions(links), cfg.Enrich.Concurrency)
	rows := enrich.Rows(res)

	path := cfg.Output.KeywordsPath()
	if err := table.WriteKeywords(path, rows); err != nil {
		return res, 0, err
	}
	fmt.Fprintf(w, "Retrieved %d keywords from %d proteins.\n", len(rows), len(res.Order))
	if len(res.Failed) > 0 {
		fmt.Fprintf(w, "warning: keyword fetch failed for %d proteins\n", len(res.Failed))
	}
	fmt.Fprintf(w, "Saved keyword annotations into %s.\n\n", path)
	return res, len(rows), nil
}

// Run executes all three stages. A stage error stops the run; per-item
// failures inside a stage do not.
func Run(ctx context.Context, deps Deps, cfg types.PipelineConfig, w io.Writer) (Summary, error) {
	var s Summary

	n, err := CollectStage(ctx, deps.Molecules, cfg, w)
	if err != nil {
		return s, fmt.Errorf("collect stage: %w", err)
	}
	s.Drugs = n

	jr, err := JoinStage(ctx, deps.Targets, cfg, w)
	s.Selected, s.Links, s.FailedDrugs, s.MissingTargets = jr.Selected, len(jr.Links), jr.FailedDrugs, jr.MissingTargets
	if err != nil {
		return s, fmt.Errorf("join stage: %w", err)
	}

	er, rows, err := EnrichStage(ctx, deps.Keywords, cfg, w)
	s.Proteins, s.FailedProteins, s.Keywords = len(er.Order), len(er.Failed), rows
	if err != nil {
		return s, fmt.Errorf("enrich stage: %w", err)
	}

	fmt.Fprintln(w, "Analysis complete!")
	return s, nil
}
