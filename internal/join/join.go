// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package join maps recently approved drugs to the protein accessions of
// their biological targets.
package join

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/target-atlas/internal/chembl"
	"github.com/pdiddy/target-atlas/internal/logging"
	"github.com/pdiddy/target-atlas/internal/metrics"
	"github.com/pdiddy/target-atlas/pkg/types"
)

// TargetLookup resolves a drug to the targets of its activities, and a
// target to its component accessions.
type TargetLookup interface {
	ActivityTargets(ctx context.Context, moleculeID string) ([]string, error)
	TargetAccessions(ctx context.Context, targetID string) ([]string, error)
}

// Result holds the links and counters from a join run.
type Result struct {
	Links []types.DrugTargetLink

	// Selected is the number of drugs at or after the year cutoff.
	Selected int

	// FailedDrugs counts drugs whose lookups failed; they contribute no links.
	FailedDrugs int

	// MissingTargets counts target identifiers the registry did not know.
	MissingTargets int
}

// ProgressEvery controls how often join progress is logged.
var ProgressEvery = 25

// SelectSince returns the drugs approved in or after yearCutoff, in input order.
func SelectSince(drugs []types.DrugRecord, yearCutoff int) []types.DrugRecord {
	var out []types.DrugRecord
	for _, d := range drugs {
		if d.ApprovalYear >= yearCutoff {
			out = append(out, d)
		}
	}
	return out
}

// Targets links every drug approved in or after yearCutoff to its target
// accessions. Drugs are processed one at a time.
//
// A drug whose lookups fail is logged and skipped. Only when every selected
// drug fails does Targets return an error wrapping types.ErrSourceUnavailable.
// Unknown targets are skipped with a warning.
func Targets(ctx context.Context, lookup TargetLookup, drugs []types.DrugRecord, yearCutoff int) (Result, error) {
	logger := logging.NewLogger("join")
	selected := SelectSince(drugs, yearCutoff)
	res := Result{Selected: len(selected)}

	logger.Info().Int("selected", len(selected)).Int("year_cutoff", yearCutoff).Msg("Fetching targets")

	for i, d := range selected {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("join interrupted after %d drugs: %w", i, err)
		}

		accessions, missing, err := drugAccessions(ctx, logger, lookup, d.ChEMBLID)
		res.MissingTargets += missing
		if err != nil {
			res.FailedDrugs++
			metrics.Records.WithLabelValues("join", "failed").Inc()
			logger.Warn().Err(err).Str("chembl_id", d.ChEMBLID).Msg("Target lookup failed, skipping drug")
			continue
		}

		for _, acc := range accessions {
			res.Links = append(res.Links, types.DrugTargetLink{ChEMBLID: d.ChEMBLID, Accession: acc})
		}
		metrics.Records.WithLabelValues("join", "linked").Add(float64(len(accessions)))

		if ProgressEvery > 0 && (i+1)%ProgressEvery == 0 {
			logger.Info().Int("done", i+1).Int("total", len(selected)).Int("links", len(res.Links)).Msg("Fetching targets")
		}
	}

	if res.Selected > 0 && res.FailedDrugs == res.Selected {
		return res, fmt.Errorf("%w: target lookups failed for all %d drugs", types.ErrSourceUnavailable, res.Selected)
	}
	return res, nil
}

// drugAccessions flat-maps one drug to its distinct target identifiers and
// then to its distinct component accessions. missing counts targets that
// were not found. Any other target error fails the whole drug.
func drugAccessions(ctx context.Context, logger zerolog.Logger, lookup TargetLookup, drugID string) (accessions []string, missing int, err error) {
	targetIDs, err := lookup.ActivityTargets(ctx, drugID)
	if err != nil {
		return nil, 0, err
	}

	var all []string
	for _, targetID := range unique(targetIDs) {
		acc, err := lookup.TargetAccessions(ctx, targetID)
		if errors.Is(err, chembl.ErrNotFound) {
			missing++
			logger.Warn().
				Str("chembl_id", drugID).
				Str("target_chembl_id", targetID).
				Msg("Target not found, skipping")
			continue
		}
		if err != nil {
			return nil, missing, err
		}
		all = append(all, acc...)
	}
	return unique(all), missing, nil
}

// unique drops empty strings and duplicates, keeping first-seen order.
func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// UniqueAccessions returns every accession referenced by links exactly once,
// in first-seen order.
func UniqueAccessions(links []types.DrugTargetLink) []string {
	acc := make([]string, len(links))
	for i, l := range links {
		acc[i] = l.Accession
	}
	return unique(acc)
}
