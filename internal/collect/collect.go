// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect gathers the approved-drug universe from the registry.
package collect

import (
	"context"
	"fmt"
	"iter"

	"github.com/pdiddy/target-atlas/internal/chembl"
	"github.com/pdiddy/target-atlas/internal/logging"
	"github.com/pdiddy/target-atlas/internal/metrics"
	"github.com/pdiddy/target-atlas/pkg/types"
)

// MoleculeSource yields every molecule matching a filter. The returned
// sequence must be restartable; pagination is the source's concern.
type MoleculeSource interface {
	Molecules(ctx context.Context, filter chembl.MoleculeFilter) iter.Seq2[chembl.Molecule, error]
}

// ProgressEvery controls how often collection progress is logged.
var ProgressEvery = 500

// Approved reads every molecule matching filter and returns the ones with an
// identifier and an approval year, sorted by (year, name).
//
// Records missing either field are excluded without error. Any source error
// aborts the stage: a partial drug universe is never returned.
func Approved(ctx context.Context, src MoleculeSource, filter chembl.MoleculeFilter) ([]types.DrugRecord, error) {
	logger := logging.NewLogger("collect")

	var drugs []types.DrugRecord
	seen, skipped := 0, 0
	for m, err := range src.Molecules(ctx, filter) {
		if err != nil {
			return nil, fmt.Errorf("%w: collecting molecules after %d records: %w", types.ErrSourceUnavailable, seen, err)
		}
		seen++
		if ProgressEvery > 0 && seen%ProgressEvery == 0 {
			logger.Info().Int("fetched", seen).Int("kept", len(drugs)).Msg("Processing approved molecules")
		}

		if m.ChEMBLID == "" || m.ApprovalYear() == 0 {
			skipped++
			continue
		}
		drugs = append(drugs, types.DrugRecord{
			ApprovalYear: m.ApprovalYear(),
			Name:         m.Name(),
			ChEMBLID:     m.ChEMBLID,
		})
	}

	types.SortDrugs(drugs)

	metrics.Records.WithLabelValues("collect", "kept").Add(float64(len(drugs)))
	metrics.Records.WithLabelValues("collect", "skipped").Add(float64(skipped))
	logger.Info().Int("fetched", seen).Int("kept", len(drugs)).Int("skipped", skipped).Msg("Collection complete")

	return drugs, nil
}
