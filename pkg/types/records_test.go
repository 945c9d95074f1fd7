// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDrugs(t *testing.T) {
	drugs := []DrugRecord{
		{ApprovalYear: 2020, Name: "DrugA2", ChEMBLID: "C3"},
		{ApprovalYear: 2018, Name: "DrugB", ChEMBLID: "C2"},
		{ApprovalYear: 2020, Name: "DrugA", ChEMBLID: "C1"},
		{ApprovalYear: 2020, Name: "", ChEMBLID: "C4"},
	}

	SortDrugs(drugs)

	ids := make([]string, len(drugs))
	for i, d := range drugs {
		ids[i] = d.ChEMBLID
	}
	assert.Equal(t, []string{"C2", "C4", "C1", "C3"}, ids)
}

func TestSortDrugs_StableOnTies(t *testing.T) {
	drugs := []DrugRecord{
		{ApprovalYear: 1999, Name: "Same", ChEMBLID: "first"},
		{ApprovalYear: 1999, Name: "Same", ChEMBLID: "second"},
	}
	SortDrugs(drugs)
	assert.Equal(t, "first", drugs[0].ChEMBLID)
	assert.Equal(t, "second", drugs[1].ChEMBLID)
}

func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()
	assert.Equal(t, 10, cfg.Enrich.Concurrency)
	assert.Equal(t, DefaultEnrichTimeout, cfg.Enrich.Timeout)
	assert.Equal(t, "Mozilla/5.0", cfg.Enrich.UserAgent)
	assert.Equal(t, 2019, cfg.Join.YearCutoff)
	assert.Equal(t, 4, cfg.Collect.MaxPhase)
}
