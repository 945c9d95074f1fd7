// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/target-atlas/internal/chembl"
	"github.com/pdiddy/target-atlas/pkg/types"
)

// --- mock source ---

type mockSource struct {
	molecules []chembl.Molecule
	failAfter int // yield an error after this many records; -1 disables
	filter    chembl.MoleculeFilter
}

func (m *mockSource) Molecules(_ context.Context, filter chembl.MoleculeFilter) iter.Seq2[chembl.Molecule, error] {
	m.filter = filter
	return func(yield func(chembl.Molecule, error) bool) {
		for i, mol := range m.molecules {
			if m.failAfter >= 0 && i == m.failAfter {
				yield(chembl.Molecule{}, errors.New("connection refused"))
				return
			}
			if !yield(mol, nil) {
				return
			}
		}
	}
}

func mol(id, name string, year int) chembl.Molecule {
	m := chembl.Molecule{ChEMBLID: id}
	if name != "" {
		m.PrefName = &name
	}
	if year != 0 {
		m.FirstApproval = &year
	}
	return m
}

func TestApproved_FiltersAndSorts(t *testing.T) {
	src := &mockSource{failAfter: -1, molecules: []chembl.Molecule{
		mol("C3", "DrugA2", 2020),
		mol("C2", "DrugB", 2018),
		mol("", "NoID", 2001),
		mol("C9", "NoYear", 0),
		mol("C1", "DrugA", 2020),
		mol("C4", "", 2018),
	}}

	drugs, err := Approved(context.Background(), src, chembl.ApprovedFilter(4))
	require.NoError(t, err)

	assert.Equal(t, []types.DrugRecord{
		{ApprovalYear: 2018, Name: "", ChEMBLID: "C4"},
		{ApprovalYear: 2018, Name: "DrugB", ChEMBLID: "C2"},
		{ApprovalYear: 2020, Name: "DrugA", ChEMBLID: "C1"},
		{ApprovalYear: 2020, Name: "DrugA2", ChEMBLID: "C3"},
	}, drugs)
	assert.Equal(t, chembl.ApprovedFilter(4), src.filter)
}

func TestApproved_DeterministicOrder(t *testing.T) {
	src := &mockSource{failAfter: -1, molecules: []chembl.Molecule{
		mol("C5", "Zeta", 2000),
		mol("C6", "Alpha", 2000),
		mol("C7", "Alpha", 1999),
	}}

	first, err := Approved(context.Background(), src, chembl.ApprovedFilter(4))
	require.NoError(t, err)
	second, err := Approved(context.Background(), src, chembl.ApprovedFilter(4))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "C7", first[0].ChEMBLID)
}

func TestApproved_SourceErrorIsFatal(t *testing.T) {
	src := &mockSource{failAfter: 1, molecules: []chembl.Molecule{
		mol("C1", "A", 2020),
		mol("C2", "B", 2021),
	}}

	drugs, err := Approved(context.Background(), src, chembl.ApprovedFilter(4))
	require.Error(t, err)
	assert.Nil(t, drugs)
	assert.ErrorIs(t, err, types.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestApproved_EmptySource(t *testing.T) {
	drugs, err := Approved(context.Background(), &mockSource{failAfter: -1}, chembl.ApprovedFilter(4))
	require.NoError(t, err)
	assert.Empty(t, drugs)
}

// ctxSource yields ctx.Err() once the context is done.
type ctxSource struct{}

func (ctxSource) Molecules(ctx context.Context, _ chembl.MoleculeFilter) iter.Seq2[chembl.Molecule, error] {
	return func(yield func(chembl.Molecule, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(chembl.Molecule{}, err)
		}
	}
}

func TestApproved_CancellationKeepsCause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Approved(ctx, ctxSource{}, chembl.ApprovedFilter(4))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSourceUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
