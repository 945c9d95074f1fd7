// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records and configuration shared by the
// target-atlas pipeline stages.
package types

import (
	"errors"
	"sort"
)

// ErrSourceUnavailable marks an upstream provider that could not be reached
// at all. It is fatal for the stage that returns it.
var ErrSourceUnavailable = errors.New("source unavailable")

// DrugRecord is an approved compound collected from the drug registry.
type DrugRecord struct {
	// ApprovalYear is the year of first regulatory approval.
	ApprovalYear int `json:"approval_year" yaml:"approval_year"`

	// Name is the preferred name. It may be empty.
	Name string `json:"name" yaml:"name"`

	// ChEMBLID is the registry identifier (e.g. "CHEMBL25").
	ChEMBLID string `json:"chembl_id" yaml:"chembl_id"`
}

// DrugTargetLink connects a drug to one protein accession of one of its targets.
type DrugTargetLink struct {
	ChEMBLID  string `json:"chembl_id" yaml:"chembl_id"`
	Accession string `json:"accession" yaml:"accession"`
}

// ProteinKeyword is one descriptive keyword for a protein accession.
type ProteinKeyword struct {
	Accession string `json:"accession" yaml:"accession"`
	Keyword   string `json:"keyword" yaml:"keyword"`
}

// SortDrugs orders drugs by approval year, then name. The sort is stable so
// exact ties keep their input order.
func SortDrugs(drugs []DrugRecord) {
	sort.SliceStable(drugs, func(i, j int) bool {
		if drugs[i].ApprovalYear != drugs[j].ApprovalYear {
			return drugs[i].ApprovalYear < drugs[j].ApprovalYear
		}
		return drugs[i].Name < drugs[j].Name
	})
}
