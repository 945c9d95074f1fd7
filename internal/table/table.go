// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table writes and reloads the pipeline's CSV tables. Each stage
// persists its table before the next stage starts, and the next stage reads
// it back from disk.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/target-atlas/pkg/types"
)

// Table headers. Column order and text are consumed downstream.
var (
	DrugsHeader    = []string{"Approval_Year", "Drug_Name", "ChEMBL_ID"}
	LinksHeader    = []string{"ChEMBL_ID", "UniProt_Accession"}
	KeywordsHeader = []string{"UniProt_Accession", "Keyword"}
)

// WriteDrugs writes the approved-drug table.
func WriteDrugs(path string, drugs []types.DrugRecord) error {
	rows := make([][]string, len(drugs))
	for i, d := range drugs {
		rows[i] = []string{strconv.Itoa(d.ApprovalYear), singleLine(d.Name), d.ChEMBLID}
	}
	return write(path, DrugsHeader, rows)
}

// WriteLinks writes the drug-to-accession table.
func WriteLinks(path string, links []types.DrugTargetLink) error {
	rows := make([][]string, len(links))
	for i, l := range links {
		rows[i] = []string{l.ChEMBLID, l.Accession}
	}
	return write(path, LinksHeader, rows)
}

// WriteKeywords writes the accession-to-keyword table.
func WriteKeywords(path string, keywords []types.ProteinKeyword) error {
	rows := make([][]string, len(keywords))
	for i, k := range keywords {
		rows[i] = []string{k.Accession, singleLine(k.Keyword)}
	}
	return write(path, KeywordsHeader, rows)
}

// singleLine replaces each run of control characters (line breaks, tabs)
// with one space. encoding/csv rewrites \r\n inside quoted fields on read,
// so free text is flattened before it is written.
func singleLine(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if unicode.IsControl(r) {
			if !inRun {
				b.WriteByte(' ')
			}
			inRun = true
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

// ReadDrugs reloads a table written by WriteDrugs.
func ReadDrugs(path string) ([]types.DrugRecord, error) {
	rows, err := read(path, DrugsHeader)
	if err != nil {
		return nil, err
	}
	drugs := make([]types.DrugRecord, 0, len(rows))
	for i, r := range rows {
		year, err := strconv.Atoi(r[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid approval year %q", path, i+2, r[0])
		}
		if r[2] == "" {
			return nil, fmt.Errorf("%s line %d: empty ChEMBL_ID", path, i+2)
		}
		drugs = append(drugs, types.DrugRecord{ApprovalYear: year, Name: r[1], ChEMBLID: r[2]})
	}
	return drugs, nil
}

// ReadLinks reloads a table written by WriteLinks.
func ReadLinks(path string) ([]types.DrugTargetLink, error) {
	rows, err := read(path, LinksHeader)
	if err != nil {
		return nil, err
	}
	links := make([]types.DrugTargetLink, 0, len(rows))
	for i, r := range rows {
		if r[0] == "" || r[1] == "" {
			return nil, fmt.Errorf("%s line %d: empty identifier", path, i+2)
		}
		links = append(links, types.DrugTargetLink{ChEMBLID: r[0], Accession: r[1]})
	}
	return links, nil
}

// ReadKeywords reloads a table written by WriteKeywords.
func ReadKeywords(path string) ([]types.ProteinKeyword, error) {
	rows, err := read(path, KeywordsHeader)
	if err != nil {
		return nil, err
	}
	out := make([]types.ProteinKeyword, len(rows))
	for i, r := range rows {
		out[i] = types.ProteinKeyword{Accession: r[0], Keyword: r[1]}
	}
	return out, nil
}

// write creates path through a temporary file in the same directory and
// renames it into place, so a reader never sees a partial table.
func write(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".table-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	w := csv.NewWriter(tmpFile)
	writeErr := w.Write(header)
	if writeErr == nil {
		writeErr = w.WriteAll(rows)
	}
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// read returns the data rows of path after checking the header row.
func read(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	got, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: missing header row", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", path, err)
	}
	if !slices.Equal(got, header) {
		return nil, fmt.Errorf("%s: unexpected header %v, want %v", path, got, header)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
