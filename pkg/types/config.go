// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CollectConfig holds settings for the approved-drug collection stage.
type CollectConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the ChEMBL data API root.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// MaxPhase is the required development phase (4 = approved).
	MaxPhase int `json:"max_phase" yaml:"max_phase"`

	// PageSize is the number of records requested per page (ChEMBL caps at 1000).
	PageSize int `json:"page_size" yaml:"page_size"`
}

// JoinConfig holds settings for the drug-to-target join stage.
type JoinConfig struct {
	// YearCutoff selects drugs approved in or after this year.
	YearCutoff int `json:"year_cutoff" yaml:"year_cutoff"`
}

// EnrichConfig holds settings for the protein keyword stage.
type EnrichConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the UniProtKB entry endpoint root; entries are fetched
	// from BaseURL/<accession>.json.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Concurrency caps the number of in-flight entry fetches (default 10).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// OutputConfig names the three CSV tables written by the pipeline.
type OutputConfig struct {
	// Dir is the directory the tables are written to.
	Dir string `json:"dir" yaml:"dir"`

	DrugsFile    string `json:"drugs_file" yaml:"drugs_file"`
	TargetsFile  string `json:"targets_file" yaml:"targets_file"`
	KeywordsFile string `json:"keywords_file" yaml:"keywords_file"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Collect CollectConfig `json:"collect" yaml:"collect"`
	Join    JoinConfig    `json:"join" yaml:"join"`
	Enrich  EnrichConfig  `json:"enrich" yaml:"enrich"`
	Output  OutputConfig  `json:"output" yaml:"output"`
}

// Defaults for the pipeline configuration.
const (
	DefaultChEMBLBaseURL  = "https://www.ebi.ac.uk/chembl/api/data"
	DefaultUniProtBaseURL = "https://rest.uniprot.org/uniprotkb"
	DefaultUserAgent      = "Mozilla/5.0"
	DefaultEnrichTimeout  = 10 * time.Second
	DefaultChEMBLTimeout  = 60 * time.Second
	DefaultMaxPhase       = 4
	DefaultPageSize       = 1000
	DefaultYearCutoff     = 2019
	DefaultConcurrency    = 10
)

// DefaultPipelineConfig returns the configuration used when nothing is overridden.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Collect: CollectConfig{
			HTTPConfig: HTTPConfig{Timeout: DefaultChEMBLTimeout, UserAgent: DefaultUserAgent},
			BaseURL:    DefaultChEMBLBaseURL,
			MaxPhase:   DefaultMaxPhase,
			PageSize:   DefaultPageSize,
		},
		Join: JoinConfig{YearCutoff: DefaultYearCutoff},
		Enrich: EnrichConfig{
			HTTPConfig:  HTTPConfig{Timeout: DefaultEnrichTimeout, UserAgent: DefaultUserAgent},
			BaseURL:     DefaultUniProtBaseURL,
			Concurrency: DefaultConcurrency,
		},
		Output: OutputConfig{
			Dir:          ".",
			DrugsFile:    "approved_drugs_list.csv",
			TargetsFile:  "drug_targets.csv",
			KeywordsFile: "protein_keywords.csv",
		},
	}
}

// DrugsPath returns the path of the approved-drug table.
func (o OutputConfig) DrugsPath() string { return joinPath(o.Dir, o.DrugsFile) }

// TargetsPath returns the path of the drug-target table.
func (o OutputConfig) TargetsPath() string { return joinPath(o.Dir, o.TargetsFile) }

// KeywordsPath returns the path of the protein-keyword table.
func (o OutputConfig) KeywordsPath() string { return joinPath(o.Dir, o.KeywordsFile) }

func joinPath(dir, file string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, file)
}
