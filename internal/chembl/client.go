// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chembl reads approved molecules, activities and targets from the
// ChEMBL data web services. List endpoints are exposed as lazy sequences that
// page through page_meta.next on demand.
package chembl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/target-atlas/internal/httputil"
	"github.com/pdiddy/target-atlas/internal/logging"
	"github.com/pdiddy/target-atlas/internal/metrics"
	"github.com/pdiddy/target-atlas/pkg/types"
)

// ErrNotFound is returned when a ChEMBL resource does not exist (HTTP 404).
var ErrNotFound = errors.New("chembl: not found")

// Client queries the ChEMBL API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	pageSize   int
	logger     zerolog.Logger
}

// NewClient creates a ChEMBL client from the collect stage configuration.
// When httpClient is nil a client with cfg.Timeout is created. Empty fields
// fall back to the package defaults.
func NewClient(httpClient *http.Client, cfg types.CollectConfig) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = types.DefaultChEMBLTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = types.DefaultChEMBLBaseURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > types.DefaultPageSize {
		pageSize = types.DefaultPageSize
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = types.DefaultUserAgent
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		pageSize:   pageSize,
		logger:     logging.NewLogger("chembl"),
	}
}

// MoleculeFilter selects molecules from the registry.
type MoleculeFilter struct {
	// MaxPhase is the required max_phase value; 0 disables the filter.
	MaxPhase int

	// RequireApproval keeps only molecules with a first_approval date.
	RequireApproval bool
}

// ApprovedFilter returns the filter for approved drugs with a known approval year.
func ApprovedFilter(maxPhase int) MoleculeFilter {
	return MoleculeFilter{MaxPhase: maxPhase, RequireApproval: true}
}

func (f MoleculeFilter) values() url.Values {
	v := url.Values{}
	if f.MaxPhase > 0 {
		v.Set("max_phase", strconv.Itoa(f.MaxPhase))
	}
	if f.RequireApproval {
		v.Set("first_approval__isnull", "false")
	}
	return v
}

// Molecule is the subset of a ChEMBL molecule record used by the pipeline.
type Molecule struct {
	ChEMBLID      string  `json:"molecule_chembl_id"`
	PrefName      *string `json:"pref_name"`
	FirstApproval *int    `json:"first_approval"`
}

// Name returns the preferred name, or "" when it is null.
func (m Molecule) Name() string {
	if m.PrefName == nil {
		return ""
	}
	return *m.PrefName
}

// ApprovalYear returns the first approval year, or 0 when it is null.
func (m Molecule) ApprovalYear() int {
	if m.FirstApproval == nil {
		return 0
	}
	return *m.FirstApproval
}

// Molecules returns a lazy sequence over every molecule matching filter.
// Pages are fetched on demand; each iteration of the returned sequence
// starts again from the first page. A fetch error is yielded once and ends
// the sequence.
func (c *Client) Molecules(ctx context.Context, filter MoleculeFilter) iter.Seq2[Molecule, error] {
	return paginate[Molecule](ctx, c, "/molecule.json", filter.values(), "molecules")
}

type activity struct {
	TargetChEMBLID *string `json:"target_chembl_id"`
}

// ActivityTargets returns the target identifiers referenced by every activity
// of the molecule, in response order. Null targets are dropped; duplicates
// are kept.
func (c *Client) ActivityTargets(ctx context.Context, moleculeID string) ([]string, error) {
	params := url.Values{
		"molecule_chembl_id": {moleculeID},
		"only":               {"target_chembl_id"},
	}
	var ids []string
	for a, err := range paginate[activity](ctx, c, "/activity.json", params, "activities") {
		if err != nil {
			return nil, fmt.Errorf("activities for %s: %w", moleculeID, err)
		}
		if a.TargetChEMBLID != nil && *a.TargetChEMBLID != "" {
			ids = append(ids, *a.TargetChEMBLID)
		}
	}
	return ids, nil
}

type targetDetail struct {
	TargetChEMBLID   string            `json:"target_chembl_id"`
	TargetComponents []targetComponent `json:"target_components"`
}

type targetComponent struct {
	Accession *string `json:"accession"`
}

// TargetAccessions returns the component accessions of a target in
// response order. Components without an accession are skipped, and a target
// without components yields an empty slice. A missing target returns an
// error wrapping ErrNotFound.
func (c *Client) TargetAccessions(ctx context.Context, targetID string) ([]string, error) {
	var detail targetDetail
	if err := c.getJSON(ctx, c.baseURL+"/target/"+url.PathEscape(targetID)+".json", &detail); err != nil {
		return nil, fmt.Errorf("target %s: %w", targetID, err)
	}
	var accessions []string
	for _, comp := range detail.TargetComponents {
		if comp.Accession != nil && *comp.Accession != "" {
			accessions = append(accessions, *comp.Accession)
		}
	}
	return accessions, nil
}

type pageMeta struct {
	Next       *string `json:"next"`
	TotalCount int     `json:"total_count"`
	Offset     int     `json:"offset"`
}

// paginate walks a list endpoint, yielding the elements stored under key on
// each page until page_meta.next is null.
func paginate[T any](ctx context.Context, c *Client, path string, params url.Values, key string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		q.Set("limit", strconv.Itoa(c.pageSize))
		q.Set("offset", "0")
		next := c.baseURL + path + "?" + q.Encode()

		for next != "" {
			var page map[string]json.RawMessage
			if err := c.getJSON(ctx, next, &page); err != nil {
				yield(zero, err)
				return
			}

			var items []T
			if raw, ok := page[key]; ok {
				if err := json.Unmarshal(raw, &items); err != nil {
					yield(zero, fmt.Errorf("parsing %s page: %w", key, err))
					return
				}
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}

			var meta pageMeta
			if raw, ok := page["page_meta"]; ok {
				if err := json.Unmarshal(raw, &meta); err != nil {
					yield(zero, fmt.Errorf("parsing page_meta: %w", err))
					return
				}
			}
			c.logger.Debug().
				Str("path", path).
				Int("offset", meta.Offset).
				Int("total", meta.TotalCount).
				Int("items", len(items)).
				Msg("Fetched page")

			if meta.Next == nil || *meta.Next == "" {
				return
			}
			resolved, err := c.resolve(*meta.Next)
			if err != nil {
				yield(zero, err)
				return
			}
			if resolved == next {
				yield(zero, fmt.Errorf("pagination loop at %s", next))
				return
			}
			next = resolved
		}
	}
}

// resolve turns a page_meta.next reference (usually host-relative) into an
// absolute URL against the client's base URL.
func (c *Client) resolve(ref string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing next page URL %q: %w", ref, err)
	}
	return base.ResolveReference(u).String(), nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, metrics.ProviderChEMBL, 0)
	if err != nil {
		return fmt.Errorf("ChEMBL API request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s", ErrNotFound, reqURL)
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("ChEMBL API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing ChEMBL response: %w", err)
	}
	return nil
}
