// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package uniprot fetches UniProtKB entries and extracts descriptive keywords.
package uniprot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/target-atlas/internal/metrics"
	"github.com/pdiddy/target-atlas/pkg/types"
)

// StatusError reports a non-200 response for an entry.
type StatusError struct {
	Accession  string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("UniProt returned HTTP %d for %s", e.StatusCode, e.Accession)
}

// Client fetches UniProtKB entries. Each entry is requested once; there is
// no retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a UniProt client. When httpClient is nil a client with
// cfg.Timeout (default 10s) is created.
func NewClient(httpClient *http.Client, cfg types.EnrichConfig) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = types.DefaultEnrichTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = types.DefaultUniProtBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = types.DefaultUserAgent
	}
	return &Client{httpClient: httpClient, baseURL: baseURL, userAgent: userAgent}
}

// EntryURL returns the JSON entry URL for accession.
func (c *Client) EntryURL(accession string) string {
	return c.baseURL + "/" + url.PathEscape(accession) + ".json"
}

// Entry fetches the raw JSON document for accession.
func (c *Client) Entry(ctx context.Context, accession string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.EntryURL(accession), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.HTTPDuration.WithLabelValues(metrics.ProviderUniProt).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.HTTPRequests.WithLabelValues(metrics.ProviderUniProt, "error").Inc()
		return nil, fmt.Errorf("UniProt request for %s: %w", accession, err)
	}
	defer resp.Body.Close()
	metrics.HTTPRequests.WithLabelValues(metrics.ProviderUniProt, metrics.StatusLabel(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Accession: accession, StatusCode: resp.StatusCode}
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing UniProt entry %s: %w", accession, err)
	}
	return doc, nil
}

// Keywords fetches the entry for accession and extracts its keywords.
func (c *Client) Keywords(ctx context.Context, accession string) ([]string, error) {
	doc, err := c.Entry(ctx, accession)
	if err != nil {
		return nil, err
	}
	return ExtractKeywords(doc), nil
}
