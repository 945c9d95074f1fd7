// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics declares the Prometheus collectors for a pipeline run and
// exports them in node-exporter textfile format.
//
// Collectors:
//   - target_atlas_http_requests_total{provider, status}
//   - target_atlas_http_request_duration_seconds{provider}
//   - target_atlas_http_retries_total{provider}
//   - target_atlas_records_total{stage, outcome}
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider labels.
const (
	ProviderChEMBL  = "chembl"
	ProviderUniProt = "uniprot"
)

var (
	// HTTPRequests counts completed upstream requests by provider and status.
	// Transport failures use status "error".
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "target_atlas_http_requests_total",
		Help: "Upstream HTTP requests by provider and status",
	}, []string{"provider", "status"})

	// HTTPDuration observes upstream request latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "target_atlas_http_request_duration_seconds",
		Help:    "Upstream HTTP request duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"provider"})

	// HTTPRetries counts rate-limit retries.
	HTTPRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "target_atlas_http_retries_total",
		Help: "HTTP 429 retries by provider",
	}, []string{"provider"})

	// Records counts records per stage and outcome
	// (kept, skipped, failed, linked, enriched, empty).
	Records = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "target_atlas_records_total",
		Help: "Pipeline records by stage and outcome",
	}, []string{"stage", "outcome"})
)

// StatusLabel returns the label value for an HTTP status code.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

// WriteTextfile writes every registered metric to path in the text exposition
// format. The parent directory is created if needed.
func WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}
