// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich fetches protein keywords for a set of accessions with a
// fixed number of requests in flight.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/target-atlas/internal/logging"
	"github.com/pdiddy/target-atlas/internal/metrics"
	"github.com/pdiddy/target-atlas/internal/uniprot"
	"github.com/pdiddy/target-atlas/pkg/types"
)

// Fetcher returns the keywords of one accession.
type Fetcher interface {
	Keywords(ctx context.Context, accession string) ([]string, error)
}

// Result maps every requested accession to its keywords.
type Result struct {
	// Keywords has exactly one entry per unique accession. Failed fetches map
	// to an empty slice.
	Keywords map[string][]string

	// Order lists the unique accessions in first-seen input order.
	Order []string

	// Failed lists the accessions whose fetch failed, in Order.
	Failed []string
}

// ProgressEvery controls how often enrichment progress is logged.
var ProgressEvery = 50

// Keywords fetches keywords for each unique accession using at most limit
// concurrent fetches (types.DefaultConcurrency when limit <= 0).
//
// A failed fetch is logged and resolves to an empty list; it never affects
// other accessions and never fails the call. Each worker writes only its own
// slot of a preallocated slice, so no lock is taken on the results.
func Keywords(ctx context.Context, f Fetcher, accessions []string, limit int) Result {
	logger := logging.NewLogger("enrich")
	if limit <= 0 {
		limit = types.DefaultConcurrency
	}

	order := dedupe(accessions)
	keywords := make([][]string, len(order))
	failed := make([]bool, len(order))

	logger.Info().Int("accessions", len(order)).Int("concurrency", limit).Msg("Fetching keywords")

	var g errgroup.Group
	g.SetLimit(limit)
	var done atomic.Int64
	for i, acc := range order {
		g.Go(func() error {
			kw, err := fetchOne(ctx, f, acc)
			if err != nil {
				failed[i] = true
				metrics.Records.WithLabelValues("enrich", "failed").Inc()
				ev := logger.Warn().Err(err).Str("accession", acc)
				var se *uniprot.StatusError
				if errors.As(err, &se) {
					ev = ev.Int("status_code", se.StatusCode)
				}
				ev.Msg("Keyword fetch failed")
			} else if len(kw) == 0 {
				metrics.Records.WithLabelValues("enrich", "empty").Inc()
			} else {
				metrics.Records.WithLabelValues("enrich", "enriched").Inc()
			}
			if kw == nil {
				kw = []string{}
			}
			keywords[i] = kw

			if n := done.Add(1); ProgressEvery > 0 && n%int64(ProgressEvery) == 0 {
				logger.Info().Int64("fetched", n).Int("total", len(order)).Msg("Fetching keywords")
			}
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Keywords: make(map[string][]string, len(order)), Order: order}
	for i, acc := range order {
		res.Keywords[acc] = keywords[i]
		if failed[i] {
			res.Failed = append(res.Failed, acc)
		}
	}
	return res
}

// fetchOne calls the fetcher and turns a panic into an error so one bad
// document cannot take down the pool.
func fetchOne(ctx context.Context, f Fetcher, accession string) (kw []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			kw, err = nil, fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	kw, err = f.Keywords(ctx, accession)
	if err != nil {
		return nil, err
	}
	return kw, nil
}

// Rows flattens a result into keyword rows in accession order, then keyword
// order. Accessions without keywords produce no rows.
func Rows(res Result) []types.ProteinKeyword {
	var rows []types.ProteinKeyword
	for _, acc := range res.Order {
		for _, kw := range res.Keywords[acc] {
			rows = append(rows, types.ProteinKeyword{Accession: acc, Keyword: kw})
		}
	}
	return rows
}

// dedupe drops empty and repeated accessions, keeping first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
