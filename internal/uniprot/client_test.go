// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package uniprot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/target-atlas/pkg/types"
)

func testClient(ts *httptest.Server) *Client {
	return NewClient(ts.Client(), types.EnrichConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "Mozilla/5.0"},
		BaseURL:    ts.URL + "/uniprotkb",
	})
}

func TestKeywords_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/uniprotkb/P00533.json", r.URL.Path)
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"primaryAccession": "P00533", "keywords": [{"value": "Kinase"}]}`)
	}))
	defer ts.Close()

	kw, err := testClient(ts).Keywords(context.Background(), "P00533")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kinase"}, kw)
}

func TestEntry_NonOKStatus(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := testClient(ts).Entry(context.Background(), "P1")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "P1", se.Accession)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "entry fetches are never retried")
}

func TestEntry_RateLimitNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := testClient(ts).Entry(context.Background(), "P1")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestEntry_MalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"keywords": [`)
	}))
	defer ts.Close()

	_, err := testClient(ts).Entry(context.Background(), "P1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing UniProt entry P1")
}

func TestEntry_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	c := NewClient(&http.Client{Timeout: 50 * time.Millisecond}, types.EnrichConfig{BaseURL: ts.URL})
	_, err := c.Entry(context.Background(), "P2")
	require.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil, types.EnrichConfig{})
	assert.Equal(t, types.DefaultEnrichTimeout, c.httpClient.Timeout)
	assert.Equal(t, "https://rest.uniprot.org/uniprotkb/P12345.json", c.EntryURL("P12345"))
	assert.Equal(t, types.DefaultUserAgent, c.userAgent)
}
