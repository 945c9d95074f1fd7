// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsCounter(t *testing.T) {
	c := Records.WithLabelValues("test", "kept")
	before := testutil.ToFloat64(c)
	c.Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(c))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "200", StatusLabel(200))
	assert.Equal(t, "404", StatusLabel(404))
}

func TestWriteTextfile(t *testing.T) {
	HTTPRequests.WithLabelValues(ProviderUniProt, "200").Inc()

	path := filepath.Join(t.TempDir(), "nested", "target_atlas.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "target_atlas_http_requests_total")
}
