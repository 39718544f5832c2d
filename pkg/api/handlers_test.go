package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/douzebis/riegeli/pkg/codec"
	"github.com/douzebis/riegeli/pkg/records"
)

// Prometheus collectors register globally, so all tests share one Metrics.
var (
	testMetrics     *Metrics
	testMetricsOnce sync.Once
)

func getTestMetrics() *Metrics {
	testMetricsOnce.Do(func() { testMetrics = NewMetrics() })
	return testMetrics
}

func newTestServer(t *testing.T, numRecords int) (*Server, []string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.riegeli")
	writer, err := records.Create(path, records.WriterConfig{
		ChunkSize: 128,
		Codec:     codec.CodecZstd,
	})
	require.NoError(t, err)
	recs := make([]string, numRecords)
	for i := range recs {
		recs[i] = fmt.Sprintf("served record %03d", i)
		require.NoError(t, writer.WriteRecordString(recs[i]))
	}
	require.NoError(t, writer.Close())

	server, err := NewServer(path, getTestMetrics())
	require.NoError(t, err)
	return server, recs
}

func getJSON(t *testing.T, srv *httptest.Server, path string) (*http.Response, APIResponse) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestHandleHealth(t *testing.T) {
	server, _ := newTestServer(t, 1)
	srv := httptest.NewServer(server.Router())
	defer srv.Close()

	resp, body := getJSON(t, srv, "/api/v1/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, body.Success)
}

func TestHandleRecord(t *testing.T) {
	server, recs := newTestServer(t, 50)
	srv := httptest.NewServer(server.Router())
	defer srv.Close()

	for _, ordinal := range []int{0, 25, 49} {
		resp, body := getJSON(t, srv, fmt.Sprintf("/api/v1/records/%d", ordinal))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.True(t, body.Success)

		raw, err := json.Marshal(body.Data)
		require.NoError(t, err)
		var rec RecordResponse
		require.NoError(t, json.Unmarshal(raw, &rec))

		data, err := base64.StdEncoding.DecodeString(rec.Data)
		require.NoError(t, err)
		assert.Equal(t, recs[ordinal], string(data))
		assert.Equal(t, ordinal, rec.Ordinal)
		assert.Equal(t, len(data), rec.Size)
	}
}

func TestHandleRecordNotFound(t *testing.T) {
	server, _ := newTestServer(t, 5)
	srv := httptest.NewServer(server.Router())
	defer srv.Close()

	resp, body := getJSON(t, srv, "/api/v1/records/5")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, body.Success)

	resp, _ = getJSON(t, srv, "/api/v1/records/notanumber")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleStats(t *testing.T) {
	server, _ := newTestServer(t, 40)
	srv := httptest.NewServer(server.Router())
	defer srv.Close()

	resp, body := getJSON(t, srv, "/api/v1/stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := json.Marshal(body.Data)
	require.NoError(t, err)
	var stats StatsResponse
	require.NoError(t, json.Unmarshal(raw, &stats))
	assert.Equal(t, 40, stats.Records)
	assert.Greater(t, stats.Chunks, 1)
	assert.Greater(t, stats.FileSizeBytes, int64(0))
}

func TestRequestIDHeader(t *testing.T) {
	server, _ := newTestServer(t, 1)
	srv := httptest.NewServer(server.Router())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
