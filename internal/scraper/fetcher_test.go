package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pageServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetch_Success(t *testing.T) {
	srv, hits := pageServer(t, http.StatusOK, goldPage)
	f := NewFetcher(Options{SourceURL: srv.URL}, zap.NewNop())

	price, ok, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2450.50", price.StringFixed(2))
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetch_NonSuccessStatusIsAbsent(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		srv, hits := pageServer(t, status, goldPage)
		f := NewFetcher(Options{SourceURL: srv.URL}, zap.NewNop())

		_, ok, err := f.Fetch(context.Background())
		require.NoError(t, err, "status %d", status)
		assert.False(t, ok, "status %d", status)
		assert.Equal(t, int32(1), hits.Load(), "status %d should be requested once", status)
	}
}

func TestFetch_NoContentIsAbsent(t *testing.T) {
	srv, _ := pageServer(t, http.StatusNoContent, "")
	f := NewFetcher(Options{SourceURL: srv.URL}, zap.NewNop())

	_, ok, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFetch_MissingElementIsAbsent(t *testing.T) {
	srv, _ := pageServer(t, http.StatusOK, `<html><body>maintenance</body></html>`)
	f := NewFetcher(Options{SourceURL: srv.URL}, zap.NewNop())

	_, ok, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFetch_NonNumericIsAbsent(t *testing.T) {
	srv, _ := pageServer(t, http.StatusOK, `<span id="DetailPlace_uc_goldprices1_lblBLSell">-</span>`)
	f := NewFetcher(Options{SourceURL: srv.URL}, zap.NewNop())

	_, ok, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFetch_TransportErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewFetcher(Options{SourceURL: url}, nil)
	_, ok, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "fetch source")
}

func TestFetch_RetriesWhenConfigured(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(goldPage))
	}))
	defer srv.Close()

	f := NewFetcher(Options{SourceURL: srv.URL, MaxAttempts: 2}, zap.NewNop())
	price, ok, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2450.50", price.StringFixed(2))
	assert.Equal(t, int32(2), hits.Load())
}

func TestNewFetcher_Defaults(t *testing.T) {
	f := NewFetcher(Options{}, nil)
	assert.Equal(t, DefaultSourceURL, f.sourceURL)
	assert.Equal(t, DefaultElementID, f.extractor.elementID)
	assert.Equal(t, 1, f.retry.MaxAttempts)
	assert.Zero(t, f.httpClient.Timeout)
}
