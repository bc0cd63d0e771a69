package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchParsesAndOrdersSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/time_series", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1min", r.URL.Query().Get("interval"))
		assert.Equal(t, "demo", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		// Provider returns newest first.
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"values": [
				{"datetime": "2025-06-01 12:02:00", "close": "101.5", "volume": "1200"},
				{"datetime": "2025-06-01 12:01:00", "close": "101.0", "volume": "1100"},
				{"datetime": "2025-06-01 12:00:00", "close": "100.5", "volume": "1000"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient("demo", WithBaseURL(srv.URL))
	series, err := c.Fetch(context.Background(), "AAPL", "1min", 3)
	require.NoError(t, err)

	require.Len(t, series.Samples, 3)
	assert.Equal(t, "AAPL", series.Symbol)
	assert.Equal(t, 100.5, series.Samples[0].Price)
	assert.Equal(t, 101.5, series.Samples[2].Price)
	assert.Equal(t, int64(1000), series.Samples[0].Volume)
	assert.True(t, series.Samples[0].Timestamp.Before(series.Samples[1].Timestamp))
}

func TestFetchProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "error", "message": "symbol not found"}`))
	}))
	defer srv.Close()

	c := NewClient("demo", WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), "NOPE", "1min", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol not found")
}

func TestFetchRateLimited(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok", "values": [{"datetime": "2025-06-01 12:00:00", "close": "100", "volume": "1"}]}`))
	}))
	defer srv.Close()

	c := NewClient("demo", WithBaseURL(srv.URL), WithRateLimit(1, 1))

	_, err := c.Fetch(context.Background(), "AAPL", "1min", 1)
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), "TSLA", "1min", 1)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, calls)
}

func TestSearchSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/symbol_search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [
			{"symbol": "AAPL", "instrument_name": "Apple Inc", "exchange": "NASDAQ"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("demo", WithBaseURL(srv.URL))
	matches, err := c.SearchSymbols(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "AAPL", matches[0].Symbol)
	assert.Equal(t, "NASDAQ", matches[0].Exchange)

	matches, err = c.SearchSymbols(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, matches)
}
