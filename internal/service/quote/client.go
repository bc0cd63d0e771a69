package quote

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"SentinelShield/internal/domain/models"
	drepo "SentinelShield/internal/domain/repository"
	"SentinelShield/internal/service/ratelimit"
	pkgcache "SentinelShield/pkg/cache"
	xhttp "SentinelShield/pkg/http"
	applogger "SentinelShield/pkg/logger"
)

const (
	defaultBaseURL = "https://api.twelvedata.com"
	limiterKey     = "twelvedata"
)

// ErrRateLimited is returned when the local request budget is exhausted.
var ErrRateLimited = errors.New("quote: provider request budget exhausted")

// Client implements repository.MarketFeed against the Twelve Data REST API.
// Responses are cached so the per-minute request budget stretches across
// monitored symbols.
type Client struct {
	apiKey   string
	baseURL  string
	http     *xhttp.Client
	limiter  *ratelimit.Limiter
	rpm      float64
	burst    float64
	cache    pkgcache.Service
	cacheTTL time.Duration
	l        *applogger.Logger
}

// ClientOption configures Client.
type ClientOption func(*Client)

// NewClient creates a Twelve Data client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		limiter: ratelimit.New(),
		rpm:     8,
		burst:   8,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http = xhttp.NewClient(xhttp.WithTimeout(d))
		}
	}
}

// WithRateLimit sets the local request budget.
func WithRateLimit(requestsPerMinute, burst int) ClientOption {
	return func(c *Client) {
		if requestsPerMinute > 0 {
			c.rpm = float64(requestsPerMinute)
		}
		if burst > 0 {
			c.burst = float64(burst)
		}
	}
}

// WithCache caches series responses for ttl.
func WithCache(cache pkgcache.Service, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithLogger injects a structured logger.
func WithLogger(l *applogger.Logger) ClientOption {
	return func(c *Client) {
		c.l = l
	}
}

var _ drepo.MarketFeed = (*Client)(nil)

type timeSeriesResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Values  []struct {
		Datetime string `json:"datetime"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
}

// Fetch retrieves the most recent n bars for a symbol, oldest first.
func (c *Client) Fetch(ctx context.Context, symbol, interval string, n int) (models.Series, error) {
	if n <= 0 {
		n = 60
	}
	key := pkgcache.GenerateKeyWithParams("quote:series", symbol, interval, n)
	if c.cache != nil {
		var cached models.Series
		if err := c.cache.Get(ctx, key, &cached); err == nil && len(cached.Samples) > 0 {
			return cached, nil
		}
	}

	if !c.limiter.Allow(limiterKey, c.burst, c.rpm/60) {
		return models.Series{}, ErrRateLimited
	}

	var resp timeSeriesResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/time_series",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"interval":   {interval},
			"outputsize": {strconv.Itoa(n)},
			"apikey":     {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return models.Series{}, fmt.Errorf("fetch time series: %w", err)
	}
	if resp.Status == "error" {
		return models.Series{}, fmt.Errorf("fetch time series: provider error: %s", resp.Message)
	}

	series, err := parseSeries(symbol, resp)
	if err != nil {
		return models.Series{}, err
	}

	if c.cache != nil {
		if cerr := c.cache.Set(ctx, key, series, c.cacheTTL); cerr != nil && c.l != nil {
			c.l.Warn("quote cache write failed", applogger.Error(cerr))
		}
	}
	return series, nil
}

type symbolSearchResponse struct {
	Data []struct {
		Symbol         string `json:"symbol"`
		InstrumentName string `json:"instrument_name"`
		Exchange       string `json:"exchange"`
	} `json:"data"`
}

// SearchSymbols proxies the provider symbol search.
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	if query == "" {
		return nil, nil
	}
	if !c.limiter.Allow(limiterKey, c.burst, c.rpm/60) {
		return nil, ErrRateLimited
	}

	var resp symbolSearchResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/symbol_search",
		QueryParams: map[string][]string{
			"symbol": {query},
			"apikey": {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("symbol search: %w", err)
	}

	out := make([]models.SymbolMatch, 0, len(resp.Data))
	for _, d := range resp.Data {
		out = append(out, models.SymbolMatch{
			Symbol:         d.Symbol,
			Exchange:       d.Exchange,
			InstrumentName: d.InstrumentName,
		})
	}
	return out, nil
}

// parseSeries converts the provider payload (newest bar first) into an
// oldest-first series.
func parseSeries(symbol string, resp timeSeriesResponse) (models.Series, error) {
	series := models.Series{Symbol: symbol, Samples: make([]models.Sample, 0, len(resp.Values))}
	for _, v := range resp.Values {
		ts, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
		if err != nil {
			// Daily bars carry a date only.
			ts, err = time.Parse("2006-01-02", v.Datetime)
			if err != nil {
				return models.Series{}, fmt.Errorf("parse datetime %q: %w", v.Datetime, err)
			}
		}
		price, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return models.Series{}, fmt.Errorf("parse close %q: %w", v.Close, err)
		}
		volume := int64(0)
		if v.Volume != "" {
			volume, err = strconv.ParseInt(v.Volume, 10, 64)
			if err != nil {
				return models.Series{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
			}
		}
		series.Samples = append(series.Samples, models.Sample{Timestamp: ts, Price: price, Volume: volume})
	}

	sort.Slice(series.Samples, func(i, j int) bool {
		return series.Samples[i].Timestamp.Before(series.Samples[j].Timestamp)
	})
	return series, nil
}
