// Package fdc fetches branded food records from the USDA FoodData Central API
// and caches lookups in Redis.
package fdc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"lg/nutrition-go-api/internal/logger"
	"lg/nutrition-go-api/internal/metrics"
	"lg/nutrition-go-api/internal/nutrition"
)

// FoodLookup turns a free-text query into raw food records.
type FoodLookup interface {
	Lookup(ctx context.Context, query string) ([]nutrition.RawFood, error)
}

// StatusError is returned when FoodData Central answers with a non-200 status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fdc %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Options configures a Client. Zero values fall back to the defaults below.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	PageSize   int
	BatchSize  int
	HTTPClient *http.Client
}

const (
	defaultTimeout   = 10 * time.Second
	defaultPageSize  = 25
	defaultBatchSize = 20

	endpointSearch = "search"
	endpointFoods  = "foods"

	// maxErrorBody caps how much of an error response is kept in StatusError.
	maxErrorBody = 512
)

// Client talks to FoodData Central over plain net/http.
type Client struct {
	baseURL   string
	apiKey    string
	pageSize  int
	batchSize int
	http      *http.Client
	log       logger.Logger
}

func NewClient(opts Options, log logger.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:   opts.BaseURL,
		apiKey:    opts.APIKey,
		pageSize:  opts.PageSize,
		batchSize: opts.BatchSize,
		http:      opts.HTTPClient,
		log:       log,
	}
}

/* ─── Search ─────────────────────────────────────────────────────────── */

type searchResponse struct {
	Foods []struct {
		FdcID int `json:"fdcId"`
	} `json:"foods"`
}

// Search returns up to limit branded food ids matching query, in relevance
// order.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]int, error) {
	if limit <= 0 {
		limit = c.pageSize
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("dataType", "Branded")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/foods/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}

	var resp searchResponse
	if err := c.do(req, endpointSearch, &resp); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(resp.Foods))
	for _, f := range resp.Foods {
		ids = append(ids, f.FdcID)
	}
	return ids, nil
}

/* ─── Fetch ──────────────────────────────────────────────────────────── */

// FetchFoods loads full records for ids. Ids are split into batches that are
// fetched concurrently; the result keeps the order of the batches.
func (c *Client) FetchFoods(ctx context.Context, ids []int) ([]nutrition.RawFood, error) {
	if len(ids) == 0 {
		return []nutrition.RawFood{}, nil
	}

	var batches [][]int
	for start := 0; start < len(ids); start += c.batchSize {
		end := min(start+c.batchSize, len(ids))
		batches = append(batches, ids[start:end])
	}

	results := make([][]nutrition.RawFood, len(batches))
	g, grpCtx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			foods, err := c.fetchBatch(grpCtx, batch)
			if err != nil {
				return err
			}
			results[i] = foods
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]nutrition.RawFood, 0, len(ids))
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func (c *Client) fetchBatch(ctx context.Context, ids []int) ([]nutrition.RawFood, error) {
	body, err := json.Marshal(map[string][]int{"fdcIds": ids})
	if err != nil {
		return nil, fmt.Errorf("marshal fetch request: %w", err)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/foods?"+params.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create fetch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var foods []nutrition.RawFood
	if err := c.do(req, endpointFoods, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

/* ─── Lookup ─────────────────────────────────────────────────────────── */

// Lookup searches for query and fetches the matching records. No matches is
// an empty result, not an error.
func (c *Client) Lookup(ctx context.Context, query string) ([]nutrition.RawFood, error) {
	ids, err := c.Search(ctx, query, c.pageSize)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if len(ids) == 0 {
		c.log.Debug("fdc search returned no foods", map[string]interface{}{"query": query})
		return []nutrition.RawFood{}, nil
	}

	foods, err := c.FetchFoods(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch %d foods: %w", len(ids), err)
	}
	return foods, nil
}

/* ─── Transport ──────────────────────────────────────────────────────── */

// do sends req, records metrics and decodes a 200 response body into out.
func (c *Client) do(req *http.Request, endpoint string, out interface{}) error {
	start := time.Now()
	metrics.FoodLookupRequests.WithLabelValues(endpoint).Inc()
	defer func() {
		metrics.FoodLookupDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.FoodLookupFailures.WithLabelValues(endpoint, "transport").Inc()
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.FoodLookupFailures.WithLabelValues(endpoint, "transport").Inc()
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.FoodLookupFailures.WithLabelValues(endpoint, "status").Inc()
		if len(respBytes) > maxErrorBody {
			respBytes = respBytes[:maxErrorBody]
		}
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(respBytes)}
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		metrics.FoodLookupFailures.WithLabelValues(endpoint, "decode").Inc()
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
