package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const DefaultPageSize = 100

type Client struct {
	http     *resty.Client
	limiter  *rate.Limiter
	pageSize int
}

type ClientOptions struct {
	PageSize  int
	RateLimit float64 // requests per second, <= 0 disables limiting
	Timeout   time.Duration
	UserAgent string
}

func NewClient(opts ClientOptions) *Client {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	httpClient := resty.New().
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		httpClient.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{
		http:     httpClient,
		limiter:  limiter,
		pageSize: pageSize,
	}
}

// FetchAll walks pagination[page] from 1 until a page comes back shorter
// than the page size.
func (c *Client) FetchAll(ctx context.Context, endpoint string) ([]Record, error) {
	var records []Record

	for pageNum := 1; ; pageNum++ {
		data, err := c.fetchPage(ctx, endpoint, pageNum)
		if err != nil {
			return nil, err
		}

		records = append(records, data...)
		slog.Debug("Catalog page fetched", "endpoint", endpoint, "page", pageNum, "records", len(data))

		if len(data) < c.pageSize {
			break
		}
	}

	return records, nil
}

func (c *Client) fetchPage(ctx context.Context, endpoint string, pageNum int) ([]Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	var result page
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"pagination[page]":     strconv.Itoa(pageNum),
			"pagination[pageSize]": strconv.Itoa(c.pageSize),
		}).
		SetResult(&result).
		ForceContentType("application/json").
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s page %d: %w", endpoint, pageNum, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error fetching %s page %d: %s", endpoint, pageNum, resp.Status())
	}

	return result.Data, nil
}
