package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Fetcher retrieves the raw assortment document.
type Fetcher interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// StatusError is returned when the catalog server answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog download failed: %d %s", e.StatusCode, e.Body)
}

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// HTTPOptions configures HTTPFetcher.
type HTTPOptions struct {
	Timeout  time.Duration // per attempt, 0 means no timeout
	RetryMax int
	Logger   *slog.Logger
}

// HTTPFetcher downloads the assortment over HTTP with retries on
// connection errors and 5xx responses.
type HTTPFetcher struct {
	url    string
	client *retryablehttp.Client
}

// NewHTTPFetcher creates a fetcher for url.
func NewHTTPFetcher(url string, opts HTTPOptions) *HTTPFetcher {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = opts.Timeout
	client.RetryMax = opts.RetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	// Hand the last response back instead of a generic "giving up" error
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = nil
	if opts.Logger != nil {
		client.Logger = opts.Logger
	}

	return &HTTPFetcher{url: url, client: client}
}

// Fetch GETs the assortment. The caller must close the returned body.
func (f *HTTPFetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog download failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return resp.Body, nil
}
