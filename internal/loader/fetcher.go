package loader

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Fetcher retrieves the raw dataset body for one year.
type Fetcher interface {
	Fetch(ctx context.Context, year int) (io.ReadCloser, error)
}

// HTTPFetcher downloads yearly dataset archives over HTTP. The URL
// template carries a single %d placeholder for the year. Bodies served
// from a .gz path or with a gzip content type are decompressed
// transparently.
type HTTPFetcher struct {
	client      *http.Client
	urlTemplate string
	logger      *logrus.Logger
}

// NewHTTPFetcher creates a fetcher with a timeout-bound client.
func NewHTTPFetcher(urlTemplate string, timeout time.Duration, logger *logrus.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client:      &http.Client{Timeout: timeout},
		urlTemplate: urlTemplate,
		logger:      logger,
	}
}

// Fetch downloads one year's dataset.
func (f *HTTPFetcher) Fetch(ctx context.Context, year int) (io.ReadCloser, error) {
	url := fmt.Sprintf(f.urlTemplate, year)
	f.logger.WithField("url", url).Debug("Fetching dataset archive")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "Foncier Sales Metrics/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset for year %d: %w", year, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d fetching dataset for year %d", resp.StatusCode, year)
	}

	if !isGzipped(url, resp) {
		return resp.Body, nil
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to open gzip stream for year %d: %w", year, err)
	}
	return &gzipReadCloser{gz: gz, body: resp.Body}, nil
}

func isGzipped(url string, resp *http.Response) bool {
	if strings.HasSuffix(url, ".gz") {
		return true
	}
	return strings.Contains(resp.Header.Get("Content-Type"), "gzip")
}

// gzipReadCloser closes both the gzip reader and the underlying body.
type gzipReadCloser struct {
	gz   *gzip.Reader
	body io.ReadCloser
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	if err := g.body.Close(); err != nil {
		return err
	}
	return gzErr
}
