// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sheet fetches the knowledge base from a published Google Sheets
// CSV export.
package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/support-engine/internal/httputil"
	"github.com/pdiddy/support-engine/pkg/types"
)

// Client downloads and parses the support sheet. It satisfies the record
// source interface of the kb store.
type Client struct {
	url        string
	userAgent  string
	maxRetries int
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds a client for the configured CSV export URL. Zero config
// values fall back to the package defaults. A nil logger disables logging.
func NewClient(cfg types.SheetConfig, log *zap.Logger) *Client {
	url := cfg.CSVURL
	if url == "" {
		url = types.DefaultSheetCSVURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = types.DefaultHTTPTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = types.DefaultUserAgent
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		url:        url,
		userAgent:  userAgent,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Name identifies the client in logs and fetch errors.
func (c *Client) Name() string { return "google-sheets" }

// URL returns the CSV export URL the client fetches from.
func (c *Client) URL() string { return c.url }

// Fetch downloads the CSV export and parses it into records. Transient
// HTTP failures are retried with backoff.
func (c *Client) Fetch(ctx context.Context) ([]types.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("downloading sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading sheet: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading sheet body: %w", err)
	}

	records, err := ParseCSV(data)
	if err != nil {
		return nil, err
	}

	c.log.Debug("sheet fetched",
		zap.String("url", c.url),
		zap.Int("records", len(records)))
	return records, nil
}
