package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/apex/log"
)

// Fetcher downloads the spreadsheet feed and decodes it into raw rows.
type Fetcher struct {
	url    string
	client *http.Client
}

// NewFetcher creates a fetcher for the given feed URL.
func NewFetcher(url string) *Fetcher {
	return &Fetcher{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch downloads the feed and returns its rows as raw cell values. Rows may
// have differing lengths; the parser pads them against the header.
func (f *Fetcher) Fetch(ctx context.Context) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Some export endpoints refuse requests without browser-like headers.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/csv,*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}

	log.WithField("rows", len(rows)).Debug("downloaded feed")
	return rows, nil
}
