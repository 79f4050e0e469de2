// Package ingest fetches the spreadsheet feed and rebuilds the in-memory
// snapshot. A refresh either fully succeeds and swaps in a new snapshot, or
// fails and leaves the previous snapshot untouched.
package ingest

import (
	"context"
	"sync"

	"github.com/apex/log"

	"countyq/internal/store"
)

// Ingestor runs full refresh passes: fetch, parse, swap.
type Ingestor struct {
	fetcher *Fetcher
	store   *store.Store

	mu sync.Mutex // serializes overlapping refreshes
}

// New creates an ingestor that publishes snapshots to the given store.
func New(fetcher *Fetcher, st *store.Store) *Ingestor {
	return &Ingestor{
		fetcher: fetcher,
		store:   st,
	}
}

// Refresh fetches and parses the feed, then atomically replaces the shared
// snapshot. On any failure the previous snapshot remains authoritative and
// the error is returned for reporting.
func (in *Ingestor) Refresh(ctx context.Context) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	log.Info("refreshing county data")

	table, err := in.fetcher.Fetch(ctx)
	if err != nil {
		return NewIngestError("fetch", err)
	}

	snap, err := Parse(table)
	if err != nil {
		return NewIngestError("parse", err)
	}

	in.store.Swap(snap)

	log.WithFields(log.Fields{
		"rows":       len(snap.Rows),
		"population": snap.Totals.Population,
		"hispanic":   snap.Totals.Hispanic,
	}).Info("snapshot replaced")

	return nil
}
