package tasks

import (
	"context"

	"github.com/lysyi3m/rss-snap/app/feed"
)

// SnapshotRunner produces and stores a fresh snapshot of the configured feed.
// Used by main for the one-shot run and by the HTTP API for manual refreshes.
//
//	runner := NewRunner(settings, httpClient, parser, normalizer, store)
//	snapshot, err := runner.Run(ctx)
type SnapshotRunner interface {
	Run(ctx context.Context) (*feed.Feed, error)
}
