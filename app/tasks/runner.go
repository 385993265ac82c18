package tasks

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/lysyi3m/rss-snap/app/feed"
	"github.com/lysyi3m/rss-snap/app/snapshot"
)

var _ SnapshotRunner = (*Runner)(nil)

// Runner executes snapshot tasks one at a time. Concurrent callers wait for
// the running task to finish and then start their own.
type Runner struct {
	settings   SnapshotSettings
	httpClient *http.Client
	parser     *feed.Parser
	normalizer *feed.Normalizer
	store      snapshot.Repository
	mu         sync.Mutex
}

func NewRunner(settings SnapshotSettings, httpClient *http.Client, parser *feed.Parser,
	normalizer *feed.Normalizer, store snapshot.Repository) *Runner {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: settings.Timeout + 5*time.Second}
	}

	return &Runner{
		settings:   settings,
		httpClient: httpClient,
		parser:     parser,
		normalizer: normalizer,
		store:      store,
	}
}

func (r *Runner) Run(ctx context.Context) (*feed.Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Failures are returned unlogged; the caller reports them once.
	task := NewSnapshotTask(r.settings, r.httpClient, r.parser, r.normalizer, r.store)
	return task.Execute(ctx)
}
