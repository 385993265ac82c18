package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/rss-snap/app/feed"
	"github.com/lysyi3m/rss-snap/app/snapshot"
)

const maxFeedSize = 20 << 20

type SnapshotSettings struct {
	FeedURL   string
	UserAgent string
	Timeout   time.Duration
	Discover  bool
}

// SnapshotTask fetches the feed once, normalizes it and writes the snapshot.
type SnapshotTask struct {
	Task
	settings   SnapshotSettings
	httpClient *http.Client
	parser     *feed.Parser
	normalizer *feed.Normalizer
	store      snapshot.Repository
}

func NewSnapshotTask(settings SnapshotSettings, httpClient *http.Client, parser *feed.Parser, normalizer *feed.Normalizer, store snapshot.Repository) *SnapshotTask {
	return &SnapshotTask{
		Task:       NewTask(TaskTypeSnapshot, settings.FeedURL),
		settings:   settings,
		httpClient: httpClient,
		parser:     parser,
		normalizer: normalizer,
		store:      store,
	}
}

func (t *SnapshotTask) Execute(ctx context.Context) (*feed.Feed, error) {
	t.Start()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	source := t.settings.FeedURL
	data, err := t.fetchFeed(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	if t.settings.Discover && !feed.IsFeed(data) {
		if discovered, ok := feed.DiscoverFeedURL(data, source); ok && discovered != source {
			slog.Info("Discovered feed link", "page", source, "feed", discovered)
			source = discovered
			data, err = t.fetchFeed(ctx, source)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch discovered feed: %w", err)
			}
		}
	}

	doc, err := t.parser.Run(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	result, err := t.normalizer.Run(source, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize feed: %w", err)
	}

	if err := t.store.Write(result); err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	images, videos := 0, 0
	for _, item := range result.Items {
		if item.Image != nil {
			images++
		}
		if item.Video != nil {
			videos++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"id", t.GetID(),
		"feed", source,
		"output", t.store.Path(),
		"duration", t.GetDuration(),
		"items", len(result.Items),
		"images", images,
		"videos", videos)

	return result, nil
}

func (t *SnapshotTask) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx := ctx
	if t.settings.Timeout > 0 {
		var cancel context.CancelFunc
		timeoutCtx, cancel = context.WithTimeout(ctx, t.settings.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.settings.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, text/xml;q=0.9, text/html;q=0.5, */*;q=0.1")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxFeedSize {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxFeedSize)
	}

	slog.Debug("Fetched feed", "url", url, "bytes", len(data), "content_type", resp.Header.Get("Content-Type"))

	return data, nil
}
