package api

import (
	"github.com/lysyi3m/rss-snap/app/snapshot"
	"github.com/lysyi3m/rss-snap/app/tasks"
)

type Handler struct {
	store   snapshot.Repository
	runner  tasks.SnapshotRunner
	version string
}
