package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-snap/app/feed"
	"github.com/lysyi3m/rss-snap/app/snapshot"
	"github.com/lysyi3m/rss-snap/app/tasks"
)

func NewHandler(store snapshot.Repository, runner tasks.SnapshotRunner, version string) *Handler {
	return &Handler{
		store:   store,
		runner:  runner,
		version: version,
	}
}

func (h *Handler) GetFeed(c *gin.Context) {
	current, err := h.store.Read()
	if errors.Is(err, snapshot.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No snapshot available yet"})
		return
	}
	if err != nil {
		slog.Error("Snapshot read error", "path", h.store.Path(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read snapshot"})
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(current.Items)))
	c.Header("X-Last-Updated", current.FetchedAt.Format(time.RFC3339))

	c.JSON(http.StatusOK, current)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if current, err := h.store.Read(); err == nil {
		health["snapshot"] = gin.H{
			"source":     current.Source,
			"fetched_at": current.FetchedAt,
			"items":      len(current.Items),
		}
	} else if !errors.Is(err, snapshot.ErrNotFound) {
		health["snapshot_error"] = err.Error()
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIRefresh(c *gin.Context) {
	result, err := h.runner.Run(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		var formatErr *feed.FormatError
		if errors.As(err, &formatErr) {
			status = http.StatusUnprocessableEntity
		}
		slog.Warn("Snapshot refresh failed", "status", status, "error", err)
		c.JSON(status, gin.H{
			"error":   "Failed to refresh snapshot",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"title":      result.Title,
		"source":     result.Source,
		"items":      len(result.Items),
		"fetched_at": result.FetchedAt,
	})
}
