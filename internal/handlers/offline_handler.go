package handler

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"offline-payment-sync/internal/models"
	"offline-payment-sync/internal/repository"
)

// OfflineHandler serves finished batches to offline clients.
type OfflineHandler struct {
	store *repository.BatchStore
}

func NewOfflineHandler(store *repository.BatchStore) *OfflineHandler {
	return &OfflineHandler{store: store}
}

func (h *OfflineHandler) latest(kind string) (string, bool, error) {
	if kind != "" {
		return h.store.Latest(models.BatchKind(kind))
	}
	return h.store.LatestAny()
}

// LatestZip streams the freshest batch as a zip archive.
func (h *OfflineHandler) LatestZip(c *gin.Context) {
	path, ok, err := h.latest(c.Query("kind"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No batches found"})
		return
	}

	if _, err := h.store.ReadInfo(path); err != nil {
		c.JSON(http.StatusConflict, gin.H{"batch": filepath.Base(path), "error": "batch is incomplete"})
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="latest_offline_cache.zip"`)
	c.Status(http.StatusOK)
	if err := h.store.Archive(path, c.Writer); err != nil {
		// headers are gone already; the client sees a truncated archive
		log.Printf("[BATCH] Streaming %s failed: %v", path, err)
	}
}

// Latest describes the freshest batch without downloading it.
func (h *OfflineHandler) Latest(c *gin.Context) {
	path, ok, err := h.latest(c.Query("kind"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No batches found"})
		return
	}

	info, err := h.store.ReadInfo(path)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"batch": filepath.Base(path), "error": "batch is incomplete"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"batch": filepath.Base(path),
		"info":  info,
	})
}
