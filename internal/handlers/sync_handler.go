package handler

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"offline-payment-sync/internal/models"
	"offline-payment-sync/internal/services/offlinecache"
)

// SyncFunc runs one synchronization pass; an empty paymentID keeps the
// configured mode.
type SyncFunc func(ctx context.Context, paymentID string) (*models.SyncResult, error)

// SyncHandler serialises passes: the batch store has a single writer.
type SyncHandler struct {
	run SyncFunc
	mu  sync.Mutex
}

func NewSyncHandler(run SyncFunc) *SyncHandler {
	return &SyncHandler{run: run}
}

// Sync runs a pass and answers with its summary once the batch is written
func (h *SyncHandler) Sync(c *gin.Context) {
	if !h.mu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "a synchronization pass is already running"})
		return
	}
	defer h.mu.Unlock()

	syncID := uuid.New()
	paymentID := c.Query("payment")
	log.Printf("[SYNC] Pass %s started (payment=%q)", syncID, paymentID)

	// the pass is not cancelled if the caller goes away
	result, err := h.run(context.WithoutCancel(c.Request.Context()), paymentID)
	if err != nil {
		log.Printf("[SYNC] Pass %s failed: %v", syncID, err)
		c.JSON(errorStatus(err), gin.H{"sync_id": syncID.String(), "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sync_id": syncID.String(),
		"message": offlinecache.Summary(result),
		"result":  result,
	})
}
