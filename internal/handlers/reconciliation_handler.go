package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"offline-payment-sync/internal/models"
	"offline-payment-sync/internal/repository"
	service "offline-payment-sync/internal/services/reconciliation"
)

type ReconciliationHandler struct {
	service    *service.ReconciliationService
	matchField string
}

func NewReconciliationHandler(s *service.ReconciliationService, matchField string) *ReconciliationHandler {
	return &ReconciliationHandler{service: s, matchField: matchField}
}

// Upload accepts a result file, creates a run, and submits it in background
func (h *ReconciliationHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		file, header, err = c.Request.FormFile("csv")
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	log.Println("Received file:", header.Filename, "size:", header.Size)

	rows, err := repository.ReadResultRows(file, h.matchField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "result file has no rows"})
		return
	}

	run, err := h.service.CreateRun(header.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	go h.process(run.ID, rows)

	c.JSON(http.StatusAccepted, gin.H{
		"run_id": run.ID.String(),
		"rows":   len(rows),
		"status": models.RunStatusProcessing,
	})
}

func (h *ReconciliationHandler) process(runID uuid.UUID, rows []models.ResultRow) {
	if _, err := h.service.Reconcile(context.Background(), runID, rows); err != nil {
		log.Printf("[RECON] Run %s: %v", runID, err)
	}
}

// GetRunProgress reports a run from the in-process cache, falling back to
// the audit store for runs of earlier processes
func (h *ReconciliationHandler) GetRunProgress(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}

	if progress, ok := h.service.Progress(runID); ok {
		c.JSON(http.StatusOK, progress)
		return
	}

	run, err := h.service.GetRun(runID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logs, err := h.service.Submissions(runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	submissions := make([]gin.H, 0, len(logs))
	for _, l := range logs {
		submissions = append(submissions, gin.H{
			"payment_id":  l.PaymentID,
			"rows":        l.RowCount,
			"success":     l.Success,
			"status_code": l.StatusCode,
			"statuses":    l.Statuses,
			"created_at":  l.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":           run.ID.String(),
		"status":           run.Status,
		"total_groups":     run.GroupCount,
		"processed_groups": run.SucceededGroups + run.FailedGroups,
		"total_rows":       run.TotalRows,
		"unmatched_rows":   run.UnmatchedRows,
		"submissions":      submissions,
	})
}
