package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"offline-payment-sync/internal/models"
)

//go:generate mockgen -destination=mocks/mock_interfaces.go -source=interface.go

// Submitter uploads one payment's result file.
type Submitter interface {
	SubmitReconciliation(ctx context.Context, programID, paymentID string, csvData []byte) (models.SubmissionOutcome, error)
}

// AuditLog persists runs and every submission attempt.
type AuditLog interface {
	CreateRun(run *models.ReconciliationRun) error
	CompleteRun(runID uuid.UUID, report *models.ReconciliationReport) error
	LogSubmission(entry *models.SubmissionAuditLog) error
	GetRun(runID uuid.UUID) (*models.ReconciliationRun, error)
	ListSubmissions(runID uuid.UUID) ([]models.SubmissionAuditLog, error)
}
