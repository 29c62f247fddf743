package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"offline-payment-sync/internal/models"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Migrate creates or updates the audit tables.
func (r *AuditRepository) Migrate() error {
	return r.db.AutoMigrate(&models.ReconciliationRun{}, &models.SubmissionAuditLog{})
}

// CreateRun inserts a run in processing state
func (r *AuditRepository) CreateRun(run *models.ReconciliationRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Status == "" {
		run.Status = models.RunStatusProcessing
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	return r.db.Create(run).Error
}

// CompleteRun stores the final counters and status of a run
func (r *AuditRepository) CompleteRun(runID uuid.UUID, report *models.ReconciliationReport) error {
	return r.db.Model(&models.ReconciliationRun{}).
		Where("id = ?", runID).
		Updates(map[string]interface{}{
			"batch_path":       report.BatchPath,
			"total_rows":       report.TotalRows,
			"matched_rows":     report.TotalRows - report.Unmatched.Count,
			"unmatched_rows":   report.Unmatched.Count,
			"group_count":      len(report.Groups),
			"succeeded_groups": report.Succeeded,
			"failed_groups":    report.Failed,
			"status":           report.Status,
			"completed_at":     time.Now(),
		}).Error
}

// LogSubmission appends one per-group submission attempt
func (r *AuditRepository) LogSubmission(entry *models.SubmissionAuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.Create(entry).Error
}

// GetRun fetch a single run by ID
func (r *AuditRepository) GetRun(runID uuid.UUID) (*models.ReconciliationRun, error) {
	var run models.ReconciliationRun
	if err := r.db.First(&run, "id = ?", runID).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ListSubmissions returns a run's submission attempts, oldest first
func (r *AuditRepository) ListSubmissions(runID uuid.UUID) ([]models.SubmissionAuditLog, error) {
	var logs []models.SubmissionAuditLog
	err := r.db.Where("run_id = ?", runID).Order("created_at ASC").Find(&logs).Error
	return logs, err
}
