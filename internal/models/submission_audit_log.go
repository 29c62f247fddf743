package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubmissionAuditLog is written for every per-payment upload attempt.
type SubmissionAuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RunID        uuid.UUID `gorm:"index"`
	ProgramID    string
	PaymentID    string `gorm:"index"`
	RowCount     int
	Success      bool
	StatusCode   int
	ResponseBody string
	Statuses     datatypes.JSON
	CreatedAt    time.Time
}
