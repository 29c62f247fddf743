package models

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	RunStatusProcessing     = "processing"
	RunStatusSuccess        = "success"
	RunStatusPartialSuccess = "partial_success"
	RunStatusFailed         = "failed"
)

// ReconciliationRun records one uploaded result set and how its payment
// groups fared.
type ReconciliationRun struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Filename        string
	BatchPath       string
	ProgramID       string `gorm:"index"`
	TotalRows       int
	MatchedRows     int
	UnmatchedRows   int
	GroupCount      int
	SucceededGroups int
	FailedGroups    int
	Status          string `gorm:"index"`
	StartedAt       time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
}

// ResultRow is one line of a client-submitted result set.
type ResultRow struct {
	Line       int
	MatchValue string
	Status     string
}

// SubmissionOutcome is the payment API's answer to one reconciliation upload.
type SubmissionOutcome struct {
	StatusCode int
	Body       string
	Success    bool
}
