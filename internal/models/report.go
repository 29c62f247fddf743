package models

import "github.com/google/uuid"

// GroupResult is the outcome of one payment group's submission.
type GroupResult struct {
	PaymentID  string `json:"payment_id"`
	Rows       int    `json:"rows"`
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// UnmatchedRows lists result rows that could not be tied to a payment.
type UnmatchedRows struct {
	Count int   `json:"count"`
	Lines []int `json:"lines"`
}

// ReconciliationReport is the aggregate answer for one uploaded result set.
type ReconciliationReport struct {
	RunID          uuid.UUID     `json:"run_id"`
	BatchPath      string        `json:"batch_path"`
	TotalRows      int           `json:"total_rows"`
	IndexedRecords int           `json:"indexed_records"`
	SkippedRecords int           `json:"skipped_records"`
	Succeeded      int           `json:"succeeded"`
	Failed         int           `json:"failed"`
	Status         string        `json:"status"`
	Groups         []GroupResult `json:"groups"`
	Unmatched      UnmatchedRows `json:"unmatched"`
}
