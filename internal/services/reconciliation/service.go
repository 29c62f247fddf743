package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"offline-payment-sync/internal/errs"
	"offline-payment-sync/internal/models"
	"offline-payment-sync/internal/repository"
	"offline-payment-sync/internal/services/matching"
)

// SubmitterFunc yields a logged-in submitter. It is called once per run so
// every group of that run shares one session.
type SubmitterFunc func(ctx context.Context) (Submitter, error)

type Options struct {
	ProgramID  string
	MatchField string
	Kind       models.BatchKind
}

type ReconciliationService struct {
	store     *repository.BatchStore
	cipher    matching.Decrypter
	submitter SubmitterFunc
	audit     AuditLog
	opts      Options

	progressCache sync.Map // runID -> *Progress
}

// Progress is the in-process view of a run, replaced on every update.
type Progress struct {
	RunID           uuid.UUID                    `json:"run_id"`
	Status          string                       `json:"status"`
	TotalGroups     int                          `json:"total_groups"`
	ProcessedGroups int                          `json:"processed_groups"`
	Report          *models.ReconciliationReport `json:"report,omitempty"`
}

func NewReconciliationService(store *repository.BatchStore, cipher matching.Decrypter, submitter SubmitterFunc, audit AuditLog, opts Options) *ReconciliationService {
	return &ReconciliationService{
		store:     store,
		cipher:    cipher,
		submitter: submitter,
		audit:     audit,
		opts:      opts,
	}
}

// CreateRun registers a new run in processing state
func (s *ReconciliationService) CreateRun(filename string) (*models.ReconciliationRun, error) {
	run := &models.ReconciliationRun{
		ID:        uuid.New(),
		Filename:  filename,
		ProgramID: s.opts.ProgramID,
		Status:    models.RunStatusProcessing,
		StartedAt: time.Now(),
	}
	if err := s.audit.CreateRun(run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	s.progressCache.Store(run.ID, &Progress{RunID: run.ID, Status: models.RunStatusProcessing})
	return run, nil
}

// ReconcileCSV reads a result file and reconciles it in one call.
func (s *ReconciliationService) ReconcileCSV(ctx context.Context, filename string, r io.Reader) (*models.ReconciliationReport, error) {
	run, err := s.CreateRun(filename)
	if err != nil {
		return nil, err
	}
	rows, err := repository.ReadResultRows(r, s.opts.MatchField)
	if err != nil {
		err = errs.New(errs.KindParse, "read result file "+filename, err)
		return s.fail(run.ID, "", 0, err), err
	}
	return s.Reconcile(ctx, run.ID, rows)
}

// Reconcile submits the result rows of a run, one upload per payment. The
// report is returned even when the run failed.
func (s *ReconciliationService) Reconcile(ctx context.Context, runID uuid.UUID, rows []models.ResultRow) (*models.ReconciliationReport, error) {
	path, ok, err := s.store.Latest(s.opts.Kind)
	if err != nil {
		return s.fail(runID, "", len(rows), err), err
	}
	if !ok {
		err := errs.Newf(errs.KindFetch, "no %s batch to reconcile against", s.opts.Kind.BatchType())
		return s.fail(runID, "", len(rows), err), err
	}

	records, err := s.store.ReadRecords(path)
	if err != nil {
		err = errs.New(errs.KindParse, "load batch records", err)
		return s.fail(runID, path, len(rows), err), err
	}
	index := matching.BuildIndex(records, s.cipher, s.opts.MatchField)

	report := &models.ReconciliationReport{
		RunID:          runID,
		BatchPath:      path,
		TotalRows:      len(rows),
		IndexedRecords: index.Indexed,
		SkippedRecords: index.Skipped,
		Groups:         []models.GroupResult{},
		Unmatched:      models.UnmatchedRows{Lines: []int{}},
	}

	groups, order := s.group(index, rows, &report.Unmatched)
	if len(order) == 0 {
		report.Status = models.RunStatusFailed
		s.complete(report)
		return report, errs.Newf(errs.KindSubmission, "no result row matched a cached beneficiary")
	}

	submitter, err := s.submitter(ctx)
	if err != nil {
		report.Status = models.RunStatusFailed
		s.complete(report)
		return report, err
	}

	s.updateProgress(runID, len(order), 0)
	for i, paymentID := range order {
		result := s.submitGroup(ctx, submitter, runID, paymentID, groups[paymentID])
		report.Groups = append(report.Groups, result)
		if result.Success {
			report.Succeeded++
		} else {
			report.Failed++
		}
		s.updateProgress(runID, len(order), i+1)
	}

	switch {
	case report.Failed == 0:
		report.Status = models.RunStatusSuccess
	case report.Succeeded > 0:
		report.Status = models.RunStatusPartialSuccess
	default:
		report.Status = models.RunStatusFailed
	}
	s.complete(report)

	log.Printf("[RECON] Run %s: %d groups succeeded, %d failed, %d rows unmatched", runID, report.Succeeded, report.Failed, report.Unmatched.Count)
	if report.Status == models.RunStatusFailed {
		return report, errs.Newf(errs.KindSubmission, "all %d payment groups failed", report.Failed)
	}
	return report, nil
}

// group resolves every row to a payment. Groups keep the order in which
// their payment first appears.
func (s *ReconciliationService) group(index *matching.Index, rows []models.ResultRow, unmatched *models.UnmatchedRows) (map[string][]models.ResultRow, []string) {
	groups := make(map[string][]models.ResultRow)
	var order []string

	for _, row := range rows {
		m, err := index.Resolve(row.MatchValue)
		if err != nil {
			log.Printf("[RECON] Line %d skipped: %v", row.Line, err)
		} else if !m.Found {
			log.Printf("[RECON] Line %d skipped: no cached beneficiary for %s", row.Line, s.opts.MatchField)
		}
		if err != nil || !m.Found {
			unmatched.Count++
			unmatched.Lines = append(unmatched.Lines, row.Line)
			continue
		}

		if _, seen := groups[m.PaymentID]; !seen {
			order = append(order, m.PaymentID)
		}
		groups[m.PaymentID] = append(groups[m.PaymentID], models.ResultRow{
			Line:       row.Line,
			MatchValue: m.Value,
			Status:     row.Status,
		})
	}
	return groups, order
}

func (s *ReconciliationService) submitGroup(ctx context.Context, submitter Submitter, runID uuid.UUID, paymentID string, rows []models.ResultRow) models.GroupResult {
	result := models.GroupResult{PaymentID: paymentID, Rows: len(rows)}
	entry := &models.SubmissionAuditLog{
		RunID:     runID,
		ProgramID: s.opts.ProgramID,
		PaymentID: paymentID,
		RowCount:  len(rows),
		Statuses:  statusCounts(rows),
	}

	csvData, err := repository.WriteResultCSV(s.opts.MatchField, rows)
	if err == nil {
		var outcome models.SubmissionOutcome
		outcome, err = submitter.SubmitReconciliation(ctx, s.opts.ProgramID, paymentID, csvData)
		if err == nil {
			result.Success = outcome.Success
			result.StatusCode = outcome.StatusCode
			entry.Success = outcome.Success
			entry.StatusCode = outcome.StatusCode
			entry.ResponseBody = outcome.Body
			if !outcome.Success {
				result.Error = fmt.Sprintf("payment API returned status %d", outcome.StatusCode)
			}
		}
	}
	if err != nil {
		result.Error = err.Error()
		entry.ResponseBody = err.Error()
		log.Printf("[RECON] Payment %s submission failed: %v", paymentID, err)
	}

	if err := s.audit.LogSubmission(entry); err != nil {
		log.Printf("[RECON] Cannot record submission for payment %s: %v", paymentID, err)
	}
	return result
}

func statusCounts(rows []models.ResultRow) datatypes.JSON {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.Status]++
	}
	b, _ := json.Marshal(counts)
	return datatypes.JSON(b)
}

func (s *ReconciliationService) fail(runID uuid.UUID, path string, total int, cause error) *models.ReconciliationReport {
	log.Printf("[RECON] Run %s failed: %v", runID, cause)
	report := &models.ReconciliationReport{
		RunID:     runID,
		BatchPath: path,
		TotalRows: total,
		Status:    models.RunStatusFailed,
		Groups:    []models.GroupResult{},
		Unmatched: models.UnmatchedRows{Lines: []int{}},
	}
	s.complete(report)
	return report
}

func (s *ReconciliationService) updateProgress(runID uuid.UUID, total, processed int) {
	s.progressCache.Store(runID, &Progress{
		RunID:           runID,
		Status:          models.RunStatusProcessing,
		TotalGroups:     total,
		ProcessedGroups: processed,
	})
}

// complete caches the final report and persists the run's counters.
func (s *ReconciliationService) complete(report *models.ReconciliationReport) {
	s.progressCache.Store(report.RunID, &Progress{
		RunID:           report.RunID,
		Status:          report.Status,
		TotalGroups:     len(report.Groups),
		ProcessedGroups: len(report.Groups),
		Report:          report,
	})
	if err := s.audit.CompleteRun(report.RunID, report); err != nil {
		log.Printf("[RECON] Cannot persist run %s: %v", report.RunID, err)
	}
}

// Progress returns the cached state of a run started by this process.
func (s *ReconciliationService) Progress(runID uuid.UUID) (Progress, bool) {
	val, ok := s.progressCache.Load(runID)
	if !ok {
		return Progress{}, false
	}
	return *val.(*Progress), true
}

// GetRun reads a run from the audit store, for runs this process no longer caches.
func (s *ReconciliationService) GetRun(runID uuid.UUID) (*models.ReconciliationRun, error) {
	return s.audit.GetRun(runID)
}

// Submissions lists the recorded upload attempts of a run, oldest first.
func (s *ReconciliationService) Submissions(runID uuid.UUID) ([]models.SubmissionAuditLog, error) {
	return s.audit.ListSubmissions(runID)
}
