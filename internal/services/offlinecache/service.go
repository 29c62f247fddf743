package offlinecache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"offline-payment-sync/internal/errs"
	"offline-payment-sync/internal/models"
	"offline-payment-sync/internal/repository"
	"offline-payment-sync/internal/services/bulk"
	"offline-payment-sync/internal/services/eligibility"
)

// Options are the per-program settings of a sync pass.
type Options struct {
	ProgramID  string
	FieldKeys  []string
	MatchField string
	Lookback   time.Duration
	Verbose    bool
}

// Service builds offline batches from the remote APIs.
type Service struct {
	payment PaymentAPI
	photos  PhotoSource
	cipher  Cipher
	store   *repository.BatchStore
	pool    *bulk.Orchestrator
	opts    Options
	now     func() time.Time
}

func NewService(payment PaymentAPI, photos PhotoSource, cipher Cipher, store *repository.BatchStore, pool *bulk.Orchestrator, opts Options) *Service {
	return &Service{
		payment: payment,
		photos:  photos,
		cipher:  cipher,
		store:   store,
		pool:    pool,
		opts:    opts,
		now:     time.Now,
	}
}

// WithClock replaces the time source for the lookback window and batch metadata.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run builds a single-payment batch when paymentID is set and a recent
// batch otherwise.
func (s *Service) Run(ctx context.Context, paymentID string) (*models.SyncResult, error) {
	if paymentID != "" {
		return s.SyncPayment(ctx, paymentID)
	}
	return s.SyncRecent(ctx)
}

// SyncRecent builds a batch from every transaction of the program created
// within the lookback window, one record per beneficiary.
func (s *Service) SyncRecent(ctx context.Context) (*models.SyncResult, error) {
	log.Printf("[SYNC] Recent pass for program %s", s.opts.ProgramID)
	txs, err := s.payment.GetAllTransactions(ctx, s.opts.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("fetch program transactions: %w", err)
	}
	return s.build(ctx, models.BatchKindRecent, eligibility.ModeRecent, txs)
}

// SyncPayment builds a batch from the transactions of one payment. No
// lookback window applies.
func (s *Service) SyncPayment(ctx context.Context, paymentID string) (*models.SyncResult, error) {
	log.Printf("[SYNC] Payment pass for program %s payment %s", s.opts.ProgramID, paymentID)
	txs, err := s.payment.GetTransactions(ctx, s.opts.ProgramID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("fetch payment transactions: %w", err)
	}
	return s.build(ctx, models.BatchKind(paymentID), eligibility.ModeSinglePayment, txs)
}

func (s *Service) build(ctx context.Context, kind models.BatchKind, mode eligibility.Mode, txs []models.RemoteTransaction) (*models.SyncResult, error) {
	result := &models.SyncResult{Kind: kind, Fetched: len(txs)}

	filter := eligibility.NewFilter(mode, s.opts.Lookback, s.opts.Verbose).WithClock(s.now)
	candidates, counts := filter.Apply(txs)
	result.FilterCounts = counts

	regIDs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		regIDs = append(regIDs, c.Transaction.RegistrationID.String())
	}
	registrations := bulk.Run(ctx, s.pool, "BULK", regIDs, func(ctx context.Context, id string) (models.RegistrationRecord, error) {
		return s.payment.GetRegistration(ctx, s.opts.ProgramID, id)
	})

	path, err := s.store.NextBatchPath(kind)
	if err != nil {
		return nil, err
	}
	result.BatchPath = path

	records := make([]models.CacheRecord, 0, len(candidates))
	for _, c := range candidates {
		tx := c.Transaction
		reg, ok := registrations[tx.RegistrationID.String()]
		if !ok {
			result.MissingRegs++
			log.Printf("[SYNC] No registration data for %s, skipping %s", tx.RegistrationID, tx.RegistrationReferenceID)
			continue
		}

		rec, err := s.record(c, reg)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		if rec.Valid {
			result.ValidCount++
		}
	}
	result.RecordCount = len(records)

	refs := make([]string, 0, len(records))
	for _, rec := range records {
		refs = append(refs, rec.ReferenceID)
	}
	stored := bulk.Run(ctx, s.pool, "BULK", refs, func(ctx context.Context, ref string) (struct{}, error) {
		return struct{}{}, s.storePhoto(ctx, path, ref)
	})
	result.PhotoCount = len(stored)

	snapshot, err := snapshotOf(mode, txs, candidates)
	if err != nil {
		return nil, errs.New(errs.KindParse, "snapshot transactions", err)
	}

	info := models.BatchInfo{
		BatchType:   kind.BatchType(),
		ProgramID:   s.opts.ProgramID,
		RecordCount: len(records),
		GeneratedAt: s.now().UTC(),
	}
	if err := s.store.Write(path, records, snapshot, info); err != nil {
		return nil, err
	}

	log.Printf("[SYNC] Batch saved to %s (%d records, %d valid, %d photos)", path, result.RecordCount, result.ValidCount, result.PhotoCount)
	log.Println(Summary(result))
	return result, nil
}

func (s *Service) record(c eligibility.Candidate, reg models.RegistrationRecord) (models.CacheRecord, error) {
	tx := c.Transaction

	fields := make(map[string]string, len(s.opts.FieldKeys)+1)
	for _, key := range s.opts.FieldKeys {
		fields[key] = reg.Field(key)
	}
	if s.opts.MatchField != "" {
		fields[s.opts.MatchField] = reg.Field(s.opts.MatchField)
	}
	data, err := s.cipher.EncryptFields(fields)
	if err != nil {
		return models.CacheRecord{}, fmt.Errorf("encrypt record %s: %w", tx.RegistrationReferenceID, err)
	}

	return models.CacheRecord{
		ReferenceID:    tx.RegistrationReferenceID,
		RegistrationID: tx.RegistrationID,
		PhotoFilename:  models.PhotoFilename(tx.RegistrationReferenceID),
		PaymentID:      tx.PaymentID,
		Amount:         tx.Amount,
		Data:           data,
		Valid:          c.Valid,
		Reason:         c.Reason,
	}, nil
}

func (s *Service) storePhoto(ctx context.Context, path, ref string) error {
	raw, err := s.photos.FetchPhoto(ctx, ref)
	if err != nil {
		return err
	}
	enc, err := s.cipher.Encrypt(raw)
	if err != nil {
		return err
	}
	return s.store.WritePhoto(path, models.PhotoFilename(ref), enc)
}

// snapshotOf is the transaction artifact: everything fetched for a single
// payment, the retained transaction per beneficiary for a recent pass.
func snapshotOf(mode eligibility.Mode, txs []models.RemoteTransaction, candidates []eligibility.Candidate) ([]json.RawMessage, error) {
	source := txs
	if mode == eligibility.ModeRecent {
		source = make([]models.RemoteTransaction, 0, len(candidates))
		for _, c := range candidates {
			source = append(source, c.Transaction)
		}
	}

	out := make([]json.RawMessage, 0, len(source))
	for _, tx := range source {
		raw, err := tx.Snapshot()
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

// Summary is the final line of a pass, read by tooling that drives syncs.
func Summary(result *models.SyncResult) string {
	return fmt.Sprintf("%d beneficiaries ready for offline validation.", result.RecordCount)
}
