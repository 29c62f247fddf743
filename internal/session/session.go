package session

import (
	"context"
	"log"

	"offline-payment-sync/internal/config"
	"offline-payment-sync/internal/crypto"
	"offline-payment-sync/internal/models"
	"offline-payment-sync/internal/repository"
	"offline-payment-sync/internal/services/bulk"
	"offline-payment-sync/internal/services/offlinecache"
	"offline-payment-sync/internal/services/reconciliation"
	"offline-payment-sync/internal/services/remote"
)

// Session carries everything one pass needs: the immutable configuration,
// the cipher and the remote clients. Nothing here is global; two sessions
// never share a token.
type Session struct {
	Config  *config.Config
	Cipher  *crypto.Service
	Payment *remote.PaymentClient
	Form    *remote.FormClient
	Store   *repository.BatchStore
	Pool    *bulk.Orchestrator
}

// New validates cfg and builds the session without touching the network.
// A bad key surfaces here as a CryptoError.
func New(cfg *config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cipher, err := crypto.NewService(cfg.EncryptionKey, cfg.Verbose)
	if err != nil {
		return nil, err
	}

	return &Session{
		Config:  cfg,
		Cipher:  cipher,
		Payment: newPaymentClient(cfg),
		Form: remote.NewFormClient(remote.FormOptions{
			BaseURL:    cfg.Form.BaseURL,
			Token:      cfg.Form.Token,
			AssetID:    cfg.Form.AssetID,
			PhotoField: cfg.PhotoField(),
			Timeout:    cfg.HTTP.Timeout,
			Retry:      retryPolicy(cfg),
			Verbose:    cfg.Verbose,
		}),
		Store: repository.NewBatchStore(cfg.Cache.Root),
		Pool:  bulk.NewOrchestrator(cfg.Workers, cfg.Verbose),
	}, nil
}

func newPaymentClient(cfg *config.Config) *remote.PaymentClient {
	return remote.NewPaymentClient(remote.PaymentOptions{
		BaseURL:  cfg.Payment.BaseURL,
		Username: cfg.Payment.Username,
		Password: cfg.Payment.Password,
		Timeout:  cfg.HTTP.Timeout,
		Retry:    retryPolicy(cfg),
		Verbose:  cfg.Verbose,
	})
}

func retryPolicy(cfg *config.Config) remote.RetryPolicy {
	return remote.RetryPolicy{Retries: cfg.HTTP.Retries, Backoff: cfg.HTTP.Backoff}
}

// Login authenticates the session's payment client. An AuthError is fatal
// to the pass.
func (s *Session) Login(ctx context.Context) error {
	_, err := s.Payment.Login(ctx)
	return err
}

// SyncService builds the batch producer on top of the session's clients.
func (s *Session) SyncService() *offlinecache.Service {
	return offlinecache.NewService(s.Payment, s.Form, s.Cipher, s.Store, s.Pool, offlinecache.Options{
		ProgramID:  s.Config.ProgramID,
		FieldKeys:  s.Config.FieldKeys(),
		MatchField: s.Config.MatchField,
		Lookback:   s.Config.Cache.Lookback,
		Verbose:    s.Config.Verbose,
	})
}

// Sync logs in and runs one synchronization pass for the configured mode.
func (s *Session) Sync(ctx context.Context) (*models.SyncResult, error) {
	if err := s.Login(ctx); err != nil {
		return nil, err
	}
	return s.SyncService().Run(ctx, s.Config.PaymentID)
}

// Submitter logs a fresh payment client in for every reconciliation run.
func Submitter(cfg *config.Config) reconciliation.SubmitterFunc {
	return func(ctx context.Context) (reconciliation.Submitter, error) {
		client := newPaymentClient(cfg)
		if _, err := client.Login(ctx); err != nil {
			return nil, err
		}
		log.Printf("[RECON] Logged in for submission to program %s", cfg.ProgramID)
		return client, nil
	}
}

// ReconciliationService builds the long-lived reconciliation engine.
func (s *Session) ReconciliationService(audit reconciliation.AuditLog) *reconciliation.ReconciliationService {
	return reconciliation.NewReconciliationService(s.Store, s.Cipher, Submitter(s.Config), audit, reconciliation.Options{
		ProgramID:  s.Config.ProgramID,
		MatchField: s.Config.MatchField,
		Kind:       s.Config.BatchKind(),
	})
}
