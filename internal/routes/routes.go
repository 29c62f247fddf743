package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"offline-payment-sync/internal/config"
	handler "offline-payment-sync/internal/handlers"
	"offline-payment-sync/internal/models"
	"offline-payment-sync/internal/repository"
	"offline-payment-sync/internal/session"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) error {
	auditRepo := repository.NewAuditRepository(db)

	base, err := session.New(cfg)
	if err != nil {
		return err
	}
	reconService := base.ReconciliationService(auditRepo)

	reconHandler := handler.NewReconciliationHandler(reconService, cfg.MatchField)
	syncHandler := handler.NewSyncHandler(func(ctx context.Context, paymentID string) (*models.SyncResult, error) {
		runCfg := *cfg
		if paymentID != "" {
			runCfg.PaymentID = paymentID
		}
		s, err := session.New(&runCfg)
		if err != nil {
			return nil, err
		}
		return s.Sync(ctx)
	})
	offlineHandler := handler.NewOfflineHandler(base.Store)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api.POST("/sync", syncHandler.Sync)

	// Reconciliation run routes
	recon := api.Group("/reconciliation")
	recon.POST("/upload", reconHandler.Upload)
	recon.GET("/:runId", reconHandler.GetRunProgress)

	// Offline client downloads
	offline := api.Group("/offline")
	{
		offline.GET("/latest", offlineHandler.Latest)
		offline.GET("/latest.zip", offlineHandler.LatestZip)
	}
	return nil
}
