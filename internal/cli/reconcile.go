package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"offline-payment-sync/internal/config"
	"offline-payment-sync/internal/repository"
	"offline-payment-sync/internal/session"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <file.csv>",
	Short: "Submit recorded payment outcomes back to the payment API",
	Long: `Reads a result file with the match column and a status column, ties each
row to a payment through the latest batch, and uploads one reconciliation
file per payment. The aggregate report is printed as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := config.InitDB(cfg.Audit)
	if err != nil {
		return fmt.Errorf("audit db: %w", err)
	}
	audit := repository.NewAuditRepository(db)
	if err := audit.Migrate(); err != nil {
		return fmt.Errorf("audit migrate: %w", err)
	}

	s, err := session.New(cfg)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("could not open result file: %w", err)
	}
	defer f.Close()

	report, runErr := s.ReconciliationService(audit).ReconcileCSV(context.Background(), filepath.Base(args[0]), f)
	if report != nil {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("could not encode report: %w", err)
		}
		fmt.Println(string(out))
	}
	return runErr
}
