package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"offline-payment-sync/internal/errs"
	"offline-payment-sync/internal/services/offlinecache"
	"offline-payment-sync/internal/session"
)

var syncPaymentID string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronization pass and write a new batch",
	Long: `Fetches transactions from the payment API, filters and deduplicates them,
pulls registrations and photos, and writes the next numbered batch.

Without --payment the pass covers recent waiting transactions of the whole
program; with it, every transaction of that payment.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&syncPaymentID, "payment", "p", "", "Sync a single payment instead of recent transactions")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if syncPaymentID != "" {
		cfg.PaymentID = syncPaymentID
	}

	s, err := session.New(cfg)
	if err != nil {
		return err
	}
	result, err := s.Sync(context.Background())
	if err != nil {
		if errs.Fatal(err) {
			log.Fatalf("[SYNC] %v", err)
		}
		return err
	}

	fmt.Println(offlinecache.Summary(result))
	return nil
}
