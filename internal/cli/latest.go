package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"offline-payment-sync/internal/models"
	"offline-payment-sync/internal/repository"
)

var latestKind string

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the newest batch in the cache root",
	RunE:  runLatest,
}

func init() {
	latestCmd.Flags().StringVarP(&latestKind, "kind", "k", "", `Batch kind ("recent" or a payment id); default is the most recently written batch`)
}

func runLatest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := repository.NewBatchStore(cfg.Cache.Root)

	var (
		path string
		ok   bool
	)
	if latestKind != "" {
		path, ok, err = store.Latest(models.BatchKind(latestKind))
	} else {
		path, ok, err = store.LatestAny()
	}
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("No batches found")
		return nil
	}

	info, err := store.ReadInfo(path)
	if err != nil {
		fmt.Printf("%s (incomplete: %v)\n", filepath.Base(path), err)
		return nil
	}
	fmt.Printf("%s\n  type:      %s\n  program:   %s\n  records:   %d\n  generated: %s\n",
		filepath.Base(path), info.BatchType, info.ProgramID, info.RecordCount, info.GeneratedAt.Format("2006-01-02 15:04:05"))
	return nil
}
