package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"offline-payment-sync/internal/config"
)

var (
	cfgPath string
	verbose bool
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "offlinesync",
		Short: "Offline payment cache sync and reconciliation",
		Long: `offlinesync pulls eligible payments from the payment API, writes encrypted
batches for offline validation, and reconciles recorded outcomes back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file (default $OFFLINESYNC_CONFIG or config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(latestCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig reads .env and the config file. The path falls back to
// $OFFLINESYNC_CONFIG, then to config.yaml when that file exists.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && verbose {
		log.Println("No .env file found, relying on system env")
	}

	path := cfgPath
	if path == "" {
		path = os.Getenv("OFFLINESYNC_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}
