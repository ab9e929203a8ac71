package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"jewel-erp/internal/config"
	"jewel-erp/pkg/database"
	"jewel-erp/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "erpctl",
	Short: "Operator tooling for the jewel ERP backend",
	Long: `erpctl runs maintenance tasks against the ERP database using the
same environment (and optional .env file) as the API server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := config.Load()
		if err != nil {
			return err
		}
		if err := logger.Setup(logger.LogConfig{Level: cfg.LogLevel, Format: "console"}); err != nil {
			return err
		}
		decimal.MarshalJSONWithoutQuotes = true
		appConfig = cfg
		return nil
	},
}

var appConfig *config.Config

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, error) {
	return database.Connect(database.Options{
		DSN:             appConfig.DSN(),
		MaxIdleConns:    2,
		MaxOpenConns:    4,
		ConnMaxLifetime: appConfig.DBConnMaxLifetime,
	})
}
