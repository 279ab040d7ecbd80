package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harborview-realty/neighborhood-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "neighborhood-cli",
	Short: "Neighborhood-fit quiz and deal analysis tools",
	Long:  "Scores metro-area neighborhoods against buyer quiz answers, analyzes house-hack deals, and routes captured leads to the CRM.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
