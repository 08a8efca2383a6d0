package main

import (
	"fmt"
	"os"

	"github.com/softline/vitrine/internal/config"
	"github.com/softline/vitrine/internal/logging"
	"github.com/softline/vitrine/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config
	var cleanup func()

	root := &cobra.Command{
		Use:           "vitrine",
		Short:         "Storefront back office API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			_, cleanup, err = logging.Setup(cfg.AppEnv, cfg.LogLevel)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cleanup != nil {
				cleanup()
			}
		},
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cfg)
		},
	}
	reconcile := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare product image slots with the object store once and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	reconcile.Flags().Bool("delete-orphans", false, "delete objects referenced by no product slot")
	reconcile.PreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("delete-orphans") {
			v, _ := cmd.Flags().GetBool("delete-orphans")
			cfg.ReconcileDeleteOrphans = v
		}
		return nil
	}

	root.AddCommand(serve, migrateCmd, reconcile)
	// serve is the default command
	root.RunE = serve.RunE
	return root
}

func runMigrate(cfg *config.Config) error {
	zap.S().Info("applying database migrations")
	return database.Migrate(cfg.DatabaseURL)
}
