package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-scheduler-api/internal/bootstrap"
	"github.com/noah-isme/academic-scheduler-api/pkg/config"
	"github.com/noah-isme/academic-scheduler-api/pkg/database"
	"github.com/noah-isme/academic-scheduler-api/pkg/logger"
)

var (
	cfg  *config.Config
	logr *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "schedctl",
	Short: "Operator tooling for the academic scheduler",
	Long: `schedctl runs maintenance tasks against the scheduler database using the
same environment configuration as the API server.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		l, err := logger.New(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logr = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logr != nil {
			_ = logr.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command; SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SilenceUsage = true
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(migrateCmd, reconcileCmd, dispatchCmd, tokenCmd)
}

// openApp connects to Postgres and wires the service graph without Redis or workers.
func openApp() (*bootstrap.App, *sqlx.DB, error) {
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return bootstrap.New(cfg, db, nil, logr), db, nil
}
