package main

import (
	"fmt"
	"os"

	"szexam/internal/config"
	"szexam/internal/database"
	"szexam/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrationsDir string
	down          bool
)

func main() {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply the Oracle schema migrations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}
	cmd.Flags().StringVar(&migrationsDir, "dir", "database/migrations", "directory holding *.up.sql / *.down.sql files")
	cmd.Flags().BoolVar(&down, "down", false, "run the down migrations in reverse order")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		l.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	defer db.Close()

	return database.RunMigrations(cmd.Context(), db, migrationsDir, down, l)
}
