package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// MigrationFiles lists the *.up.sql (or *.down.sql) files of dir in name order.
func MigrationFiles(dir string, down bool) ([]string, error) {
	suffix := ".up.sql"
	if down {
		suffix = ".down.sql"
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	if down {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	return files, nil
}

// RunMigrations executes every migration file of dir. Oracle runs one statement per
// Exec, so files hold a single statement without a trailing semicolon.
func RunMigrations(ctx context.Context, db *sqlx.DB, dir string, down bool, logger *zap.Logger) error {
	files, err := MigrationFiles(dir, down)
	if err != nil {
		return err
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", file, err)
		}

		stmt := strings.TrimSuffix(strings.TrimSpace(string(content)), ";")
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %s: %w", filepath.Base(file), err)
		}

		logger.Info("Executed migration", zap.String("file", filepath.Base(file)))
	}

	logger.Info("Migrations completed successfully", zap.Int("count", len(files)))
	return nil
}
