package psql

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"latency_optimizer/server/bsql"
	"latency_optimizer/server/logger"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

type Migration struct {
	Version string
	Name    string
	UpSQL   string
	DownSQL string
}

// Status pairs a migration file with whether it has been applied
type Status struct {
	Version string
	Name    string
	Applied bool
}

func MigrateUp(ctx context.Context, db *bsql.DB, migrationsPath string) error {
	if err := createMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := getAppliedMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations, err := LoadMigrations(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		logger.Infof("Applying migration %s: %s", m.Version, m.Name)
		if err := apply(ctx, db, m.UpSQL,
			"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.Version, m.Name); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}
	}

	return nil
}

func MigrateDown(ctx context.Context, db *bsql.DB, migrationsPath string, steps int) error {
	applied, err := getAppliedMigrationsOrdered(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	if len(applied) == 0 {
		logger.Info("No migrations to rollback")
		return nil
	}

	migrations, err := LoadMigrations(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	byVersion := make(map[string]*Migration, len(migrations))
	for _, m := range migrations {
		byVersion[m.Version] = m
	}

	count := 0
	for i := len(applied) - 1; i >= 0 && count < steps; i-- {
		m, ok := byVersion[applied[i]]
		if !ok {
			logger.Warnf("Migration file for %s not found, skipping", applied[i])
			continue
		}
		if m.DownSQL == "" {
			logger.Warnf("No down migration for %s, skipping", m.Version)
			continue
		}

		logger.Infof("Rolling back migration %s: %s", m.Version, m.Name)
		if err := apply(ctx, db, m.DownSQL,
			"DELETE FROM schema_migrations WHERE version = $1", m.Version); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", m.Version, err)
		}
		count++
	}

	return nil
}

// apply runs a migration body and its bookkeeping statement in one transaction
func apply(ctx context.Context, db *bsql.DB, body, record string, args ...interface{}) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, body); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// GenerateMigration writes an empty migration file and returns its path
func GenerateMigration(migrationsPath, name string, now time.Time) (string, error) {
	if err := os.MkdirAll(migrationsPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version := now.Format("20060102150405")
	fileName := fmt.Sprintf("%s_%s.sql", version, strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_")))
	filePath := filepath.Join(migrationsPath, fileName)

	content := fmt.Sprintf("-- Migration: %s\n-- Created at: %s\n\n%s\n\n\n%s\n\n",
		name, now.Format(time.RFC3339), upMarker, downMarker)

	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to create migration file: %w", err)
	}
	return filePath, nil
}

func MigrationStatus(ctx context.Context, db *bsql.DB, migrationsPath string) ([]Status, error) {
	if err := createMigrationsTable(ctx, db); err != nil {
		return nil, err
	}

	applied, err := getAppliedMigrations(ctx, db)
	if err != nil {
		return nil, err
	}

	migrations, err := LoadMigrations(migrationsPath)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(migrations))
	for _, m := range migrations {
		statuses = append(statuses, Status{Version: m.Version, Name: m.Name, Applied: applied[m.Version]})
	}
	return statuses, nil
}

func createMigrationsTable(ctx context.Context, db *bsql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255),
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func getAppliedMigrations(ctx context.Context, db *bsql.DB) (map[string]bool, error) {
	versions, err := getAppliedMigrationsOrdered(ctx, db)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func getAppliedMigrationsOrdered(ctx context.Context, db *bsql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, rows.Err()
}

// LoadMigrations reads every .sql file in path, ordered by version
func LoadMigrations(path string) ([]*Migration, error) {
	files, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var migrations []*Migration
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(path, file.Name()))
		if err != nil {
			return nil, err
		}
		m, err := ParseMigration(file.Name(), string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file.Name(), err)
		}
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// ParseMigration splits a "<version>_<name>.sql" file into its up and down sections
func ParseMigration(fileName, content string) (*Migration, error) {
	parts := strings.SplitN(filepath.Base(fileName), "_", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid migration file name: %s", fileName)
	}

	m := &Migration{
		Version: parts[0],
		Name:    strings.ReplaceAll(strings.TrimSuffix(parts[1], ".sql"), "_", " "),
	}

	upIdx := strings.Index(content, upMarker)
	downIdx := strings.Index(content, downMarker)

	if upIdx != -1 {
		end := len(content)
		if downIdx > upIdx {
			end = downIdx
		}
		m.UpSQL = strings.TrimSpace(content[upIdx+len(upMarker) : end])
	}
	if downIdx != -1 {
		m.DownSQL = strings.TrimSpace(content[downIdx+len(downMarker):])
	}

	return m, nil
}
