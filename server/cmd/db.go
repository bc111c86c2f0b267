package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"latency_optimizer/server/bsql"
	"latency_optimizer/server/env"
	"latency_optimizer/server/logger"
	"latency_optimizer/server/psql"
)

// MigrationsPath is where migration files live relative to the server dir
const MigrationsPath = "db/migrations"

// HandleDB handles database-related commands
func HandleDB(command string, migrationName string, steps int) {
	migPath := ResolvePath(MigrationsPath)

	// generate only writes a file
	if command == "generate" {
		if migrationName == "" {
			fmt.Println("Usage: server -db generate -name \"migration name\"")
			os.Exit(1)
		}
		filePath, err := psql.GenerateMigration(migPath, migrationName, time.Now().UTC())
		if err != nil {
			logger.Fatalf("Failed to generate migration: %v", err)
		}
		logger.Infof("Created migration: %s", filePath)
		return
	}

	if !env.E.HasDatabase() {
		logger.Fatalf("database_config_file_path is not set; database commands need PostgreSQL")
	}

	database, err := bsql.OpenFromConfig(ResolvePath(env.E.DatabaseConfigFilePath))
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()

	switch command {
	case "migrate":
		logger.Info("Running migrations...")
		if err := psql.MigrateUp(ctx, database, migPath); err != nil {
			logger.Fatalf("Migration failed: %v", err)
		}
		logger.Info("Migrations completed successfully")

	case "rollback":
		logger.Infof("Rolling back %d migration(s)...", steps)
		if err := psql.MigrateDown(ctx, database, migPath, steps); err != nil {
			logger.Fatalf("Rollback failed: %v", err)
		}
		logger.Info("Rollback completed successfully")

	case "status":
		statuses, err := psql.MigrationStatus(ctx, database, migPath)
		if err != nil {
			logger.Fatalf("Failed to get migration status: %v", err)
		}
		printStatus(os.Stdout, statuses)

	default:
		fmt.Println("Unknown database command:", command)
		fmt.Println("Available commands: migrate, rollback, generate, status")
		os.Exit(1)
	}
}

func printStatus(w io.Writer, statuses []psql.Status) {
	fmt.Fprintln(w, "Migration Status:")
	fmt.Fprintln(w, "=================")
	for _, s := range statuses {
		state := "[ ] Pending"
		if s.Applied {
			state = "[x] Applied"
		}
		fmt.Fprintf(w, "%s  %s_%s\n", state, s.Version, s.Name)
	}
}

// ResolvePath tries to find the path in current dir or server/ dir
func ResolvePath(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	serverPath := "server/" + path
	if _, err := os.Stat(serverPath); err == nil {
		return serverPath
	}
	return path
}
