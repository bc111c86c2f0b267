package bsql

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

func NewDB(db *sql.DB) *DB {
	return &DB{DB: db}
}

// Open connects to Postgres and verifies the connection with a ping
func Open(config *DatabaseConfig) (*DB, error) {
	db, err := sql.Open("postgres", ConnectionString(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxIdleConns(config.MaxIdleConnection)
	db.SetMaxOpenConns(config.MaxOpenConnection)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewDB(db), nil
}

// ConnectionString builds a lib/pq key=value connection string
func ConnectionString(config *DatabaseConfig) string {
	tokens := []string{
		"sslmode=" + config.SSLMode,
		"binary_parameters=yes",
	}

	if config.Username != "" {
		tokens = append(tokens, fmt.Sprintf("user=%s", config.Username))
	}
	if config.Password != "" {
		tokens = append(tokens, fmt.Sprintf("password=%s", config.Password))
	}
	if config.Host != "" {
		tokens = append(tokens, fmt.Sprintf("host=%s", config.Host))
	}
	if config.Port != "" {
		tokens = append(tokens, fmt.Sprintf("port=%s", config.Port))
	}
	if config.Database != "" {
		tokens = append(tokens, fmt.Sprintf("dbname=%s", config.Database))
	}

	return strings.Join(tokens, " ")
}

// Insert writes one row from a column->value map and returns its id.
// Columns are emitted in sorted order so the statement text is stable.
func (db *DB) Insert(ctx context.Context, tableName string, dict map[string]interface{}) (int64, error) {
	var keyBuffer bytes.Buffer
	var valueBuffer bytes.Buffer
	keyBuffer.WriteString(fmt.Sprintf("INSERT INTO %s (", tableName))
	valueBuffer.WriteString(") VALUES (")

	columns := make([]string, 0, len(dict))
	for key := range dict {
		columns = append(columns, key)
	}
	sort.Strings(columns)

	values := make([]interface{}, 0, len(columns))
	for i, key := range columns {
		if i > 0 {
			keyBuffer.WriteString(", ")
			valueBuffer.WriteString(", ")
		}
		keyBuffer.WriteString(key)
		valueBuffer.WriteString(fmt.Sprintf("$%d", i+1))
		values = append(values, dict[key])
	}
	valueBuffer.WriteString(") RETURNING id;")
	keyBuffer.WriteString(valueBuffer.String())

	var id int64
	if err := db.QueryRowContext(ctx, keyBuffer.String(), values...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
