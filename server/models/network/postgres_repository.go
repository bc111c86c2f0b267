package network

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"latency_optimizer/server/bsql"

	"github.com/lib/pq"
)

const runColumns = `id, fingerprint, source, node_count, edge_count, min_distance,
	optimal_nodes, total_distance, client_ip, created_at`

// PostgresRepository implements Repository on the optimization_runs table
type PostgresRepository struct {
	db  *bsql.DB
	now func() time.Time
}

func NewPostgresRepository(db *bsql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) Create(ctx context.Context, run *Run) (*Run, error) {
	stored := *run
	stored.CreatedAt = r.now().UTC()

	id, err := r.db.Insert(ctx, "optimization_runs", map[string]interface{}{
		"fingerprint":    stored.Fingerprint,
		"source":         stored.Source,
		"node_count":     stored.NodeCount,
		"edge_count":     stored.EdgeCount,
		"min_distance":   stored.MinDistance,
		"optimal_nodes":  pq.Array(toInt64s(stored.OptimalNodes)),
		"total_distance": pq.Array(stored.TotalDistance),
		"client_ip":      sql.NullString{String: stored.ClientIP, Valid: stored.ClientIP != ""},
		"created_at":     stored.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	stored.ID = id
	return &stored, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM optimization_runs WHERE id = $1`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM optimization_runs
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var optimal []int64
	var clientIP sql.NullString

	err := row.Scan(
		&run.ID,
		&run.Fingerprint,
		&run.Source,
		&run.NodeCount,
		&run.EdgeCount,
		&run.MinDistance,
		pq.Array(&optimal),
		pq.Array(&run.TotalDistance),
		&clientIP,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	run.OptimalNodes = make([]int, len(optimal))
	for i, v := range optimal {
		run.OptimalNodes[i] = int(v)
	}
	run.ClientIP = clientIP.String
	return run, nil
}

func toInt64s(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}
