package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/sentinel/internal/mission"
)

// DB is the PostgreSQL store backed by a pgx connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() error {
	d.pool.Close()
	return nil
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// StartRun records the beginning of a simulation run.
func (d *DB) StartRun(ctx context.Context, runID uuid.UUID, seed uint64) error {
	_, err := d.pool.Exec(ctx,
		`INSERT INTO runs (run_id, seed, started_at) VALUES ($1, $2, $3)`,
		runID, int64(seed), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("starting run %s: %w", runID, err)
	}
	return nil
}

// FinishRun stamps the end of a run with its defeat total.
func (d *DB) FinishRun(ctx context.Context, runID uuid.UUID, defeats int) error {
	tag, err := d.pool.Exec(ctx,
		`UPDATE runs SET finished_at = $1, defeats = $2 WHERE run_id = $3`,
		time.Now().UTC(), defeats, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finishing run %s: run not found", runID)
	}
	return nil
}

// GetRun returns a run by ID.
// Returns nil, nil if the run does not exist.
func (d *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var r Run
	err := d.pool.QueryRow(ctx,
		`SELECT run_id, seed, started_at, finished_at, defeats FROM runs WHERE run_id = $1`,
		runID,
	).Scan(&r.RunID, &r.Seed, &r.StartedAt, &r.FinishedAt, &r.Defeats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}
	return &r, nil
}

// SaveDefeat appends a defeat event to the run ledger.
func (d *DB) SaveDefeat(ctx context.Context, runID uuid.UUID, ev mission.DefeatEvent) error {
	rec := newRecord(runID, ev)
	_, err := d.pool.Exec(ctx,
		`INSERT INTO defeats (run_id, agent_id, kind, killer_id, x, y, tick_ms, loot, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.RunID, rec.AgentID, rec.Kind, rec.KillerID, rec.X, rec.Y, rec.TickMS, rec.Loot, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving defeat of agent %d: %w", ev.AgentID, err)
	}
	return nil
}

// CountDefeats returns number of defeats stored for a run.
func (d *DB) CountDefeats(ctx context.Context, runID uuid.UUID) (int, error) {
	var n int
	if err := d.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM defeats WHERE run_id = $1`, runID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting defeats of run %s: %w", runID, err)
	}
	return n, nil
}

// ListDefeats returns the defeats of a run in simulation order.
func (d *DB) ListDefeats(ctx context.Context, runID uuid.UUID) ([]DefeatRecord, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT run_id, agent_id, kind, killer_id, x, y, tick_ms, loot, created_at
		 FROM defeats WHERE run_id = $1 ORDER BY tick_ms, id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing defeats of run %s: %w", runID, err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[DefeatRecord])
	if err != nil {
		return nil, fmt.Errorf("scanning defeat rows: %w", err)
	}
	return records, nil
}
