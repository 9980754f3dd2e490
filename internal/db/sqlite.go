package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/udisondev/sentinel/internal/mission"
)

// SQLite is the file-backed store for local runs.
type SQLite struct {
	conn *sqlx.DB
}

// OpenSQLite opens or creates a SQLite database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// one writer at a time
	conn.SetMaxOpenConns(1)

	if err := migrate(ctx, conn.DB, "sqlite3", "sqlite"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating sqlite %s: %w", path, err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// StartRun records the beginning of a simulation run.
func (s *SQLite) StartRun(ctx context.Context, runID uuid.UUID, seed uint64) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO runs (run_id, seed, started_at) VALUES (?, ?, ?)`,
		runID, int64(seed), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("starting run %s: %w", runID, err)
	}
	return nil
}

// FinishRun stamps the end of a run with its defeat total.
func (s *SQLite) FinishRun(ctx context.Context, runID uuid.UUID, defeats int) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, defeats = ? WHERE run_id = ?`,
		time.Now().UTC(), defeats, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finishing run %s: run not found", runID)
	}
	return nil
}

// GetRun returns a run by ID.
// Returns nil, nil if the run does not exist.
func (s *SQLite) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var r Run
	err := s.conn.GetContext(ctx, &r,
		`SELECT run_id, seed, started_at, finished_at, defeats FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}
	return &r, nil
}

// SaveDefeat appends a defeat event to the run ledger.
func (s *SQLite) SaveDefeat(ctx context.Context, runID uuid.UUID, ev mission.DefeatEvent) error {
	rec := newRecord(runID, ev)
	_, err := s.conn.NamedExecContext(ctx,
		`INSERT INTO defeats (run_id, agent_id, kind, killer_id, x, y, tick_ms, loot, created_at)
		 VALUES (:run_id, :agent_id, :kind, :killer_id, :x, :y, :tick_ms, :loot, :created_at)`,
		rec,
	)
	if err != nil {
		return fmt.Errorf("saving defeat of agent %d: %w", ev.AgentID, err)
	}
	return nil
}

// CountDefeats returns number of defeats stored for a run.
func (s *SQLite) CountDefeats(ctx context.Context, runID uuid.UUID) (int, error) {
	var n int
	if err := s.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM defeats WHERE run_id = ?`, runID); err != nil {
		return 0, fmt.Errorf("counting defeats of run %s: %w", runID, err)
	}
	return n, nil
}

// ListDefeats returns the defeats of a run in simulation order.
func (s *SQLite) ListDefeats(ctx context.Context, runID uuid.UUID) ([]DefeatRecord, error) {
	var records []DefeatRecord
	err := s.conn.SelectContext(ctx, &records,
		`SELECT run_id, agent_id, kind, killer_id, x, y, tick_ms, loot, created_at
		 FROM defeats WHERE run_id = ? ORDER BY tick_ms, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing defeats of run %s: %w", runID, err)
	}
	return records, nil
}
