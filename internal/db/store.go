package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/sentinel/internal/config"
	"github.com/udisondev/sentinel/internal/mission"
)

// ErrDisabled is returned by Open when persistence is switched off.
var ErrDisabled = errors.New("database disabled")

// DefeatRecord is a stored defeat event.
type DefeatRecord struct {
	RunID     uuid.UUID `db:"run_id"`
	AgentID   int64     `db:"agent_id"`
	Kind      string    `db:"kind"`
	KillerID  int64     `db:"killer_id"`
	X         float64   `db:"x"`
	Y         float64   `db:"y"`
	TickMS    int64     `db:"tick_ms"`
	Loot      string    `db:"loot"`
	CreatedAt time.Time `db:"created_at"`
}

// At returns simulation time of the defeat
func (r DefeatRecord) At() time.Duration {
	return time.Duration(r.TickMS) * time.Millisecond
}

// Run is a stored simulation run.
type Run struct {
	RunID      uuid.UUID  `db:"run_id"`
	Seed       int64      `db:"seed"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
	Defeats    int        `db:"defeats"`
}

// Store persists runs and their defeat ledger.
type Store interface {
	mission.DefeatStore

	StartRun(ctx context.Context, runID uuid.UUID, seed uint64) error
	FinishRun(ctx context.Context, runID uuid.UUID, defeats int) error
	GetRun(ctx context.Context, runID uuid.UUID) (*Run, error)
	CountDefeats(ctx context.Context, runID uuid.UUID) (int, error)
	ListDefeats(ctx context.Context, runID uuid.UUID) ([]DefeatRecord, error)
	Close() error
}

// Open connects the store selected by cfg.Driver and applies migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, ErrDisabled
	case "sqlite":
		return OpenSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		dsn := cfg.DSN()
		if err := RunMigrations(ctx, dsn); err != nil {
			return nil, err
		}
		return New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func newRecord(runID uuid.UUID, ev mission.DefeatEvent) DefeatRecord {
	return DefeatRecord{
		RunID:     runID,
		AgentID:   int64(ev.AgentID),
		Kind:      ev.Kind,
		KillerID:  int64(ev.KillerID),
		X:         ev.Location.X,
		Y:         ev.Location.Y,
		TickMS:    ev.At.Milliseconds(),
		Loot:      ev.Loot,
		CreatedAt: time.Now().UTC(),
	}
}
