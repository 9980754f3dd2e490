package mission

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	defaultLedgerQueue = 256
	ledgerDrainTimeout = 5 * time.Second
)

// DefeatStore persists defeat events of a simulation run.
type DefeatStore interface {
	SaveDefeat(ctx context.Context, runID uuid.UUID, ev DefeatEvent) error
}

// Ledger is a Sink that hands events to a writer goroutine.
// AgentDefeated never blocks: when the queue is full the event is dropped.
type Ledger struct {
	store  DefeatStore
	runID  uuid.UUID
	events chan DefeatEvent

	saved   atomic.Int64
	dropped atomic.Int64
	failed  atomic.Int64
}

// NewLedger creates a ledger for runID. queueSize <= 0 uses the default.
func NewLedger(store DefeatStore, runID uuid.UUID, queueSize int) *Ledger {
	if queueSize <= 0 {
		queueSize = defaultLedgerQueue
	}
	return &Ledger{
		store:  store,
		runID:  runID,
		events: make(chan DefeatEvent, queueSize),
	}
}

// RunID returns the simulation run identifier
func (l *Ledger) RunID() uuid.UUID {
	return l.runID
}

// AgentDefeated implements Sink.
func (l *Ledger) AgentDefeated(ev DefeatEvent) {
	select {
	case l.events <- ev:
	default:
		l.dropped.Add(1)
		slog.Warn("defeat ledger queue full, event dropped",
			"agentID", ev.AgentID,
			"queued", len(l.events))
	}
}

// Run writes queued events until ctx is canceled, then drains what is
// still buffered. Store errors are logged and do not stop the writer.
func (l *Ledger) Run(ctx context.Context) error {
	slog.Info("defeat ledger started", "runID", l.runID)

	for {
		select {
		case ev := <-l.events:
			l.write(ctx, ev)

		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerDrainTimeout)
			defer cancel()
			l.drain(drainCtx)
			slog.Info("defeat ledger stopped",
				"runID", l.runID,
				"saved", l.saved.Load(),
				"dropped", l.dropped.Load(),
				"failed", l.failed.Load())
			return nil
		}
	}
}

func (l *Ledger) drain(ctx context.Context) {
	for {
		select {
		case ev := <-l.events:
			l.write(ctx, ev)
		default:
			return
		}
	}
}

func (l *Ledger) write(ctx context.Context, ev DefeatEvent) {
	if err := l.store.SaveDefeat(ctx, l.runID, ev); err != nil {
		l.failed.Add(1)
		slog.Error("save defeat",
			"runID", l.runID,
			"agentID", ev.AgentID,
			"error", err)
		return
	}
	l.saved.Add(1)
}

// Saved returns number of events written
func (l *Ledger) Saved() int64 {
	return l.saved.Load()
}

// Dropped returns number of events lost to a full queue
func (l *Ledger) Dropped() int64 {
	return l.dropped.Load()
}

// Failed returns number of events the store rejected
func (l *Ledger) Failed() int64 {
	return l.failed.Load()
}
