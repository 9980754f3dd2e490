package testutil

import (
	"context"
	"testing"
	"time"
)

// WaitFor ждёт пока check вернёт true (polling с timeout).
// Используется для фоновых горутин: ledger writer, config watcher.
//
// Пример:
//
//	ledger.AgentDefeated(ev)
//	testutil.WaitFor(t, func() bool {
//	    return ledger.Saved() == 1
//	}, 2*time.Second)
func WaitFor(tb testing.TB, check func() bool, timeout time.Duration) {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		if check() {
			return
		}
		select {
		case <-ctx.Done():
			tb.Fatalf("condition not met within %v", timeout)
		case <-ticker.C:
		}
	}
}
