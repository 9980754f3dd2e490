// Package combat applies damage, runs timed impacts and moves projectiles.
package combat

import (
	"container/heap"
	"time"
)

// Scheduler runs actions at a point of simulation time.
// It is advanced explicitly by the simulation loop and is not safe for
// concurrent use.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue actionQueue
}

type action struct {
	at  time.Duration
	seq uint64 // FIFO among actions due at the same time
	fn  func()
}

type actionQueue []action

func (q actionQueue) Len() int { return len(q) }
func (q actionQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}
func (q actionQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *actionQueue) Push(x any)   { *q = append(*q, x.(action)) }
func (q *actionQueue) Pop() any {
	old := *q
	n := len(old)
	a := old[n-1]
	old[n-1] = action{}
	*q = old[:n-1]
	return a
}

// NewScheduler creates an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns current simulation time
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once delay has elapsed.
// A non-positive delay runs fn on the next Advance.
func (s *Scheduler) After(delay time.Duration, fn func()) {
	s.seq++
	heap.Push(&s.queue, action{at: s.now + max(delay, 0), seq: s.seq, fn: fn})
}

// Advance moves the clock forward by dt and runs every due action in
// time order. Actions scheduled by running actions run in the same call
// if they are already due.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt > 0 {
		s.now += dt
	}
	ran := 0
	for s.queue.Len() > 0 && s.queue[0].at <= s.now {
		a := heap.Pop(&s.queue).(action)
		a.fn()
		ran++
	}
	return ran
}

// Pending returns number of actions not yet run
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}
