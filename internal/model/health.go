package model

import "time"

// Health tracks integer hit points clamped at zero.
// There is no heal operation: current health never increases.
type Health struct {
	current    int32
	max        int32
	invincible bool

	// recovery is the hit-reaction window; damage still lands while it runs
	recovery   time.Duration
	recovering time.Duration
}

// NewHealth creates full health with the given hit-reaction window.
func NewHealth(max int32, recovery time.Duration) Health {
	return Health{current: max, max: max, recovery: recovery}
}

// Current returns current hit points
func (h *Health) Current() int32 {
	return h.current
}

// Max returns maximum hit points
func (h *Health) Max() int32 {
	return h.max
}

// IsDead reports whether health reached zero
func (h *Health) IsDead() bool {
	return h.current <= 0
}

// Invincible reports whether damage is ignored
func (h *Health) Invincible() bool {
	return h.invincible
}

// SetInvincible toggles damage immunity
func (h *Health) SetInvincible(v bool) {
	h.invincible = v
}

// Recovering reports whether a hit reaction is still playing.
func (h *Health) Recovering() bool {
	return h.recovering > 0
}

// Damage subtracts amount and returns what was actually applied.
// The second result is true only on the blow that brings health to zero.
func (h *Health) Damage(amount int32) (applied int32, killed bool) {
	if amount <= 0 || h.invincible || h.current <= 0 {
		return 0, false
	}
	applied = min(amount, h.current)
	h.current -= applied
	return applied, h.current == 0
}

// React starts the hit-reaction window unless one is already running.
// Returns false when the reaction is suppressed.
func (h *Health) React() bool {
	if h.recovering > 0 || h.current <= 0 {
		return false
	}
	h.recovering = h.recovery
	return true
}

// Tick advances the hit-reaction window.
func (h *Health) Tick(dt time.Duration) {
	if h.recovering > 0 {
		h.recovering = max(0, h.recovering-dt)
	}
}

// Ratio returns current/max in [0, 1].
func (h *Health) Ratio() float64 {
	if h.max <= 0 {
		return 0
	}
	return float64(h.current) / float64(h.max)
}
