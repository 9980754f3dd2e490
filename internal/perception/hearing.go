package perception

import "time"

// Hearing is a listener's memory of the last sound it reacted to.
//
// The heard intensity fades at a fixed rate per second. When it reaches
// zero the listener lingers alert for a cooldown before it may resume
// autonomous patrol.
type Hearing struct {
	decay  float64       // intensity lost per second
	linger time.Duration // alert cooldown after the sound faded

	intensity float64
	lingering time.Duration
}

// NewHearing creates listener memory
func NewHearing(decay float64, linger time.Duration) Hearing {
	return Hearing{decay: decay, linger: linger}
}

// Hear records a sound, replacing any fading one, and cancels the cooldown.
func (h *Hearing) Hear(intensity float64) {
	if intensity <= 0 {
		return
	}
	h.intensity = intensity
	h.lingering = 0
}

// Tick fades the heard intensity and runs the cooldown.
// paused freezes the cooldown, e.g. while the target is in sight.
func (h *Hearing) Tick(dt time.Duration, paused bool) {
	if h.intensity > 0 {
		h.intensity -= h.decay * dt.Seconds()
		if h.intensity <= 0 {
			h.intensity = 0
			h.lingering = h.linger
		}
		return
	}
	if h.lingering > 0 && !paused {
		h.lingering = max(0, h.lingering-dt)
	}
}

// Intensity returns the currently remembered loudness
func (h *Hearing) Intensity() float64 {
	return h.intensity
}

// Holding reports whether the listener is still alert from a sound.
func (h *Hearing) Holding() bool {
	return h.intensity > 0 || h.lingering > 0
}

// Reconfigure applies new tuning without losing the current memory.
func (h *Hearing) Reconfigure(decay float64, linger time.Duration) {
	h.decay = decay
	h.linger = linger
}
