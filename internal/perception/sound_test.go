package perception

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sentinel/internal/model"
)

func TestIntensityAt_Scenario(t *testing.T) {
	origin := model.NewLocation(0, 0, 0)
	listener := model.NewLocation(10, 0, 0)

	got := IntensityAt(origin, 5, 25, listener, nil)
	assert.InDelta(t, 5*math.Exp(-0.8), got, 1e-9)
	assert.InDelta(t, 2.247, got, 1e-3)

	assert.True(t, Reacts(got, 2.0), "threshold 2.0 should react")
	assert.False(t, Reacts(got, 3.0), "threshold 3.0 should not react")
}

func TestIntensityAt_Occluded(t *testing.T) {
	origin := model.NewLocation(0, 0, 0)
	listener := model.NewLocation(10, 0, 0)

	open := IntensityAt(origin, 5, 25, listener, nil)
	muffled := IntensityAt(origin, 5, 25, listener, wall{X: 4})
	assert.InDelta(t, open*OcclusionFactor, muffled, 1e-12)
}

func TestIntensityAt_MonotoneInDistance(t *testing.T) {
	origin := model.NewLocation(0, 0, 0)

	for _, occ := range []Occluder{nil, wall{X: -1}, wall{X: 0.05}} {
		prev := math.Inf(1)
		for d := 0.1; d < 60; d += 0.1 {
			got := IntensityAt(origin, 2.5, 25, model.NewLocation(d, 0, 0), occ)
			// the wall at 0.05 occludes every listener here; the others never do
			require.Less(t, got, prev, "distance %v", d)
			prev = got
		}
	}
}

func TestIntensityAt_Silent(t *testing.T) {
	assert.Zero(t, IntensityAt(model.Location{}, 0, 25, model.NewLocation(1, 0, 0), nil))
	assert.Zero(t, IntensityAt(model.Location{}, 1, 0, model.NewLocation(1, 0, 0), nil))
}

func TestReacts_StrictlyExceeds(t *testing.T) {
	assert.False(t, Reacts(0.5, 0.5))
	assert.True(t, Reacts(0.5000001, 0.5))
}

func TestHearing_DecayThenLinger(t *testing.T) {
	h := NewHearing(2, 5*time.Second)
	h.Hear(1)
	require.True(t, h.Holding())

	// 1.0 at 2/s fades in half a second
	h.Tick(250*time.Millisecond, false)
	assert.InDelta(t, 0.5, h.Intensity(), 1e-9)
	h.Tick(250*time.Millisecond, false)
	assert.Zero(t, h.Intensity())
	assert.True(t, h.Holding(), "cooldown starts when the sound fades")

	h.Tick(4*time.Second, false)
	assert.True(t, h.Holding())
	h.Tick(2*time.Second, true)
	assert.True(t, h.Holding(), "paused cooldown does not run")
	h.Tick(time.Second, false)
	assert.False(t, h.Holding())
}

func TestHearing_NewSoundCancelsCooldown(t *testing.T) {
	h := NewHearing(2, 5*time.Second)
	h.Hear(1)
	h.Tick(time.Second, false)
	h.Tick(3*time.Second, false)

	h.Hear(3)
	assert.Equal(t, 3.0, h.Intensity())
	h.Tick(1500*time.Millisecond, false)
	assert.Zero(t, h.Intensity())
	h.Tick(4900*time.Millisecond, false)
	assert.True(t, h.Holding())
}

func TestFootsteps_Intensity(t *testing.T) {
	f := DefaultFootsteps()

	assert.Equal(t, 0.0, f.Intensity(model.GaitIdle, 0))
	assert.Equal(t, 0.3, f.Intensity(model.GaitCrouch, 1))
	assert.Equal(t, 1.0, f.Intensity(model.GaitWalk, 0))
	assert.InDelta(t, 1.75, f.Intensity(model.GaitWalk, 0.5), 1e-9)
	assert.Equal(t, 2.5, f.Intensity(model.GaitRun, 1))
	assert.Equal(t, 2.5, f.Intensity(model.GaitRun, 0))
}

func TestEmitter_TrailsAfterStopping(t *testing.T) {
	e := NewEmitter(DefaultFootsteps())

	_, ok := e.Emit(1, model.Location{})
	assert.False(t, ok, "silent emitter must not emit")

	e.Update(16*time.Millisecond, true, model.GaitWalk, 0)
	ev, ok := e.Emit(1, model.NewLocation(3, 4, 0))
	require.True(t, ok)
	assert.Equal(t, 1.0, ev.Intensity)
	assert.Equal(t, 25.0, ev.MaxRange)
	assert.Equal(t, uint32(1), ev.SourceID)

	e.Update(250*time.Millisecond, false, model.GaitIdle, 0)
	assert.InDelta(t, 0.5, e.Current(), 1e-9)
	e.Update(250*time.Millisecond, false, model.GaitIdle, 0)
	_, ok = e.Emit(1, model.Location{})
	assert.False(t, ok)
}
