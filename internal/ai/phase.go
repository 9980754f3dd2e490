package ai

import (
	"log/slog"
	"time"

	"github.com/udisondev/sentinel/internal/model"
)

// BossPhase is a stage of the boss fight cycle.
type BossPhase uint8

const (
	// PhaseMelee - boss boxes the target, invincible
	PhaseMelee BossPhase = iota
	// PhaseFlying - boss hovers and throws rock volleys, invincible
	PhaseFlying
	// PhaseVulnerable - boss is grounded and stunned, can be damaged
	PhaseVulnerable
)

// String returns phase name
func (p BossPhase) String() string {
	switch p {
	case PhaseMelee:
		return "melee"
	case PhaseFlying:
		return "flying"
	case PhaseVulnerable:
		return "vulnerable"
	default:
		return "unknown"
	}
}

// SlamFunc starts the boss ground slam. The quake lands later, at the slam
// impact, through the combat scheduler.
type SlamFunc func(agent *model.Agent, target *model.Target)

// PhaseController wraps a Brain with the boss cycle Melee → Flying →
// Vulnerable → Melee. The brain only runs during Melee, where the boss also
// slams the ground on its own cooldown; the cycle starts once the boss first
// engages the target.
type PhaseController struct {
	brain    *Brain
	phases   *model.PhaseTemplate
	slamFunc SlamFunc

	phase     BossPhase
	elapsed   time.Duration
	volley    time.Duration
	slamTimer time.Duration
	slamLock  time.Duration
	activated bool
}

// NewPhaseController creates the boss cycle around brain.
// The agent template must carry phase tuning.
func NewPhaseController(brain *Brain) *PhaseController {
	pc := &PhaseController{
		brain:  brain,
		phases: brain.Agent().Template().Phases,
	}
	brain.Agent().Health().SetInvincible(true)
	return pc
}

// SetSlamFunc sets the ground slam callback.
func (pc *PhaseController) SetSlamFunc(fn SlamFunc) {
	pc.slamFunc = fn
}

// Phase returns current phase
func (pc *PhaseController) Phase() BossPhase {
	return pc.phase
}

// Brain returns the wrapped state machine
func (pc *PhaseController) Brain() *Brain {
	return pc.brain
}

// Reconfigure picks up retuned phase and brain values after a hot reload.
// A phase already in progress keeps running to its new duration.
func (pc *PhaseController) Reconfigure() {
	if p := pc.brain.Agent().Template().Phases; p != nil {
		pc.phases = p
	}
	pc.brain.Reconfigure()
}

// Start starts AI controller
func (pc *PhaseController) Start() {
	pc.brain.Start()
}

// Stop stops AI controller
func (pc *PhaseController) Stop() {
	pc.brain.Stop()
}

// State returns current behaviour state
func (pc *PhaseController) State() model.State {
	return pc.brain.State()
}

// OnSoundHeard forwards to the brain
func (pc *PhaseController) OnSoundHeard(pos model.Location, intensity float64) bool {
	return pc.brain.OnSoundHeard(pos, intensity)
}

// OnAlerted forwards to the brain
func (pc *PhaseController) OnAlerted(pos model.Location) bool {
	return pc.brain.OnAlerted(pos)
}

// NotifyDamage forwards to the brain
func (pc *PhaseController) NotifyDamage(attackerID uint32, from model.Location) {
	pc.brain.NotifyDamage(attackerID, from)
}

// NotifyDeath forwards to the brain and ends the current phase flags.
func (pc *PhaseController) NotifyDeath() {
	pc.brain.setFlag(FlagFlying, false)
	pc.brain.setFlag(FlagVulnerable, false)
	pc.brain.NotifyDeath()
}

// Tick advances the phase clock and runs the brain during Melee.
func (pc *PhaseController) Tick(dt time.Duration) {
	a := pc.brain.Agent()
	if !pc.brain.isRunning.Load() || a.IsDead() || dt <= 0 {
		return
	}

	if !pc.activated {
		pc.brain.Tick(dt)
		if a.State().Engaged() {
			pc.activated = true
			pc.elapsed = 0
			pc.resetSlam()
		}
		return
	}

	pc.elapsed += dt
	switch pc.phase {
	case PhaseMelee:
		switch {
		case pc.slamLock > 0:
			pc.slamLock -= dt
			pc.brain.hold(dt)
		case pc.slamReady(dt):
			pc.brain.hold(dt)
			pc.slam()
		default:
			pc.brain.Tick(dt)
		}
		if pc.elapsed >= pc.phases.MeleeDuration {
			pc.enter(PhaseFlying)
		}

	case PhaseFlying:
		pc.brain.now += dt
		pc.volley -= dt
		if pc.volley <= 0 {
			pc.throwRock()
			pc.volley = pc.phases.VolleyInterval
		}
		if pc.elapsed >= pc.phases.FlyingDuration {
			pc.enter(PhaseVulnerable)
		}

	case PhaseVulnerable:
		pc.brain.now += dt
		a.Health().Tick(dt)
		if pc.elapsed >= pc.phases.VulnerableDuration {
			pc.enter(PhaseMelee)
		}
	}
}

func (pc *PhaseController) enter(p BossPhase) {
	a := pc.brain.Agent()
	old := pc.phase
	pc.phase = p
	pc.elapsed = 0
	pc.volley = 0
	pc.slamLock = 0

	a.Health().SetInvincible(p != PhaseVulnerable)
	pc.brain.setFlag(FlagFlying, p == PhaseFlying)
	pc.brain.setFlag(FlagVulnerable, p == PhaseVulnerable)
	if p != PhaseMelee {
		pc.brain.setWalking(false)
	}

	slog.Info("boss phase changed",
		"agent", a.Name(),
		"objectID", a.ID(),
		"from", old,
		"to", p)
}

func (pc *PhaseController) throwRock() {
	b := pc.brain
	target, ok := b.lookupTarget()
	if !ok || target.IsDead() {
		return
	}
	b.face(target.Location())
	if b.launchFunc != nil {
		b.launchFunc(b.agent, target, pc.phases.Volley)
	}
	b.trigger(TriggerVolley)
}

// slamReady counts the slam cooldown down and reports whether the slam can
// start this tick. A blow in progress delays it until the brain is free.
func (pc *PhaseController) slamReady(dt time.Duration) bool {
	if pc.phases.SlamDamage <= 0 {
		return false
	}
	pc.slamTimer = max(pc.slamTimer-dt, 0)
	return pc.slamTimer == 0 && pc.brain.actionLock <= dt
}

func (pc *PhaseController) slam() {
	b := pc.brain
	pc.resetSlam()

	target, ok := b.lookupTarget()
	if !ok || target.IsDead() {
		return
	}
	b.face(target.Location())
	b.setWalking(false)
	pc.slamLock = pc.phases.SlamDuration
	if pc.slamFunc != nil {
		pc.slamFunc(b.agent, target)
	}
	b.trigger(TriggerSlam)

	if IsDebugEnabled() {
		slog.Debug("boss slam",
			"agent", b.agent.Name(),
			"objectID", b.agent.ID(),
			"lock", pc.slamLock)
	}
}

func (pc *PhaseController) resetSlam() {
	p := pc.phases
	spread := p.SlamCooldownMax - p.SlamCooldownMin
	pc.slamTimer = p.SlamCooldownMin
	if spread > 0 {
		pc.slamTimer += time.Duration(pc.brain.rng.Int64N(int64(spread) + 1))
	}
}
