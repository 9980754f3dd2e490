package combat

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/udisondev/sentinel/internal/config"
	"github.com/udisondev/sentinel/internal/mission"
	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/world"
)

// Combatant is anything that can deal and take damage: agents and the target.
type Combatant interface {
	ID() uint32
	Name() string
	Location() model.Location
	Health() *model.Health
	IsDead() bool
}

// Outcome is what a single ApplyDamage call did.
type Outcome struct {
	Applied int32
	Killed  bool
	Reacted bool // hit reaction started
}

// HitResult is reported to the hit observer for every landed or missed blow.
type HitResult struct {
	AttackerID uint32
	DefenderID uint32
	Damage     int32
	Miss       bool
	Killed     bool
}

type (
	// DamageFunc notifies the AI that an agent was hurt (provocation).
	DamageFunc func(defender *model.Agent, attacker Combatant)
	// HitFunc is called when a defender starts a hit reaction.
	HitFunc func(defender Combatant)
	// DeathFunc is called once when a combatant's health reaches zero.
	DeathFunc func(c Combatant)
	// RemoveFunc is called when a defeated agent's body should be removed.
	RemoveFunc func(a *model.Agent)
	// LootFunc receives dropped loot.
	LootFunc func(loot model.Loot)
	// LootExpireFunc is called when dropped loot times out.
	LootExpireFunc func(lootID uint32)
)

// Resolver applies damage and handles what follows: hit reactions,
// provocation, death, loot and delayed body removal.
// Collaborators are injected; the resolver owns no global state.
type Resolver struct {
	sched *Scheduler
	sink  mission.Sink
	ids   *world.IDGenerator
	rng   *rand.Rand
	rates config.Rates

	damageFunc     DamageFunc
	hitFunc        HitFunc
	deathFunc      DeathFunc
	removeFunc     RemoveFunc
	lootFunc       LootFunc
	lootExpireFunc LootExpireFunc

	// hitObserver is used by tests (nil in production).
	hitObserver func(HitResult)
}

// NewResolver creates a resolver that reports defeats to sink.
func NewResolver(sched *Scheduler, sink mission.Sink, ids *world.IDGenerator, rng *rand.Rand) *Resolver {
	return &Resolver{
		sched: sched,
		sink:  sink,
		ids:   ids,
		rng:   rng,
		rates: config.DefaultRates(),
	}
}

// SetRates sets loot rate multipliers.
func (r *Resolver) SetRates(rates config.Rates) {
	r.rates = rates
}

// SetDamageFunc sets the provocation callback.
func (r *Resolver) SetDamageFunc(fn DamageFunc) {
	r.damageFunc = fn
}

// SetHitFunc sets the hit reaction callback.
func (r *Resolver) SetHitFunc(fn HitFunc) {
	r.hitFunc = fn
}

// SetDeathFunc sets the death callback.
func (r *Resolver) SetDeathFunc(fn DeathFunc) {
	r.deathFunc = fn
}

// SetRemoveFunc sets the body removal callback.
func (r *Resolver) SetRemoveFunc(fn RemoveFunc) {
	r.removeFunc = fn
}

// SetLootFunc sets the loot drop callback.
func (r *Resolver) SetLootFunc(fn LootFunc) {
	r.lootFunc = fn
}

// SetLootExpireFunc sets the loot timeout callback.
func (r *Resolver) SetLootExpireFunc(fn LootExpireFunc) {
	r.lootExpireFunc = fn
}

// SetHitObserver sets callback for observing attack results (for tests).
func (r *Resolver) SetHitObserver(fn func(HitResult)) {
	r.hitObserver = fn
}

// Scheduler returns the timed action queue
func (r *Resolver) Scheduler() *Scheduler {
	return r.sched
}

// ApplyDamage subtracts amount from defender's health.
//
// Invincible and dead defenders take nothing. A surviving defender starts
// a hit reaction unless one is still playing; damage lands either way.
// A surviving agent is provoked toward the attacker.
func (r *Resolver) ApplyDamage(attacker, defender Combatant, amount int32) Outcome {
	if defender == nil || defender.IsDead() || amount <= 0 {
		return Outcome{}
	}

	h := defender.Health()
	applied, killed := h.Damage(amount)
	if applied == 0 {
		return Outcome{}
	}
	out := Outcome{Applied: applied, Killed: killed}

	attackerID := uint32(0)
	if attacker != nil {
		attackerID = attacker.ID()
	}
	r.observe(HitResult{AttackerID: attackerID, DefenderID: defender.ID(), Damage: applied, Killed: killed})

	if killed {
		r.defeat(attacker, defender)
		return out
	}

	if h.React() {
		out.Reacted = true
		if r.hitFunc != nil {
			r.hitFunc(defender)
		}
	}

	if agent, ok := defender.(*model.Agent); ok && attacker != nil && r.damageFunc != nil {
		r.damageFunc(agent, attacker)
	}
	return out
}

// Strike schedules a blow that lands after offset. When it lands the
// attacker must still be alive and the defender within reach on both axes.
func (r *Resolver) Strike(attacker, defender Combatant, damage int32, reach float64, offset time.Duration) {
	r.sched.After(offset, func() {
		if attacker.IsDead() || defender.IsDead() {
			return
		}
		if !withinReach(attacker.Location(), defender.Location(), reach) {
			r.observe(HitResult{AttackerID: attacker.ID(), DefenderID: defender.ID(), Miss: true})
			slog.Debug("strike missed",
				"attacker", attacker.Name(),
				"defender", defender.Name())
			return
		}
		r.ApplyDamage(attacker, defender, damage)
	})
}

// MeleeFunc returns the attack callback for agent brains: a melee blow with
// the agent template's damage, reach and impact offset.
func (r *Resolver) MeleeFunc() func(a *model.Agent, t *model.Target) {
	return func(a *model.Agent, t *model.Target) {
		tmpl := a.Template()
		r.Strike(a, t, tmpl.AttackDamage, tmpl.MeleeReach, tmpl.ImpactOffset)
	}
}

// SlamFunc returns the boss ground slam callback. The quake lands after the
// phase template's slam impact and hits anything within slam reach.
func (r *Resolver) SlamFunc() func(a *model.Agent, t *model.Target) {
	return func(a *model.Agent, t *model.Target) {
		p := a.Template().Phases
		if p == nil || p.SlamDamage <= 0 {
			return
		}
		r.Strike(a, t, p.SlamDamage, p.SlamReach, p.SlamImpact)
	}
}

func (r *Resolver) defeat(killer, victim Combatant) {
	agent, ok := victim.(*model.Agent)
	if !ok {
		slog.Info("target defeated", "target", victim.Name(), "objectID", victim.ID())
		if r.deathFunc != nil {
			r.deathFunc(victim)
		}
		return
	}

	agent.SetState(model.StateDead)
	loc := agent.Location()

	ev := mission.DefeatEvent{
		AgentID:  agent.ID(),
		Kind:     agent.Kind(),
		Location: loc,
		At:       r.sched.Now(),
	}
	if killer != nil {
		ev.KillerID = killer.ID()
	}

	if kind, dropped := RollLoot(agent.Template(), r.rates, r.rng); dropped {
		ev.Loot = kind
		r.dropLoot(agent, kind, loc)
	}

	if r.sink != nil {
		r.sink.AgentDefeated(ev)
	}
	if r.deathFunc != nil {
		r.deathFunc(agent)
	}

	r.sched.After(agent.RemovalDelay(), func() {
		if r.removeFunc != nil {
			r.removeFunc(agent)
		}
	})

	slog.Info("agent defeated",
		"agent", agent.Name(),
		"objectID", agent.ID(),
		"kind", agent.Kind(),
		"killerID", ev.KillerID,
		"loot", ev.Loot)
}

func (r *Resolver) dropLoot(agent *model.Agent, kind string, loc model.Location) {
	loot := model.Loot{
		ID:       r.ids.NextLootID(),
		Kind:     kind,
		SourceID: agent.ID(),
		Location: loc,
	}
	if r.lootFunc != nil {
		r.lootFunc(loot)
	}

	if r.rates.LootLifetime > 0 {
		r.sched.After(r.rates.LootLifetime, func() {
			if r.lootExpireFunc != nil {
				r.lootExpireFunc(loot.ID)
			}
			slog.Debug("loot despawned", "objectID", loot.ID, "kind", loot.Kind)
		})
	}
}

func (r *Resolver) observe(res HitResult) {
	if r.hitObserver != nil {
		r.hitObserver(res)
	}
}

// withinReach checks reach on each axis separately.
func withinReach(a, b model.Location, reach float64) bool {
	return math.Abs(a.X-b.X) <= reach && math.Abs(a.Y-b.Y) <= reach
}
