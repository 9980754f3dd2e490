// Package sim wires world, agents, combat and spawns into one tick-driven
// simulation. Everything runs on the goroutine that calls Step; other
// goroutines only read published snapshots and hand over reloaded config.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/udisondev/sentinel/internal/ai"
	"github.com/udisondev/sentinel/internal/combat"
	"github.com/udisondev/sentinel/internal/config"
	"github.com/udisondev/sentinel/internal/mission"
	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/perception"
	"github.com/udisondev/sentinel/internal/spawn"
	"github.com/udisondev/sentinel/internal/world"
)

// Simulation owns every piece of mutable game state.
type Simulation struct {
	cfg config.Simulation
	rng *rand.Rand

	world       *world.World
	walls       []world.Wall
	ids         *world.IDGenerator
	ticks       *ai.TickManager
	alerter     *ai.Alerter
	sched       *combat.Scheduler
	resolver    *combat.Resolver
	projectiles *combat.Projectiles
	spawns      *spawn.Manager
	presenter   *flagBook

	target   *model.Target
	script   *TargetScript
	emitter  *perception.Emitter
	strikeCD time.Duration

	loot    map[uint32]model.Loot
	defeats int
	now     time.Duration
	tick    uint64

	snapshot atomic.Pointer[Snapshot]
	pending  atomic.Pointer[config.Simulation]
}

// New builds a simulation from cfg and spawns every agent.
// Defeats are reported to sink, which may be nil.
func New(ctx context.Context, cfg config.Simulation, sink mission.Sink) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	templates, err := cfg.Templates()
	if err != nil {
		return nil, fmt.Errorf("building templates: %w", err)
	}

	bounds := world.Bounds{MinX: cfg.World.MinX, MinY: cfg.World.MinY, MaxX: cfg.World.MaxX, MaxY: cfg.World.MaxY}
	w, err := world.New(bounds, cfg.World.CellSize)
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}
	for _, wc := range cfg.World.Walls {
		w.Geometry().AddWall(model.NewLocation(wc.X1, wc.Y1, 0), model.NewLocation(wc.X2, wc.Y2, 0), wc.Thickness)
	}

	s := &Simulation{
		cfg:       cfg,
		rng:       rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		world:     w,
		walls:     w.Geometry().Walls(),
		ids:       world.NewIDGenerator(),
		ticks:     ai.NewTickManager(cfg.TickInterval),
		sched:     combat.NewScheduler(),
		presenter: newFlagBook(),
		script:    NewTargetScript(cfg.Target.Route),
		emitter:   perception.NewEmitter(cfg.Footsteps.Footsteps()),
		loot:      make(map[uint32]model.Loot),
	}

	tc := cfg.Target
	s.target = model.NewTarget(s.ids.NextTargetID(), tc.Name, model.NewLocation(tc.X, tc.Y, 0), tc.MaxHealth, tc.HitRecovery)

	s.alerter = ai.NewAlerter(w, s.ticks)

	counted := mission.SinkFunc(func(mission.DefeatEvent) { s.defeats++ })
	s.resolver = combat.NewResolver(s.sched, mission.Fanout{counted, sink}, s.ids, s.rng)
	s.resolver.SetRates(cfg.Rates)
	s.resolver.SetDamageFunc(s.onDamage)
	s.resolver.SetHitFunc(s.onHit)
	s.resolver.SetDeathFunc(s.onDeath)
	s.resolver.SetLootFunc(func(l model.Loot) { s.loot[l.ID] = l })
	s.resolver.SetLootExpireFunc(func(id uint32) { delete(s.loot, id) })
	s.projectiles = combat.NewProjectiles(s.resolver, s.ids)

	s.spawns = spawn.NewManager(
		spawn.ConfigTemplates(templates),
		w,
		s.ticks,
		s.ids,
		spawn.NewRouteGenerator(int64(cfg.Seed), bounds),
	)
	s.spawns.SetControllerFunc(s.newController)
	s.spawns.SetDespawnFunc(func(a *model.Agent) { s.presenter.forget(a.ID()) })
	s.resolver.SetRemoveFunc(s.spawns.Despawn)

	if err := s.spawns.LoadSpawns(ctx, spawn.ConfigSpawns(cfg.Spawns)); err != nil {
		return nil, err
	}
	if err := s.spawns.SpawnAll(); err != nil {
		return nil, err
	}

	s.ticks.SetStepFunc(s.Step)
	s.publish()

	slog.Info("simulation created",
		"agents", w.Count(),
		"walls", len(cfg.World.Walls),
		"seed", cfg.Seed,
		"tick", cfg.TickInterval)
	return s, nil
}

func (s *Simulation) newController(a *model.Agent) ai.Controller {
	b := ai.NewBrain(a, s.lookupTarget, s.world.Geometry())
	b.SetMoveFunc(s.world.MoveAgent)
	b.SetAttackFunc(s.resolver.MeleeFunc())
	b.SetLaunchFunc(s.projectiles.LaunchFunc())
	b.SetAlertFunc(s.alerter.AlertFunc())
	b.SetPresenter(s.presenter)
	b.SetRand(rand.New(rand.NewPCG(s.cfg.Seed, uint64(a.ID()))))

	if a.Template().Phases != nil {
		pc := ai.NewPhaseController(b)
		pc.SetSlamFunc(s.resolver.SlamFunc())
		return pc
	}
	return b
}

func (s *Simulation) lookupTarget() (*model.Target, bool) {
	return s.target, s.target != nil
}

func (s *Simulation) onDamage(defender *model.Agent, attacker combat.Combatant) {
	c, err := s.ticks.GetController(defender.ID())
	if err != nil {
		return
	}
	if l, ok := c.(ai.Listener); ok {
		l.NotifyDamage(attacker.ID(), attacker.Location())
	}
}

func (s *Simulation) onHit(defender combat.Combatant) {
	if world.IsAgentID(defender.ID()) {
		s.presenter.Trigger(defender.ID(), ai.FlagHitReaction)
	}
}

func (s *Simulation) onDeath(c combat.Combatant) {
	if a, ok := c.(*model.Agent); ok {
		s.presenter.SetFlag(a.ID(), ai.FlagDying, true)
		if ctrl, err := s.ticks.GetController(a.ID()); err == nil {
			if l, ok := ctrl.(ai.Listener); ok {
				l.NotifyDeath()
			}
		}
		return
	}
	slog.Warn("target down", "target", c.Name(), "tick", s.tick, "time", s.now)
}

// Step advances the whole simulation by dt: target movement and footsteps,
// sound delivery, agent brains, timed impacts, projectiles, respawns and the
// target's own strikes, then publishes a snapshot.
func (s *Simulation) Step(dt time.Duration) {
	if dt <= 0 {
		return
	}
	s.applyPending()

	t := s.target
	s.script.Advance(t, dt)

	gait, blend := t.Gait()
	s.emitter.Update(dt, t.Moving(), gait, blend)
	if !t.IsDead() {
		if ev, ok := s.emitter.Emit(t.ID(), t.Location()); ok {
			s.alerter.PropagateSound(ev, s.world.Geometry())
		}
	}

	s.ticks.TickAll(dt)
	s.sched.Advance(dt)
	s.projectiles.Advance(dt)
	s.spawns.Respawns().Advance(dt)
	s.autoStrike(dt)
	t.Health().Tick(dt)

	s.now += dt
	s.tick++
	s.publish()
}

// autoStrike makes the target hit the nearest live agent within reach.
func (s *Simulation) autoStrike(dt time.Duration) {
	tc := s.cfg.Target
	s.strikeCD = max(s.strikeCD-dt, 0)
	if !tc.AutoStrike || s.strikeCD > 0 || s.target.IsDead() {
		return
	}

	var victim *model.Agent
	best := 0.0
	from := s.target.Location()
	s.world.AgentsWithinRadius(from, tc.AttackReach, func(a *model.Agent) bool {
		if d := from.DistanceSquared(a.Location()); victim == nil || d < best {
			victim, best = a, d
		}
		return true
	})
	if victim == nil {
		return
	}

	s.resolver.Strike(s.target, victim, tc.AttackDamage, tc.AttackReach, tc.ImpactOffset)
	s.strikeCD = tc.AttackCooldown
}

func (s *Simulation) publish() {
	s.snapshot.Store(s.buildSnapshot())
}

// Snapshot returns the picture published after the latest tick.
// Safe for concurrent use.
func (s *Simulation) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// ApplyConfig hands a reloaded config to the simulation. Kind tuning, rates
// and footsteps switch over at the start of the next tick; world, target and
// spawn layout are fixed for the run. Safe for concurrent use.
func (s *Simulation) ApplyConfig(cfg config.Simulation) {
	s.pending.Store(&cfg)
}

func (s *Simulation) applyPending() {
	cfg := s.pending.Swap(nil)
	if cfg == nil {
		return
	}

	templates, err := cfg.Templates()
	if err != nil {
		slog.Error("reloaded config rejected", "error", err)
		return
	}

	updated := s.spawns.ApplyTemplates(spawn.ConfigTemplates(templates))
	s.resolver.SetRates(cfg.Rates)
	s.emitter = perception.NewEmitter(cfg.Footsteps.Footsteps())
	s.cfg.Kinds = cfg.Kinds
	s.cfg.Rates = cfg.Rates
	s.cfg.Footsteps = cfg.Footsteps

	slog.Info("kind tuning applied", "agents", updated, "tick", s.tick)
}

// Run steps the simulation at the configured tick interval until ctx is
// done, Stop is called or the configured duration elapses.
func (s *Simulation) Run(ctx context.Context) error {
	if s.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Duration)
		defer cancel()
	}

	err := s.ticks.Start(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Stop ends Run after the current tick.
func (s *Simulation) Stop() {
	s.ticks.Stop()
}

// Target returns the player entity
func (s *Simulation) Target() *model.Target {
	return s.target
}

// World returns the world index
func (s *Simulation) World() *world.World {
	return s.world
}

// Controllers returns the AI registry
func (s *Simulation) Controllers() *ai.TickManager {
	return s.ticks
}

// Spawns returns the spawn manager
func (s *Simulation) Spawns() *spawn.Manager {
	return s.spawns
}

// Now returns elapsed simulation time
func (s *Simulation) Now() time.Duration {
	return s.now
}

// Defeats returns number of agents defeated so far
func (s *Simulation) Defeats() int {
	return s.defeats
}
