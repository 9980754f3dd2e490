package ai

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/perception"
)

// TargetFunc looks up the entity agents hunt.
// Returns false while the target does not exist.
type TargetFunc func() (*model.Target, bool)

// MoveFunc relocates an agent in the world (region handoff, bounds clamp).
// Injected by the simulation to avoid import cycle with world package.
type MoveFunc func(agent *model.Agent, loc model.Location)

// AttackFunc starts a melee strike. The blow lands later, at the impact
// offset, through the combat scheduler.
type AttackFunc func(agent *model.Agent, target *model.Target)

// LaunchFunc fires a projectile from agent at target.
type LaunchFunc func(agent *model.Agent, target *model.Target, spec model.ProjectileSpec)

// AlertFunc tells allies around agent that the target was spotted at pos.
type AlertFunc func(agent *model.Agent, pos model.Location)

// sweepAngles is the heading pattern, relative to the post heading, that
// stationary agents look through while on watch.
var sweepAngles = [...]float64{0, 90, 180, 90, 0}

// investigateFacing is how close, in degrees, an investigating agent must
// face the point of interest before walking there.
const investigateFacing = 5.0

type investigatePhase uint8

const (
	phaseRotate investigatePhase = iota
	phaseWalk
	phaseWait
)

// Brain is the single state machine every enemy kind runs.
// Kind-specific behaviour comes from the template capabilities and tuning.
//
// State machine: Patrolling → Investigating → Chasing ↔ Attacking → Searching → Patrolling,
// Dead is terminal from anywhere. All methods run on the simulation goroutine.
type Brain struct {
	agent     *model.Agent
	isRunning atomic.Bool
	rng       *rand.Rand

	// Callbacks (injected to avoid import cycles)
	targetFunc TargetFunc
	occluder   perception.Occluder
	moveFunc   MoveFunc
	attackFunc AttackFunc
	launchFunc LaunchFunc
	alertFunc  AlertFunc
	presenter  Presenter

	hearing    perception.Hearing
	now        time.Duration // simulation clock local to this brain
	visible    bool          // central sighting on the latest tick
	walking    bool
	deathShown bool // Dead already presented

	// Patrolling
	dwelling    bool
	dwell       time.Duration
	sweepIndex  int
	sweepTimer  time.Duration
	postHeading float64

	// Investigating
	investigatePos   model.Location
	investigatePhase investigatePhase
	phaseTime        time.Duration

	// Searching
	searchPoint    model.Location
	hasSearchPoint bool

	// Attacking
	cooldown   time.Duration
	actionLock time.Duration
}

// NewBrain creates a new state machine for agent.
// occluder may be nil for an open field.
func NewBrain(agent *model.Agent, targetFunc TargetFunc, occluder perception.Occluder) *Brain {
	tmpl := agent.Template()
	return &Brain{
		agent:       agent,
		rng:         rand.New(rand.NewPCG(uint64(agent.ID()), 0x5e4717e1)),
		targetFunc:  targetFunc,
		occluder:    occluder,
		hearing:     perception.NewHearing(tmpl.HearingDecay, tmpl.AlertLinger),
		postHeading: agent.Location().Heading,
	}
}

// SetMoveFunc sets the movement callback.
// Without it the brain moves the agent directly.
func (b *Brain) SetMoveFunc(fn MoveFunc) {
	b.moveFunc = fn
}

// SetAttackFunc sets the melee strike callback.
func (b *Brain) SetAttackFunc(fn AttackFunc) {
	b.attackFunc = fn
}

// SetLaunchFunc sets the projectile callback.
func (b *Brain) SetLaunchFunc(fn LaunchFunc) {
	b.launchFunc = fn
}

// SetAlertFunc sets the ally alert callback.
func (b *Brain) SetAlertFunc(fn AlertFunc) {
	b.alertFunc = fn
}

// SetPresenter sets the presentation sink.
func (b *Brain) SetPresenter(p Presenter) {
	b.presenter = p
}

// SetRand replaces the random source (search points, idle pauses).
func (b *Brain) SetRand(rng *rand.Rand) {
	b.rng = rng
}

// Agent returns the controlled agent.
func (b *Brain) Agent() *model.Agent {
	return b.agent
}

// Hearing returns listener memory.
func (b *Brain) Hearing() *perception.Hearing {
	return &b.hearing
}

// Now returns the brain's simulation clock.
func (b *Brain) Now() time.Duration {
	return b.now
}

// InvestigateTarget returns the point being investigated.
func (b *Brain) InvestigateTarget() model.Location {
	return b.investigatePos
}

// Reconfigure picks up retuned template values after a hot reload.
func (b *Brain) Reconfigure() {
	tmpl := b.agent.Template()
	b.hearing.Reconfigure(tmpl.HearingDecay, tmpl.AlertLinger)
}

// Start starts the AI controller.
func (b *Brain) Start() {
	b.isRunning.Store(true)
	if b.presenter != nil {
		b.presenter.StateChanged(b.agent.ID(), b.agent.State())
	}

	if IsDebugEnabled() {
		slog.Debug("brain started",
			"agent", b.agent.Name(),
			"objectID", b.agent.ID(),
			"kind", b.agent.Kind(),
			"state", b.agent.State())
	}
}

// Stop stops the AI controller.
func (b *Brain) Stop() {
	b.isRunning.Store(false)
	b.setWalking(false)
	b.setFlag(FlagAiming, false)

	if IsDebugEnabled() {
		slog.Debug("brain stopped",
			"agent", b.agent.Name(),
			"objectID", b.agent.ID())
	}
}

// State returns current behaviour state.
func (b *Brain) State() model.State {
	return b.agent.State()
}

// Tick performs one update: perception, reaction, then the state handler.
func (b *Brain) Tick(dt time.Duration) {
	a := b.agent
	if !b.isRunning.Load() || a.IsDead() || dt <= 0 {
		return
	}

	b.now += dt
	a.Health().Tick(dt)
	b.cooldown = max(b.cooldown-dt, 0)
	b.actionLock = max(b.actionLock-dt, 0)
	b.checkEnrage()

	target, _ := b.lookupTarget()
	res := b.perceive(target)
	b.visible = res.Visible()
	b.hearing.Tick(dt, b.visible)
	b.react(res)

	switch a.State() {
	case model.StatePatrolling:
		b.thinkPatrol(dt)
	case model.StateInvestigating:
		b.thinkInvestigate(dt)
	case model.StateChasing:
		b.thinkChase(dt, target)
	case model.StateSearching:
		b.thinkSearch(dt)
	case model.StateAttacking:
		b.thinkAttack(dt, target)
	}
}

// OnSoundHeard reacts to a sound only when it strictly exceeds the hearing
// threshold. Sounds pull Patrolling and Investigating agents toward pos;
// pursuing agents ignore them.
func (b *Brain) OnSoundHeard(pos model.Location, intensity float64) bool {
	a := b.agent
	if a.IsDead() || !perception.Reacts(intensity, a.Template().HearingThreshold) {
		return false
	}
	b.hearing.Hear(intensity)

	switch a.State() {
	case model.StatePatrolling, model.StateInvestigating:
		b.investigate(pos)
		if IsDebugEnabled() {
			slog.Debug("agent heard sound",
				"agent", a.Name(),
				"objectID", a.ID(),
				"intensity", intensity,
				"x", pos.X,
				"y", pos.Y)
		}
		return true
	default:
		return false
	}
}

// OnAlerted pushes the agent into Investigating at pos unless it is
// already Chasing or Attacking. Repeated alerts overwrite the investigation
// target.
func (b *Brain) OnAlerted(pos model.Location) bool {
	a := b.agent
	if a.IsDead() || a.State().Engaged() {
		return false
	}
	b.investigate(pos)
	return true
}

// NotifyDamage turns an unaware agent hostile toward its attacker.
func (b *Brain) NotifyDamage(attackerID uint32, from model.Location) {
	a := b.agent
	if !b.isRunning.Load() || a.IsDead() {
		return
	}
	if a.State().Engaged() {
		return
	}

	a.Remember(from, b.now)
	b.engage(from)

	if IsDebugEnabled() {
		slog.Debug("agent provoked",
			"agent", a.Name(),
			"objectID", a.ID(),
			"attackerID", attackerID)
	}
}

// NotifyDeath presents the Dead state the resolver set and drops the
// movement and aiming flags. Later calls do nothing.
func (b *Brain) NotifyDeath() {
	a := b.agent
	if !a.IsDead() || b.deathShown {
		return
	}
	b.deathShown = true
	b.setWalking(false)
	b.setFlag(FlagAiming, false)
	if b.presenter != nil {
		b.presenter.StateChanged(a.ID(), model.StateDead)
	}

	if IsDebugEnabled() {
		slog.Debug("agent state changed",
			"agent", a.Name(),
			"objectID", a.ID(),
			"to", model.StateDead)
	}
}

func (b *Brain) lookupTarget() (*model.Target, bool) {
	if b.targetFunc == nil {
		return nil, false
	}
	t, ok := b.targetFunc()
	if !ok || t == nil {
		return nil, false
	}
	return t, true
}

func (b *Brain) perceive(target *model.Target) perception.Result {
	if target == nil || target.IsDead() {
		return perception.Result{}
	}
	a := b.agent
	tmpl := a.Template()
	params := perception.VisionParams{
		SightRange:      a.SightRange(),
		ViewAngle:       tmpl.ViewAngle,
		PeripheralAngle: tmpl.PeripheralAngle,
	}
	d := perception.Detect(a.Location(), target.Location(), params, b.occluder)
	if d == perception.DetectionNone {
		return perception.Result{}
	}
	return perception.Result{Detection: d, LastKnown: target.Location(), LastSeenAt: b.now}
}

// react applies detection before the state handler runs, so a sighting
// pre-empts dwell timers and half-finished rotations.
func (b *Brain) react(res perception.Result) {
	a := b.agent
	switch res.Detection {
	case perception.DetectionCentral:
		a.Remember(res.LastKnown, res.LastSeenAt)
		if b.alertFunc != nil {
			b.alertFunc(a, res.LastKnown)
		}
		switch a.State() {
		case model.StatePatrolling, model.StateInvestigating, model.StateSearching:
			b.engage(res.LastKnown)
		}

	case perception.DetectionPeripheral:
		switch a.State() {
		case model.StateChasing, model.StateSearching, model.StateAttacking:
			a.Remember(res.LastKnown, res.LastSeenAt)
		default:
			b.OnSoundHeard(res.LastKnown, perception.PeripheralIntensity)
		}
	}
}

func (b *Brain) engage(pos model.Location) {
	if b.inAttackRange(pos) {
		b.setState(model.StateAttacking)
		return
	}
	b.setState(model.StateChasing)
}

func (b *Brain) investigate(pos model.Location) {
	b.investigatePos = pos
	b.investigatePhase = phaseRotate
	b.phaseTime = 0
	b.setState(model.StateInvestigating)
}

func (b *Brain) disengage() {
	b.agent.Forget()
	b.setFlag(FlagAiming, false)
	b.setState(model.StatePatrolling)
}

// thinkPatrol walks the route, dwelling at every waypoint. Posted agents
// sweep their heading instead. A lingering sound holds the agent in place.
func (b *Brain) thinkPatrol(dt time.Duration) {
	a := b.agent
	tmpl := a.Template()

	if b.hearing.Holding() {
		b.setWalking(false)
		return
	}
	if !a.Capabilities().CanPatrol {
		b.sweep(dt)
		return
	}

	route := a.Route()
	if route == nil {
		b.setWalking(false)
		return
	}
	wp, ok := route.Current()
	if !ok {
		b.setWalking(false)
		return
	}

	if b.dwelling {
		b.dwell -= dt
		if b.dwell > 0 {
			return
		}
		b.dwelling = false
		route.Advance()
		return
	}

	if a.Location().Distance(wp) < tmpl.PatrolArrival {
		b.dwelling = true
		b.dwell = tmpl.DwellTime
		b.setWalking(false)
		return
	}
	b.stepToward(wp, dt)
}

func (b *Brain) sweep(dt time.Duration) {
	b.sweepTimer += dt
	if b.sweepTimer >= b.agent.Template().DwellTime {
		b.sweepTimer = 0
		b.sweepIndex = (b.sweepIndex + 1) % len(sweepAngles)
	}
	b.rotateToward(b.postHeading+model.Radians(sweepAngles[b.sweepIndex]), dt)
}

// thinkInvestigate turns toward the point (bounded by MaxRotationTime),
// walks there, then waits InvestigationTime before giving up.
func (b *Brain) thinkInvestigate(dt time.Duration) {
	a := b.agent
	tmpl := a.Template()
	b.phaseTime += dt

	switch b.investigatePhase {
	case phaseRotate:
		if a.Location().Distance(b.investigatePos) == 0 {
			b.nextInvestigatePhase()
			return
		}
		rest := b.rotateToward(a.Location().HeadingTo(b.investigatePos), dt)
		if rest < model.Radians(investigateFacing) || b.phaseTime >= tmpl.MaxRotationTime {
			b.nextInvestigatePhase()
		}

	case phaseWalk:
		if tmpl.MoveSpeed == 0 || a.Location().Distance(b.investigatePos) <= tmpl.InvestigateArrival {
			b.setWalking(false)
			b.nextInvestigatePhase()
			return
		}
		b.stepToward(b.investigatePos, dt)

	case phaseWait:
		if b.phaseTime >= tmpl.InvestigationTime && !b.hearing.Holding() {
			b.setState(model.StatePatrolling)
		}
	}
}

func (b *Brain) nextInvestigatePhase() {
	b.phaseTime = 0
	if b.investigatePhase < phaseWait {
		b.investigatePhase++
	}
}

// thinkChase follows the live target position. Losing sight for longer
// than ChaseGrace drops to Searching.
func (b *Brain) thinkChase(dt time.Duration, target *model.Target) {
	a := b.agent
	tmpl := a.Template()

	if b.now-a.LastSeenAt() > tmpl.ChaseGrace {
		b.setWalking(false)
		b.setState(model.StateSearching)
		return
	}
	if target == nil {
		return
	}
	if target.IsDead() {
		b.setWalking(false)
		b.disengage()
		return
	}

	tl := target.Location()
	if b.inAttackRange(tl) {
		b.setWalking(false)
		b.setState(model.StateAttacking)
		return
	}
	b.stepToward(tl, dt)
}

// thinkSearch wanders between random points around the last known
// position until SearchGrace has passed since the last sighting.
func (b *Brain) thinkSearch(dt time.Duration) {
	a := b.agent
	tmpl := a.Template()

	last, ok := a.LastKnown()
	if !ok || b.now-a.LastSeenAt() > tmpl.SearchGrace {
		b.setWalking(false)
		b.disengage()
		return
	}

	if tmpl.MoveSpeed == 0 {
		b.rotateToward(a.Location().HeadingTo(last), dt)
		return
	}

	if !b.hasSearchPoint {
		b.searchPoint = b.randomPointAround(last, tmpl.SearchRadius)
		b.hasSearchPoint = true
	}
	if b.stepToward(b.searchPoint, dt) || a.Location().Distance(b.searchPoint) <= tmpl.InvestigateArrival {
		b.hasSearchPoint = false
	}
}

// thinkAttack holds position, faces the target and attacks off cooldown.
func (b *Brain) thinkAttack(dt time.Duration, target *model.Target) {
	a := b.agent
	tmpl := a.Template()

	if target == nil {
		if b.now-a.LastSeenAt() > tmpl.ChaseGrace {
			b.setFlag(FlagAiming, false)
			b.setState(model.StateSearching)
		}
		return
	}
	if target.IsDead() {
		b.disengage()
		return
	}

	tl := target.Location()
	b.face(tl)
	if b.actionLock > 0 {
		return
	}

	if !b.inAttackRange(tl) {
		b.setFlag(FlagAiming, false)
		b.setState(model.StateChasing)
		return
	}
	if b.now-a.LastSeenAt() > tmpl.ChaseGrace {
		b.setFlag(FlagAiming, false)
		b.setState(model.StateSearching)
		return
	}

	caps := a.Capabilities()
	dist := a.Location().Distance(tl)
	if b.cooldown > 0 {
		if caps.CanShootRanged {
			b.evade(tl, dist, dt)
		}
		return
	}

	switch {
	case caps.CanMeleeAttack && dist <= tmpl.MeleeRange:
		if b.attackFunc != nil {
			b.attackFunc(a, target)
		}
		b.trigger(TriggerAttack)
		b.afterAction()
	case caps.CanShootRanged && b.visible:
		b.setFlag(FlagAiming, true)
		if b.launchFunc != nil {
			b.launchFunc(a, target, tmpl.Projectile)
		}
		b.trigger(TriggerShoot)
		b.afterAction()
	}
}

// evade backs a ranged agent away from a target that came closer than
// EvadeDistance but is still outside melee range.
func (b *Brain) evade(tl model.Location, dist float64, dt time.Duration) {
	a := b.agent
	tmpl := a.Template()
	if tmpl.EvadeDistance <= 0 || dist >= tmpl.EvadeDistance || dist == 0 {
		return
	}
	if a.Capabilities().CanMeleeAttack && dist <= tmpl.MeleeRange {
		return
	}

	loc := a.Location()
	dx, dy, _ := tl.DirectionTo(loc)
	step := tmpl.MoveSpeed * dt.Seconds()
	b.move(loc.WithCoordinates(loc.X+dx*step, loc.Y+dy*step))
}

// hold runs the clocks of a tick in which the brain makes no decision.
func (b *Brain) hold(dt time.Duration) {
	b.now += dt
	b.agent.Health().Tick(dt)
	b.cooldown = max(b.cooldown-dt, 0)
	b.actionLock = max(b.actionLock-dt, 0)
}

func (b *Brain) afterAction() {
	tmpl := b.agent.Template()
	b.cooldown = tmpl.AttackCooldown
	b.actionLock = tmpl.ActionDuration + b.idlePause()
}

func (b *Brain) idlePause() time.Duration {
	tmpl := b.agent.Template()
	spread := tmpl.IdleMax - tmpl.IdleMin
	if spread <= 0 {
		return tmpl.IdleMin
	}
	return tmpl.IdleMin + time.Duration(b.rng.Int64N(int64(spread)+1))
}

// inAttackRange reports whether pos is close enough to start attacking.
// Melee-only agents need the target inside melee range.
func (b *Brain) inAttackRange(pos model.Location) bool {
	a := b.agent
	caps := a.Capabilities()
	if !caps.CanAttack() {
		return false
	}
	reach := a.AttackRange()
	if !caps.CanShootRanged {
		reach = min(reach, a.Template().MeleeRange)
	}
	return a.Location().Distance(pos) <= reach
}

func (b *Brain) checkEnrage() {
	a := b.agent
	if !a.CheckEnrage() {
		return
	}
	b.setFlag(FlagEnraged, true)
	slog.Info("agent enraged",
		"agent", a.Name(),
		"objectID", a.ID(),
		"health", a.Health().Current(),
		"sightRange", a.SightRange(),
		"attackRange", a.AttackRange())
}

func (b *Brain) randomPointAround(center model.Location, radius float64) model.Location {
	angle := b.rng.Float64() * 2 * math.Pi
	r := radius * math.Sqrt(b.rng.Float64())
	return model.NewLocation(center.X+r*math.Cos(angle), center.Y+r*math.Sin(angle), 0)
}

// stepToward moves at MoveSpeed and reports arrival.
func (b *Brain) stepToward(dest model.Location, dt time.Duration) bool {
	step := b.agent.Template().MoveSpeed * dt.Seconds()
	if step <= 0 {
		return false
	}
	next, arrived := b.agent.Location().Step(dest, step)
	b.move(next)
	b.setWalking(!arrived)
	return arrived
}

// rotateToward turns at RotationSpeed and returns the remaining angle in radians.
func (b *Brain) rotateToward(heading float64, dt time.Duration) float64 {
	loc := b.agent.Location()
	step := model.Radians(b.agent.Template().RotationSpeed) * dt.Seconds()
	loc.Heading = model.RotateToward(loc.Heading, heading, step)
	b.move(loc)
	return math.Abs(model.NormalizeAngle(heading - loc.Heading))
}

func (b *Brain) face(pos model.Location) {
	loc := b.agent.Location()
	if loc.Distance(pos) == 0 {
		return
	}
	b.move(loc.WithHeading(loc.HeadingTo(pos)))
}

func (b *Brain) move(loc model.Location) {
	if b.moveFunc != nil {
		b.moveFunc(b.agent, loc)
		return
	}
	b.agent.SetLocation(loc)
}

func (b *Brain) setState(s model.State) bool {
	a := b.agent
	old := a.State()
	if !a.SetState(s) {
		return false
	}

	switch s {
	case model.StatePatrolling:
		b.dwelling = false
	case model.StateSearching:
		b.hasSearchPoint = false
	}

	if b.presenter != nil {
		b.presenter.StateChanged(a.ID(), s)
	}
	if IsDebugEnabled() {
		slog.Debug("agent state changed",
			"agent", a.Name(),
			"objectID", a.ID(),
			"from", old,
			"to", s)
	}
	return true
}

func (b *Brain) setWalking(on bool) {
	if b.walking == on {
		return
	}
	b.walking = on
	b.setFlag(FlagWalking, on)
}

func (b *Brain) setFlag(flag string, on bool) {
	if b.presenter != nil {
		b.presenter.SetFlag(b.agent.ID(), flag, on)
	}
}

func (b *Brain) trigger(name string) {
	if b.presenter != nil {
		b.presenter.Trigger(b.agent.ID(), name)
	}
}
